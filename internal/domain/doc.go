// Package domain models MET Norway locationforecast data and the
// transformation that turns it into an hourly forecast.
//
// # Data Source
//
// Forecasts come from the "classic" XML flavour of the locationforecast 2.0
// API: https://api.met.no/weatherapi/locationforecast/2.0/classic. The
// document root is <weatherdata>, and <product> holds a flat, ordered list of
// <time from="..." to="..."> entries, each wrapping a single <location>.
//
// # Record Shapes
//
// Two kinds of <time> entries are interleaved:
//
//	interval: no <symbol>; wind, temperature, humidity, pressure, clouds, ...
//	instant:  carries <symbol number="3" .../> plus precipitation and
//	          min/max temperature for the period.
//
// The kind is decided once, by [ClassifyPeriod]. Each interval entry becomes
// one merged record, combined with the instant entry that directly follows
// it:
//
//	<time from="06:00" to="06:00">  reading at 06:00
//	<time from="05:00" to="06:00">  symbol for the hour ending 06:00, paired
//	<time from="00:00" to="06:00">  six-hour summary, not paired
//
// When an interval entry is not followed by an instant entry, the first
// unpaired instant entry starting at the same time is used. Instant entries
// that end up unpaired are dropped and counted as orphans.
//
// Measurements are attribute bags:
//
//	<windSpeed id="ff" mps="3.4" beaufort="3" name="Lett bris"/>
//
// Only the sub-fields listed in [NumericFields] are parsed as numbers; the
// rest (unit, name, code) stay text. "id" is dropped.
//
// # Horizon
//
// Records starting more than 11 days ([HorizonSpan]) after the first entry
// are discarded, and the first such record ends the scan.
//
// # Output
//
// [BuildForecast] produces the hourly block (first [NearTermSize] hours),
// a per-day summary of the whole sequence, and the "si" units tag.
// A document without a time series yields [ErrNoForecastData].
package domain
