package domain

import "time"

// DailyDataPoint summarizes one calendar day of hourly points.
type DailyDataPoint struct {
	Time            int64    `json:"time"` // local midnight, unix seconds
	Icon            string   `json:"icon,omitempty"`
	TemperatureHigh *float64 `json:"temperatureHigh,omitempty"`
	TemperatureLow  *float64 `json:"temperatureLow,omitempty"`
	Precipitation   float64  `json:"precipAccumulation"`
	WindSpeed       *float64 `json:"windSpeed,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	CloudCover      *float64 `json:"cloudCover,omitempty"`
	Pressure        *float64 `json:"pressure,omitempty"`
	Hours           int      `json:"hours"`
}

// DailyDataBlock groups daily summaries under a summary icon.
type DailyDataBlock struct {
	Icon string           `json:"icon,omitempty"`
	Data []DailyDataPoint `json:"data"`
}

type dayBucket struct {
	start    time.Time
	temps    []float64
	winds    []float64
	humidity []float64
	clouds   []float64
	pressure []float64
	precip   float64
	icons    []string
	hours    int
}

// precipitationPeriod is the accumulation window of an hourly precipitation
// value, which ends at the point's time.
const precipitationPeriod = time.Hour

// AggregateDays buckets hourly points by calendar day in loc. Days keep the
// order of the input, which is chronological.
//
// Precipitation is booked to the day its accumulation period began, so the
// hour ending at local midnight counts toward the day before. Amounts for a
// day with no hourly points are dropped.
func AggregateDays(points []HourlyDataPoint, loc *time.Location) DailyDataBlock {
	if loc == nil {
		loc = time.UTC
	}

	var (
		buckets []*dayBucket
		current *dayBucket
	)
	byDay := make(map[int64]*dayBucket)
	for _, p := range points {
		day := startOfDay(time.Unix(p.Time, 0), loc)
		if current == nil || !current.start.Equal(day) {
			current = &dayBucket{start: day}
			buckets = append(buckets, current)
			byDay[day.Unix()] = current
		}
		current.add(p)
	}
	for _, p := range points {
		if p.Precipitation == nil {
			continue
		}
		began := time.Unix(p.Time, 0).Add(-precipitationPeriod)
		if b, ok := byDay[startOfDay(began, loc).Unix()]; ok {
			b.precip += *p.Precipitation
		}
	}

	data := make([]DailyDataPoint, 0, len(buckets))
	icons := make([]string, 0, len(buckets))
	for _, b := range buckets {
		d := b.summary()
		data = append(data, d)
		if d.Icon != "" {
			icons = append(icons, d.Icon)
		}
	}
	return DailyDataBlock{Icon: majorityIcon(icons), Data: data}
}

func (b *dayBucket) add(p HourlyDataPoint) {
	b.hours++
	appendIf := func(dst *[]float64, v *float64) {
		if v != nil {
			*dst = append(*dst, *v)
		}
	}
	appendIf(&b.temps, p.Temperature)
	appendIf(&b.temps, p.TemperatureMin)
	appendIf(&b.temps, p.TemperatureMax)
	appendIf(&b.winds, p.WindSpeed)
	appendIf(&b.humidity, p.Humidity)
	appendIf(&b.clouds, p.CloudCover)
	appendIf(&b.pressure, p.Pressure)
	if p.Icon != "" {
		b.icons = append(b.icons, p.Icon)
	}
}

func (b *dayBucket) summary() DailyDataPoint {
	d := DailyDataPoint{
		Time:          b.start.Unix(),
		Icon:          majorityIcon(b.icons),
		Precipitation: b.precip,
		WindSpeed:     mean(b.winds),
		Humidity:      mean(b.humidity),
		CloudCover:    mean(b.clouds),
		Pressure:      mean(b.pressure),
		Hours:         b.hours,
	}
	if len(b.temps) > 0 {
		hi, lo := b.temps[0], b.temps[0]
		for _, t := range b.temps[1:] {
			hi = max(hi, t)
			lo = min(lo, t)
		}
		d.TemperatureHigh = &hi
		d.TemperatureLow = &lo
	}
	return d
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}
