package domain

import "errors"

// NearTermSize is the number of hourly entries in the near-term view.
const NearTermSize = 24

// UnitsSI tags every forecast built from this provider.
const UnitsSI = "si"

// ErrNoForecastData signals that the provider document held no time series.
// It is an expected outcome, not a failure.
var ErrNoForecastData = errors.New("no forecast data")

// NearTerm returns the first NearTermSize elements of s, sharing its storage.
func NearTerm[T any](s []T) []T {
	return s[:min(NearTermSize, len(s))]
}

// TransformDocument runs the extractor and the normalizer over a parsed
// provider document. It returns false when the document holds no data.
func TransformDocument(doc *Document) ([]MergedRecord, bool) {
	raws, ok := ExtractTimeSeries(doc)
	if !ok {
		return nil, false
	}
	return normalizeAll(raws), true
}

func normalizeAll(raws []RawRecord) []MergedRecord {
	out := make([]MergedRecord, len(raws))
	for i, r := range raws {
		out[i] = Normalize(r)
	}
	return out
}

// ForecastResult is the public forecast for one point.
type ForecastResult struct {
	Details DailyDataBlock  `json:"details"`
	Hourly  HourlyDataBlock `json:"hourly"`
	Units   string          `json:"units"`
}

// BuildForecast turns a provider document into a ForecastResult. The hourly
// block holds the near-term view; details are aggregated over the full
// sequence. Returns ErrNoForecastData when the document has no time series.
func BuildForecast(doc *Document, point GeoPoint) (ForecastResult, error) {
	records, ok := TransformDocument(doc)
	if !ok {
		return ForecastResult{}, ErrNoForecastData
	}
	return buildResult(records, point), nil
}

// ForecastFromExtraction builds the forecast from an extractor pass the
// caller already ran, so its bookkeeping can be reported separately.
func ForecastFromExtraction(ex Extraction, point GeoPoint) ForecastResult {
	return buildResult(normalizeAll(ex.Records), point)
}

func buildResult(records []MergedRecord, point GeoPoint) ForecastResult {
	all := ToHourlyDataBlock(records)
	return ForecastResult{
		Details: AggregateDays(all.Data, point.Loc()),
		Hourly: HourlyDataBlock{
			Icon: all.Icon,
			Data: NearTerm(all.Data),
		},
		Units: UnitsSI,
	}
}
