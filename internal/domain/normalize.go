package domain

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// NumericFields lists the property sub-fields that carry numbers in the feed.
// Every other sub-field (unit, name, code, ...) stays text.
var NumericFields = []string{"percent", "value", "mps", "number", "beaufort", "deg"}

// geoAttributes are dropped from every record; the point is already known.
var geoAttributes = []string{"altitude", "latitude", "longitude"}

// IsNumericField reports whether a property sub-field is coerced to float64.
func IsNumericField(name string) bool {
	return slices.Contains(NumericFields, name)
}

// Measurement is one normalized property of a record.
type Measurement struct {
	Values map[string]float64 // NaN when the feed value was not a number
	Attrs  map[string]string
}

// Value returns a numeric sub-field. NaN and missing values report false.
func (m Measurement) Value(name string) (float64, bool) {
	v, ok := m.Values[name]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// MergedRecord is the typed output unit of the transformation.
type MergedRecord struct {
	Time         int64
	Measurements map[string]Measurement
	Attributes   map[string]string
}

// Measurement looks up a property by element name.
func (r MergedRecord) Measurement(name string) (Measurement, bool) {
	m, ok := r.Measurements[name]
	return m, ok
}

// Value is shorthand for Measurement(property).Value(field).
func (r MergedRecord) Value(property, field string) (float64, bool) {
	m, ok := r.Measurements[property]
	if !ok {
		return 0, false
	}
	return m.Value(field)
}

// Normalize builds a MergedRecord from a raw merged record. Geolocation
// attributes and property ids are dropped and allow-listed sub-fields are
// parsed as numbers. The input is not modified.
func Normalize(rec RawRecord) MergedRecord {
	out := MergedRecord{
		Time:         rec.Time,
		Measurements: make(map[string]Measurement, len(rec.Location.Properties)),
	}

	for name, v := range rec.Location.Attrs {
		if slices.Contains(geoAttributes, name) || name == "time" {
			continue
		}
		if out.Attributes == nil {
			out.Attributes = make(map[string]string)
		}
		out.Attributes[name] = v
	}

	for name, prop := range rec.Location.Properties {
		if name == "time" || len(prop) == 0 {
			continue
		}
		out.Measurements[name] = normalizeProperty(prop)
	}
	return out
}

func normalizeProperty(prop Property) Measurement {
	var m Measurement
	for field, raw := range prop {
		if field == "id" {
			continue
		}
		if IsNumericField(field) {
			if m.Values == nil {
				m.Values = make(map[string]float64)
			}
			m.Values[field] = parseNumber(raw)
			continue
		}
		if m.Attrs == nil {
			m.Attrs = make(map[string]string)
		}
		m.Attrs[field] = raw
	}
	return m
}

// parseNumber returns NaN for anything that is not a decimal number.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// MarshalJSON flattens the record into {"time":..., "<property>":{...}}.
// NaN values are written as null.
func (r MergedRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Measurements)+len(r.Attributes)+1)
	for k, v := range r.Attributes {
		out[k] = v
	}
	for name, m := range r.Measurements {
		fields := make(map[string]any, len(m.Values)+len(m.Attrs))
		for k, v := range m.Attrs {
			fields[k] = v
		}
		for k, v := range m.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				fields[k] = nil
				continue
			}
			fields[k] = v
		}
		out[name] = fields
	}
	out["time"] = r.Time
	return json.Marshal(out)
}
