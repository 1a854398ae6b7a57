package domain

import (
	"strings"
	"time"
)

// Property is one child element of a <location> payload with its XML
// attributes merged in, e.g. <temperature id="TTT" unit="celsius" value="5.2"/>
// becomes {"id":"TTT","unit":"celsius","value":"5.2"}.
type Property map[string]string

// Location is the weakly-typed <location> payload of a time period.
type Location struct {
	// Attrs holds the attributes of the <location> element itself
	// (altitude, latitude, longitude).
	Attrs map[string]string
	// Properties is keyed by child element name.
	Properties map[string]Property
}

// Has reports whether the location carries the named property.
func (l Location) Has(name string) bool {
	_, ok := l.Properties[name]
	return ok
}

// RawTimePeriod is one <time> entry of the provider's time series, exactly as
// the XML parser produced it.
type RawTimePeriod struct {
	From     string
	To       string
	Location Location
}

// Document is a parsed provider response. Times preserves emission order.
type Document struct {
	Times []RawTimePeriod
}

// PeriodKind tags a time period with its record shape.
type PeriodKind int

const (
	// IntervalPeriod entries carry no symbol. They are the base of a merged record.
	IntervalPeriod PeriodKind = iota
	// InstantPeriod entries carry a symbol and are folded into the interval
	// record they follow.
	InstantPeriod
)

func (k PeriodKind) String() string {
	switch k {
	case IntervalPeriod:
		return "interval"
	case InstantPeriod:
		return "instant"
	default:
		return "unknown"
	}
}

// TimePeriod is a classified time period. The kind is fixed when the period
// is built and never re-derived from the payload.
//
// At is the nominal time used when an instant record is not adjacent to an
// interval record. It is the start of the period. An instant record whose
// start does not parse falls back to its end.
type TimePeriod struct {
	Kind     PeriodKind
	From     time.Time // zero when unparseable
	To       time.Time // zero when unparseable
	At       time.Time
	Valid    bool // false when At could not be determined
	Location Location
}

// IntervalRecord builds an interval-shape period from a raw entry.
func IntervalRecord(raw RawTimePeriod) TimePeriod {
	return newTimePeriod(IntervalPeriod, raw)
}

// InstantRecord builds an instant-shape period from a raw entry.
func InstantRecord(raw RawTimePeriod) TimePeriod {
	return newTimePeriod(InstantPeriod, raw)
}

// ClassifyPeriod picks the record shape from the presence of a symbol.
func ClassifyPeriod(raw RawTimePeriod) TimePeriod {
	if raw.Location.Has("symbol") {
		return InstantRecord(raw)
	}
	return IntervalRecord(raw)
}

func newTimePeriod(kind PeriodKind, raw RawTimePeriod) TimePeriod {
	p := TimePeriod{Kind: kind, Location: raw.Location}
	from, fromOK := parsePeriodTime(raw.From)
	to, toOK := parsePeriodTime(raw.To)
	if fromOK {
		p.From = from
	}
	if toOK {
		p.To = to
	}

	switch {
	case fromOK:
		p.At, p.Valid = from, true
	case kind == InstantPeriod && toOK:
		p.At, p.Valid = to, true
	}
	return p
}

// periodTimeLayouts lists the timestamp formats seen in the classic feed.
// Most entries are RFC 3339 in UTC; a few mirrors drop the zone designator.
var periodTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parsePeriodTime parses a `from` or `to` attribute and truncates it to
// whole seconds.
func parsePeriodTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range periodTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), true
		}
	}
	return time.Time{}, false
}
