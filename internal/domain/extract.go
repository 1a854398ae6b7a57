package domain

import (
	"maps"
	"time"
)

// HorizonSpan bounds the forecast window relative to the first record.
const HorizonSpan = 11 * 24 * time.Hour

// pairedProperties are always taken from the instant record when it has them.
var pairedProperties = []string{"symbol", "precipitation", "maxTemperature", "minTemperature"}

// RawRecord is a merged but not yet normalized record: the interval record's
// payload overlaid with its paired instant record.
type RawRecord struct {
	Time     int64 // unix seconds of the interval record's start
	Location Location
	Paired   bool
}

// Extraction is the outcome of one extractor pass.
type Extraction struct {
	Records []RawRecord
	Horizon time.Time

	Unparseable int  // entries skipped because no timestamp could be parsed
	Orphans     int  // instant records no interval record claimed
	Duplicates  int  // interval records sharing a start with an earlier one; each is still emitted
	Truncated   bool // true when the horizon stopped the scan
}

// ExtractTimeSeries merges the document's time series into ordered records
// bounded by the horizon. It returns false when the document holds no data.
func ExtractTimeSeries(doc *Document) ([]RawRecord, bool) {
	ex, ok := Extract(doc)
	if !ok {
		return nil, false
	}
	return ex.Records, true
}

// Extract is ExtractTimeSeries with bookkeeping for logging and metrics.
//
// An interval record is merged with the instant record that directly follows
// it. When the next entry is not an instant record, the first unclaimed
// instant record starting at the same time is used instead.
func Extract(doc *Document) (Extraction, bool) {
	if doc == nil || len(doc.Times) == 0 {
		return Extraction{}, false
	}

	periods := make([]TimePeriod, len(doc.Times))
	for i, raw := range doc.Times {
		periods[i] = ClassifyPeriod(raw)
	}

	var ex Extraction
	start, ok := firstStart(periods)
	if !ok {
		return Extraction{}, false
	}
	ex.Horizon = start.Add(HorizonSpan)

	partners, claimed := pairAdjacent(periods)
	spare := spareInstants(periods, claimed)
	seen := make(map[int64]bool, len(periods))

	ex.Records = make([]RawRecord, 0, len(periods)/2+1)
	scanned := len(periods)
	for i := range periods {
		p := &periods[i]
		if p.Kind != IntervalPeriod {
			continue
		}
		if !p.Valid {
			ex.Unparseable++
			continue
		}
		if p.At.After(ex.Horizon) {
			ex.Truncated = true
			scanned = i
			break
		}

		key := p.At.Unix()
		partner := partners[i]
		if partner == nil {
			if j, ok := spare.take(key); ok {
				partner = &periods[j]
				claimed[j] = true
			}
		}
		if seen[key] {
			ex.Duplicates++
		}
		seen[key] = true
		ex.Records = append(ex.Records, merge(p, partner))
	}

	for i := range periods[:scanned] {
		if periods[i].Kind != InstantPeriod || claimed[i] {
			continue
		}
		if periods[i].Valid {
			ex.Orphans++
		} else {
			ex.Unparseable++
		}
	}
	return ex, true
}

// firstStart is the start of the first entry with a parseable `from`,
// falling back to the first nominal time when no `from` parses.
func firstStart(periods []TimePeriod) (time.Time, bool) {
	for _, p := range periods {
		if !p.From.IsZero() {
			return p.From, true
		}
	}
	for _, p := range periods {
		if p.Valid {
			return p.At, true
		}
	}
	return time.Time{}, false
}

// pairAdjacent pairs each valid interval record with an instant record that
// immediately follows it. claimed marks the instant records taken.
func pairAdjacent(periods []TimePeriod) (partners []*TimePeriod, claimed []bool) {
	partners = make([]*TimePeriod, len(periods))
	claimed = make([]bool, len(periods))
	for i := 0; i+1 < len(periods); i++ {
		if periods[i].Kind != IntervalPeriod || !periods[i].Valid || periods[i+1].Kind != InstantPeriod {
			continue
		}
		partners[i] = &periods[i+1]
		claimed[i+1] = true
		i++
	}
	return partners, claimed
}

// instantIndex queues unclaimed instant records by nominal time, in
// document order.
type instantIndex map[int64][]int

func spareInstants(periods []TimePeriod, claimed []bool) instantIndex {
	idx := make(instantIndex)
	for i, p := range periods {
		if p.Kind == InstantPeriod && p.Valid && !claimed[i] {
			key := p.At.Unix()
			idx[key] = append(idx[key], i)
		}
	}
	return idx
}

func (idx instantIndex) take(key int64) (int, bool) {
	queue := idx[key]
	if len(queue) == 0 {
		return 0, false
	}
	idx[key] = queue[1:]
	return queue[0], true
}

func merge(base, partner *TimePeriod) RawRecord {
	loc := Location{
		Attrs:      maps.Clone(base.Location.Attrs),
		Properties: maps.Clone(base.Location.Properties),
	}
	if loc.Properties == nil {
		loc.Properties = make(map[string]Property)
	}

	if partner != nil {
		from := partner.Location.Properties
		for _, name := range pairedProperties {
			if p, ok := from[name]; ok {
				loc.Properties[name] = p
			}
		}
		for name, p := range from {
			if _, ok := loc.Properties[name]; !ok {
				loc.Properties[name] = p
			}
		}
	}

	return RawRecord{
		Time:     base.At.Unix(),
		Location: loc,
		Paired:   partner != nil,
	}
}
