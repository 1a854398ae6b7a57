package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ForecastEvent is the forecast published for one request.
type ForecastEvent struct {
	RequestID   string    `json:"request_id"`
	Point       GeoPoint  `json:"point"`
	RequestedAt time.Time `json:"requested_at,omitzero"`
	GeneratedAt time.Time `json:"generated_at"`
	ForecastResult
}

// NewForecastEvent stamps a forecast result with its request and the time.
func NewForecastEvent(req ForecastRequest, result ForecastResult) ForecastEvent {
	return ForecastEvent{
		RequestID:      req.ID,
		Point:          req.GeoPoint,
		RequestedAt:    req.RequestedAt,
		GeneratedAt:    Now(),
		ForecastResult: result,
	}
}

// SerializeForecastEvent marshals a forecast into an output message keyed by
// its point, so every forecast for a location lands on the same partition.
func SerializeForecastEvent(event ForecastEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize forecast event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(PointKey(event.Point)),
		Value: data,
		Headers: map[string]string{
			"request_id":   event.RequestID,
			"units":        event.Units,
			"generated_at": event.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}

// PointKey is a deterministic id for a location, rounded to the four
// decimals the provider resolves.
func PointKey(p GeoPoint) string {
	input := fmt.Sprintf("%.4f|%.4f", p.Latitude, p.Longitude)
	hash := sha256.Sum256([]byte(input))
	return "point-" + hex.EncodeToString(hash[:8])
}
