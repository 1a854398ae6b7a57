package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// GeoPoint is a forecast location. Timezone is an IANA name used to cut the
// forecast into calendar days; empty means UTC.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// Loc resolves the point's timezone, falling back to UTC.
func (p GeoPoint) Loc() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ForecastRequest is the message consumed from the source topic.
type ForecastRequest struct {
	ID string `json:"id,omitempty"`
	GeoPoint
	RequestedAt time.Time `json:"requested_at,omitzero"`
}

// NewForecastRequest creates a request for a point with a fresh id, stamped
// with the current time.
func NewForecastRequest(p GeoPoint) ForecastRequest {
	return ForecastRequest{ID: uuid.NewString(), GeoPoint: p, RequestedAt: Now()}
}

// ParseForecastRequest decodes and validates a raw source message. Requests
// without an id get one so the output can always be correlated.
func ParseForecastRequest(raw RawEvent) (ForecastRequest, error) {
	var req ForecastRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ForecastRequest{}, fmt.Errorf("parse forecast request: %w", err)
	}
	if err := ValidatePoint(req.GeoPoint); err != nil {
		return ForecastRequest{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req, nil
}

// ValidatePoint checks coordinate ranges and the timezone name.
func ValidatePoint(p GeoPoint) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid forecast request: %w", err)
	}
	return nil
}
