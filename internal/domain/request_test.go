package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForecastRequest(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    GeoPoint
		wantID  string
		wantErr bool
	}{
		{
			name:   "full request",
			value:  `{"id":"req-1","latitude":59.9139,"longitude":10.7522,"timezone":"Europe/Oslo"}`,
			want:   GeoPoint{Latitude: 59.9139, Longitude: 10.7522, Timezone: "Europe/Oslo"},
			wantID: "req-1",
		},
		{
			name:  "no timezone",
			value: `{"id":"req-2","latitude":-33.86,"longitude":151.2}`,
			want:  GeoPoint{Latitude: -33.86, Longitude: 151.2},
		},
		{
			name:  "bounds are inclusive",
			value: `{"latitude":90,"longitude":-180}`,
			want:  GeoPoint{Latitude: 90, Longitude: -180},
		},
		{name: "latitude out of range", value: `{"latitude":90.5,"longitude":0}`, wantErr: true},
		{name: "longitude out of range", value: `{"latitude":0,"longitude":181}`, wantErr: true},
		{name: "unknown timezone", value: `{"latitude":0,"longitude":0,"timezone":"Mars/Olympus"}`, wantErr: true},
		{name: "not json", value: `lat=1;lon=2`, wantErr: true},
		{name: "wrong type", value: `{"latitude":"north","longitude":0}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseForecastRequest(RawEvent{Value: []byte(tt.value)})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.GeoPoint)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, req.ID)
			}
			assert.NotEmpty(t, req.ID)
		})
	}
}

func TestParseForecastRequest_GeneratesID(t *testing.T) {
	req, err := ParseForecastRequest(RawEvent{Value: []byte(`{"latitude":1,"longitude":2}`)})
	require.NoError(t, err)
	_, err = uuid.Parse(req.ID)
	assert.NoError(t, err)
}

func TestNewForecastRequest(t *testing.T) {
	at := time.Date(2024, 4, 26, 5, 59, 30, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at.Add(400 * time.Millisecond)))
	t.Cleanup(func() { SetClock(nil) })

	p := GeoPoint{Latitude: 1, Longitude: 2}
	a, b := NewForecastRequest(p), NewForecastRequest(p)
	assert.Equal(t, p, a.GeoPoint)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, at, a.RequestedAt, "stamped at whole seconds")
}

func TestParseForecastRequest_KeepsRequestedAt(t *testing.T) {
	req, err := ParseForecastRequest(RawEvent{Value: []byte(
		`{"id":"r","latitude":1,"longitude":2,"requested_at":"2024-04-26T05:00:00Z"}`)})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 26, 5, 0, 0, 0, time.UTC), req.RequestedAt)

	data, err := json.Marshal(ForecastRequest{ID: "r", GeoPoint: GeoPoint{Latitude: 1, Longitude: 2}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "requested_at")
}

func TestGeoPoint_Loc(t *testing.T) {
	assert.Equal(t, time.UTC, GeoPoint{}.Loc())
	assert.Equal(t, time.UTC, GeoPoint{Timezone: "Nowhere/Special"}.Loc())
	assert.Equal(t, "Europe/Oslo", GeoPoint{Timezone: "Europe/Oslo"}.Loc().String())
}
