package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconForSymbol(t *testing.T) {
	tests := []struct {
		number int
		want   string
	}{
		{1, "clear-day"},
		{101, "clear-night"},
		{2, "partly-cloudy-day"},
		{3, "partly-cloudy-day"},
		{103, "partly-cloudy-night"},
		{4, "cloudy"},
		{15, "fog"},
		{9, "rain"},
		{46, "rain"},
		{12, "sleet"},
		{13, "snow"},
		{50, "snow"},
		{22, "thunderstorm"},
		{0, ""},
		{99, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, IconForSymbol(tt.number))
		})
	}
}

func TestMajorityIcon(t *testing.T) {
	assert.Empty(t, majorityIcon(nil))
	assert.Equal(t, "rain", majorityIcon([]string{"cloudy", "rain", "rain"}))
	assert.Equal(t, "rain", majorityIcon([]string{"cloudy", "rain", "rain", "cloudy"}), "tie goes to the first to reach the count")
}

func TestToHourlyDataBlock(t *testing.T) {
	records := []MergedRecord{
		{
			Time: 100,
			Measurements: map[string]Measurement{
				"symbol":              {Values: map[string]float64{"number": 4}},
				"temperature":         {Values: map[string]float64{"value": 6.1}},
				"dewpointTemperature": {Values: map[string]float64{"value": 1.2}},
				"windSpeed":           {Values: map[string]float64{"mps": 3.4, "beaufort": 3}},
				"windDirection":       {Values: map[string]float64{"deg": 212.4}},
				"cloudiness":          {Values: map[string]float64{"percent": 87.5}},
				"precipitation":       {Values: map[string]float64{"value": 0.4}},
				"humidity":            {Values: map[string]float64{"value": math.NaN()}},
			},
		},
		{Time: 200},
	}

	block := ToHourlyDataBlock(records)

	assert.Equal(t, "cloudy", block.Icon)
	require.Len(t, block.Data, 2)

	p := block.Data[0]
	assert.Equal(t, int64(100), p.Time)
	assert.Equal(t, "cloudy", p.Icon)
	require.NotNil(t, p.Temperature)
	assert.InDelta(t, 6.1, *p.Temperature, 0)
	require.NotNil(t, p.DewPoint)
	assert.InDelta(t, 1.2, *p.DewPoint, 0)
	require.NotNil(t, p.WindSpeed)
	assert.InDelta(t, 3.4, *p.WindSpeed, 0)
	require.NotNil(t, p.Beaufort)
	assert.InDelta(t, 3.0, *p.Beaufort, 0)
	require.NotNil(t, p.WindBearing)
	assert.InDelta(t, 212.4, *p.WindBearing, 0)
	require.NotNil(t, p.CloudCover)
	assert.InDelta(t, 87.5, *p.CloudCover, 0)
	require.NotNil(t, p.Precipitation)
	assert.InDelta(t, 0.4, *p.Precipitation, 0)
	assert.Nil(t, p.Humidity, "NaN is reported as missing")
	assert.Nil(t, p.WindGust)

	empty := block.Data[1]
	assert.Equal(t, int64(200), empty.Time)
	assert.Empty(t, empty.Icon)
	assert.Nil(t, empty.Symbol)
}
