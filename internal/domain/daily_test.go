package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestAggregateDays(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)

	// 21:00 and 22:00 UTC on the 26th are 23:00 and 00:00 in Oslo (CEST).
	first := time.Date(2024, time.April, 26, 21, 0, 0, 0, time.UTC)
	points := []HourlyDataPoint{
		{Time: first.Unix(), Icon: "rain", Temperature: f(5), Precipitation: f(1.5), WindSpeed: f(2), Humidity: f(80)},
		{Time: first.Add(time.Hour).Unix(), Icon: "cloudy", Temperature: f(4), TemperatureMin: f(2), Precipitation: f(0.5), WindSpeed: f(4)},
		{Time: first.Add(2 * time.Hour).Unix(), Icon: "cloudy", Temperature: f(3), TemperatureMax: f(7), CloudCover: f(50)},
	}

	block := AggregateDays(points, oslo)

	require.Len(t, block.Data, 2)
	assert.Equal(t, "rain", block.Icon, "one day each, the first day's icon wins the tie")

	day1 := block.Data[0]
	assert.Equal(t, time.Date(2024, time.April, 26, 0, 0, 0, 0, oslo).Unix(), day1.Time)
	assert.Equal(t, 1, day1.Hours)
	assert.Equal(t, "rain", day1.Icon)
	// The hour ending at local midnight still rained on the 26th.
	assert.InDelta(t, 2.0, day1.Precipitation, 0)
	assert.InDelta(t, 5.0, *day1.TemperatureHigh, 0)
	assert.InDelta(t, 5.0, *day1.TemperatureLow, 0)
	assert.InDelta(t, 80.0, *day1.Humidity, 0)

	day2 := block.Data[1]
	assert.Equal(t, time.Date(2024, time.April, 27, 0, 0, 0, 0, oslo).Unix(), day2.Time)
	assert.Equal(t, 2, day2.Hours)
	assert.Equal(t, "cloudy", day2.Icon)
	assert.Zero(t, day2.Precipitation)
	assert.InDelta(t, 7.0, *day2.TemperatureHigh, 0)
	assert.InDelta(t, 2.0, *day2.TemperatureLow, 0)
	assert.InDelta(t, 4.0, *day2.WindSpeed, 0)
	assert.InDelta(t, 50.0, *day2.CloudCover, 0)
	assert.Nil(t, day2.Humidity)
	assert.Nil(t, day2.Pressure)
}

func TestAggregateDays_UTCDefault(t *testing.T) {
	first := time.Date(2024, time.April, 26, 22, 0, 0, 0, time.UTC)
	points := []HourlyDataPoint{
		{Time: first.Unix()},
		{Time: first.Add(time.Hour).Unix()},
		{Time: first.Add(2 * time.Hour).Unix()},
	}

	block := AggregateDays(points, nil)

	require.Len(t, block.Data, 2)
	assert.Equal(t, 2, block.Data[0].Hours)
	assert.Equal(t, 1, block.Data[1].Hours)
	assert.Nil(t, block.Data[0].TemperatureHigh)
	assert.Empty(t, block.Icon)
}

func TestAggregateDays_PrecipitationByPeriodStart(t *testing.T) {
	midnight := time.Date(2024, time.April, 27, 0, 0, 0, 0, time.UTC)
	points := []HourlyDataPoint{
		{Time: midnight.Add(-time.Hour).Unix(), Precipitation: f(0.25)},
		{Time: midnight.Unix(), Precipitation: f(1)},
		{Time: midnight.Add(time.Hour).Unix(), Precipitation: f(2)},
	}

	block := AggregateDays(points, time.UTC)

	require.Len(t, block.Data, 2)
	assert.InDelta(t, 1.25, block.Data[0].Precipitation, 0)
	assert.Equal(t, 1, block.Data[0].Hours)
	assert.InDelta(t, 2.0, block.Data[1].Precipitation, 0)
	assert.Equal(t, 2, block.Data[1].Hours)
}

func TestAggregateDays_PrecipitationBeforeFirstDayDropped(t *testing.T) {
	midnight := time.Date(2024, time.April, 27, 0, 0, 0, 0, time.UTC)
	points := []HourlyDataPoint{
		{Time: midnight.Unix(), Precipitation: f(1)},
		{Time: midnight.Add(time.Hour).Unix(), Precipitation: f(2)},
	}

	block := AggregateDays(points, time.UTC)

	require.Len(t, block.Data, 1)
	assert.Equal(t, midnight.Unix(), block.Data[0].Time)
	assert.InDelta(t, 2.0, block.Data[0].Precipitation, 0)
}

func TestAggregateDays_Empty(t *testing.T) {
	block := AggregateDays(nil, time.UTC)
	assert.Empty(t, block.Data)
}
