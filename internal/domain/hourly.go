package domain

// HourlyDataPoint is one hour of the public forecast. Pointer fields are nil
// when the feed did not carry the value or it was not a number.
type HourlyDataPoint struct {
	Time           int64    `json:"time"`
	Icon           string   `json:"icon,omitempty"`
	Symbol         *float64 `json:"symbol,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	TemperatureMin *float64 `json:"temperatureMin,omitempty"`
	TemperatureMax *float64 `json:"temperatureMax,omitempty"`
	DewPoint       *float64 `json:"dewPoint,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"` // percent
	Pressure       *float64 `json:"pressure,omitempty"` // hPa
	WindSpeed      *float64 `json:"windSpeed,omitempty"`
	WindGust       *float64 `json:"windGust,omitempty"`
	WindBearing    *float64 `json:"windBearing,omitempty"`
	Beaufort       *float64 `json:"beaufort,omitempty"`
	CloudCover     *float64 `json:"cloudCover,omitempty"` // percent
	Fog            *float64 `json:"fog,omitempty"`        // percent
	Precipitation  *float64 `json:"precipIntensity,omitempty"`
}

// HourlyDataBlock groups hourly points under a summary icon.
type HourlyDataBlock struct {
	Icon string            `json:"icon,omitempty"`
	Data []HourlyDataPoint `json:"data"`
}

// ToHourlyDataBlock maps merged records to hourly points, keeping order.
func ToHourlyDataBlock(records []MergedRecord) HourlyDataBlock {
	data := make([]HourlyDataPoint, len(records))
	icons := make([]string, 0, len(records))
	for i, r := range records {
		data[i] = toHourlyDataPoint(r)
		if data[i].Icon != "" {
			icons = append(icons, data[i].Icon)
		}
	}
	return HourlyDataBlock{
		Icon: majorityIcon(icons),
		Data: data,
	}
}

func toHourlyDataPoint(r MergedRecord) HourlyDataPoint {
	value := func(property, field string) *float64 {
		v, ok := r.Value(property, field)
		if !ok {
			return nil
		}
		return &v
	}

	p := HourlyDataPoint{
		Time:           r.Time,
		Symbol:         value("symbol", "number"),
		Temperature:    value("temperature", "value"),
		TemperatureMin: value("minTemperature", "value"),
		TemperatureMax: value("maxTemperature", "value"),
		DewPoint:       value("dewpointTemperature", "value"),
		Humidity:       value("humidity", "value"),
		Pressure:       value("pressure", "value"),
		WindSpeed:      value("windSpeed", "mps"),
		WindGust:       value("windGust", "mps"),
		WindBearing:    value("windDirection", "deg"),
		Beaufort:       value("windSpeed", "beaufort"),
		CloudCover:     value("cloudiness", "percent"),
		Fog:            value("fog", "percent"),
		Precipitation:  value("precipitation", "value"),
	}
	if p.Symbol != nil {
		p.Icon = IconForSymbol(int(*p.Symbol))
	}
	return p
}

// IconForSymbol maps a MET Norway legacy weather symbol number to an icon
// name. Night variants are offset by 100.
func IconForSymbol(number int) string {
	night := number > 100
	if night {
		number -= 100
	}

	switch number {
	case 1:
		if night {
			return "clear-night"
		}
		return "clear-day"
	case 2, 3:
		if night {
			return "partly-cloudy-night"
		}
		return "partly-cloudy-day"
	case 4:
		return "cloudy"
	case 15:
		return "fog"
	case 5, 9, 10, 40, 41, 46:
		return "rain"
	case 7, 12, 42, 43, 47, 48:
		return "sleet"
	case 8, 13, 44, 45, 49, 50:
		return "snow"
	case 6, 11, 14, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34:
		return "thunderstorm"
	default:
		return ""
	}
}

// majorityIcon returns the most frequent icon; on a tie the icon that
// reached the count first wins.
func majorityIcon(icons []string) string {
	counts := make(map[string]int, len(icons))
	best, bestCount := "", 0
	for _, icon := range icons {
		counts[icon]++
		if counts[icon] > bestCount {
			best, bestCount = icon, counts[icon]
		}
	}
	return best
}
