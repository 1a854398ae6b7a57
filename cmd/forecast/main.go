// Command forecast builds the forecast for a single point and prints it as
// JSON. The provider document comes from the MET Norway API or, with -xml,
// from a saved response, which makes it handy for producing test fixtures.
//
// Usage:
//
//	go run ./cmd/forecast -lat 59.9139 -lon 10.7522 -tz Europe/Oslo \
//	  -user-agent "my-app/1.0 ops@example.com"
//
//	go run ./cmd/forecast -xml internal/adapter/metno/testdata/classic.xml \
//	  -records -at 2024-04-26T06:00:00Z -out forecast.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/metno-forecast-etl/internal/adapter/metno"
	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
	"github.com/couchcryptid/metno-forecast-etl/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	lat := flag.Float64("lat", 59.9139, "latitude")
	lon := flag.Float64("lon", 10.7522, "longitude")
	tz := flag.String("tz", "", "IANA timezone for daily aggregation (default UTC)")
	xmlPath := flag.String("xml", "", "read the provider document from a file instead of the API")
	baseURL := flag.String("base-url", metno.DefaultBaseURL, "MET Norway classic endpoint")
	userAgent := flag.String("user-agent", os.Getenv("METNO_USER_AGENT"), "User-Agent sent to MET Norway")
	timeout := flag.Duration("timeout", 10*time.Second, "API request timeout")
	records := flag.Bool("records", false, "print the merged records instead of the forecast")
	at := flag.String("at", "", "fixed RFC3339 generation time for reproducible output")
	out := flag.String("out", "", "write output to a file instead of stdout")
	flag.Parse()

	point := domain.GeoPoint{Latitude: *lat, Longitude: *lon, Timezone: *tz}
	if err := domain.ValidatePoint(point); err != nil {
		return err
	}

	if *at != "" {
		ts, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid -at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(ts))
		defer domain.SetClock(nil)
	}

	doc, err := loadDocument(*xmlPath, *baseURL, *userAgent, *timeout, point)
	if err != nil {
		return err
	}

	var result any
	if *records {
		merged, ok := domain.TransformDocument(doc)
		if !ok {
			return domain.ErrNoForecastData
		}
		result = merged
	} else {
		forecast, err := domain.BuildForecast(doc, point)
		if err != nil {
			return err
		}
		result = domain.NewForecastEvent(domain.NewForecastRequest(point), forecast)
	}

	return writeJSON(*out, result)
}

func loadDocument(path, baseURL, userAgent string, timeout time.Duration, point domain.GeoPoint) (*domain.Document, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return metno.ParseDocument(data)
	}
	if userAgent == "" {
		return nil, errors.New("a -user-agent (or METNO_USER_AGENT) is required to call the API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := metno.NewClient(baseURL, userAgent, timeout, observability.NewMetrics(), logger)
	return client.FetchDocument(ctx, point)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
