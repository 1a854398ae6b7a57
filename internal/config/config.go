package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// MET Norway API configuration.
	MetnoBaseURL   string
	MetnoUserAgent string
	MetnoTimeout   time.Duration

	// Scheduled requests. Disabled when SchedulePoints is empty.
	ScheduleInterval time.Duration
	SchedulePoints   []domain.GeoPoint
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	metnoTimeout, err := parsePositiveDuration("METNO_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	scheduleInterval, err := parsePositiveDuration("SCHEDULE_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	points, err := ParsePoints(os.Getenv("SCHEDULE_POINTS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "forecast-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "hourly-forecasts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "metno-forecast-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MetnoBaseURL:   sharedcfg.EnvOrDefault("METNO_BASE_URL", "https://api.met.no/weatherapi/locationforecast/2.0/classic"),
		MetnoUserAgent: os.Getenv("METNO_USER_AGENT"),
		MetnoTimeout:   metnoTimeout,

		ScheduleInterval: scheduleInterval,
		SchedulePoints:   points,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if strings.TrimSpace(cfg.MetnoUserAgent) == "" {
		return nil, errors.New("METNO_USER_AGENT is required by the MET Norway terms of service")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// ParsePoints parses "lat,lon[,timezone]" entries separated by semicolons,
// e.g. "59.9139,10.7522,Europe/Oslo;60.39,5.32".
func ParsePoints(s string) ([]domain.GeoPoint, error) {
	var points []domain.GeoPoint
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid SCHEDULE_POINTS entry %q", entry)
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat != nil || errLon != nil {
			return nil, fmt.Errorf("invalid SCHEDULE_POINTS coordinates %q", entry)
		}
		p := domain.GeoPoint{Latitude: lat, Longitude: lon}
		if len(parts) == 3 {
			p.Timezone = strings.TrimSpace(parts[2])
		}
		if err := domain.ValidatePoint(p); err != nil {
			return nil, fmt.Errorf("invalid SCHEDULE_POINTS entry %q: %w", entry, err)
		}
		points = append(points, p)
	}
	return points, nil
}
