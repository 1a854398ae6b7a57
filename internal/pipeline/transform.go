package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
	"github.com/couchcryptid/metno-forecast-etl/internal/observability"
)

// ForecastSource fetches and parses the provider document for a point.
type ForecastSource interface {
	FetchDocument(ctx context.Context, p domain.GeoPoint) (*domain.Document, error)
}

// ForecastTransformer implements Transformer by fetching the provider
// document for each request and building its forecast.
type ForecastTransformer struct {
	source  ForecastSource
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a ForecastTransformer backed by source.
func NewTransformer(source ForecastSource, metrics *observability.Metrics, logger *slog.Logger) *ForecastTransformer {
	return &ForecastTransformer{
		source:  source,
		metrics: metrics,
		logger:  logger,
	}
}

// Transform returns domain.ErrNoForecastData when the provider had nothing
// for the requested point.
func (t *ForecastTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseForecastRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	doc, err := t.source.FetchDocument(ctx, req.GeoPoint)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("fetch forecast %s: %w", req.ID, err)
	}

	ex, ok := domain.Extract(doc)
	if !ok {
		return domain.OutputEvent{}, fmt.Errorf("request %s: %w", req.ID, domain.ErrNoForecastData)
	}

	t.metrics.RecordsExtracted.Observe(float64(len(ex.Records)))
	if ex.Orphans > 0 {
		t.metrics.OrphanRecords.Add(float64(ex.Orphans))
	}
	t.logger.Debug("extracted time series",
		"request_id", req.ID,
		"request_age", requestAge(req),
		"records", len(ex.Records),
		"horizon", ex.Horizon,
		"truncated", ex.Truncated,
		"orphans", ex.Orphans,
		"duplicates", ex.Duplicates,
		"unparseable", ex.Unparseable,
	)

	result := domain.ForecastFromExtraction(ex, req.GeoPoint)
	return domain.SerializeForecastEvent(domain.NewForecastEvent(req, result))
}

// requestAge is how long a request waited before its forecast was built,
// or zero when the producer did not stamp it.
func requestAge(req domain.ForecastRequest) time.Duration {
	if req.RequestedAt.IsZero() {
		return 0
	}
	return domain.Now().Sub(req.RequestedAt)
}
