// Package scheduler periodically publishes forecast requests for a fixed set
// of points so their forecasts stay fresh without an external producer.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
	"github.com/couchcryptid/metno-forecast-etl/internal/observability"
)

const publishTimeout = 30 * time.Second

// RequestPublisher writes forecast requests to the source topic.
type RequestPublisher interface {
	PublishRequests(ctx context.Context, reqs []domain.ForecastRequest) error
}

// Scheduler enqueues one request per configured point on every tick.
type Scheduler struct {
	scheduler *gocron.Scheduler
	publisher RequestPublisher
	points    []domain.GeoPoint
	interval  time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Scheduler. It does nothing until Start is called.
func New(points []domain.GeoPoint, interval time.Duration, publisher RequestPublisher, metrics *observability.Metrics, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		publisher: publisher,
		points:    points,
		interval:  interval,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start registers the job and runs it in the background. The first run
// happens immediately.
func (s *Scheduler) Start() error {
	if len(s.points) == 0 {
		s.logger.Info("scheduler disabled, no points configured")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("publish scheduled requests failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("scheduler started", "points", len(s.points), "interval", s.interval)
	s.scheduler.StartAsync()
	return nil
}

// RunOnce publishes a fresh request for every configured point.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	reqs := make([]domain.ForecastRequest, len(s.points))
	for i, p := range s.points {
		reqs[i] = domain.NewForecastRequest(p)
	}
	if err := s.publisher.PublishRequests(ctx, reqs); err != nil {
		return err
	}
	s.metrics.RequestsScheduled.Add(float64(len(reqs)))
	s.logger.Debug("published scheduled requests", "count", len(reqs))
	return nil
}

// Stop halts future runs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
