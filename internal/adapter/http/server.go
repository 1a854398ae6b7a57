package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
)

// ForecastSource fetches the provider document for a point.
type ForecastSource interface {
	FetchDocument(ctx context.Context, p domain.GeoPoint) (*domain.Document, error)
}

// Check is one named readiness dependency.
type Check struct {
	Name    string
	Checker sharedobs.ReadinessChecker
}

// readiness is ready only when every check passes, in order.
type readiness []Check

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.Checker.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return nil
}

// Server exposes health, readiness, metrics and on-demand forecast endpoints.
type Server struct {
	httpServer *http.Server
	source     ForecastSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// /forecast routes. /readyz reports the first failing check by name.
func NewServer(addr string, source ForecastSource, logger *slog.Logger, checks ...Check) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(readiness(checks)))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /forecast", s.handleForecast)

	return s
}

// handleForecast builds the forecast for ?lat=&lon=[&tz=] without going
// through Kafka.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	point, err := pointFromQuery(r.URL.Query())
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := s.source.FetchDocument(r.Context(), point)
	if err != nil {
		s.logger.Warn("forecast fetch failed", "error", err, "lat", point.Latitude, "lon", point.Longitude)
		sharedobs.WriteJSON(w, http.StatusBadGateway, map[string]string{"error": "forecast provider unavailable"})
		return
	}

	result, err := domain.BuildForecast(doc, point)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoForecastData) {
			status = http.StatusNotFound
		}
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, domain.NewForecastEvent(domain.NewForecastRequest(point), result))
}

func pointFromQuery(q url.Values) (domain.GeoPoint, error) {
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return domain.GeoPoint{}, errors.New("lon must be a number")
	}
	p := domain.GeoPoint{Latitude: lat, Longitude: lon, Timezone: q.Get("tz")}
	if err := domain.ValidatePoint(p); err != nil {
		return domain.GeoPoint{}, err
	}
	return p, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
