package metno

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
	"github.com/couchcryptid/metno-forecast-etl/internal/observability"
)

// DefaultBaseURL is the classic XML endpoint of locationforecast 2.0.
const DefaultBaseURL = "https://api.met.no/weatherapi/locationforecast/2.0/classic"

// ErrCircuitOpen is returned while the breaker rejects calls after repeated failures.
var ErrCircuitOpen = errors.New("metno circuit breaker open")

// Client fetches forecasts from the MET Norway API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client. MET Norway rejects requests without an
// identifying User-Agent, so userAgent must be set.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: newBreaker(metrics, logger),
		metrics: metrics,
		logger:  logger,
	}
}

func newBreaker(metrics *observability.Metrics, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "metno",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.BreakerOpen.Set(boolToFloat(to == gobreaker.StateOpen))
		},
	})
}

// FetchDocument fetches and parses the forecast for a point.
func (c *Client) FetchDocument(ctx context.Context, p domain.GeoPoint) (*domain.Document, error) {
	body, err := c.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("parse metno response: %w", err)
	}
	return doc, nil
}

// Fetch returns the raw XML body for a point.
func (c *Client) Fetch(ctx context.Context, p domain.GeoPoint) ([]byte, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(p.Latitude, 'f', 4, 64)},
		"lon": {strconv.FormatFloat(p.Longitude, 'f', 4, 64)},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.FetchRequests.WithLabelValues("rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T from circuit breaker", result)
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metno request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("metno API error: status %d: %s", resp.StatusCode, body)
	}
	if resp.StatusCode == http.StatusNonAuthoritativeInfo {
		// 203 marks a deprecated product version.
		c.logger.Warn("metno endpoint is deprecated", "url", c.baseURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read metno response: %w", err)
	}
	return body, nil
}

// CheckReadiness fails while the breaker is open, so the service reports
// not ready when the provider keeps failing.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
