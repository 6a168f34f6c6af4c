// Package fetch retrieves raw tile bytes from remote tile servers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jaennil/guide_helper/tilemap/pkg/config"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
	"github.com/jaennil/guide_helper/tilemap/pkg/metrics"
	"github.com/jaennil/guide_helper/tilemap/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Source returns the bytes behind a tile URL.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", e.Status, e.URL)
}

type HTTPSource struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	referer    string
	logger     logger.Logger
}

var _ Source = (*HTTPSource)(nil)

func NewHTTPSource(cfg config.Upstream, l logger.Logger) *HTTPSource {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &HTTPSource{
		httpClient: &http.Client{
			// zero disables the client timeout
			Timeout: cfg.Timeout,
		},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
		referer:   cfg.Referer,
		logger:    l,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "fetch tile",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", url)),
	)
	defer span.End()

	data, err := s.fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("tile.size", len(data)))
	return data, nil
}

func (s *HTTPSource) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.logger.Error("failed to create request", "error", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Tile usage policies require an identifying User-Agent.
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.referer != "" {
		req.Header.Set("Referer", s.referer)
	}

	s.logger.Debug("fetching from upstream", "url", url)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("failed to fetch from upstream", "url", url, "error", err)
		return nil, fmt.Errorf("failed to fetch tile from upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("upstream returned non-200", "url", url, "status", resp.StatusCode)
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	tileData, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Error("failed to read tile data", "url", url, "error", err)
		return nil, fmt.Errorf("failed to read tile data: %w", err)
	}

	s.logger.Info("fetched tile from upstream", "url", url, "size", len(tileData), "duration", time.Since(start))

	return tileData, nil
}
