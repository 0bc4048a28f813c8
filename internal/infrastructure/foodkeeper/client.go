package foodkeeper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/macrolens/shelflife/internal/domain"
)

const maxAttempts = 3

// Client downloads the FoodKeeper dataset over HTTP
type Client struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a dataset client allowing perHour downloads per hour
func NewClient(url string, perHour int, logger *zap.Logger) *Client {
	if perHour <= 0 {
		perHour = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// rate.Limit is per second; the burst covers one full retry cycle
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), maxAttempts)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		url:         url,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Describe names the source for logs and report metadata
func (c *Client) Describe() string {
	return c.url
}

// Read downloads the dataset, retrying transient failures
func (c *Client) Read(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retry, err := c.fetch(ctx)
		if err == nil {
			c.logger.Debug("dataset downloaded", zap.String("url", c.url), zap.Int("bytes", len(body)))
			return body, nil
		}
		if !retry {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("dataset download failed",
			zap.String("url", c.url),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < maxAttempts {
			if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	return nil, lastErr
}

// fetch performs a single GET and reports whether a failure is worth retrying
func (c *Client) fetch(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "shelflife/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrDatasetFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading body: %v", domain.ErrDatasetFetch, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, c.url)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrDatasetFetch, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrDatasetFetch, resp.StatusCode)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
