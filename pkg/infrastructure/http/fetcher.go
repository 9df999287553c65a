// Package http fetches pages through the crawl proxy with bounded retry.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/service"
	"go.uber.org/zap"
)

// DefaultProxyURL is the relay every target is fetched through
const DefaultProxyURL = "https://api.asheux.com/crawl"

// DefaultMaxBackoff caps the wait between two attempts
const DefaultMaxBackoff = 30 * time.Second

// ErrFetch is returned when a target could not be fetched with HTTP 200
var ErrFetch = errors.New("network or invalid domain")

// Config holds HTTP fetcher configuration
type Config struct {
	// ProxyURL is the relay endpoint; empty fetches targets directly
	ProxyURL        string
	Attempts        int
	Backoff         time.Duration
	MaxBackoff      time.Duration
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
	Insecure        bool
}

// Fetcher implements service.PageFetcher
type Fetcher struct {
	client *http.Client
	config Config
	logger *zap.Logger
}

// NewFetcher creates a new HTTP fetcher
func NewFetcher(config Config, logger *zap.Logger) *Fetcher {
	if config.Attempts < 1 {
		config.Attempts = 1
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.MaxResponseSize <= 0 {
		config.MaxResponseSize = 10 * 1024 * 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: NewClient(config.Timeout, config.Insecure),
		config: config,
		logger: logger,
	}
}

// RequestURL returns the URL actually requested for target
func (f *Fetcher) RequestURL(target string) string {
	if f.config.ProxyURL == "" {
		return target
	}
	return f.config.ProxyURL + "?url=" + url.QueryEscape(target)
}

// Fetch implements service.PageFetcher. It retries on transport errors and
// non-2xx responses, returns on the first 200 and gives up on any other 2xx.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*service.FetchResult, error) {
	start := time.Now()
	result := &service.FetchResult{
		URL:      target,
		ProxyURL: f.RequestURL(target),
	}
	defer func() { result.Duration = time.Since(start) }()

	var lastErr error
	for attempt := 1; attempt <= f.config.Attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, f.delay(attempt)); err != nil {
				return result, fmt.Errorf("fetch %s: %w", target, err)
			}
		}

		result.Attempts = attempt
		status, body, err := f.get(ctx, result.ProxyURL)
		result.StatusCode = status
		if err == nil && status == http.StatusOK {
			result.Body = body
			return result, nil
		}
		if ctx.Err() != nil {
			return result, fmt.Errorf("fetch %s: %w", target, ctx.Err())
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status %d", status)
		}
		f.logger.Debug("fetch attempt failed",
			zap.String("url", target),
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Error(lastErr),
		)

		if err == nil && status >= 200 && status < 300 {
			break
		}
	}

	return result, fmt.Errorf("fetch %s after %d attempts: %w: %w", target, result.Attempts, ErrFetch, lastErr)
}

func (f *Fetcher) get(ctx context.Context, requestURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", UserAgent(f.config.UserAgent))

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxResponseSize))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}

// delay returns the wait before attempt (attempt >= 2): Backoff doubled per
// earlier retry, never above MaxBackoff
func (f *Fetcher) delay(attempt int) time.Duration {
	d := f.config.Backoff
	for i := 2; i < attempt && d < f.config.MaxBackoff; i++ {
		d *= 2
	}
	return min(d, f.config.MaxBackoff)
}

func sleep(ctx context.Context, d time.Duration) error {
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
