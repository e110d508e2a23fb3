package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/capturadex/internal/cache"
	"github.com/ppiankov/capturadex/internal/model"
	"github.com/ppiankov/capturadex/internal/util"
)

const (
	fetchMaxAttempts = 3
	fetchBaseBackoff = 500 * time.Millisecond
)

// fetchSleepFunc is overridable so retry tests run without real backoff
var fetchSleepFunc = time.Sleep

// Fetcher fetches dex page HTML, with retry on transient failures and an
// optional layered cache in front of the network.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pageCache  cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// NewFetcher creates a new Fetcher from HTTP configuration
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
	}
}

// WithCache attaches a page cache. Cached pages skip the network entirely.
func (f *Fetcher) WithCache(c cache.Cache, ttl time.Duration) *Fetcher {
	f.pageCache = c
	f.cacheTTL = ttl
	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	Meta     model.FetchMeta
	Game     string
	FinalURL string
}

// statusError marks a non-2xx response so retry logic can branch on it
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.status)
}

// FetchWithRetry fetches a page, retrying transient failures (transport
// errors, 429, 5xx) with doubling backoff. Context cancellation stops the
// retries immediately.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	backoff := fetchBaseBackoff

	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isTransient(err) {
			return nil, err
		}
		if attempt < fetchMaxAttempts {
			fetchSleepFunc(backoff)
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("fetch %s after %d attempts: %w", rawURL, fetchMaxAttempts, lastErr)
}

// isTransient reports whether a fetch error is worth retrying
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	// Transport-level failures (refused, reset, DNS) are transient enough
	return true
}

// Fetch retrieves HTML content from the given URL, consulting the page
// cache first when one is attached.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.pageCache != nil {
		if body, found := f.pageCache.Get(cache.PageKey(rawURL)); found {
			return &FetchResult{
				HTML:     string(body),
				Meta:     model.FetchMeta{FromCache: true},
				Game:     extractGame(rawURL),
				FinalURL: rawURL,
			}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	meta := model.FetchMeta{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
		Headers:      make(map[string]string),
	}
	for _, key := range []string{"Content-Length", "Server", "Cache-Control"} {
		if val := resp.Header.Get(key); val != "" {
			meta.Headers[key] = val
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()

	if f.pageCache != nil {
		_ = f.pageCache.Set(cache.PageKey(rawURL), body, f.cacheTTL)
	}

	return &FetchResult{
		HTML:     string(body),
		Meta:     meta,
		Game:     extractGame(finalURL),
		FinalURL: finalURL,
	}, nil
}

// extractGame derives a human-readable game name from the dex page URL,
// de-slugifying the last path segment.
func extractGame(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
