package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/capturadex/internal/cache"
	"github.com/ppiankov/capturadex/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if result.Meta.FromCache {
		t.Error("Expected a network fetch, not a cache hit")
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	// Override sleep for fast tests
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_NotFoundDoesNotRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	if _, err := fetcher.FetchWithRetry(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404")
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected a single attempt for a permanent status, got %d", attempts.Load())
	}
}

func TestFetch_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, "<html>página</html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig()).
		WithCache(cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)

	first, err := fetcher.Fetch(context.Background(), server.URL+"/wiki/Lista_rojo")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.Meta.FromCache {
		t.Error("Expected first fetch to hit the network")
	}

	second, err := fetcher.Fetch(context.Background(), server.URL+"/wiki/Lista_rojo")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.Meta.FromCache {
		t.Error("Expected second fetch to come from cache")
	}
	if second.HTML != first.HTML {
		t.Error("Expected identical HTML from cache")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected a single network hit, got %d", hits.Load())
	}
}

func TestFetch_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 100; i++ {
			_, _ = fmt.Fprint(w, "0123456789")
		}
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 100
	fetcher := NewFetcher(cfg)

	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.HTML) != 100 {
		t.Errorf("Expected body truncated to 100 bytes, got %d", len(result.HTML))
	}
}

func TestExtractGame(t *testing.T) {
	cases := map[string]string{
		"https://www.wikidex.net/wiki/Lista_de_Pokémon_de_Rojo_y_Azul": "Lista de Pokémon de Rojo y Azul",
		"https://example.org/dex/amarillo.html":                        "amarillo",
		"https://example.org/":                                         "example.org",
		"::bad::":                                                      "::bad::",
	}
	for in, want := range cases {
		if got := extractGame(in); got != want {
			t.Errorf("extractGame(%q) = %q, want %q", in, got, want)
		}
	}
}
