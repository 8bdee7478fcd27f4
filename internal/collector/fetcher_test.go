package collector

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oraclo-news/oraclo/internal/config"
	"github.com/oraclo-news/oraclo/internal/observability"
	"github.com/oraclo-news/oraclo/internal/types"
)

func testFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Collector.MaxRetries = 2
	cfg.Collector.RetryDelay = time.Millisecond
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := NewFetcher(cfg, observability.NewMetrics(logger), logger)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		io.WriteString(w, "<html>hello</html>")
	}))
	defer srv.Close()

	body, err := testFetcher(t).Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "<html>hello</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write([]byte("compressed content"))
		gz.Close()
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	body, err := testFetcher(t).Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "compressed content" {
		t.Errorf("body = %q", body)
	}
}

func TestFetch404NotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), srv.URL, nil)
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
	if fe.Retryable {
		t.Error("404 should not be retryable")
	}
	if fe.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
	}
}

func TestFetch429SetsRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testFetcher(t).Fetch(context.Background(), srv.URL, nil)
	var fe *types.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want FetchError, got %v", err)
	}
	if !fe.Retryable {
		t.Error("429 should be retryable")
	}
	if fe.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %s, want 7s", fe.RetryAfter)
	}
}

func TestFetchWithRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "finally")
	}))
	defer srv.Close()

	body, err := testFetcher(t).FetchWithRetry(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("FetchWithRetry: %v", err)
	}
	if string(body) != "finally" {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchWithRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testFetcher(t).FetchWithRetry(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("want error after retries exhausted")
	}
	if calls.Load() != 3 { // initial + 2 retries
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetchUpdatesCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	f := testFetcher(t)

	if _, err := f.Fetch(context.Background(), srv.URL, nil); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := f.metrics.FetchesTotal.Load(); got != 1 {
		t.Errorf("FetchesTotal = %d, want 1", got)
	}
	if got := f.metrics.FetchesFailed.Load(); got != 0 {
		t.Errorf("FetchesFailed = %d, want 0", got)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing", nil); err == nil {
		t.Fatal("want error for 404")
	}
	if got := f.metrics.FetchesTotal.Load(); got != 2 {
		t.Errorf("FetchesTotal = %d, want 2", got)
	}
	if got := f.metrics.FetchesFailed.Load(); got != 1 {
		t.Errorf("FetchesFailed = %d, want 1", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 5 * time.Second},
		{"10", 10 * time.Second},
		{"600", 120 * time.Second},
		{"garbage", 5 * time.Second},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}
}
