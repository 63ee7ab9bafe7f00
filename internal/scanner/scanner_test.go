package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkradar/internal/config"
	"linkradar/internal/crawler"
	"linkradar/internal/models"
	"linkradar/internal/urlhandler"
)

func testScanConfig() *config.ScanConfig {
	cfg := config.NewDefaultScanConfig()
	cfg.Concurrency = 2
	cfg.RequestTimeoutSecs = 2
	return &cfg
}

func TestScanner_InvalidSeedURL(t *testing.T) {
	s := NewScanner(testScanConfig(), zerolog.Nop())

	tests := []struct {
		name string
		seed string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"unsupported scheme", "ftp://files.example.com/"},
		{"garbage", "http://exa mple.com/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Scan(context.Background(), tt.seed)
			assert.ErrorIs(t, err, ErrInvalidSeedURL)
		})
	}
}

func TestScanner_InvalidSeedErrorCarriesCause(t *testing.T) {
	s := NewScanner(testScanConfig(), zerolog.Nop())

	_, _, err := s.Scan(context.Background(), "ftp://files.example.com/")
	require.ErrorIs(t, err, ErrInvalidSeedURL)
	assert.ErrorIs(t, err, urlhandler.ErrNotCrawlable, "the normalization failure stays inspectable")
	assert.Contains(t, err.Error(), "ftp://files.example.com/")
}

func TestScanner_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ScanConfig)
	}{
		{"negative max depth", func(c *config.ScanConfig) { c.MaxDepth = -1 }},
		{"zero max urls", func(c *config.ScanConfig) { c.MaxURLs = 0 }},
		{"zero concurrency", func(c *config.ScanConfig) { c.Concurrency = 0 }},
		{"zero request timeout", func(c *config.ScanConfig) { c.RequestTimeoutSecs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testScanConfig()
			tt.mutate(cfg)

			s := NewScanner(cfg, zerolog.Nop())
			_, _, err := s.Scan(context.Background(), "http://example.com/")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestScanner_ValidationFailsBeforeAnyRequest(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	cfg := testScanConfig()
	cfg.Concurrency = 0

	s := NewScanner(cfg, zerolog.Nop())
	_, err := s.Start(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.False(t, requested, "a rejected scan must issue no requests")
}

func TestScanner_SynchronousScan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<a href="/ok">ok</a><a href="/gone">gone</a>`))
		case "/ok":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	s := NewScanner(testScanConfig(), zerolog.Nop())
	results, summary, err := s.Scan(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Equal(t, models.TerminationCompleted, summary.Reason)
	assert.Equal(t, 3, summary.TotalURLs)
	assert.Equal(t, 2, summary.OKCount)
	assert.Equal(t, 1, summary.BrokenCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.NotEmpty(t, summary.ScanSessionID)
	assert.Equal(t, server.URL+"/", summary.SeedURL)
	assert.Greater(t, summary.Duration, time.Duration(0))
}

func TestScanner_SchemeLessSeedGetsHTTP(t *testing.T) {
	s := NewScanner(testScanConfig(), zerolog.Nop())

	run, err := s.Start(context.Background(), "localhost:1/docs")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1/docs", run.SeedURL)
	run.Stop()
	run.Wait()
}

func TestScanRun_Handle(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/a">a</a><a href="/b">b</a>`))
	}))
	defer server.Close()

	cfg := testScanConfig()
	cfg.Concurrency = 1

	s := NewScanner(cfg, zerolog.Nop())
	run, err := s.Start(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, run.SessionID)

	select {
	case <-run.Done():
		t.Fatal("run reported done while pages were still held")
	default:
	}

	run.Pause()
	assert.Eventually(t, func() bool {
		return run.State() == crawler.StatePaused
	}, time.Second, 5*time.Millisecond)
	run.Resume()

	progress := run.Progress()
	assert.GreaterOrEqual(t, progress.TotalURLsKnown, 1)

	close(release)
	results, summary := run.Wait()

	select {
	case <-run.Done():
	default:
		t.Fatal("Done must be closed after Wait returns")
	}

	assert.NotEmpty(t, results)
	assert.Equal(t, models.TerminationCompleted, summary.Reason)
	assert.Equal(t, len(results), summary.TotalURLs)
}

func TestScanRun_StopReturnsPartialResults(t *testing.T) {
	release := make(chan struct{})
	reached := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/a" {
			once.Do(func() { close(reached) })
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<a href="/a">a</a>`))
	}))
	defer server.Close()

	s := NewScanner(testScanConfig(), zerolog.Nop())
	run, err := s.Start(context.Background(), server.URL)
	require.NoError(t, err)

	<-reached
	run.Stop()
	close(release)
	results, summary := run.Wait()

	assert.Equal(t, models.TerminationCancelled, summary.Reason)
	assert.LessOrEqual(t, len(results), 2)
}
