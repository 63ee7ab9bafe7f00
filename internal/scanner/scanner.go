package scanner

import (
	"context"
	"errors"
	"time"

	"linkradar/internal/common"
	"linkradar/internal/config"
	"linkradar/internal/crawler"
	"linkradar/internal/models"
	"linkradar/internal/urlhandler"

	"github.com/rs/zerolog"
)

// Fatal scan errors. Only these two abort a scan; every per-URL failure is
// absorbed into the result set instead.
var (
	// ErrInvalidSeedURL is returned when the seed cannot be normalized.
	ErrInvalidSeedURL = errors.New("invalid seed URL")
	// ErrInvalidConfig is returned when the scan configuration is rejected.
	ErrInvalidConfig = errors.New("invalid scan config")
)

// Scanner is the scan orchestrator: it validates the run's inputs, builds a
// crawler, and exposes the run as a controllable handle.
type Scanner struct {
	cfg    *config.ScanConfig
	logger zerolog.Logger
}

// NewScanner creates a Scanner for the given per-run configuration.
func NewScanner(cfg *config.ScanConfig, logger zerolog.Logger) *Scanner {
	return &Scanner{
		cfg:    cfg,
		logger: logger.With().Str("module", "Scanner").Logger(),
	}
}

// Scan runs a whole crawl synchronously and returns the flattened result
// array plus run metadata. It fails only before any network activity: on an
// unparseable seed or an invalid config. Once started it always returns a
// (possibly partial) result set.
func (s *Scanner) Scan(ctx context.Context, seedURL string) ([]models.ScanResult, models.ScanSummary, error) {
	run, err := s.Start(ctx, seedURL)
	if err != nil {
		return nil, models.ScanSummary{}, err
	}
	results, summary := run.Wait()
	return results, summary, nil
}

// Start validates inputs and launches the crawl in the background, returning
// a handle for pause/resume/stop control and progress polling.
func (s *Scanner) Start(ctx context.Context, seedURL string) (*ScanRun, error) {
	normalizedSeed, err := urlhandler.NormalizeSeed(seedURL)
	if err != nil {
		return nil, common.NewError("%w: seed '%s': %w", ErrInvalidSeedURL, seedURL, err)
	}

	if err := config.ValidateScanConfig(s.cfg); err != nil {
		return nil, common.WrapError(ErrInvalidConfig, err.Error())
	}

	crawlerInstance, err := crawler.NewCrawlerBuilder(s.logger).
		WithConfig(s.cfg).
		WithSeedURL(normalizedSeed).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to build crawler")
	}

	sessionID := time.Now().Format("20060102-150405")
	runLogger := s.logger.With().Str("scan_session_id", sessionID).Logger()

	run := &ScanRun{
		SessionID: sessionID,
		SeedURL:   normalizedSeed,
		crawler:   crawlerInstance,
		logger:    runLogger,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}

	runLogger.Info().
		Str("seed_url", normalizedSeed).
		Int("concurrency", s.cfg.Concurrency).
		Int("max_depth", s.cfg.MaxDepth).
		Int("max_urls", s.cfg.MaxURLs).
		Msg("Starting scan")

	go run.execute(ctx)

	return run, nil
}
