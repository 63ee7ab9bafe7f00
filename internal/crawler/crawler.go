package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"linkradar/internal/common"
	"linkradar/internal/config"
	"linkradar/internal/models"
	"linkradar/internal/urlhandler"

	"github.com/rs/zerolog"
)

// Crawler drives one crawl-and-validate run: a fixed pool of workers pulls
// from the Frontier, fetches, classifies into the Aggregator, and feeds
// extracted links back through the Normalizer. The instance is single-use.
type Crawler struct {
	cfg     *config.ScanConfig
	seedURL string

	frontier   *Frontier
	aggregator *Aggregator
	fetcher    *Fetcher
	extractor  *LinkExtractor
	scope      *OriginScope
	ctrl       *Controller

	logger    zerolog.Logger
	startTime time.Time

	progressMu sync.RWMutex
	currentURL string

	stopMu     sync.Mutex
	stopReason models.TerminationReason
}

// CrawlerBuilder provides a fluent interface for creating Crawler instances
type CrawlerBuilder struct {
	cfg     *config.ScanConfig
	seedURL string
	logger  zerolog.Logger
}

// NewCrawlerBuilder creates a new CrawlerBuilder instance
func NewCrawlerBuilder(logger zerolog.Logger) *CrawlerBuilder {
	return &CrawlerBuilder{
		logger: logger.With().Str("module", "Crawler").Logger(),
	}
}

// WithConfig sets the scan configuration
func (cb *CrawlerBuilder) WithConfig(cfg *config.ScanConfig) *CrawlerBuilder {
	cb.cfg = cfg
	return cb
}

// WithSeedURL sets the normalized seed URL of the run
func (cb *CrawlerBuilder) WithSeedURL(seedURL string) *CrawlerBuilder {
	cb.seedURL = seedURL
	return cb
}

// Build creates a new Crawler instance with the configured settings
func (cb *CrawlerBuilder) Build() (*Crawler, error) {
	if cb.cfg == nil {
		return nil, common.NewValidationError("config", nil, "scan config cannot be nil")
	}
	if cb.seedURL == "" {
		return nil, common.NewValidationError("seed_url", cb.seedURL, "seed URL cannot be empty")
	}

	scope, err := NewOriginScope(cb.seedURL, cb.cfg.SameOriginOnly)
	if err != nil {
		return nil, common.WrapError(err, "failed to build origin scope")
	}

	return &Crawler{
		cfg:        cb.cfg,
		seedURL:    cb.seedURL,
		frontier:   NewFrontier(cb.cfg.MaxDepth, cb.cfg.MaxURLs),
		aggregator: NewAggregator(),
		fetcher:    NewFetcher(cb.cfg, cb.logger),
		extractor:  NewLinkExtractor(),
		scope:      scope,
		ctrl:       NewController(),
		logger:     cb.logger,
	}, nil
}

// Run executes the crawl until the frontier drains or a budget, timeout, or
// stop signal halts it. It always returns the accumulated results; partial
// runs are results too.
func (c *Crawler) Run(ctx context.Context) ([]models.ScanResult, models.TerminationReason) {
	c.startTime = time.Now()

	c.aggregator.RecordSeed(c.seedURL)
	c.frontier.Enqueue(QueueItem{URL: c.seedURL, Depth: 0, FollowLinks: true})

	watchdogDone := make(chan struct{})
	go c.watchdog(ctx, watchdogDone)

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.workerLoop(ctx, workerID)
		}(i)
	}

	wg.Wait()
	close(watchdogDone)
	c.ctrl.Finish()

	reason := c.terminationReason()
	results := c.aggregator.Flatten()

	c.logger.Info().
		Str("seed_url", c.seedURL).
		Str("reason", string(reason)).
		Int("results", len(results)).
		Dur("duration", time.Since(c.startTime)).
		Msg("Crawl finished")

	return results, reason
}

// watchdog translates context cancellation and the wall-clock budget into a
// cooperative stop. It never aborts in-flight fetches; the per-request
// timeout bounds the drain latency.
func (c *Crawler) watchdog(ctx context.Context, done <-chan struct{}) {
	var timeoutCh <-chan time.Time
	if c.cfg.TotalTimeout() > 0 {
		timer := time.NewTimer(c.cfg.TotalTimeout())
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-ctx.Done():
		c.logger.Info().Msg("Context cancelled, stopping crawl after drain")
		c.stopWithReason(models.TerminationCancelled)
	case <-timeoutCh:
		c.logger.Info().Dur("total_timeout", c.cfg.TotalTimeout()).Msg("Wall-clock budget elapsed, stopping crawl after drain")
		c.stopWithReason(models.TerminationTimeout)
	case <-done:
	}
}

// workerLoop is one fetch-extract cycle driver. Control state is consulted
// only between work units: before claiming an item and again before fetching
// a claimed one. A claimed item abandoned due to stop stays pending and is
// omitted from the output.
func (c *Crawler) workerLoop(ctx context.Context, workerID int) {
	workerLogger := c.logger.With().Int("worker_id", workerID).Logger()

	for {
		if !c.ctrl.WaitIfPaused() {
			return
		}

		item, ok := c.frontier.Dequeue()
		if !ok {
			return
		}

		if !c.ctrl.WaitIfPaused() {
			c.frontier.Done(item.URL)
			return
		}

		c.processItem(ctx, item, workerLogger)
		c.frontier.Done(item.URL)
	}
}

// processItem fetches one URL, records its outcome, and feeds its links back
// into the frontier. A fetch failure is recorded and absorbed, never fatal.
func (c *Crawler) processItem(ctx context.Context, item QueueItem, workerLogger zerolog.Logger) {
	c.setCurrentURL(item.URL)

	// Detached from run cancellation: a stopping run drains in-flight
	// fetches up to their own per-request timeout.
	outcome := c.fetcher.Fetch(context.WithoutCancel(ctx), item.URL)
	c.aggregator.RecordOutcome(item.URL, item.Depth, outcome)

	workerLogger.Debug().
		Str("url", item.URL).
		Int("status_code", outcome.StatusCode).
		Int("depth", item.Depth).
		Msg("Processed URL")

	if !item.FollowLinks || !outcome.IsHTML() {
		return
	}

	pageURL, err := url.Parse(item.URL)
	if err != nil {
		workerLogger.Warn().Err(err).Str("url", item.URL).Msg("Could not re-parse page URL for link resolution")
		return
	}

	links, baseURL, err := c.extractor.ExtractLinks(outcome.Body, pageURL)
	if err != nil {
		workerLogger.Warn().Err(err).Str("url", item.URL).Msg("Link extraction failed")
		return
	}

	// A shorter path to this page may have been recorded since it was
	// admitted; children inherit the current minimum, not the admission depth.
	childDepth := item.Depth + 1
	if minDepth, ok := c.aggregator.MinDepth(item.URL); ok && minDepth+1 < childDepth {
		childDepth = minDepth + 1
	}
	for _, rawLink := range links {
		normalized, err := urlhandler.Normalize(rawLink, baseURL)
		if err != nil {
			// Non-crawlable schemes and unparseable hrefs are dropped
			// entirely; they appear in no result set.
			continue
		}

		admitted, known := c.frontier.Enqueue(QueueItem{
			URL:         normalized,
			Depth:       childDepth,
			FollowLinks: c.scope.AllowsExpansion(normalized),
		})
		if admitted || known {
			c.aggregator.RecordDiscovery(normalized, item.URL, childDepth)
		}
	}
}

// Pause requests that workers stop claiming work after their current unit.
// Idempotent; pausing a stopped run is a no-op.
func (c *Crawler) Pause() {
	c.ctrl.Pause()
	c.logger.Info().Msg("Crawl paused")
}

// Resume releases a paused crawl. Idempotent.
func (c *Crawler) Resume() {
	c.ctrl.Resume()
	c.logger.Info().Msg("Crawl resumed")
}

// Stop requests a cooperative stop: no new work is claimed, in-flight
// fetches drain. Idempotent.
func (c *Crawler) Stop() {
	c.stopWithReason(models.TerminationCancelled)
}

// State exposes the control state machine's current state.
func (c *Crawler) State() RunState {
	return c.ctrl.State()
}

// Progress returns a non-blocking snapshot of the run.
func (c *Crawler) Progress() models.Progress {
	scanned, okCount, broken, errored, known := c.aggregator.Counts()

	c.progressMu.RLock()
	currentURL := c.currentURL
	c.progressMu.RUnlock()

	var elapsed time.Duration
	if !c.startTime.IsZero() {
		elapsed = time.Since(c.startTime)
	}

	return models.Progress{
		CurrentURL:     currentURL,
		URLsScanned:    scanned,
		TotalURLsKnown: known,
		OKCount:        okCount,
		BrokenCount:    broken,
		ErrorCount:     errored,
		Elapsed:        elapsed,
	}
}

// BudgetReached reports whether the distinct-URL budget cut discovery short.
func (c *Crawler) BudgetReached() bool {
	return c.frontier.BudgetReached()
}

func (c *Crawler) setCurrentURL(url string) {
	c.progressMu.Lock()
	c.currentURL = url
	c.progressMu.Unlock()
}

// stopWithReason records the first stop reason and halts admission. Later
// calls keep the original reason.
func (c *Crawler) stopWithReason(reason models.TerminationReason) {
	c.stopMu.Lock()
	if c.stopReason == "" {
		c.stopReason = reason
	}
	c.stopMu.Unlock()

	c.ctrl.Stop()
	c.frontier.Close()
}

// terminationReason decides how the run ended, in precedence order: an
// explicit stop (cancel or timeout) wins, then budget exhaustion, then
// normal completion.
func (c *Crawler) terminationReason() models.TerminationReason {
	c.stopMu.Lock()
	reason := c.stopReason
	c.stopMu.Unlock()

	if reason != "" {
		return reason
	}
	if c.frontier.BudgetReached() {
		return models.TerminationBudgetExceeded
	}
	return models.TerminationCompleted
}
