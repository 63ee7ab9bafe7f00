package scanner

import (
	"context"
	"time"

	"linkradar/internal/crawler"
	"linkradar/internal/models"

	"github.com/rs/zerolog"
)

// ScanRun is the control surface of one in-flight scan. Pause, Resume, and
// Stop are idempotent; Progress never blocks the workers. This is the only
// surface an external job-control layer needs.
type ScanRun struct {
	SessionID string
	SeedURL   string

	crawler   *crawler.Crawler
	logger    zerolog.Logger
	startTime time.Time

	done    chan struct{}
	results []models.ScanResult
	summary models.ScanSummary
}

// execute drives the crawl to completion and seals the run's outputs.
func (r *ScanRun) execute(ctx context.Context) {
	results, reason := r.crawler.Run(ctx)
	duration := time.Since(r.startTime)

	summary := models.ScanSummary{
		ScanSessionID: r.SessionID,
		SeedURL:       r.SeedURL,
		Reason:        reason,
		StartTime:     r.startTime,
		Duration:      duration,
		TotalURLs:     len(results),
	}
	for _, result := range results {
		switch result.Status {
		case models.StatusOK:
			summary.OKCount++
		case models.StatusBroken:
			summary.BrokenCount++
		case models.StatusError:
			summary.ErrorCount++
		}
	}

	r.results = results
	r.summary = summary
	close(r.done)

	r.logger.Info().
		Str("reason", string(reason)).
		Int("total_urls", summary.TotalURLs).
		Int("broken", summary.BrokenCount).
		Int("errors", summary.ErrorCount).
		Dur("duration", duration).
		Msg("Scan run finished")
}

// Pause requests the run to pause between work units.
func (r *ScanRun) Pause() {
	r.crawler.Pause()
}

// Resume releases a paused run.
func (r *ScanRun) Resume() {
	r.crawler.Resume()
}

// Stop requests a cooperative stop; the run still completes with partial
// results.
func (r *ScanRun) Stop() {
	r.crawler.Stop()
}

// State returns the run's current control state.
func (r *ScanRun) State() crawler.RunState {
	return r.crawler.State()
}

// Progress returns a snapshot of the run without blocking it.
func (r *ScanRun) Progress() models.Progress {
	return r.crawler.Progress()
}

// Done is closed once the run has finished and its results are sealed.
func (r *ScanRun) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its results and summary.
func (r *ScanRun) Wait() ([]models.ScanResult, models.ScanSummary) {
	<-r.done
	return r.results, r.summary
}
