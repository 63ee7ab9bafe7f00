package crawler

import (
	"sort"
	"sync"

	"linkradar/internal/models"
)

// resultRecord is the Aggregator's internal per-URL state. The referrer set
// lives here as a real set; it is flattened to a sorted string list only at
// the output boundary.
type resultRecord struct {
	status       models.LinkStatus
	statusCode   int
	errorMessage string
	depth        int
	foundOn      map[string]struct{}
}

// Aggregator owns the map from normalized URL to its accumulated result.
// All access is internally synchronized; a discovery racing another
// discovery of the same URL merges referrers and keeps the minimum depth.
type Aggregator struct {
	mu      sync.Mutex
	records map[string]*resultRecord

	scanned int
	ok      int
	broken  int
	errored int
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		records: make(map[string]*resultRecord),
	}
}

// RecordSeed registers the seed URL at depth 0 with no referrer.
func (a *Aggregator) RecordSeed(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensureRecord(url, 0)
}

// RecordDiscovery registers that url was found as a link on referrer at the
// given depth. The record is created pending if absent; depth is lowered to
// the minimum seen; the referrer joins the foundOn set. foundOn only ever
// grows.
func (a *Aggregator) RecordDiscovery(url, referrer string, depth int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.ensureRecord(url, depth)
	if depth < rec.depth {
		rec.depth = depth
	}
	if referrer != "" {
		rec.foundOn[referrer] = struct{}{}
	}
}

// RecordOutcome sets the fetch outcome for url and classifies it. The status
// is assigned exactly once, after the URL's own fetch completed; it is never
// revised by later discoveries. depth is the depth the URL was admitted at;
// it is min-merged like a discovery, so an outcome that lands before its
// racing discovery edge still leaves the record at the right depth.
func (a *Aggregator) RecordOutcome(url string, depth int, outcome models.FetchOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.ensureRecord(url, depth)
	if depth < rec.depth {
		rec.depth = depth
	}
	if rec.status != models.StatusPending {
		return
	}

	rec.statusCode = outcome.StatusCode
	rec.errorMessage = outcome.ErrorMessage
	rec.status = models.ClassifyOutcome(outcome)

	a.scanned++
	switch rec.status {
	case models.StatusOK:
		a.ok++
	case models.StatusBroken:
		a.broken++
	case models.StatusError:
		a.errored++
	}
}

// ensureRecord returns the record for url, creating a pending one at the
// given depth when absent. Caller must hold the lock.
func (a *Aggregator) ensureRecord(url string, depth int) *resultRecord {
	rec, ok := a.records[url]
	if !ok {
		rec = &resultRecord{
			status:  models.StatusPending,
			depth:   depth,
			foundOn: make(map[string]struct{}),
		}
		a.records[url] = rec
	}
	return rec
}

// MinDepth returns the smallest discovery depth recorded for url so far.
func (a *Aggregator) MinDepth(url string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[url]
	if !ok {
		return 0, false
	}
	return rec.depth, true
}

// Counts returns the current scanned/ok/broken/error counters and the total
// number of known URLs. Used by progress snapshots.
func (a *Aggregator) Counts() (scanned, ok, broken, errored, known int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scanned, a.ok, a.broken, a.errored, len(a.records)
}

// Flatten converts the accumulated map into the output array. Entries whose
// fetch never completed (run cut short by budget or cancellation) are
// omitted: a result always carries one of the three final classifications.
// The array is sorted by depth then URL, and each foundOn set becomes a
// sorted, duplicate-free string list.
func (a *Aggregator) Flatten() []models.ScanResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]models.ScanResult, 0, len(a.records))
	for url, rec := range a.records {
		if rec.status == models.StatusPending {
			continue
		}

		foundOn := make([]string, 0, len(rec.foundOn))
		for referrer := range rec.foundOn {
			foundOn = append(foundOn, referrer)
		}
		sort.Strings(foundOn)

		results = append(results, models.ScanResult{
			URL:          url,
			Status:       rec.status,
			StatusCode:   rec.statusCode,
			ErrorMessage: rec.errorMessage,
			Depth:        rec.depth,
			FoundOn:      foundOn,
		})
	}

	models.SortScanResults(results)
	return results
}
