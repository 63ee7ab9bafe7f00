package models

import "sort"

// LinkStatus classifies the outcome of a URL's own fetch.
type LinkStatus string

const (
	// StatusPending marks a URL that has been discovered but not yet fetched.
	// Pending entries never appear in a flattened result set.
	StatusPending LinkStatus = "pending"
	// StatusOK marks a URL that responded with a status code below 400.
	StatusOK LinkStatus = "ok"
	// StatusBroken marks a URL that responded with a status code of 400 or above.
	StatusBroken LinkStatus = "broken"
	// StatusError marks a URL that could not be reached at the transport level.
	StatusError LinkStatus = "error"
)

// ScanResult is the per-URL record emitted by a scan. There is exactly one
// ScanResult per normalized URL in a run's output.
type ScanResult struct {
	URL          string     `json:"url"`
	Status       LinkStatus `json:"status"`
	StatusCode   int        `json:"status_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Depth        int        `json:"depth"`
	FoundOn      []string   `json:"found_on"`
}

// ClassifyOutcome computes the link status from a fetch outcome. This is the
// single classification rule; both final serialization and mid-run snapshots
// go through it.
func ClassifyOutcome(outcome FetchOutcome) LinkStatus {
	if outcome.StatusCode == 0 {
		return StatusError
	}
	if outcome.StatusCode >= 400 {
		return StatusBroken
	}
	return StatusOK
}

// SortScanResults orders results by depth, then URL, so output is stable
// across runs against the same fixture.
func SortScanResults(results []ScanResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Depth != results[j].Depth {
			return results[i].Depth < results[j].Depth
		}
		return results[i].URL < results[j].URL
	})
}
