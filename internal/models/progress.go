package models

import "time"

// Progress is a point-in-time snapshot of a running scan. Snapshots are
// copies; reading one never blocks the workers.
type Progress struct {
	CurrentURL     string        `json:"current_url,omitempty"`
	URLsScanned    int           `json:"urls_scanned"`
	TotalURLsKnown int           `json:"total_urls_known"`
	OKCount        int           `json:"ok_count"`
	BrokenCount    int           `json:"broken_count"`
	ErrorCount     int           `json:"error_count"`
	Elapsed        time.Duration `json:"elapsed"`
}
