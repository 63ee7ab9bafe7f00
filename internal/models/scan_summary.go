package models

import "time"

// TerminationReason records why a scan stopped. Budget exhaustion and
// operator cancellation are normal, signaled terminations, not errors; both
// still yield the accumulated partial results.
type TerminationReason string

const (
	TerminationCompleted      TerminationReason = "completed"
	TerminationBudgetExceeded TerminationReason = "budget_exceeded"
	TerminationTimeout        TerminationReason = "timeout"
	TerminationCancelled      TerminationReason = "cancelled"
)

// ScanSummary carries run-level metadata alongside the flattened result set.
type ScanSummary struct {
	ScanSessionID string            `json:"scan_session_id"`
	SeedURL       string            `json:"seed_url"`
	Reason        TerminationReason `json:"reason"`
	StartTime     time.Time         `json:"start_time"`
	Duration      time.Duration     `json:"duration"`
	TotalURLs     int               `json:"total_urls"`
	OKCount       int               `json:"ok_count"`
	BrokenCount   int               `json:"broken_count"`
	ErrorCount    int               `json:"error_count"`
}
