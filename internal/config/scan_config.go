package config

import "time"

// BasicAuthConfig holds optional HTTP basic auth credentials applied to every
// request of a run.
type BasicAuthConfig struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// ScanConfig holds the immutable per-run settings of the crawl engine.
type ScanConfig struct {
	// MaxDepth is the breadth-first layer limit; the seed is depth 0.
	// Zero is a valid value and limits the run to the seed alone.
	MaxDepth int `json:"max_depth" yaml:"max_depth" validate:"min=0"`
	// MaxURLs caps the number of distinct URLs admitted into the run
	// (queued plus visited). This bounds frontier and result-map memory.
	MaxURLs int `json:"max_urls" yaml:"max_urls" validate:"min=1"`
	// Concurrency is the number of simultaneous fetch workers.
	Concurrency int `json:"concurrency" yaml:"concurrency" validate:"min=1"`
	// RequestTimeoutSecs bounds each individual fetch.
	RequestTimeoutSecs int `json:"request_timeout_secs" yaml:"request_timeout_secs" validate:"min=1"`
	// TotalTimeoutSecs is an optional wall-clock budget for the whole run.
	// Zero means unlimited.
	TotalTimeoutSecs int `json:"total_timeout_secs" yaml:"total_timeout_secs" validate:"min=0"`
	// SameOriginOnly stops crawling at the seed's origin boundary.
	// Cross-origin links are still fetched and classified as leaf results.
	SameOriginOnly bool `json:"same_origin_only" yaml:"same_origin_only"`

	Auth *BasicAuthConfig `json:"auth,omitempty" yaml:"auth,omitempty"`

	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	MaxRedirects       int    `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"min=0"`
	MaxBodySizeMB      int    `json:"max_body_size_mb,omitempty" yaml:"max_body_size_mb,omitempty" validate:"min=0"`
}

// NewDefaultScanConfig creates a ScanConfig with default values.
func NewDefaultScanConfig() ScanConfig {
	return ScanConfig{
		MaxDepth:           DefaultScanMaxDepth,
		MaxURLs:            DefaultScanMaxURLs,
		Concurrency:        DefaultScanConcurrency,
		RequestTimeoutSecs: DefaultScanTimeoutSecs,
		TotalTimeoutSecs:   0,
		SameOriginOnly:     DefaultScanSameOriginOnly,
		UserAgent:          DefaultScanUserAgent,
		MaxRedirects:       DefaultScanMaxRedirects,
		MaxBodySizeMB:      DefaultScanMaxBodySizeMB,
	}
}

// RequestTimeout returns the per-request timeout as a duration.
func (sc *ScanConfig) RequestTimeout() time.Duration {
	return time.Duration(sc.RequestTimeoutSecs) * time.Second
}

// TotalTimeout returns the overall wall-clock budget, 0 when unlimited.
func (sc *ScanConfig) TotalTimeout() time.Duration {
	return time.Duration(sc.TotalTimeoutSecs) * time.Second
}

// MaxBodySize returns the response body cap in bytes, 0 when unlimited.
func (sc *ScanConfig) MaxBodySize() int64 {
	return int64(sc.MaxBodySizeMB) * 1024 * 1024
}
