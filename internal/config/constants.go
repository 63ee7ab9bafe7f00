package config

const (
	// Scan Defaults
	DefaultScanUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultScanMaxDepth       = 5
	DefaultScanMaxURLs        = 500
	DefaultScanConcurrency    = 10
	DefaultScanTimeoutSecs    = 15
	DefaultScanMaxRedirects   = 10
	DefaultScanMaxBodySizeMB  = 5
	DefaultScanSameOriginOnly = true

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Storage Defaults
	DefaultStorageSQLiteDBPath = "database/scan_history.db"
)
