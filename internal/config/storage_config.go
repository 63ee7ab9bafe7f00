package config

// StorageConfig defines where finished scans are persisted. The engine itself
// never touches storage; the CLI hands it the flattened result set.
type StorageConfig struct {
	// Enabled toggles history persistence entirely.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// SQLiteDBPath is the path of the scan-history database file.
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Enabled:      true,
		SQLiteDBPath: DefaultStorageSQLiteDBPath,
	}
}
