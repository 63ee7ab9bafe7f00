package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultScanMaxDepth, cfg.ScanConfig.MaxDepth)
	assert.Equal(t, DefaultScanMaxURLs, cfg.ScanConfig.MaxURLs)
	assert.Equal(t, DefaultScanConcurrency, cfg.ScanConfig.Concurrency)
	assert.Equal(t, DefaultScanTimeoutSecs, cfg.ScanConfig.RequestTimeoutSecs)
	assert.True(t, cfg.ScanConfig.SameOriginOnly)
	assert.Nil(t, cfg.ScanConfig.Auth)

	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogConfig.LogFormat)

	assert.Equal(t, DefaultStorageSQLiteDBPath, cfg.StorageConfig.SQLiteDBPath)

	require.NoError(t, ValidateConfig(cfg), "defaults must validate")
}

func TestScanConfig_DurationHelpers(t *testing.T) {
	cfg := ScanConfig{
		RequestTimeoutSecs: 15,
		TotalTimeoutSecs:   0,
		MaxBodySizeMB:      2,
	}
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Duration(0), cfg.TotalTimeout())
	assert.Equal(t, int64(2*1024*1024), cfg.MaxBodySize())
}

func TestLoadGlobalConfig(t *testing.T) {
	t.Run("yaml overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
scan_config:
  max_depth: 2
  concurrency: 4
  auth:
    username: scanner
    password: secret
log_config:
  log_level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadGlobalConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 2, cfg.ScanConfig.MaxDepth)
		assert.Equal(t, 4, cfg.ScanConfig.Concurrency)
		require.NotNil(t, cfg.ScanConfig.Auth)
		assert.Equal(t, "scanner", cfg.ScanConfig.Auth.Username)
		assert.Equal(t, "debug", cfg.LogConfig.LogLevel)

		// Untouched sections keep their defaults.
		assert.Equal(t, DefaultScanMaxURLs, cfg.ScanConfig.MaxURLs)
		assert.Equal(t, DefaultScanTimeoutSecs, cfg.ScanConfig.RequestTimeoutSecs)
	})

	t.Run("json overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"scan_config": {"max_urls": 50, "same_origin_only": false}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadGlobalConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.ScanConfig.MaxURLs)
		assert.False(t, cfg.ScanConfig.SameOriginOnly)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan_config: [broken"), 0644))
		_, err := LoadGlobalConfig(path)
		assert.Error(t, err)
	})
}

func TestGetConfigPath(t *testing.T) {
	t.Run("explicit flag wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		assert.Equal(t, path, GetConfigPath(path))
	})

	t.Run("missing flag path returns empty", func(t *testing.T) {
		assert.Empty(t, GetConfigPath(filepath.Join(t.TempDir(), "absent.yaml")))
	})

	t.Run("environment variable fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "env.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		t.Setenv("LINKRADAR_CONFIG_PATH", path)
		assert.Equal(t, path, GetConfigPath(""))
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr bool
	}{
		{"defaults pass", func(cfg *GlobalConfig) {}, false},
		{"max depth zero is valid", func(cfg *GlobalConfig) { cfg.ScanConfig.MaxDepth = 0 }, false},
		{"negative max depth", func(cfg *GlobalConfig) { cfg.ScanConfig.MaxDepth = -1 }, true},
		{"zero max urls", func(cfg *GlobalConfig) { cfg.ScanConfig.MaxURLs = 0 }, true},
		{"zero concurrency", func(cfg *GlobalConfig) { cfg.ScanConfig.Concurrency = 0 }, true},
		{"negative concurrency", func(cfg *GlobalConfig) { cfg.ScanConfig.Concurrency = -3 }, true},
		{"zero request timeout", func(cfg *GlobalConfig) { cfg.ScanConfig.RequestTimeoutSecs = 0 }, true},
		{"bad log level", func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" }, true},
		{"bad log format", func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" }, true},
		{"json log format", func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScanConfig(t *testing.T) {
	cfg := NewDefaultScanConfig()
	assert.NoError(t, ValidateScanConfig(&cfg))

	cfg.MaxDepth = -1
	err := ValidateScanConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxDepth")
}
