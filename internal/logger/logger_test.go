package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkradar/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("defaults build an info-level logger", func(t *testing.T) {
		log, err := New(config.NewDefaultLogConfig())
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
	})

	t.Run("level is applied", func(t *testing.T) {
		cfg := config.NewDefaultLogConfig()
		cfg.LogLevel = "debug"

		log, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
	})

	t.Run("invalid level is rejected", func(t *testing.T) {
		cfg := config.NewDefaultLogConfig()
		cfg.LogLevel = "chatty"

		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("log file is created with its directory", func(t *testing.T) {
		cfg := config.NewDefaultLogConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "logs", "scan.log")
		cfg.LogFormat = "json"

		log, err := New(cfg)
		require.NoError(t, err)

		log.Info().Str("seed_url", "http://site.test/").Msg("scan started")

		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"seed_url":"http://site.test/"`)
		assert.Contains(t, string(data), "scan started")
	})
}
