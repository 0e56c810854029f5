package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, "signal-atlas.db", cfg.Storage.Path)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("values from a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
server:
  host: 127.0.0.1
  port: 9090
storage:
  path: /tmp/pv.db
logging:
  level: debug
archive:
  bucket: pv-reports
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
		assert.Equal(t, "/tmp/pv.db", cfg.Storage.Path)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "pv-reports", cfg.Archive.Bucket)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("SIGNAL_ATLAS_SERVER_PORT", "9999")
		t.Setenv("SIGNAL_ATLAS_LOGGING_LEVEL", "debug")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("environment variables override file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))
		t.Setenv("SIGNAL_ATLAS_SERVER_PORT", "7070")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("rejects invalid log level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "logging.level")
	})

	t.Run("missing config file is an error", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		assert.Error(t, err)
	})
}
