package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/sexpr/internal/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "canonical", cfg.SerializeMode)
	assert.True(t, cfg.LockSensitivePages)
	assert.Equal(t, 0, cfg.MaxAtomBytes)
}

func TestLoadWithoutEnvVarReturnsDefault(t *testing.T) {
	t.Setenv(config.EnvFile, "")
	assert.Equal(t, config.Default(), config.Load())
}

func TestLoadOverlaysYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serialize_mode: advanced\nlock_sensitive_pages: false\n"), 0o600))
	t.Setenv(config.EnvFile, path)

	cfg := config.Load()
	assert.Equal(t, "advanced", cfg.SerializeMode)
	assert.False(t, cfg.LockSensitivePages)
}

func TestLoadIgnoresUnreadableFile(t *testing.T) {
	t.Setenv(config.EnvFile, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, config.Default(), config.Load())
}
