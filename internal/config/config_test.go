package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultRegistryBaseURL, cfg.RegistryBaseURL)
	require.Equal(t, DefaultTimeout, cfg.Timeout)

	// Bad registry URL.
	cfg = &Config{RegistryBaseURL: "not a url"}
	require.Error(t, Validate(cfg))

	// Bad family entry.
	cfg = &Config{
		Binaries: map[string]string{"jq": "no-slash-here"},
	}
	require.Error(t, Validate(cfg))

	// Okay with a custom family entry.
	cfg = &Config{
		Binaries: map[string]string{"jq": "jqlang/jq"},
	}
	require.NoError(t, Validate(cfg))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		RegistryBaseURL: "https://registry.local",
		InstallDir:      "/opt/tools/bin",
		Timeout:         10 * time.Second,
		Binaries:        map[string]string{"jq": "jqlang/jq"},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.RegistryBaseURL, loaded.RegistryBaseURL)
	require.Equal(t, cfg.InstallDir, loaded.InstallDir)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
	require.Equal(t, cfg.Binaries, loaded.Binaries)
}

// TestLoadMissingFile returns defaults when the settings file does not exist.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultRegistryBaseURL, loaded.RegistryBaseURL)
}
