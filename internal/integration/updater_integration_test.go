package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/mq-update/internal/config"
	"github.com/oshokin/mq-update/internal/platform"
	"github.com/oshokin/mq-update/internal/service/updater"
)

// fakeBinary produces an executable shell script that answers --version.
func fakeBinary(version string) []byte {
	return []byte(fmt.Sprintf("#!/bin/sh\necho \"mq %s\"\n", version))
}

// startRegistry serves release metadata and the platform asset for harehare/mq.
func startRegistry(t *testing.T, tag string, assetBody []byte) *httptest.Server {
	t.Helper()

	triple, err := platform.Detect().Triple()
	require.NoError(t, err)

	assetName := "mq-" + triple

	mux := http.NewServeMux()

	var ts *httptest.Server

	mux.HandleFunc("/repos/harehare/mq/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		release := fmt.Sprintf(`{
			"tag_name": %q,
			"assets": [{"name": %q, "browser_download_url": %q}]
		}`, tag, assetName, ts.URL+"/dl/"+assetName)

		_, _ = w.Write([]byte(release))
	})
	mux.HandleFunc("/dl/"+assetName, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(assetBody)
	})

	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

// writeSettings persists a settings file pointing the updater at the test registry.
func writeSettings(t *testing.T, registryURL, installDir string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	cfg := &config.Config{
		RegistryBaseURL: registryURL,
		InstallDir:      installDir,
		Timeout:         5 * time.Second,
	}
	require.NoError(t, config.Save(cfgPath, cfg))

	return cfgPath
}

// TestUpdater_Run_ReplacesInstalledBinary exercises the whole pipeline with
// real PATH discovery, real process invocation and real file replacement:
// an installed script reporting 0.5.2 is replaced by a downloaded script
// reporting 0.5.12, and verification passes.
func TestUpdater_Run_ReplacesInstalledBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell scripts as stand-in binaries")
	}

	binDir := t.TempDir()
	binPath := filepath.Join(binDir, "mq")
	require.NoError(t, os.WriteFile(binPath, fakeBinary("0.5.2"), 0o755))
	t.Setenv("PATH", binDir)

	ts := startRegistry(t, "v0.5.12", fakeBinary("0.5.12"))
	cfgPath := writeSettings(t, ts.URL, "")

	result, err := updater.Run(context.Background(), &updater.Options{
		ConfigPath: cfgPath,
		AssumeYes:  true,
	})
	require.NoError(t, err)
	require.Equal(t, updater.OutcomeUpdated, result.Outcome)
	require.Equal(t, "0.5.2", result.PreviousVersion)
	require.Equal(t, "0.5.12", result.TargetVersion)
	require.Equal(t, "0.5.12", result.InstalledVersion)
	require.False(t, result.VersionMismatch)

	// No transient siblings survive a successful run.
	_, err = os.Stat(binPath + ".bak")
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(binPath + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestUpdater_Run_NewInstall installs into a directory created recursively
// when the binary is absent from PATH, without asking for confirmation.
func TestUpdater_Run_NewInstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell scripts as stand-in binaries")
	}

	// PATH points at an empty directory, so discovery finds nothing.
	t.Setenv("PATH", t.TempDir())

	installDir := filepath.Join(t.TempDir(), "nested", "bin")
	ts := startRegistry(t, "v0.5.12", fakeBinary("0.5.12"))
	cfgPath := writeSettings(t, ts.URL, installDir)

	result, err := updater.Run(context.Background(), &updater.Options{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, updater.OutcomeInstalled, result.Outcome)
	require.Empty(t, result.PreviousVersion)
	require.Equal(t, "0.5.12", result.InstalledVersion)
	require.Equal(t, filepath.Join(installDir, "mq"), result.Path)

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// TestUpdater_Run_UpToDateLeavesFilesystemAlone checks the early exit: same
// version, no force, no write.
func TestUpdater_Run_UpToDateLeavesFilesystemAlone(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses shell scripts as stand-in binaries")
	}

	binDir := t.TempDir()
	binPath := filepath.Join(binDir, "mq")
	original := fakeBinary("0.5.12")
	require.NoError(t, os.WriteFile(binPath, original, 0o755))
	t.Setenv("PATH", binDir)

	ts := startRegistry(t, "v0.5.12", fakeBinary("0.5.12"))
	cfgPath := writeSettings(t, ts.URL, "")

	result, err := updater.Run(context.Background(), &updater.Options{
		ConfigPath: cfgPath,
	})
	require.NoError(t, err)
	require.Equal(t, updater.OutcomeUpToDate, result.Outcome)

	got, err := os.ReadFile(binPath)
	require.NoError(t, err)
	require.Equal(t, original, got)
}
