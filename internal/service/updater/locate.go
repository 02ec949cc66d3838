package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/mq-update/internal/logger"
)

// installTarget describes where the binary lives (or will live) and what is
// installed there right now.
type installTarget struct {
	// path is the existing binary location, or the planned install
	// location for a new install.
	path string
	// currentVersion is the installed version, empty for new installs.
	currentVersion string
	// isNewInstall is true when the binary was not found on PATH.
	isNewInstall bool
}

// defaultInstallSubdir is appended to the home directory for new installs
// when the settings file does not override the install directory.
const defaultInstallSubdir = ".local/bin"

// resolveInstallTarget locates the binary on PATH and queries its version.
// When the binary is absent, the target becomes a new install into
// installDir (or the home-derived default).
func (u *runner) resolveInstallTarget(ctx context.Context, binaryName, installDir string) (*installTarget, error) {
	path, err := u.locator.Locate(binaryName)
	if err != nil {
		return nil, fmt.Errorf("locate %s: %w", binaryName, err)
	}

	if path == "" {
		dir := installDir
		if dir == "" {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return nil, fmt.Errorf("resolve home directory: %w", homeErr)
			}

			dir = filepath.Join(home, filepath.FromSlash(defaultInstallSubdir))
		}

		return &installTarget{
			path:         filepath.Join(dir, binaryName+executableExtension()),
			isNewInstall: true,
		}, nil
	}

	current, err := u.installedVersion(ctx, path)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Found installed binary", "path", path, "version", current)

	return &installTarget{
		path:           path,
		currentVersion: current,
	}, nil
}

// installedVersion runs the binary with a version query and extracts the
// version token from its output.
func (u *runner) installedVersion(ctx context.Context, path string) (string, error) {
	output, err := u.commands.Run(ctx, path, versionFlag)
	if err != nil {
		return "", fmt.Errorf("query installed version: %w", err)
	}

	version, err := lastVersionToken(output)
	if err != nil {
		return "", fmt.Errorf("parse installed version: %w", err)
	}

	return version, nil
}

// ensureInstallDir creates the directory for a new install, recursively.
func ensureInstallDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	return nil
}

// executableExtension returns ".exe" on Windows and "" elsewhere.
func executableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}
