package updater

import (
	"context"

	"github.com/oshokin/mq-update/internal/logger"
)

// versionFlag is the query every family binary answers with its version.
const versionFlag = "--version"

// verifyInstalled re-invokes the freshly installed binary and compares the
// reported version with the target. A mismatch is a warning, never a
// rollback: the replacement already completed atomically.
func (u *runner) verifyInstalled(ctx context.Context, path, targetVersion string) (string, bool) {
	installed, err := u.installedVersion(ctx, path)
	if err != nil {
		logger.WarnKV(ctx, "Could not verify installed version", "error", err)
		return "", false
	}

	if installed != targetVersion {
		logger.WarnKV(ctx, "Installed version differs from target",
			"installed", installed, "target", targetVersion)

		return installed, false
	}

	return installed, true
}
