package updater

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReplaceBinary verifies the happy path: new bytes in place, executable
// mode set, and no backup or temp siblings left behind.
func TestReplaceBinary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "mq")
	oldBytes := []byte("old binary")
	newBytes := []byte("new binary")

	require.NoError(t, os.WriteFile(target, oldBytes, 0o755))

	var states []pipelineState

	err := replaceBinary(target, newBytes, func(s pipelineState) {
		states = append(states, s)
	})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, newBytes, got)

	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(target)
		require.NoError(t, statErr)
		require.Equal(t, executableMode, info.Mode().Perm())
	}

	_, err = os.Stat(target + backupSuffix)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(target + tempSuffix)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Equal(t,
		[]pipelineState{stateBackingUp, stateWritingTemp, stateRenaming, stateCleaningUp},
		states)
}

// TestReplaceBinaryNewInstall succeeds when no binary exists yet and creates
// no backup at all.
func TestReplaceBinaryNewInstall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "mq")
	newBytes := []byte("fresh binary")

	require.NoError(t, replaceBinary(target, newBytes, func(pipelineState) {}))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, newBytes, got)

	_, err = os.Stat(target + backupSuffix)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestReplaceBinaryRenameFailure injects a fault between temp-write and
// rename and checks the atomicity guarantee: the target bytes are unchanged
// and the backup survives for diagnosis.
func TestReplaceBinaryRenameFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "mq")
	oldBytes := []byte("old binary")

	require.NoError(t, os.WriteFile(target, oldBytes, 0o755))

	err := replaceBinary(target, []byte("new binary"), func(s pipelineState) {
		if s == stateRenaming {
			// Simulate a crash of the staged file right before the rename.
			require.NoError(t, os.Remove(target+tempSuffix))
		}
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rename temp binary onto target")

	got, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	require.Equal(t, oldBytes, got)

	_, statErr := os.Stat(target + backupSuffix)
	require.NoError(t, statErr)
}

// TestReplaceBinaryBackupFailure reports the failing step when the backup
// copy cannot be created.
func TestReplaceBinaryBackupFailure(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}

	if os.Geteuid() == 0 {
		t.Skip("root ignores directory write permissions")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "mq")

	require.NoError(t, os.WriteFile(target, []byte("old binary"), 0o755))

	// A read-only directory makes the backup copy fail before anything else.
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o755)
	})

	err := replaceBinary(target, []byte("new binary"), func(pipelineState) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "create backup")
}
