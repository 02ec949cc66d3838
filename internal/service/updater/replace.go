package updater

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

const (
	// backupSuffix marks the recovery copy of the old binary.
	backupSuffix = ".bak"
	// tempSuffix marks the staged new binary before the rename.
	tempSuffix = ".tmp"
	// executableMode is applied to the staged binary on Unix.
	executableMode os.FileMode = 0o755
)

// replaceBinary installs newBytes at targetPath crash-safely:
//
//  1. copy the existing binary (if any) to a backup sibling,
//  2. write the new bytes to a temp sibling in the same directory,
//     so the final rename never crosses a filesystem boundary,
//  3. mark the temp file executable,
//  4. atomically rename the temp file onto the target,
//  5. on success remove the backup.
//
// At every observable instant the target contains either the complete old
// binary or the complete new one. Processes that already opened the old
// binary keep running against its inode. On a rename failure the target is
// untouched and the backup and temp files are left behind for diagnosis;
// nothing is restored because nothing was mutated.
//
// transition is called as each step begins so the pipeline state stays
// observable.
func replaceBinary(targetPath string, newBytes []byte, transition func(pipelineState)) error {
	backupPath := targetPath + backupSuffix
	tempPath := targetPath + tempSuffix

	transition(stateBackingUp)

	if _, err := os.Stat(targetPath); err == nil {
		if err = copyFile(targetPath, backupPath); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat target binary: %w", err)
	}

	transition(stateWritingTemp)

	if err := os.WriteFile(tempPath, newBytes, executableMode); err != nil {
		return fmt.Errorf("write temp binary: %w", err)
	}

	if err := markExecutable(tempPath); err != nil {
		return fmt.Errorf("set executable mode: %w", err)
	}

	transition(stateRenaming)

	if err := os.Rename(tempPath, targetPath); err != nil {
		return fmt.Errorf("rename temp binary onto target: %w", err)
	}

	transition(stateCleaningUp)

	if _, err := os.Stat(backupPath); err == nil {
		_ = os.Remove(backupPath)
	}

	return nil
}

// copyFile duplicates src at dst, preserving the source permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, contents, info.Mode().Perm())
}

// markExecutable sets the executable bits where the platform has them.
func markExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	return os.Chmod(path, executableMode)
}
