package updater

import (
	"context"
	"os/exec"
	"strings"
)

// ProgressSink receives download progress after every chunk. Total is 0 when
// the server did not announce a content length.
type ProgressSink interface {
	Progress(downloaded, total int64)
}

// ConfirmationPrompt asks the user to approve the binary replacement.
// Implementations must return false rather than blocking when no interactive
// answer can be obtained.
type ConfirmationPrompt interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// CommandRunner invokes an installed binary and returns its stdout. It is a
// collaborator so verification can be tested without spawning real processes.
type CommandRunner interface {
	Run(ctx context.Context, path string, args ...string) (string, error)
}

// BinaryLocator searches for an installed binary, PATH-style. An empty path
// with a nil error means the binary is not installed.
type BinaryLocator interface {
	Locate(name string) (string, error)
}

// silentProgress drops all progress updates.
type silentProgress struct{}

func (silentProgress) Progress(_, _ int64) {}

// declinePrompt refuses every confirmation. It is the fallback when no
// prompt is injected, so a headless run never mutates the filesystem without
// an explicit force or assume-yes flag.
type declinePrompt struct{}

func (declinePrompt) Confirm(_ context.Context, _ string) (bool, error) {
	return false, nil
}

// execRunner runs real processes via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, path string, args ...string) (string, error) {
	output, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return "", err
	}

	return string(output), nil
}

// pathLocator searches the system PATH.
type pathLocator struct{}

func (pathLocator) Locate(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		// LookPath reports absence as an error; treat it as "not installed".
		return "", nil
	}

	return path, nil
}

// lastVersionToken extracts the version from output like "mq 0.5.12" or
// "mq-cli 0.5.12": the last whitespace-delimited token.
func lastVersionToken(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", errEmptyVersionOutput
	}

	return fields[len(fields)-1], nil
}
