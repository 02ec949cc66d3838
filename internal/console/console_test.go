package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPromptAnswers covers the [Y/n] convention: empty and "y" confirm,
// everything else declines.
func TestPromptAnswers(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"\n":     true,
		"y\n":    true,
		"Y\n":    true,
		"n\n":    false,
		"no\n":   false,
		"yes\n":  false,
		"what\n": false,
	}
	for input, want := range cases {
		var out bytes.Buffer

		prompt := NewPrompt(strings.NewReader(input), &out, true)

		got, err := prompt.Confirm(context.Background(), "Replace?")
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", input)
		require.Contains(t, out.String(), "Replace?")
	}
}

// TestPromptNonInteractive declines without reading anything.
func TestPromptNonInteractive(t *testing.T) {
	t.Parallel()

	prompt := NewPrompt(strings.NewReader("y\n"), &bytes.Buffer{}, false)

	got, err := prompt.Confirm(context.Background(), "Replace?")
	require.NoError(t, err)
	require.False(t, got)
}

// TestProgressBarKnownTotal renders a bar with byte counts.
func TestProgressBarKnownTotal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	bar := NewProgressBar(&out)
	bar.Progress(512, 1024)
	bar.Finish()

	require.Contains(t, out.String(), "512 B")
	require.Contains(t, out.String(), "1.0 KiB")
}

// TestProgressBarUnknownTotal falls back to a plain byte counter.
func TestProgressBarUnknownTotal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	bar := NewProgressBar(&out)
	bar.Progress(2048, 0)

	require.Contains(t, out.String(), "Downloading")
	require.Contains(t, out.String(), "2.0 KiB")
}

// TestFormatBytes checks unit boundaries.
func TestFormatBytes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "100 B", formatBytes(100))
	require.Equal(t, "1.0 KiB", formatBytes(1024))
	require.Equal(t, "1.5 MiB", formatBytes(3*1024*1024/2))
	require.Equal(t, "2.0 GiB", formatBytes(2*1024*1024*1024))
}
