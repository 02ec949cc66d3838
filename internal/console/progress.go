package console

import (
	"fmt"
	"io"
	"strings"
)

// progressBarWidth is how many cells the bar itself occupies.
const progressBarWidth = 40

// ProgressBar renders download progress in place on a single line. When the
// total size is unknown it falls back to a byte counter.
type ProgressBar struct {
	out      io.Writer
	rendered bool
}

// NewProgressBar creates a progress bar writing to out.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

// Progress implements the progress collaborator of the update pipeline.
func (b *ProgressBar) Progress(downloaded, total int64) {
	b.rendered = true

	if total <= 0 {
		fmt.Fprintf(b.out, "\r%s", accentStyle.Render(fmt.Sprintf("Downloading... %s", formatBytes(downloaded))))
		return
	}

	filled := int(downloaded * progressBarWidth / total)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	fmt.Fprintf(b.out, "\r%s %s/%s",
		accentStyle.Render(bar), formatBytes(downloaded), formatBytes(total))
}

// Finish terminates the progress line once the download completed.
func (b *ProgressBar) Finish() {
	if b.rendered {
		fmt.Fprintln(b.out)
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMG"[exp])
}
