package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for user-facing report lines.
//
//nolint:gochecknoglobals // Styles are immutable render helpers.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// Printer renders styled report lines to a writer, normally stdout. All
// structured logging goes to stderr via the logger package; the printer is
// only for the human-facing result.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Successf prints a green bold line.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow bold line.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Infof prints an accent-colored line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintln(p.out, accentStyle.Render(fmt.Sprintf(format, args...)))
}

// Dimf prints a faint line for secondary detail.
func (p *Printer) Dimf(format string, args ...any) {
	fmt.Fprintln(p.out, dimStyle.Render(fmt.Sprintf(format, args...)))
}

// Boldf prints a bold line.
func (p *Printer) Boldf(format string, args ...any) {
	fmt.Fprintln(p.out, boldStyle.Render(fmt.Sprintf(format, args...)))
}
