package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt asks yes/no questions on a terminal. Empty input and "y" (any case)
// confirm, anything else declines — matching the usual [Y/n] convention.
type Prompt struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewPrompt creates a prompt reading from in and writing to out.
// A non-interactive prompt declines every question instead of blocking.
func NewPrompt(in io.Reader, out io.Writer, interactive bool) *Prompt {
	return &Prompt{
		in:          in,
		out:         out,
		interactive: interactive,
	}
}

// NewTerminalPrompt wires the prompt to stdin/stdout, detecting whether
// stdin is a real terminal.
func NewTerminalPrompt() *Prompt {
	return NewPrompt(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

// Confirm implements the confirmation collaborator of the update pipeline.
func (p *Prompt) Confirm(_ context.Context, question string) (bool, error) {
	if !p.interactive {
		return false, nil
	}

	fmt.Fprintf(p.out, "%s %s ", boldStyle.Render(question), dimStyle.Render("[Y/n]"))

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))

	return answer == "" || answer == "y", nil
}
