// Package console implements the terminal-facing collaborators of the update
// pipeline: a styled report printer, a [Y/n] confirmation prompt that
// detects non-interactive stdin, and an in-place download progress bar.
//
// The pipeline itself never writes to the terminal directly; it talks to
// these types through small interfaces so tests can substitute fakes.
package console
