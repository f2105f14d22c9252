// Package tui renders driver reports for human terminals.
package tui

import (
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewMarkdownRenderer returns a function that renders markdown (the
// profiler's timing table) to ANSI, auto-detecting the terminal style.
// The fallback returns the markdown untouched.
func NewMarkdownRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Marker colors a pass/fail tag for the test report when the sink
// supports color, and degrades to plain text when it does not.
func Marker(w io.Writer, passed bool) string {
	out := termenv.NewOutput(w)
	if passed {
		return out.String("ok").Foreground(out.Color("10")).String()
	}
	return out.String("FAIL").Foreground(out.Color("9")).Bold().String()
}

// ErrorLabel colors the "error:" prefix used by the interactive loop.
func ErrorLabel(w io.Writer) string {
	out := termenv.NewOutput(w)
	return out.String("error:").Foreground(out.Color("9")).String()
}
