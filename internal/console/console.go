// Package console prints progress lines for the analysis.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
)

// Printer writes plain and styled lines. Write errors are ignored.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a Printer writing progress to out and failures to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// Out returns the progress writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Infof prints an unstyled progress line.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Noticef prints a highlighted line.
func (p *Printer) Noticef(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Successf prints a completion line.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a failure line to the error writer.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, errorStyle.Render(fmt.Sprintf(format, args...)))
}
