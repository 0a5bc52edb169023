package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared by every console style
var (
	cyan    = lipgloss.Color("#00FFFF")
	magenta = lipgloss.Color("#FF00FF")
	green   = lipgloss.Color("#39FF14")
	yellow  = lipgloss.Color("#FFFF00")
	orange  = lipgloss.Color("#FF6700")
	red     = lipgloss.Color("#FF0000")
	dim     = lipgloss.Color("#B0B0B0")
)

// Console prints user-facing progress lines. Output is serialised so lines
// written from concurrent workers never interleave.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	quiet    bool
	terminal bool

	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	accent  lipgloss.Style
	faint   lipgloss.Style
}

// NewConsole creates a console writing to out. Colours are only emitted
// when out is a terminal. A quiet console swallows everything except errors.
func NewConsole(out io.Writer, quiet bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)

	return &Console{
		out:      out,
		quiet:    quiet,
		terminal: IsTerminal(out),
		label:    r.NewStyle().Foreground(cyan).Bold(true),
		value:    r.NewStyle().Foreground(yellow),
		success:  r.NewStyle().Foreground(green).Bold(true),
		failure:  r.NewStyle().Foreground(red).Bold(true),
		warning:  r.NewStyle().Foreground(orange).Bold(true),
		accent:   r.NewStyle().Foreground(magenta),
		faint:    r.NewStyle().Foreground(dim).Faint(true),
	}
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Writer returns the underlying output
func (c *Console) Writer() io.Writer {
	return c.out
}

// Quiet reports whether progress output is suppressed
func (c *Console) Quiet() bool {
	return c.quiet
}

// PrintInfo prints a label/value pair
func (c *Console) PrintInfo(label, value string) {
	c.println(false, fmt.Sprintf("%s: %s", c.label.Render(label), c.value.Render(value)))
}

// PrintSuccess prints a success message
func (c *Console) PrintSuccess(msg string) {
	c.println(false, c.success.Render(msg))
}

// PrintWarning prints a warning message
func (c *Console) PrintWarning(msg string) {
	c.println(false, c.warning.Render(msg))
}

// PrintError prints an error message. Errors are shown even when quiet.
func (c *Console) PrintError(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	c.println(true, c.failure.Render(msg))
}

// PrintPost prints a per-post line prefixed with the remaining queue length
func (c *Console) PrintPost(remaining int, text string) {
	c.println(false, fmt.Sprintf("%s %s", c.accent.Render(fmt.Sprintf("[%d]", remaining)), text))
}

// Faint renders text in the dimmed style
func (c *Console) Faint(text string) string {
	return c.faint.Render(text)
}

func (c *Console) println(force bool, line string) {
	if c.quiet && !force {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}
