package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	cyan   = lipgloss.Color("86")
	green  = lipgloss.Color("82")
	yellow = lipgloss.Color("220")
	red    = lipgloss.Color("196")
)

// Printer writes line-oriented results. Styling is only applied when the
// destination is a color-capable terminal, so piped output stays plain.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a Printer bound to out
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
	}
}

// Snapshot prints "<playback_url> [<statuscode>]"
func (p *Printer) Snapshot(playbackURL, statusCode string) {
	status := p.statusStyle(statusCode).Render(statusCode)
	fmt.Fprintf(p.out, "%s [%s]\n", playbackURL, status)
}

// Line prints s followed by a newline
func (p *Printer) Line(s string) {
	fmt.Fprintln(p.out, s)
}

// Archive prints a discovered archive identifier
func (p *Printer) Archive(archive string) {
	fmt.Fprintln(p.out, p.renderer.NewStyle().Foreground(cyan).Render(archive))
}

// statusStyle colors a status code by class: 2xx green, 3xx yellow, 4xx/5xx red
func (p *Printer) statusStyle(code string) lipgloss.Style {
	style := p.renderer.NewStyle()
	switch {
	case strings.HasPrefix(code, "2"):
		return style.Foreground(green)
	case strings.HasPrefix(code, "3"):
		return style.Foreground(yellow)
	case strings.HasPrefix(code, "4"), strings.HasPrefix(code, "5"):
		return style.Foreground(red).Bold(true)
	default:
		return style
	}
}

// PrintError prints an error message to stderr
func PrintError(message string) {
	errorStyle := lipgloss.NewRenderer(os.Stderr).NewStyle().
		Foreground(red).
		Bold(true)
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+message))
}
