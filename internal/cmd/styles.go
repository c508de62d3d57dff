package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	primaryColor   = lipgloss.Color("#A78BFA") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Amber
	mutedColor     = lipgloss.Color("#9CA3AF") // Gray
	blueColor      = lipgloss.Color("#60A5FA") // Blue
)

type renderFunc func(strs ...string) string

// palette holds the renderers used by command output.
type palette struct {
	title   renderFunc
	state   renderFunc
	source  renderFunc
	muted   renderFunc
	ok      renderFunc
	warning renderFunc
}

// useColor decides whether output to w is styled. mode is "always",
// "never" or "auto"; auto styles only terminals.
func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func plain(strs ...string) string { return strings.Join(strs, " ") }

func newPalette(w io.Writer, mode string) palette {
	if !useColor(w, mode) {
		return palette{plain, plain, plain, plain, plain, plain}
	}

	r := lipgloss.NewRenderer(w)
	if mode == "always" {
		r.SetColorProfile(termenv.TrueColor)
	}
	return palette{
		title:   r.NewStyle().Bold(true).Foreground(primaryColor).Render,
		state:   r.NewStyle().Foreground(blueColor).Render,
		source:  r.NewStyle().Foreground(secondaryColor).Render,
		muted:   r.NewStyle().Foreground(mutedColor).Render,
		ok:      r.NewStyle().Foreground(secondaryColor).Bold(true).Render,
		warning: r.NewStyle().Foreground(warningColor).Bold(true).Render,
	}
}
