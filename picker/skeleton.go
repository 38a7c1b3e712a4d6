package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

// skeleton is drawn until the build completes, so the picker can be shown
// right after construction.
type skeleton struct {
	spinner spinner.Model
	style   Style
	i18n    *i18n.Bundle
}

func newSkeleton(style Style, bundle *i18n.Bundle) skeleton {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle()
	return skeleton{spinner: s, style: style, i18n: bundle}
}

func (s skeleton) view(width, height int, failed bool) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", width)
	}
	msg := s.spinner.View() + " " + s.i18n.Get("loading")
	st := s.style.Muted
	if failed {
		msg, st = s.i18n.Get("error.build"), s.style.Error
	}
	if height > 0 {
		lines[height/2] = st.Render(grapheme.Center(msg, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
