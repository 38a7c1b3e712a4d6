package picker

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme selects a built-in style set.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	// ThemeAuto picks light or dark from the terminal background.
	ThemeAuto Theme = "auto"
)

var hasDarkBackground = termenv.HasDarkBackground

func normalizeTheme(t Theme) (Theme, error) {
	switch t {
	case "":
		return ThemeLight, nil
	case ThemeLight, ThemeDark, ThemeAuto:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", t)
}

func (t Theme) resolve() Theme {
	if t != ThemeAuto {
		return t
	}
	if hasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// Style controls the picker's rendering.
type Style struct {
	Picker lipgloss.Style
	Popup  lipgloss.Style

	Search        lipgloss.Style
	SearchFocused lipgloss.Style

	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	TabFocused lipgloss.Style

	CategoryTitle lipgloss.Style
	Emoji         lipgloss.Style
	EmojiFocused  lipgloss.Style
	// EmojiKeyboard marks the focused emoji after keyboard interaction.
	EmojiKeyboard lipgloss.Style
	Placeholder   lipgloss.Style

	Preview      lipgloss.Style
	PreviewLabel lipgloss.Style
	PreviewTags  lipgloss.Style

	Muted lipgloss.Style
	Error lipgloss.Style
}

type palette struct {
	border, accent, text, muted, focus, errFG lipgloss.Color
}

var (
	lightPalette = palette{border: "250", accent: "33", text: "235", muted: "244", focus: "254", errFG: "160"}
	darkPalette  = palette{border: "240", accent: "75", text: "252", muted: "243", focus: "237", errFG: "203"}
)

// DefaultStyle returns the style set for theme. ThemeAuto is resolved
// against the terminal background.
func DefaultStyle(theme Theme) Style {
	p := lightPalette
	if theme.resolve() == ThemeDark {
		p = darkPalette
	}
	return Style{
		Picker: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border),
		Popup:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent),

		Search:        lipgloss.NewStyle().Foreground(p.text),
		SearchFocused: lipgloss.NewStyle().Foreground(p.text).Bold(true),

		Tab:        lipgloss.NewStyle(),
		TabActive:  lipgloss.NewStyle().Underline(true),
		TabFocused: lipgloss.NewStyle().Background(p.focus).Underline(true),

		CategoryTitle: lipgloss.NewStyle().Foreground(p.muted).Bold(true),
		Emoji:         lipgloss.NewStyle(),
		EmojiFocused:  lipgloss.NewStyle().Background(p.focus),
		EmojiKeyboard: lipgloss.NewStyle().Background(p.accent),
		Placeholder:   lipgloss.NewStyle().Foreground(p.muted).Faint(true),

		Preview:      lipgloss.NewStyle().Foreground(p.text),
		PreviewLabel: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		PreviewTags:  lipgloss.NewStyle().Foreground(p.muted),

		Muted: lipgloss.NewStyle().Foreground(p.muted),
		Error: lipgloss.NewStyle().Foreground(p.errFG),
	}
}
