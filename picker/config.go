package picker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/renderer"
)

// LatestEmojiVersion is the newest emoji version the built-in data covers.
const LatestEmojiVersion = 15.0

const (
	defaultEmojisPerRow     = 8
	defaultVisibleRows      = 6
	defaultEmojiSize        = 3
	minEmojiSize            = 2
	defaultMaxRecents       = 50
	defaultMobileBreakpoint = 40
	defaultLocale           = "en"
)

var (
	// ErrNoReference is returned when relative positioning has no anchor.
	ErrNoReference = errors.New("picker: reference anchor is required for relative positioning")
	// ErrDestroyed is returned by operations on a destroyed picker.
	ErrDestroyed = errors.New("picker: destroyed")
	// ErrInvalidConfig wraps configuration values New cannot use.
	ErrInvalidConfig = errors.New("picker: invalid config")
)

// Config configures a Picker.
//
// Start from DefaultConfig: boolean toggles default to true there, and
// numeric zero values are replaced with defaults by New.
type Config struct {
	// Root is the render target. New creates one when nil.
	Root *Root
	// Reference anchors relative positioning.
	Reference Anchor

	Renderer renderer.Renderer
	Theme    Theme
	// Style and Keys override the theme style and DefaultKeyMap.
	Style *Style
	Keys  *KeyMap

	ShowSearch          bool
	ShowCategoryButtons bool
	ShowVariants        bool
	ShowRecents         bool
	ShowPreview         bool

	AutoHide        bool
	AutoFocusSearch bool

	Position Position

	EmojisPerRow int
	VisibleRows  int
	// EmojiSize is the cell width of one grid column.
	EmojiSize int

	// EmojiVersion hides records newer than this version.
	EmojiVersion float64
	MaxRecents   int

	I18n   *i18n.Bundle
	Locale string
	Custom []emoji.CustomEmoji

	// Loader loads emoji data. Defaults to emoji.LoadEmbedded.
	Loader  emoji.Loader
	Recents emoji.RecentStore
	// LazyLoader decides when grid sections render. Defaults to an
	// IntersectionLoader with one window of look-ahead.
	LazyLoader LazyLoader

	// MobileBreakpoint switches to the centered compact display when the
	// root is narrower than this many columns. Negative disables it.
	MobileBreakpoint int

	Logger *slog.Logger
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Renderer: renderer.Native{},
		Theme:    ThemeLight,

		ShowSearch:          true,
		ShowCategoryButtons: true,
		ShowVariants:        true,
		ShowRecents:         true,
		ShowPreview:         true,

		AutoHide:        true,
		AutoFocusSearch: true,

		Position: Position{Placement: PlacementAuto},

		EmojisPerRow: defaultEmojisPerRow,
		VisibleRows:  defaultVisibleRows,
		EmojiSize:    defaultEmojiSize,

		EmojiVersion: LatestEmojiVersion,
		MaxRecents:   defaultMaxRecents,
		Locale:       defaultLocale,

		MobileBreakpoint: defaultMobileBreakpoint,
	}
}

// options is the resolved, read-only snapshot of a Config.
type options struct {
	showSearch          bool
	showCategoryButtons bool
	showVariants        bool
	showRecents         bool
	showPreview         bool
	autoHide            bool
	autoFocusSearch     bool

	position Position
	theme    Theme

	emojisPerRow int
	visibleRows  int
	emojiSize    int
	emojiVersion float64
	maxRecents   int

	locale           string
	custom           []emoji.CustomEmoji
	mobileBreakpoint int
}

func resolveOptions(cfg Config) (*options, error) {
	if err := cfg.Position.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	theme, err := normalizeTheme(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	custom := make([]emoji.CustomEmoji, len(cfg.Custom))
	copy(custom, cfg.Custom)

	return &options{
		showSearch:          cfg.ShowSearch,
		showCategoryButtons: cfg.ShowCategoryButtons,
		showVariants:        cfg.ShowVariants,
		showRecents:         cfg.ShowRecents,
		showPreview:         cfg.ShowPreview,
		autoHide:            cfg.AutoHide,
		autoFocusSearch:     cfg.AutoFocusSearch,

		position: cfg.Position.clone(),
		theme:    theme,

		emojisPerRow: normalizePositive(cfg.EmojisPerRow, defaultEmojisPerRow),
		visibleRows:  normalizePositive(cfg.VisibleRows, defaultVisibleRows),
		emojiSize:    normalizeEmojiSize(cfg.EmojiSize),
		emojiVersion: normalizeEmojiVersion(cfg.EmojiVersion),
		maxRecents:   normalizePositive(cfg.MaxRecents, defaultMaxRecents),

		locale:           normalizeLocale(cfg.Locale),
		custom:           custom,
		mobileBreakpoint: normalizeBreakpoint(cfg.MobileBreakpoint),
	}, nil
}

func normalizePositive(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func normalizeEmojiSize(v int) int {
	if v <= 0 {
		return defaultEmojiSize
	}
	if v < minEmojiSize {
		return minEmojiSize
	}
	return v
}

func normalizeEmojiVersion(v float64) float64 {
	if v <= 0 {
		return LatestEmojiVersion
	}
	return v
}

func normalizeLocale(locale string) string {
	if locale == "" {
		return defaultLocale
	}
	return locale
}

func normalizeBreakpoint(v int) int {
	if v == 0 {
		return defaultMobileBreakpoint
	}
	if v < 0 {
		return 0
	}
	return v
}

// width is the inner width of the picker box.
func (o *options) width() int { return o.emojisPerRow * o.emojiSize }
