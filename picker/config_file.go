package picker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/renderer"
)

// fileConfig is the on-disk form of Config. Pointer fields distinguish an
// omitted key from a zero value.
type fileConfig struct {
	Theme    *string `yaml:"theme" toml:"theme"`
	Locale   *string `yaml:"locale" toml:"locale"`
	Position any     `yaml:"position" toml:"position"`

	ShowSearch          *bool `yaml:"showSearch" toml:"showSearch"`
	ShowCategoryButtons *bool `yaml:"showCategoryButtons" toml:"showCategoryButtons"`
	ShowVariants        *bool `yaml:"showVariants" toml:"showVariants"`
	ShowRecents         *bool `yaml:"showRecents" toml:"showRecents"`
	ShowPreview         *bool `yaml:"showPreview" toml:"showPreview"`
	AutoHide            *bool `yaml:"autoHide" toml:"autoHide"`
	AutoFocusSearch     *bool `yaml:"autoFocusSearch" toml:"autoFocusSearch"`

	EmojisPerRow     *int     `yaml:"emojisPerRow" toml:"emojisPerRow"`
	VisibleRows      *int     `yaml:"rows" toml:"rows"`
	EmojiSize        *int     `yaml:"emojiSize" toml:"emojiSize"`
	EmojiVersion     *float64 `yaml:"emojiVersion" toml:"emojiVersion"`
	MaxRecents       *int     `yaml:"maxRecents" toml:"maxRecents"`
	MobileBreakpoint *int     `yaml:"mobileBreakpoint" toml:"mobileBreakpoint"`

	Renderer      *string `yaml:"renderer" toml:"renderer"`
	TwemojiFormat *string `yaml:"twemojiFormat" toml:"twemojiFormat"`
	TwemojiURL    *string `yaml:"twemojiBaseURL" toml:"twemojiBaseURL"`

	I18n        map[string]string   `yaml:"i18n" toml:"i18n"`
	Custom      []emoji.CustomEmoji `yaml:"custom" toml:"custom"`
	DataFile    *string             `yaml:"dataFile" toml:"dataFile"`
	RecentsFile *string             `yaml:"recentsFile" toml:"recentsFile"`
}

// LoadConfigFile reads a YAML or TOML config file onto DefaultConfig.
// Files ending in .toml are TOML; everything else is YAML. Omitted keys keep
// their defaults and unknown keys are ignored. Relative dataFile and
// recentsFile paths resolve against the config file's directory.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg, err := fc.apply(DefaultConfig(), filepath.Dir(path))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (fc fileConfig) apply(cfg Config, dir string) (Config, error) {
	setString(&cfg.Locale, fc.Locale)
	if fc.Theme != nil {
		cfg.Theme = Theme(*fc.Theme)
	}
	if fc.Position != nil {
		pos, err := parsePosition(fc.Position)
		if err != nil {
			return cfg, err
		}
		cfg.Position = pos
	}

	setBool(&cfg.ShowSearch, fc.ShowSearch)
	setBool(&cfg.ShowCategoryButtons, fc.ShowCategoryButtons)
	setBool(&cfg.ShowVariants, fc.ShowVariants)
	setBool(&cfg.ShowRecents, fc.ShowRecents)
	setBool(&cfg.ShowPreview, fc.ShowPreview)
	setBool(&cfg.AutoHide, fc.AutoHide)
	setBool(&cfg.AutoFocusSearch, fc.AutoFocusSearch)

	setInt(&cfg.EmojisPerRow, fc.EmojisPerRow)
	setInt(&cfg.VisibleRows, fc.VisibleRows)
	setInt(&cfg.EmojiSize, fc.EmojiSize)
	setInt(&cfg.MaxRecents, fc.MaxRecents)
	setInt(&cfg.MobileBreakpoint, fc.MobileBreakpoint)
	if fc.EmojiVersion != nil {
		cfg.EmojiVersion = *fc.EmojiVersion
	}

	if fc.Renderer != nil {
		r, err := parseRenderer(*fc.Renderer, fc.TwemojiFormat, fc.TwemojiURL)
		if err != nil {
			return cfg, err
		}
		cfg.Renderer = r
	}
	if len(fc.I18n) > 0 {
		cfg.I18n = i18n.New(fc.I18n)
	}
	if len(fc.Custom) > 0 {
		cfg.Custom = fc.Custom
	}
	if fc.DataFile != nil && *fc.DataFile != "" {
		cfg.Loader = emoji.FileLoader(resolvePath(dir, *fc.DataFile))
	}
	if fc.RecentsFile != nil && *fc.RecentsFile != "" {
		cfg.Recents = emoji.NewFileRecents(resolvePath(dir, *fc.RecentsFile))
	}
	return cfg, nil
}

func parseRenderer(name string, format, baseURL *string) (renderer.Renderer, error) {
	switch strings.ToLower(name) {
	case "", "native":
		return renderer.Native{}, nil
	case "twemoji":
		t := renderer.Twemoji{Format: renderer.FormatSVG}
		if format != nil && *format != "" {
			t.Format = *format
		}
		if baseURL != nil {
			t.BaseURL = *baseURL
		}
		if t.Format != renderer.FormatSVG && t.Format != renderer.FormatPNG {
			return nil, fmt.Errorf("%w: twemoji format %q", ErrInvalidConfig, t.Format)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: renderer %q", ErrInvalidConfig, name)
	}
}

// parsePosition accepts a placement name or a fixed-offset mapping with any
// of top, left, bottom and right.
func parsePosition(v any) (Position, error) {
	switch v := v.(type) {
	case string:
		return ParsePosition(v)
	case map[string]any:
		var fixed FixedPosition
		for k, raw := range v {
			n, ok := asInt(raw)
			if !ok {
				return Position{}, fmt.Errorf("%w: position.%s must be an integer", ErrInvalidConfig, k)
			}
			switch strings.ToLower(k) {
			case "top":
				fixed.Top = &n
			case "left":
				fixed.Left = &n
			case "bottom":
				fixed.Bottom = &n
			case "right":
				fixed.Right = &n
			default:
				return Position{}, fmt.Errorf("%w: unknown position key %q", ErrInvalidConfig, k)
			}
		}
		return Position{Fixed: &fixed}, nil
	default:
		return Position{}, fmt.Errorf("%w: position must be a string or mapping, got %T", ErrInvalidConfig, v)
	}
}

// ParsePosition parses a placement name such as "bottom-start". The empty
// string is auto.
func ParsePosition(s string) (Position, error) {
	p := Position{Placement: Placement(strings.ToLower(strings.TrimSpace(s)))}
	if p.Placement == "" {
		p.Placement = PlacementAuto
	}
	if err := p.validate(); err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
