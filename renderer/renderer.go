// Package renderer turns emoji records into display text and selection
// payloads.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iw2rmb/emojipick/emoji"
)

// Renderer is the pluggable emoji renderer.
//
// Render must be cheap: it runs on every frame. Emit may block (for example
// to resolve an asset); the picker calls it from a command.
type Renderer interface {
	Render(rec emoji.Record) string
	Emit(ctx context.Context, rec emoji.Record) (emoji.Selection, error)
}

// Native renders the emoji glyph as-is.
type Native struct{}

func (Native) Render(rec emoji.Record) string { return glyph(rec) }

func (Native) Emit(ctx context.Context, rec emoji.Record) (emoji.Selection, error) {
	if err := ctx.Err(); err != nil {
		return emoji.Selection{}, err
	}
	return emoji.Selection{
		URL:     rec.URL,
		Hexcode: rec.Hexcode,
		Emoji:   rec.Emoji,
		Label:   rec.Label,
	}, nil
}

// Image formats served by the Twemoji CDN.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DefaultTwemojiBaseURL is the asset root used when Twemoji.BaseURL is empty.
const DefaultTwemojiBaseURL = "https://cdn.jsdelivr.net/gh/twitter/twemoji@14.0.2/assets/"

// Twemoji reports Twemoji asset URLs in selections. Terminals cannot draw
// the images, so Render still shows the native glyph.
type Twemoji struct {
	Format  string
	BaseURL string
}

func (t Twemoji) Render(rec emoji.Record) string { return glyph(rec) }

func (t Twemoji) Emit(ctx context.Context, rec emoji.Record) (emoji.Selection, error) {
	if err := ctx.Err(); err != nil {
		return emoji.Selection{}, err
	}
	sel := emoji.Selection{Hexcode: rec.Hexcode, Emoji: rec.Emoji, Label: rec.Label}
	if rec.Custom {
		sel.URL = rec.URL
		return sel, nil
	}
	u, err := t.AssetURL(rec.Emoji)
	if err != nil {
		return emoji.Selection{}, err
	}
	sel.URL = u
	return sel, nil
}

// AssetURL returns the image URL for glyph.
func (t Twemoji) AssetURL(glyph string) (string, error) {
	key := TwemojiKey(glyph)
	if key == "" {
		return "", fmt.Errorf("renderer: no twemoji asset for %q", glyph)
	}
	base := t.BaseURL
	if base == "" {
		base = DefaultTwemojiBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	switch t.Format {
	case FormatPNG:
		return base + "72x72/" + key + ".png", nil
	case "", FormatSVG:
		return base + "svg/" + key + ".svg", nil
	default:
		return "", fmt.Errorf("renderer: unknown twemoji format %q", t.Format)
	}
}

const (
	zwj  = '\u200d'
	vs16 = '\ufe0f'
)

// TwemojiKey returns the asset file name of glyph: lowercase code points
// joined by "-". U+FE0F is dropped unless the sequence contains a ZWJ.
func TwemojiKey(glyph string) string {
	keepVS := strings.ContainsRune(glyph, zwj)
	parts := make([]string, 0, 4)
	for _, r := range glyph {
		if r == vs16 && !keepVS {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}

func glyph(rec emoji.Record) string {
	if rec.Emoji != "" {
		return rec.Emoji
	}
	return ":" + rec.Label + ":"
}
