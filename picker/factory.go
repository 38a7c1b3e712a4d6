package picker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/renderer"
)

// ErrShadowedContext is returned when view props reuse a shared context key.
var ErrShadowedContext = errors.New("picker: view props shadow shared context")

// viewContext is the shared state every view of one picker sees.
type viewContext struct {
	events    *bus
	i18n      *i18n.Bundle
	emojiData emoji.Database
	renderer  renderer.Renderer
	options   *options

	style Style
	keys  KeyMap
	log   *slog.Logger

	// keyboard reports whether the last interaction came from the keyboard.
	keyboard func() bool
}

// Context keys props must not reuse.
var contextKeys = map[string]bool{
	"events":    true,
	"i18n":      true,
	"emojiData": true,
	"renderer":  true,
	"options":   true,
}

// props are the per-view construction arguments.
type props map[string]any

func propOr[T any](p props, key string, def T) T {
	if v, ok := p[key].(T); ok {
		return v
	}
	return def
}

type viewFactory struct {
	ctx *viewContext
}

type viewCtor[V View] func(ctx *viewContext, p props) (V, error)

// create constructs a view with the shared context and p.
func create[V View](f *viewFactory, ctor viewCtor[V], p props) (V, error) {
	for k := range p {
		if contextKeys[k] {
			var zero V
			return zero, fmt.Errorf("%w: %q", ErrShadowedContext, k)
		}
	}
	return ctor(f.ctx, p)
}
