// Package i18n holds the translatable strings shown by the picker.
//
// Keys are dotted paths ("search.placeholder", "categories.flags"). Bundles
// loaded from YAML may nest keys as mappings; they are flattened on load.
package i18n

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// English is the built-in string table. Every other bundle falls back to it.
var English = map[string]string{
	"search.placeholder": "Search",
	"search.notFound":    "No emojis found",
	"search.results":     "Search results",

	"categories.recents":         "Recently Used",
	"categories.smileys-emotion": "Smileys & Emotion",
	"categories.people-body":     "People & Body",
	"categories.animals-nature":  "Animals & Nature",
	"categories.food-drink":      "Food & Drink",
	"categories.travel-places":   "Travel & Places",
	"categories.activities":      "Activities",
	"categories.objects":         "Objects",
	"categories.symbols":         "Symbols",
	"categories.flags":           "Flags",
	"categories.custom":          "Custom",

	"recents.none":  "You haven't selected any emojis yet.",
	"loading":       "Loading…",
	"error.build":   "Could not load emojis",
	"preview.hint":  "Pick an emoji…",
	"variants.hint": "Choose a skin tone",
}

// Bundle resolves keys to strings.
type Bundle struct {
	strings map[string]string
}

// New returns a bundle with overrides merged over English.
func New(overrides map[string]string) *Bundle {
	b := &Bundle{strings: make(map[string]string, len(English)+len(overrides))}
	for k, v := range English {
		b.strings[k] = v
	}
	for k, v := range overrides {
		b.strings[k] = v
	}
	return b
}

// Get returns the string for key, or the key itself when nothing is known.
func (b *Bundle) Get(key string) string {
	if b != nil {
		if s, ok := b.strings[key]; ok {
			return s
		}
	}
	if s, ok := English[key]; ok {
		return s
	}
	return key
}

// Category returns the display name of a category key.
func (b *Bundle) Category(key string) string {
	return b.Get("categories." + key)
}

// Keys lists the keys set in the bundle, sorted.
func (b *Bundle) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.strings))
	for k := range b.strings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Parse decodes a YAML bundle into a flat key table.
func Parse(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("i18n: decode bundle: %w", err)
	}
	out := make(map[string]string)
	if err := flatten("", raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFile reads a YAML bundle and merges it over English.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read bundle: %w", err)
	}
	overrides, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(overrides), nil
}

func flatten(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case string:
			out[key] = v
		case map[string]any:
			if err := flatten(key, v, out); err != nil {
				return err
			}
		case nil:
		default:
			return fmt.Errorf("i18n: key %q: unsupported value %T", key, v)
		}
	}
	return nil
}
