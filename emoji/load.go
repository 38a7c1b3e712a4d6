package emoji

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Dataset is the on-disk form of a locale's emoji data.
type Dataset struct {
	Locale     string     `yaml:"locale"`
	Categories []Category `yaml:"categories"`
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("emoji: decode dataset: %w", err)
	}
	for i := range ds.Categories {
		if ds.Categories[i].Key == "" {
			return Dataset{}, fmt.Errorf("emoji: decode dataset: category %d has no key", i)
		}
	}
	return ds, nil
}

// LoadEmbedded loads the dataset compiled into the binary. Region subtags
// fall back to the base language ("en-GB" loads "en").
func LoadEmbedded(ctx context.Context, locale string) (Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, candidate := range localeCandidates(locale) {
		data, err := embedded.ReadFile("data/" + candidate + ".yaml")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("emoji: read embedded %q: %w", candidate, err)
		}
		ds, err := Parse(data)
		if err != nil {
			return nil, err
		}
		return NewDatabase(ds.Categories), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
}

// LoadFile decodes a dataset file.
func LoadFile(path string) (Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("emoji: read dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewDatabase(ds.Categories), nil
}

// FileLoader returns a Loader reading a dataset file. The locale argument
// is ignored; the file decides its own locale.
func FileLoader(path string) Loader {
	return func(ctx context.Context, _ string) (Database, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadFile(path)
	}
}

func localeCandidates(locale string) []string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return []string{"en"}
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	out := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		out = append(out, base)
	}
	return out
}
