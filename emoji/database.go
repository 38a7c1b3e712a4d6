package emoji

import (
	"context"
	"errors"
)

// ErrUnknownLocale is returned by loaders that have no data for a locale.
var ErrUnknownLocale = errors.New("emoji: unknown locale")

// Database is a read-only view of loaded emoji data.
type Database interface {
	// Categories returns the categories in display order.
	Categories() []Category
	// Lookup finds a record by Key.
	Lookup(key string) (Record, bool)
	// All returns every record in display order.
	All() []Record
}

// Loader loads emoji data for a locale.
type Loader func(ctx context.Context, locale string) (Database, error)

type memoryDatabase struct {
	categories []Category
	byKey      map[string]Record
}

// NewDatabase returns an in-memory Database over categories.
func NewDatabase(categories []Category) Database {
	db := &memoryDatabase{
		categories: make([]Category, 0, len(categories)),
		byKey:      make(map[string]Record),
	}
	for _, c := range categories {
		c = c.Clone()
		db.categories = append(db.categories, c)
		for _, r := range c.Emojis {
			if _, exists := db.byKey[r.Key()]; !exists {
				db.byKey[r.Key()] = r
			}
		}
	}
	return db
}

func (db *memoryDatabase) Categories() []Category {
	out := make([]Category, len(db.categories))
	for i, c := range db.categories {
		out[i] = c.Clone()
	}
	return out
}

func (db *memoryDatabase) Lookup(key string) (Record, bool) {
	r, ok := db.byKey[key]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

func (db *memoryDatabase) All() []Record {
	var out []Record
	for _, c := range db.categories {
		out = append(out, cloneRecords(c.Emojis)...)
	}
	return out
}

// WithinVersion drops records and skins newer than ceiling. A ceiling <= 0
// keeps everything. Categories left empty are dropped.
func WithinVersion(categories []Category, ceiling float64) []Category {
	if ceiling <= 0 {
		out := make([]Category, len(categories))
		for i, c := range categories {
			out[i] = c.Clone()
		}
		return out
	}
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		kept := Category{Key: c.Key}
		for _, r := range c.Emojis {
			if r.Version > ceiling {
				continue
			}
			r = r.Clone()
			skins := r.Skins[:0]
			for _, s := range r.Skins {
				if s.Version <= ceiling {
					skins = append(skins, s)
				}
			}
			if len(skins) == 0 {
				skins = nil
			}
			r.Skins = skins
			kept.Emojis = append(kept.Emojis, r)
		}
		if len(kept.Emojis) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// MaxVersion returns the highest Emoji version of any record or skin.
func MaxVersion(categories []Category) float64 {
	var top float64
	for _, c := range categories {
		for _, r := range c.Emojis {
			top = max(top, r.Version)
			for _, s := range r.Skins {
				top = max(top, s.Version)
			}
		}
	}
	return top
}
