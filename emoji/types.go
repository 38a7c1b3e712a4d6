package emoji

// Well-known category keys. Keys are stable and used for tab identity and
// icon lookup.
const (
	CategorySmileys    = "smileys-emotion"
	CategoryPeople     = "people-body"
	CategoryAnimals    = "animals-nature"
	CategoryFood       = "food-drink"
	CategoryTravel     = "travel-places"
	CategoryActivities = "activities"
	CategoryObjects    = "objects"
	CategorySymbols    = "symbols"
	CategoryFlags      = "flags"

	// CategoryRecents and CategoryCustom are synthesized by the picker.
	CategoryRecents = "recents"
	CategoryCustom  = "custom"
)

// Record is a selectable emoji.
type Record struct {
	Emoji   string   `yaml:"emoji"`
	Label   string   `yaml:"label"`
	Hexcode string   `yaml:"hexcode,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Version float64  `yaml:"version,omitempty"`

	// Skins lists skin-tone variants in display order.
	Skins []Record `yaml:"skins,omitempty"`

	// URL is set for custom emoji backed by an image.
	URL    string `yaml:"url,omitempty"`
	Custom bool   `yaml:"custom,omitempty"`
}

// Key returns the stable identity of the record.
func (r Record) Key() string {
	if r.Hexcode != "" {
		return r.Hexcode
	}
	if r.Custom {
		return "custom:" + r.Label
	}
	return r.Label
}

func (r Record) HasVariants() bool { return len(r.Skins) > 0 }

// Variants returns the skin-tone variants as standalone records. Variants
// carry no variants of their own, so selecting one always completes a pick.
func (r Record) Variants() []Record {
	if len(r.Skins) == 0 {
		return nil
	}
	out := make([]Record, len(r.Skins))
	for i, skin := range r.Skins {
		v := skin.Clone()
		v.Skins = nil
		if v.Label == "" {
			v.Label = r.Label
		}
		if len(v.Tags) == 0 {
			v.Tags = cloneStrings(r.Tags)
		}
		out[i] = v
	}
	return out
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Tags = cloneStrings(r.Tags)
	if len(r.Skins) > 0 {
		skins := make([]Record, len(r.Skins))
		for i := range r.Skins {
			skins[i] = r.Skins[i].Clone()
		}
		r.Skins = skins
	}
	return r
}

// Category is a named, ordered group of records.
type Category struct {
	Key    string   `yaml:"key"`
	Emojis []Record `yaml:"emojis"`
}

// Clone returns a deep copy of c.
func (c Category) Clone() Category {
	c.Emojis = cloneRecords(c.Emojis)
	return c
}

// Selection is the payload reported to the host when an emoji is picked.
type Selection struct {
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
	Hexcode string `yaml:"hexcode,omitempty" json:"hexcode,omitempty"`
	Emoji   string `yaml:"emoji" json:"emoji"`
	Label   string `yaml:"label" json:"label"`
}

// CustomEmoji is a caller-supplied emoji shown in its own category.
type CustomEmoji struct {
	Label string   `yaml:"label" toml:"label"`
	Emoji string   `yaml:"emoji,omitempty" toml:"emoji"`
	URL   string   `yaml:"url,omitempty" toml:"url"`
	Tags  []string `yaml:"tags,omitempty" toml:"tags"`
}

func (c CustomEmoji) ToRecord() Record {
	return Record{
		Emoji:  c.Emoji,
		Label:  c.Label,
		Tags:   cloneStrings(c.Tags),
		URL:    c.URL,
		Custom: true,
	}
}

// CustomCategory builds the custom category, or false when list is empty.
func CustomCategory(list []CustomEmoji) (Category, bool) {
	if len(list) == 0 {
		return Category{}, false
	}
	cat := Category{Key: CategoryCustom, Emojis: make([]Record, 0, len(list))}
	for _, c := range list {
		cat.Emojis = append(cat.Emojis, c.ToRecord())
	}
	return cat, true
}

func cloneRecords(in []Record) []Record {
	if len(in) == 0 {
		return nil
	}
	out := make([]Record, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
