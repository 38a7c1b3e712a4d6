package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

const searchCharLimit = 64

// search is the filter field. A non-empty query replaces the content slot
// with a fresh searchResults view; an empty query restores the grid.
type search struct {
	baseView

	input    textinput.Model
	factory  *viewFactory
	haystack []emoji.Record
	labels   []string
	results  *searchResults
}

func newSearch(ctx *viewContext, p props) (*search, error) {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = ctx.i18n.Get("search.placeholder")
	ti.CharLimit = searchCharLimit
	ti.Width = max(ctx.options.width()-grapheme.Width(ti.Prompt)-1, 1)
	ti.Cursor.SetMode(cursor.CursorStatic)

	v := &search{
		baseView: newBaseView(ctx),
		input:    ti,
		factory:  propOr[*viewFactory](p, "factory", nil),
	}
	v.haystack = ctx.emojiData.All()
	if custom, ok := emoji.CustomCategory(propOr[[]emoji.CustomEmoji](p, "customEmojis", nil)); ok {
		v.haystack = append(v.haystack, custom.Emojis...)
	}
	v.labels = make([]string, len(v.haystack))
	for i, rec := range v.haystack {
		v.labels[i] = strings.Join(append([]string{rec.Label}, rec.Tags...), " ")
	}
	v.ui = map[string]string{"searchField": classSearchField}
	v.initialize([]keyBinding{{ctx.keys.Select, v.selectFocused}}, nil, nil)
	return v, nil
}

func (v *search) query() string { return v.input.Value() }

func (v *search) Focus() tea.Cmd {
	v.baseView.Focus()
	return v.input.Focus()
}

func (v *search) Blur() {
	v.baseView.Blur()
	v.input.Blur()
}

func (v *search) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !v.focused || v.destroyed {
		return false, nil
	}
	if key.Matches(msg, v.ctx.keys.Select) {
		return v.baseView.HandleKey(msg)
	}
	before, pos := v.input.Value(), v.input.Position()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	changed := v.input.Value() != before
	handled := changed || v.input.Position() != pos ||
		msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
	if !handled {
		return false, cmd
	}
	if changed {
		cmd = tea.Batch(cmd, v.apply())
	}
	return true, cmd
}

// apply filters by the current query and swaps the content slot.
func (v *search) apply() tea.Cmd {
	q := strings.TrimSpace(v.input.Value())
	if q == "" {
		v.results = nil
		return v.emit(evContentShow, nil)
	}
	matches := fuzzy.Find(q, v.labels)
	records := make([]emoji.Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, v.haystack[m.Index])
	}
	res, err := create(v.factory, newSearchResults, props{"records": records})
	if err != nil {
		v.ctx.log.Error("build search results", "error", err)
		return nil
	}
	v.results = res
	return v.emit(evContentShow, res)
}

func (v *search) selectFocused() tea.Cmd {
	if v.results == nil || v.results.Destroyed() {
		return nil
	}
	rec, ok := v.results.container.focusedRecord()
	if !ok {
		return nil
	}
	return v.emit(evEmojiSelect, rec)
}

// clear empties the query without touching the content slot.
func (v *search) clear() {
	v.input.SetValue("")
	v.results = nil
}

func (v *search) Render() string {
	width := v.ctx.options.width()
	v.frame.reset(width, 1)
	v.frame.add(Element{Class: classSearchField, Rect: Rect{Width: width, Height: 1}, Section: -1})
	st := v.ctx.style.Search
	if v.focused {
		st = v.ctx.style.SearchFocused
	}
	return st.Width(width).MaxWidth(width).Render(v.input.View())
}
