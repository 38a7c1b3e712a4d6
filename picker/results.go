package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

// searchResults shows the records matching a query. It lives in the
// content slot and is destroyed when swapped out.
type searchResults struct {
	baseView

	container *emojiContainer
	offset    int
}

func newSearchResults(ctx *viewContext, p props) (*searchResults, error) {
	opts := ctx.options
	v := &searchResults{
		baseView:  newBaseView(ctx),
		container: newEmojiContainer(propOr[[]emoji.Record](p, "records", nil), opts.emojisPerRow, opts.emojiSize),
	}
	v.container.setActive(true, 0)

	keys := ctx.keys
	v.ui = map[string]string{"emojis": classEmoji}
	v.initialize(
		[]keyBinding{
			{keys.Left, func() tea.Cmd { return v.move(dirLeft) }},
			{keys.Right, func() tea.Cmd { return v.move(dirRight) }},
			{keys.Up, func() tea.Cmd { return v.move(dirUp) }},
			{keys.Down, func() tea.Cmd { return v.move(dirDown) }},
			{keys.Select, v.selectFocused},
		},
		map[string]mouseHandler{
			classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evEmojiSelect, v.container.records[el.Index])
			},
		},
		map[string]mouseHandler{
			classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evPreviewShow, v.container.records[el.Index])
			},
		},
	)
	return v, nil
}

func (v *searchResults) empty() bool { return len(v.container.records) == 0 }

func (v *searchResults) Focus() tea.Cmd {
	v.baseView.Focus()
	if rec, ok := v.container.focusedRecord(); ok {
		return v.emit(evPreviewShow, rec)
	}
	return nil
}

func (v *searchResults) move(dir gridDir) tea.Cmd {
	next, _, ok := v.container.step(dir)
	if !ok {
		return nil
	}
	v.container.setActive(true, next)
	row := next / v.container.perRow
	rows := v.ctx.options.visibleRows - 1
	if row < v.offset {
		v.offset = row
	} else if row >= v.offset+rows {
		v.offset = row - rows + 1
	}
	return v.emit(evPreviewShow, v.container.records[next])
}

func (v *searchResults) selectFocused() tea.Cmd {
	rec, ok := v.container.focusedRecord()
	if !ok {
		return nil
	}
	return v.emit(evEmojiSelect, rec)
}

func (v *searchResults) Render() string {
	ctx := v.ctx
	width, height := ctx.options.width(), ctx.options.visibleRows
	v.frame.reset(width, height)

	lines := make([]string, 0, height)
	if v.empty() {
		lines = append(lines, ctx.style.Muted.Render(grapheme.Center(ctx.i18n.Get("search.notFound"), width)))
	} else {
		lines = append(lines, ctx.style.CategoryTitle.Render(grapheme.Fit(ctx.i18n.Get("search.results"), width)))
		for r := v.offset; r < v.container.rows() && len(lines) < height; r++ {
			y := len(lines)
			lines = append(lines, v.container.renderRow(ctx, r, true, v.focused, func(i, x int) {
				v.frame.add(Element{
					Class:   classEmoji,
					Rect:    Rect{X: x, Y: y, Width: v.container.cell, Height: 1},
					Index:   i,
					Section: -1,
					Key:     v.container.records[i].Key(),
				})
			}))
		}
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
