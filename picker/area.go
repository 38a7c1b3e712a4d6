package picker

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

// emojiCategory is one titled section of the emoji grid.
type emojiCategory struct {
	key       string
	container *emojiContainer
	start     int
	revealed  bool
}

func (c *emojiCategory) lines() int { return 1 + max(c.container.rows(), 1) }

func (c *emojiCategory) Span() (int, int) { return c.start, c.start + c.lines() }
func (c *emojiCategory) Reveal()          { c.revealed = true }
func (c *emojiCategory) Revealed() bool   { return c.revealed }

const highlightListener = "highlight"

// emojiArea is the scrollable grid of all categories. It is built once per
// picker and reset, not rebuilt, between displays.
type emojiArea struct {
	baseView

	categories     []*emojiCategory
	activeCategory int
	viewport       viewport.Model

	recents      emoji.RecentStore
	recentsIndex int

	listeners    map[string]func() tea.Cmd
	nextObserver int
	// suppressHighlight is set while the area scrolls itself.
	suppressHighlight bool
}

func newEmojiArea(ctx *viewContext, p props) (*emojiArea, error) {
	opts := ctx.options
	v := &emojiArea{
		baseView:     newBaseView(ctx),
		viewport:     viewport.New(opts.width(), opts.visibleRows),
		recents:      propOr[emoji.RecentStore](p, "recents", nil),
		recentsIndex: -1,
		listeners:    make(map[string]func() tea.Cmd),
	}
	newCategory := func(key string, records []emoji.Record) *emojiCategory {
		return &emojiCategory{key: key, container: newEmojiContainer(records, opts.emojisPerRow, opts.emojiSize)}
	}

	if opts.showRecents {
		var recents []emoji.Record
		if v.recents != nil {
			recents = v.recents.Recents(opts.maxRecents)
		}
		v.recentsIndex = len(v.categories)
		v.categories = append(v.categories, newCategory(emoji.CategoryRecents, recents))
	}
	for _, c := range ctx.emojiData.Categories() {
		v.categories = append(v.categories, newCategory(c.Key, c.Emojis))
	}
	if custom, ok := emoji.CustomCategory(propOr[[]emoji.CustomEmoji](p, "custom", nil)); ok {
		v.categories = append(v.categories, newCategory(custom.Key, custom.Emojis))
	}
	v.layout()

	keys := ctx.keys
	v.ui = map[string]string{"emojis": classEmoji, "titles": classTitle}
	v.initialize(
		[]keyBinding{
			{keys.Left, func() tea.Cmd { return v.moveFocus(dirLeft) }},
			{keys.Right, func() tea.Cmd { return v.moveFocus(dirRight) }},
			{keys.Up, func() tea.Cmd { return v.moveFocus(dirUp) }},
			{keys.Down, func() tea.Cmd { return v.moveFocus(dirDown) }},
			{keys.PageUp, func() tea.Cmd { return v.scroll(-opts.visibleRows) }},
			{keys.PageDown, func() tea.Cmd { return v.scroll(opts.visibleRows) }},
			{keys.Select, v.selectFocused},
		},
		map[string]mouseHandler{
			classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evEmojiSelect, v.categories[el.Section].container.records[el.Index])
			},
		},
		map[string]mouseHandler{
			classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evPreviewShow, v.categories[el.Section].container.records[el.Index])
			},
		},
	)
	v.on(evCategorySelect, func(payload any) tea.Cmd {
		if i, ok := payload.(int); ok {
			return v.scrollToCategory(i)
		}
		return nil
	})
	v.on(evRecentAdd, func(any) tea.Cmd {
		v.refreshRecents()
		return nil
	})
	v.attachHighlight()
	return v, nil
}

func (v *emojiArea) categoryKeys() []string {
	out := make([]string, len(v.categories))
	for i, c := range v.categories {
		out[i] = c.key
	}
	return out
}

// layout assigns line offsets and pads the content so every section can be
// scrolled to the top.
func (v *emojiArea) layout() {
	line := 0
	for _, c := range v.categories {
		c.start = line
		line += c.lines()
	}
}

func (v *emojiArea) totalLines() int {
	if len(v.categories) == 0 {
		return 0
	}
	last := v.categories[len(v.categories)-1]
	return max(last.start+last.lines(), last.start+v.viewport.Height)
}

// Visible, Children and OnScroll make the area a ScrollRegion.

func (v *emojiArea) Visible() (int, int) { return v.viewport.YOffset, v.viewport.Height }

func (v *emojiArea) Children() []LazyChild {
	out := make([]LazyChild, len(v.categories))
	for i, c := range v.categories {
		out[i] = c
	}
	return out
}

func (v *emojiArea) OnScroll(fn func()) func() {
	v.nextObserver++
	id := "observer-" + strconv.Itoa(v.nextObserver)
	v.addScrollListener(id, func() tea.Cmd {
		fn()
		return nil
	})
	return func() { v.removeScrollListener(id) }
}

func (v *emojiArea) addScrollListener(id string, fn func() tea.Cmd) {
	v.listeners[id] = fn
}

// removeScrollListener is a no-op for unknown ids.
func (v *emojiArea) removeScrollListener(id string) {
	delete(v.listeners, id)
}

func (v *emojiArea) hasScrollListener(id string) bool {
	_, ok := v.listeners[id]
	return ok
}

func (v *emojiArea) attachHighlight() {
	v.addScrollListener(highlightListener, v.highlightCategory)
}

// detachHighlight stops scroll-driven tab highlighting until the next reset.
func (v *emojiArea) detachHighlight() {
	v.removeScrollListener(highlightListener)
}

func (v *emojiArea) fireScroll() tea.Cmd {
	ids := make([]string, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var cmds []tea.Cmd
	for _, id := range ids {
		if fn, ok := v.listeners[id]; ok {
			cmds = append(cmds, fn())
		}
	}
	return tea.Batch(cmds...)
}

func (v *emojiArea) setYOffset(y int) tea.Cmd {
	v.viewport.SetContent(v.content(nil))
	maxY := max(v.totalLines()-v.viewport.Height, 0)
	y = min(max(y, 0), maxY)
	if y == v.viewport.YOffset {
		return nil
	}
	v.viewport.SetYOffset(y)
	return v.fireScroll()
}

func (v *emojiArea) scroll(delta int) tea.Cmd {
	return v.setYOffset(v.viewport.YOffset + delta)
}

// scrollSilently scrolls without scroll-driven highlighting.
func (v *emojiArea) scrollSilently(y int) tea.Cmd {
	v.suppressHighlight = true
	defer func() { v.suppressHighlight = false }()
	return v.setYOffset(y)
}

// highlightCategory marks the category at the top of the viewport active.
func (v *emojiArea) highlightCategory() tea.Cmd {
	if v.suppressHighlight {
		return nil
	}
	top := v.viewport.YOffset
	index := 0
	for i, c := range v.categories {
		if c.start <= top {
			index = i
		}
	}
	if index == v.activeCategory {
		return nil
	}
	v.activeCategory = index
	return v.emit(evCategoryHighlight, index)
}

func (v *emojiArea) initialCategory() int {
	for i, c := range v.categories {
		if len(c.container.records) > 0 {
			return i
		}
	}
	return 0
}

// reset restores the initial category and scroll position and re-attaches
// the highlight listener.
func (v *emojiArea) reset() tea.Cmd {
	v.attachHighlight()
	if len(v.categories) == 0 {
		return nil
	}
	initial := v.initialCategory()
	v.focusCell(initial, 0)
	v.activeCategory = initial
	return tea.Batch(
		v.scrollSilently(v.categories[initial].start),
		v.emit(evCategoryHighlight, initial),
	)
}

func (v *emojiArea) scrollToCategory(index int) tea.Cmd {
	if index < 0 || index >= len(v.categories) {
		return nil
	}
	v.focusCell(index, 0)
	v.activeCategory = index
	return tea.Batch(
		v.scrollSilently(v.categories[index].start),
		v.emit(evCategoryHighlight, index),
	)
}

func (v *emojiArea) focusCell(cat, index int) {
	for i, c := range v.categories {
		c.container.setActive(i == cat, index)
	}
}

func (v *emojiArea) focusedRecord() (cat int, rec emoji.Record, ok bool) {
	for i, c := range v.categories {
		if r, ok := c.container.focusedRecord(); ok {
			return i, r, true
		}
	}
	return -1, emoji.Record{}, false
}

// focusFirst focuses the first emoji of the first non-empty category.
func (v *emojiArea) focusFirst() tea.Cmd {
	if len(v.categories) == 0 {
		return nil
	}
	first := v.initialCategory()
	return v.setFocus(first, 0)
}

// setFocus focuses one cell, scrolls it into view, and reports the change.
func (v *emojiArea) setFocus(cat, index int) tea.Cmd {
	c := v.categories[cat]
	if len(c.container.records) == 0 {
		return nil
	}
	v.focusCell(cat, index)
	var cmds []tea.Cmd

	row := c.container.focused / c.container.perRow
	line := c.start + 1 + row
	switch top := v.viewport.YOffset; {
	case row == 0 && c.start < top:
		cmds = append(cmds, v.scrollSilently(c.start))
	case line < top:
		cmds = append(cmds, v.scrollSilently(line))
	case line >= top+v.viewport.Height:
		cmds = append(cmds, v.scrollSilently(line-v.viewport.Height+1))
	}

	if cat != v.activeCategory {
		v.activeCategory = cat
		cmds = append(cmds, v.emit(evCategoryHighlight, cat))
	}
	if rec, ok := c.container.focusedRecord(); ok {
		cmds = append(cmds, v.emit(evPreviewShow, rec))
	}
	return tea.Batch(cmds...)
}

func (v *emojiArea) moveFocus(dir gridDir) tea.Cmd {
	cat, _, ok := v.focusedRecord()
	if !ok {
		return v.setFocus(v.activeCategory, 0)
	}
	next, col, inside := v.categories[cat].container.step(dir)
	if inside {
		return v.setFocus(cat, next)
	}
	step := 1
	if dir == dirLeft || dir == dirUp {
		step = -1
	}
	for i := cat + step; i >= 0 && i < len(v.categories); i += step {
		c := v.categories[i].container
		if len(c.records) > 0 {
			return v.setFocus(i, c.entry(dir, col))
		}
	}
	return nil
}

func (v *emojiArea) selectFocused() tea.Cmd {
	_, rec, ok := v.focusedRecord()
	if !ok {
		return nil
	}
	return v.emit(evEmojiSelect, rec)
}

func (v *emojiArea) refreshRecents() {
	if v.recentsIndex < 0 || v.recents == nil {
		return
	}
	c := v.categories[v.recentsIndex]
	focused := c.container.focused
	c.container.records = v.recents.Recents(v.ctx.options.maxRecents)
	c.container.setActive(focused >= 0, focused)
	v.layout()
}

func (v *emojiArea) Focus() tea.Cmd {
	v.baseView.Focus()
	if cat, _, ok := v.focusedRecord(); ok {
		return v.setFocus(cat, v.categories[cat].container.focused)
	}
	return v.setFocus(v.activeCategory, 0)
}

func (v *emojiArea) HandleMouse(msg tea.MouseMsg, x, y int) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return v.scroll(-1)
	case tea.MouseButtonWheelDown:
		return v.scroll(1)
	}
	return v.baseView.HandleMouse(msg, x, y)
}

// content renders every section. When frame is set, elements on visible
// lines are recorded in viewport coordinates.
func (v *emojiArea) content(frame *Frame) string {
	ctx := v.ctx
	width := ctx.options.width()
	top, height := v.viewport.YOffset, v.viewport.Height
	visible := func(line int) bool { return frame != nil && line >= top && line < top+height }

	lines := make([]string, 0, v.totalLines())
	for ci, c := range v.categories {
		title := ctx.i18n.Category(c.key)
		if visible(len(lines)) {
			frame.add(Element{Class: classTitle, Rect: Rect{Y: len(lines) - top, Width: width, Height: 1}, Index: ci, Section: ci, Key: c.key})
		}
		lines = append(lines, ctx.style.CategoryTitle.Render(grapheme.Fit(title, width)))

		if len(c.container.records) == 0 {
			msg := ""
			if c.key == emoji.CategoryRecents {
				msg = ctx.i18n.Get("recents.none")
			}
			lines = append(lines, ctx.style.Muted.Render(grapheme.Fit(msg, width)))
			continue
		}
		for r := 0; r < c.container.rows(); r++ {
			line := len(lines)
			cellFn := func(i, x int) {
				if visible(line) {
					frame.add(Element{
						Class:   classEmoji,
						Rect:    Rect{X: x, Y: line - top, Width: c.container.cell, Height: 1},
						Index:   i,
						Section: ci,
						Key:     c.container.records[i].Key(),
					})
				}
			}
			lines = append(lines, c.container.renderRow(ctx, r, c.revealed, v.Focused(), cellFn))
		}
	}
	for len(lines) < v.totalLines() {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func (v *emojiArea) Render() string {
	v.frame.reset(v.viewport.Width, v.viewport.Height)
	v.viewport.SetContent(v.content(&v.frame))
	return v.viewport.View()
}
