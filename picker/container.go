package picker

import (
	"strings"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

// emojiContainer is a grid of emoji cells with at most one focused cell.
type emojiContainer struct {
	records []emoji.Record
	perRow  int
	cell    int
	focused int
}

func newEmojiContainer(records []emoji.Record, perRow, cell int) *emojiContainer {
	return &emojiContainer{records: records, perRow: max(perRow, 1), cell: cell, focused: -1}
}

func (c *emojiContainer) rows() int {
	return (len(c.records) + c.perRow - 1) / c.perRow
}

func (c *emojiContainer) setActive(active bool, index int) {
	if !active || len(c.records) == 0 {
		c.focused = -1
		return
	}
	c.focused = min(max(index, 0), len(c.records)-1)
}

func (c *emojiContainer) focusedRecord() (emoji.Record, bool) {
	if c.focused < 0 || c.focused >= len(c.records) {
		return emoji.Record{}, false
	}
	return c.records[c.focused], true
}

// renderRow draws row r. Placeholders stand in for cells that are not
// revealed yet. Each drawn cell is reported to cellFn with its column.
func (c *emojiContainer) renderRow(ctx *viewContext, r int, revealed, showFocus bool, cellFn func(i, x int)) string {
	st := ctx.style
	var b strings.Builder
	start := r * c.perRow
	end := min(start+c.perRow, len(c.records))
	for i := start; i < end; i++ {
		x := (i - start) * c.cell
		if !revealed {
			b.WriteString(st.Placeholder.Render(grapheme.Center("·", c.cell)))
			continue
		}
		text := grapheme.Center(ctx.renderer.Render(c.records[i]), c.cell)
		switch {
		case showFocus && i == c.focused && ctx.keyboard():
			text = st.EmojiKeyboard.Render(text)
		case showFocus && i == c.focused:
			text = st.EmojiFocused.Render(text)
		default:
			text = st.Emoji.Render(text)
		}
		b.WriteString(text)
		if cellFn != nil {
			cellFn(i, x)
		}
	}
	if pad := (c.perRow - (end - start)) * c.cell; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// step moves focus inside the grid. ok is false when the move leaves the
// grid; col is then the column to keep when entering a neighbour grid.
func (c *emojiContainer) step(dir gridDir) (next int, col int, ok bool) {
	i, n := c.focused, len(c.records)
	if i < 0 {
		return 0, 0, n > 0
	}
	col = i % c.perRow
	switch dir {
	case dirLeft:
		if i > 0 {
			return i - 1, 0, true
		}
	case dirRight:
		if i+1 < n {
			return i + 1, 0, true
		}
	case dirUp:
		if i-c.perRow >= 0 {
			return i - c.perRow, 0, true
		}
	case dirDown:
		if i+c.perRow < n {
			return i + c.perRow, 0, true
		}
		if i/c.perRow < c.rows()-1 {
			return n - 1, 0, true
		}
	}
	return i, col, false
}

// entry returns the index focused when entering the grid moving dir.
func (c *emojiContainer) entry(dir gridDir, col int) int {
	n := len(c.records)
	switch dir {
	case dirLeft:
		return n - 1
	case dirUp:
		lastRow := (c.rows() - 1) * c.perRow
		return min(lastRow+col, n-1)
	case dirDown:
		return min(col, n-1)
	default:
		return 0
	}
}

type gridDir int

const (
	dirLeft gridDir = iota
	dirRight
	dirUp
	dirDown
)
