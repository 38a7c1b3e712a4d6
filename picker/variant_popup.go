package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

// variantPopup offers the base emoji and its skin-tone variants. It sits
// over the picker and receives keys before the focus trap.
type variantPopup struct {
	baseView

	entries      []emoji.Record
	focusedIndex int
}

func newVariantPopup(ctx *viewContext, p props) (*variantPopup, error) {
	base := propOr[emoji.Record](p, "emoji", emoji.Record{})
	v := &variantPopup{
		baseView: newBaseView(ctx),
		entries:  append([]emoji.Record{base}, base.Variants()...),
	}
	keys := ctx.keys
	v.ui = map[string]string{"entries": classVariant}
	v.initialize(
		[]keyBinding{
			{keys.Right, func() tea.Cmd { return v.setFocusedEmoji(min(v.focusedIndex+1, len(v.entries)-1)) }},
			{keys.Left, func() tea.Cmd { return v.setFocusedEmoji(max(v.focusedIndex-1, 0)) }},
			{keys.Select, func() tea.Cmd { return v.emit(evEmojiSelect, v.entries[v.focusedIndex]) }},
			{keys.Dismiss, func() tea.Cmd { return v.emit(evVariantPopupHide, nil) }},
		},
		map[string]mouseHandler{
			classVariant: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evEmojiSelect, v.entries[el.Index])
			},
		},
		map[string]mouseHandler{
			classVariant: func(el Element, _ tea.MouseMsg) tea.Cmd {
				return v.emit(evPreviewShow, v.entries[el.Index])
			},
		},
	)
	return v, nil
}

func (v *variantPopup) setFocusedEmoji(index int) tea.Cmd {
	if index == v.focusedIndex {
		return nil
	}
	v.focusedIndex = index
	return v.emit(evPreviewShow, v.entries[index])
}

// HandleKey consumes every key while the popup is open.
func (v *variantPopup) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if v.destroyed {
		return false, nil
	}
	_, cmd := v.baseView.HandleKey(msg)
	return true, cmd
}

// size is the outer size of the popup box.
func (v *variantPopup) size() (w, h int) {
	cell := v.ctx.options.emojiSize
	box := v.ctx.style.Popup
	return len(v.entries)*cell + box.GetHorizontalFrameSize(), 1 + box.GetVerticalFrameSize()
}

func (v *variantPopup) Render() string {
	ctx := v.ctx
	cell := ctx.options.emojiSize
	box := ctx.style.Popup
	w, h := v.size()
	v.frame.reset(w, h)

	left, top := box.GetBorderLeftSize()+box.GetPaddingLeft(), box.GetBorderTopSize()+box.GetPaddingTop()
	var b strings.Builder
	for i, rec := range v.entries {
		text := grapheme.Center(ctx.renderer.Render(rec), cell)
		if i == v.focusedIndex {
			text = ctx.style.EmojiKeyboard.Render(text)
		} else {
			text = ctx.style.Emoji.Render(text)
		}
		b.WriteString(text)
		v.frame.add(Element{
			Class:   classVariant,
			Rect:    Rect{X: left + i*cell, Y: top, Width: cell, Height: 1},
			Index:   i,
			Section: -1,
			Key:     rec.Key(),
		})
	}
	return box.Render(b.String())
}
