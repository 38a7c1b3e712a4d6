package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

const previewLines = 2

// preview is the passive strip describing the focused or hovered emoji.
type preview struct {
	baseView

	record *emoji.Record
}

func newPreview(ctx *viewContext, _ props) (*preview, error) {
	v := &preview{baseView: newBaseView(ctx)}
	v.on(evPreviewShow, func(payload any) tea.Cmd {
		if rec, ok := payload.(emoji.Record); ok {
			v.record = &rec
		}
		return nil
	})
	v.on(evPreviewHide, func(any) tea.Cmd {
		v.record = nil
		return nil
	})
	return v, nil
}

// Focusing the preview is meaningless; it never takes keys.
func (v *preview) Focus() tea.Cmd { return nil }

func (v *preview) Render() string {
	ctx := v.ctx
	width := ctx.options.width()
	v.frame.reset(width, previewLines)
	st := ctx.style

	if v.record == nil {
		hint := st.Muted.Render(grapheme.Fit(ctx.i18n.Get("preview.hint"), width))
		return hint + "\n" + strings.Repeat(" ", width)
	}
	glyph := grapheme.Center(ctx.renderer.Render(*v.record), ctx.options.emojiSize)
	labelWidth := max(width-ctx.options.emojiSize-1, 0)
	label := grapheme.Fit(ansi.Truncate(v.record.Label, labelWidth, "…"), labelWidth)
	tags := grapheme.Fit(ansi.Truncate(strings.Join(v.record.Tags, ", "), width, "…"), width)

	first := st.Preview.Render(glyph) + " " + st.PreviewLabel.Render(label)
	return first + "\n" + st.PreviewTags.Render(tags)
}
