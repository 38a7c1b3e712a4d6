package picker

import (
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

const previewHeight = 2

// View renders the picker box, or "" while it is not attached.
func (p *Picker) View() string {
	if !p.attached {
		return ""
	}
	return p.render()
}

func (p *Picker) layerView(rootW, rootH int) (string, int, int, bool) {
	view := p.render()
	x, y := 0, 0
	if p.positioner != nil {
		x, y = p.positioner.place(rootW, rootH, p.boxW, p.boxH)
	}
	p.originX, p.originY = x, y
	return view, x, y, p.mobileOverlay
}

// bodyHeight is the height of the box contents once built.
func (p *Picker) bodyHeight() int {
	h := p.opts.visibleRows
	if p.opts.showSearch {
		h++
	}
	if p.opts.showCategoryButtons {
		h++
	}
	if p.opts.showPreview {
		h += previewHeight
	}
	return h
}

func (p *Picker) render() string {
	box := p.style.Picker
	left := box.GetBorderLeftSize() + box.GetPaddingLeft()
	top := box.GetBorderTopSize() + box.GetPaddingTop()
	width := p.opts.width()
	p.regions = p.regions[:0]

	var out string
	if !p.buildDone || p.buildErr != nil {
		out = box.Render(p.skeleton.view(width, p.bodyHeight(), p.buildErr != nil))
	} else {
		var parts []string
		y := top
		add := func(v View, z focusZone, focusable bool) {
			s := v.Render()
			h := lipgloss.Height(s)
			p.regions = append(p.regions, region{
				rect:      Rect{X: left, Y: y, Width: width, Height: h},
				view:      v,
				zone:      z,
				focusable: focusable,
			})
			parts = append(parts, s)
			y += h
		}
		if p.search != nil {
			add(p.search, zoneSearch, true)
		}
		if p.tabs != nil {
			add(p.tabs, zoneTabs, true)
		}
		content := y
		add(p.currentView, zoneContent, true)
		if p.preview != nil {
			add(p.preview, zonePreview, false)
		}
		out = box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
		out = p.composePopup(out, content)
	}
	p.boxW, p.boxH = lipgloss.Width(out), lipgloss.Height(out)

	if p.anim.current.Opacity < 0.5 {
		out = dimmed(out)
	}
	return out
}

// composePopup draws the variant popup centered over the top of the content
// area at row contentY.
func (p *Picker) composePopup(box string, contentY int) string {
	if p.popup == nil {
		return box
	}
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	pw, ph := p.popup.size()
	x := max((bw-pw)/2, 0)
	y := max(min(contentY, bh-ph), 0)
	if !p.popupClosing {
		p.regions = append(p.regions, region{
			rect: Rect{X: x, Y: y, Width: pw, Height: ph},
			view: p.popup,
			zone: zonePopup,
		})
	}
	return overlay.Composite(p.popup.Render(), box, overlay.Left, overlay.Top, x, y)
}
