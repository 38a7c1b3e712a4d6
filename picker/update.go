package picker

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles a message. Hosts forward every message they receive; the
// picker ignores what is not addressed to it.
func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.root.SetSize(msg.Width, msg.Height)
		return nil

	case buildLoadedMsg:
		if msg.owner != p.id {
			return nil
		}
		return p.handleBuildLoaded(msg)

	case deferredMsg:
		if msg.owner != p.id || msg.run == nil || p.destroyed {
			return nil
		}
		return msg.run()

	case animFrameMsg:
		if msg.owner != p.id || p.destroyed {
			return nil
		}
		return p.anim.handleFrame(msg)

	case emitResolvedMsg:
		if msg.owner != p.id {
			return nil
		}
		return p.handleEmitResolved(msg)

	case spinner.TickMsg:
		if p.buildDone || p.destroyed {
			return nil
		}
		var cmd tea.Cmd
		p.skeleton.spinner, cmd = p.skeleton.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.MouseMsg:
		return p.handleMouse(msg)
	}
	return nil
}

// ready reports whether input should reach the views. Input is dropped
// while the picker animates in or out.
func (p *Picker) ready() bool {
	return !p.destroyed && p.attached && p.visible && p.trap.active &&
		p.buildDone && p.buildErr == nil
}

func (p *Picker) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !p.ready() {
		return nil
	}
	if p.popupOpen() {
		_, cmd := p.popup.HandleKey(msg)
		return cmd
	}

	if key.Matches(msg, p.keys.NextZone, p.keys.PrevZone) {
		if p.listeners.attached {
			p.keyboard = true
		}
		dir := 1
		if key.Matches(msg, p.keys.PrevZone) {
			dir = -1
		}
		return p.trap.step(dir)
	}

	if v := p.trap.focused; v != nil {
		if handled, cmd := v.HandleKey(msg); handled {
			return cmd
		}
	}
	if p.trap.current() == zoneSearch && key.Matches(msg, p.keys.Down) {
		return p.trap.focus(zoneContent)
	}
	if p.listeners.attached {
		return p.onDocumentKey(msg)
	}
	return nil
}

// onDocumentKey handles keys no view claimed: dismiss hides the picker, and a
// word character starts a search.
func (p *Picker) onDocumentKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Dismiss):
		return p.HidePicker()
	case p.search != nil && isWordKey(msg) && p.trap.current() != zoneSearch:
		focus := p.trap.focus(zoneSearch)
		_, typed := p.search.HandleKey(msg)
		return tea.Batch(focus, typed)
	}
	return nil
}

func isWordKey(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return false
	}
	r := msg.Runes[0]
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *Picker) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if p.destroyed || !p.attached {
		return nil
	}
	lx, ly := msg.X-p.originX, msg.Y-p.originY
	inside := Rect{Width: p.boxW, Height: p.boxH}.Contains(lx, ly)
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if inside {
		if !p.ready() {
			return nil
		}
		return p.routeMouse(msg, lx, ly, press)
	}
	if !inside && press && p.visible && p.listeners.attached {
		return p.HidePicker()
	}
	return nil
}

func (p *Picker) routeMouse(msg tea.MouseMsg, lx, ly int, press bool) tea.Cmd {
	r, ok := p.regionAt(lx, ly)
	if p.popupOpen() {
		if ok && r.zone == zonePopup {
			return r.view.HandleMouse(msg, lx-r.rect.X, ly-r.rect.Y)
		}
		if press {
			return p.events.emit(evVariantPopupHide, nil)
		}
		return nil
	}
	if !ok || r.zone == zonePopup {
		return nil
	}

	var cmds []tea.Cmd
	if press && r.focusable && p.trap.focused != r.view {
		cmds = append(cmds, p.trap.focus(r.zone))
	}
	cmds = append(cmds, r.view.HandleMouse(msg, lx-r.rect.X, ly-r.rect.Y))
	return tea.Batch(cmds...)
}

// regionAt returns the topmost region under the box-local point.
func (p *Picker) regionAt(x, y int) (region, bool) {
	for i := len(p.regions) - 1; i >= 0; i-- {
		if p.regions[i].rect.Contains(x, y) {
			return p.regions[i], true
		}
	}
	return region{}, false
}
