package picker

import tea "github.com/charmbracelet/bubbletea"

type focusZone int

const (
	zoneSearch focusZone = iota
	zoneTabs
	zoneContent

	// Zones outside the trap, used for hit testing only.
	zonePreview
	zonePopup
)

type zone struct {
	id   focusZone
	view func() View
}

// focusTrap keeps keyboard focus cycling through the picker zones while the
// picker is visible.
type focusTrap struct {
	zones   []zone
	index   int
	active  bool
	focused View

	activations int
}

func (t *focusTrap) has(id focusZone) bool {
	for _, z := range t.zones {
		if z.id == id {
			return true
		}
	}
	return false
}

// activate turns the trap on. Activating an active trap is a no-op.
func (t *focusTrap) activate() {
	if t.active {
		return
	}
	t.active = true
	t.activations++
}

func (t *focusTrap) deactivate() {
	if !t.active {
		return
	}
	t.active = false
	t.blur()
}

func (t *focusTrap) blur() {
	if t.focused != nil {
		t.focused.Blur()
		t.focused = nil
	}
}

// focus moves focus to the zone id. An inactive trap holds no focus.
func (t *focusTrap) focus(id focusZone) tea.Cmd {
	if !t.active {
		return nil
	}
	for i, z := range t.zones {
		if z.id == id {
			return t.focusIndex(i)
		}
	}
	return nil
}

func (t *focusTrap) focusIndex(i int) tea.Cmd {
	v := t.zones[i].view()
	t.index = i
	if v == nil {
		return nil
	}
	if t.focused != nil && t.focused != v {
		t.focused.Blur()
	}
	t.focused = v
	return v.Focus()
}

// step cycles focus by dir, wrapping around.
func (t *focusTrap) step(dir int) tea.Cmd {
	n := len(t.zones)
	if !t.active || n == 0 {
		return nil
	}
	return t.focusIndex(((t.index+dir)%n + n) % n)
}

func (t *focusTrap) current() focusZone {
	if t.focused == nil || len(t.zones) == 0 {
		return -1
	}
	return t.zones[t.index].id
}

// swap moves focus to v when the zone it replaces is focused.
func (t *focusTrap) swap(id focusZone, v View) tea.Cmd {
	if !t.active || t.focused == nil || t.current() != id {
		return nil
	}
	if t.focused != v {
		t.focused.Blur()
	}
	t.focused = v
	return v.Focus()
}
