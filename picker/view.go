package picker

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// View is one sub-surface of the picker. Render draws the view and records
// its elements in Frame. A destroyed view is never reused.
type View interface {
	Render() string
	Frame() *Frame

	Focus() tea.Cmd
	Blur()
	Focused() bool

	// HandleKey reports whether the key was consumed.
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)
	// HandleMouse receives mouse events in view-local coordinates.
	HandleMouse(msg tea.MouseMsg, x, y int) tea.Cmd

	Destroy()
	Destroyed() bool
}

type keyBinding struct {
	binding key.Binding
	handler func() tea.Cmd
}

type mouseHandler func(el Element, msg tea.MouseMsg) tea.Cmd

// baseView carries the shared View plumbing: the key-binding table, click
// and hover delegation by element class, scoped bus subscriptions, and
// named element lookup against the last Frame.
type baseView struct {
	ctx *viewContext

	bindings    []keyBinding
	clicks      map[string]mouseHandler
	hovers      map[string]mouseHandler
	ui          map[string]string
	initialized bool

	frame     Frame
	unsubs    []func()
	focused   bool
	destroyed bool
}

func newBaseView(ctx *viewContext) baseView {
	return baseView{ctx: ctx}
}

// initialize registers bindings and handlers once. Later calls are no-ops.
func (v *baseView) initialize(bindings []keyBinding, clicks, hovers map[string]mouseHandler) {
	if v.initialized {
		return
	}
	v.initialized = true
	v.bindings = bindings
	v.clicks = clicks
	v.hovers = hovers
}

// on subscribes to the internal bus for the lifetime of the view.
func (v *baseView) on(ev busEvent, fn busHandler) {
	v.unsubs = append(v.unsubs, v.ctx.events.on(ev, func(payload any) tea.Cmd {
		if v.destroyed {
			return nil
		}
		return fn(payload)
	}))
}

func (v *baseView) emit(ev busEvent, payload any) tea.Cmd {
	if v.destroyed {
		return nil
	}
	return v.ctx.events.emit(ev, payload)
}

// lookup resolves a logical element name to the matching elements of the
// last render.
func (v *baseView) lookup(name string) []Element {
	class, ok := v.ui[name]
	if !ok {
		return nil
	}
	return v.frame.ByClass(class)
}

func (v *baseView) Frame() *Frame { return &v.frame }

func (v *baseView) Focus() tea.Cmd {
	v.focused = true
	return nil
}

func (v *baseView) Blur() { v.focused = false }

func (v *baseView) Focused() bool { return v.focused }

func (v *baseView) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !v.focused || v.destroyed {
		return false, nil
	}
	for _, b := range v.bindings {
		if key.Matches(msg, b.binding) {
			return true, b.handler()
		}
	}
	return false, nil
}

func (v *baseView) HandleMouse(msg tea.MouseMsg, x, y int) tea.Cmd {
	if v.destroyed {
		return nil
	}
	el, ok := v.frame.Hit(x, y)
	if !ok {
		return nil
	}
	var handlers map[string]mouseHandler
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		handlers = v.clicks
	case msg.Action == tea.MouseActionMotion:
		handlers = v.hovers
	}
	if h, ok := handlers[el.Class]; ok {
		return h(el, msg)
	}
	return nil
}

// Destroy drops every bus subscription the view made. Safe to call twice.
func (v *baseView) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.focused = false
	for _, unsub := range v.unsubs {
		unsub()
	}
	v.unsubs = nil
}

func (v *baseView) Destroyed() bool { return v.destroyed }
