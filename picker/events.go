package picker

import tea "github.com/charmbracelet/bubbletea"

// Event names an external picker event.
type Event string

const (
	// EventSelect fires once per completed pick with an emoji.Selection.
	EventSelect Event = "emoji:select"
	// EventHide fires after the hide animation and teardown complete.
	EventHide Event = "picker:hide"
	// EventError fires with the error when a show fails because the build
	// failed, or when the renderer cannot produce a selection.
	EventError Event = "picker:error"
)

// Subscription identifies a handler registered with On.
type Subscription struct {
	event Event
	id    uint64
}

type externalHandler struct {
	id uint64
	fn func(any)
}

// externalEvents is the host-facing bus. Handlers run synchronously inside
// Update.
type externalEvents struct {
	nextID   uint64
	handlers map[Event][]externalHandler
}

func (e *externalEvents) on(ev Event, fn func(any)) Subscription {
	if e.handlers == nil {
		e.handlers = make(map[Event][]externalHandler)
	}
	e.nextID++
	e.handlers[ev] = append(e.handlers[ev], externalHandler{id: e.nextID, fn: fn})
	return Subscription{event: ev, id: e.nextID}
}

func (e *externalEvents) off(sub Subscription) {
	hs := e.handlers[sub.event]
	for i, h := range hs {
		if h.id == sub.id {
			e.handlers[sub.event] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}

func (e *externalEvents) emit(ev Event, payload any) {
	hs := append([]externalHandler(nil), e.handlers[ev]...)
	for _, h := range hs {
		h.fn(payload)
	}
}

// busEvent names an internal event exchanged between views and the picker.
type busEvent string

const (
	evEmojiSelect       busEvent = "emoji:select"
	evContentShow       busEvent = "content:show"
	evVariantPopupHide  busEvent = "variantPopup:hide"
	evCategorySelect    busEvent = "category:select"
	evCategoryHighlight busEvent = "category:highlight"
	evPreviewShow       busEvent = "preview:show"
	evPreviewHide       busEvent = "preview:hide"
	evRecentAdd         busEvent = "recent:add"
)

type busHandler func(payload any) tea.Cmd

type busSub struct {
	id uint64
	fn busHandler
}

// bus is the internal event bus of one picker. Handlers run synchronously;
// their commands are batched into the emit result.
type bus struct {
	nextID uint64
	subs   map[busEvent][]busSub
}

func newBus() *bus { return &bus{subs: make(map[busEvent][]busSub)} }

// on subscribes fn and returns its unsubscribe func. Unsubscribing twice is
// a no-op.
func (b *bus) on(ev busEvent, fn busHandler) func() {
	b.nextID++
	id := b.nextID
	b.subs[ev] = append(b.subs[ev], busSub{id: id, fn: fn})
	return func() { b.off(ev, id) }
}

func (b *bus) off(ev busEvent, id uint64) {
	subs := b.subs[ev]
	for i, s := range subs {
		if s.id == id {
			b.subs[ev] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (b *bus) emit(ev busEvent, payload any) tea.Cmd {
	subs := append([]busSub(nil), b.subs[ev]...)
	var cmds []tea.Cmd
	for _, s := range subs {
		if cmd := s.fn(payload); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (b *bus) count(ev busEvent) int { return len(b.subs[ev]) }

func (b *bus) removeAll() {
	b.subs = make(map[busEvent][]busSub)
}
