package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/renderer"
)

func newTestContext(t *testing.T) *viewContext {
	t.Helper()
	opts, err := resolveOptions(DefaultConfig())
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	return &viewContext{
		events:    newBus(),
		i18n:      i18n.New(nil),
		emojiData: emoji.NewDatabase(testCategories()),
		renderer:  renderer.Native{},
		options:   opts,
		style:     DefaultStyle(ThemeLight),
		keys:      DefaultKeyMap(),
		log:       slog.New(slog.DiscardHandler),
		keyboard:  func() bool { return false },
	}
}

func TestBaseView_InitializeOnce(t *testing.T) {
	v := newBaseView(newTestContext(t))
	first, second := 0, 0
	v.initialize([]keyBinding{{key.NewBinding(key.WithKeys("x")), func() tea.Cmd { first++; return nil }}}, nil, nil)
	v.initialize([]keyBinding{{key.NewBinding(key.WithKeys("x")), func() tea.Cmd { second++; return nil }}}, nil, nil)

	v.Focus()
	if handled, _ := v.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); !handled {
		t.Fatalf("bound key not handled")
	}
	if first != 1 || second != 0 {
		t.Fatalf("handlers: first=%d second=%d, want 1 and 0", first, second)
	}
}

func TestBaseView_KeysOnlyWhenFocused(t *testing.T) {
	v := newBaseView(newTestContext(t))
	calls := 0
	v.initialize([]keyBinding{{key.NewBinding(key.WithKeys("enter")), func() tea.Cmd { calls++; return nil }}}, nil, nil)

	if handled, _ := v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}); handled || calls != 0 {
		t.Fatalf("blurred view handled a key")
	}
	v.Focus()
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	v.Blur()
	v.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
}

func TestBaseView_MouseDelegatesByClass(t *testing.T) {
	v := newBaseView(newTestContext(t))
	var clicked, hovered []int
	v.initialize(nil,
		map[string]mouseHandler{classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd { clicked = append(clicked, el.Index); return nil }},
		map[string]mouseHandler{classEmoji: func(el Element, _ tea.MouseMsg) tea.Cmd { hovered = append(hovered, el.Index); return nil }},
	)
	v.frame.reset(10, 1)
	v.frame.add(Element{Class: classEmoji, Rect: Rect{X: 0, Width: 3, Height: 1}, Index: 0})
	v.frame.add(Element{Class: classEmoji, Rect: Rect{X: 3, Width: 3, Height: 1}, Index: 1})
	v.frame.add(Element{Class: classTitle, Rect: Rect{X: 6, Width: 4, Height: 1}, Index: 0})

	v.HandleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 4, 0)
	v.HandleMouse(tea.MouseMsg{Action: tea.MouseActionMotion}, 1, 0)
	v.HandleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 7, 0)
	v.HandleMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, 1, 0)

	if len(clicked) != 1 || clicked[0] != 1 {
		t.Fatalf("clicks: got %v, want [1]", clicked)
	}
	if len(hovered) != 1 || hovered[0] != 0 {
		t.Fatalf("hovers: got %v, want [0]", hovered)
	}
	if got := len(v.frame.ByClass(classEmoji)); got != 2 {
		t.Fatalf("emoji elements: got %d, want 2", got)
	}
}

func TestBaseView_DestroyTwiceDropsSubscriptions(t *testing.T) {
	ctx := newTestContext(t)
	v := newBaseView(ctx)
	calls := 0
	v.on(evPreviewHide, func(any) tea.Cmd { calls++; return nil })

	ctx.events.emit(evPreviewHide, nil)
	v.Destroy()
	v.Destroy()
	ctx.events.emit(evPreviewHide, nil)

	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
	if n := ctx.events.count(evPreviewHide); n != 0 {
		t.Fatalf("subscribers after destroy: got %d", n)
	}
	if cmd := v.emit(evPreviewHide, nil); cmd != nil {
		t.Fatalf("destroyed view emitted")
	}
	if !v.Destroyed() || v.Focused() {
		t.Fatalf("destroyed=%v focused=%v", v.Destroyed(), v.Focused())
	}
}

func TestBaseView_Lookup(t *testing.T) {
	v := newBaseView(newTestContext(t))
	v.ui = map[string]string{"tabs": classTab}
	v.frame.add(Element{Class: classTab, Index: 0})
	v.frame.add(Element{Class: classEmoji, Index: 0})

	if got := len(v.lookup("tabs")); got != 1 {
		t.Fatalf("lookup tabs: got %d, want 1", got)
	}
	if got := v.lookup("missing"); got != nil {
		t.Fatalf("lookup missing: got %v", got)
	}
}

func TestCreate_RejectsShadowedContext(t *testing.T) {
	f := &viewFactory{ctx: newTestContext(t)}
	for _, k := range []string{"events", "i18n", "emojiData", "renderer", "options"} {
		if _, err := create(f, newPreview, props{k: nil}); !errors.Is(err, ErrShadowedContext) {
			t.Fatalf("prop %q: got %v, want ErrShadowedContext", k, err)
		}
	}
	if _, err := create(f, newPreview, props{"extra": 1}); err != nil {
		t.Fatalf("plain prop: %v", err)
	}
}

func TestCategoryTabs_StepClosure(t *testing.T) {
	for n := 1; n <= 6; n++ {
		keys := make([]string, n)
		for i := range keys {
			keys[i] = fmt.Sprintf("c%d", i)
		}
		for start := 0; start < n; start++ {
			for _, dir := range []int{1, -1} {
				tabs, err := newCategoryTabs(newTestContext(t), props{"categories": keys})
				if err != nil {
					t.Fatalf("newCategoryTabs: %v", err)
				}
				tabs.setActiveTab(start, false)
				for range n {
					tabs.stepSelectedTab(dir)
				}
				if tabs.activeIndex != start {
					t.Fatalf("n=%d start=%d dir=%d: got %d, want %d", n, start, dir, tabs.activeIndex, start)
				}
				active := 0
				for _, tab := range tabs.tabs {
					if tab.active {
						active++
					}
				}
				if active != 1 {
					t.Fatalf("n=%d start=%d dir=%d: %d active tabs, want 1", n, start, dir, active)
				}
			}
		}
	}
}

func TestCategoryTabs_HighlightDoesNotSelect(t *testing.T) {
	ctx := newTestContext(t)
	tabs, err := newCategoryTabs(ctx, props{"categories": []string{"a", "b", "c"}})
	if err != nil {
		t.Fatalf("newCategoryTabs: %v", err)
	}
	selects := 0
	ctx.events.on(evCategorySelect, func(any) tea.Cmd { selects++; return nil })

	ctx.events.emit(evCategoryHighlight, 2)
	if tabs.activeIndex != 2 || tabs.currentCategory() != "c" {
		t.Fatalf("active tab: got %d", tabs.activeIndex)
	}
	if selects != 0 {
		t.Fatalf("highlight caused %d selects", selects)
	}

	tabs.stepSelectedTab(1)
	if tabs.activeIndex != 0 || selects != 1 {
		t.Fatalf("step: active=%d selects=%d, want 0 and 1", tabs.activeIndex, selects)
	}
}

func TestEmojiContainer_Step(t *testing.T) {
	records := make([]emoji.Record, 10)
	c := newEmojiContainer(records, 4, 3)
	c.setActive(true, 5)

	tests := []struct {
		dir  gridDir
		next int
		ok   bool
	}{
		{dirLeft, 4, true},
		{dirRight, 6, true},
		{dirUp, 1, true},
		{dirDown, 9, true},
	}
	for _, tt := range tests {
		next, _, ok := c.step(tt.dir)
		if next != tt.next || ok != tt.ok {
			t.Fatalf("step %d from 5: got (%d,%v), want (%d,%v)", tt.dir, next, ok, tt.next, tt.ok)
		}
	}

	c.setActive(true, 9)
	if _, col, ok := c.step(dirDown); ok || col != 1 {
		t.Fatalf("down from last row: got (col=%d, ok=%v), want (1,false)", col, ok)
	}
	if got := c.entry(dirUp, 3); got != 9 {
		t.Fatalf("entry up at col 3: got %d, want 9", got)
	}
	if got := c.entry(dirLeft, 0); got != 9 {
		t.Fatalf("entry left: got %d, want 9", got)
	}
}
