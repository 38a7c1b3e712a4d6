package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
)

const maxHarnessSteps = 5000

var (
	recGrinning = emoji.Record{Emoji: "😀", Label: "grinning face", Hexcode: "1F600", Tags: []string{"smile", "happy"}, Version: 1}
	recJoy      = emoji.Record{Emoji: "😂", Label: "face with tears of joy", Hexcode: "1F602", Tags: []string{"laugh"}, Version: 1}
	recTear     = emoji.Record{Emoji: "🥲", Label: "smiling face with tear", Hexcode: "1F972", Version: 13}
	recWave     = emoji.Record{
		Emoji: "👋", Label: "waving hand", Hexcode: "1F44B", Tags: []string{"hello"}, Version: 0.6,
		Skins: []emoji.Record{
			{Emoji: "👋🏻", Hexcode: "1F44B-1F3FB", Version: 1},
			{Emoji: "👋🏼", Hexcode: "1F44B-1F3FC", Version: 1},
		},
	}
	recThumbs = emoji.Record{Emoji: "👍", Label: "thumbs up", Hexcode: "1F44D", Version: 0.6}
	recCat    = emoji.Record{Emoji: "🐱", Label: "cat face", Hexcode: "1F431", Version: 0.6}
)

func testCategories() []emoji.Category {
	return []emoji.Category{
		{Key: emoji.CategorySmileys, Emojis: []emoji.Record{recGrinning, recJoy, recTear}},
		{Key: emoji.CategoryPeople, Emojis: []emoji.Record{recWave, recThumbs}},
		{Key: emoji.CategoryAnimals, Emojis: []emoji.Record{recCat}},
	}
}

func staticLoader(categories []emoji.Category) emoji.Loader {
	return func(context.Context, string) (emoji.Database, error) {
		return emoji.NewDatabase(categories), nil
	}
}

var errLoad = errors.New("load failed")

func failingLoader(context.Context, string) (emoji.Database, error) {
	return nil, errLoad
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Reference = Rect{X: 10, Y: 2, Width: 6, Height: 1}
	cfg.Loader = staticLoader(testCategories())
	return cfg
}

// fakeClock advances by the tick duration every time a tick fires.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		c.now = c.now.Add(d)
		return fn(c.now)
	}
}

// harness drives a picker synchronously: commands run in FIFO order and
// their messages are fed back through Update.
type harness struct {
	t       *testing.T
	p       *Picker
	clock   *fakeClock
	pending []tea.Cmd

	log        []string
	selections []emoji.Selection
	errs       []error
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := newIdleHarness(t, cfg)
	h.push(h.p.Init())
	h.drain()
	return h
}

// newIdleHarness skips Init, so the build result is only awaited once
// something asks for it.
func newIdleHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	p, err := newPicker(cfg, &scheduler{now: clock.Now, tick: clock.Tick})
	if err != nil {
		t.Fatalf("newPicker: %v", err)
	}
	if w, _ := p.Root().Size(); w == 0 {
		p.Root().SetSize(80, 40)
	}
	h := &harness{t: t, p: p, clock: clock}
	p.On(EventSelect, func(v any) {
		h.log = append(h.log, "select")
		h.selections = append(h.selections, v.(emoji.Selection))
	})
	p.On(EventHide, func(any) { h.log = append(h.log, "hide") })
	p.On(EventError, func(v any) {
		h.log = append(h.log, "error")
		h.errs = append(h.errs, v.(error))
	})
	return h
}

func (h *harness) push(cmd tea.Cmd) {
	if cmd != nil {
		h.pending = append(h.pending, cmd)
	}
}

func (h *harness) drain() { h.runUntil(nil) }

// runUntil processes commands until none are left or stop reports true.
func (h *harness) runUntil(stop func() bool) {
	h.t.Helper()
	steps := 0
	for len(h.pending) > 0 {
		if stop != nil && stop() {
			return
		}
		steps++
		if steps > maxHarnessSteps {
			h.t.Fatalf("commands did not settle after %d steps", maxHarnessSteps)
		}
		cmd := h.pending[0]
		h.pending = h.pending[1:]
		h.dispatch(cmd())
	}
}

func (h *harness) dispatch(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, cmd := range msg {
			h.push(cmd)
		}
	case spinner.TickMsg:
	default:
		h.push(h.p.Update(msg))
	}
}

// send delivers msg, settles, and renders so hit regions are current.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	h.push(h.p.Update(msg))
	h.drain()
	h.render()
}

func (h *harness) show() {
	h.t.Helper()
	cmd, err := h.p.ShowPicker()
	if err != nil {
		h.t.Fatalf("ShowPicker: %v", err)
	}
	h.push(cmd)
	h.drain()
	h.render()
}

func (h *harness) hide() {
	h.t.Helper()
	h.push(h.p.HidePicker())
	h.drain()
}

func (h *harness) render() string { return h.p.Root().Render("") }

func (h *harness) key(k tea.KeyType) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) click(x, y int) {
	h.t.Helper()
	h.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// elementAt returns the screen position of the index-th element of class in
// the region of zone z.
func (h *harness) elementAt(z focusZone, class string, index int) (x, y int) {
	h.t.Helper()
	for _, r := range h.p.regions {
		if r.zone != z {
			continue
		}
		els := r.view.Frame().ByClass(class)
		if index >= len(els) {
			h.t.Fatalf("zone %d has %d %q elements, want index %d", z, len(els), class, index)
		}
		el := els[index]
		return h.p.originX + r.rect.X + el.Rect.X, h.p.originY + r.rect.Y + el.Rect.Y
	}
	h.t.Fatalf("zone %d not rendered", z)
	return 0, 0
}
