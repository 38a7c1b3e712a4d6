package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/emojipick/emoji"
)

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Position = Position{Placement: "middle"}
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New with bad placement: got %v, want ErrInvalidConfig", err)
	}

	cfg = testConfig()
	cfg.Theme = "sepia"
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New with bad theme: got %v, want ErrInvalidConfig", err)
	}
}

func TestShowHide_Lifecycle(t *testing.T) {
	h := newHarness(t, testConfig())
	p := h.p

	h.show()
	if !p.IsPickerVisible() || !p.attached || !p.Root().attached(p) {
		t.Fatalf("after show: visible=%v attached=%v", p.IsPickerVisible(), p.attached)
	}
	if !p.listeners.attached {
		t.Fatalf("document listeners not attached after show")
	}
	if got := p.anim.current; got != visualShown {
		t.Fatalf("visual after show: got %+v, want %+v", got, visualShown)
	}
	if got := p.trap.current(); got != zoneSearch {
		t.Fatalf("initial focus zone: got %d, want search", got)
	}

	h.hide()
	if p.IsPickerVisible() || p.attached || p.Root().attached(p) {
		t.Fatalf("after hide: visible=%v attached=%v", p.IsPickerVisible(), p.attached)
	}
	if p.listeners.attached || p.listeners.detaches != 1 {
		t.Fatalf("listeners after hide: attached=%v detaches=%d", p.listeners.attached, p.listeners.detaches)
	}
	if got, want := fmt.Sprint(h.log), "[hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
	if p.trap.active {
		t.Fatalf("focus trap still active after hide")
	}
}

func TestShowPicker_NoReferenceFailsBeforeAttach(t *testing.T) {
	cfg := testConfig()
	cfg.Reference = nil
	h := newHarness(t, cfg)

	cmd, err := h.p.ShowPicker()
	if !errors.Is(err, ErrNoReference) {
		t.Fatalf("ShowPicker: got %v, want ErrNoReference", err)
	}
	if cmd != nil || h.p.attached || h.p.wrapperAttaches != 0 || h.p.IsPickerVisible() {
		t.Fatalf("picker touched the root: attaches=%d visible=%v", h.p.wrapperAttaches, h.p.IsPickerVisible())
	}
}

func TestShowPicker_FixedPositionNeedsNoReference(t *testing.T) {
	cfg := testConfig()
	cfg.Reference = nil
	cfg.Position = Fixed(3, 4)
	h := newHarness(t, cfg)

	h.show()
	if h.p.originX != 4 || h.p.originY != 3 {
		t.Fatalf("origin: got (%d,%d), want (4,3)", h.p.originX, h.p.originY)
	}
}

func TestShowPicker_MobileBelowBreakpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Reference = nil
	cfg.Root = NewRoot()
	cfg.Root.SetSize(30, 30)
	h := newHarness(t, cfg)

	h.show()
	if !h.p.mobileOverlay || h.p.positioner.mode != displayMobile {
		t.Fatalf("mobile display not used: overlay=%v", h.p.mobileOverlay)
	}
	if want := (30 - h.p.boxW) / 2; h.p.originX != max(want, 0) {
		t.Fatalf("origin x: got %d, want %d", h.p.originX, want)
	}

	h.hide()
	if h.p.mobileOverlay {
		t.Fatalf("overlay kept after hide")
	}
}

func TestShowPicker_NoopWhenVisible(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	cmd, err := h.p.ShowPicker()
	if err != nil || cmd != nil {
		t.Fatalf("second ShowPicker: got (%v, %v), want no-op", cmd != nil, err)
	}
	if h.p.wrapperAttaches != 1 {
		t.Fatalf("attaches: got %d, want 1", h.p.wrapperAttaches)
	}
}

func TestHidePicker_NoopWhenHidden(t *testing.T) {
	h := newHarness(t, testConfig())
	if cmd := h.p.HidePicker(); cmd != nil {
		t.Fatalf("HidePicker on hidden picker returned a command")
	}
	h.drain()
	if len(h.log) != 0 {
		t.Fatalf("events: got %v, want none", h.log)
	}
}

func TestHidePicker_TwiceDetachesListenersOnce(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.push(h.p.HidePicker())
	h.push(h.p.HidePicker())
	h.drain()

	if h.p.listeners.detaches != 1 || h.p.wrapperDetaches != 1 {
		t.Fatalf("detaches: listeners=%d wrapper=%d, want 1 each", h.p.listeners.detaches, h.p.wrapperDetaches)
	}
	if got, want := fmt.Sprint(h.log), "[hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
}

func TestTogglePicker_RapidCallsStayConsistent(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("toggles=%d", n), func(t *testing.T) {
			h := newHarness(t, testConfig())
			p := h.p
			for i := 0; i < n; i++ {
				cmd, err := p.TogglePicker()
				if err != nil {
					t.Fatalf("toggle %d: %v", i, err)
				}
				h.push(cmd)
			}
			h.drain()

			wantVisible := n%2 == 1
			if p.IsPickerVisible() != wantVisible {
				t.Fatalf("visible: got %v, want %v", p.IsPickerVisible(), wantVisible)
			}
			if p.attached != wantVisible || p.Root().attached(p) != wantVisible {
				t.Fatalf("attached: got %v, want %v", p.attached, wantVisible)
			}
			if got := p.wrapperAttaches - p.wrapperDetaches; got != boolInt(wantVisible) {
				t.Fatalf("attach balance: got %d, want %d", got, boolInt(wantVisible))
			}
			if p.listeners.attached != wantVisible {
				t.Fatalf("listeners attached: got %v, want %v", p.listeners.attached, wantVisible)
			}
			if p.anim.peak > 1 {
				t.Fatalf("concurrent animations: got %d, want at most 1", p.anim.peak)
			}
			if p.transitioning || len(p.queue) != 0 {
				t.Fatalf("transition queue not drained")
			}
		})
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestHideDuringShowAnimation_DetachesOnce(t *testing.T) {
	h := newHarness(t, testConfig())
	p := h.p

	cmd, err := p.ShowPicker()
	if err != nil {
		t.Fatalf("ShowPicker: %v", err)
	}
	h.push(cmd)
	h.runUntil(p.anim.busy)
	if !p.anim.busy() {
		t.Fatalf("show animation never started")
	}

	h.hide()
	if p.wrapperDetaches != 1 || p.listeners.detaches != 1 {
		t.Fatalf("detaches: wrapper=%d listeners=%d, want 1 each", p.wrapperDetaches, p.listeners.detaches)
	}
	if p.anim.peak != 1 {
		t.Fatalf("peak animations: got %d, want 1", p.anim.peak)
	}
	if got, want := fmt.Sprint(h.log), "[hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
}

func TestHidePicker_DropsInputWhileAnimatingOut(t *testing.T) {
	cfg := testConfig()
	cfg.AutoHide = false
	h := newHarness(t, cfg)
	p := h.p
	h.show()
	h.key(tea.KeyDown)
	x, y := h.elementAt(zoneContent, classEmoji, 1)

	h.push(p.HidePicker())
	h.runUntil(p.anim.busy)
	if !p.attached || p.trap.active {
		t.Fatalf("mid-hide: attached=%v trapActive=%v, want attached and inactive", p.attached, p.trap.active)
	}

	h.push(p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
	if p.trap.focused != nil {
		t.Fatalf("typing mid-hide focused zone %d", p.trap.current())
	}
	if got := p.search.query(); got != "" {
		t.Fatalf("query mid-hide: got %q, want empty", got)
	}
	h.push(p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}))
	h.drain()

	if len(h.selections) != 0 {
		t.Fatalf("selections after hide: got %+v, want none", h.selections)
	}
	if p.trap.focused != nil || p.trap.active {
		t.Fatalf("trap after hide: active=%v focused=%v", p.trap.active, p.trap.focused != nil)
	}
	if got, want := fmt.Sprint(h.log), "[hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
}

func TestShowPicker_WaitsForBuild(t *testing.T) {
	release := make(chan struct{})
	cfg := testConfig()
	inner := cfg.Loader
	cfg.Loader = func(ctx context.Context, locale string) (emoji.Database, error) {
		<-release
		return inner(ctx, locale)
	}
	h := newIdleHarness(t, cfg)

	cmd, err := h.p.ShowPicker()
	if err != nil {
		t.Fatalf("ShowPicker: %v", err)
	}
	if !h.p.attached {
		t.Fatalf("picker not attached while loading")
	}
	if view := ansi.Strip(h.p.View()); !strings.Contains(view, "Loading") {
		t.Fatalf("skeleton view missing loading text:\n%s", view)
	}

	close(release)
	h.push(cmd)
	h.drain()
	if !h.p.buildDone || h.p.anim.current != visualShown {
		t.Fatalf("picker not revealed after build: done=%v visual=%+v", h.p.buildDone, h.p.anim.current)
	}
}

func TestBuildFailure_ReportsError(t *testing.T) {
	cfg := testConfig()
	cfg.Loader = failingLoader
	h := newHarness(t, cfg)

	cmd, err := h.p.ShowPicker()
	if err != nil {
		t.Fatalf("ShowPicker: %v", err)
	}
	h.push(cmd)
	h.drain()

	if h.p.IsPickerVisible() || h.p.attached {
		t.Fatalf("failed build left picker shown")
	}
	if len(h.errs) != 1 || !errors.Is(h.errs[0], errLoad) {
		t.Fatalf("errors: got %v, want one wrapping %v", h.errs, errLoad)
	}
	if h.p.wrapperAttaches != h.p.wrapperDetaches {
		t.Fatalf("attach balance: %d attaches, %d detaches", h.p.wrapperAttaches, h.p.wrapperDetaches)
	}
}

func TestDestroyPicker(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	area := h.p.emojiArea

	h.p.DestroyPicker()
	h.p.DestroyPicker()

	if h.p.attached || h.p.Root().attached(h.p) || h.p.IsPickerVisible() {
		t.Fatalf("destroyed picker still attached")
	}
	if !area.Destroyed() {
		t.Fatalf("emoji area not destroyed")
	}
	if n := h.p.events.count(evEmojiSelect); n != 0 {
		t.Fatalf("bus subscribers after destroy: got %d, want 0", n)
	}
	if h.p.listeners.detaches != 1 {
		t.Fatalf("listener detaches: got %d, want 1", h.p.listeners.detaches)
	}
	if _, err := h.p.ShowPicker(); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("ShowPicker after destroy: got %v, want ErrDestroyed", err)
	}
}

func TestSelect_AutoHideEmitsSelectThenHide(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.key(tea.KeyDown)
	if got := h.p.trap.current(); got != zoneContent {
		t.Fatalf("down from search: got zone %d, want content", got)
	}
	h.key(tea.KeyEnter)

	if got, want := fmt.Sprint(h.log), "[select hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
	if got := h.selections[0]; got.Emoji != recGrinning.Emoji || got.Hexcode != recGrinning.Hexcode {
		t.Fatalf("selection: got %+v", got)
	}
	recents := h.p.recents.Recents(10)
	if len(recents) != 1 || recents[0].Key() != recGrinning.Key() {
		t.Fatalf("recents: got %v", recents)
	}
}

func TestSelect_WithoutAutoHideStaysVisible(t *testing.T) {
	cfg := testConfig()
	cfg.AutoHide = false
	h := newHarness(t, cfg)
	h.show()

	h.key(tea.KeyDown)
	h.key(tea.KeyEnter)
	h.key(tea.KeyEnter)

	if got, want := fmt.Sprint(h.log), "[select select]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
	if !h.p.IsPickerVisible() {
		t.Fatalf("picker hidden without autoHide")
	}
	if got := len(h.p.emojiArea.categories[h.p.emojiArea.recentsIndex].container.records); got != 1 {
		t.Fatalf("recents section: got %d records, want 1", got)
	}
}

// openWavePopup focuses the waving hand and opens its variant popup.
func openWavePopup(t *testing.T, h *harness) {
	t.Helper()
	h.key(tea.KeyDown) // search -> grid
	h.key(tea.KeyDown) // smileys -> people
	if _, rec, _ := h.p.emojiArea.focusedRecord(); rec.Key() != recWave.Key() {
		t.Fatalf("focused: got %q, want waving hand", rec.Label)
	}
	h.key(tea.KeyEnter)
	if h.p.popup == nil {
		t.Fatalf("variant popup not opened")
	}
}

func TestVariantPopup_OpensWithoutEmitting(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)

	if len(h.log) != 0 {
		t.Fatalf("events after opening popup: got %v, want none", h.log)
	}
	if got := len(h.p.popup.entries); got != 3 {
		t.Fatalf("popup entries: got %d, want 3", got)
	}
}

func TestVariantPopup_FocusClamps(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)

	for i := 0; i < 4; i++ {
		h.key(tea.KeyRight)
	}
	if got := h.p.popup.focusedIndex; got != 2 {
		t.Fatalf("after rights: got %d, want 2", got)
	}
	for i := 0; i < 4; i++ {
		h.key(tea.KeyLeft)
	}
	if got := h.p.popup.focusedIndex; got != 0 {
		t.Fatalf("after lefts: got %d, want 0", got)
	}
}

func TestVariantPopup_SelectVariant(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)

	h.key(tea.KeyRight)
	h.key(tea.KeyEnter)

	if got, want := fmt.Sprint(h.log), "[select hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
	if got, want := h.selections[0].Hexcode, recWave.Skins[0].Hexcode; got != want {
		t.Fatalf("selected hexcode: got %s, want %s", got, want)
	}
	if h.p.popup != nil {
		t.Fatalf("popup kept after selection")
	}
}

func TestVariantPopup_AtMostOne(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)
	popup := h.p.popup

	h.push(h.p.showVariantPopup(recThumbs))
	h.drain()
	if h.p.popup != popup || popup.Destroyed() {
		t.Fatalf("second popup replaced the open one")
	}
}

func TestVariantPopup_DismissKeepsPicker(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)
	popup := h.p.popup

	h.key(tea.KeyEsc)
	if h.p.popup != nil || !popup.Destroyed() {
		t.Fatalf("popup not removed on dismiss")
	}
	if !h.p.IsPickerVisible() || len(h.log) != 0 {
		t.Fatalf("dismissing popup affected picker: visible=%v events=%v", h.p.IsPickerVisible(), h.log)
	}
}

func TestVariantPopup_ClickOutsidePopupDismisses(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	openWavePopup(t, h)

	// Top-left corner of the picker box is inside the box but off the popup.
	h.click(h.p.originX, h.p.originY)
	if h.p.popup != nil {
		t.Fatalf("popup kept after click beside it")
	}
	if !h.p.IsPickerVisible() {
		t.Fatalf("picker hidden by click inside its box")
	}
}

func TestTabs_NavigationWraps(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	tabs := h.p.tabs

	h.key(tea.KeyTab)
	if got := h.p.trap.current(); got != zoneTabs {
		t.Fatalf("tab from search: got zone %d, want tabs", got)
	}
	if !h.p.keyboard {
		t.Fatalf("keyboard marker not set by tab")
	}
	if got := tabs.activeIndex; got != 1 {
		t.Fatalf("initial tab: got %d, want 1", got)
	}

	h.key(tea.KeyLeft)
	h.key(tea.KeyLeft)
	if got, want := tabs.activeIndex, len(tabs.tabs)-1; got != want {
		t.Fatalf("left past first tab: got %d, want %d", got, want)
	}
	if got := h.p.emojiArea.activeCategory; got != len(tabs.tabs)-1 {
		t.Fatalf("grid category: got %d, want %d", got, len(tabs.tabs)-1)
	}

	h.key(tea.KeyRight)
	if got := tabs.activeIndex; got != 0 {
		t.Fatalf("right past last tab: got %d, want 0", got)
	}
}

func TestFocusTrap_ShiftTabWraps(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.key(tea.KeyShiftTab)
	if got := h.p.trap.current(); got != zoneContent {
		t.Fatalf("shift+tab from search: got zone %d, want content", got)
	}
	h.key(tea.KeyTab)
	if got := h.p.trap.current(); got != zoneSearch {
		t.Fatalf("tab from content: got zone %d, want search", got)
	}
}

func TestSearch_ResultsAndRestore(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.typeText("grin")
	res, ok := h.p.currentView.(*searchResults)
	if !ok {
		t.Fatalf("content after typing: got %T, want *searchResults", h.p.currentView)
	}
	if res.empty() || res.container.records[0].Key() != recGrinning.Key() {
		t.Fatalf("first result: got %v", res.container.records)
	}

	for range "grin" {
		h.key(tea.KeyBackspace)
	}
	if h.p.currentView != View(h.p.emojiArea) {
		t.Fatalf("content after clearing: got %T, want grid", h.p.currentView)
	}
	if !res.Destroyed() {
		t.Fatalf("replaced results view not destroyed")
	}
}

func TestSearch_NotFound(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.typeText("qqqq")
	res, ok := h.p.currentView.(*searchResults)
	if !ok || !res.empty() {
		t.Fatalf("content: got %T, want empty results", h.p.currentView)
	}
	if view := ansi.Strip(h.p.View()); !strings.Contains(view, "No emojis found") {
		t.Fatalf("not-found message missing:\n%s", view)
	}
}

func TestSearch_SelectFromResults(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.typeText("cat")
	h.key(tea.KeyEnter)
	if len(h.selections) != 1 || h.selections[0].Hexcode != recCat.Hexcode {
		t.Fatalf("selections: got %+v", h.selections)
	}
	if h.p.search.query() != "" {
		t.Fatalf("search not cleared on hide: %q", h.p.search.query())
	}
}

func TestDocumentKey_WordCharStartsSearch(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()
	h.key(tea.KeyDown)

	h.typeText("c")
	if got := h.p.trap.current(); got != zoneSearch {
		t.Fatalf("zone after typing: got %d, want search", got)
	}
	if got := h.p.search.query(); got != "c" {
		t.Fatalf("query: got %q, want %q", got, "c")
	}
}

func TestDocumentKey_EscapeHides(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.key(tea.KeyEsc)
	if h.p.IsPickerVisible() {
		t.Fatalf("escape did not hide picker")
	}
	if got, want := fmt.Sprint(h.log), "[hide]"; got != want {
		t.Fatalf("events: got %s, want %s", got, want)
	}
}

func TestMouse_ClickEmojiSelects(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	x, y := h.elementAt(zoneContent, classEmoji, 1)
	h.click(x, y)
	if len(h.selections) != 1 || h.selections[0].Hexcode != recJoy.Hexcode {
		t.Fatalf("selections: got %+v", h.selections)
	}
}

func TestMouse_ClickTabScrollsGrid(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	x, y := h.elementAt(zoneTabs, classTab, 3)
	h.click(x, y)
	if got := h.p.tabs.activeIndex; got != 3 {
		t.Fatalf("active tab: got %d, want 3", got)
	}
	if got := h.p.trap.current(); got != zoneTabs {
		t.Fatalf("focus after click: got zone %d, want tabs", got)
	}
	if _, rec, _ := h.p.emojiArea.focusedRecord(); rec.Key() != recCat.Key() {
		t.Fatalf("focused emoji: got %q, want cat face", rec.Label)
	}
}

func TestMouse_ClickOutsideHides(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	h.click(79, 39)
	if h.p.IsPickerVisible() {
		t.Fatalf("click outside did not hide picker")
	}
}

func TestMouse_HoverShowsPreview(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	x, y := h.elementAt(zoneContent, classEmoji, 2)
	h.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if rec := h.p.preview.record; rec == nil || rec.Key() != recTear.Key() {
		t.Fatalf("preview: got %v, want smiling face with tear", rec)
	}
}

func TestEmojiVersion_FiltersNewerRecords(t *testing.T) {
	cfg := testConfig()
	cfg.EmojiVersion = 12
	h := newHarness(t, cfg)
	h.show()

	for _, c := range h.p.emojiArea.categories {
		for _, rec := range c.container.records {
			if rec.Key() == recTear.Key() {
				t.Fatalf("record newer than version ceiling shown")
			}
		}
	}
}

func TestView_BoxHeight(t *testing.T) {
	h := newHarness(t, testConfig())
	h.show()

	got := lipgloss.Height(h.p.View())
	want := h.p.bodyHeight() + h.p.style.Picker.GetVerticalFrameSize()
	if got != want {
		t.Fatalf("box height: got %d, want %d", got, want)
	}
	if h.p.boxH != got {
		t.Fatalf("recorded box height: got %d, want %d", h.p.boxH, got)
	}
}

func TestDisabledSections(t *testing.T) {
	cfg := testConfig()
	cfg.ShowSearch = false
	cfg.ShowCategoryButtons = false
	cfg.ShowPreview = false
	cfg.ShowRecents = false
	h := newHarness(t, cfg)
	h.show()

	if h.p.search != nil || h.p.tabs != nil || h.p.preview != nil {
		t.Fatalf("disabled views were built")
	}
	if got := h.p.trap.current(); got != zoneContent {
		t.Fatalf("initial focus: got zone %d, want content", got)
	}
	if got := h.p.emojiArea.categories[0].key; got != emoji.CategorySmileys {
		t.Fatalf("first category: got %q, want %q", got, emoji.CategorySmileys)
	}

	h.typeText("c")
	if h.p.trap.current() != zoneContent {
		t.Fatalf("typing moved focus without a search field")
	}
}
