package picker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/i18n"
	"github.com/iw2rmb/emojipick/renderer"
)

var pickerSeq atomic.Uint64

type buildResult struct {
	db  emoji.Database
	err error
}

type buildLoadedMsg struct {
	owner uint64
	db    emoji.Database
	err   error
}

type emitResolvedMsg struct {
	owner     uint64
	record    emoji.Record
	selection emoji.Selection
	err       error
}

// documentListeners tracks the picker-wide click and key handlers that are
// live only while the picker is shown.
type documentListeners struct {
	attached           bool
	attaches, detaches int
}

// region is where a view was drawn inside the picker box.
type region struct {
	rect      Rect
	view      View
	zone      focusZone
	focusable bool
}

// Picker is the emoji picker component.
type Picker struct {
	id   uint64
	opts *options

	root      *Root
	reference Anchor
	renderer  renderer.Renderer
	recents   emoji.RecentStore
	lazy      LazyLoader
	loader    emoji.Loader

	style Style
	keys  KeyMap
	i18n  *i18n.Bundle
	log   *slog.Logger
	sched *scheduler

	events   *bus
	external externalEvents

	ctx    context.Context
	cancel context.CancelFunc

	buildCh       chan buildResult
	buildAwaiting bool
	buildDone     bool
	buildErr      error
	buildWaiters  []func(error) tea.Cmd

	skeleton skeleton
	factory  *viewFactory

	search       *search
	tabs         *categoryTabs
	emojiArea    *emojiArea
	preview      *preview
	popup        *variantPopup
	popupClosing bool
	currentView  View
	stopLazy     func()

	trap      focusTrap
	anim      *animator
	listeners documentListeners

	visible       bool
	attached      bool
	destroyed     bool
	keyboard      bool
	mobileOverlay bool
	positioner    *positioner

	queue         []transitionKind
	transitioning bool

	regions          []region
	boxW, boxH       int
	originX, originY int

	wrapperAttaches, wrapperDetaches int
}

// New creates a picker and starts loading emoji data in the background.
// New never blocks on the data; ShowPicker waits for it.
func New(cfg Config) (*Picker, error) {
	return newPicker(cfg, defaultScheduler())
}

func newPicker(cfg Config, sched *scheduler) (*Picker, error) {
	opts, err := resolveOptions(cfg)
	if err != nil {
		return nil, err
	}
	id := pickerSeq.Add(1)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	style := DefaultStyle(opts.theme)
	if cfg.Style != nil {
		style = *cfg.Style
	}
	keys := DefaultKeyMap()
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}
	bundle := cfg.I18n
	if bundle == nil {
		bundle = i18n.New(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Picker{
		id:        id,
		opts:      opts,
		root:      cfg.Root,
		reference: cfg.Reference,
		renderer:  cfg.Renderer,
		recents:   cfg.Recents,
		lazy:      cfg.LazyLoader,
		loader:    cfg.Loader,
		style:     style,
		keys:      keys,
		i18n:      bundle,
		log:       logger.With("component", "emojipick", "picker_id", id),
		sched:     sched,
		events:    newBus(),
		ctx:       ctx,
		cancel:    cancel,
	}
	if p.root == nil {
		p.root = NewRoot()
	}
	if p.renderer == nil {
		p.renderer = renderer.Native{}
	}
	if p.recents == nil {
		p.recents = emoji.NewMemoryRecents()
	}
	if p.lazy == nil {
		p.lazy = IntersectionLoader{LookAhead: 1}
	}
	if p.loader == nil {
		p.loader = emoji.LoadEmbedded
	}
	p.anim = newAnimator(id, sched)
	p.skeleton = newSkeleton(style, bundle)
	p.startBuild()
	return p, nil
}

func (p *Picker) startBuild() {
	ch := make(chan buildResult, 1)
	p.buildCh = ch
	loader, ctx, locale := p.loader, p.ctx, p.opts.locale
	p.log.Debug("build started", "locale", locale)
	go func() {
		db, err := loader(ctx, locale)
		ch <- buildResult{db: db, err: err}
	}()
}

// awaitBuild returns the command delivering the build result. Only one is
// ever in flight.
func (p *Picker) awaitBuild() tea.Cmd {
	if p.buildDone || p.buildAwaiting {
		return nil
	}
	p.buildAwaiting = true
	ch, owner := p.buildCh, p.id
	return func() tea.Msg {
		r := <-ch
		return buildLoadedMsg{owner: owner, db: r.db, err: r.err}
	}
}

// whenBuilt runs fn with the build outcome, now or once the build finishes.
func (p *Picker) whenBuilt(fn func(error) tea.Cmd) tea.Cmd {
	if p.buildDone {
		return fn(p.buildErr)
	}
	p.buildWaiters = append(p.buildWaiters, fn)
	return p.awaitBuild()
}

func (p *Picker) handleBuildLoaded(msg buildLoadedMsg) tea.Cmd {
	p.buildAwaiting = false
	if p.destroyed || p.buildDone {
		return nil
	}
	err := msg.err
	if err == nil {
		err = p.assemble(msg.db)
	}
	p.buildDone = true
	if err != nil {
		p.buildErr = fmt.Errorf("picker: build: %w", err)
		p.log.Error("build failed", "error", err)
	} else {
		p.log.Debug("build finished", "categories", len(p.emojiArea.categories))
	}

	waiters := p.buildWaiters
	p.buildWaiters = nil
	cmds := make([]tea.Cmd, 0, len(waiters))
	for _, w := range waiters {
		cmds = append(cmds, w(p.buildErr))
	}
	return tea.Batch(cmds...)
}

// assemble builds the sub-views over the loaded data and wires the bus.
func (p *Picker) assemble(db emoji.Database) error {
	if db == nil {
		return fmt.Errorf("loader returned no data")
	}
	opts := p.opts
	data := emoji.NewDatabase(emoji.WithinVersion(db.Categories(), opts.emojiVersion))
	p.factory = &viewFactory{ctx: &viewContext{
		events:    p.events,
		i18n:      p.i18n,
		emojiData: data,
		renderer:  p.renderer,
		options:   opts,
		style:     p.style,
		keys:      p.keys,
		log:       p.log,
		keyboard:  func() bool { return p.keyboard },
	}}

	if opts.showSearch {
		s, err := create(p.factory, newSearch, props{"factory": p.factory, "customEmojis": opts.custom})
		if err != nil {
			return err
		}
		p.search = s
	}
	area, err := create(p.factory, newEmojiArea, props{"custom": opts.custom, "recents": p.recents})
	if err != nil {
		return err
	}
	p.emojiArea = area
	if opts.showCategoryButtons {
		tabs, err := create(p.factory, newCategoryTabs, props{"categories": area.categoryKeys()})
		if err != nil {
			return err
		}
		p.tabs = tabs
	}
	if opts.showPreview {
		pv, err := create(p.factory, newPreview, nil)
		if err != nil {
			return err
		}
		p.preview = pv
	}
	p.currentView = area

	if p.search != nil {
		p.trap.zones = append(p.trap.zones, zone{id: zoneSearch, view: func() View { return p.search }})
	}
	if p.tabs != nil {
		p.trap.zones = append(p.trap.zones, zone{id: zoneTabs, view: func() View { return p.tabs }})
	}
	p.trap.zones = append(p.trap.zones, zone{id: zoneContent, view: func() View { return p.currentView }})

	p.events.on(evContentShow, func(payload any) tea.Cmd {
		v, _ := payload.(View)
		return p.showContent(v)
	})
	p.events.on(evVariantPopupHide, func(any) tea.Cmd { return p.hideVariantPopup() })
	p.events.on(evEmojiSelect, p.selectEmoji)
	p.events.on(evCategorySelect, p.onCategorySelect)

	p.stopLazy = p.lazy.Observe(area)
	return nil
}

// On registers fn for an external event.
func (p *Picker) On(ev Event, fn func(any)) Subscription { return p.external.on(ev, fn) }

// Off removes a handler registered with On.
func (p *Picker) Off(sub Subscription) { p.external.off(sub) }

// Root returns the render target the picker attaches to.
func (p *Picker) Root() *Root { return p.root }

// KeyMap returns the active key bindings, for help rendering.
func (p *Picker) KeyMap() KeyMap { return p.keys }

func (p *Picker) IsPickerVisible() bool { return p.visible }

// Init returns the commands that deliver the build result and animate the
// loading skeleton.
func (p *Picker) Init() tea.Cmd {
	return tea.Batch(p.awaitBuild(), p.skeleton.spinner.Tick)
}

// ShowPicker shows the picker. Positioning is validated before anything is
// attached; relative positioning without a reference fails with
// ErrNoReference. Showing a visible picker is a no-op.
func (p *Picker) ShowPicker() (tea.Cmd, error) {
	if p.destroyed {
		return nil, ErrDestroyed
	}
	if p.visible {
		return nil, nil
	}
	if _, err := p.resolveDisplay(); err != nil {
		p.log.Error("position picker", "error", err)
		return nil, err
	}
	p.visible = true
	return p.enqueue(transitionShow), nil
}

// HidePicker hides the picker. Hiding a hidden picker is a no-op.
func (p *Picker) HidePicker() tea.Cmd {
	if p.destroyed || !p.visible {
		return nil
	}
	p.visible = false
	return p.enqueue(transitionHide)
}

// TogglePicker shows a hidden picker and hides a visible one, going by the
// visibility flag rather than what is currently drawn.
func (p *Picker) TogglePicker() (tea.Cmd, error) {
	if p.visible {
		return p.HidePicker(), nil
	}
	return p.ShowPicker()
}

// DestroyPicker releases the picker. A destroyed picker cannot be shown
// again; calling DestroyPicker twice is a no-op.
func (p *Picker) DestroyPicker() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.cancel()
	p.anim.stop()
	p.queue = nil
	p.transitioning = false
	p.buildWaiters = nil

	p.trap.deactivate()
	p.removeDocumentListeners()
	if p.attached {
		if err := p.root.detach(p); err == nil {
			p.wrapperDetaches++
		}
		p.attached = false
	}
	p.positioner = nil
	p.mobileOverlay = false
	p.visible = false

	if p.stopLazy != nil {
		p.stopLazy()
	}
	for _, v := range []View{p.popupView(), p.currentView, p.searchView(), p.tabsView(), p.areaView(), p.previewView()} {
		if v != nil {
			v.Destroy()
		}
	}
	p.popup = nil
	p.events.removeAll()
	p.log.Debug("destroyed")
}

// Typed-nil-safe accessors for optional views.

func (p *Picker) popupView() View {
	if p.popup == nil {
		return nil
	}
	return p.popup
}

func (p *Picker) searchView() View {
	if p.search == nil {
		return nil
	}
	return p.search
}

func (p *Picker) tabsView() View {
	if p.tabs == nil {
		return nil
	}
	return p.tabs
}

func (p *Picker) areaView() View {
	if p.emojiArea == nil {
		return nil
	}
	return p.emojiArea
}

func (p *Picker) previewView() View {
	if p.preview == nil {
		return nil
	}
	return p.preview
}

// showContent puts v in the content slot, or the emoji grid when v is nil.
// The outgoing view is destroyed unless it is the grid, which is reset.
func (p *Picker) showContent(v View) tea.Cmd {
	if p.emojiArea == nil {
		return nil
	}
	area := p.areaView()
	if p.currentView != nil && p.currentView != area && p.currentView != v {
		p.currentView.Destroy()
	}
	if v == nil {
		v = area
	}
	p.currentView = v

	cmds := []tea.Cmd{p.trap.swap(zoneContent, v)}
	if v == area {
		cmds = append(cmds, p.emojiArea.reset())
	}
	return tea.Batch(cmds...)
}

// onCategorySelect brings the grid back when a tab is picked while search
// results are shown.
func (p *Picker) onCategorySelect(payload any) tea.Cmd {
	i, ok := payload.(int)
	if !ok || p.currentView == p.areaView() {
		return nil
	}
	if p.search != nil {
		p.search.clear()
	}
	return tea.Batch(p.showContent(nil), p.emojiArea.scrollToCategory(i))
}

func (p *Picker) selectEmoji(payload any) tea.Cmd {
	rec, ok := payload.(emoji.Record)
	if !ok {
		return nil
	}
	if rec.HasVariants() && p.opts.showVariants && p.popup == nil {
		return p.showVariantPopup(rec)
	}
	return tea.Batch(p.hideVariantPopup(), p.emitEmoji(rec))
}

// emitEmoji asks the renderer for the selection payload off the update loop.
func (p *Picker) emitEmoji(rec emoji.Record) tea.Cmd {
	r, ctx, owner := p.renderer, p.ctx, p.id
	return func() tea.Msg {
		sel, err := r.Emit(ctx, rec)
		return emitResolvedMsg{owner: owner, record: rec, selection: sel, err: err}
	}
}

func (p *Picker) handleEmitResolved(msg emitResolvedMsg) tea.Cmd {
	if p.destroyed {
		return nil
	}
	if msg.err != nil {
		p.log.Error("render selection", "emoji", msg.record.Key(), "error", msg.err)
		p.external.emit(EventError, msg.err)
		return nil
	}
	p.external.emit(EventSelect, msg.selection)

	var cmds []tea.Cmd
	if p.opts.autoHide {
		cmds = append(cmds, p.HidePicker())
	}
	if err := p.recents.Add(msg.record, p.opts.maxRecents); err != nil {
		p.log.Warn("record recent emoji", "error", err)
	}
	cmds = append(cmds, p.events.emit(evRecentAdd, msg.record))
	return tea.Batch(cmds...)
}

// showVariantPopup opens the popup for rec. It is a no-op while a popup
// exists, including one whose removal is pending.
func (p *Picker) showVariantPopup(rec emoji.Record) tea.Cmd {
	if p.popup != nil {
		return nil
	}
	popup, err := create(p.factory, newVariantPopup, props{"emoji": rec})
	if err != nil {
		p.log.Error("build variant popup", "error", err)
		return nil
	}
	p.popup = popup
	p.popupClosing = false
	return tea.Batch(popup.Focus(), p.events.emit(evPreviewShow, rec))
}

// hideVariantPopup removes the popup on the next tick, so the click that
// dismissed it is not also seen as a click outside the picker.
func (p *Picker) hideVariantPopup() tea.Cmd {
	if p.popup == nil || p.popupClosing {
		return nil
	}
	p.popupClosing = true
	popup := p.popup
	return p.deferTick(func() tea.Cmd {
		if p.popup == popup {
			popup.Destroy()
			p.popup = nil
			p.popupClosing = false
		}
		return nil
	})
}

func (p *Picker) popupOpen() bool { return p.popup != nil && !p.popupClosing }

func (p *Picker) addDocumentListeners() {
	if p.listeners.attached {
		return
	}
	p.listeners.attached = true
	p.listeners.attaches++
}

// removeDocumentListeners is a no-op when nothing is attached.
func (p *Picker) removeDocumentListeners() {
	if !p.listeners.attached {
		return
	}
	p.listeners.attached = false
	p.listeners.detaches++
}

func (p *Picker) setInitialFocus() tea.Cmd {
	if p.opts.showSearch && p.opts.autoFocusSearch && p.search != nil {
		return p.trap.focus(zoneSearch)
	}
	return p.trap.focus(zoneContent)
}
