package picker

import tea "github.com/charmbracelet/bubbletea"

type transitionKind int

const (
	transitionShow transitionKind = iota
	transitionHide
)

func (k transitionKind) String() string {
	if k == transitionShow {
		return "show"
	}
	return "hide"
}

// enqueue adds a show or hide transition. Transitions run one at a time in
// call order; a transition finishes only after its deferred cleanup ran.
func (p *Picker) enqueue(kind transitionKind) tea.Cmd {
	p.queue = append(p.queue, kind)
	return p.nextTransition()
}

func (p *Picker) nextTransition() tea.Cmd {
	if p.transitioning || len(p.queue) == 0 {
		return nil
	}
	kind := p.queue[0]
	p.queue = p.queue[1:]
	p.transitioning = true
	p.log.Debug("transition", "kind", kind)
	if kind == transitionShow {
		return p.runShow()
	}
	return p.runHide()
}

func (p *Picker) finishTransition() tea.Cmd {
	p.transitioning = false
	return p.nextTransition()
}

// resolveDisplay picks how the picker is placed for the current root size.
func (p *Picker) resolveDisplay() (*positioner, error) {
	rootW, _ := p.root.Size()
	if bp := p.opts.mobileBreakpoint; bp > 0 && rootW > 0 && rootW < bp {
		return &positioner{mode: displayMobile}, nil
	}
	pos := p.opts.position
	if !pos.relative() {
		return &positioner{mode: displayFixed, fixed: *pos.Fixed}, nil
	}
	if p.reference == nil {
		return nil, ErrNoReference
	}
	return &positioner{mode: displayRelative, placement: pos.placement(), ref: p.reference}, nil
}

func (p *Picker) runShow() tea.Cmd {
	if p.destroyed {
		return p.finishTransition()
	}
	ps, err := p.resolveDisplay()
	if err != nil {
		return p.abortShow(err)
	}
	p.root.attach(p)
	p.attached = true
	p.wrapperAttaches++
	p.positioner = ps
	p.mobileOverlay = ps.mode == displayMobile

	return p.whenBuilt(func(err error) tea.Cmd {
		if err != nil {
			return p.abortShow(err)
		}
		return p.anim.whenIdle(p.revealPicker)
	})
}

// abortShow undoes a show that cannot complete and reports err.
func (p *Picker) abortShow(err error) tea.Cmd {
	if p.attached {
		if derr := p.root.detach(p); derr == nil {
			p.wrapperDetaches++
		}
		p.attached = false
	}
	p.positioner = nil
	p.mobileOverlay = false
	p.visible = false
	p.log.Error("show picker", "error", err)
	p.external.emit(EventError, err)
	return p.finishTransition()
}

func (p *Picker) revealPicker() tea.Cmd {
	if p.destroyed {
		return p.finishTransition()
	}
	p.trap.activate()
	return tea.Batch(
		p.anim.start(animShow, nil),
		p.showContent(nil),
		p.deferTick(func() tea.Cmd {
			p.addDocumentListeners()
			return tea.Batch(p.setInitialFocus(), p.finishTransition())
		}),
	)
}

func (p *Picker) runHide() tea.Cmd {
	if p.destroyed || !p.attached {
		return p.finishTransition()
	}
	p.trap.deactivate()
	p.mobileOverlay = false
	if p.emojiArea != nil {
		p.emojiArea.detachHighlight()
	}
	return p.anim.whenIdle(func() tea.Cmd {
		return p.anim.start(animHide, p.finishHide)
	})
}

func (p *Picker) finishHide() tea.Cmd {
	if p.destroyed {
		return nil
	}
	if err := p.root.detach(p); err != nil {
		p.log.Warn("detach picker", "error", err)
	} else {
		p.wrapperDetaches++
	}
	p.attached = false
	p.positioner = nil

	var cmds []tea.Cmd
	if p.search != nil {
		p.search.clear()
		cmds = append(cmds, p.showContent(nil))
	}
	cmds = append(cmds, p.events.emit(evVariantPopupHide, nil))
	p.external.emit(EventHide, nil)
	cmds = append(cmds, p.deferTick(func() tea.Cmd {
		p.removeDocumentListeners()
		return p.finishTransition()
	}))
	return tea.Batch(cmds...)
}
