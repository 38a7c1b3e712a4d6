package picker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scheduler is the picker's time source. Tests swap in a manual clock.
type scheduler struct {
	now  func() time.Time
	tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

func defaultScheduler() *scheduler {
	return &scheduler{now: time.Now, tick: tea.Tick}
}

// deferredMsg carries work postponed by one message round-trip.
type deferredMsg struct {
	owner uint64
	run   func() tea.Cmd
}

// deferTick schedules fn to run on the next Update. Work that must not see
// the message currently being handled goes through here.
func (p *Picker) deferTick(fn func() tea.Cmd) tea.Cmd {
	owner := p.id
	return func() tea.Msg { return deferredMsg{owner: owner, run: fn} }
}
