package picker

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	showHideDuration = 200 * time.Millisecond
	frameInterval    = time.Second / 60

	hiddenScale = 0.9
)

var (
	showCurve = cubicBezier(0.175, 0.885, 0.32, 1.275)
	hideCurve = cubicBezier(0.6, -0.28, 0.735, 0.045)
)

// cubicBezier returns the easing function of CSS cubic-bezier(x1,y1,x2,y2).
func cubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		u := t
		for range 8 {
			x := bezierSample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return bezierSample(y1, y2, clampUnit(u))
			}
			dx := bezierSlope(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 16 {
			x := bezierSample(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezierSample(y1, y2, u)
	}
}

func bezierSample(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// visual is the animated appearance of the picker box.
type visual struct {
	Opacity float64
	Scale   float64
}

var (
	visualHidden = visual{Opacity: 0, Scale: hiddenScale}
	visualShown  = visual{Opacity: 1, Scale: 1}
)

type animationKind int

const (
	animShow animationKind = iota
	animHide
)

func (k animationKind) String() string {
	if k == animShow {
		return "show"
	}
	return "hide"
}

type animation struct {
	id       uint64
	kind     animationKind
	start    time.Time
	from, to visual
	curve    func(float64) float64
	onFinish func() tea.Cmd
}

type animFrameMsg struct {
	owner uint64
	id    uint64
	at    time.Time
}

// animator runs show/hide tweens on the picker box. Running animations are
// never interrupted; whenIdle queues work until all of them finished.
type animator struct {
	owner   uint64
	sched   *scheduler
	nextID  uint64
	running map[uint64]*animation
	idle    []func() tea.Cmd
	current visual

	// peak is the largest number of animations seen running together.
	peak int
}

func newAnimator(owner uint64, sched *scheduler) *animator {
	return &animator{
		owner:   owner,
		sched:   sched,
		running: make(map[uint64]*animation),
		current: visualHidden,
	}
}

func (a *animator) busy() bool { return len(a.running) > 0 }

// start begins a tween from the current appearance. onFinish runs once the
// final frame has been applied.
func (a *animator) start(kind animationKind, onFinish func() tea.Cmd) tea.Cmd {
	a.nextID++
	anim := &animation{
		id:       a.nextID,
		kind:     kind,
		start:    a.sched.now(),
		from:     a.current,
		onFinish: onFinish,
	}
	if kind == animShow {
		anim.from, anim.to, anim.curve = visualHidden, visualShown, showCurve
	} else {
		anim.to, anim.curve = visualHidden, hideCurve
	}
	a.running[anim.id] = anim
	a.peak = max(a.peak, len(a.running))
	a.current = anim.from
	return a.frame(anim.id)
}

func (a *animator) frame(id uint64) tea.Cmd {
	owner := a.owner
	return a.sched.tick(frameInterval, func(t time.Time) tea.Msg {
		return animFrameMsg{owner: owner, id: id, at: t}
	})
}

func (a *animator) handleFrame(msg animFrameMsg) tea.Cmd {
	anim, ok := a.running[msg.id]
	if !ok {
		return nil
	}
	progress := float64(msg.at.Sub(anim.start)) / float64(showHideDuration)
	if progress < 1 {
		eased := anim.curve(clampUnit(progress))
		a.current = visual{
			Opacity: clampUnit(lerp(anim.from.Opacity, anim.to.Opacity, eased)),
			Scale:   lerp(anim.from.Scale, anim.to.Scale, eased),
		}
		return a.frame(anim.id)
	}

	a.current = anim.to
	delete(a.running, anim.id)
	var cmds []tea.Cmd
	if anim.onFinish != nil {
		cmds = append(cmds, anim.onFinish())
	}
	cmds = append(cmds, a.drainIdle())
	return tea.Batch(cmds...)
}

// whenIdle runs fn now if nothing is animating, else after the last running
// animation finishes.
func (a *animator) whenIdle(fn func() tea.Cmd) tea.Cmd {
	if !a.busy() {
		return fn()
	}
	a.idle = append(a.idle, fn)
	return nil
}

func (a *animator) drainIdle() tea.Cmd {
	var cmds []tea.Cmd
	for !a.busy() && len(a.idle) > 0 {
		fn := a.idle[0]
		a.idle = a.idle[1:]
		cmds = append(cmds, fn())
	}
	return tea.Batch(cmds...)
}

// stop drops running animations and pending idle work without running them.
func (a *animator) stop() {
	a.running = make(map[uint64]*animation)
	a.idle = nil
}

func lerp(from, to, t float64) float64 { return from + (to-from)*t }
