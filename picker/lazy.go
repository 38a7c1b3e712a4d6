package picker

// LazyLoader decides when sections of a scroll region render. Observe
// registers the region and returns a func that stops observing.
type LazyLoader interface {
	Observe(region ScrollRegion) (stop func())
}

// ScrollRegion is a scrollable container of lazily rendered children.
type ScrollRegion interface {
	// Visible returns the first visible line and the number of visible lines.
	Visible() (top, height int)
	Children() []LazyChild
	// OnScroll registers fn to run after every scroll.
	OnScroll(fn func()) (cancel func())
}

// LazyChild is one deferred section of a ScrollRegion.
type LazyChild interface {
	// Span returns the child's line range [start, end).
	Span() (start, end int)
	// Reveal renders the child. Repeated calls are no-ops.
	Reveal()
	Revealed() bool
}

// IntersectionLoader reveals children whose span intersects the visible
// window extended by LookAhead windows below it.
type IntersectionLoader struct {
	LookAhead int
}

func (l IntersectionLoader) Observe(region ScrollRegion) func() {
	check := func() {
		top, height := region.Visible()
		bottom := top + height*(1+max(l.LookAhead, 0))
		for _, c := range region.Children() {
			if c.Revealed() {
				continue
			}
			start, end := c.Span()
			if end > top && start < bottom {
				c.Reveal()
			}
		}
	}
	check()
	return region.OnScroll(check)
}
