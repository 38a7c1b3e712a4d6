package picker

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// ErrNotAttached is returned when detaching a layer that is not attached.
var ErrNotAttached = errors.New("picker: layer is not attached")

// layer is a surface drawn over the host view.
type layer interface {
	// layerView renders the layer for a root of the given size and returns
	// its origin. dim requests a dimmed backdrop behind the layer.
	layerView(rootW, rootH int) (view string, x, y int, dim bool)
}

// Root is the render target pickers attach to. Hosts forward window sizes
// with SetSize and draw through Render.
type Root struct {
	width, height int
	layers        []layer
}

func NewRoot() *Root { return &Root{} }

func (r *Root) SetSize(width, height int) {
	r.width = max(width, 0)
	r.height = max(height, 0)
}

func (r *Root) Size() (width, height int) { return r.width, r.height }

// Render composites attached layers over base, in attach order.
func (r *Root) Render(base string) string {
	if len(r.layers) == 0 {
		return base
	}
	out := base
	if r.width > 0 && r.height > 0 {
		out = lipgloss.Place(r.width, r.height, lipgloss.Left, lipgloss.Top, base)
	}
	for _, l := range r.layers {
		view, x, y, dim := l.layerView(r.width, r.height)
		if dim {
			out = dimmed(out)
		}
		if view == "" {
			continue
		}
		out = overlay.Composite(view, out, overlay.Left, overlay.Top, x, y)
	}
	return out
}

// attach adds l on top. Attaching an attached layer moves it to the top.
func (r *Root) attach(l layer) {
	r.remove(l)
	r.layers = append(r.layers, l)
}

func (r *Root) detach(l layer) error {
	if !r.remove(l) {
		return ErrNotAttached
	}
	return nil
}

func (r *Root) attached(l layer) bool {
	for _, have := range r.layers {
		if have == l {
			return true
		}
	}
	return false
}

func (r *Root) remove(l layer) bool {
	for i, have := range r.layers {
		if have == l {
			r.layers = append(r.layers[:i], r.layers[i+1:]...)
			return true
		}
	}
	return false
}

var dimStyle = lipgloss.NewStyle().Faint(true)

func dimmed(view string) string {
	return dimStyle.Render(ansi.Strip(view))
}
