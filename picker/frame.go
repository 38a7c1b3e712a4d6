package picker

// Element is a hit-testable region registered by a view's last render.
type Element struct {
	Class string
	Rect  Rect
	// Index is the element's position among elements of the same class.
	Index int
	// Section is the grid section the element belongs to, or -1.
	Section int
	Key     string
}

// Frame records where a view drew its elements, relative to its origin.
type Frame struct {
	Width, Height int
	Elements      []Element
}

func (f *Frame) reset(width, height int) {
	f.Width, f.Height = width, height
	f.Elements = f.Elements[:0]
}

func (f *Frame) add(el Element) { f.Elements = append(f.Elements, el) }

// Hit returns the topmost element containing (x, y).
func (f *Frame) Hit(x, y int) (Element, bool) {
	for i := len(f.Elements) - 1; i >= 0; i-- {
		if f.Elements[i].Rect.Contains(x, y) {
			return f.Elements[i], true
		}
	}
	return Element{}, false
}

// ByClass returns the elements of class, in render order.
func (f *Frame) ByClass(class string) []Element {
	var out []Element
	for _, el := range f.Elements {
		if el.Class == class {
			out = append(out, el)
		}
	}
	return out
}

// Element classes.
const (
	classEmoji       = "emoji"
	classTab         = "tab"
	classSearchField = "search-field"
	classVariant     = "variant"
	classTitle       = "category-name"
)
