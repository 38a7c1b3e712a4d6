package picker

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Bounds makes Rect usable as an Anchor.
func (r Rect) Bounds() Rect { return r }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rect) translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Anchor is the reference element for relative positioning. Bounds is read
// on every render, so a moving anchor is followed.
type Anchor interface {
	Bounds() Rect
}

// Placement is a relative position keyword.
type Placement string

const (
	PlacementAuto        Placement = "auto"
	PlacementAutoStart   Placement = "auto-start"
	PlacementAutoEnd     Placement = "auto-end"
	PlacementTop         Placement = "top"
	PlacementTopStart    Placement = "top-start"
	PlacementTopEnd      Placement = "top-end"
	PlacementBottom      Placement = "bottom"
	PlacementBottomStart Placement = "bottom-start"
	PlacementBottomEnd   Placement = "bottom-end"
	PlacementLeft        Placement = "left"
	PlacementLeftStart   Placement = "left-start"
	PlacementLeftEnd     Placement = "left-end"
	PlacementRight       Placement = "right"
	PlacementRightStart  Placement = "right-start"
	PlacementRightEnd    Placement = "right-end"
)

func (p Placement) split() (side, align string) {
	side, align, _ = strings.Cut(string(p), "-")
	return side, align
}

func (p Placement) valid() bool {
	side, align := p.split()
	switch side {
	case "auto", "top", "bottom", "left", "right":
	default:
		return false
	}
	switch align {
	case "", "start", "end":
		return true
	}
	return false
}

// FixedPosition places the picker at explicit root coordinates. Unset
// fields are ignored; Top wins over Bottom and Left over Right.
type FixedPosition struct {
	Top, Left, Bottom, Right *int
}

// Position selects exactly one positioning mode: fixed when Fixed is set,
// relative to Config.Reference otherwise.
type Position struct {
	Placement Placement
	Fixed     *FixedPosition
}

// Fixed returns a fixed Position at top/left.
func Fixed(top, left int) Position {
	return Position{Fixed: &FixedPosition{Top: &top, Left: &left}}
}

func (p Position) relative() bool { return p.Fixed == nil }

func (p Position) placement() Placement {
	if p.Placement == "" {
		return PlacementAuto
	}
	return p.Placement
}

func (p Position) validate() error {
	if p.Fixed != nil {
		return nil
	}
	if !p.placement().valid() {
		return fmt.Errorf("unknown placement %q", p.Placement)
	}
	return nil
}

func (p Position) clone() Position {
	if p.Fixed == nil {
		return p
	}
	f := FixedPosition{
		Top:    cloneIntPtr(p.Fixed.Top),
		Left:   cloneIntPtr(p.Fixed.Left),
		Bottom: cloneIntPtr(p.Fixed.Bottom),
		Right:  cloneIntPtr(p.Fixed.Right),
	}
	p.Fixed = &f
	return p
}

func (p Position) String() string {
	if p.Fixed == nil {
		return string(p.placement())
	}
	var parts []string
	add := func(name string, v *int) {
		if v != nil {
			parts = append(parts, name+"="+strconv.Itoa(*v))
		}
	}
	add("top", p.Fixed.Top)
	add("left", p.Fixed.Left)
	add("bottom", p.Fixed.Bottom)
	add("right", p.Fixed.Right)
	return "fixed(" + strings.Join(parts, ",") + ")"
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// anchorOffset is the gap between the anchor and the picker.
const anchorOffset = 1

type displayMode int

const (
	displayRelative displayMode = iota
	displayFixed
	displayMobile
)

// positioner computes the picker origin inside the root. One is created per
// show and dropped on hide.
type positioner struct {
	mode      displayMode
	placement Placement
	fixed     FixedPosition
	ref       Anchor
}

func (ps *positioner) place(rootW, rootH, w, h int) (x, y int) {
	switch ps.mode {
	case displayMobile:
		x, y = (rootW-w)/2, (rootH-h)/2
	case displayFixed:
		x, y = ps.placeFixed(rootW, rootH, w, h)
	default:
		x, y = placeRelative(ps.ref.Bounds(), ps.placement, rootW, rootH, w, h)
	}
	return clampOrigin(x, rootW, w), clampOrigin(y, rootH, h)
}

func (ps *positioner) placeFixed(rootW, rootH, w, h int) (x, y int) {
	f := ps.fixed
	switch {
	case f.Left != nil:
		x = *f.Left
	case f.Right != nil:
		x = rootW - w - *f.Right
	}
	switch {
	case f.Top != nil:
		y = *f.Top
	case f.Bottom != nil:
		y = rootH - h - *f.Bottom
	}
	return x, y
}

// placeRelative positions a w*h box next to ref. The preferred side flips to
// the opposite one when the box does not fit there and does fit opposite.
// "auto" picks the first side that fits, in bottom, top, right, left order,
// falling back to the side with the most room.
func placeRelative(ref Rect, placement Placement, rootW, rootH, w, h int) (x, y int) {
	side, align := placement.split()
	space := map[string]int{
		"bottom": rootH - (ref.Y + ref.Height + anchorOffset),
		"top":    ref.Y - anchorOffset,
		"right":  rootW - (ref.X + ref.Width + anchorOffset),
		"left":   ref.X - anchorOffset,
	}
	need := map[string]int{"bottom": h, "top": h, "right": w, "left": w}
	fits := func(s string) bool { return rootW <= 0 || space[s] >= need[s] }

	if side == "auto" {
		side = ""
		for _, s := range []string{"bottom", "top", "right", "left"} {
			if fits(s) {
				side = s
				break
			}
		}
		if side == "" {
			side = "bottom"
			for _, s := range []string{"top", "right", "left"} {
				if space[s] > space[side] {
					side = s
				}
			}
		}
	} else if !fits(side) && fits(oppositeSide(side)) {
		side = oppositeSide(side)
	}

	switch side {
	case "top", "bottom":
		x = alignOn(ref.X, ref.Width, w, align)
		if side == "top" {
			y = ref.Y - h - anchorOffset
		} else {
			y = ref.Y + ref.Height + anchorOffset
		}
	default:
		y = alignOn(ref.Y, ref.Height, h, align)
		if side == "left" {
			x = ref.X - w - anchorOffset
		} else {
			x = ref.X + ref.Width + anchorOffset
		}
	}
	return x, y
}

func oppositeSide(side string) string {
	switch side {
	case "top":
		return "bottom"
	case "bottom":
		return "top"
	case "left":
		return "right"
	default:
		return "left"
	}
}

func alignOn(start, length, size int, align string) int {
	switch align {
	case "start":
		return start
	case "end":
		return start + length - size
	default:
		return start + (length-size)/2
	}
}

func clampOrigin(v, limit, size int) int {
	if limit > 0 && v > limit-size {
		v = limit - size
	}
	if v < 0 {
		v = 0
	}
	return v
}
