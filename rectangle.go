package grim

import "fmt"

// Rectangle is the sole geometric primitive used throughout the engine:
// a signed-integer box given by an origin and an extent. Unlike
// image.Rectangle it is never normalized to Min/Max corners — width and
// height are carried explicitly, which keeps the rational-scale math in
// Scale honest about rounding direction.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// Rect is a convenience constructor.
func Rect(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, Width: w, Height: h}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Empty reports whether the rectangle has no area.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns r shifted by (dx, dy).
func (r Rectangle) Translate(dx, dy int) Rectangle {
	return Rectangle{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Origin returns the rectangle's top-left corner.
func (r Rectangle) Origin() (x, y int) {
	return r.X, r.Y
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlapping region of r and o. The result is the
// zero-area Rectangle (Empty() true) when r and o are disjoint.
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rectangle{}
	}
	return Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersects reports whether r and o overlap.
func (r Rectangle) Intersects(o Rectangle) bool {
	return !r.Intersect(o).Empty()
}

// Scale multiplies r by the rational factor num/den (den > 0), rounding
// the origin toward zero and the extent up (ceiling). This matches the
// engine's convention: when going from logical to physical coordinates
// (multiplying by an output's integer scale) the math is exact, but when
// going the other way (dividing a physical rectangle by scale to derive a
// fallback logical rectangle) a rectangle must never shrink below the
// physical region it stands for.
func (r Rectangle) Scale(num, den int) Rectangle {
	if den == 0 {
		den = 1
	}
	scaleOrigin := func(v int) int {
		// round toward zero
		return (v * num) / den
	}
	scaleExtent := func(v int) int {
		// ceiling division on a non-negative value
		n := v * num
		if n <= 0 {
			return 0
		}
		return (n + den - 1) / den
	}
	return Rectangle{
		X:      scaleOrigin(r.X),
		Y:      scaleOrigin(r.Y),
		Width:  scaleExtent(r.Width),
		Height: scaleExtent(r.Height),
	}
}

// ScaleDown is Scale(1, factor) — the common case of dividing physical
// coordinates by an integer output scale.
func (r Rectangle) ScaleDown(factor int) Rectangle {
	return r.Scale(1, factor)
}

// ScaleUp is Scale(factor, 1) — multiplying logical coordinates by an
// integer output scale to reach physical pixels.
func (r Rectangle) ScaleUp(factor int) Rectangle {
	return r.Scale(factor, 1)
}
