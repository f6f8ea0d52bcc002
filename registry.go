package grim

import "github.com/vremyavnikuda/grim-rs/internal/wire"

// OutputRecord describes one connected display as enumerated by the
// Output Registry: its compositor-assigned name, an integer scale, its
// physical and logical rectangles, the orientation transform between
// them, and an opaque wire handle the Session uses to submit captures
// against it.
type OutputRecord struct {
	Name        string
	Description string
	Scale       int
	Physical    Rectangle
	Logical     Rectangle
	Transform   wire.Transform

	handle *wire.Output

	hasGeometry bool
	hasMode     bool
	hasDone     bool
	hasLogical  bool // true once xdg-output reported logical geometry
}

// complete reports whether at least one geometry, one mode, and one done
// event have been observed for this output, per §4.2's completeness
// rule. refresh_outputs blocks until every known record is complete.
func (o *OutputRecord) complete() bool {
	return o.hasGeometry && o.hasMode && o.hasDone
}

// deriveLogical fills in the logical rectangle from the physical one
// when no zxdg_output_v1 companion object reported it directly: ceiling
// division on the extent, per spec §4.1's fallback rule. Physical
// dimensions equal logical dimensions times scale only modulo the
// orientation transform, which swaps width and height for the 90/270
// variants, so that swap is undone here before dividing.
func (o *OutputRecord) deriveLogical() {
	if o.hasLogical {
		return
	}
	scale := max(o.Scale, 1)
	width, height := o.Physical.Width, o.Physical.Height
	if transformSwapsAxes(o.Transform) {
		width, height = height, width
	}
	o.Logical = Rectangle{
		X:      o.Physical.X / scale,
		Y:      o.Physical.Y / scale,
		Width:  ceilDiv(width, scale),
		Height: ceilDiv(height, scale),
	}
}

// transformSwapsAxes reports whether t rotates an output 90 or 270
// degrees, the variants whose physical buffer is width/height-swapped
// relative to the logical orientation.
func transformSwapsAxes(t wire.Transform) bool {
	switch t {
	case wire.Transform90, wire.Transform270, wire.TransformFlipped90, wire.TransformFlipped270:
		return true
	default:
		return false
	}
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		d = 1
	}
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// OutputRegistry maintains the mapping from compositor-assigned name to
// OutputRecord, in the order the compositor announced them.
type OutputRegistry struct {
	order []*OutputRecord
}

func newOutputRegistry() *OutputRegistry {
	return &OutputRegistry{}
}

func (reg *OutputRegistry) add(rec *OutputRecord) {
	reg.order = append(reg.order, rec)
}

// remove drops rec from the registry, e.g. when the compositor reports
// wl_registry.global_remove for the output's global.
func (reg *OutputRegistry) remove(rec *OutputRecord) {
	for i, r := range reg.order {
		if r == rec {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			return
		}
	}
}

// byName looks up an OutputRecord by its stable name string.
func (reg *OutputRegistry) byName(name string) (*OutputRecord, error) {
	for _, r := range reg.order {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, newErrorf(KindUnknownOutput, name, "no such output")
}

// list returns every OutputRecord in announcement order.
func (reg *OutputRegistry) list() []*OutputRecord {
	out := make([]*OutputRecord, len(reg.order))
	copy(out, reg.order)
	return out
}

// boundingRect returns the smallest rectangle in logical coordinates
// that contains every record's logical rectangle.
func (reg *OutputRegistry) boundingRect() Rectangle {
	if len(reg.order) == 0 {
		return Rectangle{}
	}
	r := reg.order[0].Logical
	for _, rec := range reg.order[1:] {
		l := rec.Logical
		x0 := min(r.X, l.X)
		y0 := min(r.Y, l.Y)
		x1 := max(r.X+r.Width, l.X+l.Width)
		y1 := max(r.Y+r.Height, l.Y+l.Height)
		r = Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	}
	return r
}

// intersecting returns every OutputRecord whose logical rectangle
// intersects rect, in announcement order.
func (reg *OutputRegistry) intersecting(rect Rectangle) []*OutputRecord {
	var out []*OutputRecord
	for _, rec := range reg.order {
		if rec.Logical.Intersects(rect) {
			out = append(out, rec)
		}
	}
	return out
}

func (reg *OutputRegistry) allComplete() bool {
	for _, rec := range reg.order {
		if !rec.complete() {
			return false
		}
	}
	return true
}
