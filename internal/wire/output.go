package wire

import "github.com/rajveermalviya/go-wayland/wayland"

// Transform mirrors wl_output.transform: eight explicit variants, four
// rotations and their horizontally-flipped counterparts. Modeled as one
// enum rather than a rotation int plus a flip bool because flip-then-
// rotate and rotate-then-flip are genuinely different operations and a
// boolean pair would silently pick one.
type Transform int32

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// OutputGeometryEvent mirrors wl_output.geometry: physical position and
// metadata. x/y are in the global compositor space, in whatever unit the
// compositor uses before scale is applied (i.e. physical/device pixels
// for the position of this output's top-left corner).
type OutputGeometryEvent struct {
	X, Y                            int32
	PhysicalWidth, PhysicalHeightMM  int32
	Subpixel                        int32
	Make, Model                     string
	Transform                       Transform
}

// OutputModeEvent mirrors wl_output.mode: the advertised resolution, in
// physical/device pixels.
type OutputModeEvent struct {
	Flags         uint32
	Width, Height int32
	Refresh       int32
}

// OutputScaleEvent mirrors wl_output.scale.
type OutputScaleEvent struct {
	Factor int32
}

// OutputNameEvent / OutputDescriptionEvent mirror the wl_output name and
// description events (added in wl_output v4).
type OutputNameEvent struct{ Name string }
type OutputDescriptionEvent struct{ Description string }

// OutputDoneEvent mirrors wl_output.done: no more geometry/mode/scale
// events will arrive for this announcement batch.
type OutputDoneEvent struct{}

// OutputHandlers are the callbacks for wl_output events.
type OutputHandlers struct {
	OnGeometry    func(OutputGeometryEvent)
	OnMode        func(OutputModeEvent)
	OnScale       func(OutputScaleEvent)
	OnName        func(OutputNameEvent)
	OnDescription func(OutputDescriptionEvent)
	OnDone        func(OutputDoneEvent)
}

// Output is wl_output: one connected display.
type Output struct {
	proxy
	handlers *OutputHandlers
}

// NewOutput constructs an unbound Output proxy; bind it via
// Registry.Bind for each announced wl_output global.
func NewOutput(h *OutputHandlers) *Output {
	return &Output{handlers: h}
}

func (o *Output) Dispatch(event wayland.Event) {
	if o.handlers == nil {
		return
	}
	switch e := event.(type) {
	case *OutputGeometryEvent:
		if o.handlers.OnGeometry != nil {
			o.handlers.OnGeometry(*e)
		}
	case *OutputModeEvent:
		if o.handlers.OnMode != nil {
			o.handlers.OnMode(*e)
		}
	case *OutputScaleEvent:
		if o.handlers.OnScale != nil {
			o.handlers.OnScale(*e)
		}
	case *OutputNameEvent:
		if o.handlers.OnName != nil {
			o.handlers.OnName(*e)
		}
	case *OutputDescriptionEvent:
		if o.handlers.OnDescription != nil {
			o.handlers.OnDescription(*e)
		}
	case *OutputDoneEvent:
		if o.handlers.OnDone != nil {
			o.handlers.OnDone(*e)
		}
	}
}
