package wire

import "github.com/rajveermalviya/go-wayland/wayland"

const (
	opXdgOutputManagerGetXdgOutput uint32 = 0
	opXdgOutputDestroy             uint32 = 0
)

// XdgOutputManager is zxdg_output_manager_v1, the optional protocol used
// to learn logical (scale-independent) output geometry. Session falls
// back to deriving logical geometry from physical/scale when this global
// is absent.
type XdgOutputManager struct {
	proxy
}

// NewXdgOutputManager constructs an unbound proxy.
func NewXdgOutputManager() *XdgOutputManager {
	return &XdgOutputManager{}
}

func (m *XdgOutputManager) Dispatch(wayland.Event) {}

// GetXdgOutput requests the logical-geometry companion object for output.
func (m *XdgOutputManager) GetXdgOutput(output *Output, h *XdgOutputHandlers) *XdgOutput {
	xo := &XdgOutput{handlers: h}
	xo.bind(m.conn, xo)
	m.send(opXdgOutputManagerGetXdgOutput, xo.id, output.id)
	return xo
}

// XdgOutputLogicalPositionEvent mirrors zxdg_output_v1.logical_position.
type XdgOutputLogicalPositionEvent struct{ X, Y int32 }

// XdgOutputLogicalSizeEvent mirrors zxdg_output_v1.logical_size.
type XdgOutputLogicalSizeEvent struct{ Width, Height int32 }

// XdgOutputDoneEvent mirrors zxdg_output_v1.done (deprecated in favor of
// wl_output.done as of version 3, but still honored here for older
// compositors).
type XdgOutputDoneEvent struct{}

// XdgOutputNameEvent / XdgOutputDescriptionEvent mirror the matching
// zxdg_output_v1 events.
type XdgOutputNameEvent struct{ Name string }
type XdgOutputDescriptionEvent struct{ Description string }

// XdgOutputHandlers are the callbacks for zxdg_output_v1 events.
type XdgOutputHandlers struct {
	OnLogicalPosition func(XdgOutputLogicalPositionEvent)
	OnLogicalSize     func(XdgOutputLogicalSizeEvent)
	OnDone            func(XdgOutputDoneEvent)
	OnName            func(XdgOutputNameEvent)
	OnDescription     func(XdgOutputDescriptionEvent)
}

// XdgOutput is zxdg_output_v1.
type XdgOutput struct {
	proxy
	handlers *XdgOutputHandlers
}

func (x *XdgOutput) Dispatch(event wayland.Event) {
	if x.handlers == nil {
		return
	}
	switch e := event.(type) {
	case *XdgOutputLogicalPositionEvent:
		if x.handlers.OnLogicalPosition != nil {
			x.handlers.OnLogicalPosition(*e)
		}
	case *XdgOutputLogicalSizeEvent:
		if x.handlers.OnLogicalSize != nil {
			x.handlers.OnLogicalSize(*e)
		}
	case *XdgOutputDoneEvent:
		if x.handlers.OnDone != nil {
			x.handlers.OnDone(*e)
		}
	case *XdgOutputNameEvent:
		if x.handlers.OnName != nil {
			x.handlers.OnName(*e)
		}
	case *XdgOutputDescriptionEvent:
		if x.handlers.OnDescription != nil {
			x.handlers.OnDescription(*e)
		}
	}
}

// Destroy releases the xdg-output object.
func (x *XdgOutput) Destroy() error {
	return x.send(opXdgOutputDestroy)
}
