package wire

import "github.com/rajveermalviya/go-wayland/wayland"

const (
	opScreenCopyManagerCaptureOutput       uint32 = 0
	opScreenCopyManagerCaptureOutputRegion uint32 = 1

	opScreenCopyFrameCopy           uint32 = 0
	opScreenCopyFrameDestroy        uint32 = 1
	opScreenCopyFrameCopyWithDamage uint32 = 2
)

// FrameFlags mirrors zwlr_screencopy_frame_v1.flags, sent after a copy
// request and before ready. Only one bit is defined by the protocol today.
type FrameFlags uint32

const (
	// FrameFlagYInvert means the buffer's rows are stored bottom-to-top;
	// the normalizer reverses the row order as its last step, after the
	// output transform has been undone.
	FrameFlagYInvert FrameFlags = 1 << 0
)

func (f FrameFlags) YInvert() bool { return f&FrameFlagYInvert != 0 }

// ScreenCopyManager is zwlr_screencopy_manager_v1, the entry point for
// requesting frame captures of a whole output or a sub-region of one.
type ScreenCopyManager struct {
	proxy
}

// NewScreenCopyManager constructs an unbound proxy; bind it via
// Registry.Bind once the global is announced.
func NewScreenCopyManager() *ScreenCopyManager {
	return &ScreenCopyManager{}
}

func (m *ScreenCopyManager) Dispatch(wayland.Event) {}

// CaptureOutput requests a capture of the entire output. overlayCursor
// requests the compositor composite the cursor into the result when
// nonzero.
func (m *ScreenCopyManager) CaptureOutput(overlayCursor int32, output *Output, h *ScreenCopyFrameHandlers) *ScreenCopyFrame {
	f := &ScreenCopyFrame{handlers: h}
	f.bind(m.conn, f)
	m.send(opScreenCopyManagerCaptureOutput, f.id, overlayCursor, output.id)
	return f
}

// CaptureOutputRegion requests a capture of the x,y,width,height
// sub-rectangle of output. The engine's callers pass it in output-local
// physical pixels.
func (m *ScreenCopyManager) CaptureOutputRegion(overlayCursor int32, output *Output, x, y, width, height int32, h *ScreenCopyFrameHandlers) *ScreenCopyFrame {
	f := &ScreenCopyFrame{handlers: h}
	f.bind(m.conn, f)
	m.send(opScreenCopyManagerCaptureOutputRegion, f.id, overlayCursor, output.id, x, y, width, height)
	return f
}

// ScreenCopyBufferEvent mirrors zwlr_screencopy_frame_v1.buffer: the
// first of possibly several buffer/linux_dmabuf advertisements
// describing an acceptable destination format. The engine only ever
// negotiates the wl_shm variant.
type ScreenCopyBufferEvent struct {
	Format        ShmFormat
	Width, Height uint32
	Stride        uint32
}

// ScreenCopyFlagsEvent mirrors zwlr_screencopy_frame_v1.flags.
type ScreenCopyFlagsEvent struct {
	Flags FrameFlags
}

// ScreenCopyReadyEvent mirrors zwlr_screencopy_frame_v1.ready: the
// compositor has finished writing into the buffer. tv_sec is split into
// hi/lo halves on the wire and is kept split here; no combined value is
// assembled.
type ScreenCopyReadyEvent struct {
	TvSecHi, TvSecLo, TvNsec uint32
}

// ScreenCopyFailedEvent mirrors zwlr_screencopy_frame_v1.failed.
type ScreenCopyFailedEvent struct{}

// ScreenCopyDamageEvent mirrors zwlr_screencopy_frame_v1.damage: the
// sub-rectangle of the buffer that actually changed since the previous
// capture of the same frame object. The engine does not reuse frame
// objects across captures, so this is informational only and currently
// unused by any caller.
type ScreenCopyDamageEvent struct {
	X, Y, Width, Height uint32
}

// ScreenCopyFrameHandlers are the callbacks for screencopy frame events,
// delivered in the strict order buffer(+) -> buffer_done, then, after a
// copy request, flags -> (damage)* -> ready|failed.
type ScreenCopyFrameHandlers struct {
	OnBuffer     func(ScreenCopyBufferEvent)
	OnBufferDone func()
	OnFlags      func(ScreenCopyFlagsEvent)
	OnDamage     func(ScreenCopyDamageEvent)
	OnReady      func(ScreenCopyReadyEvent)
	OnFailed     func()
}

// ScreenCopyFrame is zwlr_screencopy_frame_v1: one in-flight capture
// request.
type ScreenCopyFrame struct {
	proxy
	handlers *ScreenCopyFrameHandlers
}

func (f *ScreenCopyFrame) Dispatch(event wayland.Event) {
	if f.handlers == nil {
		return
	}
	switch e := event.(type) {
	case *ScreenCopyBufferEvent:
		if f.handlers.OnBuffer != nil {
			f.handlers.OnBuffer(*e)
		}
	case *ScreenCopyFlagsEvent:
		if f.handlers.OnFlags != nil {
			f.handlers.OnFlags(*e)
		}
	case *ScreenCopyDamageEvent:
		if f.handlers.OnDamage != nil {
			f.handlers.OnDamage(*e)
		}
	case *ScreenCopyReadyEvent:
		if f.handlers.OnReady != nil {
			f.handlers.OnReady(*e)
		}
	case *ScreenCopyFailedEvent:
		if f.handlers.OnFailed != nil {
			f.handlers.OnFailed()
		}
	case *bufferDoneEvent:
		if f.handlers.OnBufferDone != nil {
			f.handlers.OnBufferDone()
		}
	}
}

// bufferDoneEvent mirrors zwlr_screencopy_frame_v1.buffer_done, which
// carries no fields; named distinctly from ScreenCopyFailedEvent (also
// empty) so the type switch in Dispatch can tell them apart.
type bufferDoneEvent struct{}

// Copy requests the compositor render the frame into buf immediately.
func (f *ScreenCopyFrame) Copy(buf *Buffer) error {
	return f.send(opScreenCopyFrameCopy, buf.id)
}

// CopyWithDamage is like Copy but asks the compositor to emit damage
// events describing what changed, for callers that want to avoid
// recompositing unchanged regions. The engine's capture orchestration
// does not use this; it is exposed for completeness of the binding.
func (f *ScreenCopyFrame) CopyWithDamage(buf *Buffer) error {
	return f.send(opScreenCopyFrameCopyWithDamage, buf.id)
}

// Destroy releases the frame object once ready/failed has been handled.
func (f *ScreenCopyFrame) Destroy() error {
	return f.send(opScreenCopyFrameDestroy)
}
