package grim

import (
	"fmt"
	"time"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

const (
	defaultFrameTimeout = 2 * time.Second
	outputsReadyTimeout = 1 * time.Second
)

// Well-known protocol interface names this engine looks for among the
// compositor's advertised globals.
const (
	ifaceShm              = "wl_shm"
	ifaceOutput           = "wl_output"
	ifaceScreenCopy       = "zwlr_screencopy_manager_v1"
	ifaceXdgOutputManager = "zxdg_output_manager_v1"
)

// Session owns the compositor connection and the Output Registry built
// from it. It is the single ordering point for all compositor traffic:
// every capture's blocking wait happens through the connection this
// Session holds, and the Session itself is not safe for concurrent use
// from more than one goroutine — callers must serialize their own
// access, the engine does not do it for them.
type Session struct {
	conn         *wire.Conn
	shm          *wire.Shm
	screenCopy   *wire.ScreenCopyManager
	xdgOutputMgr *wire.XdgOutputManager

	registry *OutputRegistry

	// outputsByGlobalName lets a later global_remove (which carries only
	// the numeric global name, not a wire object id) find the record to
	// drop from the registry.
	outputsByGlobalName map[uint32]*OutputRecord

	// initialized is false while the startup two-round-trip sequence is
	// still collecting the initial global batch; once true, OnGlobal
	// binds a newly announced wl_output immediately instead of queuing
	// it, so hotplugged monitors show up without a fresh OpenSession.
	initialized bool

	defaultTimeout time.Duration
}

// pendingGlobal records one wl_registry.global advertisement observed
// during the first round-trip, before Open decides what to bind and in
// what order.
type pendingGlobal struct {
	name    uint32
	iface   string
	version uint32
}

// OpenSession connects to the compositor named by socket (empty string
// resolves $WAYLAND_DISPLAY the way the underlying library does) and
// performs the two round-trips described in §4.1: one to enumerate
// globals and bind wl_shm, zwlr_screencopy_manager_v1, the optional
// zxdg_output_manager_v1, and one Output per advertised wl_output; one
// more to receive each output's geometry, mode, scale, and (if the
// logical-output manager is present) logical rectangle. Construction is
// always fallible — there is no zero-argument constructor that could
// hide a failed connection.
func OpenSession(socket string) (*Session, error) {
	s := &Session{
		registry:            newOutputRegistry(),
		outputsByGlobalName: make(map[uint32]*OutputRecord),
		defaultTimeout:      defaultFrameTimeout,
	}

	conn, err := wire.Connect(socket, &wire.DisplayHandlers{OnError: s.onDisplayError})
	if err != nil {
		return nil, newError(KindNoCompositor, "", err)
	}
	s.conn = conn

	var globals []pendingGlobal
	var reg *wire.Registry
	reg = conn.Display.GetRegistry(&wire.RegistryHandlers{
		OnGlobal: func(ev wire.GlobalEvent) {
			g := pendingGlobal{name: ev.Name, iface: ev.Interface, version: ev.Version}
			if !s.initialized {
				globals = append(globals, g)
				return
			}
			// The startup batch is done: a wl_output seen from here on is
			// a hotplugged monitor, bound immediately rather than queued,
			// since nothing will ever drain the queue again.
			if g.iface == ifaceOutput {
				s.bindOutput(reg, g)
			}
		},
		OnGlobalRemove: func(ev wire.GlobalRemoveEvent) {
			s.onGlobalRemove(ev.Name)
		},
	})

	if err := s.roundtrip(outputsReadyTimeout); err != nil {
		conn.Close()
		return nil, err
	}

	if err := s.bindGlobals(reg, globals); err != nil {
		conn.Close()
		return nil, err
	}
	s.initialized = true

	if err := s.roundtrip(outputsReadyTimeout); err != nil {
		conn.Close()
		return nil, err
	}

	for _, rec := range s.registry.list() {
		rec.deriveLogical()
	}

	return s, nil
}

func (s *Session) onDisplayError(ev wire.DisplayErrorEvent) {
	// Surfaced lazily: there is no well-formed recovery from a fatal
	// wl_display.error, so nothing is done here beyond not crashing —
	// the next blocking call on this Session will simply fail when the
	// connection stops producing events. Close is still the caller's
	// responsibility.
	_ = ev
}

// onGlobalRemove drops the OutputRecord named by globalName, if any.
// Other global kinds (shm, screencopy, xdg-output-manager) are not
// expected to disappear mid-session and are left bound.
func (s *Session) onGlobalRemove(globalName uint32) {
	rec, ok := s.outputsByGlobalName[globalName]
	if !ok {
		return
	}
	delete(s.outputsByGlobalName, globalName)
	s.registry.remove(rec)
}

// bindGlobals binds wl_shm, the screencopy manager, and (optionally) the
// xdg-output manager first, in a single pass in announcement order, then
// binds one Output per wl_output global in a second pass, so that
// GetXdgOutput is always called with a known xdgOutputMgr.
func (s *Session) bindGlobals(reg *wire.Registry, globals []pendingGlobal) error {
	var haveShm, haveScreenCopy bool

	for _, g := range globals {
		switch g.iface {
		case ifaceShm:
			shm := wire.NewShm(&wire.ShmHandlers{})
			reg.Bind(g.name, g.iface, g.version, shm)
			s.shm = shm
			haveShm = true
		case ifaceScreenCopy:
			scm := wire.NewScreenCopyManager()
			reg.Bind(g.name, g.iface, g.version, scm)
			s.screenCopy = scm
			haveScreenCopy = true
		case ifaceXdgOutputManager:
			xom := wire.NewXdgOutputManager()
			reg.Bind(g.name, g.iface, g.version, xom)
			s.xdgOutputMgr = xom
		}
	}

	if !haveShm {
		return newErrorf(KindMissingProtocol, "", "compositor does not advertise %s", ifaceShm)
	}
	if !haveScreenCopy {
		return newErrorf(KindMissingProtocol, "", "compositor does not advertise %s", ifaceScreenCopy)
	}

	for _, g := range globals {
		if g.iface == ifaceOutput {
			s.bindOutput(reg, g)
		}
	}
	return nil
}

func (s *Session) bindOutput(reg *wire.Registry, g pendingGlobal) {
	rec := &OutputRecord{Name: fmt.Sprintf("output-%d", g.name), Scale: 1}

	out := wire.NewOutput(&wire.OutputHandlers{
		OnGeometry: func(ev wire.OutputGeometryEvent) {
			rec.Physical.X = int(ev.X)
			rec.Physical.Y = int(ev.Y)
			rec.Transform = ev.Transform
			if rec.Description == "" {
				rec.Description = fmt.Sprintf("%s %s", ev.Make, ev.Model)
			}
			rec.hasGeometry = true
		},
		OnMode: func(ev wire.OutputModeEvent) {
			rec.Physical.Width = int(ev.Width)
			rec.Physical.Height = int(ev.Height)
			rec.hasMode = true
		},
		OnScale: func(ev wire.OutputScaleEvent) {
			if ev.Factor > 0 {
				rec.Scale = int(ev.Factor)
			}
		},
		OnName: func(ev wire.OutputNameEvent) {
			rec.Name = ev.Name
		},
		OnDescription: func(ev wire.OutputDescriptionEvent) {
			rec.Description = ev.Description
		},
		OnDone: func(wire.OutputDoneEvent) {
			rec.hasDone = true
		},
	})

	reg.Bind(g.name, g.iface, g.version, out)
	rec.handle = out
	s.registry.add(rec)
	s.outputsByGlobalName[g.name] = rec

	if s.xdgOutputMgr != nil {
		s.xdgOutputMgr.GetXdgOutput(out, &wire.XdgOutputHandlers{
			OnLogicalPosition: func(ev wire.XdgOutputLogicalPositionEvent) {
				rec.Logical.X = int(ev.X)
				rec.Logical.Y = int(ev.Y)
			},
			OnLogicalSize: func(ev wire.XdgOutputLogicalSizeEvent) {
				rec.Logical.Width = int(ev.Width)
				rec.Logical.Height = int(ev.Height)
				rec.hasLogical = true
			},
		})
	}
}

// roundtrip blocks until the compositor has processed every request
// sent so far, or timeout elapses.
func (s *Session) roundtrip(timeout time.Duration) error {
	select {
	case <-s.conn.Display.Sync():
		return nil
	case <-time.After(timeout):
		return newErrorf(KindTimeout, "", "round-trip with compositor timed out after %s", timeout)
	}
}

// RefreshOutputs re-enters the event pump until every known output has
// reported complete geometry (at least one geometry, one mode, and one
// done event), or the ~1 second bound elapses. The capture operations do
// not call it themselves; they plan against the registry as it stands, so
// a caller that wants complete output geometry calls this before
// capturing.
func (s *Session) RefreshOutputs() error {
	deadline := time.Now().Add(outputsReadyTimeout)
	for !s.registry.allComplete() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return newErrorf(KindTimeout, "", "timed out waiting for output geometry")
		}
		if err := s.roundtrip(remaining); err != nil {
			return err
		}
	}
	for _, rec := range s.registry.list() {
		rec.deriveLogical()
	}
	return nil
}

// ListOutputs returns every known OutputRecord, in the order the
// compositor announced them.
func (s *Session) ListOutputs() []OutputRecord {
	recs := s.registry.list()
	out := make([]OutputRecord, len(recs))
	for i, r := range recs {
		out[i] = *r
	}
	return out
}

// Close releases the compositor connection. Safe to call once; the
// Session must not be used afterward.
func (s *Session) Close() error {
	return s.conn.Close()
}
