package wire

import (
	"github.com/rajveermalviya/go-wayland/wayland"
)

const (
	opDisplaySync        uint32 = 0
	opDisplayGetRegistry uint32 = 1
)

// DisplayErrorEvent mirrors wl_display.error: a fatal protocol error
// naming the offending object, an error code, and a message.
type DisplayErrorEvent struct {
	ObjectID wayland.ObjectID
	Code     uint32
	Message  string
}

// DisplayHandlers are the callbacks a Session installs on the display
// object; OnError is the only event wl_display ever sends.
type DisplayHandlers struct {
	OnError func(DisplayErrorEvent)
}

// Display is the well-known wl_display object (id 1).
type Display struct {
	proxy
	handlers *DisplayHandlers
}

func newDisplay(h *DisplayHandlers) *Display {
	return &Display{handlers: h}
}

// Dispatch implements wayland.Object.
func (d *Display) Dispatch(event wayland.Event) {
	if e, ok := event.(*DisplayErrorEvent); ok && d.handlers != nil && d.handlers.OnError != nil {
		d.handlers.OnError(*e)
	}
}

// GetRegistry requests the global registry.
func (d *Display) GetRegistry(h *RegistryHandlers) *Registry {
	reg := &Registry{handlers: h}
	reg.bind(d.conn, reg)
	d.send(opDisplayGetRegistry, reg.id)
	return reg
}

// Sync requests a round-trip: the returned channel receives exactly once
// when the compositor has processed every request sent before Sync was
// called. It is the primitive refresh_outputs and Session.open build
// their "wait until the event pump has caught up" logic on.
func (d *Display) Sync() <-chan struct{} {
	done := make(chan struct{}, 1)
	cb := &callback{onDone: func() { done <- struct{}{} }}
	cb.bind(d.conn, cb)
	d.send(opDisplaySync, cb.id)
	return done
}

// callback is wl_callback, used only for wl_display.sync round-trips
// here (screencopy's own "ready"/"failed" events play the same role for
// frame completion, so no other use of wl_callback is needed).
type callback struct {
	proxy
	onDone func()
}

func (c *callback) Dispatch(event wayland.Event) {
	if _, ok := event.(*CallbackDoneEvent); ok && c.onDone != nil {
		c.onDone()
	}
}

// CallbackDoneEvent mirrors wl_callback.done.
type CallbackDoneEvent struct {
	Data uint32
}

const (
	opRegistryBind uint32 = 0
)

// GlobalEvent mirrors wl_registry.global: one advertised compositor
// global.
type GlobalEvent struct {
	Name      uint32
	Interface string
	Version   uint32
}

// GlobalRemoveEvent mirrors wl_registry.global_remove.
type GlobalRemoveEvent struct {
	Name uint32
}

// RegistryHandlers are the callbacks for registry events.
type RegistryHandlers struct {
	OnGlobal       func(GlobalEvent)
	OnGlobalRemove func(GlobalRemoveEvent)
}

// Registry is wl_registry: the per-connection global enumeration object.
type Registry struct {
	proxy
	handlers *RegistryHandlers
}

func (r *Registry) Dispatch(event wayland.Event) {
	if r.handlers == nil {
		return
	}
	switch e := event.(type) {
	case *GlobalEvent:
		if r.handlers.OnGlobal != nil {
			r.handlers.OnGlobal(*e)
		}
	case *GlobalRemoveEvent:
		if r.handlers.OnGlobalRemove != nil {
			r.handlers.OnGlobalRemove(*e)
		}
	}
}

// Bind requests that the compositor bind the global named by name (as
// reported by a prior GlobalEvent) to obj, which must already be
// constructed by the appropriate NewXxx. iface/version echo what was
// advertised.
func (r *Registry) Bind(name uint32, iface string, version uint32, obj wayland.Object) wayland.ObjectID {
	id := r.conn.Register(obj)
	r.send(opRegistryBind, name, iface, version, id)
	return id
}
