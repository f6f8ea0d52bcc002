// Package wire binds the subset of the Wayland core protocol and the
// wlr-screencopy / xdg-output extensions this engine drives, on top of
// github.com/rajveermalviya/go-wayland/wayland's connection primitives.
//
// It plays the role the teacher's wayland-scanner-generated proto
// package plays for ctxmenu: each interface gets a NewXxx(handlers)
// constructor, an XxxHandlers struct of callback fields, request methods
// that allocate a child object and send the request, and a Dispatch
// method that type-switches incoming events to the right callback. Only
// the interfaces screen-copy actually needs are bound here — no
// wl_compositor, wl_surface, wl_seat or layer-shell, since capture never
// creates a visible surface.
package wire

import (
	"github.com/rajveermalviya/go-wayland/wayland"
)

// ObjectID re-exports the upstream wire object id type so callers of
// this package never need to import wayland directly just to hold a map
// key or a handle field.
type ObjectID = wayland.ObjectID

// proxy is the embeddable base every bound object carries: its
// connection and its own object id, assigned by Conn.Register at bind
// time.
type proxy struct {
	conn *wayland.Conn
	id   wayland.ObjectID
}

// ID returns the object's wire id.
func (p *proxy) ID() wayland.ObjectID { return p.id }

func (p *proxy) bind(conn *wayland.Conn, obj wayland.Object) {
	p.conn = conn
	p.id = conn.Register(obj)
}

func (p *proxy) send(opcode uint32, args ...any) error {
	return p.conn.SendRequest(p.id, opcode, args...)
}

// Conn is the bound connection to a compositor. It owns the well-known
// wl_display object (id 1) and hands out the registry used to discover
// the rest of the globals.
type Conn struct {
	raw     *wayland.Conn
	Display *Display
}

// Connect dials the compositor named by socket (empty string resolves
// $WAYLAND_DISPLAY the way wayland.Connect does) and registers the
// well-known display object.
func Connect(socket string, handlers *DisplayHandlers) (*Conn, error) {
	raw, err := wayland.Connect(socket)
	if err != nil {
		return nil, err
	}
	c := &Conn{raw: raw}
	c.Display = newDisplay(handlers)
	c.Display.bind(raw, c.Display)
	return c, nil
}

// Close tears down the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}
