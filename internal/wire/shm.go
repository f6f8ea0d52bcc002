package wire

import (
	"github.com/rajveermalviya/go-wayland/wayland"
)

// ShmFormat mirrors the wl_shm.format enum. Only the four formats the
// engine's normalizer understands are named; others round-trip as raw
// integers so the format-unsupported diagnostic can still print them.
type ShmFormat uint32

const (
	ShmFormatARGB8888 ShmFormat = 0
	ShmFormatXRGB8888 ShmFormat = 1
	ShmFormatABGR8888 ShmFormat = 0x34324241
	ShmFormatXBGR8888 ShmFormat = 0x34324258
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatARGB8888:
		return "ARGB8888"
	case ShmFormatXRGB8888:
		return "XRGB8888"
	case ShmFormatABGR8888:
		return "ABGR8888"
	case ShmFormatXBGR8888:
		return "XBGR8888"
	default:
		return "format(0x" + hex32(uint32(f)) + ")"
	}
}

func hex32(v uint32) string {
	const digits = "0123456789abcdef"
	buf := [8]byte{}
	for i := 7; i >= 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[:])
}

const (
	opShmCreatePool uint32 = 0

	opShmPoolCreateBuffer uint32 = 0
	opShmPoolDestroy      uint32 = 1

	opBufferDestroy uint32 = 0
)

// ShmFormatEvent mirrors wl_shm.format.
type ShmFormatEvent struct {
	Format ShmFormat
}

// ShmHandlers are the callbacks for wl_shm events.
type ShmHandlers struct {
	OnFormat func(ShmFormatEvent)
}

// Shm is wl_shm: the shared-memory allocator global.
type Shm struct {
	proxy
	handlers *ShmHandlers
}

// NewShm constructs an unbound Shm proxy; bind it via Registry.Bind once
// the wl_shm global is announced.
func NewShm(h *ShmHandlers) *Shm {
	return &Shm{handlers: h}
}

func (s *Shm) Dispatch(event wayland.Event) {
	if e, ok := event.(*ShmFormatEvent); ok && s.handlers != nil && s.handlers.OnFormat != nil {
		s.handlers.OnFormat(*e)
	}
}

// CreatePool wraps fd (an anonymous shared-memory file descriptor, e.g.
// from memfd_create) in a pool of size bytes. The fd is consumed by the
// compositor over the wire; the caller keeps its own copy open for
// mmap'ing.
func (s *Shm) CreatePool(fd int, size int32) *ShmPool {
	pool := &ShmPool{size: size}
	pool.bind(s.conn, pool)
	s.send(opShmCreatePool, pool.id, wayland.FD(fd), size)
	return pool
}

// ShmPool is wl_shm_pool: a chunk of shared memory buffers are carved
// from.
type ShmPool struct {
	proxy
	size int32
}

func (p *ShmPool) Dispatch(wayland.Event) {}

// CreateBuffer carves a buffer of width x height (stride bytes per row,
// format fmt) out of the pool at byte offset.
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat, h *BufferHandlers) *Buffer {
	buf := &Buffer{handlers: h}
	buf.bind(p.conn, buf)
	p.send(opShmPoolCreateBuffer, buf.id, offset, width, height, stride, uint32(format))
	return buf
}

// Destroy releases the pool. Buffers already created from it remain
// valid until they are individually destroyed.
func (p *ShmPool) Destroy() error {
	return p.send(opShmPoolDestroy)
}

// BufferReleaseEvent mirrors wl_buffer.release.
type BufferReleaseEvent struct{}

// BufferHandlers are the callbacks for wl_buffer events.
type BufferHandlers struct {
	OnRelease func()
}

// Buffer is wl_buffer: a single shared-memory-backed frame buffer.
type Buffer struct {
	proxy
	handlers *BufferHandlers
}

func (b *Buffer) Dispatch(event wayland.Event) {
	if _, ok := event.(*BufferReleaseEvent); ok && b.handlers != nil && b.handlers.OnRelease != nil {
		b.handlers.OnRelease()
	}
}

// Destroy releases the buffer object.
func (b *Buffer) Destroy() error {
	return b.send(opBufferDestroy)
}
