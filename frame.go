package grim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

// FrameMeta is what the compositor advertises at the start of a
// screen-copy transaction: pixel format, dimensions, and row stride.
type FrameMeta struct {
	Format        wire.ShmFormat
	Width, Height uint32
	Stride        uint32
}

// FrameFlags is the per-frame signal set attached to a copy; today the
// only member the protocol defines is VerticalInvert.
type FrameFlags struct {
	VerticalInvert bool
}

type frameState int

const (
	frameSubmitted frameState = iota
	frameBufferReady
	frameCopying
	frameCompleted
	frameFailed
)

// frameTask drives one screen-copy transaction end to end: Submitted ->
// BufferReady -> Copying -> Completed|Failed. Event-handler callbacks
// (invoked from the connection's own dispatch path) and the blocking
// caller both touch this struct, so every field after construction is
// read or written only under mu.
type frameTask struct {
	mu       sync.Mutex
	state    frameState
	poisoned bool

	output string

	gotMeta  bool
	meta     FrameMeta
	sawFlags bool
	flags    FrameFlags

	frame *wire.ScreenCopyFrame
	buf   *shmBuffer

	err        *Error
	done       chan struct{}
	finishOnce sync.Once

	// ready is closed the moment the task reaches BufferReady (or fails
	// before getting there), letting a caller allocate the buffer and
	// send the copy request without waiting for full completion.
	ready     chan struct{}
	readyOnce sync.Once
}

func newFrameTask(output string) *frameTask {
	return &frameTask{
		output: output,
		state:  frameSubmitted,
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

func (t *frameTask) signalReady() {
	t.readyOnce.Do(func() { close(t.ready) })
}

// withLock runs fn while holding mu. A panic inside fn is treated as a
// poisoned synchronization primitive rather than left to crash the
// dispatch goroutine: the task is marked poisoned and every subsequent
// call fails fast with internal-invariant-violation instead of
// re-entering whatever state caused the panic.
func (t *frameTask) withLock(fn func() *Error) (outErr *Error) {
	defer func() {
		if r := recover(); r != nil {
			t.poisoned = true
			outErr = newErrorf(KindInternalInvariantViolation, t.output, "frame state panic: %v", r)
		}
	}()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.poisoned {
		return newErrorf(KindInternalInvariantViolation, t.output, "frame state previously poisoned")
	}
	return fn()
}

func (t *frameTask) handlers() *wire.ScreenCopyFrameHandlers {
	return &wire.ScreenCopyFrameHandlers{
		OnBuffer:     t.onBuffer,
		OnBufferDone: t.onBufferDone,
		OnFlags:      t.onFlags,
		OnReady:      t.onReady,
		OnFailed:     t.onFailed,
	}
}

func (t *frameTask) onBuffer(ev wire.ScreenCopyBufferEvent) {
	if viol := t.withLock(func() *Error {
		if t.state != frameSubmitted {
			return t.violationLocked("buffer event outside Submitted")
		}
		t.meta = FrameMeta{Format: ev.Format, Width: ev.Width, Height: ev.Height, Stride: ev.Stride}
		t.gotMeta = true
		return nil
	}); viol != nil {
		t.finish(viol)
	}
}

func (t *frameTask) onBufferDone() {
	if viol := t.withLock(func() *Error {
		if t.state != frameSubmitted || !t.gotMeta {
			return t.violationLocked("buffer_done before a buffer event")
		}
		t.state = frameBufferReady
		return nil
	}); viol != nil {
		t.finish(viol)
	} else {
		t.signalReady()
	}
}

func (t *frameTask) onFlags(ev wire.ScreenCopyFlagsEvent) {
	if viol := t.withLock(func() *Error {
		if t.state != frameCopying {
			return t.violationLocked("flags event outside Copying")
		}
		t.flags = FrameFlags{VerticalInvert: ev.Flags.YInvert()}
		t.sawFlags = true
		return nil
	}); viol != nil {
		t.finish(viol)
	}
}

func (t *frameTask) onReady(wire.ScreenCopyReadyEvent) {
	viol := t.withLock(func() *Error {
		if t.state != frameCopying || !t.sawFlags {
			return t.violationLocked("ready event before flags, or outside Copying")
		}
		t.state = frameCompleted
		return nil
	})
	t.finish(viol)
}

func (t *frameTask) onFailed() {
	var already bool
	t.withLock(func() *Error {
		if t.state == frameCompleted || t.state == frameFailed {
			already = true
			return nil
		}
		t.state = frameFailed
		return nil
	})
	if already {
		return
	}
	t.finish(newError(KindCaptureFailed, t.output, fmt.Errorf("compositor reported a failed capture")))
}

// violationLocked must be called with mu held; it transitions to Failed
// and returns the protocol-violation error to report.
func (t *frameTask) violationLocked(detail string) *Error {
	t.state = frameFailed
	return newErrorf(KindProtocolViolation, t.output, "%s", detail)
}

// finish records the terminal error (nil on success) and wakes the
// waiter exactly once; a late event after a timeout has already finished
// the task cannot resurrect or overwrite its result.
func (t *frameTask) finish(err *Error) {
	t.finishOnce.Do(func() {
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(t.done)
	})
	t.signalReady()
	// A failure releases its own resources immediately; a success
	// leaves them for readAndRelease, which the caller uses to read the
	// buffer's bytes before tearing it down.
	if err != nil {
		t.release()
	}
}

// proceedToCopy allocates the buffer FrameMeta described and requests
// the compositor copy into it, transitioning BufferReady -> Copying. The
// caller must have observed onBufferDone fire first.
func (t *frameTask) proceedToCopy(shm *wire.Shm) *Error {
	t.mu.Lock()
	if t.state != frameBufferReady {
		t.mu.Unlock()
		err := newErrorf(KindProtocolViolation, t.output, "copy requested outside BufferReady")
		t.finish(err)
		return err
	}
	meta := t.meta
	t.mu.Unlock()

	buf, allocErr := allocateShmBuffer(shm, int32(meta.Width), int32(meta.Height), int32(meta.Stride), meta.Format, func() {})
	if allocErr != nil {
		t.finish(allocErr)
		return allocErr
	}

	t.mu.Lock()
	t.buf = buf
	t.state = frameCopying
	t.mu.Unlock()

	if sendErr := t.frame.Copy(buf.handle); sendErr != nil {
		wrapped := newError(KindCaptureFailed, t.output, sendErr)
		t.finish(wrapped)
		return wrapped
	}
	return nil
}

// wait blocks until the task reaches a terminal state, ctx is canceled,
// or timeout elapses, whichever happens first. On timeout or
// cancellation the task is forced to Failed.
func (t *frameTask) wait(ctx context.Context, timeout time.Duration) *Error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-t.done:
	case <-ctx.Done():
		t.finish(newError(KindTimeout, t.output, ctx.Err()))
	case <-timer.C:
		t.finish(newErrorf(KindTimeout, t.output, "frame deadline of %s exceeded", timeout))
	}
	t.mu.Lock()
	err := t.err
	t.mu.Unlock()
	return err
}

// readAndRelease copies the raw buffer bytes into a slice owned by the
// caller and releases the Buffer and frame handle. Only valid to call
// after wait has returned a nil error.
func (t *frameTask) readAndRelease() ([]byte, FrameMeta, FrameFlags) {
	t.mu.Lock()
	buf := t.buf
	meta := t.meta
	flags := t.flags
	t.mu.Unlock()

	var raw []byte
	if buf != nil {
		raw = append([]byte(nil), buf.bytes()...)
	}
	t.release()
	return raw, meta, flags
}

// release tears down the buffer and frame handle if still present; safe
// to call more than once or concurrently with itself.
func (t *frameTask) release() {
	t.mu.Lock()
	buf := t.buf
	t.buf = nil
	frame := t.frame
	t.frame = nil
	t.mu.Unlock()

	if buf != nil {
		buf.release()
	}
	if frame != nil {
		frame.Destroy()
	}
}
