package grim

import (
	"testing"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

func TestFrameTaskHappyPath(t *testing.T) {
	task := newFrameTask("eDP-1")

	task.onBuffer(wire.ScreenCopyBufferEvent{Format: wire.ShmFormatARGB8888, Width: 10, Height: 5, Stride: 40})
	task.onBufferDone()

	select {
	case <-task.ready:
	default:
		t.Fatal("ready should be closed once BufferReady is reached")
	}

	task.mu.Lock()
	if task.state != frameBufferReady {
		t.Fatalf("state = %v, want frameBufferReady", task.state)
	}
	task.state = frameCopying // proceedToCopy's effect, skipped here
	task.mu.Unlock()

	task.onFlags(wire.ScreenCopyFlagsEvent{Flags: wire.FrameFlagYInvert})
	task.onReady(wire.ScreenCopyReadyEvent{})

	select {
	case <-task.done:
	default:
		t.Fatal("done should be closed after onReady")
	}

	task.mu.Lock()
	defer task.mu.Unlock()
	if task.err != nil {
		t.Fatalf("err = %v, want nil", task.err)
	}
	if task.state != frameCompleted {
		t.Fatalf("state = %v, want frameCompleted", task.state)
	}
	if !task.flags.VerticalInvert {
		t.Fatal("VerticalInvert should be true, the flags event set FrameFlagYInvert")
	}
}

func TestFrameTaskFlagsOutOfOrderIsProtocolViolation(t *testing.T) {
	task := newFrameTask("eDP-1")
	// No buffer/buffer_done observed yet: a flags event now is out of order.
	task.onFlags(wire.ScreenCopyFlagsEvent{})

	<-task.done
	task.mu.Lock()
	defer task.mu.Unlock()
	if task.err == nil || task.err.Kind != KindProtocolViolation {
		t.Fatalf("err = %v, want KindProtocolViolation", task.err)
	}
	if task.state != frameFailed {
		t.Fatalf("state = %v, want frameFailed", task.state)
	}
}

func TestFrameTaskBufferDoneWithoutBufferIsViolation(t *testing.T) {
	task := newFrameTask("eDP-1")
	task.onBufferDone()

	<-task.done
	task.mu.Lock()
	defer task.mu.Unlock()
	if task.err == nil || task.err.Kind != KindProtocolViolation {
		t.Fatalf("err = %v, want KindProtocolViolation", task.err)
	}
}

func TestFrameTaskFailedEventIsIdempotentAfterCompletion(t *testing.T) {
	task := newFrameTask("eDP-1")
	task.onBuffer(wire.ScreenCopyBufferEvent{Format: wire.ShmFormatARGB8888, Width: 1, Height: 1, Stride: 4})
	task.onBufferDone()
	task.mu.Lock()
	task.state = frameCopying
	task.mu.Unlock()
	task.onFlags(wire.ScreenCopyFlagsEvent{})
	task.onReady(wire.ScreenCopyReadyEvent{})

	task.mu.Lock()
	firstErr := task.err
	task.mu.Unlock()

	// A late failed event after completion must not overwrite the result.
	task.onFailed()

	task.mu.Lock()
	defer task.mu.Unlock()
	if task.err != firstErr {
		t.Fatalf("a late failed event overwrote a completed task's result: %v -> %v", firstErr, task.err)
	}
	if task.state != frameCompleted {
		t.Fatalf("state = %v, want frameCompleted to remain unchanged", task.state)
	}
}

func TestFrameTaskOnFailedSetsCaptureFailedKind(t *testing.T) {
	task := newFrameTask("eDP-1")
	task.onFailed()
	<-task.done
	task.mu.Lock()
	defer task.mu.Unlock()
	if task.err == nil || task.err.Kind != KindCaptureFailed {
		t.Fatalf("err = %v, want KindCaptureFailed", task.err)
	}
}

func TestFrameTaskWithLockPoisoning(t *testing.T) {
	task := newFrameTask("eDP-1")

	err := task.withLock(func() *Error {
		panic("simulated invariant break")
	})
	if err == nil || err.Kind != KindInternalInvariantViolation {
		t.Fatalf("err = %v, want KindInternalInvariantViolation", err)
	}
	if !task.poisoned {
		t.Fatal("task should be marked poisoned after a panic inside withLock")
	}

	called := false
	err = task.withLock(func() *Error {
		called = true
		return nil
	})
	if called {
		t.Fatal("withLock should short-circuit without running fn once poisoned")
	}
	if err == nil || err.Kind != KindInternalInvariantViolation {
		t.Fatalf("err after poisoning = %v, want KindInternalInvariantViolation", err)
	}
}
