package grim

import (
	"context"
	"time"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

// CaptureOptions configures a single capture request: an optional
// overall resample factor, whether to ask the compositor to composite
// the cursor, an optional sub-rectangle (output-local physical pixels,
// only meaningful for CaptureOutput), and a per-request timeout
// override.
type CaptureOptions struct {
	// Scale is applied to the final image after any per-output
	// downscaling the engine itself performs to reach logical
	// resolution. Zero or negative means "absent": no resampling.
	Scale float64

	// OverlayCursor asks the compositor to composite the cursor into
	// the result. The compositor may ignore this; see the Open
	// Questions note on overlay_cursor ambiguity in DESIGN.md.
	OverlayCursor bool

	// Region, when non-nil, restricts CaptureOutput to this
	// sub-rectangle of the output in output-local physical pixels.
	// Ignored by CaptureWholeScreen and CaptureRegion.
	Region *Rectangle

	// Timeout overrides the Session's default per-frame deadline (2s)
	// when positive.
	Timeout time.Duration
}

// PerOutputSpec names one output and the options to capture it with, for
// use with CaptureMany.
type PerOutputSpec struct {
	Name    string
	Options CaptureOptions
}

// CaptureWholeScreen captures every connected output and composites them
// into one image spanning the Output Registry's bounding rectangle.
func (s *Session) CaptureWholeScreen(opts CaptureOptions) (PixelImage, error) {
	if len(s.registry.list()) == 0 {
		return PixelImage{}, newErrorf(KindNoOutputs, "", "no outputs connected")
	}
	rect := s.registry.boundingRect()
	img, err := s.compositeRegion(rect, opts)
	if err != nil {
		return PixelImage{}, err
	}
	return s.applyOptionalScale(img, opts.Scale), nil
}

// CaptureOutput captures a single named output, downscaled from its
// physical to its logical resolution. No compositing is involved.
func (s *Session) CaptureOutput(name string, opts CaptureOptions) (PixelImage, error) {
	rec, err := s.registry.byName(name)
	if err != nil {
		return PixelImage{}, err
	}

	img, cerr := s.captureOutputPhysical(rec, opts.Region, opts)
	if cerr != nil {
		return PixelImage{}, cerr
	}

	if rec.Scale > 1 {
		target := Rect(0, 0, img.Width, img.Height).ScaleDown(rec.Scale)
		img = resampleTo(img, target.Width, target.Height, 1/float64(rec.Scale))
	}

	return s.applyOptionalScale(img, opts.Scale), nil
}

// CaptureRegion services a request whose rectangle (in logical
// coordinates) may span more than one output, via the Region Compositor.
func (s *Session) CaptureRegion(rect Rectangle, opts CaptureOptions) (PixelImage, error) {
	img, err := s.compositeRegion(rect, opts)
	if err != nil {
		return PixelImage{}, err
	}
	return s.applyOptionalScale(img, opts.Scale), nil
}

// CaptureMany runs one single-output capture per entry in specs and
// returns the results keyed by output name. The map is returned
// atomically: if any entry fails, the whole call fails with a
// diagnostic identifying the failing output, and no partial results are
// returned.
func (s *Session) CaptureMany(specs []PerOutputSpec) (map[string]PixelImage, error) {
	results := make(map[string]PixelImage, len(specs))
	for _, spec := range specs {
		img, err := s.CaptureOutput(spec.Name, spec.Options)
		if err != nil {
			return nil, err
		}
		results[spec.Name] = img
	}
	return results, nil
}

func (s *Session) applyOptionalScale(img PixelImage, scale float64) PixelImage {
	if scale <= 0 || scale == 1 {
		return img
	}
	return resampleImage(img, scale)
}

// captureOutputPhysical runs one Frame Task against rec, optionally
// restricted to sub (output-local physical pixels; nil captures the
// whole output), and returns the normalized image at the resolution the
// compositor actually delivered — physical pixels, logical orientation.
// Callers are responsible for any further downscaling.
func (s *Session) captureOutputPhysical(rec *OutputRecord, sub *Rectangle, opts CaptureOptions) (PixelImage, *Error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	var overlay int32
	if opts.OverlayCursor {
		overlay = 1
	}

	task := newFrameTask(rec.Name)
	var frame *wire.ScreenCopyFrame
	if sub == nil {
		frame = s.screenCopy.CaptureOutput(overlay, rec.handle, task.handlers())
	} else {
		frame = s.screenCopy.CaptureOutputRegion(overlay, rec.handle, int32(sub.X), int32(sub.Y), int32(sub.Width), int32(sub.Height), task.handlers())
	}

	task.mu.Lock()
	task.frame = frame
	task.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.waitBufferReady(ctx, task); err != nil {
		return PixelImage{}, err
	}
	if err := task.proceedToCopy(s.shm); err != nil {
		return PixelImage{}, err
	}
	if err := task.wait(ctx, timeout); err != nil {
		return PixelImage{}, err
	}

	raw, meta, flags := task.readAndRelease()
	return normalizeFrame(raw, meta, flags, rec.Transform)
}

// waitBufferReady blocks until the frame task reaches BufferReady, fails
// early, or ctx is canceled.
func (s *Session) waitBufferReady(ctx context.Context, task *frameTask) *Error {
	select {
	case <-task.ready:
	case <-task.done:
	case <-ctx.Done():
		task.finish(newError(KindTimeout, task.output, ctx.Err()))
	}

	task.mu.Lock()
	state := task.state
	err := task.err
	task.mu.Unlock()

	if err != nil {
		return err
	}
	if state != frameBufferReady {
		return newErrorf(KindInternalInvariantViolation, task.output, "frame task not ready and no error recorded")
	}
	return nil
}
