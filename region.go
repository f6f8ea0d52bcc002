package grim

// compositeRegion implements the Region Compositor (§4.6): service a
// by-region request whose rectangle may cross output boundaries.
func (s *Session) compositeRegion(rect Rectangle, opts CaptureOptions) (PixelImage, *Error) {
	outs := s.registry.intersecting(rect)
	if len(outs) == 0 {
		return PixelImage{}, newErrorf(KindNoOutputsInRegion, "", "region %s intersects no output", rect)
	}

	canvas := NewPixelImage(rect.Width, rect.Height)

	for _, o := range outs {
		ro := rect.Intersect(o.Logical)
		if ro.Empty() {
			continue
		}

		roLocal := ro.Translate(-o.Logical.X, -o.Logical.Y)
		physical := roLocal.ScaleUp(o.Scale)

		imgPhysical, err := s.captureOutputPhysical(o, &physical, opts)
		if err != nil {
			return PixelImage{}, err
		}

		scaled := resampleTo(imgPhysical, roLocal.Width, roLocal.Height, 1/float64(max(o.Scale, 1)))
		canvas.blit(scaled, ro.X-rect.X, ro.Y-rect.Y)
	}

	return canvas, nil
}
