package grim

import (
	"image"
	"math"

	"github.com/KononK/resize"
)

// resampleImage scales img by the rational factor s (output dimension /
// input dimension for each axis), choosing a filter by s per spec's
// table: triangle (bilinear) for gentle scaling, Catmull-Rom cubic in
// the middle range, Lanczos-3 for aggressive downscaling. s <= 0 is
// treated as no-op (s = 1).
func resampleImage(img PixelImage, s float64) PixelImage {
	if s <= 0 {
		s = 1
	}
	outW := roundDim(float64(img.Width) * s)
	outH := roundDim(float64(img.Height) * s)
	return resampleTo(img, outW, outH, s)
}

// resampleTo scales img to an exact output size, still choosing the
// filter from the scale-ratio table by s (the nominal ratio the caller
// is applying; width and height are rounded/clamped independently by
// the caller, e.g. the Region Compositor's per-output downscale).
func resampleTo(img PixelImage, width, height int, s float64) PixelImage {
	width = max(width, 1)
	height = max(height, 1)
	resized := resize.Resize(uint(width), uint(height), img.AsRGBA(), selectFilter(s))
	return fromImage(resized)
}

func roundDim(v float64) int {
	d := int(math.Round(v))
	return max(d, 1)
}

// selectFilter implements the scale-ratio -> filter table. The boundary
// values are inclusive on the lower end of each row, and the same rule
// is used for both upscaling and downscaling.
func selectFilter(s float64) resize.InterpolationFunction {
	switch {
	case s >= 0.75:
		return resize.Bilinear
	case s >= 0.5:
		return resize.Bicubic
	default:
		return resize.Lanczos3
	}
}

// fromImage converts any image.Image into a PixelImage, used after
// resize.Resize whose concrete return type depends on its input (it
// special-cases *image.RGBA but isn't guaranteed to for every call).
func fromImage(img image.Image) PixelImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Bounds().Dx()*4 {
		return FromRGBA(rgba)
	}
	b := img.Bounds()
	out := NewPixelImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}
