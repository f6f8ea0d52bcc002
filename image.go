package grim

import (
	"image"
	"image/color"
)

// PixelImage is a tightly packed 8-bit-per-channel RGBA buffer, row-major
// and top-down: row 0 is the topmost row, column 0 the leftmost pixel,
// with no padding between rows (stride is always 4*Width). It is the
// engine's canonical output format, handed to callers by value.
type PixelImage struct {
	Width, Height int
	Pix           []byte // len == Width*Height*4
}

// NewPixelImage allocates a zeroed (transparent black) image of the given
// size. Dimensions below 1 are clamped to 1, matching the resampler's
// "minimum of 1 in each axis" rule.
func NewPixelImage(width, height int) PixelImage {
	width = max(width, 1)
	height = max(height, 1)
	return PixelImage{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Stride is always four bytes per pixel; there is no separate stride
// argument in the canonical format.
func (p PixelImage) Stride() int {
	return p.Width * 4
}

// RowOffset returns the byte offset of the start of row y.
func (p PixelImage) RowOffset(y int) int {
	return y * p.Stride()
}

// At returns the color at (x, y), satisfying image.Image so callers can
// hand a PixelImage straight to an encoder without a copy.
func (p PixelImage) At(x, y int) color.Color {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return color.RGBA{}
	}
	i := p.RowOffset(y) + x*4
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: p.Pix[i+3]}
}

// Set writes the color at (x, y); out-of-bounds writes are ignored.
func (p PixelImage) Set(x, y int, c color.Color) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	r, g, b, a := c.RGBA()
	i := p.RowOffset(y) + x*4
	p.Pix[i] = byte(r >> 8)
	p.Pix[i+1] = byte(g >> 8)
	p.Pix[i+2] = byte(b >> 8)
	p.Pix[i+3] = byte(a >> 8)
}

// Bounds satisfies image.Image.
func (p PixelImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// ColorModel satisfies image.Image.
func (p PixelImage) ColorModel() color.Model {
	return color.RGBAModel
}

// AsRGBA wraps the image as a stdlib *image.RGBA sharing the same backing
// array, for handing to packages (resize, draw) that want a concrete
// *image.RGBA rather than the image.Image interface.
func (p PixelImage) AsRGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: p.Stride(),
		Rect:   p.Bounds(),
	}
}

// FromRGBA copies img into a new, tightly packed PixelImage. Used after
// the resampler (which may return an *image.RGBA with different stride
// semantics) to restore the canonical stride-less layout.
func FromRGBA(img *image.RGBA) PixelImage {
	b := img.Bounds()
	out := NewPixelImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		srcOff := img.PixOffset(b.Min.X, b.Min.Y+y)
		dstOff := out.RowOffset(y)
		copy(out.Pix[dstOff:dstOff+out.Stride()], img.Pix[srcOff:srcOff+img.Stride])
	}
	return out
}

// SubImage returns a copy of the pixels within r, clamped to the image's
// bounds. r is in the image's own coordinate space (origin at (0,0)).
func (p PixelImage) SubImage(r Rectangle) PixelImage {
	b := Rect(0, 0, p.Width, p.Height).Intersect(r)
	out := NewPixelImage(b.Width, b.Height)
	if b.Empty() {
		return out
	}
	for y := 0; y < b.Height; y++ {
		srcOff := p.RowOffset(b.Y+y) + b.X*4
		dstOff := out.RowOffset(y)
		copy(out.Pix[dstOff:dstOff+out.Stride()], p.Pix[srcOff:srcOff+out.Stride()])
	}
	return out
}

// blit copies src into p with its top-left corner at (dx, dy), in
// source-copy mode (overwrites, no alpha blending) per the region
// compositor's blit policy.
func (p PixelImage) blit(src PixelImage, dx, dy int) {
	dst := Rect(0, 0, p.Width, p.Height)
	target := Rect(dx, dy, src.Width, src.Height).Intersect(dst)
	if target.Empty() {
		return
	}
	for y := 0; y < target.Height; y++ {
		srcY := y + (target.Y - dy)
		srcOff := src.RowOffset(srcY) + (target.X-dx)*4
		dstOff := p.RowOffset(target.Y+y) + target.X*4
		copy(p.Pix[dstOff:dstOff+target.Width*4], src.Pix[srcOff:srcOff+target.Width*4])
	}
}
