package grim

import (
	"github.com/daaku/swizzle"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

// normalizeFrame turns one raw screen-copy buffer into a canonical
// top-down RGBA PixelImage in logical orientation. Steps and their order
// are fixed: unpack, byte-order normalize, undo the output's orientation
// transform, then apply the vertical-invert flag last — the invert flag
// is defined relative to the buffer as delivered, after the compositor's
// own transform has already been baked in.
func normalizeFrame(raw []byte, meta FrameMeta, flags FrameFlags, transform wire.Transform) (PixelImage, *Error) {
	pix, err := unpackRows(raw, meta)
	if err != nil {
		return PixelImage{}, err
	}
	if err := normalizeByteOrder(pix, meta.Format); err != nil {
		return PixelImage{}, err
	}

	img := PixelImage{Width: int(meta.Width), Height: int(meta.Height), Pix: pix}
	img = applyTransform(img, transform)
	if flags.VerticalInvert {
		img = reverseRows(img)
	}
	return img, nil
}

// unpackRows copies stride-padded rows into a tightly packed
// width*height*4 buffer, discarding the padding between rows.
func unpackRows(raw []byte, meta FrameMeta) ([]byte, *Error) {
	width, height, stride := int(meta.Width), int(meta.Height), int(meta.Stride)
	if stride < width*4 {
		return nil, newErrorf(KindProtocolViolation, "", "stride %d smaller than width*4 (%d)", stride, width*4)
	}
	if len(raw) < stride*height {
		return nil, newErrorf(KindProtocolViolation, "", "buffer shorter than stride*height (%d < %d)", len(raw), stride*height)
	}
	out := make([]byte, width*height*4)
	rowBytes := width * 4
	for y := 0; y < height; y++ {
		srcOff := y * stride
		dstOff := y * rowBytes
		copy(out[dstOff:dstOff+rowBytes], raw[srcOff:srcOff+rowBytes])
	}
	return out, nil
}

// normalizeByteOrder converts pix in place from its wire pixel format to
// RGBA. ARGB8888/XRGB8888 store bytes as B,G,R,(A|X); swizzle.BGRA swaps
// the red and blue bytes of every pixel to reach R,G,B,(A|X). ABGR8888/
// XBGR8888 are already R,G,B,(A|X) and need only the alpha fixup.
func normalizeByteOrder(pix []byte, format wire.ShmFormat) *Error {
	switch format {
	case wire.ShmFormatARGB8888:
		swizzle.BGRA(pix)
	case wire.ShmFormatXRGB8888:
		swizzle.BGRA(pix)
		fixOpaqueAlpha(pix)
	case wire.ShmFormatABGR8888:
		// already RGBA
	case wire.ShmFormatXBGR8888:
		fixOpaqueAlpha(pix)
	default:
		return newErrorf(KindFormatUnsupported, "", "unsupported pixel format %s", format)
	}
	return nil
}

// fixOpaqueAlpha overwrites the ignored "X" byte of X-variant formats
// with full opacity.
func fixOpaqueAlpha(pix []byte) {
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0xff
	}
}

// applyTransform undoes the output's orientation transform, producing an
// image in logical orientation. Width and height swap for the 90/270
// variants. Implemented as explicit cases per variant rather than a
// rotation count plus a flip bool, since flip-then-rotate and
// rotate-then-flip are different operations.
func applyTransform(img PixelImage, t wire.Transform) PixelImage {
	switch t {
	case wire.TransformNormal:
		return img
	case wire.Transform90:
		return rotateCCW270(img)
	case wire.Transform180:
		return rotateCCW180(img)
	case wire.Transform270:
		return rotateCCW90(img)
	case wire.TransformFlipped:
		return flipHorizontal(img)
	case wire.TransformFlipped90:
		return rotateCCW270(flipHorizontal(img))
	case wire.TransformFlipped180:
		return rotateCCW180(flipHorizontal(img))
	case wire.TransformFlipped270:
		return rotateCCW90(flipHorizontal(img))
	default:
		return img
	}
}

// rotateCCW90 rotates img 90 degrees counter-clockwise: the source's
// right-hand column becomes the destination's top row.
func rotateCCW90(img PixelImage) PixelImage {
	out := NewPixelImage(img.Height, img.Width)
	for yo := 0; yo < out.Height; yo++ {
		xi := img.Width - 1 - yo
		for xo := 0; xo < out.Width; xo++ {
			yi := xo
			copyPixel(&out, xo, yo, img, xi, yi)
		}
	}
	return out
}

func rotateCCW180(img PixelImage) PixelImage {
	out := NewPixelImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			copyPixel(&out, x, y, img, img.Width-1-x, img.Height-1-y)
		}
	}
	return out
}

func rotateCCW270(img PixelImage) PixelImage {
	return rotateCCW90(rotateCCW180(img))
}

// flipHorizontal mirrors img across its vertical axis.
func flipHorizontal(img PixelImage) PixelImage {
	out := NewPixelImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			copyPixel(&out, x, y, img, img.Width-1-x, y)
		}
	}
	return out
}

// reverseRows flips img across its horizontal axis, undoing the
// compositor's vertical-invert delivery flag.
func reverseRows(img PixelImage) PixelImage {
	out := NewPixelImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		srcY := img.Height - 1 - y
		srcOff := img.RowOffset(srcY)
		dstOff := out.RowOffset(y)
		copy(out.Pix[dstOff:dstOff+out.Stride()], img.Pix[srcOff:srcOff+img.Stride()])
	}
	return out
}

func copyPixel(dst *PixelImage, dx, dy int, src PixelImage, sx, sy int) {
	so := src.RowOffset(sy) + sx*4
	do := dst.RowOffset(dy) + dx*4
	copy(dst.Pix[do:do+4], src.Pix[so:so+4])
}
