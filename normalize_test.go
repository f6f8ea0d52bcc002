package grim

import (
	"testing"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

func TestNormalizeByteOrderARGB(t *testing.T) {
	// One BGRA-on-the-wire pixel: B=1 G=2 R=3 A=4.
	pix := []byte{1, 2, 3, 4}
	if err := normalizeByteOrder(pix, wire.ShmFormatARGB8888); err != nil {
		t.Fatalf("normalizeByteOrder: %v", err)
	}
	want := []byte{3, 2, 1, 4}
	if string(pix) != string(want) {
		t.Fatalf("ARGB8888 normalize = %v, want %v", pix, want)
	}
}

func TestNormalizeByteOrderXRGBForcesOpaque(t *testing.T) {
	pix := []byte{1, 2, 3, 0x00}
	if err := normalizeByteOrder(pix, wire.ShmFormatXRGB8888); err != nil {
		t.Fatalf("normalizeByteOrder: %v", err)
	}
	if pix[3] != 0xff {
		t.Fatalf("XRGB8888 alpha = %#x, want 0xff", pix[3])
	}
	if pix[0] != 3 || pix[1] != 2 || pix[2] != 1 {
		t.Fatalf("XRGB8888 RGB = %v, want [3 2 1]", pix[:3])
	}
}

func TestNormalizeByteOrderABGRIsNoop(t *testing.T) {
	pix := []byte{5, 6, 7, 8}
	if err := normalizeByteOrder(pix, wire.ShmFormatABGR8888); err != nil {
		t.Fatalf("normalizeByteOrder: %v", err)
	}
	want := []byte{5, 6, 7, 8}
	if string(pix) != string(want) {
		t.Fatalf("ABGR8888 should pass through unchanged, got %v", pix)
	}
}

func TestNormalizeByteOrderUnsupportedFormat(t *testing.T) {
	if err := normalizeByteOrder([]byte{0, 0, 0, 0}, wire.ShmFormat(9999)); err == nil {
		t.Fatal("expected an error for an unsupported format")
	} else if err.Kind != KindFormatUnsupported {
		t.Fatalf("Kind = %v, want KindFormatUnsupported", err.Kind)
	}
}

// buildTestImage produces a 2x2 PixelImage tagged so each quadrant is
// distinguishable by its red channel: TL=0 TR=1 BL=2 BR=3.
func buildTestImage() PixelImage {
	img := NewPixelImage(2, 2)
	img.Pix[0*img.Stride()+0*4] = 0 // TL
	img.Pix[0*img.Stride()+1*4] = 1 // TR
	img.Pix[1*img.Stride()+0*4] = 2 // BL
	img.Pix[1*img.Stride()+1*4] = 3 // BR
	return img
}

func TestApplyTransformNormal(t *testing.T) {
	img := buildTestImage()
	out := applyTransform(img, wire.TransformNormal)
	if out.Pix[0] != 0 {
		t.Fatalf("TransformNormal should be a no-op")
	}
}

func TestApplyTransform180(t *testing.T) {
	img := buildTestImage()
	out := applyTransform(img, wire.Transform180)
	// TL <-> BR, TR <-> BL
	tl := out.Pix[0]
	br := out.Pix[1*out.Stride()+1*4]
	if tl != 3 || br != 0 {
		t.Fatalf("180 rotation: TL=%d BR=%d, want TL=3 BR=0", tl, br)
	}
}

func TestApplyTransformFlipped(t *testing.T) {
	img := buildTestImage()
	out := applyTransform(img, wire.TransformFlipped)
	tl := out.Pix[0]
	tr := out.Pix[1*4]
	if tl != 1 || tr != 0 {
		t.Fatalf("horizontal flip: TL=%d TR=%d, want TL=1 TR=0", tl, tr)
	}
}

func TestRotateCCW90Dimensions(t *testing.T) {
	img := NewPixelImage(5, 3)
	out := rotateCCW90(img)
	if out.Width != 3 || out.Height != 5 {
		t.Fatalf("rotateCCW90 dims = %dx%d, want 3x5", out.Width, out.Height)
	}
}

func TestRotateCCW90CornerMapping(t *testing.T) {
	// A 3x2 image (W=3,H=2) rotated 90 CCW becomes 2x3 (W=2,H=3).
	// The source's top-right pixel (x=2,y=0) moves to the destination's
	// top-left pixel (0,0) under a counter-clockwise rotation.
	img := NewPixelImage(3, 2)
	img.Pix[0*img.Stride()+2*4] = 42 // (x=2, y=0)
	out := rotateCCW90(img)
	if out.Pix[0] != 42 {
		t.Fatalf("rotateCCW90 corner mapping: out(0,0) R=%d, want 42", out.Pix[0])
	}
}

func TestRotateCCW270IsInverseOf90(t *testing.T) {
	img := buildTestImage()
	roundTrip := rotateCCW270(rotateCCW90(img))
	for i := range img.Pix {
		if img.Pix[i] != roundTrip.Pix[i] {
			t.Fatalf("rotateCCW270(rotateCCW90(img)) != img at byte %d", i)
		}
	}
}

func TestReverseRows(t *testing.T) {
	img := buildTestImage()
	out := reverseRows(img)
	// top row of out should equal bottom row of img
	if out.Pix[0] != img.Pix[1*img.Stride()] {
		t.Fatalf("reverseRows did not swap rows")
	}
}

func TestUnpackRowsStridePadding(t *testing.T) {
	// width=2 height=2, stride=12 (padded 4 bytes/row beyond the 8 needed).
	meta := FrameMeta{Width: 2, Height: 2, Stride: 12}
	raw := make([]byte, 12*2)
	raw[0] = 1 // row0 pixel0 red
	raw[12] = 2 // row1 pixel0 red
	out, err := unpackRows(raw, meta)
	if err != nil {
		t.Fatalf("unpackRows: %v", err)
	}
	if len(out) != 2*2*4 {
		t.Fatalf("unpackRows length = %d, want %d", len(out), 2*2*4)
	}
	if out[0] != 1 || out[8] != 2 {
		t.Fatalf("unpackRows did not strip padding correctly: %v", out)
	}
}

func TestUnpackRowsRejectsShortStride(t *testing.T) {
	meta := FrameMeta{Width: 4, Height: 1, Stride: 8}
	if _, err := unpackRows(make([]byte, 8), meta); err == nil {
		t.Fatal("expected error for stride smaller than width*4")
	}
}

func TestUnpackRowsRejectsShortBuffer(t *testing.T) {
	meta := FrameMeta{Width: 2, Height: 4, Stride: 8}
	if _, err := unpackRows(make([]byte, 8), meta); err == nil {
		t.Fatal("expected error for buffer shorter than stride*height")
	}
}
