package grim

import (
	"testing"

	"github.com/KononK/resize"
)

func TestSelectFilterBoundaries(t *testing.T) {
	cases := []struct {
		s    float64
		want resize.InterpolationFunction
	}{
		{1.0, resize.Bilinear},
		{0.75, resize.Bilinear},
		{0.749, resize.Bicubic},
		{0.5, resize.Bicubic},
		{0.499, resize.Lanczos3},
		{0.1, resize.Lanczos3},
	}
	for _, c := range cases {
		if got := selectFilter(c.s); got != c.want {
			t.Fatalf("selectFilter(%v) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestResampleImageDimensionRounding(t *testing.T) {
	img := NewPixelImage(10, 10)
	out := resampleImage(img, 0.33)
	// 10 * 0.33 = 3.3, rounds to 3.
	if out.Width != 3 || out.Height != 3 {
		t.Fatalf("resampleImage dims = %dx%d, want 3x3", out.Width, out.Height)
	}
}

func TestResampleImageMinimumOne(t *testing.T) {
	img := NewPixelImage(2, 2)
	out := resampleImage(img, 0.01)
	if out.Width < 1 || out.Height < 1 {
		t.Fatalf("resampleImage dims = %dx%d, want >= 1x1", out.Width, out.Height)
	}
}

func TestResampleImageNonPositiveScaleIsNoop(t *testing.T) {
	img := NewPixelImage(6, 4)
	out := resampleImage(img, 0)
	if out.Width != img.Width || out.Height != img.Height {
		t.Fatalf("resampleImage(0) dims = %dx%d, want unchanged %dx%d", out.Width, out.Height, img.Width, img.Height)
	}
}

func TestRoundDimClampsToOne(t *testing.T) {
	if got := roundDim(0.1); got != 1 {
		t.Fatalf("roundDim(0.1) = %d, want 1", got)
	}
	if got := roundDim(-5); got != 1 {
		t.Fatalf("roundDim(-5) = %d, want 1", got)
	}
	if got := roundDim(7.5); got != 8 {
		t.Fatalf("roundDim(7.5) = %d, want 8", got)
	}
}
