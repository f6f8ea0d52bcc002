package grim

import (
	"image/color"
	"testing"
)

func TestPixelImageSetAt(t *testing.T) {
	img := NewPixelImage(4, 3)
	img.Set(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	got := img.At(1, 2).(color.RGBA)
	want := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	if got != want {
		t.Fatalf("At(1,2) = %v, want %v", got, want)
	}

	// Out of bounds reads/writes must not panic.
	img.Set(-1, 0, color.RGBA{R: 1})
	if c := img.At(100, 100); c != (color.RGBA{}) {
		t.Fatalf("out-of-bounds At = %v, want zero value", c)
	}
}

func TestPixelImageSubImage(t *testing.T) {
	img := NewPixelImage(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: byte(x), G: byte(y), A: 255})
		}
	}

	sub := img.SubImage(Rect(1, 1, 2, 2))
	if sub.Width != 2 || sub.Height != 2 {
		t.Fatalf("SubImage size = %dx%d, want 2x2", sub.Width, sub.Height)
	}
	got := sub.At(0, 0).(color.RGBA)
	want := color.RGBA{R: 1, G: 1, A: 255}
	if got != want {
		t.Fatalf("SubImage(0,0) = %v, want %v", got, want)
	}
}

func TestPixelImageSubImageClamped(t *testing.T) {
	img := NewPixelImage(4, 4)
	sub := img.SubImage(Rect(2, 2, 100, 100))
	if sub.Width != 2 || sub.Height != 2 {
		t.Fatalf("clamped SubImage size = %dx%d, want 2x2", sub.Width, sub.Height)
	}
}

func TestPixelImageBlit(t *testing.T) {
	dst := NewPixelImage(4, 4)
	src := NewPixelImage(2, 2)
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}

	dst.blit(src, 1, 1)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			c := dst.At(x, y).(color.RGBA)
			isWhite := c == (color.RGBA{R: 255, G: 255, B: 255, A: 255})
			if inside != isWhite {
				t.Fatalf("blit mismatch at (%d,%d): inside=%v pixel=%v", x, y, inside, c)
			}
		}
	}
}

func TestPixelImageBlitClipsToDestination(t *testing.T) {
	dst := NewPixelImage(2, 2)
	src := NewPixelImage(4, 4)
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	// Should clip silently rather than panic when src overhangs dst.
	dst.blit(src, -1, -1)
	c := dst.At(0, 0).(color.RGBA)
	if c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("At(0,0) after clipped blit = %v", c)
	}
}

func TestPixelImageAsRGBARoundTrip(t *testing.T) {
	img := NewPixelImage(3, 2)
	img.Set(2, 1, color.RGBA{R: 9, G: 8, B: 7, A: 6})
	rgba := img.AsRGBA()
	back := FromRGBA(rgba)
	if back.Width != img.Width || back.Height != img.Height {
		t.Fatalf("FromRGBA size mismatch: got %dx%d, want %dx%d", back.Width, back.Height, img.Width, img.Height)
	}
	got := back.At(2, 1).(color.RGBA)
	want := color.RGBA{R: 9, G: 8, B: 7, A: 6}
	if got != want {
		t.Fatalf("round trip pixel = %v, want %v", got, want)
	}
}
