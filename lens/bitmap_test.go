package lens

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewBitmap(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		pix     []uint8
		wantErr error
	}{
		{"valid", 2, 1, []uint8{1, 2, 3, 4, 5, 6, 7, 8}, nil},
		{"empty", 0, 0, nil, nil},
		{"short buffer", 2, 2, make([]uint8, 12), ErrPixelCount},
		{"long buffer", 1, 1, make([]uint8, 5), ErrPixelCount},
		{"negative width", -1, 2, nil, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := NewBitmap(tt.w, tt.h, tt.pix)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewBitmap error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if bm.Width() != tt.w || bm.Height() != tt.h {
				t.Errorf("got %dx%d, want %dx%d", bm.Width(), bm.Height(), tt.w, tt.h)
			}
		})
	}
}

func TestNewBitmapCopiesInput(t *testing.T) {
	pix := []uint8{10, 20, 30, 40}
	bm, err := NewBitmap(1, 1, pix)
	if err != nil {
		t.Fatalf("NewBitmap failed: %v", err)
	}
	pix[0] = 99
	if got := bm.Pixel(0, 0).R; got != 10 {
		t.Errorf("bitmap changed with caller buffer: R = %d, want 10", got)
	}

	out := bm.Pix()
	out[1] = 0
	if got := bm.Pixel(0, 0).G; got != 20 {
		t.Errorf("bitmap changed through Pix(): G = %d, want 20", got)
	}
}

func TestBitmapPixelOutside(t *testing.T) {
	bm := gradient(t, 3, 2)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {3, 0}, {0, 2}} {
		if got := bm.Pixel(p.X, p.Y); got != (color.NRGBA{}) {
			t.Errorf("Pixel(%d, %d) = %v, want transparent", p.X, p.Y, got)
		}
	}
}

func TestFromImage(t *testing.T) {
	// offset bounds and a sub-image stride must both be handled
	src := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	for y := 5; y < 8; y++ {
		for x := 5; x < 9; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 128})
		}
	}
	sub := src.SubImage(image.Rect(6, 6, 9, 8)).(*image.NRGBA)

	bm := FromImage(sub)
	if bm.Width() != 3 || bm.Height() != 2 {
		t.Fatalf("got %dx%d, want 3x2", bm.Width(), bm.Height())
	}
	for y := range 2 {
		for x := range 3 {
			want := color.NRGBA{R: uint8(x + 6), G: uint8(y + 6), B: 7, A: 128}
			if got := bm.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFromImageConvertsModel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 1, color.Gray{Y: 200})

	bm := FromImage(src)
	want := color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	if got := bm.Pixel(1, 1); got != want {
		t.Errorf("Pixel(1, 1) = %v, want %v", got, want)
	}
}

func TestBitmapRoundTripsThroughNRGBA(t *testing.T) {
	bm := gradient(t, 5, 4)
	back := FromImage(bm.NRGBA())
	if diff := cmp.Diff(bm.Pix(), back.Pix()); diff != "" {
		t.Errorf("pixels changed (-want +got):\n%s", diff)
	}

	// the Bitmap itself is an image.Image
	again := FromImage(bm)
	if diff := cmp.Diff(bm.Pix(), again.Pix()); diff != "" {
		t.Errorf("pixels changed through image.Image (-want +got):\n%s", diff)
	}
}

func TestFromImageKeepsTransparentPixels(t *testing.T) {
	bm, err := NewBitmap(2, 1, []uint8{0, 0, 0, 0, 255, 10, 20, 255})
	if err != nil {
		t.Fatalf("NewBitmap failed: %v", err)
	}
	got := FromImage(bm.NRGBA())
	if p := got.Pixel(0, 0); p != (color.NRGBA{}) {
		t.Errorf("transparent pixel became %v", p)
	}
}
