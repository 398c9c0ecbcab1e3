package lens

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Bitmap is a row-major RGBA8 pixel buffer. Channels are stored
// non-premultiplied, exactly as they were handed to NewBitmap or FromImage.
// A Bitmap is never modified after construction.
type Bitmap struct {
	width  int
	height int
	pix    []uint8 // R, G, B, A per pixel, (y*width+x)*4
}

var _ image.Image = (*Bitmap)(nil)

// NewBitmap wraps pix as a width x height bitmap. The slice is copied.
func NewBitmap(width, height int, pix []uint8) (*Bitmap, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrPixelCount, len(pix), width, height)
	}

	return &Bitmap{
		width:  width,
		height: height,
		pix:    append([]uint8(nil), pix...),
	}, nil
}

// FromImage copies any image into a Bitmap anchored at the origin.
func FromImage(img image.Image) *Bitmap {
	switch src := img.(type) {
	case *Bitmap:
		return &Bitmap{width: src.width, height: src.height, pix: src.Pix()}
	case *image.NRGBA:
		return fromNRGBA(src)
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return fromNRGBA(dst)
}

func fromNRGBA(img *image.NRGBA) *Bitmap {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]uint8, w*h*4)
	for y := range h {
		i := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[i:i+w*4])
	}
	return &Bitmap{width: w, height: h, pix: pix}
}

func newBlank(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

func (b *Bitmap) Width() int  { return b.width }
func (b *Bitmap) Height() int { return b.height }

// Pix returns a copy of the raw pixel data.
func (b *Bitmap) Pix() []uint8 {
	return append([]uint8(nil), b.pix...)
}

// Pixel returns the pixel at (x, y), or transparent black outside the bitmap.
func (b *Bitmap) Pixel(x, y int) color.NRGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	i := (y*b.width + x) * 4
	return color.NRGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

func (b *Bitmap) ColorModel() color.Model { return color.NRGBAModel }

func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *Bitmap) At(x, y int) color.Color { return b.Pixel(x, y) }

// NRGBA returns a copy of the bitmap as an *image.NRGBA.
func (b *Bitmap) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix(),
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}
