package warp

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// compareSheet lays the warped image next to a horizontally mirrored copy of
// the source, the way a face looks in a mirror. Both must have the same size.
func compareSheet(warped, src image.Image) *image.NRGBA {
	w, h := warped.Bounds().Dx(), warped.Bounds().Dy()
	sheet := image.NewNRGBA(image.Rect(0, 0, 2*w, h))

	draw.Draw(sheet, image.Rect(0, 0, w, h), warped, warped.Bounds().Min, draw.Src)
	draw.Draw(sheet, image.Rect(w, 0, 2*w, h), imaging.FlipH(src), image.Point{}, draw.Src)

	return sheet
}
