// Package lens implements a radial pixel remap that simulates pincushion
// (strength > 0) and barrel (strength < 0) lens distortion.
//
// The remap is an inverse warp: every destination pixel is pulled from a
// source location found by scaling its distance from the image center.
// Sampling is nearest-lower-integer, and destinations whose source falls
// outside the frame become transparent black.
package lens

import (
	"fmt"
	"math"

	"lenswarp/parallel"
)

// DefaultStrength is the strength used when the caller has no preference.
const DefaultStrength = 0.5

// geometry holds the values derived once per transform.
type geometry struct {
	width, height    int
	centerX, centerY float64
	maxRadius        float64
	strength         float64
}

func newGeometry(width, height int, strength float64) geometry {
	cx := float64(width) / 2
	cy := float64(height) / 2
	return geometry{
		width:     width,
		height:    height,
		centerX:   cx,
		centerY:   cy,
		maxRadius: math.Sqrt(cx*cx + cy*cy),
		strength:  strength,
	}
}

// ValidateStrength reports ErrNonFiniteStrength for NaN and infinities.
func ValidateStrength(strength float64) error {
	if math.IsNaN(strength) || math.IsInf(strength, 0) {
		return fmt.Errorf("%w: %v", ErrNonFiniteStrength, strength)
	}
	return nil
}

func validate(src *Bitmap, strength float64) error {
	if src == nil || src.width < 1 || src.height < 1 {
		w, h := 0, 0
		if src != nil {
			w, h = src.width, src.height
		}
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	return ValidateStrength(strength)
}

// DistortRadius maps a destination distance from the center to the source
// distance to sample, clamped to [0, maxRadius].
func DistortRadius(distance, maxRadius, strength float64) float64 {
	if maxRadius == 0 {
		return distance
	}

	var d float64
	if strength >= 0 {
		d = distance * (1 - strength*(distance/maxRadius))
	} else {
		d = distance / (1 + strength*(distance/maxRadius))
	}

	switch {
	case d < 0 || math.IsNaN(d):
		return 0
	case d > maxRadius:
		return maxRadius
	}
	return d
}

// Transform returns a new bitmap with src warped by strength.
func Transform(src *Bitmap, strength float64) (*Bitmap, error) {
	if err := validate(src, strength); err != nil {
		return nil, err
	}

	dst := newBlank(src.width, src.height)
	if strength == 0 {
		// exact identity; the trig round trip can land a hair below an
		// integer and floor onto the neighbouring pixel
		copy(dst.pix, src.pix)
		return dst, nil
	}

	g := newGeometry(src.width, src.height, strength)
	g.remapRows(src, dst, 0, src.height)
	return dst, nil
}

// TransformParallel is Transform with rows split into bands processed on
// numWorkers goroutines. The result is identical to Transform.
func TransformParallel(src *Bitmap, strength float64, numWorkers int) (*Bitmap, error) {
	if err := validate(src, strength); err != nil {
		return nil, err
	}

	dst := newBlank(src.width, src.height)
	if strength == 0 {
		copy(dst.pix, src.pix)
		return dst, nil
	}

	g := newGeometry(src.width, src.height, strength)
	parallel.ForEachBand(src.height, numWorkers, func(band parallel.Band) {
		g.remapRows(src, dst, band.Start, band.End)
	})
	return dst, nil
}

// sourceOf returns the source coordinates sampled for destination (x, y)
// and whether they fall inside the frame.
func (g geometry) sourceOf(x, y int) (int, int, bool) {
	if g.maxRadius == 0 {
		return x, y, true
	}

	dx := float64(x) - g.centerX
	dy := float64(y) - g.centerY
	distance := math.Sqrt(dx*dx + dy*dy)
	angle := math.Atan2(dy, dx)

	d := DistortRadius(distance, g.maxRadius, g.strength)
	sx := int(math.Floor(g.centerX + d*math.Cos(angle)))
	sy := int(math.Floor(g.centerY + d*math.Sin(angle)))

	return sx, sy, sx >= 0 && sx < g.width && sy >= 0 && sy < g.height
}

// remapRows fills destination rows [y0, y1). Rows outside that range are
// neither read nor written in dst.
func (g geometry) remapRows(src, dst *Bitmap, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := range g.width {
			di := (y*g.width + x) * 4
			sx, sy, ok := g.sourceOf(x, y)
			if !ok {
				// dst is freshly allocated, already transparent black
				continue
			}
			si := (sy*g.width + sx) * 4
			copy(dst.pix[di:di+4], src.pix[si:si+4])
		}
	}
}

// SourceCoords returns the source pixel the remap samples for destination
// (x, y) of a width x height frame, and whether it lies inside the frame.
func SourceCoords(width, height, x, y int, strength float64) (int, int, bool) {
	return newGeometry(width, height, strength).sourceOf(x, y)
}
