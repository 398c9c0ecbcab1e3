package lens

import "errors"

var (
	ErrInvalidDimensions = errors.New("invalid bitmap dimensions")
	ErrNonFiniteStrength = errors.New("strength is not a finite number")
	ErrPixelCount        = errors.New("pixel buffer does not match dimensions")
)
