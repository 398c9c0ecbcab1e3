package dataurl

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"lenswarp/imagefile"

	"github.com/disintegration/imaging"
)

const pngPrefix = "data:image/png;base64,"

var ErrNotDataURL = errors.New("not a base64 data URL")

// Encode writes img to w as a PNG data URL.
func Encode(w io.Writer, img image.Image) error {
	if _, err := io.WriteString(w, pngPrefix); err != nil {
		return fmt.Errorf("could not write data URL header: %w", err)
	}

	enc := base64.NewEncoder(base64.StdEncoding, w)
	if err := imaging.Encode(enc, img, imaging.PNG); err != nil {
		return fmt.Errorf("could not encode PNG: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not flush base64 stream: %w", err)
	}
	return nil
}

// IsDataURL reports whether s looks like a data URL rather than a path.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// Decode parses a base64 data URL of any image type the module can read.
// The media type in the header is not trusted; the payload is sniffed.
func Decode(s string) (image.Image, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, "", ErrNotDataURL
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode base64 payload: %w", err)
	}
	return imagefile.Decode(bytes.NewReader(raw))
}
