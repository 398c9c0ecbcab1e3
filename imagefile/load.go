package imagefile

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Load decodes the image at path with its EXIF orientation applied and
// reports the name of the format it was stored in.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an image from r, see Load.
func Decode(r io.ReadSeeker) (image.Image, string, error) {
	_, imgType, err := image.DecodeConfig(r)
	if err != nil {
		return nil, "", fmt.Errorf("could not read image header: %w", err)
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("could not rewind image: %w", err)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode %s image: %w", imgType, err)
	}
	return img, imgType, nil
}
