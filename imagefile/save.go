package imagefile

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// encoders lists the output formats that can be written. Formats that can
// only be read, such as webp, are missing on purpose.
var encoders = map[string]bool{
	"gif":  true,
	"jpeg": true,
	"png":  true,
	"bmp":  true,
	"tiff": true,
}

// OutputType resolves the --format option against the type an image was
// decoded from. "unsup:X" keeps the source type when it can be encoded and
// falls back to X otherwise.
func OutputType(imgType, format string) string {
	format, unsupOnly := strings.CutPrefix(format, "unsup:")
	switch {
	case format == "same":
		return imgType
	case unsupOnly && encoders[imgType]:
		return imgType
	}
	return format
}

// DropsAlpha reports whether encoding to outType loses the alpha channel.
func DropsAlpha(outType string) bool {
	return outType == "jpeg"
}

// DestPath names the file srcName becomes in destDir once stored as outType.
func DestPath(destDir, srcName, outType string) string {
	oldExt := filepath.Ext(srcName)
	return filepath.Join(destDir, fmt.Sprintf("%s.%s", srcName[:len(srcName)-len(oldExt)], outType))
}

// checkDest fails when dest already exists.
func checkDest(dest string) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	return fmt.Errorf("destination file already exists: %q", info.Name())
}

// Save encodes img as outType into dest through a temporary file in the same
// folder, so a failed encode never leaves a truncated destination behind.
func Save(img image.Image, outType, dest string, overwrite bool) (err error) {
	if !encoders[outType] {
		return fmt.Errorf("unsupported output format: %s", outType)
	}
	if !overwrite {
		if err := checkDest(dest); err != nil {
			return err
		}
	}

	destDir, destName := filepath.Split(dest)
	if destDir == "" {
		destDir = "."
	}
	outFile, err := os.CreateTemp(destDir, "."+destName+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = outFile.Chmod(0o644); err != nil {
		return fmt.Errorf("could not set permissions on %q: %w", destName, err)
	}
	if err = encode(outFile, img, outType); err != nil {
		return fmt.Errorf("could not encode destination %q: %w", destName, err)
	}

	canRename = true
	return nil
}

func encode(w io.Writer, img image.Image, outType string) error {
	switch outType {
	case "gif":
		return gif.Encode(w, img, nil)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported output format: %s", outType)
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
