package warp

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"lenswarp/imagefile"
	"lenswarp/lens"
	"lenswarp/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan      string  `help:"Source folder to scan" default:"."`
	Dest      string  `help:"Destination folder for warped pictures. Relative to scan dir if not absolute." default:"warped"`
	Strength  float64 `help:"Distortion strength. Positive values pinch (pincushion), negative values bulge (barrel)." default:"0.2" env:"LENSWARP_STRENGTH"`
	Resize    bool    `help:"Shrink images to fit the given box before warping" default:"false" group:"resize"`
	Width     int     `help:"Max width" group:"resize"`
	Height    int     `help:"Max height" group:"resize"`
	Compare   bool    `help:"Write the warped image next to a mirrored copy of the source" default:"false"`
	Format    string  `help:"Output format of warped image. If prefixed with 'unsup:' will convert only unsupported formats" enum:"same,gif,unsup:gif,jpeg,unsup:jpeg,png,unsup:png,bmp,unsup:bmp,tiff,unsup:tiff" default:"png"`
	Overwrite bool    `help:"Replace existing files in the destination folder" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if err := lens.ValidateStrength(c.Strength); err != nil {
		return fmt.Errorf("invalid strength: %w", err)
	}

	if c.Resize {
		switch {
		case c.Width < 0:
			return fmt.Errorf("invalid resize width: %d", c.Width)
		case c.Height < 0:
			return fmt.Errorf("invalid resize height: %d", c.Height)
		case (c.Width == 0) && (c.Height == 0):
			return fmt.Errorf("no resize dimensions given")
		}
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))
				if err := c.process(logger, fileName); err != nil {
					errCount.Add(1)
					logger.Error("could not warp image", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) process(logger *slog.Logger, fileName string) error {
	img, imgType, err := imagefile.Load(filepath.Join(c.Scan, fileName))
	if err != nil {
		return err
	}

	if c.Resize {
		img = fit(logger, img, c.Width, c.Height)
	}

	logger.Debug("warping", "type", imgType, "strength", c.Strength,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	warped, err := lens.Transform(lens.FromImage(img), c.Strength)
	if err != nil {
		return fmt.Errorf("could not warp %s image: %w", imgType, err)
	}

	var out image.Image = warped
	if c.Compare {
		out = compareSheet(warped, img)
	}

	outType := imagefile.OutputType(imgType, c.Format)
	if imagefile.DropsAlpha(outType) {
		logger.Warn("output format has no alpha channel, pixels outside the source frame will be black", "format", outType)
	}

	dest := imagefile.DestPath(c.Dest, fileName, outType)
	if err = imagefile.Save(out, outType, dest, c.Overwrite); err != nil {
		return err
	}
	logger.Info("saved", "dest", dest)
	return nil
}
