package dataurl

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"lenswarp/imagefile"
	"lenswarp/lens"
	"lenswarp/parallel"

	"github.com/alecthomas/kong"
	"github.com/disintegration/imaging"
)

type CLICmd struct {
	Source   string  `arg:"" help:"Image file, data URL, or '-' to read either from stdin"`
	Strength float64 `help:"Distortion strength. Positive values pinch (pincushion), negative values bulge (barrel)." default:"0.2" env:"LENSWARP_STRENGTH"`
	Mirror   bool    `help:"Flip the warped image horizontally" default:"false"`
	Out      string  `help:"Write the data URL to this file instead of stdout" short:"o" default:"-"`

	stdin  io.Reader `kong:"-"`
	stdout io.Writer `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if err := lens.ValidateStrength(c.Strength); err != nil {
		return fmt.Errorf("invalid strength: %w", err)
	}
	if c.Source == "" {
		return fmt.Errorf("no source given")
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	defer pool.Wait(true)

	img, imgType, err := c.read()
	if err != nil {
		return err
	}
	logger := slog.Default().With("type", imgType, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	logger.Debug("warping", "strength", c.Strength, "workers", pool.Size)
	warped, err := lens.TransformParallel(lens.FromImage(img), c.Strength, pool.Size)
	if err != nil {
		return fmt.Errorf("could not warp %s image: %w", imgType, err)
	}

	var out image.Image = warped
	if c.Mirror {
		out = imaging.FlipH(warped)
	}

	return c.write(logger, out)
}

func (c *CLICmd) read() (image.Image, string, error) {
	if IsDataURL(c.Source) {
		return Decode(c.Source)
	}
	if c.Source != "-" {
		return imagefile.Load(c.Source)
	}

	in := c.stdin
	if in == nil {
		in = os.Stdin
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, "", fmt.Errorf("could not read stdin: %w", err)
	}
	if IsDataURL(string(raw)) {
		return Decode(string(raw))
	}
	return imagefile.Decode(bytes.NewReader(raw))
}

func (c *CLICmd) write(logger *slog.Logger, img image.Image) (err error) {
	var w io.Writer = c.stdout
	if c.Out != "-" {
		f, createErr := os.Create(c.Out)
		if createErr != nil {
			return fmt.Errorf("could not create output file %q: %w", c.Out, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("could not close output file %q: %w", c.Out, closeErr)
			}
		}()
		w = f
	} else if w == nil {
		w = os.Stdout
	}

	bw := bufio.NewWriter(w)
	if err := Encode(bw, img); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return fmt.Errorf("could not write data URL: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write data URL: %w", err)
	}

	logger.Info("encoded", "out", c.Out)
	return nil
}
