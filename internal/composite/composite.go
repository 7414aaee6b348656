// Package composite rasterizes overlay draw commands over a camera still to
// produce the downloadable capture.
package composite

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/viewfinder/viewfinder/internal/overlay"
)

var (
	ErrEmptyViewport     = errors.New("viewport has no area")
	ErrUnknownOp         = errors.New("unknown draw op")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Render stretches still over a width x height canvas and paints cmds on top
// in order. A nil still leaves the background transparent.
func Render(still image.Image, width, height int, cmds []overlay.DrawCommand) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyViewport
	}

	base := image.NewRGBA(image.Rect(0, 0, width, height))
	if still != nil {
		xdraw.CatmullRom.Scale(base, base.Bounds(), still, still.Bounds(), xdraw.Src, nil)
	}

	dc := gg.NewContextForImage(base)
	img, err := paintAll(dc, cmds)
	// Close flushes whatever the accelerator still holds; its error counts.
	if cerr := dc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close context: %w", cerr)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// paintAll draws cmds and reads the pixels back. Image copies the pixmap, so
// the result outlives the context.
func paintAll(dc *gg.Context, cmds []overlay.DrawCommand) (*image.RGBA, error) {
	for i, c := range cmds {
		if err := paint(dc, c); err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i, c.Role, err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba, nil
	}
	src := dc.Image()
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

func paint(dc *gg.Context, c overlay.DrawCommand) error {
	switch c.Op {
	case "rect":
		dc.DrawRectangle(c.X, c.Y, c.W, c.H)
	case "line":
		dc.DrawLine(c.X1, c.Y1, c.X2, c.Y2)
	case "circle":
		dc.DrawCircle(c.X, c.Y, c.R)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, c.Op)
	}
	defer dc.ClearPath()

	if c.Fill != "" {
		dc.SetHexColor(c.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if c.Stroke != "" && c.StrokeWidth > 0 {
		dc.SetHexColor(c.Stroke)
		dc.SetLineWidth(c.StrokeWidth)
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStill reads a PNG or JPEG camera frame.
func DecodeStill(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode still: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return img, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
