package placeholders

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"chosenoffset.com/genplaceholders/internal/fileutil"

	"golang.org/x/image/bmp"
)

// TileSize is the hardware tile size in pixels; sprite frame sizes are
// expressed in tiles
const TileSize = 8

// ImageSpec describes a placeholder image
type ImageSpec struct {
	Width       int    // Image width in pixels
	Height      int    // Image height in pixels
	Seed        string // Drives the fill colour (usually the asset path)
	FrameWidth  int    // Sprite frame width in pixels, 0 for single images
	FrameHeight int    // Sprite frame height in pixels, 0 for single images
}

// frames returns the frame grid, or 1x1 when the frame size does not tile
// the image exactly
func (s ImageSpec) frames() (cols, rows int) {
	if s.FrameWidth <= 0 || s.FrameHeight <= 0 {
		return 1, 1
	}
	if s.FrameWidth > s.Width || s.FrameHeight > s.Height {
		return 1, 1
	}
	if s.Width%s.FrameWidth != 0 || s.Height%s.FrameHeight != 0 {
		return 1, 1
	}
	return s.Width / s.FrameWidth, s.Height / s.FrameHeight
}

// RenderImage creates an indexed placeholder: background index 0 with a
// filled circle of radius min(w,h)/3 in the seed's colour. Sprite sheets get
// one circle per frame cell.
func RenderImage(spec ImageSpec) (*image.Paletted, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", spec.Width, spec.Height)
	}

	img := image.NewPaletted(image.Rect(0, 0, spec.Width, spec.Height), Palette)
	index := PickColorIndex(spec.Seed)

	cols, rows := spec.frames()
	cellW := spec.Width / cols
	cellH := spec.Height / rows
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cell := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
			fillCircle(img, cell, index)
		}
	}

	return img, nil
}

// fillCircle draws a filled circle centred in bounds. The circle covers the
// inclusive box [c-r, c+r] on both axes.
func fillCircle(img *image.Paletted, bounds image.Rectangle, index uint8) {
	w, h := bounds.Dx(), bounds.Dy()
	radius := min(w, h) / 3
	cx := bounds.Min.X + w/2
	cy := bounds.Min.Y + h/2

	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if !(image.Point{x, y}.In(bounds)) {
				continue
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetColorIndex(x, y, index)
			}
		}
	}
}

// EncodeImage writes img in the format implied by the file extension
func EncodeImage(w io.Writer, img image.Image, name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("no image encoder for %s", name)
	}
}

// SaveImage writes img to path, creating parent directories
func SaveImage(img image.Image, path string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeImage(w, img, path)
	})
}
