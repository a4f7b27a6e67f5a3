// Package capture turns read back canvas pixels into image files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type Format string

const (
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
)

var ErrUnknownFormat = errors.New("capture: unknown format")

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatWebP:
		return FormatWebP, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FromRGBA wraps tightly packed RGBA8 rows. The slice is not copied.
func FromRGBA(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return nil, fmt.Errorf("capture: %d bytes for %dx%d", len(pixels), width, height)
	}
	return &image.NRGBA{
		Pix:    pixels[:width*height*4],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Upscale magnifies src by an integer factor with nearest-neighbor sampling,
// so every canvas texel becomes a scale×scale block.
func Upscale(src image.Image, scale int) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	case FormatPNG:
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func FileName(id uuid.UUID, f Format) string {
	return fmt.Sprintf("capture-%s.%s", id, f)
}

// WriteFile encodes img into dir under a fresh capture name and returns the path.
func WriteFile(dir string, img image.Image, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(uuid.New(), f))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}
