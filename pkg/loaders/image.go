package loaders

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// JPEGQuality is used when saving .jpg/.jpeg files
const JPEGQuality = 95

// ImageData contains loaded image data as a row-major Color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// At returns the pixel at (x, y)
func (d *ImageData) At(x, y int) core.Color {
	return d.Pixels[y*d.Width+x]
}

// LoadImage loads a PNG or JPEG image and converts it to a Color array
func LoadImage(filename string) (*ImageData, error) {
	// Decode image (auto-detects PNG/JPEG from file header)
	img, err := gg.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromRGBA(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// SaveImage encodes img by file extension (.png, .jpg or .jpeg), creating
// parent directories as needed
func SaveImage(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		if err := gg.SavePNG(filename, img); err != nil {
			return fmt.Errorf("failed to save PNG: %w", err)
		}
		return nil
	case ".jpg", ".jpeg":
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create image file: %w", err)
		}
		if err := jpeg.Encode(file, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			file.Close()
			return fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return file.Close()
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(filename))
	}
}
