package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// Frame is a row-major width×height pixel buffer
type Frame struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	pixels := make([]core.Color, width*height)
	for i := range pixels {
		pixels[i] = core.Black
	}
	return &Frame{Width: width, Height: height, Pixels: pixels}
}

// At returns the pixel at (x, y)
func (f *Frame) At(x, y int) core.Color {
	return f.Pixels[y*f.Width+x]
}

// Set stores the pixel at (x, y)
func (f *Frame) Set(x, y int, c core.Color) {
	f.Pixels[y*f.Width+x] = c
}

// ToImage converts the frame to an opaque RGBA image
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.At(x, y).ToRGBA())
		}
	}
	return img
}

// SubImage copies the pixels inside bounds into a new image whose origin is
// bounds.Min
func (f *Frame) SubImage(bounds image.Rectangle) *image.RGBA {
	bounds = bounds.Intersect(image.Rect(0, 0, f.Width, f.Height))
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, f.At(x, y).ToRGBA())
		}
	}
	return img
}

// Luminances returns the luminance of every pixel in row-major order
func (f *Frame) Luminances() []float64 {
	values := make([]float64, len(f.Pixels))
	for i, p := range f.Pixels {
		values[i] = p.Luminance()
	}
	return values
}

// Save writes the frame to path; the format follows the file extension
func (f *Frame) Save(path string) error {
	return loaders.SaveImage(path, f.ToImage())
}
