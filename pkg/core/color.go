package core

import (
	"image/color"
	"math"
)

// Color is an 8-bit RGBA color. All arithmetic saturates to [0, 255].
// Alpha is carried but ignored by shading.
type Color struct {
	R, G, B, A uint8
}

// Common colors
var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// NewColor creates an opaque color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func saturate(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

func saturateFloat(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

// Add returns the per-channel saturating sum
func (c Color) Add(other Color) Color {
	return Color{
		R: saturate(int(c.R) + int(other.R)),
		G: saturate(int(c.G) + int(other.G)),
		B: saturate(int(c.B) + int(other.B)),
		A: c.A,
	}
}

// Subtract returns the per-channel saturating difference
func (c Color) Subtract(other Color) Color {
	return Color{
		R: saturate(int(c.R) - int(other.R)),
		G: saturate(int(c.G) - int(other.G)),
		B: saturate(int(c.B) - int(other.B)),
		A: c.A,
	}
}

// AddScalar adds x to every channel
func (c Color) AddScalar(x uint8) Color {
	return c.Add(Color{x, x, x, 0})
}

// SubtractScalar subtracts x from every channel
func (c Color) SubtractScalar(x uint8) Color {
	return c.Subtract(Color{x, x, x, 0})
}

// MultiplyScalar multiplies every channel by an integer factor
func (c Color) MultiplyScalar(x uint8) Color {
	return Color{
		R: saturate(int(c.R) * int(x)),
		G: saturate(int(c.G) * int(x)),
		B: saturate(int(c.B) * int(x)),
		A: c.A,
	}
}

// Scale multiplies every channel by f, truncating toward zero.
// Negative and NaN results clamp to 0.
func (c Color) Scale(f float64) Color {
	return Color{
		R: saturateFloat(float64(c.R) * f),
		G: saturateFloat(float64(c.G) * f),
		B: saturateFloat(float64(c.B) * f),
		A: c.A,
	}
}

// Divide performs integer division of every channel. Division by zero
// returns c unchanged.
func (c Color) Divide(x uint8) Color {
	if x == 0 {
		return c
	}
	return Color{R: c.R / x, G: c.G / x, B: c.B / x, A: c.A}
}

// Blend averages colors channel by channel with integer truncation.
// Blending nothing yields black.
func Blend(colors ...Color) Color {
	if len(colors) == 0 {
		return Black
	}
	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(colors)
	return Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

// Luminance returns the perceptual luminance in [0, 1]
// using weights 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
}

// ToRGBA converts to an opaque image/color value
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ColorFromRGBA converts an image/color value, dropping alpha
func ColorFromRGBA(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}
