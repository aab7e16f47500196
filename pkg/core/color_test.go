package core

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rgb(c Color) [3]uint8 { return [3]uint8{c.R, c.G, c.B} }

func TestColor_SaturatingArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		result   Color
		expected [3]uint8
	}{
		{"add clamps high", NewColor(250, 250, 250).Add(NewColor(10, 10, 10)), [3]uint8{255, 255, 255}},
		{"add in range", NewColor(1, 2, 3).Add(NewColor(10, 20, 30)), [3]uint8{11, 22, 33}},
		{"subtract clamps low", NewColor(5, 5, 5).Subtract(NewColor(10, 10, 10)), [3]uint8{0, 0, 0}},
		{"subtract in range", NewColor(50, 60, 70).Subtract(NewColor(10, 10, 10)), [3]uint8{40, 50, 60}},
		{"add scalar", NewColor(200, 100, 0).AddScalar(100), [3]uint8{255, 200, 100}},
		{"subtract scalar", NewColor(200, 100, 0).SubtractScalar(150), [3]uint8{50, 0, 0}},
		{"multiply scalar", NewColor(100, 10, 0).MultiplyScalar(3), [3]uint8{255, 30, 0}},
		{"divide", NewColor(100, 11, 1).Divide(2), [3]uint8{50, 5, 0}},
		{"divide by zero", NewColor(100, 11, 1).Divide(0), [3]uint8{100, 11, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rgb(tt.result))
		})
	}
}

func TestColor_Scale(t *testing.T) {
	tests := []struct {
		name     string
		factor   float64
		expected [3]uint8
	}{
		{"half truncates", 0.5, [3]uint8{50, 5, 127}},
		{"identity", 1.0, [3]uint8{100, 11, 255}},
		{"overflow clamps", 10, [3]uint8{255, 110, 255}},
		{"negative clamps to zero", -0.5, [3]uint8{0, 0, 0}},
		{"nan clamps to zero", math.NaN(), [3]uint8{0, 0, 0}},
	}

	base := NewColor(100, 11, 255)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, rgb(base.Scale(tt.factor)))
		})
	}
}

func TestBlend(t *testing.T) {
	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(Blend()))
	assert.Equal(t, [3]uint8{10, 20, 30}, rgb(Blend(NewColor(10, 20, 30))))

	// Integer truncation: (255 + 0) / 2 = 127
	avg := Blend(NewColor(255, 0, 1), NewColor(0, 255, 2))
	assert.Equal(t, [3]uint8{127, 127, 1}, rgb(avg))

	// No overflow while accumulating
	many := make([]Color, 16)
	for i := range many {
		many[i] = White
	}
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(Blend(many...)))
}

func TestColor_Conversions(t *testing.T) {
	c := NewColor(12, 34, 56)
	assert.Equal(t, color.RGBA{12, 34, 56, 255}, c.ToRGBA())
	assert.Equal(t, c, ColorFromRGBA(color.RGBA{12, 34, 56, 255}))

	assert.InDelta(t, 0.0, Black.Luminance(), 1e-12)
	assert.InDelta(t, 1.0, White.Luminance(), 1e-12)
}
