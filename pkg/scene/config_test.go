package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestDefaultRenderConfig(t *testing.T) {
	c := DefaultRenderConfig(640, 480)

	assert.Equal(t, core.NewVec3(320, 240, -1000), c.Camera)
	assert.Equal(t, core.NewVec3(0, 0, -500), c.Light)
	assert.Equal(t, core.Black, c.Background)
	assert.Equal(t, 0.7, c.Diffuse)
	assert.Equal(t, 0.2, c.Ambient)
	assert.Equal(t, 0.5, c.Specular)
	assert.Equal(t, 30.0, c.SpecularExponent)
	assert.Equal(t, 3, c.MaxDepth)
	assert.Equal(t, 1e-4, c.Epsilon)
	assert.NoError(t, c.Validate())
}

func TestRenderConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RenderConfig)
	}{
		{"zero width", func(c *RenderConfig) { c.Width = 0 }},
		{"negative height", func(c *RenderConfig) { c.Height = -1 }},
		{"negative depth", func(c *RenderConfig) { c.MaxDepth = -1 }},
		{"empty shadow grid", func(c *RenderConfig) { c.ShadowGridSize = 0 }},
		{"no pixel samples", func(c *RenderConfig) { c.PixelSamples = 0 }},
		{"zero epsilon", func(c *RenderConfig) { c.Epsilon = 0 }},
		{"unknown fresnel", func(c *RenderConfig) { c.Fresnel = "fast" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultRenderConfig(10, 10)
			tt.modify(&c)
			err := c.Validate()
			assert.True(t, errors.Is(err, core.ErrInvalidConfig), "got %v", err)
		})
	}

	// Depth zero is valid: no recursion
	c := DefaultRenderConfig(10, 10)
	c.MaxDepth = 0
	assert.NoError(t, c.Validate())
}

func TestScene_Setters(t *testing.T) {
	s := New(200, 100)

	s.SetCamera(core.NewVec3(1, 2, 3))
	s.SetLight(core.NewVec3(4, 5, 6))
	s.SetBackground(core.NewColor(1, 2, 3))
	s.SetDiffuse(0.1)
	s.SetAmbient(0.3)
	s.SetSpecular(0.9)
	s.SetSpecularExponent(12)
	s.SetMaxDepth(7)
	s.SetShadowGrid(2)
	s.SetShadowUnit(3)
	s.SetPixelSamples(9)

	// Setters overwrite; the last call wins
	s.SetDiffuse(0.4)

	c := s.Config
	assert.Equal(t, core.NewVec3(1, 2, 3), c.Camera)
	assert.Equal(t, core.NewVec3(4, 5, 6), c.Light)
	assert.Equal(t, core.NewColor(1, 2, 3), c.Background)
	assert.Equal(t, 0.4, c.Diffuse)
	assert.Equal(t, 0.3, c.Ambient)
	assert.Equal(t, 0.9, c.Specular)
	assert.Equal(t, 12.0, c.SpecularExponent)
	assert.Equal(t, 7, c.MaxDepth)
	assert.Equal(t, 2, c.ShadowGridSize)
	assert.Equal(t, 3.0, c.ShadowUnitSize)
	assert.Equal(t, 9, c.PixelSamples)

	s.SetSize(400, 300)
	assert.Equal(t, core.NewVec3(1, 2, 3), s.Config.Camera, "a placed camera survives a resize")
}

func TestScene_SetSizeRecentresDefaultCamera(t *testing.T) {
	s := New(100, 80)
	s.SetSize(400, 300)
	assert.Equal(t, 400, s.Config.Width)
	assert.Equal(t, 300, s.Config.Height)
	assert.Equal(t, core.NewVec3(200, 150, -1000), s.Config.Camera)

	// Only the x/y centre matters; a moved-back camera still follows
	s.SetCamera(core.NewVec3(200, 150, -3000))
	s.SetSize(50, 60)
	assert.Equal(t, core.NewVec3(25, 30, -3000), s.Config.Camera)
}
