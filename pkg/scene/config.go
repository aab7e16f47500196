package scene

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FresnelModel selects how the reflected fraction at a dielectric is computed
type FresnelModel string

const (
	FresnelExact   FresnelModel = "exact"   // Full dielectric Fresnel equations
	FresnelSchlick FresnelModel = "schlick" // Schlick's approximation
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width            int        // Image width in pixels
	Height           int        // Image height in pixels
	Camera           core.Vec3  // Eye position; the image plane is z = 0
	Light            core.Vec3  // Point light position
	Background       core.Color // Color of primary rays that miss
	Diffuse          float64    // Kd
	Ambient          float64    // Ka
	Specular         float64    // Ks
	SpecularExponent float64    // Phong exponent
	MaxDepth         int        // Reflection/refraction recursion budget
	ShadowGridSize   int        // N for the N×N soft shadow grid
	ShadowUnitSize   float64    // Spacing between shadow samples
	ShadowJitter     bool       // Jitter shadow samples within their cell
	PixelSamples     int        // Primary rays per pixel
	PixelJitter      bool       // Jitter primary rays within their stratum
	Epsilon          float64    // Intersection tolerance and ray offset
	Fresnel          FresnelModel
	Seed             int64 // Base seed for per-tile samplers
}

// DefaultRenderConfig returns the default configuration for a width×height image
func DefaultRenderConfig(width, height int) RenderConfig {
	return RenderConfig{
		Width:            width,
		Height:           height,
		Camera:           core.NewVec3(float64(width)/2, float64(height)/2, -1000),
		Light:            core.NewVec3(0, 0, -500),
		Background:       core.Black,
		Diffuse:          0.7,
		Ambient:          0.2,
		Specular:         0.5,
		SpecularExponent: 30,
		MaxDepth:         3,
		ShadowGridSize:   4,
		ShadowUnitSize:   8,
		PixelSamples:     1,
		Epsilon:          core.Epsilon,
		Fresnel:          FresnelExact,
	}
}

// Validate checks the configuration before a render
func (c RenderConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "image size %dx%d", c.Width, c.Height)
	case c.MaxDepth < 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "max depth %d", c.MaxDepth)
	case c.ShadowGridSize <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "shadow grid size %d", c.ShadowGridSize)
	case c.PixelSamples <= 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "pixel samples %d", c.PixelSamples)
	case !(c.Epsilon > 0):
		return errorsmod.Wrapf(core.ErrInvalidConfig, "epsilon %v", c.Epsilon)
	case c.ShadowUnitSize < 0 || c.SpecularExponent < 0:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "shadow unit %v, specular exponent %v", c.ShadowUnitSize, c.SpecularExponent)
	case c.Fresnel != FresnelExact && c.Fresnel != FresnelSchlick:
		return errorsmod.Wrapf(core.ErrInvalidConfig, "fresnel model %q", c.Fresnel)
	case !c.Camera.IsFinite() || !c.Light.IsFinite():
		return errorsmod.Wrapf(core.ErrInvalidConfig, "camera %v, light %v", c.Camera, c.Light)
	}
	return nil
}

// The setters below overwrite render settings and may be called any number
// of times before rendering.

func (s *Scene) SetCamera(position core.Vec3)   { s.Config.Camera = position }
func (s *Scene) SetLight(position core.Vec3)    { s.Config.Light = position }
func (s *Scene) SetBackground(color core.Color) { s.Config.Background = color }
func (s *Scene) SetDiffuse(kd float64)          { s.Config.Diffuse = kd }
func (s *Scene) SetAmbient(ka float64)          { s.Config.Ambient = ka }
func (s *Scene) SetSpecular(ks float64)         { s.Config.Specular = ks }
func (s *Scene) SetSpecularExponent(e float64)  { s.Config.SpecularExponent = e }
func (s *Scene) SetMaxDepth(depth int)          { s.Config.MaxDepth = depth }
func (s *Scene) SetShadowGrid(n int)            { s.Config.ShadowGridSize = n }
func (s *Scene) SetShadowUnit(size float64)     { s.Config.ShadowUnitSize = size }
func (s *Scene) SetPixelSamples(n int)          { s.Config.PixelSamples = n }

// SetSize changes the image size. A camera still centred on the old image
// follows the new centre; a camera placed elsewhere stays where it is.
func (s *Scene) SetSize(width, height int) {
	centred := s.Config.Camera.X == float64(s.Config.Width)/2 &&
		s.Config.Camera.Y == float64(s.Config.Height)/2

	s.Config.Width = width
	s.Config.Height = height
	if centred {
		s.Config.Camera.X = float64(width) / 2
		s.Config.Camera.Y = float64(height) / 2
	}
}
