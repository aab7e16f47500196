package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera generates primary ray targets on the image plane z = 0. Pixel
// (x, y) covers the unit square centred on (x, y).
type Camera struct {
	Position core.Vec3
	samples  int
	jitter   bool
}

// NewCamera creates a camera from the render configuration
func NewCamera(config scene.RenderConfig) *Camera {
	return &Camera{
		Position: config.Camera,
		samples:  max(1, config.PixelSamples),
		jitter:   config.PixelJitter,
	}
}

// Samples returns the number of primary rays per pixel
func (c *Camera) Samples() int { return c.samples }

// Target returns the image plane point for sample k of pixel (x, y).
// Without jitter each sample sits at the centre of its stratum.
func (c *Camera) Target(x, y, k int, sampler core.Sampler) core.Vec3 {
	jitter := core.NewVec2(0.5, 0.5)
	if c.jitter {
		jitter = sampler.Get2D()
	}
	offset := core.StratifiedOffset(k, c.samples, jitter)
	return core.NewVec3(float64(x)+offset.X, float64(y)+offset.Y, 0)
}
