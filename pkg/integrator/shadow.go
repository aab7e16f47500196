package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ShadowFraction estimates how much of the light is hidden from p, in [0,1].
// The light is treated as an N×N grid of samples in its X/Y plane spaced
// ShadowUnitSize apart. Occluders other than the surface self block a sample
// in proportion to their opacity.
func (w *Whitted) ShadowFraction(p core.Vec3, self geometry.ID, depth int, sampler core.Sampler) float64 {
	cfg := w.config
	n := cfg.ShadowGridSize
	if n <= 0 {
		return 0
	}

	center := float64(n-1) / 2
	blocked := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i) - center) * cfg.ShadowUnitSize
			dy := (float64(j) - center) * cfg.ShadowUnitSize
			if cfg.ShadowJitter {
				jitter := sampler.Get2D()
				dx += (jitter.X - 0.5) * cfg.ShadowUnitSize
				dy += (jitter.Y - 0.5) * cfg.ShadowUnitSize
			}
			sample := cfg.Light.Add(core.NewVec3(dx, dy, 0))

			if w.observer != nil {
				w.observer(Shadow, depth)
			}

			// t is measured along p→sample, so t < 1 lies before the light
			hit, ok := w.scene.Intersect(p, sample)
			if !ok || hit.T >= 1 {
				continue
			}
			occluder := hit.Shape.Base()
			if occluder.ID() == self {
				continue
			}
			blocked += 1 - occluder.Transmittance
		}
	}

	return blocked / float64(n*n)
}
