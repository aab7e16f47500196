package integrator

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Observer is told about every ray cast, with the remaining depth
type Observer func(kind RayKind, depth int)

// Whitted implements recursive Whitted-style ray tracing: direct Phong
// lighting with soft shadows plus mirror reflection and Fresnel-weighted
// refraction, bounded by the configured depth.
type Whitted struct {
	scene    *scene.Scene
	config   scene.RenderConfig
	observer Observer
	logger   zerolog.Logger
}

// Option configures a Whitted integrator
type Option func(*Whitted)

// WithObserver registers a callback invoked for each cast ray
func WithObserver(fn Observer) Option {
	return func(w *Whitted) { w.observer = fn }
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Whitted) { w.logger = logger }
}

// NewWhitted creates an integrator for s. The render configuration is
// copied, so later setter calls on s do not affect it.
func NewWhitted(s *scene.Scene, opts ...Option) *Whitted {
	w := &Whitted{
		scene:  s,
		config: s.Config,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger.Debug().
		Int("max_depth", w.config.MaxDepth).
		Int("shadow_grid", w.config.ShadowGridSize).
		Str("fresnel", string(w.config.Fresnel)).
		Int("shapes", s.ShapeCount()).
		Msg("Whitted integrator ready")
	return w
}

// RayColor traces a primary ray with the full depth budget
func (w *Whitted) RayColor(from, target core.Vec3, sampler core.Sampler) core.Color {
	return w.CastRay(from, target, w.config.MaxDepth, Primary, geometry.NoID, sampler)
}

// CastRay traces the ray from `from` through `to`. exclude is the id of the
// surface that spawned a bounce; a bounce whose nearest hit is that surface
// contributes nothing.
func (w *Whitted) CastRay(from, to core.Vec3, depth int, kind RayKind, exclude geometry.ID, sampler core.Sampler) core.Color {
	if w.observer != nil {
		w.observer(kind, depth)
	}

	hit, ok := w.scene.Intersect(from, to)
	if !ok {
		if kind == Primary {
			return w.config.Background
		}
		return core.Black
	}

	if kind.Bounce() && hit.Shape.Base().ID() == exclude {
		return core.Black
	}

	return w.Shade(hit, to.Subtract(from), depth, sampler)
}

// Shade computes the color leaving hit towards the ray origin. dir is the
// incoming ray direction.
func (w *Whitted) Shade(hit geometry.Hit, dir core.Vec3, depth int, sampler core.Sampler) core.Color {
	cfg := w.config
	form := hit.Shape.Base()
	p := hit.Point

	n := geometry.NormalAt(hit.Shape, p)
	inside := false
	if n.Dot(dir) > 0 {
		n = n.Negate()
		inside = true
	}

	// Direct illumination
	unitLight := cfg.Light.Subtract(p).Normalize()
	diffuse := form.Color.Scale(0.5 * cfg.Diffuse * n.Dot(unitLight))
	ambient := form.Color.Scale(cfg.Ambient)

	unitSight := p.Subtract(cfg.Camera).Normalize()
	half := unitLight.Add(unitSight).Normalize()
	specularAmount := math.Pow(math.Max(0, n.Dot(half)), cfg.SpecularExponent)
	specular := form.Color.Scale(specularAmount * cfg.Specular)

	lit := diffuse.Add(ambient).Add(specular)

	if depth > 0 {
		unitDir := dir.Normalize()
		cosine := -unitDir.Dot(n)

		// Reflected fraction; without transmission the mirror takes everything
		kr := 1.0
		if form.Transmittance > 0 {
			kr = Fresnel(cfg.Fresnel, cosine, form.IOR(), inside)
		}

		if form.Reflectance > 0 && !inside {
			origin := p.Add(n.Multiply(cfg.Epsilon))
			reflected := unitDir.Reflect(n)
			color := w.CastRay(origin, origin.Add(reflected), depth-1, Reflection, form.ID(), sampler)
			lit = lit.Add(color.Scale(form.Reflectance * kr))
		}

		if form.Transmittance > 0 && kr < 1 {
			eta := 1 / form.IOR()
			if inside {
				eta = form.IOR()
			}
			if refracted, ok := refractVector(unitDir, n, eta); ok {
				origin := p.Subtract(n.Multiply(cfg.Epsilon))
				color := w.CastRay(origin, origin.Add(refracted), depth-1, Refraction, form.ID(), sampler)
				lit = lit.Add(color.Scale(form.Transmittance * (1 - kr)))
			}
		}
	}

	shadow := w.ShadowFraction(p, form.ID(), depth, sampler)
	if shadow == 0 {
		return lit
	}
	return lit.Scale(1 - shadow).Add(ambient.Scale(shadow))
}
