package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along the primary ray from the
	// camera through target
	RayColor(from, target core.Vec3, sampler core.Sampler) core.Color
}

// RayKind tells a traced ray's role in the ray tree
type RayKind int

const (
	Primary RayKind = iota
	Reflection
	Refraction
	Shadow
)

func (k RayKind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Reflection:
		return "reflection"
	case Refraction:
		return "refraction"
	case Shadow:
		return "shadow"
	default:
		return "unknown"
	}
}

// Bounce reports whether the ray was spawned by a reflection or refraction
func (k RayKind) Bounce() bool {
	return k == Reflection || k == Refraction
}
