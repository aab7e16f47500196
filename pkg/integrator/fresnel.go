package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// refractVector calculates the refraction of unit vector uv through a surface
// with unit normal n facing uv, using Snell's law. It reports false on total
// internal reflection.
func refractVector(uv, n core.Vec3, etaiOverEtat float64) (core.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	k := 1 - etaiOverEtat*etaiOverEtat*(1-cosTheta*cosTheta)
	if k < 0 {
		return core.Vec3{}, false
	}
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(k))
	return rOutPerp.Add(rOutParallel), true
}

// Fresnel returns the fraction of light reflected at a dielectric boundary.
// cosine is the cosine of the incident angle, ior the surface refractive
// index and inside whether the ray travels out of the surface.
func Fresnel(model scene.FresnelModel, cosine, ior float64, inside bool) float64 {
	etai, etat := 1.0, ior
	if inside {
		etai, etat = ior, 1.0
	}

	cosi := math.Max(0, math.Min(1, cosine))
	sint := etai / etat * math.Sqrt(math.Max(0, 1-cosi*cosi))
	if sint >= 1 {
		// Total internal reflection
		return 1
	}
	cost := math.Sqrt(math.Max(0, 1-sint*sint))

	if model == scene.FresnelSchlick {
		// Schlick uses the angle on the optically thinner side
		if inside {
			return Reflectance(cost, etai/etat)
		}
		return Reflectance(cosi, etai/etat)
	}

	rs := (etat*cosi - etai*cost) / (etat*cosi + etai*cost)
	rp := (etai*cosi - etat*cost) / (etai*cosi + etat*cost)
	return (rs*rs + rp*rp) / 2
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
