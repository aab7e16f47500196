package geometry

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ID identifies a shape within a scene. IDs are assigned on insertion.
type ID uint32

// NoID never matches a shape; use it when no shape should be excluded
const NoID ID = math.MaxUint32

// Kind enumerates the closed set of shape variants
type Kind int

const (
	KindSphere Kind = iota
	KindWall
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindWall:
		return "wall"
	case KindTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Material holds the optical properties shared by every shape
type Material struct {
	Color           core.Color // Base albedo
	Reflectance     float64    // Mirror contribution in [0,1]
	RefractiveIndex float64    // >= 1; zero selects core.DefaultRefractiveIndex
	Transmittance   float64    // Transmitted contribution in [0,1]
}

// IOR returns the effective refractive index
func (m Material) IOR() float64 {
	if m.RefractiveIndex == 0 {
		return core.DefaultRefractiveIndex
	}
	return m.RefractiveIndex
}

// Validate checks that the material coefficients are in range
func (m Material) Validate() error {
	if !(m.Reflectance >= 0 && m.Reflectance <= 1) {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "reflectance %v outside [0,1]", m.Reflectance)
	}
	if !(m.Transmittance >= 0 && m.Transmittance <= 1) {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "transmittance %v outside [0,1]", m.Transmittance)
	}
	if m.RefractiveIndex != 0 && !(m.RefractiveIndex >= 1) {
		return errorsmod.Wrapf(core.ErrInvalidMaterial, "refractive index %v below 1", m.RefractiveIndex)
	}
	return nil
}

// Form is the state common to every shape: identity, material and anchor point
type Form struct {
	Material
	Position core.Vec3 // Sphere center, a point on a wall, or triangle centroid
	id       ID
}

// ID returns the identity assigned by the scene
func (f *Form) ID() ID { return f.id }

// SetID is called by the scene when the shape is inserted
func (f *Form) SetID(id ID) { f.id = id }

// Base gives access to the shared form of any shape
func (f *Form) Base() *Form { return f }

// Shape is implemented by *Sphere, *Wall and *Triangle only
type Shape interface {
	Base() *Form
	Kind() Kind
	// Intersect returns the hit with the smallest t in (tMin, tMax)
	Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool)
	sealed()
}

// Hit describes a ray-shape intersection
type Hit struct {
	T     float64   // Parameter along the ray
	Point core.Vec3 // Intersection point
	Shape Shape     // Shape that was hit
	U, V  float64   // Barycentric coordinates (triangles only)
}

// NormalAt returns the outward unit normal of s at point p
func NormalAt(s Shape, p core.Vec3) core.Vec3 {
	switch shape := s.(type) {
	case *Sphere:
		return p.Subtract(shape.Position).Divide(shape.Radius)
	case *Wall:
		return shape.normal
	case *Triangle:
		return shape.normal
	default:
		panic("geometry: unknown shape variant")
	}
}

func checkFinite(what string, points ...core.Vec3) error {
	for _, p := range points {
		if !p.IsFinite() {
			return errorsmod.Wrapf(core.ErrDegenerateGeometry, "%s has non-finite coordinate %v", what, p)
		}
	}
	return nil
}
