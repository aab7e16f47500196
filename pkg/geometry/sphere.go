package geometry

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Form
	Radius float64
}

// NewSphere creates a new sphere. The radius must be positive.
func NewSphere(center core.Vec3, radius float64, material Material) (*Sphere, error) {
	if err := checkFinite("sphere center", center); err != nil {
		return nil, err
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errorsmod.Wrapf(core.ErrDegenerateGeometry, "sphere radius %v", radius)
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return &Sphere{
		Form:   Form{Material: material, Position: center},
		Radius: radius,
	}, nil
}

func (s *Sphere) Kind() Kind { return KindSphere }
func (s *Sphere) sealed()    {}

// Intersect tests the ray against the near side of the sphere.
// Only the smaller root is considered, so a ray starting inside the
// sphere never reports the far wall.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Position)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant <= 0 {
		return Hit{}, false
	}

	t := (-b - math.Sqrt(discriminant)) / (2 * a)
	if t <= tMin || t >= tMax {
		return Hit{}, false
	}

	return Hit{T: t, Point: ray.At(t), Shape: s}, true
}
