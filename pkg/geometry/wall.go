package geometry

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Wall represents an infinite plane through Position. Its orientation is
// given by a second point, NormalPoint; the unit normal points from
// Position towards NormalPoint.
type Wall struct {
	Form
	NormalPoint core.Vec3
	normal      core.Vec3 // Cached unit normal
}

// NewWall creates a new wall. The two points must differ.
func NewWall(position, normalPoint core.Vec3, material Material) (*Wall, error) {
	if err := checkFinite("wall", position, normalPoint); err != nil {
		return nil, err
	}
	direction := normalPoint.Subtract(position)
	if direction.IsZero() {
		return nil, errorsmod.Wrapf(core.ErrDegenerateGeometry, "wall normal point equals position %v", position)
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}
	return &Wall{
		Form:        Form{Material: material, Position: position},
		NormalPoint: normalPoint,
		normal:      direction.Normalize(),
	}, nil
}

func (w *Wall) Kind() Kind { return KindWall }
func (w *Wall) sealed()    {}

// Normal returns the wall's unit normal
func (w *Wall) Normal() core.Vec3 { return w.normal }

// Intersect tests if a ray intersects with the plane
func (w *Wall) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	denominator := w.normal.Dot(ray.Direction)

	// Ray is parallel to the plane; tMin doubles as the tolerance
	if math.Abs(denominator) <= tMin {
		return Hit{}, false
	}

	t := w.Position.Subtract(ray.Origin).Dot(w.normal) / denominator
	if t <= tMin || t >= tMax {
		return Hit{}, false
	}

	return Hit{T: t, Point: ray.At(t), Shape: w}, true
}
