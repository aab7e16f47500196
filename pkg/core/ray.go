package core

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayThrough creates a ray starting at from and passing through to.
// The direction is not normalized, so At(1) == to.
func NewRayThrough(from, to Vec3) Ray {
	return Ray{Origin: from, Direction: to.Subtract(from)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
