package geometry

import (
	"math"
	"sort"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle represents a single triangle. Vertices are stored counter-clockwise
// around the centroid, and Position holds the centroid.
type Triangle struct {
	Form
	Vertices [3]core.Vec3
	edges    [2]core.Vec3 // v1-v0, v2-v0 for Möller–Trumbore
	normal   core.Vec3    // Cached unit normal
}

// NewTriangle creates a new triangle from three vertices given in any order
func NewTriangle(v0, v1, v2 core.Vec3, material Material) (*Triangle, error) {
	if err := checkFinite("triangle", v0, v1, v2); err != nil {
		return nil, err
	}
	if v1.Subtract(v0).Cross(v2.Subtract(v0)).Length() < 1e-12 {
		return nil, errorsmod.Wrapf(core.ErrDegenerateGeometry, "triangle vertices %v %v %v are collinear", v0, v1, v2)
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}

	centroid := v0.Add(v1).Add(v2).Divide(3)
	t := &Triangle{
		Form:     Form{Material: material, Position: centroid},
		Vertices: orderCounterClockwise(centroid, [3]core.Vec3{v0, v1, v2}),
	}

	// Precompute edges and normal for efficiency
	t.edges = [2]core.Vec3{
		t.Vertices[1].Subtract(t.Vertices[0]),
		t.Vertices[2].Subtract(t.Vertices[0]),
	}
	t.normal = t.edges[0].Cross(t.edges[1]).Normalize()

	return t, nil
}

func (t *Triangle) Kind() Kind { return KindTriangle }
func (t *Triangle) sealed()    {}

// Normal returns the triangle's unit normal
func (t *Triangle) Normal() core.Vec3 { return t.normal }

// Edges returns the cached edge vectors v1-v0 and v2-v0
func (t *Triangle) Edges() [2]core.Vec3 { return t.edges }

// Intersect tests if a ray intersects with the triangle using the Möller–Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (Hit, bool) {
	edge1, edge2 := t.edges[0], t.edges[1]

	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if math.Abs(det) < tMin {
		return Hit{}, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(t.Vertices[0])
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Hit{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam <= tMin || tParam >= tMax {
		return Hit{}, false
	}

	return Hit{T: tParam, Point: ray.At(tParam), Shape: t, U: u, V: v}, true
}

// orderCounterClockwise sorts the vertices by angle around the centroid,
// measured in the plane spanned by the two axes the triangle faces least.
func orderCounterClockwise(centroid core.Vec3, vertices [3]core.Vec3) [3]core.Vec3 {
	n := vertices[1].Subtract(vertices[0]).Cross(vertices[2].Subtract(vertices[0]))
	project := projectionFor(n)

	sort.SliceStable(vertices[:], func(i, j int) bool {
		ai, bi := project(vertices[i].Subtract(centroid))
		aj, bj := project(vertices[j].Subtract(centroid))
		return pseudoAngle(ai, bi) < pseudoAngle(aj, bj)
	})
	return vertices
}

// projectionFor drops the dominant axis of n, keeping a right-handed pair
// so that counter-clockwise order yields a normal along +dominant axis.
func projectionFor(n core.Vec3) func(core.Vec3) (float64, float64) {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case az >= ax && az >= ay:
		return func(p core.Vec3) (float64, float64) { return p.X, p.Y }
	case ax >= ay:
		return func(p core.Vec3) (float64, float64) { return p.Y, p.Z }
	default:
		return func(p core.Vec3) (float64, float64) { return p.Z, p.X }
	}
}

// pseudoAngle maps a direction to [0,4) increasing counter-clockwise from
// the +a axis. The integer part is the quadrant, the fraction orders
// directions within it.
func pseudoAngle(a, b float64) float64 {
	switch {
	case a > 0 && b >= 0:
		return b / (a + b)
	case a <= 0 && b > 0:
		return 1 + -a/(-a+b)
	case a < 0 && b <= 0:
		return 2 + -b/(-a-b)
	default:
		return 3 + a/(a-b)
	}
}
