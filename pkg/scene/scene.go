package scene

import (
	"math"

	errorsmod "cosmossdk.io/errors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering. Shapes are kept
// per kind in insertion order and are not modified after insertion.
type Scene struct {
	Name      string
	Config    RenderConfig
	Spheres   []*geometry.Sphere
	Walls     []*geometry.Wall
	Triangles []*geometry.Triangle
	nextID    geometry.ID
}

// New creates an empty scene with the default render configuration
func New(width, height int) *Scene {
	return &Scene{Config: DefaultRenderConfig(width, height)}
}

// AddSphere creates a sphere, assigns it the next id and stores it
func (s *Scene) AddSphere(center core.Vec3, radius float64, material geometry.Material) (*geometry.Sphere, error) {
	sphere, err := geometry.NewSphere(center, radius, material)
	if err != nil {
		return nil, err
	}
	s.insert(sphere)
	return sphere, nil
}

// AddWall creates a wall through position facing normalPoint
func (s *Scene) AddWall(position, normalPoint core.Vec3, material geometry.Material) (*geometry.Wall, error) {
	wall, err := geometry.NewWall(position, normalPoint, material)
	if err != nil {
		return nil, err
	}
	s.insert(wall)
	return wall, nil
}

// AddTriangle creates a triangle from three vertices in any order
func (s *Scene) AddTriangle(v0, v1, v2 core.Vec3, material geometry.Material) (*geometry.Triangle, error) {
	triangle, err := geometry.NewTriangle(v0, v1, v2, material)
	if err != nil {
		return nil, err
	}
	s.insert(triangle)
	return triangle, nil
}

// Add stores an already constructed shape. A shape can belong to one scene only.
func (s *Scene) Add(shape geometry.Shape) error {
	if shape == nil {
		return errorsmod.Wrap(core.ErrDegenerateGeometry, "nil shape")
	}
	for _, existing := range s.Shapes() {
		if existing == shape {
			return errorsmod.Wrapf(core.ErrDegenerateGeometry, "%s %d already in scene", shape.Kind(), shape.Base().ID())
		}
	}
	s.insert(shape)
	return nil
}

func (s *Scene) insert(shape geometry.Shape) {
	shape.Base().SetID(s.nextID)
	s.nextID++

	switch obj := shape.(type) {
	case *geometry.Sphere:
		s.Spheres = append(s.Spheres, obj)
	case *geometry.Wall:
		s.Walls = append(s.Walls, obj)
	case *geometry.Triangle:
		s.Triangles = append(s.Triangles, obj)
	}
}

// Shapes returns every shape in intersection scan order: spheres, walls, triangles
func (s *Scene) Shapes() []geometry.Shape {
	shapes := make([]geometry.Shape, 0, s.ShapeCount())
	for _, sphere := range s.Spheres {
		shapes = append(shapes, sphere)
	}
	for _, wall := range s.Walls {
		shapes = append(shapes, wall)
	}
	for _, triangle := range s.Triangles {
		shapes = append(shapes, triangle)
	}
	return shapes
}

// ShapeCount returns the total number of shapes in the scene
func (s *Scene) ShapeCount() int {
	return len(s.Spheres) + len(s.Walls) + len(s.Triangles)
}

// Intersect finds the nearest shape along the infinite ray from origin
// through target. Ties keep the shape scanned first.
func (s *Scene) Intersect(origin, target core.Vec3) (geometry.Hit, bool) {
	return s.IntersectRay(core.NewRayThrough(origin, target))
}

// IntersectRay finds the nearest shape along ray with t > Epsilon
func (s *Scene) IntersectRay(ray core.Ray) (geometry.Hit, bool) {
	tMin := s.Config.Epsilon
	closest := geometry.Hit{T: math.Inf(1)}
	found := false

	// Linear scan; strict comparison through tMax keeps earlier hits on ties
	for _, sphere := range s.Spheres {
		if hit, ok := sphere.Intersect(ray, tMin, closest.T); ok {
			closest, found = hit, true
		}
	}
	for _, wall := range s.Walls {
		if hit, ok := wall.Intersect(ray, tMin, closest.T); ok {
			closest, found = hit, true
		}
	}
	for _, triangle := range s.Triangles {
		if hit, ok := triangle.Intersect(ray, tMin, closest.T); ok {
			closest, found = hit, true
		}
	}

	return closest, found
}

