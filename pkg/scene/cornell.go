package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewCornellScene creates a Cornell-style box: five walls (red left, green
// right, white floor, ceiling and back) and a slightly reflective sphere,
// lit from the upper right front.
func NewCornellScene() (*Scene, error) {
	const size = 480.0

	b := newBuilder("cornell", int(size), int(size))

	white := geometry.Material{Color: core.NewColor(235, 235, 235)}
	green := geometry.Material{Color: core.NewColor(80, 250, 80)}
	red := geometry.Material{Color: core.NewColor(250, 80, 80)}

	// Floor and ceiling; y grows downwards on screen
	b.wall(core.NewVec3(0, size, 0), core.NewVec3(0, size-1, 0), white)
	b.wall(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), white)

	// Back wall
	b.wall(core.NewVec3(0, 0, 900), core.NewVec3(0, 0, 901), white)

	// Right (green) and left (red) walls
	b.wall(core.NewVec3(size, 0, 0), core.NewVec3(size-1, 0, 0), green)
	b.wall(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), red)

	mirror := white
	mirror.Reflectance = 0.2
	b.sphere(core.NewVec3(size/2-80, size/2+80, 400), 100, mirror)

	b.scene.SetLight(core.NewVec3(420, 70, -400))
	b.scene.SetBackground(core.NewColor(213, 210, 210))

	return b.build()
}

// builder collects the first construction error so scene recipes read linearly
type builder struct {
	scene *Scene
	err   error
}

func newBuilder(name string, width, height int) *builder {
	s := New(width, height)
	s.Name = name
	return &builder{scene: s}
}

func (b *builder) sphere(center core.Vec3, radius float64, m geometry.Material) {
	if b.err == nil {
		_, b.err = b.scene.AddSphere(center, radius, m)
	}
}

func (b *builder) wall(position, normalPoint core.Vec3, m geometry.Material) {
	if b.err == nil {
		_, b.err = b.scene.AddWall(position, normalPoint, m)
	}
}

func (b *builder) triangle(v0, v1, v2 core.Vec3, m geometry.Material) {
	if b.err == nil {
		_, b.err = b.scene.AddTriangle(v0, v1, v2, m)
	}
}

func (b *builder) build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.scene, nil
}
