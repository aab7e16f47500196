package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewDefaultScene creates a default scene with three spheres on a ground plane
func NewDefaultScene() (*Scene, error) {
	b := newBuilder("default", 640, 360)

	ground := geometry.Material{Color: core.NewColor(160, 160, 40)}
	red := geometry.Material{Color: core.NewColor(166, 64, 51), Reflectance: 0.1}
	silver := geometry.Material{Color: core.NewColor(204, 204, 204), Reflectance: 0.8}
	glass := geometry.Material{
		Color:           core.NewColor(250, 250, 250),
		RefractiveIndex: 1.5,
		Transmittance:   0.95,
	}

	b.wall(core.NewVec3(0, 330, 0), core.NewVec3(0, 329, 0), ground)

	// Left to right: mirror, matte, glass
	b.sphere(core.NewVec3(160, 250, 400), 80, silver)
	b.sphere(core.NewVec3(320, 250, 400), 80, red)
	b.sphere(core.NewVec3(480, 280, 250), 50, glass)

	b.scene.SetLight(core.NewVec3(100, -100, -400))
	b.scene.SetBackground(core.NewColor(128, 178, 255))

	return b.build()
}
