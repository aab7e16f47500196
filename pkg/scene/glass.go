package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// NewGlassScene creates a scene with a glass sphere, a mirror sphere and a
// triangle pyramid on a plain floor, to show refraction, reflection
// and soft shadows together.
func NewGlassScene() (*Scene, error) {
	b := newBuilder("glass", 640, 480)

	floor := geometry.Material{Color: core.NewColor(200, 190, 170)}
	back := geometry.Material{Color: core.NewColor(90, 120, 200)}
	glass := geometry.Material{
		Color:           core.NewColor(240, 240, 250),
		Reflectance:     0.1,
		RefractiveIndex: 1.5,
		Transmittance:   0.9,
	}
	mirror := geometry.Material{Color: core.NewColor(220, 220, 220), Reflectance: 0.6}
	amber := geometry.Material{Color: core.NewColor(240, 170, 40), Reflectance: 0.05}

	b.wall(core.NewVec3(0, 400, 0), core.NewVec3(0, 399, 0), floor)
	b.wall(core.NewVec3(0, 0, 1200), core.NewVec3(0, 0, 1199), back)

	b.sphere(core.NewVec3(220, 300, 300), 100, glass)
	b.sphere(core.NewVec3(470, 320, 560), 80, mirror)

	// Pyramid standing on the floor behind the glass sphere
	apex := core.NewVec3(330, 230, 700)
	base := [3]core.Vec3{
		core.NewVec3(250, 400, 660),
		core.NewVec3(410, 400, 660),
		core.NewVec3(330, 400, 800),
	}
	b.triangle(base[0], base[1], apex, amber)
	b.triangle(base[1], base[2], apex, amber)
	b.triangle(base[2], base[0], apex, amber)

	b.scene.SetLight(core.NewVec3(500, 40, -300))
	b.scene.SetBackground(core.NewColor(20, 20, 30))
	b.scene.SetMaxDepth(5)

	return b.build()
}
