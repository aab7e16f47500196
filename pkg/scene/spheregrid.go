package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// oklchToRGB converts OKLCH color values to an 8-bit color
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Color {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewColor(unitToByte(r), unitToByte(g), unitToByte(blue))
}

func unitToByte(v float64) uint8 {
	return uint8(255 * math.Max(0, math.Min(1, v)))
}

// NewSphereGridScene creates a scene with an 8x8 grid of colored, slightly
// reflective spheres resting on a floor
func NewSphereGridScene() (*Scene, error) {
	const (
		width    = 800
		height   = 450
		floorY   = 440.0
		gridSize = 8
	)

	b := newBuilder("sphere-grid", width, height)

	b.wall(core.NewVec3(0, floorY, 0), core.NewVec3(0, floorY-1, 0),
		geometry.Material{Color: core.NewColor(128, 128, 128), Reflectance: 0.1})

	// Grid spans x in [100, 700] and z in [150, 1350]
	spacingX := 600.0 / float64(gridSize-1)
	spacingZ := 1200.0 / float64(gridSize-1)
	radius := spacingX * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			center := core.NewVec3(100+float64(i)*spacingX, floorY-radius, 150+float64(j)*spacingZ)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			reflectance := 0.2 + 0.1*float64((i+j)%3)
			b.sphere(center, radius, geometry.Material{
				Color:       oklchToRGB(lightness, chroma, hue),
				Reflectance: reflectance,
			})
		}
	}

	b.scene.SetLight(core.NewVec3(650, -200, -300))
	b.scene.SetBackground(core.NewColor(128, 178, 255))
	b.scene.SetShadowGrid(3)

	return b.build()
}
