package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var centered = core.ConstantSampler(0.5)

func TestWhitted_EmptyScene(t *testing.T) {
	s := scene.New(64, 48)
	s.SetBackground(core.NewColor(10, 20, 30))
	w := NewWhitted(s)

	camera := s.Config.Camera
	target := core.NewVec3(5, 5, 0)

	assert.Equal(t, core.NewColor(10, 20, 30), w.RayColor(camera, target, centered))
	assert.Equal(t, core.Black, w.CastRay(camera, target, 2, Reflection, geometry.NoID, centered))
	assert.Equal(t, core.Black, w.CastRay(camera, target, 2, Refraction, geometry.NoID, centered))
}

func TestWhitted_CenterPixelHitsOnAxisSphere(t *testing.T) {
	const size = 101
	s := scene.New(size, size)
	s.SetBackground(core.NewColor(1, 2, 3))

	// Sphere on the camera axis; its silhouette on the image plane has a
	// radius of r·D/sqrt(D²-r²) ≈ 66.8 px for D = 1500, r = 100
	_, err := s.AddSphere(core.NewVec3(50.5, 50.5, 500), 100, geometry.Material{Color: core.NewColor(200, 50, 50)})
	require.NoError(t, err)
	w := NewWhitted(s)
	camera := s.Config.Camera

	_, hit := s.Intersect(camera, core.NewVec3(50, 50, 0))
	assert.True(t, hit, "centre pixel must hit")
	assert.NotEqual(t, s.Config.Background, w.RayColor(camera, core.NewVec3(50, 50, 0), centered))

	// Pixels one step inside and outside the silhouette on the x axis
	_, hit = s.Intersect(camera, core.NewVec3(50.5+65.8, 50.5, 0))
	assert.True(t, hit)
	_, hit = s.Intersect(camera, core.NewVec3(50.5+67.8, 50.5, 0))
	assert.False(t, hit)

	for _, corner := range []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(size-1, 0, 0),
		core.NewVec3(0, size-1, 0), core.NewVec3(size-1, size-1, 0),
	} {
		assert.Equal(t, s.Config.Background, w.RayColor(camera, corner, centered), "corner %v", corner)
	}
}

// parallelMirrors builds a floor and ceiling that reflect everything
func parallelMirrors(t *testing.T, depth int) *scene.Scene {
	t.Helper()
	s := scene.New(100, 100)
	mirror := geometry.Material{Color: core.NewColor(100, 100, 100), Reflectance: 1}
	_, err := s.AddWall(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), mirror)
	require.NoError(t, err)
	_, err = s.AddWall(core.NewVec3(0, 100, 0), core.NewVec3(0, 99, 0), mirror)
	require.NoError(t, err)
	s.SetMaxDepth(depth)
	s.SetShadowGrid(1)
	return s
}

func TestWhitted_RecursionBound(t *testing.T) {
	for _, depth := range []int{0, 1, 3, 7} {
		s := parallelMirrors(t, depth)

		counts := map[RayKind]int{}
		minDepth := depth
		w := NewWhitted(s, WithObserver(func(kind RayKind, d int) {
			counts[kind]++
			if d < minDepth {
				minDepth = d
			}
		}))

		w.RayColor(s.Config.Camera, core.NewVec3(50, 0, 0), centered)

		assert.Equal(t, 1, counts[Primary])
		assert.Equal(t, depth, counts[Reflection], "depth %d", depth)
		assert.Zero(t, counts[Refraction])
		assert.GreaterOrEqual(t, minDepth, 0)
		// One shadow ray per shaded point with a 1×1 grid
		assert.Equal(t, depth+1, counts[Shadow])
	}
}

func TestWhitted_SelfHitSuppression(t *testing.T) {
	s := scene.New(100, 100)
	sphere, err := s.AddSphere(core.NewVec3(50, 50, 200), 40, geometry.Material{Color: core.NewColor(200, 200, 200)})
	require.NoError(t, err)
	w := NewWhitted(s)

	from := s.Config.Camera
	to := core.NewVec3(50, 50, 0)

	assert.Equal(t, core.Black, w.CastRay(from, to, 1, Reflection, sphere.ID(), centered))
	assert.Equal(t, core.Black, w.CastRay(from, to, 1, Refraction, sphere.ID(), centered))
	assert.NotEqual(t, core.Black, w.CastRay(from, to, 1, Reflection, geometry.NoID, centered))

	// Primary rays never exclude
	assert.NotEqual(t, core.Black, w.CastRay(from, to, 1, Primary, sphere.ID(), centered))
}

func TestWhitted_ReflectionEnergyBound(t *testing.T) {
	render := func(reflectance float64) core.Color {
		s := scene.New(100, 100)
		s.SetShadowGrid(1)
		// Bright wall behind the camera, seen in the mirror
		_, err := s.AddWall(core.NewVec3(0, 0, -2000), core.NewVec3(0, 0, -1999), geometry.Material{Color: core.White})
		require.NoError(t, err)
		_, err = s.AddWall(core.NewVec3(0, 0, 300), core.NewVec3(0, 0, 299),
			geometry.Material{Color: core.NewColor(40, 40, 40), Reflectance: reflectance})
		require.NoError(t, err)
		s.SetLight(core.NewVec3(50, 50, -1500))
		return NewWhitted(s).RayColor(s.Config.Camera, core.NewVec3(50, 50, 0), centered)
	}

	base := render(0)
	for _, r := range []float64{0.1, 0.5, 1.0} {
		c := render(r)
		bound := int(r*255) + 1
		assert.GreaterOrEqual(t, c.R, base.R)
		assert.LessOrEqual(t, int(c.R)-int(base.R), bound, "reflectance %v", r)
		assert.LessOrEqual(t, int(c.G)-int(base.G), bound, "reflectance %v", r)
	}
}

// shadowScene puts a point on a floor directly below the light, with an
// optional occluder halfway between them
func shadowScene(t *testing.T, occluder *geometry.Material) (*scene.Scene, geometry.Hit, geometry.ID) {
	t.Helper()
	s := scene.New(100, 100)
	s.SetLight(core.NewVec3(0, -100, 0))
	s.SetShadowGrid(2)
	s.SetShadowUnit(8)
	s.SetMaxDepth(0)

	floor, err := s.AddWall(core.NewVec3(0, 100, 0), core.NewVec3(0, 99, 0), geometry.Material{Color: core.NewColor(200, 200, 200)})
	require.NoError(t, err)
	if occluder != nil {
		_, err = s.AddSphere(core.NewVec3(0, 0, 0), 20, *occluder)
		require.NoError(t, err)
	}

	hit, ok := s.Intersect(core.NewVec3(0, 50, -10), core.NewVec3(0, 100, 0))
	require.True(t, ok)
	return s, hit, floor.ID()
}

func TestWhitted_ShadowMonotonic(t *testing.T) {
	opaque := geometry.Material{Color: core.White}
	glass := geometry.Material{Color: core.White, Transmittance: 0.5}

	fraction := func(m *geometry.Material) float64 {
		s, hit, floor := shadowScene(t, m)
		return NewWhitted(s).ShadowFraction(hit.Point, floor, 0, centered)
	}

	none, half, full := fraction(nil), fraction(&glass), fraction(&opaque)
	assert.Equal(t, 0.0, none)
	assert.InDelta(t, 0.5, half, 1e-12)
	assert.Equal(t, 1.0, full)
	assert.LessOrEqual(t, none, half)
	assert.LessOrEqual(t, half, full)
}

func TestWhitted_FullShadowLeavesAmbient(t *testing.T) {
	opaque := geometry.Material{Color: core.White}
	s, hit, _ := shadowScene(t, &opaque)
	w := NewWhitted(s)

	color := w.Shade(hit, hit.Point.Subtract(core.NewVec3(0, 50, -10)), 0, centered)
	// 200 × 0.2
	assert.Equal(t, core.NewColor(40, 40, 40), color)
}

func TestWhitted_ShadowIgnoresOccludersBeyondLight(t *testing.T) {
	s := scene.New(100, 100)
	s.SetLight(core.NewVec3(0, -100, 0))
	s.SetShadowGrid(1)
	_, err := s.AddWall(core.NewVec3(0, 100, 0), core.NewVec3(0, 99, 0), geometry.Material{Color: core.White})
	require.NoError(t, err)
	// Sphere on the far side of the light
	_, err = s.AddSphere(core.NewVec3(0, -300, 0), 50, geometry.Material{Color: core.White})
	require.NoError(t, err)

	w := NewWhitted(s)
	assert.Equal(t, 0.0, w.ShadowFraction(core.NewVec3(0, 100, 0), s.Walls[0].ID(), 0, centered))
}

func TestWhitted_RefractionSeesThroughGlass(t *testing.T) {
	render := func(transmittance float64) core.Color {
		s := scene.New(100, 100)
		s.SetShadowGrid(1)
		_, err := s.AddWall(core.NewVec3(0, 0, 100), core.NewVec3(0, 0, 99), geometry.Material{
			Color:           core.Black,
			RefractiveIndex: 1.5,
			Transmittance:   transmittance,
		})
		require.NoError(t, err)
		_, err = s.AddWall(core.NewVec3(0, 0, 500), core.NewVec3(0, 0, 499), geometry.Material{Color: core.NewColor(255, 0, 0)})
		require.NoError(t, err)
		return NewWhitted(s).RayColor(s.Config.Camera, core.NewVec3(50, 50, 0), centered)
	}

	opaque := render(0)
	assert.Equal(t, core.Black, opaque)

	clear := render(1)
	assert.Greater(t, clear.R, uint8(0))
	assert.Zero(t, clear.G)
	assert.Zero(t, clear.B)
}

func TestWhitted_DepthZeroDoesNotRecurse(t *testing.T) {
	s := parallelMirrors(t, 0)
	bounces := 0
	w := NewWhitted(s, WithObserver(func(kind RayKind, _ int) {
		if kind.Bounce() {
			bounces++
		}
	}))
	w.RayColor(s.Config.Camera, core.NewVec3(50, 0, 0), centered)
	assert.Zero(t, bounces)
}

func TestRayKind_String(t *testing.T) {
	assert.Equal(t, "primary", Primary.String())
	assert.Equal(t, "reflection", Reflection.String())
	assert.Equal(t, "refraction", Refraction.String())
	assert.Equal(t, "shadow", Shadow.String())
	assert.False(t, Shadow.Bounce())
	assert.True(t, Refraction.Bounce())
}

// glassPane is a reflective, transmissive wall at z = 0 whose outward
// normal faces the camera side (-z)
func glassPane(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(100, 100)
	_, err := s.AddWall(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), geometry.Material{
		Color:           core.NewColor(200, 200, 200),
		Reflectance:     0.5,
		RefractiveIndex: 1.5,
		Transmittance:   0.5,
	})
	require.NoError(t, err)
	s.SetMaxDepth(1)
	s.SetShadowGrid(1)
	return s
}

// bounceKinds casts one primary ray from `from` through `to` and counts the
// reflection and refraction rays it spawns
func bounceKinds(t *testing.T, s *scene.Scene, from, to core.Vec3) map[RayKind]int {
	t.Helper()
	counts := map[RayKind]int{}
	w := NewWhitted(s, WithObserver(func(kind RayKind, depth int) {
		if kind.Bounce() {
			counts[kind]++
		}
	}))
	w.CastRay(from, to, s.Config.MaxDepth, Primary, geometry.NoID, centered)
	return counts
}

func TestWhitted_InsideSurface(t *testing.T) {
	// With IOR 1.5 the critical angle leaving the glass is about 41.8°
	tests := []struct {
		name       string
		from, to   core.Vec3
		reflection int
		refraction int
	}{
		{"outside near normal", core.NewVec3(0, 0, -10), core.NewVec3(1, 0, 10), 1, 1},
		{"outside grazing", core.NewVec3(-200, 0, -10), core.NewVec3(200, 0, 10), 1, 1},
		{"inside near normal refracts out", core.NewVec3(0, 0, 10), core.NewVec3(1, 0, -10), 0, 1},
		{"inside at 30 degrees refracts out", core.NewVec3(0, 0, 10), core.NewVec3(5.7735, 0, -10), 0, 1},
		{"inside at 45 degrees is totally reflected", core.NewVec3(0, 0, 10), core.NewVec3(10, 0, -10), 0, 0},
		{"inside grazing", core.NewVec3(-200, 0, 10), core.NewVec3(200, 0, -10), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := bounceKinds(t, glassPane(t), tt.from, tt.to)
			assert.Equal(t, tt.reflection, counts[Reflection], "reflection rays")
			assert.Equal(t, tt.refraction, counts[Refraction], "refraction rays")
		})
	}
}

func TestWhitted_InsideSurfaceFlipsNormal(t *testing.T) {
	s := glassPane(t)
	s.SetMaxDepth(0)
	s.SetLight(core.NewVec3(0, 0, 500))
	w := NewWhitted(s)

	// Seen from behind with the light behind too, the flipped normal faces
	// the light, so the pane is lit above its ambient level
	from, to := core.NewVec3(0, 0, 100), core.NewVec3(0, 0, -100)
	hit, ok := s.Intersect(from, to)
	require.True(t, ok)
	lit := w.Shade(hit, to.Subtract(from), 0, centered)

	ambient := core.NewColor(200, 200, 200).Scale(s.Config.Ambient)
	assert.Greater(t, lit.R, ambient.R)
}

func TestFresnel_InsideUsesSwappedIndices(t *testing.T) {
	// Leaving glass at 30° refracts; at 45° it is past the critical angle
	cos30, cos45 := math.Cos(math.Pi/6), math.Cos(math.Pi/4)
	for _, model := range []scene.FresnelModel{scene.FresnelExact, scene.FresnelSchlick} {
		assert.Less(t, Fresnel(model, cos30, 1.5, true), 1.0, "%s inside 30°", model)
		assert.Equal(t, 1.0, Fresnel(model, cos45, 1.5, true), "%s inside 45°", model)
		assert.Less(t, Fresnel(model, cos45, 1.5, false), 1.0, "%s outside 45°", model)
	}

	// refractVector with eta = ior bends a ray leaving the glass away from the normal
	n := core.NewVec3(0, 0, 1)
	in := core.NewVec3(math.Sin(math.Pi/6), 0, -math.Cos(math.Pi/6))
	out, ok := refractVector(in, n, 1.5)
	require.True(t, ok)
	assert.InDelta(t, 0.75, out.X, 1e-9, "sin θt = 1.5 · sin 30°")
	_, ok = refractVector(core.NewVec3(math.Sin(math.Pi/4), 0, -math.Cos(math.Pi/4)), n, 1.5)
	assert.False(t, ok, "total internal reflection")
}
