package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func TestFresnel_NormalIncidence(t *testing.T) {
	// ((1 - 1.5) / (1 + 1.5))² = 0.04
	for _, model := range []scene.FresnelModel{scene.FresnelExact, scene.FresnelSchlick} {
		t.Run(string(model), func(t *testing.T) {
			assert.InDelta(t, 0.04, Fresnel(model, 1, 1.5, false), 1e-9)
			assert.InDelta(t, 0.04, Fresnel(model, 1, 1.5, true), 1e-9)
		})
	}
}

func TestFresnel_Range(t *testing.T) {
	for _, model := range []scene.FresnelModel{scene.FresnelExact, scene.FresnelSchlick} {
		prev := 0.0
		// Reflectance grows towards grazing incidence
		for cos := 1.0; cos >= 0; cos -= 0.05 {
			kr := Fresnel(model, cos, 1.5, false)
			assert.GreaterOrEqual(t, kr, 0.0)
			assert.LessOrEqual(t, kr, 1.0)
			assert.GreaterOrEqual(t, kr, prev-1e-12, "%s at cos %.2f", model, cos)
			prev = kr
		}
		assert.InDelta(t, 1.0, Fresnel(model, 0, 1.5, false), 1e-9)
	}
}

func TestFresnel_TotalInternalReflection(t *testing.T) {
	// Critical angle for 1.5 is ~41.8°; 60° from the normal is beyond it
	cos60 := math.Cos(60 * math.Pi / 180)
	assert.Equal(t, 1.0, Fresnel(scene.FresnelExact, cos60, 1.5, true))
	assert.Equal(t, 1.0, Fresnel(scene.FresnelSchlick, cos60, 1.5, true))
	assert.Less(t, Fresnel(scene.FresnelExact, cos60, 1.5, false), 1.0)
}

func TestRefractVector(t *testing.T) {
	n := core.NewVec3(0, 0, -1)

	// Normal incidence passes straight through
	dir, ok := refractVector(core.NewVec3(0, 0, 1), n, 1/1.5)
	assert.True(t, ok)
	assert.InDelta(t, 0.0, dir.X, 1e-12)
	assert.InDelta(t, 1.0, dir.Z, 1e-12)

	// Entering a denser medium bends towards the normal
	in := core.NewVec3(1, 0, 1).Normalize()
	dir, ok = refractVector(in, n, 1/1.5)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	sinIn := in.X
	sinOut := dir.X
	assert.InDelta(t, sinIn/1.5, sinOut, 1e-9, "Snell's law")

	// Leaving at a steep angle is totally reflected
	steep := core.NewVec3(math.Sin(1.2), 0, math.Cos(1.2))
	_, ok = refractVector(steep, n, 1.5)
	assert.False(t, ok)
}
