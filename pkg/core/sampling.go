package core

import (
	"math/rand"
)

// Vec2 represents a 2D sample
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides random sampling for jitter.
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a random sampler with a fixed seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// ConstantSampler always returns the same value. A value of 0.5 places
// every jittered sample at the centre of its stratum.
type ConstantSampler float64

// Get1D returns the constant
func (c ConstantSampler) Get1D() float64 { return float64(c) }

// Get2D returns the constant on both axes
func (c ConstantSampler) Get2D() Vec2 { return NewVec2(float64(c), float64(c)) }

// StratifiedOffset returns the offset of sample k out of n inside a unit
// footprint centred on zero. The footprint is split into n cells of equal
// area: rows of ceil(n/g) for g = ceil(sqrt(n)), each row as tall as its
// share of the samples. Jitter in [0,1)² moves the sample inside its cell,
// and a jitter of (0.5, 0.5) selects the cell centre.
func StratifiedOffset(k, n int, jitter Vec2) Vec2 {
	if n <= 1 {
		return NewVec2(jitter.X-0.5, jitter.Y-0.5)
	}
	g := 1
	for g*g < n {
		g++
	}
	rows := (n + g - 1) / g
	base, extra := n/rows, n%rows

	// Find the row holding sample k; the first extra rows take one more
	start := 0
	for row := 0; row < rows; row++ {
		count := base
		if row < extra {
			count++
		}
		if k < start+count {
			col := k - start
			return NewVec2(
				(float64(col)+jitter.X)/float64(count)-0.5,
				(float64(start)+jitter.Y*float64(count))/float64(n)-0.5,
			)
		}
		start += count
	}
	return NewVec2(jitter.X-0.5, jitter.Y-0.5)
}
