package nn

import (
	"math"
	"math/rand"
)

// Initializer draws the initial value of one parameter.
//
// fanIn and fanOut are the number of inputs and outputs of the layer that
// owns the parameter.
type Initializer func(rng *rand.Rand, fanIn, fanOut int) float64

// Uniform draws values from U(lo, hi).
func Uniform(lo, hi float64) Initializer {
	return func(rng *rand.Rand, _, _ int) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
}

// Xavier (Glorot) initialization.
//
// Draws values from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))),
// which helps maintain variance of activations across layers.
func Xavier() Initializer {
	return func(rng *rand.Rand, fanIn, fanOut int) float64 {
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		return (rng.Float64()*2.0 - 1.0) * bound
	}
}

// Constant sets every parameter to c.
func Constant(c float64) Initializer {
	return func(*rand.Rand, int, int) float64 {
		return c
	}
}
