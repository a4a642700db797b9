package mcmc

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// openUniform returns a random value in (0, 1).
func openUniform(rng *rand.Rand) float64 {
	r := rng.Float64()
	for r == 0 {
		r = rng.Float64()
	}
	return r
}

// logUniform returns log(u) for u ~ Uniform(0, 1), it is used for
// slice thresholds and Metropolis tests.
func logUniform(rng *rand.Rand) float64 {
	return math.Log(openUniform(rng))
}

// normalVector returns a vector of independent standard normal
// values.
func normalVector(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

// ellipse returns f*cos(theta) + nu*sin(theta).
func ellipse(f, nu []float64, theta float64) []float64 {
	res := make([]float64, len(f))
	floats.ScaleTo(res, math.Cos(theta), f)
	floats.AddScaled(res, math.Sin(theta), nu)
	return res
}

// centre returns x - mu.
func centre(x, mu []float64) []float64 {
	res := make([]float64, len(x))
	floats.SubTo(res, x, mu)
	return res
}

// allFinite returns true if there is no NaN or Inf in x.
func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
