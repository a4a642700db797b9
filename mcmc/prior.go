package mcmc

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is a prior distribution of a single parameter.
type Prior interface {
	// LogProb returns the log density.
	LogProb(x float64) float64
	// Grad returns the derivative of the log density.
	Grad(x float64) float64
	// Rand draws a random value.
	Rand(rng *rand.Rand) float64
	// CDF returns the cumulative distribution function.
	CDF(x float64) float64
}

// NormalPrior is a normal prior.
type NormalPrior struct {
	Mu, Sigma float64
}

// NewNormalPrior creates a normal prior.
func NewNormalPrior(mu, sigma float64) NormalPrior {
	if sigma <= 0 {
		panic("sigma of normal distribution must be > 0")
	}
	return NormalPrior{Mu: mu, Sigma: sigma}
}

func (p NormalPrior) dist() distuv.Normal {
	return distuv.Normal{Mu: p.Mu, Sigma: p.Sigma}
}

// LogProb returns the log density.
func (p NormalPrior) LogProb(x float64) float64 {
	return p.dist().LogProb(x)
}

// Grad returns the derivative of the log density.
func (p NormalPrior) Grad(x float64) float64 {
	return -(x - p.Mu) / (p.Sigma * p.Sigma)
}

// Rand draws a random value.
func (p NormalPrior) Rand(rng *rand.Rand) float64 {
	return p.Mu + p.Sigma*rng.NormFloat64()
}

// CDF returns the cumulative distribution function.
func (p NormalPrior) CDF(x float64) float64 {
	return p.dist().CDF(x)
}

// LogNormalPrior is a log-normal prior.
type LogNormalPrior struct {
	Mu, Sigma float64
}

// NewLogNormalPrior creates a log-normal prior.
func NewLogNormalPrior(mu, sigma float64) LogNormalPrior {
	if sigma <= 0 {
		panic("sigma of log-normal distribution must be > 0")
	}
	return LogNormalPrior{Mu: mu, Sigma: sigma}
}

// LogProb returns the log density.
func (p LogNormalPrior) LogProb(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return distuv.LogNormal{Mu: p.Mu, Sigma: p.Sigma}.LogProb(x)
}

// Grad returns the derivative of the log density.
func (p LogNormalPrior) Grad(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return -(1 + (math.Log(x)-p.Mu)/(p.Sigma*p.Sigma)) / x
}

// Rand draws a random value.
func (p LogNormalPrior) Rand(rng *rand.Rand) float64 {
	return math.Exp(p.Mu + p.Sigma*rng.NormFloat64())
}

// CDF returns the cumulative distribution function.
func (p LogNormalPrior) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return distuv.LogNormal{Mu: p.Mu, Sigma: p.Sigma}.CDF(x)
}

// GammaPrior is a gamma prior with shape and rate.
type GammaPrior struct {
	Shape, Rate float64
}

// NewGammaPrior creates a gamma prior.
func NewGammaPrior(shape, rate float64) GammaPrior {
	if shape <= 0 || rate <= 0 {
		panic("shape and rate of gamma distribution must be > 0")
	}
	return GammaPrior{Shape: shape, Rate: rate}
}

// LogProb returns the log density.
func (p GammaPrior) LogProb(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return distuv.Gamma{Alpha: p.Shape, Beta: p.Rate}.LogProb(x)
}

// Grad returns the derivative of the log density.
func (p GammaPrior) Grad(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return (p.Shape-1)/x - p.Rate
}

// Rand draws a random value.
func (p GammaPrior) Rand(rng *rand.Rand) float64 {
	return distuv.Gamma{Alpha: p.Shape, Beta: p.Rate}.Quantile(openUniform(rng))
}

// CDF returns the cumulative distribution function.
func (p GammaPrior) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return mathext.GammaIncReg(p.Shape, p.Rate*x)
}

// ExponentialPrior is an exponential prior.
type ExponentialPrior struct {
	Rate float64
}

// NewExponentialPrior creates an exponential prior.
func NewExponentialPrior(rate float64) ExponentialPrior {
	if rate <= 0 {
		panic("exponential rate should be > 0")
	}
	return ExponentialPrior{Rate: rate}
}

// LogProb returns the log density.
func (p ExponentialPrior) LogProb(x float64) float64 {
	if x < 0 {
		return math.Inf(-1)
	}
	return distuv.Exponential{Rate: p.Rate}.LogProb(x)
}

// Grad returns the derivative of the log density.
func (p ExponentialPrior) Grad(x float64) float64 {
	if x < 0 {
		return 0
	}
	return -p.Rate
}

// Rand draws a random value.
func (p ExponentialPrior) Rand(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / p.Rate
}

// CDF returns the cumulative distribution function.
func (p ExponentialPrior) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return -math.Expm1(-p.Rate * x)
}

// UniformPrior is a uniform prior on [Min, Max].
type UniformPrior struct {
	Min, Max float64
}

// NewUniformPrior creates a uniform prior.
func NewUniformPrior(min, max float64) UniformPrior {
	if max <= min {
		panic("max <= min")
	}
	return UniformPrior{Min: min, Max: max}
}

// LogProb returns the log density.
func (p UniformPrior) LogProb(x float64) float64 {
	if x < p.Min || x > p.Max {
		return math.Inf(-1)
	}
	return -math.Log(p.Max - p.Min)
}

// Grad returns the derivative of the log density.
func (p UniformPrior) Grad(x float64) float64 {
	return 0
}

// Rand draws a random value.
func (p UniformPrior) Rand(rng *rand.Rand) float64 {
	return p.Min + rng.Float64()*(p.Max-p.Min)
}

// CDF returns the cumulative distribution function.
func (p UniformPrior) CDF(x float64) float64 {
	switch {
	case x <= p.Min:
		return 0
	case x >= p.Max:
		return 1
	}
	return (x - p.Min) / (p.Max - p.Min)
}

// normalMeans returns the prior means of parameters which all have
// normal priors.
func normalMeans(pars Parameters) ([]float64, error) {
	mu := make([]float64, len(pars))
	for i, par := range pars {
		n, ok := par.Prior().(NormalPrior)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "%s: a normal prior is required", par.Name())
		}
		mu[i] = n.Mu
	}
	return mu, nil
}
