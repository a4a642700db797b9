package gp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// GPMC is the GP model with explicit latent values. The latent
// deviation f ~ N(0, K) is added to the mean function, and
// y_i ~ p(y_i | mu_i + f_i).
type GPMC struct {
	base
	lik Likelihood
	f   []float64

	chol     mat.Cholesky
	cholDone bool
}

// NewGPMC creates a new latent GP model. The latent values start at
// zero.
func NewGPMC(data *Data, mean Mean, kernel Kernel, lik Likelihood) *GPMC {
	g := &GPMC{
		base: base{
			data:   data,
			mean:   mean,
			kernel: kernel,
		},
		lik: lik,
		f:   make([]float64, data.Len()),
	}
	g.addParameters(func() {}, func() { g.cholDone = false })
	lik.addParameters(&g.parameters, func() {})
	return g
}

// GetFloatParameters returns all the model parameters.
func (g *GPMC) GetFloatParameters() mcmc.Parameters {
	return g.parameters
}

// Latent returns a copy of the latent values.
func (g *GPMC) Latent() []float64 {
	return append([]float64(nil), g.f...)
}

// SetLatent sets the latent values.
func (g *GPMC) SetLatent(f []float64) error {
	if len(f) != len(g.f) {
		return errors.Wrapf(mcmc.ErrInvalidArgument, "%d latent values, expected %d", len(f), len(g.f))
	}
	copy(g.f, f)
	return nil
}

// Covariance returns the prior covariance of the latent values.
func (g *GPMC) Covariance() (*mat.SymDense, error) {
	return g.covariance()
}

// LogLikelihood returns the observation log likelihood for the latent
// values f.
func (g *GPMC) LogLikelihood(f []float64) (float64, error) {
	if len(f) != len(g.f) {
		return 0, errors.Wrapf(mcmc.ErrInvalidArgument, "%d latent values, expected %d", len(f), len(g.f))
	}
	mu := g.meanValues()
	ll := 0.0
	for i, y := range g.data.Y {
		ll += g.lik.LogProb(y, mu[i]+f[i])
	}
	return ll, nil
}

// UpdateTarget returns the joint log density of the observations,
// the latent values and the parameters in mask.
func (g *GPMC) UpdateTarget(mask mcmc.Mask) (float64, error) {
	k, err := g.covariance()
	if err != nil {
		return 0, err
	}
	if !g.cholDone {
		if err := factorize(&g.chol, k, "kernel matrix"); err != nil {
			return 0, err
		}
		g.cholDone = true
	}
	lp, err := logNormal(&g.chol, g.f)
	if err != nil {
		return 0, err
	}
	ll, err := g.LogLikelihood(g.f)
	if err != nil {
		return 0, err
	}
	return ll + lp + g.parameters.Masked(mask).LogPrior(), nil
}

// Whiten returns L^-1 x, where L L^T = cov.
func (g *GPMC) Whiten(cov mat.Symmetric, x []float64) ([]float64, error) {
	return Whiten(cov, x)
}

// Unwhiten returns L eta, where L L^T = cov.
func (g *GPMC) Unwhiten(cov mat.Symmetric, eta []float64) ([]float64, error) {
	return Unwhiten(cov, eta)
}
