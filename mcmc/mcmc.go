// Package mcmc implements posterior samplers for the hyperparameters
// (and latent function values) of Gaussian-process-like models:
// Hamiltonian Monte Carlo, elliptical slice sampling and surrogate
// data slice sampling.
//
// Samplers only talk to a model through its parameters and a few
// evaluation methods. Every evaluation goes through a Guard, which
// turns numerical failures of the model into rejected proposals.
package mcmc

import (
	"github.com/op/go-logging"
	"gonum.org/v1/gonum/mat"
)

// log is the global logging variable.
var log = logging.MustGetLogger("mcmc")

// Model is the model interface used by the Hamiltonian sampler and
// the elliptical slice sampler.
type Model interface {
	// GetFloatParameters returns all the model parameters.
	// Setting a parameter marks cached values as stale.
	GetFloatParameters() Parameters
	// UpdateTarget recomputes and caches the log-target (log
	// likelihood plus log prior of the parameters in mask).
	UpdateTarget(mask Mask) (float64, error)
	// UpdateTargetGrad recomputes the log-target and its gradient
	// with respect to the parameters in mask.
	UpdateTargetGrad(mask Mask) (float64, []float64, error)
	// UpdateLikelihood recomputes and caches the log likelihood
	// without the prior term.
	UpdateLikelihood() (float64, error)
}

// LatentModel is a model with latent function values f ~ N(0, K),
// where K depends on the hyperparameters. It is used by the latent
// slice sampler.
type LatentModel interface {
	// GetFloatParameters returns all the model parameters.
	GetFloatParameters() Parameters
	// Latent returns a copy of the current latent values.
	Latent() []float64
	// SetLatent sets the latent values.
	SetLatent(f []float64) error
	// Covariance returns the prior covariance of the latent values
	// for the current parameters.
	Covariance() (*mat.SymDense, error)
	// LogLikelihood returns the observation log likelihood given
	// the latent values f and the current parameters.
	LogLikelihood(f []float64) (float64, error)
	// UpdateTarget recomputes and caches the joint log-target of
	// the current latent values and the parameters in mask.
	UpdateTarget(mask Mask) (float64, error)
	// Whiten returns L^-1 x, where L L^T = cov.
	Whiten(cov mat.Symmetric, x []float64) ([]float64, error)
	// Unwhiten returns L eta, where L L^T = cov.
	Unwhiten(cov mat.Symmetric, eta []float64) ([]float64, error)
}
