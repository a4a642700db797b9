package gp

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// Likelihood is an observation model p(y | f) for latent GPs.
type Likelihood interface {
	// Name returns the likelihood name.
	Name() string
	// LogProb returns log p(y | f).
	LogProb(y, f float64) float64
	// NumHyper returns the number of parameters.
	NumHyper() int
	// addParameters registers the parameters.
	addParameters(pars *mcmc.Parameters, onChange func())
}

// GaussLik is the normal likelihood with log standard deviation
// parameter.
type GaussLik struct {
	logSigma float64
}

// NewGaussLik creates a normal likelihood.
func NewGaussLik(sigma float64) *GaussLik {
	return &GaussLik{logSigma: math.Log(sigma)}
}

// Name returns the likelihood name.
func (l *GaussLik) Name() string {
	return "gauss"
}

// LogProb returns log N(y; f, sigma^2).
func (l *GaussLik) LogProb(y, f float64) float64 {
	return distuv.Normal{Mu: f, Sigma: math.Exp(l.logSigma)}.LogProb(y)
}

// NumHyper returns one.
func (l *GaussLik) NumHyper() int {
	return 1
}

func (l *GaussLik) addParameters(pars *mcmc.Parameters, onChange func()) {
	ls := mcmc.NewFloatParameter(&l.logSigma, "lik_logsigma", mcmc.LikGroup)
	ls.SetPrior(mcmc.NewNormalPrior(-1, 2))
	ls.SetOnChange(onChange)
	pars.Append(ls)
}

// PoissonLik is the Poisson likelihood with the log link.
type PoissonLik struct{}

// Name returns the likelihood name.
func (PoissonLik) Name() string {
	return "poisson"
}

// LogProb returns log Poisson(y; exp(f)).
func (PoissonLik) LogProb(y, f float64) float64 {
	return distuv.Poisson{Lambda: math.Exp(f)}.LogProb(y)
}

// NumHyper returns zero.
func (PoissonLik) NumHyper() int {
	return 0
}

func (PoissonLik) addParameters(pars *mcmc.Parameters, onChange func()) {}
