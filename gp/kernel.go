package gp

import (
	"math"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// Kernel is a covariance function with log-scale hyperparameters.
type Kernel interface {
	// Name returns the kernel name.
	Name() string
	// Cov returns the covariance of two inputs.
	Cov(a, b []float64) float64
	// Grad stores derivatives of Cov with respect to the
	// hyperparameters in dst.
	Grad(a, b []float64, dst []float64)
	// NumHyper returns the number of hyperparameters.
	NumHyper() int
	// addParameters registers the hyperparameters.
	addParameters(pars *mcmc.Parameters, onChange func())
}

// sqDist returns the squared euclidean distance.
func sqDist(a, b []float64) (r2 float64) {
	for i := range a {
		d := a[i] - b[i]
		r2 += d * d
	}
	return
}

// kernelParameters registers log length scale and log signal
// standard deviation.
func kernelParameters(pars *mcmc.Parameters, onChange func(), logEll, logSigma *float64) {
	ll := mcmc.NewFloatParameter(logEll, "kern_logell", mcmc.KernelGroup)
	ll.SetPrior(mcmc.NewNormalPrior(0, 2))
	ll.SetOnChange(onChange)
	lsf := mcmc.NewFloatParameter(logSigma, "kern_logsf", mcmc.KernelGroup)
	lsf.SetPrior(mcmc.NewNormalPrior(0, 2))
	lsf.SetOnChange(onChange)
	pars.Append(ll)
	pars.Append(lsf)
}

// SE is the isotropic squared exponential kernel,
// sf^2 exp(-r^2 / (2 ell^2)).
type SE struct {
	logEll, logSigma float64
}

// NewSE creates a squared exponential kernel.
func NewSE(ell, sigma float64) *SE {
	return &SE{logEll: math.Log(ell), logSigma: math.Log(sigma)}
}

// Name returns the kernel name.
func (k *SE) Name() string {
	return "SE"
}

// NumHyper returns the number of hyperparameters.
func (k *SE) NumHyper() int {
	return 2
}

// Cov returns the covariance of two inputs.
func (k *SE) Cov(a, b []float64) float64 {
	ell := math.Exp(k.logEll)
	return math.Exp(2*k.logSigma - 0.5*sqDist(a, b)/(ell*ell))
}

// Grad stores derivatives with respect to log ell and log sf.
func (k *SE) Grad(a, b []float64, dst []float64) {
	ell := math.Exp(k.logEll)
	r2 := sqDist(a, b) / (ell * ell)
	c := math.Exp(2*k.logSigma - 0.5*r2)
	dst[0] = c * r2
	dst[1] = 2 * c
}

func (k *SE) addParameters(pars *mcmc.Parameters, onChange func()) {
	kernelParameters(pars, onChange, &k.logEll, &k.logSigma)
}

// Matern32 is the isotropic Matern 3/2 kernel,
// sf^2 (1 + s) exp(-s), s = sqrt(3) r / ell.
type Matern32 struct {
	logEll, logSigma float64
}

// NewMatern32 creates a Matern 3/2 kernel.
func NewMatern32(ell, sigma float64) *Matern32 {
	return &Matern32{logEll: math.Log(ell), logSigma: math.Log(sigma)}
}

// Name returns the kernel name.
func (k *Matern32) Name() string {
	return "Matern32"
}

// NumHyper returns the number of hyperparameters.
func (k *Matern32) NumHyper() int {
	return 2
}

func (k *Matern32) s(a, b []float64) float64 {
	return math.Sqrt(3*sqDist(a, b)) / math.Exp(k.logEll)
}

// Cov returns the covariance of two inputs.
func (k *Matern32) Cov(a, b []float64) float64 {
	s := k.s(a, b)
	return math.Exp(2*k.logSigma) * (1 + s) * math.Exp(-s)
}

// Grad stores derivatives with respect to log ell and log sf.
func (k *Matern32) Grad(a, b []float64, dst []float64) {
	s := k.s(a, b)
	sf2 := math.Exp(2 * k.logSigma)
	dst[0] = sf2 * s * s * math.Exp(-s)
	dst[1] = 2 * sf2 * (1 + s) * math.Exp(-s)
}

func (k *Matern32) addParameters(pars *mcmc.Parameters, onChange func()) {
	kernelParameters(pars, onChange, &k.logEll, &k.logSigma)
}
