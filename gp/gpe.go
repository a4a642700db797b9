package gp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// GPE is the exact GP regression model, y ~ N(mu, K + sn^2 I). The
// latent function is integrated out, so only the hyperparameters are
// sampled.
type GPE struct {
	base
	logNoise float64

	chol  mat.Cholesky
	alpha *mat.VecDense
	done  bool
	mll   float64
}

// NewGPE creates a new exact GP model with the noise standard
// deviation noise.
func NewGPE(data *Data, mean Mean, kernel Kernel, noise float64) *GPE {
	g := &GPE{
		base: base{
			data:   data,
			mean:   mean,
			kernel: kernel,
		},
		logNoise: math.Log(noise),
	}
	g.addParameters(g.invalidate, g.invalidate)
	ln := mcmc.NewFloatParameter(&g.logNoise, "noise_logsigma", mcmc.NoiseGroup)
	ln.SetPrior(mcmc.NewNormalPrior(-1, 2))
	ln.SetOnChange(g.invalidate)
	g.parameters.Append(ln)
	return g
}

func (g *GPE) invalidate() {
	g.done = false
}

// GetFloatParameters returns all the model parameters.
func (g *GPE) GetFloatParameters() mcmc.Parameters {
	return g.parameters
}

// update factorizes K + sn^2 I and computes the marginal likelihood.
func (g *GPE) update() error {
	if g.done {
		return nil
	}
	k, err := g.covariance()
	if err != nil {
		return err
	}
	s2 := math.Exp(2 * g.logNoise)
	if math.IsInf(s2, 0) {
		return errors.Wrapf(mcmc.ErrInvalidArgument, "noise variance %v", s2)
	}
	n := g.data.Len()
	sigma := mat.NewSymDense(n, nil)
	sigma.CopySym(k)
	for i := 0; i < n; i++ {
		sigma.SetSym(i, i, sigma.At(i, i)+s2)
	}
	if err := factorize(&g.chol, sigma, "marginal covariance"); err != nil {
		return err
	}

	r := make([]float64, n)
	floats.SubTo(r, g.data.Y, g.meanValues())
	rv := mat.NewVecDense(n, r)
	g.alpha = mat.NewVecDense(n, nil)
	if err := g.chol.SolveVecTo(g.alpha, rv); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return errors.Wrap(mcmc.ErrNotPositiveDefinite, err.Error())
		}
	}
	g.mll = -0.5*mat.Dot(rv, g.alpha) - 0.5*g.chol.LogDet() - 0.5*float64(n)*math.Log(2*math.Pi)
	g.done = true
	return nil
}

// UpdateLikelihood returns the log marginal likelihood.
func (g *GPE) UpdateLikelihood() (float64, error) {
	if err := g.update(); err != nil {
		return 0, err
	}
	return g.mll, nil
}

// UpdateTarget returns the log marginal likelihood plus the log prior
// of the parameters in mask.
func (g *GPE) UpdateTarget(mask mcmc.Mask) (float64, error) {
	if err := g.update(); err != nil {
		return 0, err
	}
	return g.mll + g.parameters.Masked(mask).LogPrior(), nil
}

// UpdateTargetGrad returns the log-target and its gradient with
// respect to the parameters in mask.
func (g *GPE) UpdateTargetGrad(mask mcmc.Mask) (float64, []float64, error) {
	if err := g.update(); err != nil {
		return 0, nil, err
	}
	var inv mat.SymDense
	if err := g.chol.InverseTo(&inv); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return 0, nil, errors.Wrap(mcmc.ErrNotPositiveDefinite, err.Error())
		}
	}
	a := g.alpha.RawVector().Data

	// d mll = a^T dmu + 1/2 tr((a a^T - Sigma^-1) dSigma)
	full := make([]float64, 0, len(g.parameters))
	for _, dm := range g.meanGrad() {
		full = append(full, floats.Dot(a, dm))
	}
	for _, dk := range g.kernelGrad() {
		full = append(full, 0.5*traceProd(a, &inv, dk))
	}
	s2 := math.Exp(2 * g.logNoise)
	tr := 0.0
	for i, ai := range a {
		tr += ai*ai - inv.At(i, i)
	}
	full = append(full, s2*tr)

	grad := make([]float64, 0, len(full))
	for i, par := range g.parameters {
		if mask.Includes(par.Group()) {
			grad = append(grad, full[i]+par.PriorGrad())
		}
	}
	return g.mll + g.parameters.Masked(mask).LogPrior(), grad, nil
}

// traceProd returns tr((a a^T - inv) d) for symmetric inv and d.
func traceProd(a []float64, inv, d mat.Symmetric) (s float64) {
	for i := range a {
		for j := range a {
			s += (a[i]*a[j] - inv.At(i, j)) * d.At(i, j)
		}
	}
	return
}
