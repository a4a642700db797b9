package mcmc

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// HMC is a Hamiltonian Monte Carlo sampler with a random number of
// leapfrog steps per iteration.
type HMC struct {
	BaseSampler
	model   Model
	hs      *HMCSettings
	grad    []float64
	samples *mat.Dense
}

// NewHMC creates a new Hamiltonian sampler.
func NewHMC(m Model, settings *HMCSettings, rng *rand.Rand) *HMC {
	return &HMC{
		BaseSampler: newBaseSampler("HMC", &settings.Settings, m.GetFloatParameters(), rng),
		model:       m,
		hs:          settings,
	}
}

// evalGrad is the guarded evaluation of the target and its gradient.
func (h *HMC) evalGrad() (float64, []float64, error) {
	return h.model.UpdateTargetGrad(h.hs.Mask)
}

// Run runs the chain.
func (h *HMC) Run() (*mat.Dense, error) {
	if err := h.hs.Validate(); err != nil {
		return nil, err
	}
	res, err := h.start(h.evalGrad)
	if err != nil {
		return nil, err
	}
	h.grad = res.Grad

	err = h.loop(h.parameters.Names(), h.step)
	if err != nil {
		return nil, err
	}
	if err := h.restore(h.evalGrad); err != nil {
		return nil, err
	}
	h.samples, err = h.trace()
	if err != nil {
		return nil, err
	}
	h.Summary().report()
	return h.samples, nil
}

// step performs one iteration and returns the accepted state.
func (h *HMC) step() ([]float64, error) {
	eps := h.hs.Eps
	d := len(h.cur)

	nu0 := normalVector(h.rng, d)
	nu := make([]float64, d)
	copy(nu, nu0)
	floats.AddScaled(nu, 0.5*eps, h.grad)

	nsteps := h.hs.LMin + h.rng.Intn(h.hs.LMax-h.hs.LMin+1)
	h.stats.Steps += nsteps

	theta := make([]float64, d)
	copy(theta, h.cur)
	var res Result
	for l := 0; l < nsteps; l++ {
		floats.AddScaled(theta, eps, nu)
		var err error
		res, err = h.guard.Eval(h.parameters, theta, h.evalGrad)
		if err != nil {
			return nil, err
		}
		if !res.Ok() {
			// the trajectory is abandoned, the current state is
			// emitted again
			return h.row(), nil
		}
		floats.AddScaled(nu, eps, res.Grad)
	}
	floats.AddScaled(nu, -0.5*eps, res.Grad)

	alpha := (res.LogTarget - 0.5*floats.Dot(nu, nu)) - (h.l - 0.5*floats.Dot(nu0, nu0))
	if logUniform(h.rng) < alpha {
		h.cur = theta
		h.l = res.LogTarget
		h.grad = res.Grad
		h.stats.Accepted++
	}
	return h.row(), nil
}

// row returns a copy of the current state.
func (h *HMC) row() []float64 {
	return append([]float64(nil), h.cur...)
}

// Summary returns the run summary.
func (h *HMC) Summary() Summary {
	s := h.summary(h.samples, h.parameters.Names())
	if h.stats.Iterations > 0 {
		s.AcceptanceRate = float64(h.stats.Accepted) / float64(h.stats.Iterations)
		s.AverageSteps = float64(h.stats.Steps) / float64(h.stats.Iterations)
	}
	return s
}
