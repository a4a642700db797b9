package mcmc

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ESS is an elliptical slice sampler. Every sampled parameter should
// have a normal prior; the ellipse is centred on the prior means and
// the slice is defined by the likelihood only.
type ESS struct {
	BaseSampler
	model Model
	// mu are the prior means.
	mu      []float64
	samples *mat.Dense
}

// NewESS creates a new elliptical slice sampler.
func NewESS(m Model, settings *Settings, rng *rand.Rand) *ESS {
	return &ESS{
		BaseSampler: newBaseSampler("ESS", settings, m.GetFloatParameters(), rng),
		model:       m,
	}
}

// evalLikelihood is the guarded evaluation of the likelihood.
func (e *ESS) evalLikelihood() (float64, []float64, error) {
	l, err := e.model.UpdateLikelihood()
	return l, nil, err
}

// Run runs the chain.
func (e *ESS) Run() (*mat.Dense, error) {
	mu, err := normalMeans(e.parameters)
	if err != nil {
		return nil, err
	}
	e.mu = mu
	if _, err := e.start(e.evalLikelihood); err != nil {
		return nil, err
	}
	err = e.loop(e.parameters.Names(), e.step)
	if err != nil {
		return nil, err
	}
	if err := e.restore(e.evalLikelihood); err != nil {
		return nil, err
	}
	e.samples, err = e.trace()
	if err != nil {
		return nil, err
	}
	e.Summary().report()
	return e.samples, nil
}

// step performs one iteration.
func (e *ESS) step() ([]float64, error) {
	nu, err := e.parameters.Sample(e.rng)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sample from the prior")
	}
	eval := func(x []float64) (Result, error) {
		return e.guard.Eval(e.parameters, x, e.evalLikelihood)
	}
	f, res, props, err := ellipticalSlice(e.rng, e.cur, nu, e.mu, e.l, e.settings.MaxShrink, eval)
	e.stats.Proposals += props
	if err != nil {
		return nil, err
	}
	e.cur = f
	e.l = res.LogTarget
	return append([]float64(nil), e.cur...), nil
}

// Summary returns the run summary.
func (e *ESS) Summary() Summary {
	s := e.summary(e.samples, e.parameters.Names())
	s.Proposals = e.stats.Proposals
	if e.stats.Proposals > 0 {
		s.AcceptanceRate = float64(e.stats.Iterations) / float64(e.stats.Proposals)
	}
	return s
}

// ellipticalSlice performs one elliptical slice sampling update of f
// with the auxiliary prior draw nu. The ellipse is centred on the
// prior mean mu, nil means zero. curL is the log likelihood at f.
// eval evaluates a candidate; rejected candidates are never on the
// slice. It returns the new point, its evaluation and the number of
// proposals.
func ellipticalSlice(rng *rand.Rand, f, nu, mu []float64, curL float64, maxShrink int,
	eval func([]float64) (Result, error)) ([]float64, Result, int, error) {
	if mu != nil {
		f = centre(f, mu)
		nu = centre(nu, mu)
	}
	logy := curL + logUniform(rng)

	theta := rng.Float64() * 2 * math.Pi
	thetaMin, thetaMax := theta-2*math.Pi, theta

	for props := 1; ; props++ {
		fp := ellipse(f, nu, theta)
		if mu != nil {
			floats.Add(fp, mu)
		}
		res, err := eval(fp)
		if err != nil {
			return nil, Result{}, props, err
		}
		if res.Ok() && res.LogTarget > logy {
			return fp, res, props, nil
		}
		if props >= maxShrink {
			log.Errorf("elliptical slice: no point found after %d proposals", props)
			return nil, Result{}, props, errors.Wrapf(ErrShrinkExhausted, "%d proposals", props)
		}
		if theta < 0 {
			thetaMin = theta
		} else {
			thetaMax = theta
		}
		theta = rng.Float64()*(thetaMax-thetaMin) + thetaMin
	}
}
