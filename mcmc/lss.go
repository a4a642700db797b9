package mcmc

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LSS is a surrogate data slice sampler which jointly updates latent
// function values and hyperparameters (Murray & Adams, 2010). The
// latent values are whitened relative to the surrogate posterior so
// that a hyperparameter move also moves the latent values.
//
// Every iteration optionally starts with elliptical slice updates of
// the latent values given the hyperparameters.
//
// The trace contains the whitened residual followed by the
// hyperparameters.
type LSS struct {
	BaseSampler
	model LatentModel
	ls    *LSSSettings
	f     []float64
	// latentProps is the number of proposals used by the latent
	// elliptical slice updates.
	latentProps int
	samples     *mat.Dense
}

// NewLSS creates a new latent slice sampler.
func NewLSS(m LatentModel, settings *LSSSettings, rng *rand.Rand) *LSS {
	l := &LSS{
		BaseSampler: newBaseSampler("LSS", &settings.Settings, m.GetFloatParameters(), rng),
		model:       m,
		ls:          settings,
	}
	l.latent = func() []float64 {
		return append([]float64(nil), l.f...)
	}
	return l
}

// commit sets the latent values and recomputes the joint target.
func (l *LSS) commit(f []float64) EvalFunc {
	return func() (float64, []float64, error) {
		if err := l.model.SetLatent(f); err != nil {
			return 0, nil, err
		}
		t, err := l.model.UpdateTarget(l.ls.Mask)
		return t, nil, err
	}
}

// names returns the trace row names.
func (l *LSS) names() []string {
	names := make([]string, 0, len(l.f)+len(l.parameters))
	for i := range l.f {
		names = append(names, fmt.Sprintf("eta%d", i+1))
	}
	return append(names, l.parameters.Names()...)
}

// Run runs the chain.
func (l *LSS) Run() (*mat.Dense, error) {
	if err := l.ls.Validate(); err != nil {
		return nil, err
	}
	l.f = l.model.Latent()
	if _, err := l.start(l.commit(l.f)); err != nil {
		return nil, err
	}
	l.latentProps = 0

	err := l.loop(l.names(), l.step)
	if err != nil {
		return nil, err
	}
	if err := l.restore(l.commit(l.f)); err != nil {
		return nil, err
	}
	l.samples, err = l.trace()
	if err != nil {
		return nil, err
	}
	l.Summary().report()
	return l.samples, nil
}

// step performs one iteration.
func (l *LSS) step() ([]float64, error) {
	for k := 0; k < l.ls.LatentSweeps; k++ {
		if err := l.sweepLatent(); err != nil {
			return nil, err
		}
	}
	eta, err := l.sliceHyper()
	if err != nil {
		return nil, err
	}
	row := make([]float64, 0, len(eta)+len(l.cur))
	row = append(row, eta...)
	return append(row, l.cur...), nil
}

// atCurrent wraps errors which happen at an already accepted state.
func atCurrent(err error, what string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s at the current state", what)
}

// sweepLatent updates the latent values using elliptical slice
// sampling with the prior N(0, K).
func (l *LSS) sweepLatent() error {
	k, err := l.model.Covariance()
	if err != nil {
		return atCurrent(err, "covariance")
	}
	nu, err := l.model.Unwhiten(k, normalVector(l.rng, len(l.f)))
	if err != nil {
		return atCurrent(err, "prior draw")
	}
	likelihood := func(x []float64) (Result, error) {
		return l.guard.Call(x, func() (float64, []float64, error) {
			ll, err := l.model.LogLikelihood(x)
			return ll, nil, err
		})
	}
	cur, err := likelihood(l.f)
	if err != nil {
		return err
	}
	if !cur.Ok() {
		return errors.New("likelihood of the current latent values is not admissible")
	}
	f, _, props, err := ellipticalSlice(l.rng, l.f, nu, nil, cur.LogTarget, l.settings.MaxShrink, likelihood)
	l.latentProps += props
	if err != nil {
		return err
	}
	l.f = f
	return atCurrent(l.model.SetLatent(f), "latent update")
}

// surrogateTarget computes the latent values implied by the whitened
// residual eta and surrogate data g for the committed parameters, and
// the joint log-target of the surrogate model.
func (l *LSS) surrogateTarget(eta, g []float64) ([]float64, float64, error) {
	k, err := l.model.Covariance()
	if err != nil {
		return nil, 0, err
	}
	sur, err := newSurrogate(k, l.ls.AuxNoise)
	if err != nil {
		return nil, 0, err
	}
	m, logg, err := sur.posterior(g)
	if err != nil {
		return nil, 0, err
	}
	f, err := l.model.Unwhiten(sur.r, eta)
	if err != nil {
		return nil, 0, err
	}
	floats.Add(f, m)
	lik, err := l.model.LogLikelihood(f)
	if err != nil {
		return nil, 0, err
	}
	return f, l.parameters.LogPrior() + lik + logg, nil
}

// sliceHyper updates the hyperparameters and the latent values
// jointly. It returns the whitened residual.
func (l *LSS) sliceHyper() ([]float64, error) {
	k, err := l.model.Covariance()
	if err != nil {
		return nil, atCurrent(err, "covariance")
	}
	sur, err := newSurrogate(k, l.ls.AuxNoise)
	if err != nil {
		return nil, atCurrent(err, "surrogate")
	}
	g := sur.draw(l.rng, l.f)
	m, logg, err := sur.posterior(g)
	if err != nil {
		return nil, atCurrent(err, "surrogate posterior")
	}
	resid := make([]float64, len(l.f))
	floats.SubTo(resid, l.f, m)
	eta, err := l.model.Whiten(sur.r, resid)
	if err != nil {
		return nil, atCurrent(err, "whitening")
	}
	lik, err := l.model.LogLikelihood(l.f)
	if err != nil {
		return nil, atCurrent(err, "likelihood")
	}
	logy := l.parameters.LogPrior() + lik + logg + logUniform(l.rng)

	d := len(l.cur)
	lower := make([]float64, d)
	upper := make([]float64, d)
	for i := range l.cur {
		lower[i] = l.cur[i] - l.rng.Float64()*l.ls.Width
		upper[i] = lower[i] + l.ls.Width
	}

	theta := make([]float64, d)
	var f []float64
	for props := 1; ; props++ {
		for i := range theta {
			theta[i] = lower[i] + l.rng.Float64()*(upper[i]-lower[i])
		}
		res, err := l.guard.Eval(l.parameters, theta, func() (float64, []float64, error) {
			var t float64
			var err error
			f, t, err = l.surrogateTarget(eta, g)
			return t, nil, err
		})
		if err != nil {
			return nil, err
		}
		if res.Ok() && res.LogTarget > logy {
			l.stats.Proposals += props
			break
		}
		if props >= l.settings.MaxShrink {
			l.stats.Proposals += props
			log.Errorf("surrogate slice: no point found after %d proposals", props)
			return nil, errors.Wrapf(ErrShrinkExhausted, "%d proposals", props)
		}
		for i := range theta {
			if theta[i] < l.cur[i] {
				lower[i] = theta[i]
			} else {
				upper[i] = theta[i]
			}
		}
	}

	// The accepted point is committed together with its latent
	// values and the joint target is recomputed.
	res, err := l.guard.Eval(l.parameters, theta, l.commit(f))
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, errors.Errorf("accepted state %v is not admissible", theta)
	}
	l.cur = theta
	l.f = f
	l.l = res.LogTarget
	return eta, nil
}

// Summary returns the run summary.
func (l *LSS) Summary() Summary {
	s := l.summary(l.samples, l.names())
	s.Proposals = l.stats.Proposals
	s.LatentProposals = l.latentProps
	if l.stats.Proposals > 0 {
		s.AcceptanceRate = float64(l.stats.Iterations) / float64(l.stats.Proposals)
	}
	return s
}
