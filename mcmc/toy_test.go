package mcmc

import (
	"fmt"
	"math"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func init() {
	logging.SetLevel(logging.WARNING, "mcmc")
}

// toyModel has independent parameters x_i ~ N(0, 1) and a single
// observation y ~ N(x_i, sigma^2) per parameter. The posterior of
// every x_i is normal with mean y/(1+sigma^2) and variance
// sigma^2/(1+sigma^2).
type toyModel struct {
	x     []float64
	pars  Parameters
	y     float64
	sigma float64
	// admissible returns false for inadmissible parameters.
	admissible func(x []float64) bool
	// flat makes the likelihood constant.
	flat bool
}

func newToyModel(d int, y, sigma float64) *toyModel {
	m := &toyModel{
		x:     make([]float64, d),
		y:     y,
		sigma: sigma,
	}
	for i := range m.x {
		p := NewFloatParameter(&m.x[i], fmt.Sprintf("x%d", i+1), MeanGroup)
		p.SetPrior(NewNormalPrior(0, 1))
		m.pars.Append(p)
	}
	return m
}

func (m *toyModel) GetFloatParameters() Parameters {
	return m.pars
}

func (m *toyModel) UpdateLikelihood() (float64, error) {
	if m.admissible != nil && !m.admissible(m.x) {
		return 0, errors.Wrapf(ErrInvalidArgument, "x=%v", m.x)
	}
	if m.flat {
		return 0, nil
	}
	l := 0.0
	for _, x := range m.x {
		d := (m.y - x) / m.sigma
		l += -0.5*d*d - math.Log(m.sigma) - 0.5*math.Log(2*math.Pi)
	}
	return l, nil
}

func (m *toyModel) UpdateTarget(mask Mask) (float64, error) {
	l, err := m.UpdateLikelihood()
	if err != nil {
		return 0, err
	}
	return l + m.pars.Masked(mask).LogPrior(), nil
}

func (m *toyModel) UpdateTargetGrad(mask Mask) (float64, []float64, error) {
	t, err := m.UpdateTarget(mask)
	if err != nil {
		return 0, nil, err
	}
	grad := m.pars.Masked(mask).PriorGrad()
	if !m.flat {
		for i, x := range m.x {
			grad[i] += (m.y - x) / (m.sigma * m.sigma)
		}
	}
	return t, grad, nil
}

// toyLatentModel has latent values f ~ N(0, exp(2 theta) I) and
// observations y_i ~ N(f_i, 1).
type toyLatentModel struct {
	theta float64
	pars  Parameters
	f     []float64
	y     []float64
}

func newToyLatentModel(y []float64) *toyLatentModel {
	m := &toyLatentModel{
		f: make([]float64, len(y)),
		y: y,
	}
	p := NewFloatParameter(&m.theta, "theta", KernelGroup)
	p.SetPrior(NewNormalPrior(0, 1))
	m.pars.Append(p)
	return m
}

func (m *toyLatentModel) GetFloatParameters() Parameters {
	return m.pars
}

func (m *toyLatentModel) Latent() []float64 {
	return append([]float64(nil), m.f...)
}

func (m *toyLatentModel) SetLatent(f []float64) error {
	if len(f) != len(m.f) {
		return errors.Wrap(ErrInvalidArgument, "latent length")
	}
	copy(m.f, f)
	return nil
}

func (m *toyLatentModel) Covariance() (*mat.SymDense, error) {
	n := len(m.f)
	k := mat.NewSymDense(n, nil)
	v := math.Exp(2 * m.theta)
	if math.IsInf(v, 0) || v == 0 {
		return nil, errors.Wrap(ErrNotPositiveDefinite, "variance")
	}
	for i := 0; i < n; i++ {
		k.SetSym(i, i, v)
	}
	return k, nil
}

func (m *toyLatentModel) LogLikelihood(f []float64) (float64, error) {
	l := 0.0
	for i, y := range m.y {
		d := y - f[i]
		l += -0.5*d*d - 0.5*math.Log(2*math.Pi)
	}
	return l, nil
}

func (m *toyLatentModel) UpdateTarget(mask Mask) (float64, error) {
	l, err := m.LogLikelihood(m.f)
	if err != nil {
		return 0, err
	}
	v := math.Exp(2 * m.theta)
	for _, f := range m.f {
		l += -0.5*f*f/v - m.theta - 0.5*math.Log(2*math.Pi)
	}
	return l + m.pars.Masked(mask).LogPrior(), nil
}

// Whiten assumes a diagonal covariance.
func (m *toyLatentModel) Whiten(cov mat.Symmetric, x []float64) ([]float64, error) {
	eta := make([]float64, len(x))
	for i := range x {
		eta[i] = x[i] / math.Sqrt(cov.At(i, i))
	}
	return eta, nil
}

// Unwhiten assumes a diagonal covariance.
func (m *toyLatentModel) Unwhiten(cov mat.Symmetric, eta []float64) ([]float64, error) {
	x := make([]float64, len(eta))
	for i := range eta {
		x[i] = eta[i] * math.Sqrt(cov.At(i, i))
	}
	return x, nil
}
