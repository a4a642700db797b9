package gp

import (
	"bitbucket.org/Davydov/gpmc/mcmc"
)

// Mean is a mean function.
type Mean interface {
	// Name returns the mean function name.
	Name() string
	// Value returns the mean at x.
	Value(x []float64) float64
	// Grad stores derivatives with respect to the parameters in
	// dst.
	Grad(x []float64, dst []float64)
	// NumHyper returns the number of parameters.
	NumHyper() int
	// addParameters registers the parameters.
	addParameters(pars *mcmc.Parameters, onChange func())
}

// ZeroMean is the zero mean function.
type ZeroMean struct{}

// Name returns the mean function name.
func (ZeroMean) Name() string { return "zero" }

// Value returns zero.
func (ZeroMean) Value(x []float64) float64 { return 0 }

// Grad does nothing, there are no parameters.
func (ZeroMean) Grad(x []float64, dst []float64) {}

// NumHyper returns zero.
func (ZeroMean) NumHyper() int { return 0 }

func (ZeroMean) addParameters(pars *mcmc.Parameters, onChange func()) {}

// ConstMean is a constant mean function.
type ConstMean struct {
	c float64
}

// NewConstMean creates a constant mean function.
func NewConstMean(c float64) *ConstMean {
	return &ConstMean{c: c}
}

// Name returns the mean function name.
func (m *ConstMean) Name() string {
	return "const"
}

// Value returns the constant.
func (m *ConstMean) Value(x []float64) float64 {
	return m.c
}

// Grad stores the derivative with respect to the constant.
func (m *ConstMean) Grad(x []float64, dst []float64) {
	dst[0] = 1
}

// NumHyper returns one.
func (m *ConstMean) NumHyper() int {
	return 1
}

func (m *ConstMean) addParameters(pars *mcmc.Parameters, onChange func()) {
	c := mcmc.NewFloatParameter(&m.c, "mean_c", mcmc.MeanGroup)
	c.SetPrior(mcmc.NewNormalPrior(0, 10))
	c.SetOnChange(onChange)
	pars.Append(c)
}
