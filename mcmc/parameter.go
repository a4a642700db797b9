package mcmc

import (
	"encoding/json"
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
)

// Group is a parameter group. A Mask selects which groups take part
// in sampling.
type Group int

// Parameter groups.
const (
	// MeanGroup contains parameters of the mean function.
	MeanGroup Group = iota
	// KernelGroup contains parameters of the covariance function.
	KernelGroup
	// NoiseGroup contains the observation noise.
	NoiseGroup
	// LikGroup contains parameters of the likelihood.
	LikGroup
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case MeanGroup:
		return "mean"
	case KernelGroup:
		return "kernel"
	case NoiseGroup:
		return "noise"
	case LikGroup:
		return "lik"
	}
	return "unknown"
}

// Mask selects parameter groups.
type Mask struct {
	Mean   bool
	Kernel bool
	Noise  bool
	Lik    bool
}

// AllGroups returns a mask including every group.
func AllGroups() Mask {
	return Mask{Mean: true, Kernel: true, Noise: true, Lik: true}
}

// Includes returns true if the group is selected.
func (m Mask) Includes(g Group) bool {
	switch g {
	case MeanGroup:
		return m.Mean
	case KernelGroup:
		return m.Kernel
	case NoiseGroup:
		return m.Noise
	case LikGroup:
		return m.Lik
	}
	return false
}

// FloatParameter is a named model parameter. It points to the model
// field holding the value; onChange is called after every change so
// the model can invalidate its caches.
type FloatParameter struct {
	*float64
	name     string
	group    Group
	prior    Prior
	onChange func()
}

// NewFloatParameter creates a new parameter without a prior.
func NewFloatParameter(par *float64, name string, group Group) *FloatParameter {
	return &FloatParameter{
		float64: par,
		name:    name,
		group:   group,
	}
}

// Name returns the parameter name.
func (p *FloatParameter) Name() string {
	return p.name
}

// Group returns the parameter group.
func (p *FloatParameter) Group() Group {
	return p.group
}

// SetPrior sets the prior distribution.
func (p *FloatParameter) SetPrior(prior Prior) {
	p.prior = prior
}

// Prior returns the prior distribution or nil.
func (p *FloatParameter) Prior() Prior {
	return p.prior
}

// SetOnChange sets the function called on every value change.
func (p *FloatParameter) SetOnChange(f func()) {
	p.onChange = f
}

// Get returns the value.
func (p *FloatParameter) Get() float64 {
	return *p.float64
}

// Set sets the value.
func (p *FloatParameter) Set(v float64) {
	if *p.float64 == v {
		// do nothing if value has not changed
		return
	}
	*p.float64 = v
	if p.onChange != nil {
		p.onChange()
	}
}

// LogPrior returns the log prior density of the current value. A
// parameter without a prior has an (improper) flat prior.
func (p *FloatParameter) LogPrior() float64 {
	if p.prior == nil {
		return 0
	}
	return p.prior.LogProb(*p.float64)
}

// PriorGrad returns the derivative of the log prior.
func (p *FloatParameter) PriorGrad() float64 {
	if p.prior == nil {
		return 0
	}
	return p.prior.Grad(*p.float64)
}

// String returns the formatted value.
func (p *FloatParameter) String() string {
	return strconv.FormatFloat(*p.float64, 'f', 6, 64)
}

// Parameters is an ordered list of parameters.
type Parameters []*FloatParameter

// Append adds a parameter.
func (p *Parameters) Append(par *FloatParameter) {
	*p = append(*p, par)
}

// Masked returns the parameters belonging to the groups in mask.
func (p Parameters) Masked(mask Mask) (res Parameters) {
	for _, par := range p {
		if mask.Includes(par.group) {
			res = append(res, par)
		}
	}
	return
}

// Names returns parameter names.
func (p Parameters) Names() (s []string) {
	s = make([]string, len(p))
	for i, par := range p {
		s[i] = par.Name()
	}
	return
}

// Values returns parameter values. If v is not nil it is used for
// storage.
func (p Parameters) Values(v []float64) []float64 {
	if v == nil {
		v = make([]float64, len(p))
	}
	for i, par := range p {
		v[i] = par.Get()
	}
	return v
}

// SetValues sets all the values.
func (p Parameters) SetValues(v []float64) error {
	if len(v) != len(p) {
		return errors.Wrapf(ErrInvalidArgument, "expected %d parameter values, got %d", len(p), len(v))
	}
	for i, par := range p {
		par.Set(v[i])
	}
	return nil
}

// Get returns a parameter by name.
func (p Parameters) Get(name string) (*FloatParameter, bool) {
	for _, par := range p {
		if par.Name() == name {
			return par, true
		}
	}
	return nil, false
}

// SetFromMap sets parameter values from a name-value map. Every
// parameter should be present in the map.
func (p Parameters) SetFromMap(m map[string]float64) error {
	for _, par := range p {
		v, ok := m[par.Name()]
		if !ok {
			return errors.Errorf("parameter %s is missing", par.Name())
		}
		par.Set(v)
	}
	return nil
}

// Map returns a name-value map.
func (p Parameters) Map() map[string]float64 {
	m := make(map[string]float64, len(p))
	for _, par := range p {
		m[par.Name()] = par.Get()
	}
	return m
}

// LogPrior returns the sum of the log priors.
func (p Parameters) LogPrior() (lp float64) {
	for _, par := range p {
		lp += par.LogPrior()
	}
	return
}

// PriorGrad returns the gradient of the log prior.
func (p Parameters) PriorGrad() []float64 {
	grad := make([]float64, len(p))
	for i, par := range p {
		grad[i] = par.PriorGrad()
	}
	return grad
}

// Sample draws a value for every parameter from its prior. The
// parameter values are not changed.
func (p Parameters) Sample(rng *rand.Rand) ([]float64, error) {
	v := make([]float64, len(p))
	for i, par := range p {
		if par.prior == nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "parameter %s has no prior", par.Name())
		}
		v[i] = par.prior.Rand(rng)
	}
	return v, nil
}

// NamesString returns tab-separated parameter names.
func (p Parameters) NamesString() (s string) {
	for i, par := range p {
		if i != 0 {
			s += "\t"
		}
		s += par.Name()
	}
	return
}

// ValuesString returns tab-separated parameter values.
func (p Parameters) ValuesString() (s string) {
	for i, par := range p {
		if i != 0 {
			s += "\t"
		}
		s += par.String()
	}
	return
}

// MarshalJSON encodes parameters as a name-value object.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}
