package mcmc

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned (possibly wrapped) by a model
	// when a parameter value is outside of its domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotPositiveDefinite is returned (possibly wrapped) by a
	// model when a covariance matrix factorization fails.
	ErrNotPositiveDefinite = errors.New("matrix is not positive definite")
	// ErrShrinkExhausted is returned by the slice samplers if the
	// bracket was shrunk too many times without finding a point on
	// the slice.
	ErrShrinkExhausted = errors.New("slice shrinkage limit exceeded")
)

// Status is the outcome of a guarded evaluation.
type Status int

const (
	// Evaluated means the candidate was committed and the target
	// was computed.
	Evaluated Status = iota
	// Rejected means the candidate is outside of the admissible
	// domain.
	Rejected
)

// String returns the status name.
func (s Status) String() string {
	if s == Evaluated {
		return "evaluated"
	}
	return "rejected"
}

// Result is the result of a guarded evaluation.
type Result struct {
	Status    Status
	LogTarget float64
	// Grad is only set when the evaluation computes a gradient.
	Grad []float64
}

// Ok returns true if the candidate was evaluated.
func (r Result) Ok() bool {
	return r.Status == Evaluated
}

// rejected is the result returned for inadmissible candidates.
var rejected = Result{Status: Rejected, LogTarget: math.Inf(-1)}

// EvalFunc computes the log-target (and optionally the gradient) for
// the parameters which were just committed.
type EvalFunc func() (float64, []float64, error)

// Guard commits candidate parameters to a model and evaluates them.
// Domain failures become rejections, any other failure is returned
// as an error.
type Guard struct {
	// Calls is the number of evaluations, including rejected ones.
	Calls int
}

// IsDomainError returns true if the error means that the
// parameters are inadmissible.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotPositiveDefinite)
}

// Eval sets pars to x and calls eval.
func (g *Guard) Eval(pars Parameters, x []float64, eval EvalFunc) (Result, error) {
	g.Calls++
	if !allFinite(x) {
		log.Debugf("rejecting non-finite parameters %v", x)
		return rejected, nil
	}
	if err := pars.SetValues(x); err != nil {
		return g.classify(err)
	}
	return g.check(eval)
}

// Call evaluates a candidate which does not involve parameter
// changes (e.g. latent values).
func (g *Guard) Call(x []float64, eval EvalFunc) (Result, error) {
	g.Calls++
	if !allFinite(x) {
		log.Debugf("rejecting non-finite candidate")
		return rejected, nil
	}
	return g.check(eval)
}

// check calls eval and classifies the outcome.
func (g *Guard) check(eval EvalFunc) (Result, error) {
	l, grad, err := eval()
	if err != nil {
		return g.classify(err)
	}
	if math.IsNaN(l) {
		log.Debugf("rejecting candidate, log-target is NaN")
		return rejected, nil
	}
	if grad != nil {
		if !allFinite(grad) {
			log.Debugf("rejecting candidate, non-finite gradient")
			return rejected, nil
		}
		grad = append([]float64(nil), grad...)
	}
	return Result{Status: Evaluated, LogTarget: l, Grad: grad}, nil
}

// classify converts an error into a rejection or a fatal error.
func (g *Guard) classify(err error) (Result, error) {
	if IsDomainError(err) {
		log.Debugf("rejecting parameters: %v", err)
		return rejected, nil
	}
	return Result{}, errors.Wrap(err, "fatal model error")
}
