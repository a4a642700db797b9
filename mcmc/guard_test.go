package mcmc

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestGuardNonFinite(tst *testing.T) {
	m := newToyModel(2, 1, 1)
	var g Guard
	called := false
	eval := func() (float64, []float64, error) {
		called = true
		return 0, nil, nil
	}
	for _, x := range [][]float64{{math.NaN(), 0}, {0, math.Inf(1)}, {math.Inf(-1), 1}} {
		res, err := g.Eval(m.pars, x, eval)
		if err != nil {
			tst.Error("Error: ", err)
		}
		if res.Ok() || !math.IsInf(res.LogTarget, -1) {
			tst.Errorf("Non-finite candidate %v was not rejected: %v", x, res)
		}
	}
	if called {
		tst.Error("Model was evaluated for non-finite parameters")
	}
	if m.x[0] != 0 || m.x[1] != 0 {
		tst.Error("Parameters changed for non-finite candidates:", m.x)
	}
	if g.Calls != 3 {
		tst.Errorf("Expected 3 calls, got %d", g.Calls)
	}
}

func TestGuardDomainError(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	m.admissible = func(x []float64) bool { return x[0] < 1 }
	var g Guard
	eval := func() (float64, []float64, error) {
		return m.UpdateTargetGrad(AllGroups())
	}

	res, err := g.Eval(m.pars, []float64{2}, eval)
	if err != nil {
		tst.Error("Error: ", err)
	}
	if res.Ok() {
		tst.Error("Inadmissible candidate was accepted")
	}
	if m.x[0] != 2 {
		tst.Error("Candidate was not committed")
	}

	res, err = g.Eval(m.pars, []float64{0.5}, eval)
	if err != nil {
		tst.Error("Error: ", err)
	}
	if !res.Ok() || len(res.Grad) != 1 {
		tst.Error("Admissible candidate was rejected:", res)
	}

	pd := func() (float64, []float64, error) {
		return 0, nil, errors.Wrap(ErrNotPositiveDefinite, "kernel matrix")
	}
	res, err = g.Eval(m.pars, []float64{0.5}, pd)
	if err != nil || res.Ok() {
		tst.Error("Factorization failure was not rejected:", res, err)
	}
	if g.Calls != 3 {
		tst.Errorf("Expected 3 calls, got %d", g.Calls)
	}
}

func TestGuardFatal(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	var g Guard
	broken := errors.New("broken model")
	_, err := g.Eval(m.pars, []float64{0}, func() (float64, []float64, error) {
		return 0, nil, broken
	})
	if err == nil {
		tst.Fatal("Fatal error was not returned")
	}
	if !errors.Is(err, broken) {
		tst.Error("Fatal error lost its cause:", err)
	}

	// wrong number of values is a domain error
	res, err := g.Eval(m.pars, []float64{0, 1}, func() (float64, []float64, error) {
		return 0, nil, nil
	})
	if err != nil || res.Ok() {
		tst.Error("Wrong length was not rejected:", res, err)
	}
}

func TestGuardNaN(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	var g Guard
	res, err := g.Eval(m.pars, []float64{0}, func() (float64, []float64, error) {
		return math.NaN(), nil, nil
	})
	if err != nil || res.Ok() {
		tst.Error("NaN target was not rejected:", res, err)
	}
	res, err = g.Eval(m.pars, []float64{0}, func() (float64, []float64, error) {
		return 0, []float64{math.Inf(1)}, nil
	})
	if err != nil || res.Ok() {
		tst.Error("Infinite gradient was not rejected:", res, err)
	}
	res, err = g.Call([]float64{0}, func() (float64, []float64, error) {
		return math.Inf(-1), nil, nil
	})
	if err != nil || !res.Ok() {
		tst.Error("Zero density should be evaluated:", res, err)
	}
}

func TestGuardGradCopy(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	var g Guard
	grad := []float64{1}
	res, err := g.Eval(m.pars, []float64{0}, func() (float64, []float64, error) {
		return 0, grad, nil
	})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	grad[0] = 2
	if res.Grad[0] != 1 {
		tst.Error("Gradient is shared with the model")
	}
}
