package gp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// cholL returns the lower Cholesky factor of cov.
func cholL(cov mat.Symmetric, n int) (*mat.TriDense, error) {
	if r := cov.SymmetricDim(); r != n {
		return nil, errors.Wrapf(mcmc.ErrInvalidArgument, "covariance dimension %d, vector length %d", r, n)
	}
	var chol mat.Cholesky
	if err := factorize(&chol, cov, "whitening covariance"); err != nil {
		return nil, err
	}
	var l mat.TriDense
	chol.LTo(&l)
	return &l, nil
}

// Whiten returns L^-1 x, where L L^T = cov.
func Whiten(cov mat.Symmetric, x []float64) ([]float64, error) {
	l, err := cholL(cov, len(x))
	if err != nil {
		return nil, err
	}
	var eta mat.VecDense
	if err := eta.SolveVec(l, mat.NewVecDense(len(x), x)); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, errors.Wrap(mcmc.ErrNotPositiveDefinite, err.Error())
		}
	}
	return eta.RawVector().Data, nil
}

// Unwhiten returns L eta, where L L^T = cov.
func Unwhiten(cov mat.Symmetric, eta []float64) ([]float64, error) {
	l, err := cholL(cov, len(eta))
	if err != nil {
		return nil, err
	}
	var x mat.VecDense
	x.MulVec(l, mat.NewVecDense(len(eta), eta))
	return x.RawVector().Data, nil
}
