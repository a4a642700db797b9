// Package gp implements Gaussian process models which can be sampled
// by the mcmc package: GPE, the exact GP regression model with
// normal noise, and GPMC, the GP with latent function values and an
// arbitrary likelihood.
package gp

import (
	"math"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/mcmc"
)

// log is the global logging variable.
var log = logging.MustGetLogger("gp")

// Jitter is added to the kernel matrix diagonal.
const Jitter = 1e-8

// base contains the mean function, the kernel and the cached kernel
// matrix shared by the models.
type base struct {
	data       *Data
	mean       Mean
	kernel     Kernel
	parameters mcmc.Parameters

	k      *mat.SymDense
	kDone  bool
	mu     []float64
	muDone bool
}

// addParameters registers the mean and the kernel parameters. The
// callbacks are called after the cached values are invalidated.
func (b *base) addParameters(onMean, onKernel func()) {
	b.mean.addParameters(&b.parameters, func() {
		b.muDone = false
		onMean()
	})
	b.kernel.addParameters(&b.parameters, func() {
		b.kDone = false
		onKernel()
	})
}

// covariance returns the kernel matrix (with jitter) for the current
// kernel parameters. The returned matrix is never modified
// afterwards.
func (b *base) covariance() (*mat.SymDense, error) {
	if b.kDone {
		return b.k, nil
	}
	n := b.data.Len()
	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		xi := b.data.input(i)
		for j := i; j < n; j++ {
			c := b.kernel.Cov(xi, b.data.input(j))
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, errors.Wrapf(mcmc.ErrInvalidArgument, "kernel value %v", c)
			}
			if i == j {
				c += Jitter
			}
			k.SetSym(i, j, c)
		}
	}
	b.k = k
	b.kDone = true
	return k, nil
}

// kernelGrad returns the derivatives of the kernel matrix with respect
// to every kernel hyperparameter.
func (b *base) kernelGrad() []*mat.SymDense {
	n := b.data.Len()
	nh := b.kernel.NumHyper()
	res := make([]*mat.SymDense, nh)
	for h := range res {
		res[h] = mat.NewSymDense(n, nil)
	}
	g := make([]float64, nh)
	for i := 0; i < n; i++ {
		xi := b.data.input(i)
		for j := i; j < n; j++ {
			b.kernel.Grad(xi, b.data.input(j), g)
			for h, v := range g {
				res[h].SetSym(i, j, v)
			}
		}
	}
	return res
}

// meanValues returns the mean function values at the inputs.
func (b *base) meanValues() []float64 {
	if b.muDone {
		return b.mu
	}
	n := b.data.Len()
	if b.mu == nil {
		b.mu = make([]float64, n)
	}
	for i := range b.mu {
		b.mu[i] = b.mean.Value(b.data.input(i))
	}
	b.muDone = true
	return b.mu
}

// meanGrad returns the derivatives of the mean values with respect to
// every mean parameter, one slice per parameter.
func (b *base) meanGrad() [][]float64 {
	n := b.data.Len()
	nh := b.mean.NumHyper()
	res := make([][]float64, nh)
	for h := range res {
		res[h] = make([]float64, n)
	}
	g := make([]float64, nh)
	for i := 0; i < n; i++ {
		b.mean.Grad(b.data.input(i), g)
		for h, v := range g {
			res[h][i] = v
		}
	}
	return res
}

// factorize computes the Cholesky factorization of a covariance
// matrix.
func factorize(chol *mat.Cholesky, a mat.Symmetric, what string) error {
	if ok := chol.Factorize(a); !ok {
		return errors.Wrap(mcmc.ErrNotPositiveDefinite, what)
	}
	return nil
}

// logNormal returns log N(x; 0, A) given the Cholesky factorization
// of A.
func logNormal(chol *mat.Cholesky, x []float64) (float64, error) {
	xv := mat.NewVecDense(len(x), x)
	var a mat.VecDense
	if err := chol.SolveVecTo(&a, xv); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return 0, errors.Wrap(mcmc.ErrNotPositiveDefinite, err.Error())
		}
	}
	return -0.5*mat.Dot(xv, &a) - 0.5*chol.LogDet() - 0.5*float64(len(x))*math.Log(2*math.Pi), nil
}
