package mcmc

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// surrogateCap bounds the surrogate noise variance relative to the
// prior variance. A latent value whose prior variance is close to or
// below the auxiliary noise level gets a weakly informative surrogate
// with variance surrogateCap*k.
const surrogateCap = 10

// surrogateVariance returns the surrogate noise variance s such that
// 1/k + 1/s = 1/aux. The precision 1/s is bounded from below by
// 1/(surrogateCap*k), so s stays finite and continuous in k.
func surrogateVariance(k, aux float64) float64 {
	p := 1/aux - 1/k
	if minP := 1 / (surrogateCap * k); p < minP {
		p = minP
	}
	return 1 / p
}

// surrogate holds the surrogate data model for latent values
// f ~ N(0, K): g ~ N(f, S) with diagonal S.
type surrogate struct {
	k *mat.SymDense
	// s is the diagonal of S
	s []float64
	// chol is the Cholesky factorization of K + S.
	chol mat.Cholesky
	// r is the covariance of f given g, S - S (K+S)^-1 S.
	r *mat.SymDense
}

// ignoreCondition drops the ill-conditioning warnings of gonum.
func ignoreCondition(err error) error {
	if _, ok := err.(mat.Condition); ok {
		return nil
	}
	return err
}

// newSurrogate builds the surrogate model for covariance k and the
// auxiliary noise level aux.
func newSurrogate(k *mat.SymDense, aux float64) (*surrogate, error) {
	n := k.SymmetricDim()
	sur := &surrogate{
		k: k,
		s: make([]float64, n),
	}
	ks := mat.NewSymDense(n, nil)
	ks.CopySym(k)
	for i := range sur.s {
		kii := k.At(i, i)
		if !(kii > 0) || math.IsInf(kii, 0) {
			return nil, errors.Wrapf(ErrNotPositiveDefinite, "prior variance of latent value %d is %v", i, kii)
		}
		sur.s[i] = surrogateVariance(kii, aux)
		ks.SetSym(i, i, kii+sur.s[i])
	}
	if ok := sur.chol.Factorize(ks); !ok {
		return nil, errors.Wrap(ErrNotPositiveDefinite, "surrogate marginal covariance")
	}

	// S - S (K+S)^-1 S = S (K+S)^-1 K, the latter is stable for
	// both small and large S.
	var x mat.Dense
	if err := ignoreCondition(sur.chol.SolveTo(&x, k)); err != nil {
		return nil, errors.Wrap(ErrNotPositiveDefinite, err.Error())
	}
	sur.r = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sur.r.SetSym(i, j, 0.5*(sur.s[i]*x.At(i, j)+sur.s[j]*x.At(j, i)))
		}
	}
	return sur, nil
}

// draw draws surrogate data g ~ N(f, S).
func (sur *surrogate) draw(rng *rand.Rand, f []float64) []float64 {
	g := make([]float64, len(f))
	for i := range g {
		g[i] = f[i] + math.Sqrt(sur.s[i])*rng.NormFloat64()
	}
	return g
}

// posterior returns the mean of f given g, R S^-1 g = K (K+S)^-1 g,
// and the log density of g under its marginal N(0, K+S).
func (sur *surrogate) posterior(g []float64) ([]float64, float64, error) {
	n := len(g)
	gv := mat.NewVecDense(n, g)
	var a mat.VecDense
	if err := ignoreCondition(sur.chol.SolveVecTo(&a, gv)); err != nil {
		return nil, 0, errors.Wrap(ErrNotPositiveDefinite, err.Error())
	}
	var m mat.VecDense
	m.MulVec(sur.k, &a)
	logp := -0.5*mat.Dot(gv, &a) - 0.5*sur.chol.LogDet() - 0.5*float64(n)*math.Log(2*math.Pi)
	return m.RawVector().Data, logp, nil
}
