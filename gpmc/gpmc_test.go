package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/checkpoint"
	"bitbucket.org/Davydov/gpmc/gp"
	"bitbucket.org/Davydov/gpmc/mcmc"
)

func init() {
	logging.SetLevel(logging.WARNING, "gpmc")
	logging.SetLevel(logging.WARNING, "gp")
	logging.SetLevel(logging.WARNING, "mcmc")
	logging.SetLevel(logging.WARNING, "checkpoint")
}

func testData(tst *testing.T) *gp.Data {
	data, err := gp.NewData1D([]float64{0, 1, 2, 3, 4}, []float64{1, 3, 2, 0, 1})
	require.NoError(tst, err)
	return data
}

func testModelSettings(tst *testing.T, method string) *modelSettings {
	return &modelSettings{
		method: method,
		data:   testData(tst),
		kernel: "se",
		mean:   "const",
		lik:    "gauss",
		ell:    1,
		sf:     1,
		noise:  0.5,
	}
}

func TestCreateModel(tst *testing.T) {
	ms := testModelSettings(tst, "hmc")
	m, err := ms.createModel()
	require.NoError(tst, err)
	require.IsType(tst, &gp.GPE{}, m)

	ms = testModelSettings(tst, "lss")
	ms.kernel = "mat32"
	ms.lik = "poisson"
	m, err = ms.createModel()
	require.NoError(tst, err)
	require.IsType(tst, &gp.GPMC{}, m)

	ms = testModelSettings(tst, "ess")
	ms.lik = "poisson"
	_, err = ms.createModel()
	require.Error(tst, err)

	ms = testModelSettings(tst, "hmc")
	ms.kernel = "periodic"
	_, err = ms.createModel()
	require.Error(tst, err)
}

func testSamplerSettings(m model, method string) *samplerSettings {
	settings := mcmc.NewSettings()
	settings.Iterations = 50
	return &samplerSettings{
		method:       method,
		model:        m,
		settings:     settings,
		eps:          0.05,
		lMin:         2,
		lMax:         4,
		aux:          0.1,
		width:        1,
		latentSweeps: 1,
		report:       10,
		quiet:        true,
		seed:         1,
	}
}

func TestSamplers(tst *testing.T) {
	for _, method := range []string{"hmc", "ess", "lss"} {
		ms := testModelSettings(tst, method)
		m, err := ms.createModel()
		require.NoError(tst, err)
		ss := testSamplerSettings(m, method)
		sampler, err := ss.create()
		require.NoError(tst, err, method)
		trace, err := sampler.Run()
		require.NoError(tst, err, method)
		_, c := trace.Dims()
		require.Equal(tst, 50, c, method)
		require.Equal(tst, 50, sampler.Summary().Iterations, method)
	}

	// wrong model for the sampler
	ms := testModelSettings(tst, "lss")
	m, err := ms.createModel()
	require.NoError(tst, err)
	_, err = testSamplerSettings(m, "hmc").create()
	require.Error(tst, err)

	// invalid settings
	ms = testModelSettings(tst, "hmc")
	m, err = ms.createModel()
	require.NoError(tst, err)
	ss := testSamplerSettings(m, "hmc")
	ss.lMin = 10
	_, err = ss.create()
	require.Error(tst, err)
}

func TestCheckpointResume(tst *testing.T) {
	db, err := checkpoint.Open(filepath.Join(tst.TempDir(), "cp.db"))
	require.NoError(tst, err)
	defer db.Close()

	ms := testModelSettings(tst, "lss")
	m, err := ms.createModel()
	require.NoError(tst, err)
	cpIO := checkpoint.NewCheckpointIO(db, []byte("test"), "lss", 1000)
	ss := testSamplerSettings(m, "lss")
	sampler, err := ss.create()
	require.NoError(tst, err)
	sampler.SetCheckpointIO(cpIO)
	_, err = sampler.Run()
	require.NoError(tst, err)
	final := m.GetFloatParameters().Map()
	latent := m.(*gp.GPMC).Latent()

	m2, err := testModelSettings(tst, "lss").createModel()
	require.NoError(tst, err)
	require.NoError(tst, restoreCheckpoint(cpIO, m2))
	require.Equal(tst, final, m2.GetFloatParameters().Map())
	require.Equal(tst, latent, m2.(*gp.GPMC).Latent())
}

func TestPriorMass(tst *testing.T) {
	var pars mcmc.Parameters
	a, b := 0.0, 0.0
	pa := mcmc.NewFloatParameter(&a, "a", mcmc.MeanGroup)
	pa.SetPrior(mcmc.NewNormalPrior(0, 1))
	pars.Append(pa)
	pars.Append(mcmc.NewFloatParameter(&b, "b", mcmc.NoiseGroup))

	post := []mcmc.ParameterSummary{{Name: "eta1"}, {Name: "a", Mean: 0}, {Name: "b", Mean: 1}}
	mass := priorMass(pars, post)
	require.Len(tst, mass, 1)
	require.InDelta(tst, 0.5, mass["a"], 1e-12)

	rows, names := hyperRows(pars, post)
	require.Equal(tst, []int{1, 2}, rows)
	require.Equal(tst, []string{"a", "b"}, names)
}

func TestSavePlot(tst *testing.T) {
	rng := rand.New(rand.NewSource(1))
	trace := mat.NewDense(2, 100, nil)
	for j := 0; j < 100; j++ {
		trace.Set(0, j, rng.NormFloat64())
		trace.Set(1, j, rng.NormFloat64())
	}
	fn := filepath.Join(tst.TempDir(), "trace.png")
	require.NoError(tst, savePlot(trace, []int{0, 1}, []string{"a", "b"}, fn))
	st, err := os.Stat(fn)
	require.NoError(tst, err)
	require.True(tst, st.Size() > 0)
}
