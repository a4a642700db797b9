package main

import (
	"fmt"
	"os"

	"bitbucket.org/Davydov/gpmc/gp"
	"bitbucket.org/Davydov/gpmc/mcmc"
)

// model is a GP model which can be sampled by at least one of the
// samplers.
type model interface {
	GetFloatParameters() mcmc.Parameters
}

// modelSettings stores settings for creating a new model.
type modelSettings struct {
	method string
	data   *gp.Data

	kernel string
	mean   string
	lik    string

	ell   float64
	sf    float64
	noise float64
}

// newData reads the data file.
func newData() (*gp.Data, error) {
	f, err := os.Open(*dataFileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gp.ReadData(f)
}

// newModelSettings initializes modelSettings from global
// variables (command-line arguments).
func newModelSettings(data *gp.Data) *modelSettings {
	return &modelSettings{
		method: *method,
		data:   data,

		kernel: *kernel,
		mean:   *mean,
		lik:    *lik,

		ell:   *ell,
		sf:    *sf,
		noise: *noise,
	}
}

// getKernel returns the covariance function.
func (ms *modelSettings) getKernel() (gp.Kernel, error) {
	switch ms.kernel {
	case "se":
		log.Info("Using squared exponential kernel")
		return gp.NewSE(ms.ell, ms.sf), nil
	case "mat32":
		log.Info("Using Matern 3/2 kernel")
		return gp.NewMatern32(ms.ell, ms.sf), nil
	}
	return nil, fmt.Errorf("Unknown kernel: %s", ms.kernel)
}

// getMean returns the mean function.
func (ms *modelSettings) getMean() (gp.Mean, error) {
	switch ms.mean {
	case "zero":
		return gp.ZeroMean{}, nil
	case "const":
		log.Info("Using constant mean")
		return gp.NewConstMean(0), nil
	}
	return nil, fmt.Errorf("Unknown mean function: %s", ms.mean)
}

// getLikelihood returns the likelihood of the latent model.
func (ms *modelSettings) getLikelihood() (gp.Likelihood, error) {
	switch ms.lik {
	case "gauss":
		log.Info("Using normal likelihood")
		return gp.NewGaussLik(ms.noise), nil
	case "poisson":
		log.Info("Using Poisson likelihood")
		return gp.PoissonLik{}, nil
	}
	return nil, fmt.Errorf("Unknown likelihood: %s", ms.lik)
}

// createModel creates a new model from modelSettings. The latent
// model is used by the latent slice sampler, the exact model by the
// others.
func (ms *modelSettings) createModel() (model, error) {
	k, err := ms.getKernel()
	if err != nil {
		return nil, err
	}
	m, err := ms.getMean()
	if err != nil {
		return nil, err
	}

	var res model
	if ms.method == "lss" {
		l, err := ms.getLikelihood()
		if err != nil {
			return nil, err
		}
		log.Info("Using latent GP model")
		res = gp.NewGPMC(ms.data, m, k, l)
	} else {
		if ms.lik != "gauss" {
			return nil, fmt.Errorf("%s likelihood requires the lss sampler", ms.lik)
		}
		log.Info("Using exact GP model")
		res = gp.NewGPE(ms.data, m, k, ms.noise)
	}
	log.Infof("Model has %d parameters.", len(res.GetFloatParameters()))
	return res, nil
}
