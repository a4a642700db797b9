package main

import (
	"fmt"
	"math/rand"
	"os"

	"bitbucket.org/Davydov/gpmc/gp"
	"bitbucket.org/Davydov/gpmc/mcmc"
)

// samplerSettings stores settings for creation of a new sampler.
type samplerSettings struct {
	method string
	model  model

	settings *mcmc.Settings

	eps        float64
	lMin, lMax int

	aux          float64
	width        float64
	latentSweeps int

	report int
	quiet  bool
	trajF  *os.File

	seed int64
}

// newSamplerSettings creates a new samplerSettings from
// the command line parameters (global variables).
func newSamplerSettings(m model) *samplerSettings {
	settings := mcmc.NewSettings()
	settings.Iterations = *iterations
	settings.Burn = *burn
	settings.Thin = *thin
	settings.MaxShrink = *maxShrink
	settings.Mask = mcmc.Mask{
		Mean:   !*noMean,
		Kernel: !*noKern,
		Noise:  !*noNoise,
		Lik:    !*noLik,
	}
	return &samplerSettings{
		method: *method,
		model:  m,

		settings: settings,

		eps:  *eps,
		lMin: *lMin,
		lMax: *lMax,

		aux:          *aux,
		width:        *width,
		latentSweeps: *lsweeps,

		report: *report,
		quiet:  *quiet,
		trajF:  trajF,

		seed: *seed,
	}
}

// create creates and initializes a new sampler from samplerSettings.
func (s *samplerSettings) create() (mcmc.Sampler, error) {
	sampler, err := s.getSampler(rand.New(rand.NewSource(s.seed)))
	if err != nil {
		return nil, err
	}
	log.Infof("Using %s sampler.", s.method)
	log.Infof("Iterations: %d, burn-in: %d, thinning: %d (%d retained)",
		s.settings.Iterations, s.settings.Burn, s.settings.Thin, s.settings.Retained())

	if !s.quiet {
		sampler.SetTrajectoryOutput(s.trajF)
	} else {
		sampler.SetTrajectoryOutput(nil)
	}
	sampler.SetReportPeriod(s.report)
	return sampler, nil
}

// getSampler returns a sampler from settings.
func (s *samplerSettings) getSampler(rng *rand.Rand) (mcmc.Sampler, error) {
	switch s.method {
	case "hmc":
		m, ok := s.model.(*gp.GPE)
		if !ok {
			return nil, fmt.Errorf("%s requires the exact GP model", s.method)
		}
		hs := mcmc.NewHMCSettings()
		hs.Settings = *s.settings
		hs.Eps = s.eps
		hs.LMin = s.lMin
		hs.LMax = s.lMax
		if err := hs.Validate(); err != nil {
			return nil, err
		}
		log.Infof("Step size: %v, leapfrog steps: %d-%d", hs.Eps, hs.LMin, hs.LMax)
		return mcmc.NewHMC(m, hs, rng), nil
	case "ess":
		m, ok := s.model.(*gp.GPE)
		if !ok {
			return nil, fmt.Errorf("%s requires the exact GP model", s.method)
		}
		if err := s.settings.Validate(); err != nil {
			return nil, err
		}
		return mcmc.NewESS(m, s.settings, rng), nil
	case "lss":
		m, ok := s.model.(*gp.GPMC)
		if !ok {
			return nil, fmt.Errorf("%s requires the latent GP model", s.method)
		}
		ls := mcmc.NewLSSSettings()
		ls.Settings = *s.settings
		ls.AuxNoise = s.aux
		ls.Width = s.width
		ls.LatentSweeps = s.latentSweeps
		if err := ls.Validate(); err != nil {
			return nil, err
		}
		log.Infof("Auxiliary noise: %v, slice width: %v, latent sweeps: %d", ls.AuxNoise, ls.Width, ls.LatentSweeps)
		return mcmc.NewLSS(m, ls, rng), nil
	}
	return nil, fmt.Errorf("Unknown sampling method: %s", s.method)
}
