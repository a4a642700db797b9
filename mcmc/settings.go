package mcmc

import (
	"github.com/pkg/errors"
)

// Settings are the settings shared by all the samplers.
type Settings struct {
	// Iterations is the number of iterations.
	Iterations int
	// Burn is the (1-based) index of the first retained
	// iteration.
	Burn int
	// Thin is the thinning stride.
	Thin int
	// Mask selects the parameter groups to sample.
	Mask Mask
	// MaxShrink is the maximum number of proposals per iteration
	// for the slice samplers.
	MaxShrink int
}

// NewSettings returns the default settings.
func NewSettings() *Settings {
	return &Settings{
		Iterations: 1000,
		Burn:       1,
		Thin:       1,
		Mask:       AllGroups(),
		MaxShrink:  10000,
	}
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	switch {
	case s.Iterations < 1:
		return errors.Errorf("number of iterations should be >= 1, got %d", s.Iterations)
	case s.Burn < 1 || s.Burn > s.Iterations:
		return errors.Errorf("burn-in should be in [1, %d], got %d", s.Iterations, s.Burn)
	case s.Thin < 1:
		return errors.Errorf("thinning should be >= 1, got %d", s.Thin)
	case s.MaxShrink < 1:
		return errors.Errorf("maximum shrink count should be >= 1, got %d", s.MaxShrink)
	case s.Mask == (Mask{}):
		return errors.New("no parameter groups selected")
	}
	return nil
}

// Retained returns the number of iterations retained after burn-in
// and thinning.
func (s *Settings) Retained() int {
	return (s.Iterations-s.Burn)/s.Thin + 1
}

// HMCSettings are the Hamiltonian sampler settings.
type HMCSettings struct {
	Settings
	// Eps is the leapfrog step size.
	Eps float64
	// LMin and LMax bound the number of leapfrog steps.
	LMin, LMax int
}

// NewHMCSettings returns the default Hamiltonian sampler settings.
func NewHMCSettings() *HMCSettings {
	return &HMCSettings{
		Settings: *NewSettings(),
		Eps:      0.1,
		LMin:     5,
		LMax:     15,
	}
}

// Validate checks the settings.
func (s *HMCSettings) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	switch {
	case !(s.Eps > 0):
		return errors.Errorf("step size should be > 0, got %v", s.Eps)
	case s.LMin < 1 || s.LMin > s.LMax:
		return errors.Errorf("leapfrog steps should satisfy 1 <= lmin <= lmax, got %d, %d", s.LMin, s.LMax)
	}
	return nil
}

// LSSSettings are the latent slice sampler settings.
type LSSSettings struct {
	Settings
	// AuxNoise is the target variance of a latent value given
	// its surrogate observation.
	AuxNoise float64
	// Width is the width of the hyperparameter slice bracket.
	Width float64
	// LatentSweeps is the number of elliptical slice updates of
	// the latent values per iteration.
	LatentSweeps int
}

// NewLSSSettings returns the default latent slice sampler settings.
func NewLSSSettings() *LSSSettings {
	return &LSSSettings{
		Settings:     *NewSettings(),
		AuxNoise:     0.1,
		Width:        1,
		LatentSweeps: 1,
	}
}

// Validate checks the settings.
func (s *LSSSettings) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	switch {
	case !(s.AuxNoise > 0):
		return errors.Errorf("auxiliary noise should be > 0, got %v", s.AuxNoise)
	case !(s.Width > 0):
		return errors.Errorf("slice width should be > 0, got %v", s.Width)
	case s.LatentSweeps < 0:
		return errors.Errorf("number of latent sweeps should be >= 0, got %d", s.LatentSweeps)
	}
	return nil
}
