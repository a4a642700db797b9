package mcmc

import (
	"math/rand"
	"testing"
)

func TestRetained(tst *testing.T) {
	for _, c := range []struct {
		iter, burn, thin, retained int
	}{
		{100, 11, 3, 30},
		{100, 1, 1, 100},
		{100, 100, 1, 1},
		{100, 1, 200, 1},
		{10, 2, 4, 3},
	} {
		s := NewSettings()
		s.Iterations, s.Burn, s.Thin = c.iter, c.burn, c.thin
		if err := s.Validate(); err != nil {
			tst.Error("Error: ", err)
		}
		if r := s.Retained(); r != c.retained {
			tst.Errorf("%v: expected %d retained, got %d", c, c.retained, r)
		}

		m := newToyModel(1, 1, 1)
		settings := NewHMCSettings()
		settings.Settings = *s
		h := NewHMC(m, settings, rand.New(rand.NewSource(1)))
		h.Quiet = true
		trace, err := h.Run()
		if err != nil {
			tst.Fatal("Error: ", err)
		}
		if _, cols := trace.Dims(); cols != c.retained {
			tst.Errorf("%v: expected %d columns, got %d", c, c.retained, cols)
		}
	}
}

func TestValidate(tst *testing.T) {
	bad := []func(*LSSSettings){
		func(s *LSSSettings) { s.Iterations = 0 },
		func(s *LSSSettings) { s.Burn = 0 },
		func(s *LSSSettings) { s.Burn = s.Iterations + 1 },
		func(s *LSSSettings) { s.Thin = 0 },
		func(s *LSSSettings) { s.MaxShrink = 0 },
		func(s *LSSSettings) { s.Mask = Mask{} },
		func(s *LSSSettings) { s.AuxNoise = 0 },
		func(s *LSSSettings) { s.Width = -1 },
		func(s *LSSSettings) { s.LatentSweeps = -1 },
	}
	for i, f := range bad {
		s := NewLSSSettings()
		f(s)
		if err := s.Validate(); err == nil {
			tst.Errorf("Invalid settings %d were accepted", i)
		}
	}
	if err := NewLSSSettings().Validate(); err != nil {
		tst.Error("Error: ", err)
	}

	h := NewHMCSettings()
	h.Eps = 0
	if err := h.Validate(); err == nil {
		tst.Error("Zero step size was accepted")
	}
	h = NewHMCSettings()
	h.LMin, h.LMax = 5, 4
	if err := h.Validate(); err == nil {
		tst.Error("lmin > lmax was accepted")
	}
	if err := NewHMCSettings().Validate(); err != nil {
		tst.Error("Error: ", err)
	}
}

func TestEmptyParameters(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	settings := NewHMCSettings()
	settings.Iterations = 10
	settings.Mask = Mask{Kernel: true}
	h := NewHMC(m, settings, rand.New(rand.NewSource(1)))
	h.Quiet = true
	if _, err := h.Run(); err == nil {
		tst.Error("Sampling without parameters should fail")
	}
}
