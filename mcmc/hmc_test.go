package mcmc

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func newTestHMC(m Model, iter int, seed int64) *HMC {
	settings := NewHMCSettings()
	settings.Iterations = iter
	settings.Eps = 0.2
	h := NewHMC(m, settings, rand.New(rand.NewSource(seed)))
	h.Quiet = true
	return h
}

func TestHMCPosterior(tst *testing.T) {
	m := newToyModel(2, 1, 1)
	h := newTestHMC(m, 5000, 1)
	h.hs.Burn = 500
	trace, err := h.Run()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	r, c := trace.Dims()
	if r != 2 || c != 4501 {
		tst.Fatalf("Wrong trace dimensions: %dx%d", r, c)
	}
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, trace)
		mean, variance := stat.MeanVariance(row, nil)
		if math.Abs(mean-0.5) > 0.1 {
			tst.Errorf("x%d: expected mean 0.5, got %f", i+1, mean)
		}
		if math.Abs(variance-0.5) > 0.1 {
			tst.Errorf("x%d: expected variance 0.5, got %f", i+1, variance)
		}
	}
	s := h.Summary()
	if s.AcceptanceRate < 0.5 || s.AcceptanceRate > 1 {
		tst.Error("Unexpected acceptance rate:", s.AcceptanceRate)
	}
	if s.AverageSteps < 5 || s.AverageSteps > 15 {
		tst.Error("Unexpected average number of steps:", s.AverageSteps)
	}
}

func TestHMCSmallStep(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	h := newTestHMC(m, 1000, 2)
	h.hs.Eps = 1e-4
	h.hs.LMin = 1
	h.hs.LMax = 1
	if _, err := h.Run(); err != nil {
		tst.Fatal("Error: ", err)
	}
	if rate := h.Summary().AcceptanceRate; rate <= 0.99 {
		tst.Error("Acceptance rate is too low:", rate)
	}
	if steps := h.Summary().AverageSteps; steps != 1 {
		tst.Error("Expected one leapfrog step, got", steps)
	}
}

func TestHMCAllRejected(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	m.admissible = func(x []float64) bool { return x[0] == 0 }
	h := newTestHMC(m, 50, 3)
	trace, err := h.Run()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	_, c := trace.Dims()
	if c != 50 {
		tst.Fatal("Expected 50 columns, got", c)
	}
	for j := 0; j < c; j++ {
		if trace.At(0, j) != 0 {
			tst.Errorf("Column %d moved away from the starting point: %v", j, trace.At(0, j))
		}
	}
	if h.Summary().AcceptanceRate != 0 {
		tst.Error("Expected zero acceptance rate")
	}
	if m.x[0] != 0 {
		tst.Error("Model was not restored to the accepted state:", m.x[0])
	}
}

func TestHMCInadmissibleStart(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	m.admissible = func(x []float64) bool { return false }
	h := newTestHMC(m, 10, 4)
	if _, err := h.Run(); err == nil {
		tst.Error("Inadmissible starting point was accepted")
	}
}

func TestHMCRestoresModel(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	h := newTestHMC(m, 100, 5)
	trace, err := h.Run()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	_, c := trace.Dims()
	if m.x[0] != trace.At(0, c-1) {
		tst.Errorf("Model value %v differs from the last sample %v", m.x[0], trace.At(0, c-1))
	}
}

func TestHMCTrajectory(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	h := newTestHMC(m, 25, 6)
	h.Quiet = false
	var buf bytes.Buffer
	h.SetTrajectoryOutput(&buf)
	h.SetReportPeriod(10)
	if _, err := h.Run(); err != nil {
		tst.Fatal("Error: ", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header, iterations 0, 10, 20 and the last one
	if len(lines) != 5 {
		tst.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "iteration\ttarget\tx1" {
		tst.Error("Wrong header:", lines[0])
	}
	if !strings.HasPrefix(lines[4], "24\t") {
		tst.Error("Last iteration was not reported:", lines[4])
	}
}

func TestHMCSignal(tst *testing.T) {
	m := newToyModel(1, 1, 1)
	h := newTestHMC(m, 1000, 7)
	h.sig = make(chan os.Signal, 1)
	h.sig <- os.Interrupt
	trace, err := h.Run()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if _, c := trace.Dims(); c != 1 {
		tst.Error("Expected a single retained iteration, got", c)
	}
	if h.Summary().Iterations != 1 {
		tst.Error("Expected a single iteration, got", h.Summary().Iterations)
	}
}

func BenchmarkHMC(b *testing.B) {
	m := newToyModel(5, 1, 1)
	for i := 0; i < b.N; i++ {
		h := newTestHMC(m, 100, int64(i))
		if _, err := h.Run(); err != nil {
			b.Error("Error: ", err)
		}
	}
}
