package mcmc

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"bitbucket.org/Davydov/gpmc/checkpoint"
)

// Sampler is the interface implemented by all the samplers.
type Sampler interface {
	// SetTrajectoryOutput sets the writer for the trajectory.
	SetTrajectoryOutput(io.Writer)
	// WatchSignals makes the sampler stop after the current
	// iteration when one of the signals is received.
	WatchSignals(...os.Signal)
	// SetReportPeriod sets how often the trajectory is printed.
	SetReportPeriod(period int)
	// SetCheckpointIO enables periodic saving of the chain state.
	SetCheckpointIO(*checkpoint.CheckpointIO)
	// Run runs the chain. It returns the retained samples, one
	// column per retained iteration and one row per dimension.
	Run() (*mat.Dense, error)
	// Summary returns the run summary.
	Summary() Summary
}

// BaseSampler contains the chain driving logic shared by the
// samplers: iteration, burn-in and thinning, trajectory output,
// signals and checkpoints.
type BaseSampler struct {
	name     string
	settings *Settings
	rng      *rand.Rand

	// all is the complete parameter list of the model, parameters
	// are the ones being sampled.
	all        Parameters
	parameters Parameters

	guard Guard
	stats Stats

	i         int
	l         float64
	cur       []float64
	latent    func() []float64
	rows      [][]float64
	repPeriod int
	out       io.Writer
	sig       chan os.Signal
	cpIO      *checkpoint.CheckpointIO

	// Quiet disables the trajectory output.
	Quiet bool
}

func newBaseSampler(name string, settings *Settings, all Parameters, rng *rand.Rand) BaseSampler {
	return BaseSampler{
		name:       name,
		settings:   settings,
		rng:        rng,
		all:        all,
		parameters: all.Masked(settings.Mask),
		repPeriod:  10,
		out:        os.Stdout,
	}
}

// SetTrajectoryOutput sets the writer for the trajectory.
func (s *BaseSampler) SetTrajectoryOutput(w io.Writer) {
	s.out = w
}

// WatchSignals makes the sampler stop after the current iteration
// when one of the signals is received.
func (s *BaseSampler) WatchSignals(sigs ...os.Signal) {
	s.sig = make(chan os.Signal, 1)
	signal.Notify(s.sig, sigs...)
}

// SetReportPeriod sets how often the trajectory is printed.
func (s *BaseSampler) SetReportPeriod(period int) {
	if period < 1 {
		period = 1
	}
	s.repPeriod = period
}

// SetCheckpointIO enables periodic saving of the chain state.
func (s *BaseSampler) SetCheckpointIO(cpIO *checkpoint.CheckpointIO) {
	s.cpIO = cpIO
}

// Calls returns the number of target evaluations so far.
func (s *BaseSampler) Calls() int {
	return s.guard.Calls
}

// PrintHeader prints the trajectory header.
func (s *BaseSampler) PrintHeader(names []string) {
	if s.Quiet || s.out == nil {
		return
	}
	fmt.Fprintf(s.out, "iteration\ttarget")
	for _, n := range names {
		fmt.Fprintf(s.out, "\t%s", n)
	}
	fmt.Fprintln(s.out)
}

// PrintLine prints a trajectory line.
func (s *BaseSampler) PrintLine(row []float64) {
	if s.Quiet || s.out == nil {
		return
	}
	fmt.Fprintf(s.out, "%d\t%f", s.i, s.l)
	for _, v := range row {
		fmt.Fprintf(s.out, "\t%s", strconv.FormatFloat(v, 'f', 6, 64))
	}
	fmt.Fprintln(s.out)
}

// start evaluates the starting point. An inadmissible starting point
// is an error.
func (s *BaseSampler) start(eval EvalFunc) (Result, error) {
	if err := s.settings.Validate(); err != nil {
		return Result{}, err
	}
	if len(s.parameters) == 0 {
		return Result{}, errors.New("no parameters to sample")
	}
	s.cur = s.parameters.Values(nil)
	s.rows = make([][]float64, 0, s.settings.Iterations)
	s.stats = Stats{}
	s.guard = Guard{}
	res, err := s.guard.Eval(s.parameters, s.cur, eval)
	if err != nil {
		return res, err
	}
	if !res.Ok() {
		return res, errors.Errorf("starting point %v is not admissible", s.cur)
	}
	s.l = res.LogTarget
	log.Infof("%s: starting log-target %f", s.name, s.l)
	return res, nil
}

// loop calls step for every iteration and collects the rows.
func (s *BaseSampler) loop(names []string, step func() ([]float64, error)) error {
	s.PrintHeader(names)
	lastReported := -1
Iter:
	for s.i = 0; s.i < s.settings.Iterations; s.i++ {
		row, err := step()
		if err != nil {
			return err
		}
		s.rows = append(s.rows, row)
		s.stats.Iterations++

		if s.i%s.repPeriod == 0 {
			log.Debugf("%d: target=%f", s.i, s.l)
			s.PrintLine(row)
			lastReported = s.i
		}

		if s.cpIO != nil && s.cpIO.Old() {
			s.saveCheckpoint(false)
		}

		select {
		case sg := <-s.sig:
			log.Warningf("Received signal %v, exiting.", sg)
			break Iter
		default:
		}
	}
	if last := len(s.rows) - 1; last >= 0 && last != lastReported {
		s.i = last
		s.PrintLine(s.rows[last])
	}
	s.i = len(s.rows)
	if s.cpIO != nil {
		s.saveCheckpoint(true)
	}
	return nil
}

// restore commits the last accepted state to the model.
func (s *BaseSampler) restore(eval EvalFunc) error {
	res, err := s.guard.Eval(s.parameters, s.cur, eval)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return errors.Errorf("final state %v is not admissible", s.cur)
	}
	s.l = res.LogTarget
	return nil
}

// trace applies burn-in and thinning to the collected rows and
// returns them as columns of a matrix.
func (s *BaseSampler) trace() (*mat.Dense, error) {
	var keep [][]float64
	for i := s.settings.Burn - 1; i < len(s.rows); i += s.settings.Thin {
		keep = append(keep, s.rows[i])
	}
	if len(keep) == 0 {
		return nil, errors.Errorf("no iterations retained (%d done, burn-in %d)", len(s.rows), s.settings.Burn)
	}
	d := len(keep[0])
	m := mat.NewDense(d, len(keep), nil)
	for j, row := range keep {
		m.SetCol(j, row)
	}
	return m, nil
}

// saveCheckpoint saves the current accepted state.
func (s *BaseSampler) saveCheckpoint(final bool) {
	pars := s.all.Map()
	for i, par := range s.parameters {
		pars[par.Name()] = s.cur[i]
	}
	data := &checkpoint.CheckpointData{
		Parameters: pars,
		Likelihood: s.l,
		Iter:       s.i,
		Final:      final,
	}
	if s.latent != nil {
		data.Latent = s.latent()
	}
	// errors are already logged
	_ = s.cpIO.Save(data)
}

// summary fills the common part of the summary.
func (s *BaseSampler) summary(trace *mat.Dense, names []string) Summary {
	return Summary{
		Method:     s.name,
		Iterations: s.stats.Iterations,
		Burn:       s.settings.Burn,
		Thin:       s.settings.Thin,
		Calls:      s.guard.Calls,
		LogTarget:  s.l,
		Parameters: Summarize(trace, names),
	}
}
