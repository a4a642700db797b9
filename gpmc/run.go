package main

import (
	"os"
	"syscall"
	"time"

	"bitbucket.org/Davydov/gpmc/checkpoint"
	"bitbucket.org/Davydov/gpmc/gp"
	"bitbucket.org/Davydov/gpmc/mcmc"
)

// restoreCheckpoint sets the model state from the checkpoint if
// there is one.
func restoreCheckpoint(cpIO *checkpoint.CheckpointIO, m model) error {
	data, err := cpIO.Load()
	if err != nil || data == nil {
		return err
	}
	if err := m.GetFloatParameters().SetFromMap(data.Parameters); err != nil {
		return err
	}
	if lm, ok := m.(*gp.GPMC); ok && len(data.Latent) > 0 {
		if err := lm.SetLatent(data.Latent); err != nil {
			return err
		}
	}
	log.Infof("Starting from checkpoint: %s", m.GetFloatParameters().ValuesString())
	return nil
}

// priorMass returns the prior CDF at the posterior mean of every
// parameter which has a prior.
func priorMass(pars mcmc.Parameters, post []mcmc.ParameterSummary) map[string]float64 {
	res := make(map[string]float64)
	for _, ps := range post {
		par, ok := pars.Get(ps.Name)
		if !ok || par.Prior() == nil {
			continue
		}
		res[ps.Name] = par.Prior().CDF(ps.Mean)
	}
	return res
}

// hyperRows returns indices of the trace rows which correspond to the
// model parameters.
func hyperRows(pars mcmc.Parameters, post []mcmc.ParameterSummary) (rows []int, names []string) {
	for i, ps := range post {
		if _, ok := pars.Get(ps.Name); ok {
			rows = append(rows, i)
			names = append(names, ps.Name)
		}
	}
	return
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	data, err := newData()
	if err != nil {
		log.Fatal(err)
	}
	summary.Observations = data.Len()

	ms := newModelSettings(data)
	m, err := ms.createModel()
	if err != nil {
		log.Fatal(err)
	}
	summary.Model = ModelSummary{
		Kernel: ms.kernel,
		Mean:   ms.mean,
	}
	if ms.method == "lss" {
		summary.Model.Likelihood = ms.lik
	}

	var cpIO *checkpoint.CheckpointIO
	if *checkpointDB != "" {
		db, err := checkpoint.Open(*checkpointDB)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		cpIO = checkpoint.NewCheckpointIO(db, []byte(*checkpointKey), ms.method, *checkpointSeconds)
		if err := restoreCheckpoint(cpIO, m); err != nil {
			log.Fatal("Error reading checkpoint:", err)
		}
	}

	ss := newSamplerSettings(m)
	sampler, err := ss.create()
	if err != nil {
		log.Fatal(err)
	}
	if cpIO != nil {
		sampler.SetCheckpointIO(cpIO)
	}
	sampler.WatchSignals(os.Interrupt, syscall.SIGTERM)

	trace, err := sampler.Run()
	if err != nil {
		log.Fatal(err)
	}
	summary.Sampler = sampler.Summary()

	pars := m.GetFloatParameters()
	summary.Final = pars.Map()
	summary.PriorMass = priorMass(pars, summary.Sampler.Parameters)
	for _, ps := range summary.Sampler.Parameters {
		if _, ok := pars.Get(ps.Name); ok {
			log.Noticef("%s: mean=%f, sd=%f", ps.Name, ps.Mean, ps.SD)
		}
	}

	if *plotF != "" {
		rows, names := hyperRows(pars, summary.Sampler.Parameters)
		if err := savePlot(trace, rows, names, *plotF); err != nil {
			log.Error("Error creating trace plot:", err)
		}
	}

	summary.Time = time.Since(startTime).Seconds()
	return
}
