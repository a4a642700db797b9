package main

import "bitbucket.org/Davydov/gpmc/mcmc"

// RunSummary is storing gpmc run summary information.
type RunSummary struct {
	// Version stores gpmc version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// Observations is the number of data points.
	Observations int `json:"observations"`
	// Model describes the model.
	Model ModelSummary `json:"model"`
	// Sampler is the sampler summary.
	Sampler mcmc.Summary `json:"sampler"`
	// Final are the parameter values of the last accepted state.
	Final map[string]float64 `json:"final"`
	// PriorMass is the prior CDF at the posterior mean.
	PriorMass map[string]float64 `json:"priorMass,omitempty"`
	// Time is the sampling time in seconds.
	Time float64 `json:"samplingTime"`
	// TotalTime is the total running time in seconds.
	TotalTime float64 `json:"time"`
}

// ModelSummary describes the model.
type ModelSummary struct {
	Kernel     string `json:"kernel"`
	Mean       string `json:"mean"`
	Likelihood string `json:"likelihood,omitempty"`
}
