package mcmc

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Stats are the counters collected during a run. They are only used
// for reporting.
type Stats struct {
	// Iterations is the number of completed iterations.
	Iterations int
	// Accepted is the number of accepted proposals (HMC).
	Accepted int
	// Steps is the total number of leapfrog steps (HMC).
	Steps int
	// Proposals is the total number of slice proposals (ESS, LSS).
	Proposals int
}

// ParameterSummary is the posterior summary of one dimension.
type ParameterSummary struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
}

// Summary is the run summary.
type Summary struct {
	// Method is the sampler name.
	Method string `json:"method"`
	// Iterations is the number of completed iterations.
	Iterations int `json:"iterations"`
	// Burn is the first retained iteration.
	Burn int `json:"burn"`
	// Thin is the thinning stride.
	Thin int `json:"thin"`
	// Calls is the number of target evaluations.
	Calls int `json:"calls"`
	// AcceptanceRate is accepted/iterations for HMC and
	// iterations/proposals for the slice samplers.
	AcceptanceRate float64 `json:"acceptanceRate"`
	// AverageSteps is the average number of leapfrog steps.
	AverageSteps float64 `json:"averageSteps,omitempty"`
	// Proposals is the total number of slice proposals.
	Proposals int `json:"proposals,omitempty"`
	// LatentProposals is the total number of latent elliptical
	// slice proposals (LSS).
	LatentProposals int `json:"latentProposals,omitempty"`
	// LogTarget is the log-target of the final state.
	LogTarget float64 `json:"logTarget"`
	// Parameters are per-dimension posterior summaries.
	Parameters []ParameterSummary `json:"parameters,omitempty"`
}

// Summarize computes mean and standard deviation of every row of
// the trace. names may be shorter than the number of rows, the
// remaining rows get empty names.
func Summarize(trace *mat.Dense, names []string) []ParameterSummary {
	if trace == nil {
		return nil
	}
	r, c := trace.Dims()
	res := make([]ParameterSummary, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, trace)
		if i < len(names) {
			res[i].Name = names[i]
		}
		if c > 1 {
			res[i].Mean, res[i].SD = stat.MeanStdDev(row, nil)
		} else {
			res[i].Mean = row[0]
		}
	}
	return res
}

// report logs the summary.
func (s Summary) report() {
	log.Infof("%s finished: %d iterations, burn-in %d, thinning %d", s.Method, s.Iterations, s.Burn, s.Thin)
	if s.AverageSteps > 0 {
		log.Infof("Average leapfrog steps: %.2f", s.AverageSteps)
	}
	if s.Proposals > 0 {
		log.Infof("Slice proposals: %d", s.Proposals)
	}
	if s.LatentProposals > 0 {
		log.Infof("Latent slice proposals: %d", s.LatentProposals)
	}
	log.Infof("Target function calls: %d", s.Calls)
	log.Noticef("Acceptance rate: %.2f%%", 100*s.AcceptanceRate)
}
