/*
Gpmc samples the posterior of Gaussian process hyperparameters (and
latent function values) using Hamiltonian Monte Carlo, elliptical
slice sampling or surrogate data slice sampling.

The basic usage of gpmc looks like this:

	gpmc hmc data.txt

, where every line of data.txt contains the inputs followed by the
output. This will sample all the hyperparameters of the exact GP
regression model with 1000 iterations.

The latent slice sampler works with the latent GP model and supports
non-normal likelihoods:

	gpmc -iter 5000 -burn 1001 -lik poisson lss counts.txt

To see all the options run:

	gpmc -h
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("gpmc")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("gpmc", "Gaussian process hyperparameter sampler").Version(version)

	method = app.Arg("method", "sampler to use "+
		"(hmc: Hamiltonian Monte Carlo, "+
		"ess: elliptical slice sampling, "+
		"lss: latent surrogate data slice sampling)").Required().Enum("hmc", "ess", "lss")
	dataFileName = app.Arg("data", "data file, whitespace separated inputs followed by the output").Required().ExistingFile()

	// model
	kernel = app.Flag("kernel", "covariance function (se: squared exponential, mat32: Matern 3/2)").Default("se").Enum("se", "mat32")
	mean   = app.Flag("mean", "mean function").Default("zero").Enum("zero", "const")
	lik    = app.Flag("lik", "likelihood for the latent model (lss only)").Default("gauss").Enum("gauss", "poisson")
	ell    = app.Flag("ell", "starting kernel length scale").Default("1").Float64()
	sf     = app.Flag("sf", "starting kernel signal standard deviation").Default("1").Float64()
	noise  = app.Flag("noise", "starting noise standard deviation").Default("0.1").Float64()

	// parameter groups
	noMean  = app.Flag("nomean", "don't sample the mean function parameters").Bool()
	noKern  = app.Flag("nokern", "don't sample the kernel parameters").Bool()
	noNoise = app.Flag("nonoise", "don't sample the noise parameters").Bool()
	noLik   = app.Flag("nolik", "don't sample the likelihood parameters").Bool()

	// chain
	iterations = app.Flag("iter", "number of iterations").Default("1000").Int()
	burn       = app.Flag("burn", "first retained iteration (1-based)").Default("1").Int()
	thin       = app.Flag("thin", "thinning stride").Default("1").Int()
	report     = app.Flag("report", "report every N iterations").Default("10").Int()
	maxShrink  = app.Flag("maxshrink", "maximum number of slice proposals per iteration").Default("10000").Int()

	// hmc
	eps  = app.Flag("eps", "leapfrog step size").Default("0.1").Float64()
	lMin = app.Flag("lmin", "minimum number of leapfrog steps").Default("5").Int()
	lMax = app.Flag("lmax", "maximum number of leapfrog steps").Default("15").Int()

	// lss
	aux     = app.Flag("aux", "auxiliary noise variance of the surrogate data").Default("0.1").Float64()
	width   = app.Flag("width", "hyperparameter slice bracket width").Default("1").Float64()
	lsweeps = app.Flag("lsweeps", "latent elliptical slice updates per iteration").Default("1").Int()

	// technical
	seed = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write sampling trajectory to a file").String()
	quiet    = app.Flag("quiet", "don't print the trajectory").Bool()
	jsonF    = app.Flag("json", "write json output to a file").String()
	plotF    = app.Flag("plot", "write trace plot to a file (png, svg, pdf)").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")

	// checkpoint
	checkpointDB      = app.Flag("checkpoint", "checkpoint database file, the chain starts from the saved state").String()
	checkpointKey     = app.Flag("key", "checkpoint key").Default("gpmc").String()
	checkpointSeconds = app.Flag("cpsec", "save checkpoint every N seconds").Default("60").Float64()

	// trajectory file
	trajF = os.Stdout
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	startTime := time.Now()

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "gpmc")
	logging.SetLevel(level, "mcmc")
	logging.SetLevel(level, "gp")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	if *outF != "" {
		trajF, err = os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating trajectory file:", err)
		}
		defer trajF.Close()
	}

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	endTime := time.Now()
	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.TotalTime = deltaT.Seconds()

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				if _, err := f.Write(j); err != nil {
					log.Error(err)
				}
				f.Close()
			}
		}
	}
}
