package vqt

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/samay-kothari/VQT/circuit"
	"github.com/samay-kothari/VQT/mat"
)

// ThermalizeOptions are options for Thermalize.
type ThermalizeOptions struct {
	maxEvaluations int
	seed           uint64
	initRange      float64
	logEvery       int
	progress       func(evaluation int, cost float64)
}

// NewThermalizeOptions returns the default thermalization options.
// The evaluation budget is a safety cap, sized so that Nelder-Mead
// reaches its own convergence first at the default sweep sizes.
func NewThermalizeOptions() ThermalizeOptions {
	opt := ThermalizeOptions{}
	opt.maxEvaluations = 60000
	opt.seed = 0
	opt.initRange = 1
	opt.logEvery = 50
	return opt
}

// MaxEvaluations sets the cost evaluation budget.
func (opt ThermalizeOptions) MaxEvaluations(n int) ThermalizeOptions {
	opt.maxEvaluations = n
	return opt
}

// Seed sets the seed of the initial parameter draw.
func (opt ThermalizeOptions) Seed(s uint64) ThermalizeOptions {
	opt.seed = s
	return opt
}

// InitRange sets the half-width of the uniform initial parameter draw.
func (opt ThermalizeOptions) InitRange(r float64) ThermalizeOptions {
	opt.initRange = r
	return opt
}

// Progress sets a callback invoked with every logEvery-th evaluation and its cost.
func (opt ThermalizeOptions) Progress(logEvery int, f func(evaluation int, cost float64)) ThermalizeOptions {
	opt.logEvery = logEvery
	opt.progress = f
	return opt
}

// ThermalizeResult is the termination point of a thermalization run.
// Status carries the optimizer's own verdict, which may be an exhausted
// evaluation budget rather than convergence.
type ThermalizeResult struct {
	Parameters  Parameters
	Cost        float64
	Evaluations int
	Status      optimize.Status
}

// Thermalize minimizes the free-energy objective of the hamiltonian at inverse
// temperature beta over the joint latent and circuit parameters, using
// derivative-free Nelder-Mead search from a seeded random starting point.
func Thermalize(h *mat.COO, g Graph, depth int, beta float64, options ...ThermalizeOptions) (ThermalizeResult, error) {
	opt := NewThermalizeOptions()
	if len(options) > 0 {
		opt = options[0]
	}

	if err := g.validate(); err != nil {
		return ThermalizeResult{}, errors.Wrap(err, "")
	}
	n := g.Nodes
	if h.Rows() != 1<<n || h.Cols() != 1<<n {
		return ThermalizeResult{}, errors.Errorf("hamiltonian is %dx%d, expected %dx%d", h.Rows(), h.Cols(), 1<<n, 1<<n)
	}
	if depth < 1 {
		return ThermalizeResult{}, errors.Errorf("%d", depth)
	}

	sim := circuit.NewSimulator(n)
	rnd := rand.New(rand.NewPCG(opt.seed, opt.seed))
	p0 := RandParameters(n, depth, rnd, opt.initRange)

	evaluations := 0
	problem := optimize.Problem{Func: func(x []float64) float64 {
		p, err := UnflattenParameters(x, n, depth)
		if err != nil {
			panic(fmt.Sprintf("%+v", err))
		}

		cost := Cost(sim, h, p, beta)
		evaluations++
		if opt.progress != nil && evaluations%opt.logEvery == 0 {
			opt.progress(evaluations, cost)
		}
		return cost
	}}

	settings := &optimize.Settings{FuncEvaluations: opt.maxEvaluations}
	res, err := optimize.Minimize(problem, p0.Flatten(), settings, &optimize.NelderMead{})
	if err != nil {
		return ThermalizeResult{}, errors.Wrap(err, "")
	}

	p, err := UnflattenParameters(res.X, n, depth)
	if err != nil {
		return ThermalizeResult{}, errors.Wrap(err, "")
	}
	return ThermalizeResult{Parameters: p, Cost: res.F, Evaluations: evaluations, Status: res.Status}, nil
}
