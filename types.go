// Package sade implements constrained single-objective optimization with
// Differential Evolution (DE) and its self-adaptive variant SaDE.
//
// The engine minimizes an opaque figure of merit over a bounded real-valued
// parameter space while honoring a vector of inequality constraints. Classic
// DE runs one fixed (mutation, crossover) strategy; SaDE maintains a pool of
// strategies and adapts both the strategy-selection probabilities and the
// per-strategy crossover rates from recent success statistics.
//
// Please cite as:
// Qin, A. K., & Suganthan, P. N. (2005). Self-adaptive differential evolution
// algorithm for numerical optimization. IEEE CEC, 1785-1791.
package sade

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Objective evaluates one candidate solution. The slot index identifies the
// population slot being evaluated so that concurrent evaluations can keep
// per-slot scratch state (e.g. a simulator working directory). It must be
// safe to call concurrently with distinct slot indices.
//
// A returned violation of +Inf marks the candidate as invalid (for example,
// a failed external simulation); such candidates lose every comparison.
type Objective func(slot int, x []float64) Evaluation

// Evaluation is the outcome of one objective call: the figure of merit being
// minimized plus one non-negative entry per constraint.
type Evaluation struct {
	FOM        float64
	Violations []float64
}

// TotalViolation returns the aggregate constraint violation. Zero means the
// candidate is feasible.
func (e Evaluation) TotalViolation() float64 {
	return floats.Sum(e.Violations)
}

// Valid reports whether the evaluation carries no +Inf violation marker.
func (e Evaluation) Valid() bool {
	for _, v := range e.Violations {
		if math.IsInf(v, 1) {
			return false
		}
	}
	return true
}

func (e Evaluation) clone() Evaluation {
	c := Evaluation{FOM: e.FOM}
	if e.Violations != nil {
		c.Violations = make([]float64, len(e.Violations))
		copy(c.Violations, e.Violations)
	}
	return c
}

// Range bounds one dimension of the parameter space.
type Range struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Individual is a candidate solution, one coordinate per dimension.
type Individual []float64

func (ind Individual) clone() Individual {
	c := make(Individual, len(ind))
	copy(c, ind)
	return c
}

// Strategy pairs a mutation operator with a crossover operator. SaDE samples
// one strategy per population slot each generation.
type Strategy struct {
	Mutator   Mutator
	Crossover Crossover
}

// Config holds the configuration parameters for a DE or SaDE run.
type Config struct {
	ObjectiveFunc Objective       `json:"-"`
	Logger        *zerolog.Logger `json:"-"`

	// Parameter space. ParameterNames is optional metadata carried through
	// config files; when set it must match len(Ranges).
	Ranges         []Range  `json:"ranges"`
	ParameterNames []string `json:"parameter_names,omitempty"`

	NP            int `json:"np"`
	MaxIterations int `json:"max_iterations"`

	// Classic DE strategy. Ignored when UseSaDE is set.
	Mutation  string  `json:"mutation"`
	Crossover string  `json:"crossover"`
	F         float64 `json:"f"`
	CR        float64 `json:"cr"`

	// Constraint handling.
	Selector string  `json:"selector"`
	Theta    float64 `json:"theta"`
	TC       int     `json:"tc"`
	CP       float64 `json:"cp"`

	// SaDE controller.
	UseSaDE bool    `json:"use_sade"`
	LP      int     `json:"lp"`
	FMu     float64 `json:"fmu"`
	FSigma  float64 `json:"fsigma"`
	CRMu    float64 `json:"crmu"`
	CRSigma float64 `json:"crsigma"`

	// Workers caps the parallelism of trial evaluation. Zero means one
	// worker per CPU.
	Workers int `json:"workers"`

	// Seed makes runs reproducible. Zero draws a seed from the clock.
	Seed uint64 `json:"seed"`
}

// Result holds the outcome of an optimization run.
type Result struct {
	BestSolution   Individual
	BestEvaluation Evaluation
	BestSlot       int
	History        []float64 // best FOM after initialization, then after each generation
	FuncEvalCount  int
	IterationCount int
	Seed           uint64 // random seed used for reproducibility
}

// Selector names recognized by Config.Selector.
const (
	SelectorStaticPenalty   = "static_penalty"
	SelectorFeasibilityRule = "feasibility_rule"
	SelectorEpsilon         = "epsilon"
)

// Mutation names recognized by Config.Mutation.
const (
	MutationRand1          = "rand/1"
	MutationBest1          = "best/1"
	MutationBest2          = "best/2"
	MutationRand2          = "rand/2"
	MutationRandToBest1    = "rand-to-best/1"
	MutationRandToBest2    = "rand-to-best/2"
	MutationCurrentToRand1 = "current-to-rand/1"
)

// Crossover names recognized by Config.Crossover.
const (
	CrossoverBin = "bin"
	CrossoverExp = "exp"
)
