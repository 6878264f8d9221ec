package sade

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DE runs classic differential evolution with one fixed strategy. The driver
// owns the population, the operator instances and the random stream; the
// objective is the only code that runs outside the driver goroutine.
type DE struct {
	cfg       *Config
	objective Objective
	ranges    []Range
	dim       int
	np        int

	mutator   Mutator
	crossover Crossover
	selector  Selector

	rng     *rng
	seed    uint64
	logger  zerolog.Logger
	workers int

	gen     int
	pop     []Individual
	results []Evaluation
	evals   int
}

// New validates the configuration and builds a DE driver. No run state is
// created when an error is returned.
func New(cfg *Config) (*DE, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	mutator, err := NewMutator(cfg.Mutation)
	if err != nil {
		return nil, err
	}
	crossover, err := NewCrossover(cfg.Crossover)
	if err != nil {
		return nil, err
	}
	selector, err := NewSelector(cfg)
	if err != nil {
		return nil, err
	}
	d := newDriver(cfg)
	d.mutator = mutator
	d.crossover = crossover
	d.selector = selector
	return d, nil
}

func newDriver(cfg *Config) *DE {
	r := newRNG(cfg.Seed)
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &DE{
		cfg:       cfg,
		objective: cfg.ObjectiveFunc,
		ranges:    cfg.Ranges,
		dim:       len(cfg.Ranges),
		np:        cfg.NP,
		rng:       r,
		seed:      r.seed,
		logger:    logger,
		workers:   workers,
	}
}

func validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if cfg.ObjectiveFunc == nil {
		return fmt.Errorf("ObjectiveFunc is required")
	}
	return ValidateConfig(cfg)
}

// ValidateConfig checks a configuration for consistency. Unlike the driver
// constructors it accepts a nil ObjectiveFunc, so configurations loaded from
// files can be checked before the objective is attached.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Ranges) == 0 {
		return fmt.Errorf("at least one parameter range is required")
	}
	for j, rg := range cfg.Ranges {
		if !(rg.Lower < rg.Upper) {
			return fmt.Errorf("range %d: lower bound %g must be less than upper bound %g", j, rg.Lower, rg.Upper)
		}
	}
	if cfg.ParameterNames != nil && len(cfg.ParameterNames) != len(cfg.Ranges) {
		return fmt.Errorf("got %d parameter names for %d ranges", len(cfg.ParameterNames), len(cfg.Ranges))
	}
	if cfg.NP < 5 {
		return fmt.Errorf("np must be at least 5 (got %d)", cfg.NP)
	}
	if cfg.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive (got %d)", cfg.MaxIterations)
	}
	if cfg.Theta < 0 || cfg.Theta > 1 {
		return fmt.Errorf("theta should be in [0,1] (got %g)", cfg.Theta)
	}
	if cfg.Selector == SelectorEpsilon {
		if cfg.TC < 1 {
			return fmt.Errorf("tc must be at least 1 with the epsilon selector (got %d)", cfg.TC)
		}
		if cfg.CP < 1 {
			return fmt.Errorf("cp must be at least 1 with the epsilon selector (got %g)", cfg.CP)
		}
	}
	if cfg.UseSaDE {
		if cfg.LP <= 0 {
			return fmt.Errorf("lp must be positive (got %d)", cfg.LP)
		}
		if cfg.FSigma <= 0 {
			return fmt.Errorf("fsigma must be positive (got %g)", cfg.FSigma)
		}
		if cfg.CRSigma <= 0 {
			return fmt.Errorf("crsigma must be positive (got %g)", cfg.CRSigma)
		}
	} else {
		if _, err := NewMutator(cfg.Mutation); err != nil {
			return err
		}
		if _, err := NewCrossover(cfg.Crossover); err != nil {
			return err
		}
	}
	if _, err := NewSelector(cfg); err != nil {
		return err
	}
	return nil
}

// Solve runs the configured number of generations and returns the best
// individual under the selector's order.
func (d *DE) Solve() (*Result, error) {
	d.init()
	history := make([]float64, 0, d.cfg.MaxIterations)
	history = append(history, d.reportBest())
	for d.gen = 1; d.gen < d.cfg.MaxIterations; d.gen++ {
		v := d.view()
		donors := make([]Individual, d.np)
		for i := 0; i < d.np; i++ {
			donors[i] = d.mutator.donor(v, i, d.cfg.F)
		}
		trials := make([]Individual, d.np)
		for i := 0; i < d.np; i++ {
			trials[i] = d.crossover.trial(v, d.pop[i], donors[i], d.cfg.CR)
		}
		trialResults := d.evaluateAll(trials)
		d.selector.onSelect(d.gen, d.np, d.results)
		d.commit(trials, trialResults)
		d.selector.onGenerationEnd(d.gen)
		history = append(history, d.reportBest())
	}
	return d.result(history), nil
}

func (d *DE) result(history []float64) *Result {
	best := d.findBest()
	return &Result{
		BestSolution:   d.pop[best].clone(),
		BestEvaluation: d.results[best].clone(),
		BestSlot:       best,
		History:        history,
		FuncEvalCount:  d.evals,
		IterationCount: d.cfg.MaxIterations,
		Seed:           d.seed,
	}
}

func (d *DE) view() *opView {
	return &opView{
		pop:    d.pop,
		ranges: d.ranges,
		dim:    d.dim,
		best:   d.findBest(),
		rng:    d.rng,
	}
}

// init samples the starting population. With a positive theta, invalid slots
// (any +Inf violation) are resampled and re-evaluated until at least
// floor(NP*theta) individuals are valid, so variation starts from a minimum
// pool of informative samples.
func (d *DE) init() {
	d.pop = make([]Individual, d.np)
	d.results = make([]Evaluation, d.np)
	for i := range d.pop {
		d.pop[i] = d.rng.uniformIndividual(d.ranges)
	}
	copy(d.results, d.evaluateAll(d.pop))

	minValid := int(float64(d.np) * d.cfg.Theta)
	for {
		invalid := make([]int, 0, d.np)
		for i, e := range d.results {
			if !e.Valid() {
				invalid = append(invalid, i)
			}
		}
		if d.np-len(invalid) >= minValid {
			return
		}
		for _, i := range invalid {
			d.pop[i] = d.rng.uniformIndividual(d.ranges)
		}
		d.reevaluate(invalid)
	}
}

// evaluateAll maps the objective over all candidates in parallel. Each
// worker writes only its own slot of the result slice.
func (d *DE) evaluateAll(candidates []Individual) []Evaluation {
	out := make([]Evaluation, len(candidates))
	var g errgroup.Group
	g.SetLimit(d.workers)
	for i := range candidates {
		i := i
		g.Go(func() error {
			out[i] = d.objective(i, candidates[i])
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	d.evals += len(candidates)
	return out
}

func (d *DE) reevaluate(slots []int) {
	var g errgroup.Group
	g.SetLimit(d.workers)
	for _, i := range slots {
		i := i
		g.Go(func() error {
			d.results[i] = d.objective(i, d.pop[i])
			return nil
		})
	}
	_ = g.Wait()
	d.evals += len(slots)
}

// commit applies slot-wise acceptance: a trial replaces its target iff the
// selector prefers it.
func (d *DE) commit(trials []Individual, trialResults []Evaluation) {
	for i := 0; i < d.np; i++ {
		if d.selector.Better(trialResults[i], d.results[i]) {
			d.pop[i] = trials[i]
			d.results[i] = trialResults[i]
		}
	}
}

// findBest returns the slot holding the best evaluation under the selector's
// order. Ties break toward the first occurrence.
func (d *DE) findBest() int {
	best := 0
	for i := 1; i < d.np; i++ {
		if d.selector.Better(d.results[i], d.results[best]) &&
			!d.selector.Better(d.results[best], d.results[i]) {
			best = i
		}
	}
	return best
}

func (d *DE) reportBest() float64 {
	best := d.findBest()
	e := d.results[best]
	d.logger.Info().
		Int("generation", d.gen).
		Int("best_slot", best).
		Float64("best_fom", e.FOM).
		Float64("best_violation_sum", e.TotalViolation()).
		Msg("generation complete")
	return e.FOM
}

// Optimize is the package-level convenience entry: it builds the driver
// matching the configuration (SaDE when cfg.UseSaDE is set, classic DE
// otherwise) and runs it to completion.
func Optimize(cfg *Config) (*Result, error) {
	if cfg != nil && cfg.UseSaDE {
		s, err := NewSaDE(cfg)
		if err != nil {
			return nil, err
		}
		return s.Solve()
	}
	d, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return d.Solve()
}

// assertf panics with a formatted message when cond is false. Invariant
// breaches are programming bugs, not runtime errors.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
