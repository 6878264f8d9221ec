package sade

import (
	"math"
	"sort"
)

// probEpsilon keeps every strategy selectable even after a run of failures.
const probEpsilon = 0.01

// SaDE extends the DE driver with self-adaptive strategy selection. Instead
// of one fixed (mutation, crossover, f, cr) it samples a strategy, a scaling
// factor and a crossover rate per slot each generation, and feeds the
// outcomes back into rolling success/failure and crossover-rate memories.
type SaDE struct {
	*DE

	pool []Strategy
	prob []float64
	lp   int

	fmu     float64
	fsigma  float64
	crmu    float64
	crsigma float64

	// Rolling memories. memSuccess/memFailure cover the last lp contributing
	// generations (those with at least one win); entry g' counts per-strategy
	// wins/losses. crMemory[s] covers the last lp generations, contributing
	// or not, and holds per generation the crossover rates that succeeded
	// for strategy s.
	memSuccess [][]int
	memFailure [][]int
	crMemory   [][][]float64
}

// NewSaDE validates the configuration and builds a SaDE controller with the
// default five-strategy pool.
func NewSaDE(cfg *Config) (*SaDE, error) {
	c := *cfg
	c.UseSaDE = true
	if err := validate(&c); err != nil {
		return nil, err
	}
	selector, err := NewSelector(&c)
	if err != nil {
		return nil, err
	}
	pool := defaultStrategyPool()
	prob := make([]float64, len(pool))
	for i := range prob {
		prob[i] = 1.0 / float64(len(pool))
	}
	d := newDriver(&c)
	d.selector = selector
	return &SaDE{
		DE:       d,
		pool:     pool,
		prob:     prob,
		lp:       c.LP,
		fmu:      c.FMu,
		fsigma:   c.FSigma,
		crmu:     c.CRMu,
		crsigma:  c.CRSigma,
		crMemory: make([][][]float64, len(pool)),
	}, nil
}

func defaultStrategyPool() []Strategy {
	return []Strategy{
		{mutRand1{}, crossBin{}},
		{mutBest1{}, crossBin{}},
		{mutRand2{}, crossBin{}},
		{mutCurrentToRand1{}, crossExp{}},
		{mutRandToBest2{}, crossBin{}},
	}
}

// StrategyProbabilities returns a copy of the current strategy-selection
// distribution.
func (s *SaDE) StrategyProbabilities() []float64 {
	p := make([]float64, len(s.prob))
	copy(p, s.prob)
	return p
}

// Solve runs the self-adaptive generation loop and returns the best
// individual under the selector's order.
func (s *SaDE) Solve() (*Result, error) {
	s.init()
	history := make([]float64, 0, s.cfg.MaxIterations)
	history = append(history, s.reportBest())
	for s.gen = 1; s.gen < s.cfg.MaxIterations; s.gen++ {
		v := s.view()

		sVec := make([]int, s.np)
		for i := range sVec {
			sVec[i] = s.selectStrategy()
		}
		crVec := s.genCRVec(sVec)

		trials := make([]Individual, s.np)
		for i := 0; i < s.np; i++ {
			st := s.pool[sVec[i]]
			f := s.rng.normal(s.fmu, s.fsigma)
			donor := st.Mutator.donor(v, i, f)
			trials[i] = st.Crossover.trial(v, s.pop[i], donor, crVec[i])
		}

		trialResults := s.evaluateAll(trials)

		// Seed/decay the epsilon threshold before any better() call this
		// generation, so memory tallies and acceptance agree on the order.
		s.selector.onSelect(s.gen, s.np, s.results)
		s.updateMemoryProb(sVec, s.results, trialResults)
		s.updateCRMemory(sVec, crVec, s.results, trialResults)
		s.commit(trials, trialResults)
		s.selector.onGenerationEnd(s.gen)
		history = append(history, s.reportBest())
	}
	return s.result(history), nil
}

// selectStrategy samples a strategy index by inverse CDF over contiguous
// sub-intervals of [0,1).
func (s *SaDE) selectStrategy() int {
	sum := 0.0
	for _, p := range s.prob {
		sum += p
	}
	assertf(math.Abs(sum-1) < 0.01, "strategy probabilities sum to %g", sum)
	u := s.rng.float64()
	acc := 0.0
	for i, p := range s.prob {
		acc += p
		if u < acc {
			return i
		}
	}
	return len(s.prob) - 1
}

// genCRVec draws one crossover rate per slot. During the learning period all
// draws center on crmu; afterwards each strategy centers on the median of
// its successful rates over the memory window. Median rather than mean keeps
// a few extreme successful rates from dragging the center.
func (s *SaDE) genCRVec(sVec []int) []float64 {
	crVec := make([]float64, s.np)
	if s.gen <= s.lp {
		for i := range crVec {
			crVec[i] = s.rng.truncNormal(s.crmu, s.crsigma, 0, 1)
		}
		return crVec
	}
	crmu := make([]float64, len(s.pool))
	for si := range s.pool {
		assertf(len(s.crMemory[si]) == s.lp, "cr memory for strategy %d has %d entries, want %d", si, len(s.crMemory[si]), s.lp)
		var all []float64
		for _, gen := range s.crMemory[si] {
			all = append(all, gen...)
		}
		if len(all) == 0 {
			crmu[si] = s.crmu
			continue
		}
		sort.Float64s(all)
		crmu[si] = all[len(all)/2]
	}
	for i := range crVec {
		crVec[i] = s.rng.truncNormal(crmu[sVec[i]], s.crsigma, 0, 1)
	}
	return crVec
}

// updateMemoryProb tallies this generation's per-strategy wins and losses,
// pushes them onto the rolling memories (only when some strategy won), and
// recomputes the selection distribution once the window is full.
func (s *SaDE) updateMemoryProb(sVec []int, targets, trials []Evaluation) {
	ns := len(s.pool)
	success := make([]int, ns)
	failure := make([]int, ns)
	assertf(len(s.memSuccess) == len(s.memFailure), "success/failure memories out of sync: %d vs %d", len(s.memSuccess), len(s.memFailure))
	total := 0
	for i, si := range sVec {
		if s.selector.Better(trials[i], targets[i]) {
			success[si]++
			total++
		} else {
			failure[si]++
		}
	}
	if total == 0 {
		return
	}
	s.memSuccess = append(s.memSuccess, success)
	s.memFailure = append(s.memFailure, failure)
	if len(s.memSuccess) <= s.lp {
		return
	}
	s.memSuccess = s.memSuccess[1:]
	s.memFailure = s.memFailure[1:]

	numSuccess := make([]int, ns)
	numFailure := make([]int, ns)
	for g := 0; g < s.lp; g++ {
		for si := 0; si < ns; si++ {
			numSuccess[si] += s.memSuccess[g][si]
			numFailure[si] += s.memFailure[g][si]
		}
	}
	rate := make([]float64, ns)
	norm := 0.0
	for si := 0; si < ns; si++ {
		rate[si] = probEpsilon
		if n := numSuccess[si] + numFailure[si]; n > 0 {
			rate[si] += float64(numSuccess[si]) / float64(n)
		}
		norm += rate[si]
	}
	for si := 0; si < ns; si++ {
		s.prob[si] = rate[si] / norm
	}
}

// updateCRMemory opens a fresh per-strategy slot for this generation,
// evicts the oldest one once past the learning period, and records the
// crossover rate of every winning trial under its strategy.
func (s *SaDE) updateCRMemory(sVec []int, crVec []float64, targets, trials []Evaluation) {
	for si := range s.crMemory {
		s.crMemory[si] = append(s.crMemory[si], nil)
		if s.gen > s.lp {
			s.crMemory[si] = s.crMemory[si][1:]
		}
	}
	for i, si := range sVec {
		if s.selector.Better(trials[i], targets[i]) {
			last := len(s.crMemory[si]) - 1
			s.crMemory[si][last] = append(s.crMemory[si][last], crVec[i])
		}
	}
}
