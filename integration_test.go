package sade

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/cucumber/godog"
)

// Test context holds state between steps.
type integrationTestContext struct {
	objective    Objective
	ranges       []Range
	result       *Result
	secondResult *Result
	sade         *SaDE
	lower        float64
	upper        float64
	dimension    int
}

func (ctx *integrationTestContext) reset() {
	ctx.objective = nil
	ctx.ranges = nil
	ctx.result = nil
	ctx.secondResult = nil
	ctx.sade = nil
	ctx.lower = 0
	ctx.upper = 0
	ctx.dimension = 0
}

func (ctx *integrationTestContext) makeRanges(dimension int, lower, upper float64) {
	ctx.dimension = dimension
	ctx.lower = lower
	ctx.upper = upper
	ctx.ranges = make([]Range, dimension)
	for j := range ctx.ranges {
		ctx.ranges[j] = Range{Lower: lower, Upper: upper}
	}
}

func (ctx *integrationTestContext) anObjectiveWithDimension(funcName string, dimension int, lower, upper float64) error {
	switch funcName {
	case "Sphere":
		ctx.objective = Unconstrained(Sphere)
	case "Rastrigin":
		ctx.objective = Unconstrained(Rastrigin)
	case "Rosenbrock":
		ctx.objective = Unconstrained(Rosenbrock)
	case "Ackley":
		ctx.objective = Unconstrained(Ackley)
	case "Griewank":
		ctx.objective = Unconstrained(Griewank)
	default:
		return fmt.Errorf("unknown function: %s", funcName)
	}
	ctx.makeRanges(dimension, lower, upper)
	return nil
}

func (ctx *integrationTestContext) theConstrainedSphereObjective(dimension int, lower, upper float64) error {
	ctx.objective = ConstrainedSphere
	ctx.makeRanges(dimension, lower, upper)
	return nil
}

func (ctx *integrationTestContext) iRunClassicDE(iterations int, seed int) error {
	cfg := NewDefaultConfig()
	cfg.ObjectiveFunc = ctx.objective
	cfg.Ranges = ctx.ranges
	cfg.MaxIterations = iterations
	cfg.Seed = uint64(seed)

	result, err := Optimize(cfg)
	if err != nil {
		return err
	}
	ctx.result = result
	return nil
}

func (ctx *integrationTestContext) iRunClassicDETwice(iterations int, seed int) error {
	if err := ctx.iRunClassicDE(iterations, seed); err != nil {
		return err
	}
	first := ctx.result
	if err := ctx.iRunClassicDE(iterations, seed); err != nil {
		return err
	}
	ctx.secondResult = ctx.result
	ctx.result = first
	return nil
}

func (ctx *integrationTestContext) iRunSaDE(iterations int, seed int) error {
	return ctx.iRunSaDEWithSelector(SelectorFeasibilityRule, iterations, seed)
}

func (ctx *integrationTestContext) iRunSaDEWithSelector(selector string, iterations int, seed int) error {
	var cfg *Config
	if selector == SelectorEpsilon {
		cfg = NewEpsilonConfig()
		cfg.TC = iterations / 2
	} else {
		cfg = NewSaDEConfig()
		cfg.Selector = selector
	}
	cfg.ObjectiveFunc = ctx.objective
	cfg.Ranges = ctx.ranges
	cfg.MaxIterations = iterations
	cfg.Seed = uint64(seed)

	s, err := NewSaDE(cfg)
	if err != nil {
		return err
	}
	result, err := s.Solve()
	if err != nil {
		return err
	}
	ctx.sade = s
	ctx.result = result
	return nil
}

func (ctx *integrationTestContext) theBestFOMShouldBeBelow(limit float64) error {
	if ctx.result.BestEvaluation.FOM > limit {
		return fmt.Errorf("best FOM %v, want below %v", ctx.result.BestEvaluation.FOM, limit)
	}
	return nil
}

func (ctx *integrationTestContext) bestSolutionWithinBounds() error {
	for j, val := range ctx.result.BestSolution {
		if val < ctx.lower || val > ctx.upper {
			return fmt.Errorf("coordinate %d = %v outside [%v, %v]", j, val, ctx.lower, ctx.upper)
		}
	}
	return nil
}

func (ctx *integrationTestContext) strategyProbabilitiesSumToOne() error {
	if ctx.sade == nil {
		return fmt.Errorf("no SaDE run recorded")
	}
	sum := 0.0
	for _, p := range ctx.sade.StrategyProbabilities() {
		sum += p
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("strategy probabilities sum to %v", sum)
	}
	return nil
}

func (ctx *integrationTestContext) bothRunsIdentical() error {
	if ctx.secondResult == nil {
		return fmt.Errorf("no second run recorded")
	}
	if ctx.result.BestEvaluation.FOM != ctx.secondResult.BestEvaluation.FOM {
		return fmt.Errorf("best FOMs differ: %v vs %v",
			ctx.result.BestEvaluation.FOM, ctx.secondResult.BestEvaluation.FOM)
	}
	for j := range ctx.result.BestSolution {
		if ctx.result.BestSolution[j] != ctx.secondResult.BestSolution[j] {
			return fmt.Errorf("best solutions differ at coordinate %d", j)
		}
	}
	return nil
}

func (ctx *integrationTestContext) bestIndividualFeasible() error {
	if v := ctx.result.BestEvaluation.TotalViolation(); v > 1e-6 {
		return fmt.Errorf("best individual has violation %v", v)
	}
	return nil
}

func (ctx *integrationTestContext) historyShouldContainEntries(n int) error {
	if len(ctx.result.History) != n {
		return fmt.Errorf("history has %d entries, want %d", len(ctx.result.History), n)
	}
	return nil
}

func (ctx *integrationTestContext) historyShouldBeNonIncreasing() error {
	for g := 1; g < len(ctx.result.History); g++ {
		if ctx.result.History[g] > ctx.result.History[g-1]+1e-12 {
			return fmt.Errorf("history worsened at generation %d", g)
		}
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	ctx := &integrationTestContext{}

	sc.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^a "([^"]*)" objective with dimension (\d+) and bounds from (-?[\d.]+) to (-?[\d.]+)$`, ctx.anObjectiveWithDimension)
	sc.Step(`^the constrained sphere objective with dimension (\d+) and bounds from (-?[\d.]+) to (-?[\d.]+)$`, ctx.theConstrainedSphereObjective)
	sc.Step(`^I run classic DE for (\d+) iterations with seed (\d+)$`, ctx.iRunClassicDE)
	sc.Step(`^I run classic DE twice for (\d+) iterations with seed (\d+)$`, ctx.iRunClassicDETwice)
	sc.Step(`^I run SaDE for (\d+) iterations with seed (\d+)$`, ctx.iRunSaDE)
	sc.Step(`^I run SaDE with the "([^"]*)" selector for (\d+) iterations with seed (\d+)$`, ctx.iRunSaDEWithSelector)
	sc.Step(`^the best FOM should be below ([\d.]+)$`, ctx.theBestFOMShouldBeBelow)
	sc.Step(`^every coordinate of the best solution should lie within the bounds$`, ctx.bestSolutionWithinBounds)
	sc.Step(`^the strategy probabilities should sum to 1$`, ctx.strategyProbabilitiesSumToOne)
	sc.Step(`^both runs should produce the same best solution$`, ctx.bothRunsIdentical)
	sc.Step(`^the best individual should be feasible$`, ctx.bestIndividualFeasible)
	sc.Step(`^the history should contain (\d+) entries$`, ctx.historyShouldContainEntries)
	sc.Step(`^the history should be non-increasing$`, ctx.historyShouldBeNonIncreasing)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
