package sade

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ComparisonResult holds the results of comparing multiple strategies.
type ComparisonResult struct {
	FriedmanResult *FriedmanTestResult
	BenchmarkName  string
	StrategyNames  []string
	RunResults     [][]RunResult
	Statistics     []StrategyStatistics
	Rankings       []int
	WilcoxonTests  [][]WilcoxonResult
	BestStrategy   int
}

// RunResult holds the result of a single optimization run.
type RunResult struct {
	BestFOM       float64
	ViolationSum  float64
	FuncEvals     int
	Iterations    int
	ConvergenceAt int     // 1-based position in History of the first entry at or below the target (0 if not reached)
	ExecutionTime float64 // Seconds
}

// StrategyStatistics holds statistical measures for a strategy's performance.
type StrategyStatistics struct {
	Mean         float64
	Median       float64
	StdDev       float64
	Best         float64
	Worst        float64
	SuccessRate  float64 // Percentage of runs reaching target
	AvgFuncEvals float64
	AvgTime      float64 // Average execution time in seconds
}

// WilcoxonResult holds the result of a Wilcoxon signed-rank test.
type WilcoxonResult struct {
	Strategy1   string
	Strategy2   string
	Winner      string
	WStatistic  float64
	PValue      float64
	Significant bool
}

// FriedmanTestResult holds the result of a Friedman test.
type FriedmanTestResult struct {
	ChiSquare        float64
	PValue           float64
	Significant      bool // True if p < 0.05
	DegreesOfFreedom int
}

// ComparisonRunner orchestrates multi-strategy comparisons.
type ComparisonRunner struct {
	Variants      []StrategyVariant
	Runs          int     // Number of runs per strategy
	TargetFOM     float64 // Success threshold (optional, 0 = unused)
	MaxIterations int     // Max generations per run
	Verbose       bool    // Print progress
}

// NewComparisonRunner creates a new comparison runner.
func NewComparisonRunner() *ComparisonRunner {
	return &ComparisonRunner{
		Variants:      GetAllVariants(),
		Runs:          30, // Standard for statistical significance
		TargetFOM:     0,
		MaxIterations: 300,
		Verbose:       false,
	}
}

// WithVariants sets the variants to compare.
func (cr *ComparisonRunner) WithVariants(variants ...StrategyVariant) *ComparisonRunner {
	cr.Variants = variants
	return cr
}

// WithVariantNames sets the variants to compare by name.
func (cr *ComparisonRunner) WithVariantNames(names ...string) *ComparisonRunner {
	variants := make([]StrategyVariant, 0, len(names))
	for _, name := range names {
		if variant := NewVariant(name); variant != nil {
			variants = append(variants, variant)
		}
	}
	cr.Variants = variants
	return cr
}

// WithRuns sets the number of runs per strategy.
func (cr *ComparisonRunner) WithRuns(runs int) *ComparisonRunner {
	cr.Runs = runs
	return cr
}

// WithTarget sets the success threshold.
func (cr *ComparisonRunner) WithTarget(target float64) *ComparisonRunner {
	cr.TargetFOM = target
	return cr
}

// WithIterations sets the maximum generations.
func (cr *ComparisonRunner) WithIterations(iterations int) *ComparisonRunner {
	cr.MaxIterations = iterations
	return cr
}

// WithVerbose enables verbose output.
func (cr *ComparisonRunner) WithVerbose(verbose bool) *ComparisonRunner {
	cr.Verbose = verbose
	return cr
}

// Compare runs all strategies on the given problem and returns comparison
// results.
func (cr *ComparisonRunner) Compare(
	benchmarkName string,
	fn Objective,
	ranges []Range,
) *ComparisonResult {
	strategyNames := make([]string, len(cr.Variants))
	runResults := make([][]RunResult, len(cr.Variants))

	for i, variant := range cr.Variants {
		strategyNames[i] = variant.Name()
		runResults[i] = make([]RunResult, cr.Runs)

		if cr.Verbose {
			fmt.Printf("Running %s (%d runs)...\n", variant.Name(), cr.Runs)
		}

		for run := 0; run < cr.Runs; run++ {
			config := variant.GetConfig()
			config.ObjectiveFunc = fn
			config.Ranges = ranges
			config.MaxIterations = cr.MaxIterations

			start := time.Now()
			result, err := Optimize(config)
			elapsed := time.Since(start).Seconds()

			if err != nil {
				runResults[i][run] = RunResult{
					BestFOM:       math.Inf(1),
					ExecutionTime: elapsed,
				}
				continue
			}

			convergenceAt := 0
			if cr.TargetFOM > 0 {
				for gen, fom := range result.History {
					if fom <= cr.TargetFOM {
						convergenceAt = gen + 1
						break
					}
				}
			}

			runResults[i][run] = RunResult{
				BestFOM:       result.BestEvaluation.FOM,
				ViolationSum:  result.BestEvaluation.TotalViolation(),
				FuncEvals:     result.FuncEvalCount,
				Iterations:    result.IterationCount,
				ConvergenceAt: convergenceAt,
				ExecutionTime: elapsed,
			}

			if cr.Verbose && (run+1)%10 == 0 {
				fmt.Printf("  Completed %d/%d runs\n", run+1, cr.Runs)
			}
		}
	}

	statistics := make([]StrategyStatistics, len(cr.Variants))
	for i := range cr.Variants {
		statistics[i] = calculateStrategyStatistics(runResults[i], cr.TargetFOM)
	}

	rankings := rankStrategies(statistics)
	bestStrategy := 0
	for i, rank := range rankings {
		if rank == 1 {
			bestStrategy = i
			break
		}
	}

	wilcoxonTests := make([][]WilcoxonResult, len(cr.Variants))
	for i := range cr.Variants {
		wilcoxonTests[i] = make([]WilcoxonResult, len(cr.Variants))
		for j := range cr.Variants {
			if i != j {
				wilcoxonTests[i][j] = wilcoxonSignedRankTest(
					strategyNames[i],
					strategyNames[j],
					runResults[i],
					runResults[j],
				)
			}
		}
	}

	return &ComparisonResult{
		StrategyNames:  strategyNames,
		BenchmarkName:  benchmarkName,
		RunResults:     runResults,
		Statistics:     statistics,
		Rankings:       rankings,
		WilcoxonTests:  wilcoxonTests,
		FriedmanResult: friedmanTest(runResults),
		BestStrategy:   bestStrategy,
	}
}

// calculateStrategyStatistics computes statistical measures for run results.
func calculateStrategyStatistics(runs []RunResult, targetFOM float64) StrategyStatistics {
	if len(runs) == 0 {
		return StrategyStatistics{}
	}

	foms := make([]float64, len(runs))
	funcEvals := 0.0
	execTime := 0.0
	successCount := 0

	for i, run := range runs {
		foms[i] = run.BestFOM
		funcEvals += float64(run.FuncEvals)
		execTime += run.ExecutionTime

		if targetFOM > 0 && run.BestFOM <= targetFOM {
			successCount++
		}
	}

	sorted := make([]float64, len(foms))
	copy(sorted, foms)
	sort.Float64s(sorted)

	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2.0
	}

	return StrategyStatistics{
		Mean:         stat.Mean(foms, nil),
		Median:       median,
		StdDev:       stat.PopStdDev(foms, nil),
		Best:         sorted[0],
		Worst:        sorted[len(sorted)-1],
		SuccessRate:  float64(successCount) / float64(len(runs)) * 100.0,
		AvgFuncEvals: funcEvals / float64(len(runs)),
		AvgTime:      execTime / float64(len(runs)),
	}
}

// rankStrategies ranks strategies based on mean performance (1 = best).
func rankStrategies(statistics []StrategyStatistics) []int {
	type indexedStat struct {
		index int
		mean  float64
	}

	indexed := make([]indexedStat, len(statistics))
	for i, s := range statistics {
		indexed[i] = indexedStat{index: i, mean: s.Mean}
	}

	sort.Slice(indexed, func(i, j int) bool {
		return indexed[i].mean < indexed[j].mean
	})

	rankings := make([]int, len(statistics))
	for rank, item := range indexed {
		rankings[item.index] = rank + 1
	}
	return rankings
}

// wilcoxonSignedRankTest performs a Wilcoxon signed-rank test between two
// strategies.
func wilcoxonSignedRankTest(name1, name2 string, runs1, runs2 []RunResult) WilcoxonResult {
	if len(runs1) != len(runs2) {
		return WilcoxonResult{
			Strategy1: name1,
			Strategy2: name2,
			Winner:    "Error: unequal sample sizes",
		}
	}

	n := len(runs1)
	differences := make([]float64, 0, n)
	absDifferences := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		diff := runs1[i].BestFOM - runs2[i].BestFOM
		if math.Abs(diff) > 1e-10 { // Ignore ties
			differences = append(differences, diff)
			absDifferences = append(absDifferences, math.Abs(diff))
		}
	}

	if len(differences) == 0 {
		return WilcoxonResult{
			Strategy1: name1,
			Strategy2: name2,
			Winner:    "Tie",
		}
	}

	ranks := rankValues(absDifferences)

	wPlus := 0.0
	wMinus := 0.0
	for i, diff := range differences {
		if diff > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}

	// W statistic is the smaller of W+ and W-
	w := math.Min(wPlus, wMinus)

	// Normal approximation for the null distribution of W
	nEffective := float64(len(differences))
	meanW := nEffective * (nEffective + 1) / 4.0
	stdW := math.Sqrt(nEffective * (nEffective + 1) * (2*nEffective + 1) / 24.0)
	z := math.Abs((w - meanW) / stdW)
	pValue := 2.0 * (1.0 - distuv.UnitNormal.CDF(z)) // Two-tailed

	significant := pValue < 0.05
	winner := "Tie"
	if significant {
		if wPlus < wMinus {
			winner = name1 // Strategy 1 has lower FOMs (better)
		} else {
			winner = name2
		}
	}

	return WilcoxonResult{
		Strategy1:   name1,
		Strategy2:   name2,
		WStatistic:  w,
		PValue:      pValue,
		Significant: significant,
		Winner:      winner,
	}
}

// friedmanTest performs a Friedman test across all strategies.
func friedmanTest(runResults [][]RunResult) *FriedmanTestResult {
	if len(runResults) < 2 {
		return nil
	}

	k := len(runResults)    // Number of strategies
	n := len(runResults[0]) // Number of runs

	ranks := make([][]float64, n)
	for run := 0; run < n; run++ {
		foms := make([]float64, k)
		for alg := 0; alg < k; alg++ {
			foms[alg] = runResults[alg][run].BestFOM
		}
		ranks[run] = rankValues(foms)
	}

	rankSums := make([]float64, k)
	for alg := 0; alg < k; alg++ {
		for run := 0; run < n; run++ {
			rankSums[alg] += ranks[run][alg]
		}
	}

	sumSquaredRanks := 0.0
	for _, rankSum := range rankSums {
		sumSquaredRanks += rankSum * rankSum
	}

	chiSquare := (12.0 / (float64(n) * float64(k) * float64(k+1))) * sumSquaredRanks
	chiSquare -= 3.0 * float64(n) * float64(k+1)

	df := k - 1
	pValue := 1.0 - distuv.ChiSquared{K: float64(df)}.CDF(math.Max(chiSquare, 0))

	return &FriedmanTestResult{
		ChiSquare:        chiSquare,
		PValue:           pValue,
		Significant:      pValue < 0.05,
		DegreesOfFreedom: df,
	}
}

// rankValues assigns ranks to values (1 = smallest), averaging ties.
func rankValues(values []float64) []float64 {
	type indexedValue struct {
		index int
		value float64
	}

	indexed := make([]indexedValue, len(values))
	for i, v := range values {
		indexed[i] = indexedValue{index: i, value: v}
	}

	sort.Slice(indexed, func(i, j int) bool {
		return indexed[i].value < indexed[j].value
	})

	ranks := make([]float64, len(values))
	i := 0
	for i < len(indexed) {
		j := i
		for j < len(indexed) && math.Abs(indexed[j].value-indexed[i].value) < 1e-10 {
			j++
		}
		avgRank := 0.0
		for k := i; k < j; k++ {
			avgRank += float64(k + 1)
		}
		avgRank /= float64(j - i)
		for k := i; k < j; k++ {
			ranks[indexed[k].index] = avgRank
		}
		i = j
	}

	return ranks
}

// PrintComparisonResults prints a formatted comparison report.
func (cr *ComparisonResult) PrintComparisonResults() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("Benchmark Comparison: %s\n", cr.BenchmarkName)
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("\nStatistical Summary:")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-18s | %8s | %8s | %8s | %8s | %8s | %5s\n",
		"Strategy", "Mean", "Median", "StdDev", "Best", "Worst", "Rank")
	fmt.Println(strings.Repeat("-", 80))

	for i, name := range cr.StrategyNames {
		stats := cr.Statistics[i]
		fmt.Printf("%-18s | %8.2e | %8.2e | %8.2e | %8.2e | %8.2e | %5d\n",
			name, stats.Mean, stats.Median, stats.StdDev, stats.Best, stats.Worst, cr.Rankings[i])
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("\nBest Strategy: %s (Rank 1)\n", cr.StrategyNames[cr.BestStrategy])

	fmt.Println("\nSignificant Pairwise Differences (Wilcoxon signed-rank test, α=0.05):")
	fmt.Println(strings.Repeat("-", 80))

	foundSignificant := false
	for i := range cr.StrategyNames {
		for j := i + 1; j < len(cr.StrategyNames); j++ {
			test := cr.WilcoxonTests[i][j]
			if test.Significant {
				foundSignificant = true
				fmt.Printf("%s vs %s: p=%.4f, Winner: %s\n",
					test.Strategy1, test.Strategy2, test.PValue, test.Winner)
			}
		}
	}
	if !foundSignificant {
		fmt.Println("No significant differences found.")
	}

	if cr.FriedmanResult != nil {
		fmt.Println("\nFriedman Test (overall difference):")
		fmt.Printf("  χ² = %.4f, df = %d, p = %.4f",
			cr.FriedmanResult.ChiSquare,
			cr.FriedmanResult.DegreesOfFreedom,
			cr.FriedmanResult.PValue)
		if cr.FriedmanResult.Significant {
			fmt.Println(" (Significant at α=0.05)")
		} else {
			fmt.Println(" (Not significant)")
		}
	}

	fmt.Println(strings.Repeat("=", 80))
}
