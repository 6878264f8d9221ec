package sade

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// StrategyRecommendation represents a recommended strategy variant with a
// confidence score and the selector that should accompany it.
type StrategyRecommendation struct {
	Variant    StrategyVariant
	Selector   string
	Reasoning  string
	Score      float64
	Confidence float64
}

// Recommender ranks strategy variants against problem characteristics.
type Recommender struct {
	variants []StrategyVariant
}

// NewRecommender creates a recommender over all registered variants.
func NewRecommender() *Recommender {
	return &Recommender{variants: GetAllVariants()}
}

// Recommend returns ranked strategy recommendations for the given problem.
// The results are sorted by score (highest first).
func (r *Recommender) Recommend(characteristics ProblemCharacteristics) []StrategyRecommendation {
	recommendations := make([]StrategyRecommendation, 0, len(r.variants))

	for _, variant := range r.variants {
		score := variant.ApplicableTo(characteristics)
		recommendations = append(recommendations, StrategyRecommendation{
			Variant:    variant,
			Selector:   recommendSelector(characteristics),
			Score:      score,
			Confidence: confidence(characteristics, variant),
			Reasoning:  reasoning(characteristics, variant, score),
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return recommendations
}

// RecommendBest returns the single best strategy for the given problem.
func (r *Recommender) RecommendBest(characteristics ProblemCharacteristics) StrategyRecommendation {
	recommendations := r.Recommend(characteristics)
	if len(recommendations) == 0 {
		return StrategyRecommendation{
			Variant:    NewVariant("rand1bin"),
			Selector:   SelectorFeasibilityRule,
			Score:      0.5,
			Confidence: 0.5,
			Reasoning:  "Default fallback to DE/rand/1/bin",
		}
	}
	return recommendations[0]
}

func recommendSelector(c ProblemCharacteristics) string {
	switch {
	case !c.Constrained:
		return SelectorFeasibilityRule // degenerates to plain FOM order
	case c.TightConstraints:
		return SelectorEpsilon
	default:
		return SelectorFeasibilityRule
	}
}

func confidence(c ProblemCharacteristics, variant StrategyVariant) float64 {
	conf := 0.7

	if c.Constrained && variant.Name() == "sade" {
		conf = 0.9
	}
	if c.Modality == Unimodal && variant.Name() == "best1bin" {
		conf = 0.85
	}
	if c.Modality == HighlyMultimodal && variant.Name() == "best1bin" {
		conf = 0.3
	}

	return math.Min(conf, 1.0)
}

func reasoning(c ProblemCharacteristics, variant StrategyVariant, score float64) string {
	reasons := make([]string, 0, 3)

	if c.Constrained && variant.Name() == "sade" {
		reasons = append(reasons, "Self-adaptation handles constrained landscapes without tuning")
	}
	if c.TightConstraints {
		reasons = append(reasons, "Epsilon schedule recommended for a tight feasible region")
	}
	if c.Modality == Unimodal && strings.HasPrefix(variant.Name(), "best") {
		reasons = append(reasons, "Best-centered mutation converges fast on a single basin")
	}
	if c.Modality == HighlyMultimodal && variant.Name() == "rand2bin" {
		reasons = append(reasons, "Two random differences preserve diversity across many basins")
	}
	if c.Landscape == NarrowValley && variant.Name() == "currenttorand1exp" {
		reasons = append(reasons, "Rotation-invariant recombination follows narrow valleys")
	}
	if c.ExpensiveEvaluations && variant.Name() == "sade" {
		reasons = append(reasons, "Adaptive strategy mix spends costly evaluations efficiently")
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("Score: %.2f - %s", score, variant.Description())
	}
	return strings.Join(reasons, "; ")
}

// ClassifyProblem analyzes an objective function to determine its
// characteristics. This performs lightweight probing evaluations.
func ClassifyProblem(fn Objective, ranges []Range, seed uint64) ProblemCharacteristics {
	const sampleSize = 50

	r := newRNG(seed)
	dim := len(ranges)

	foms := make([]float64, 0, sampleSize)
	constrained := false
	feasibleCount := 0
	for i := 0; i < sampleSize; i++ {
		e := fn(0, r.uniformIndividual(ranges))
		if len(e.Violations) > 0 {
			constrained = true
		}
		if e.TotalViolation() == 0 {
			feasibleCount++
		}
		if e.Valid() {
			foms = append(foms, e.FOM)
		}
	}

	return ProblemCharacteristics{
		Dimensionality:   dim,
		Modality:         estimateModality(foms),
		Landscape:        estimateLandscape(fn, ranges, r),
		Constrained:      constrained,
		TightConstraints: constrained && feasibleCount < sampleSize/10,
	}
}

// estimateModality estimates the problem's modality from sample dispersion.
func estimateModality(samples []float64) Modality {
	if len(samples) < 10 {
		return Multimodal // Conservative default
	}

	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, s := range samples {
		diff := s - mean
		variance += diff * diff
	}
	variance /= float64(len(samples))

	if math.Abs(mean) < 1e-10 {
		return Multimodal
	}

	cv := math.Sqrt(variance) / math.Abs(mean)
	if cv > 2.0 {
		return HighlyMultimodal
	} else if cv > 0.5 {
		return Multimodal
	}
	return Unimodal
}

// estimateLandscape estimates terrain from finite-difference gradients at
// random points.
func estimateLandscape(fn Objective, ranges []Range, r *rng) Landscape {
	const samples = 25

	dim := len(ranges)
	gradientMag := 0.0
	for i := 0; i < samples; i++ {
		point := r.uniformIndividual(ranges)
		f0 := fn(0, point).FOM

		mag := 0.0
		for j := 0; j < dim; j++ {
			eps := (ranges[j].Upper - ranges[j].Lower) * 0.001
			point[j] += eps
			f1 := fn(0, point).FOM
			point[j] -= eps
			g := (f1 - f0) / eps
			mag += g * g
		}
		gradientMag += math.Sqrt(mag)
	}
	gradientMag /= samples

	if gradientMag > 100 {
		return Deceptive
	} else if gradientMag > 10 {
		return Rugged
	} else if gradientMag < 0.01 {
		return NarrowValley
	}
	return Smooth
}

// PrintRecommendations prints formatted recommendations to console.
func PrintRecommendations(recommendations []StrategyRecommendation) {
	fmt.Println("Strategy Recommendations (ranked by score):")
	fmt.Println("=" + strings.Repeat("=", 79))
	fmt.Printf("%-18s | %-8s | %-10s | %s\n", "Strategy", "Score", "Confidence", "Reasoning")
	fmt.Println(strings.Repeat("-", 80))

	for _, rec := range recommendations {
		fmt.Printf("%-18s | %6.2f%% | %8.2f%% | %s\n",
			rec.Variant.Name(),
			rec.Score*100,
			rec.Confidence*100,
			rec.Reasoning)
	}

	fmt.Println(strings.Repeat("=", 80))
}
