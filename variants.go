package sade

import (
	"fmt"
	"strings"
)

// StrategyVariant represents a ready-to-run DE configuration: a named
// mutation/crossover pairing, or the self-adaptive controller.
type StrategyVariant interface {
	// Name returns the short name of the variant (e.g., "rand1bin", "sade")
	Name() string

	// FullName returns the full descriptive name of the variant
	FullName() string

	// Description returns a brief description of the variant's key features
	Description() string

	// GetConfig returns a default configuration for this variant.
	// You must still set ObjectiveFunc and Ranges.
	GetConfig() *Config

	// ApplicableTo returns a score (0-1) indicating how well this variant
	// suits the given problem characteristics. Higher scores indicate
	// better fit.
	ApplicableTo(characteristics ProblemCharacteristics) float64

	// RecommendedFor returns a slice of problem types this variant excels at
	RecommendedFor() []string
}

// ProblemCharacteristics describes the properties of an optimization problem.
type ProblemCharacteristics struct {
	// Dimensionality indicates problem size
	Dimensionality int

	// Modality describes the landscape
	Modality Modality

	// Landscape describes the terrain
	Landscape Landscape

	// Constrained indicates the objective reports constraint violations
	Constrained bool

	// TightConstraints indicates the feasible region is a small fraction
	// of the search box
	TightConstraints bool

	// ExpensiveEvaluations indicates if function evaluations are costly
	ExpensiveEvaluations bool
}

// Modality describes the number of optima in the problem
type Modality int

const (
	Unimodal         Modality = iota // Single optimum
	Multimodal                       // Several optima
	HighlyMultimodal                 // Many optima (10+)
)

// Landscape describes the problem terrain
type Landscape int

const (
	Smooth       Landscape = iota // Few local features
	Rugged                        // Many local features
	Deceptive                     // Misleading gradients
	NarrowValley                  // Ill-conditioned
)

// strategyVariant is the single implementation behind the registry: the
// variants differ only in data, not behavior.
type strategyVariant struct {
	name        string
	fullName    string
	description string
	config      func() *Config
	score       func(ProblemCharacteristics) float64
	recommended []string
}

func (v *strategyVariant) Name() string        { return v.name }
func (v *strategyVariant) FullName() string    { return v.fullName }
func (v *strategyVariant) Description() string { return v.description }
func (v *strategyVariant) GetConfig() *Config  { return v.config() }
func (v *strategyVariant) ApplicableTo(c ProblemCharacteristics) float64 {
	return clamp01(v.score(c))
}
func (v *strategyVariant) RecommendedFor() []string { return v.recommended }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func classicConfig(mutation, crossover string) func() *Config {
	return func() *Config {
		config := NewDefaultConfig()
		config.Mutation = mutation
		config.Crossover = crossover
		return config
	}
}

var variantRegistry = map[string]StrategyVariant{
	"rand1bin": &strategyVariant{
		name:        "rand1bin",
		fullName:    "DE/rand/1/bin",
		description: "The classic workhorse: random base vector, one difference, binomial crossover.",
		config:      classicConfig(MutationRand1, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.6
			if c.Modality == Multimodal {
				score += 0.2
			}
			if c.Landscape == Rugged {
				score += 0.1
			}
			return score
		},
		recommended: []string{
			"General optimization problems",
			"Robust default when nothing is known",
			"Multimodal landscapes",
		},
	},
	"best1bin": &strategyVariant{
		name:        "best1bin",
		fullName:    "DE/best/1/bin",
		description: "Greedy variant centered on the incumbent best. Fast on unimodal problems, prone to premature convergence elsewhere.",
		config:      classicConfig(MutationBest1, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.4
			if c.Modality == Unimodal {
				score += 0.4
			}
			if c.Landscape == Smooth {
				score += 0.2
			}
			if c.Modality == HighlyMultimodal {
				score -= 0.3
			}
			if c.Constrained {
				score -= 0.3
			}
			return score
		},
		recommended: []string{
			"Unimodal functions",
			"Smooth landscapes",
			"Local refinement",
		},
	},
	"best2bin": &strategyVariant{
		name:        "best2bin",
		fullName:    "DE/best/2/bin",
		description: "Best-centered with two difference vectors: greedier exploration than best/1.",
		config:      classicConfig(MutationBest2, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.45
			if c.Modality == Unimodal {
				score += 0.3
			}
			if c.Landscape == NarrowValley {
				score += 0.15
			}
			return score
		},
		recommended: []string{
			"Unimodal and ill-conditioned problems",
			"Rosenbrock-like valleys",
		},
	},
	"rand2bin": &strategyVariant{
		name:        "rand2bin",
		fullName:    "DE/rand/2/bin",
		description: "Two random differences give broad exploration at the cost of convergence speed.",
		config:      classicConfig(MutationRand2, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.4
			if c.Modality == HighlyMultimodal {
				score += 0.35
			}
			if c.Landscape == Deceptive {
				score += 0.15
			}
			return score
		},
		recommended: []string{
			"Highly multimodal problems",
			"Deceptive landscapes",
			"Large populations",
		},
	},
	"randtobest1bin": &strategyVariant{
		name:        "randtobest1bin",
		fullName:    "DE/rand-to-best/1/bin",
		description: "Blends each target toward the best while keeping a random difference: balanced exploitation.",
		config:      classicConfig(MutationRandToBest1, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.5
			if c.Modality == Multimodal {
				score += 0.2
			}
			if c.Landscape == Smooth {
				score += 0.1
			}
			return score
		},
		recommended: []string{
			"Balanced exploration/exploitation",
			"Moderately multimodal problems",
		},
	},
	"randtobest2bin": &strategyVariant{
		name:        "randtobest2bin",
		fullName:    "DE/rand-to-best/2/bin",
		description: "Rand-to-best with a second difference vector for extra diversity.",
		config:      classicConfig(MutationRandToBest2, CrossoverBin),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.5
			if c.Modality == HighlyMultimodal {
				score += 0.2
			}
			return score
		},
		recommended: []string{
			"Multimodal problems needing best-guidance",
		},
	},
	"currenttorand1exp": &strategyVariant{
		name:        "currenttorand1exp",
		fullName:    "DE/current-to-rand/1/exp",
		description: "Rotation-invariant arithmetic recombination with exponential crossover.",
		config:      classicConfig(MutationCurrentToRand1, CrossoverExp),
		score: func(c ProblemCharacteristics) float64 {
			score := 0.45
			if c.Landscape == NarrowValley {
				score += 0.25
			}
			if c.Dimensionality >= 20 {
				score += 0.1
			}
			return score
		},
		recommended: []string{
			"Rotated / non-separable problems",
			"Ill-conditioned landscapes",
		},
	},
	"sade": &strategyVariant{
		name:        "sade",
		fullName:    "Self-adaptive DE (SaDE)",
		description: "Maintains a five-strategy pool and learns strategy and crossover-rate distributions from recent successes.",
		config:      NewSaDEConfig,
		score: func(c ProblemCharacteristics) float64 {
			score := 0.65
			if c.Constrained {
				score += 0.15
			}
			if c.Modality == HighlyMultimodal {
				score += 0.1
			}
			if c.ExpensiveEvaluations {
				score += 0.1
			}
			return score
		},
		recommended: []string{
			"Constrained black-box problems",
			"Unknown problem structure",
			"Expensive simulator-backed objectives",
		},
	},
}

// NewVariant creates a strategy variant by name.
// Returns nil if the variant name is not recognized.
//
// Available variants:
//   - "rand1bin", "best1bin", "best2bin", "rand2bin"
//   - "randtobest1bin", "randtobest2bin", "currenttorand1exp"
//   - "sade" - self-adaptive strategy pool
func NewVariant(name string) StrategyVariant {
	name = strings.ToLower(strings.TrimSpace(name))
	return variantRegistry[name]
}

// ListVariants returns a list of all available strategy variant names.
func ListVariants() []string {
	variants := make([]string, 0, len(variantRegistry))
	for name := range variantRegistry {
		variants = append(variants, name)
	}
	return variants
}

// GetAllVariants returns all available strategy variants.
func GetAllVariants() []StrategyVariant {
	variants := make([]StrategyVariant, 0, len(variantRegistry))
	for _, variant := range variantRegistry {
		variants = append(variants, variant)
	}
	return variants
}

// =============================================================================
// Fluent Builder API
// =============================================================================

// VariantBuilder provides a fluent API for configuring strategy variants.
type VariantBuilder struct {
	variant StrategyVariant
	config  *Config
}

// NewBuilder creates a new builder for the specified variant.
// Example: NewBuilder("sade").ForProblem(fn, ranges).WithIterations(500).Build()
func NewBuilder(variantName string) *VariantBuilder {
	variant := NewVariant(variantName)
	if variant == nil {
		return nil
	}
	return &VariantBuilder{
		variant: variant,
		config:  variant.GetConfig(),
	}
}

// ForProblem sets the objective function and parameter ranges.
func (b *VariantBuilder) ForProblem(fn Objective, ranges []Range) *VariantBuilder {
	if b == nil {
		return nil
	}
	b.config.ObjectiveFunc = fn
	b.config.Ranges = ranges
	return b
}

// WithIterations sets the maximum number of generations.
func (b *VariantBuilder) WithIterations(iterations int) *VariantBuilder {
	if b == nil {
		return nil
	}
	b.config.MaxIterations = iterations
	return b
}

// WithPopulation sets the population size.
func (b *VariantBuilder) WithPopulation(np int) *VariantBuilder {
	if b == nil {
		return nil
	}
	b.config.NP = np
	return b
}

// WithSelector sets the constraint-handling selector.
func (b *VariantBuilder) WithSelector(name string) *VariantBuilder {
	if b == nil {
		return nil
	}
	b.config.Selector = name
	return b
}

// WithSeed pins the random seed for reproducible runs.
func (b *VariantBuilder) WithSeed(seed uint64) *VariantBuilder {
	if b == nil {
		return nil
	}
	b.config.Seed = seed
	return b
}

// WithConfig applies a custom configuration function.
// Example: WithConfig(func(c *Config) { c.F = 0.6; c.CR = 0.95 })
func (b *VariantBuilder) WithConfig(fn func(*Config)) *VariantBuilder {
	if b == nil {
		return nil
	}
	fn(b.config)
	return b
}

// Build returns the configured Config ready for optimization.
func (b *VariantBuilder) Build() (*Config, error) {
	if b == nil {
		return nil, fmt.Errorf("builder is nil (unknown variant?)")
	}
	if b.config.ObjectiveFunc == nil {
		return nil, fmt.Errorf("objective function not set")
	}
	if len(b.config.Ranges) == 0 {
		return nil, fmt.Errorf("parameter ranges not set")
	}
	return b.config, nil
}

// Optimize is a convenience method that builds the config and runs it.
func (b *VariantBuilder) Optimize() (*Result, error) {
	config, err := b.Build()
	if err != nil {
		return nil, err
	}
	return Optimize(config)
}

// GetVariant returns the underlying variant.
func (b *VariantBuilder) GetVariant() StrategyVariant {
	if b == nil {
		return nil
	}
	return b.variant
}
