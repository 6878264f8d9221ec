package sade

// NewDefaultConfig creates a classic DE configuration (rand/1/bin with the
// feasibility rule). You must still set ObjectiveFunc and Ranges.
func NewDefaultConfig() *Config {
	return &Config{
		NP:            30,
		MaxIterations: 600,
		Mutation:      MutationRand1,
		Crossover:     CrossoverBin,
		F:             0.8,
		CR:            0.9,
		Selector:      SelectorFeasibilityRule,
	}
}

// NewSaDEConfig creates a self-adaptive configuration with the default
// strategy pool. You must still set ObjectiveFunc and Ranges.
func NewSaDEConfig() *Config {
	config := NewDefaultConfig()
	config.UseSaDE = true
	config.LP = 20
	config.FMu = 0.5
	config.FSigma = 0.3
	config.CRMu = 0.5
	config.CRSigma = 0.1
	return config
}

// NewEpsilonConfig creates a SaDE configuration with the epsilon constraint
// schedule, tuned for problems whose early populations are mostly
// infeasible. You must still set ObjectiveFunc and Ranges.
func NewEpsilonConfig() *Config {
	config := NewSaDEConfig()
	config.Selector = SelectorEpsilon
	config.Theta = 0.2
	config.TC = 400
	config.CP = 5
	return config
}
