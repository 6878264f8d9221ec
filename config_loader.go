package sade

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ConfigPreset represents predefined configurations for common problem types.
type ConfigPreset string

const (
	PresetUnconstrained      ConfigPreset = "unconstrained"
	PresetConstrained        ConfigPreset = "constrained"
	PresetHeavilyConstrained ConfigPreset = "heavily_constrained"
	PresetExpensiveEval      ConfigPreset = "expensive_eval"
)

// LoadConfigFromFile loads a Config from a JSON file.
// Note: ObjectiveFunc and Logger must be set separately as they cannot be
// serialized.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfigToFile saves a Config to a JSON file.
// Note: ObjectiveFunc and Logger are not saved as they cannot be serialized.
func SaveConfigToFile(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewPresetConfig creates a configuration based on a predefined preset for
// common problem types. You must still set ObjectiveFunc and Ranges.
func NewPresetConfig(preset ConfigPreset) (*Config, error) {
	switch preset {
	case PresetUnconstrained:
		// Classic rand/1/bin is hard to beat on plain minimization.
		return NewDefaultConfig(), nil

	case PresetConstrained:
		// SaDE with Deb's rule adapts the strategy mix to the landscape.
		return NewSaDEConfig(), nil

	case PresetHeavilyConstrained:
		// The epsilon schedule keeps search pressure when the feasible
		// region is a sliver of the box.
		return NewEpsilonConfig(), nil

	case PresetExpensiveEval:
		config := NewSaDEConfig()
		config.NP = 20
		config.MaxIterations = 200
		return config, nil

	default:
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}
}

// ListPresets returns all available configuration presets with descriptions.
func ListPresets() map[ConfigPreset]string {
	return map[ConfigPreset]string{
		PresetUnconstrained:      "Classic DE (rand/1/bin) - for unconstrained or lightly constrained problems",
		PresetConstrained:        "SaDE with feasibility rule - general constrained optimization",
		PresetHeavilyConstrained: "SaDE with epsilon schedule - tiny or disconnected feasible regions",
		PresetExpensiveEval:      "SaDE with small population - costly objective evaluations (simulators)",
	}
}

// PrintPresets prints all available presets with descriptions.
func PrintPresets() {
	fmt.Println("Available Configuration Presets:")
	fmt.Println(strings.Repeat("=", 80))

	presets := ListPresets()
	for preset, description := range presets {
		fmt.Printf("  %-22s : %s\n", preset, description)
	}

	fmt.Println(strings.Repeat("=", 80))
}

// ExportConfigTemplate creates a template JSON configuration file with all
// parameters and comments.
func ExportConfigTemplate(path string, preset ConfigPreset) error {
	config, err := NewPresetConfig(preset)
	if err != nil {
		config = NewSaDEConfig()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create template file: %w", err)
	}
	defer file.Close()

	// Write JSON with inline comments (JSON5 style, but parseable as
	// standard JSON once the comments are removed).
	fmt.Fprintf(file, "{\n")
	fmt.Fprintf(file, "  // Parameter space: one range per dimension\n")
	fmt.Fprintf(file, "  \"ranges\": [{\"lower\": -5, \"upper\": 5}],\n")
	fmt.Fprintf(file, "  \"parameter_names\": [\"x0\"],\n")
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "  // Population and run length\n")
	fmt.Fprintf(file, "  \"np\": %d,\n", config.NP)
	fmt.Fprintf(file, "  \"max_iterations\": %d,\n", config.MaxIterations)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "  // Classic DE strategy (ignored when use_sade is true)\n")
	fmt.Fprintf(file, "  \"mutation\": %q,\n", config.Mutation)
	fmt.Fprintf(file, "  \"crossover\": %q,\n", config.Crossover)
	fmt.Fprintf(file, "  \"f\": %g,\n", config.F)
	fmt.Fprintf(file, "  \"cr\": %g,\n", config.CR)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "  // Constraint handling\n")
	fmt.Fprintf(file, "  \"selector\": %q,\n", config.Selector)
	fmt.Fprintf(file, "  \"theta\": %g,\n", config.Theta)
	fmt.Fprintf(file, "  \"tc\": %d,\n", config.TC)
	fmt.Fprintf(file, "  \"cp\": %g,\n", config.CP)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "  // SaDE controller\n")
	fmt.Fprintf(file, "  \"use_sade\": %t,\n", config.UseSaDE)
	fmt.Fprintf(file, "  \"lp\": %d,\n", config.LP)
	fmt.Fprintf(file, "  \"fmu\": %g,\n", config.FMu)
	fmt.Fprintf(file, "  \"fsigma\": %g,\n", config.FSigma)
	fmt.Fprintf(file, "  \"crmu\": %g,\n", config.CRMu)
	fmt.Fprintf(file, "  \"crsigma\": %g,\n", config.CRSigma)
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "  // Execution\n")
	fmt.Fprintf(file, "  \"workers\": %d,\n", config.Workers)
	fmt.Fprintf(file, "  \"seed\": %d\n", config.Seed)
	fmt.Fprintf(file, "}\n")

	fmt.Fprintf(file, "\n// Note: This template contains comments for readability.\n")
	fmt.Fprintf(file, "// Remove comments before loading with LoadConfigFromFile().\n")

	return nil
}
