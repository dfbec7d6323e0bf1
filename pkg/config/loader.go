package config

import (
	"fmt"
	"math"
	"os"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate re-checks a config after programmatic changes (e.g. CLI overrides)
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log_format: %s (must be text or json)", cfg.LogFormat)
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if err := validateEnvelope(cfg.SafetyEnvelope); err != nil {
		return fmt.Errorf("safety_envelope validation failed: %w", err)
	}
	if err := validateConstraints(&cfg.Constraints); err != nil {
		return fmt.Errorf("constraints validation failed: %w", err)
	}
	if err := validateModel(&cfg.Model); err != nil {
		return fmt.Errorf("model validation failed: %w", err)
	}
	if cfg.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be at least 1, got %d", cfg.Search.Workers)
	}

	return nil
}

func validateEnvelope(env map[string]models.Interval) error {
	for name, interval := range env {
		if !models.IsTunable(name) {
			return fmt.Errorf("unknown tunable parameter: %s", name)
		}
		if math.IsNaN(interval.Min) || math.IsNaN(interval.Max) {
			return fmt.Errorf("%s: bounds cannot be NaN", name)
		}
		if interval.Min >= interval.Max {
			return fmt.Errorf("%s: min (%g) must be less than max (%g)", name, interval.Min, interval.Max)
		}
	}
	for _, p := range models.TunableParameters {
		if _, ok := env[p.Name]; !ok {
			return fmt.Errorf("missing bounds for %s", p.Name)
		}
	}
	return nil
}

func validateConstraints(c *ConstraintOverrides) error {
	if c.WeldMin != nil && (math.IsNaN(*c.WeldMin) || math.IsInf(*c.WeldMin, 0)) {
		return fmt.Errorf("weld_min must be finite")
	}
	if c.PinjMax != nil && (math.IsNaN(*c.PinjMax) || math.IsInf(*c.PinjMax, 0)) {
		return fmt.Errorf("pinj_max must be finite")
	}
	return nil
}

func validateModel(m *ModelSettings) error {
	if m.NAlphas < MinAlphas {
		return fmt.Errorf("n_alphas must be at least %d, got %d", MinAlphas, m.NAlphas)
	}
	if m.Eps <= 0 || m.Eps >= 1 {
		return fmt.Errorf("eps must be in (0, 1), got %g", m.Eps)
	}
	if m.MaxIter <= 0 {
		return fmt.Errorf("max_iter must be positive, got %d", m.MaxIter)
	}
	if m.Tol <= 0 {
		return fmt.Errorf("tol must be positive, got %g", m.Tol)
	}
	return nil
}
