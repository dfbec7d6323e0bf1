package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes, fills omitted values from
// Default and validates the result.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	cfg.SafetyEnvelope = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if err := mergeEnvelope(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ParseConfigYAMLString parses a Config from a YAML string and validates it.
func ParseConfigYAMLString(yamlText string) (*Config, error) {
	return ParseConfigYAML([]byte(yamlText))
}

// envelopeBounds records which bounds a safety_envelope entry sets.
type envelopeBounds struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

// mergeEnvelope overlays the safety_envelope entries of data on the default
// envelope bound by bound, so an entry that only sets min keeps the default max.
func mergeEnvelope(data []byte, cfg *Config) error {
	var raw struct {
		SafetyEnvelope map[string]envelopeBounds `yaml:"safety_envelope"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	envelope := DefaultSafetyEnvelope()
	for name, bounds := range raw.SafetyEnvelope {
		interval := envelope[name]
		if bounds.Min != nil {
			interval.Min = *bounds.Min
		}
		if bounds.Max != nil {
			interval.Max = *bounds.Max
		}
		envelope[name] = interval
	}
	cfg.SafetyEnvelope = envelope
	return nil
}
