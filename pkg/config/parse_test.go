package config

import "testing"

func TestParseConfigYAMLStringPartialEnvelope(t *testing.T) {
	yamlText := `
safety_envelope:
  T_mold_C: {min: 25, max: 55}
`
	cfg, err := ParseConfigYAMLString(yamlText)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString failed: %v", err)
	}
	if got := cfg.SafetyEnvelope["T_mold_C"]; got.Min != 25 || got.Max != 55 {
		t.Errorf("expected overridden mold temperature envelope, got %v", got)
	}
	if got := cfg.SafetyEnvelope["pack_pressure_bar"]; got.Min != 350 || got.Max != 520 {
		t.Errorf("expected default pack pressure envelope, got %v", got)
	}
}

func TestParseConfigYAMLStringSingleBound(t *testing.T) {
	yamlText := `
safety_envelope:
  T_mold_C: {min: 25}
  cool_time_s:
    max: 7.5
`
	cfg, err := ParseConfigYAMLString(yamlText)
	if err != nil {
		t.Fatalf("ParseConfigYAMLString failed: %v", err)
	}
	if got := cfg.SafetyEnvelope["T_mold_C"]; got.Min != 25 || got.Max != 60 {
		t.Errorf("expected min override with default max, got %v", got)
	}
	if got := cfg.SafetyEnvelope["cool_time_s"]; got.Min != 5.5 || got.Max != 7.5 {
		t.Errorf("expected max override with default min, got %v", got)
	}
}

func TestParseConfigYAMLStringEmpty(t *testing.T) {
	cfg, err := ParseConfigYAMLString("")
	if err != nil {
		t.Fatalf("empty document should yield defaults: %v", err)
	}
	if cfg.Search.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Search.Workers)
	}
}

func TestParseConfigYAMLStringInvalid(t *testing.T) {
	tests := []struct {
		name     string
		yamlText string
	}{
		{
			name:     "Invalid log level",
			yamlText: `log_level: verbose`,
		},
		{
			name:     "Invalid log format",
			yamlText: `log_format: xml`,
		},
		{
			name:     "Inverted envelope",
			yamlText: "safety_envelope:\n  cool_time_s: {min: 9, max: 5}",
		},
		{
			name:     "Unknown tunable",
			yamlText: "safety_envelope:\n  zone1_C: {min: 1, max: 2}",
		},
		{
			name:     "Single bound above default max",
			yamlText: "safety_envelope:\n  pack_time_s: {min: 4.5}",
		},
		{
			name:     "Too few alphas",
			yamlText: "model:\n  n_alphas: 10",
		},
		{
			name:     "Zero workers",
			yamlText: "search:\n  workers: 0",
		},
		{
			name:     "Malformed yaml",
			yamlText: "model: [1, 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfigYAMLString(tt.yamlText); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}
