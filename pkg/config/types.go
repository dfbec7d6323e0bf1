package config

import "github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"

// Config represents the tuning run configuration
type Config struct {
	LogLevel       string                     `yaml:"log_level"`
	LogFormat      string                     `yaml:"log_format"`
	OutputDir      string                     `yaml:"output_dir"`
	OperatingPoint OperatingPoint             `yaml:"operating_point"`
	Constraints    ConstraintOverrides        `yaml:"constraints"`
	SafetyEnvelope map[string]models.Interval `yaml:"safety_envelope"`
	Model          ModelSettings              `yaml:"model"`
	Search         SearchSettings             `yaml:"search"`
}

// OperatingPoint holds the categorical values used for every grid prediction
type OperatingPoint struct {
	Material string `yaml:"material"`
	GateType string `yaml:"gate_type"`
}

// ConstraintOverrides replaces the data-derived thresholds when set.
// A nil field means "derive from the cleaned table".
type ConstraintOverrides struct {
	WeldMin *float64 `yaml:"weld_min"`
	PinjMax *float64 `yaml:"pinj_max"`
}

// ModelSettings tunes the cross-validated lasso used for flash variable selection
type ModelSettings struct {
	NAlphas int     `yaml:"n_alphas"`
	Eps     float64 `yaml:"eps"`
	MaxIter int     `yaml:"max_iter"`
	Tol     float64 `yaml:"tol"`
}

// SearchSettings controls grid evaluation
type SearchSettings struct {
	Workers int `yaml:"workers"`
}

// MinAlphas is the smallest regularization grid accepted.
const MinAlphas = 50

// DefaultSafetyEnvelope returns the hard process limits for each tunable parameter
func DefaultSafetyEnvelope() map[string]models.Interval {
	return map[string]models.Interval{
		models.ParamMoldTemp:       {Min: 20, Max: 60},
		models.ParamInjectionSpeed: {Min: 30, Max: 100},
		models.ParamPackTime:       {Min: 1.8, Max: 4.0},
		models.ParamPackPressure:   {Min: 350, Max: 520},
		models.ParamCoolTime:       {Min: 5.5, Max: 8.5},
	}
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		OutputDir: "results",
		OperatingPoint: OperatingPoint{
			Material: "S1000P",
			GateType: "fan",
		},
		SafetyEnvelope: DefaultSafetyEnvelope(),
		Model: ModelSettings{
			NAlphas: MinAlphas,
			Eps:     1e-3,
			MaxIter: 10000,
			Tol:     1e-4,
		},
		Search: SearchSettings{Workers: 1},
	}
}
