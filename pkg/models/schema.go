package models

// Outcome columns measured for every DOE run.
const (
	OutcomeFlash    = "flash_um"
	OutcomeWeld     = "weld_strength_MPa"
	OutcomePressure = "max_inj_pressure_bar"
)

// Tunable process parameters swept by the optimizer.
const (
	ParamMoldTemp       = "T_mold_C"
	ParamInjectionSpeed = "injection_speed_mm3s"
	ParamPackTime       = "pack_time_s"
	ParamPackPressure   = "pack_pressure_bar"
	ParamCoolTime       = "cool_time_s"
)

// Categorical columns.
const (
	ColumnMaterial = "material"
	ColumnGateType = "gate_type"
)

// Outcomes lists the outcome columns in cleaning order.
var Outcomes = []string{OutcomeFlash, OutcomeWeld, OutcomePressure}

// NumericFeatures lists the numeric model inputs in pipeline column order.
var NumericFeatures = []string{
	"gate_width_mm",
	"gate_thickness_mm",
	ParamMoldTemp,
	"nozzle_C",
	"zone1_C",
	"zone2_C",
	"zone3_C",
	"zone4_C",
	"shot_size_cm3",
	ParamInjectionSpeed,
	ParamPackTime,
	ParamPackPressure,
	ParamCoolTime,
	"clamp_ton",
	"delta_Tmold_C",
	"ambient_RH_pct",
}

// CategoricalFeatures lists the categorical model inputs in pipeline column order.
var CategoricalFeatures = []string{ColumnMaterial, ColumnGateType}

// TunableParameter describes one swept dimension of the search grid.
type TunableParameter struct {
	Name string
	Step float64
}

// TunableParameters is the canonical grid enumeration order, outermost first.
// Step sizes are fixed.
var TunableParameters = []TunableParameter{
	{Name: ParamMoldTemp, Step: 1.0},
	{Name: ParamInjectionSpeed, Step: 2.0},
	{Name: ParamPackTime, Step: 0.1},
	{Name: ParamPackPressure, Step: 5.0},
	{Name: ParamCoolTime, Step: 0.1},
}

// IsTunable reports whether name is one of the swept parameters.
func IsTunable(name string) bool {
	for _, p := range TunableParameters {
		if p.Name == name {
			return true
		}
	}
	return false
}

// FixedNumericFeatures returns the numeric features that are held constant
// during the grid search.
func FixedNumericFeatures() []string {
	fixed := make([]string, 0, len(NumericFeatures))
	for _, name := range NumericFeatures {
		if !IsTunable(name) {
			fixed = append(fixed, name)
		}
	}
	return fixed
}
