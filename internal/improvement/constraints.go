package improvement

import (
	"fmt"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/dataset"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/utils"
)

// Default threshold percentiles over the cleaned table.
const (
	WeldMinPercentile = 50
	PinjMaxPercentile = 90
)

// ConstraintOverrides replaces a data-derived threshold when the field is non-nil.
type ConstraintOverrides struct {
	WeldMin *float64
	PinjMax *float64
}

// ResolveConstraints returns the thresholds used by the optimizer. WeldMin
// defaults to the median weld strength and PinjMax to the 90th percentile
// injection pressure of table.
func ResolveConstraints(table *models.Table, overrides ConstraintOverrides) (models.Constraints, error) {
	var c models.Constraints

	if overrides.WeldMin != nil {
		c.WeldMin = *overrides.WeldMin
	} else {
		weld := table.NumericColumn(models.OutcomeWeld)
		if len(weld) == 0 {
			return c, fmt.Errorf("%w: cannot derive weld_min without %s values", dataset.ErrNoRows, models.OutcomeWeld)
		}
		c.WeldMin = utils.Percentile(weld, WeldMinPercentile)
	}

	if overrides.PinjMax != nil {
		c.PinjMax = *overrides.PinjMax
	} else {
		pressure := table.NumericColumn(models.OutcomePressure)
		if len(pressure) == 0 {
			return c, fmt.Errorf("%w: cannot derive pinj_max without %s values", dataset.ErrNoRows, models.OutcomePressure)
		}
		c.PinjMax = utils.Percentile(pressure, PinjMaxPercentile)
	}

	return c, nil
}

// FixedInputs builds the non-swept part of every candidate record: the
// median of each fixed numeric feature in table plus the given categorical
// operating point.
func FixedInputs(table *models.Table, categorical map[string]string) models.Record {
	rec := models.NewRecord()
	for name, v := range dataset.ColumnMedians(table, models.FixedNumericFeatures()) {
		rec.Numeric[name] = v
	}
	for name, v := range categorical {
		rec.Categorical[name] = v
	}
	return rec
}
