package models

import (
	"math"
	"slices"
)

// Record is one experiment row. Numeric cells that are empty in the source
// are stored as NaN; categorical cells are stored verbatim.
type Record struct {
	Numeric     map[string]float64 `json:"numeric"`
	Categorical map[string]string  `json:"categorical"`
}

// NewRecord creates an empty record
func NewRecord() Record {
	return Record{
		Numeric:     make(map[string]float64),
		Categorical: make(map[string]string),
	}
}

// Value returns the numeric value of column and whether it is present and not NaN.
func (r Record) Value(column string) (float64, bool) {
	v, ok := r.Numeric[column]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	out := Record{
		Numeric:     make(map[string]float64, len(r.Numeric)),
		Categorical: make(map[string]string, len(r.Categorical)),
	}
	for k, v := range r.Numeric {
		out.Numeric[k] = v
	}
	for k, v := range r.Categorical {
		out.Categorical[k] = v
	}
	return out
}

// Table is an ordered set of records sharing one column set.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether the table carries column
func (t *Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumericColumn returns the non-missing values of column in row order.
func (t *Table) NumericColumn(column string) []float64 {
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := row.Value(column); ok {
			values = append(values, v)
		}
	}
	return values
}

// Subset returns a table with the same columns holding the rows selected by keep.
func (t *Table) Subset(keep func(Record) bool) *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Record, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Interval is a closed numeric range.
type Interval struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// ParameterBounds maps each tunable parameter to its search interval.
type ParameterBounds map[string]Interval

// Constraints are the thresholds the optimizer penalizes against.
type Constraints struct {
	WeldMin float64 `json:"weld_min"`
	PinjMax float64 `json:"pinj_max"`
}

// Prediction holds the three modeled outcomes for one input record.
type Prediction struct {
	Flash    float64 `json:"flash_um"`
	Weld     float64 `json:"weld_strength_MPa"`
	Pressure float64 `json:"max_inj_pressure_bar"`
}

// Satisfies reports whether p meets both constraints.
func (p Prediction) Satisfies(c Constraints) bool {
	return p.Weld >= c.WeldMin && p.Pressure <= c.PinjMax
}

// Recommendation is the winning grid point with its predicted outcomes.
type Recommendation struct {
	// Point holds the tunable parameter values of the winning grid point.
	Point map[string]float64 `json:"point"`
	// Inputs is the complete record that was fed to the models.
	Inputs      Record      `json:"inputs"`
	Prediction  Prediction  `json:"prediction"`
	Constraints Constraints `json:"constraints"`
	Objective   float64     `json:"objective"`
	// Feasible is false when the winner still violates a constraint.
	Feasible   bool `json:"feasible"`
	GridPoints int  `json:"grid_points"`
	// InfeasiblePoints counts grid points that violate at least one constraint.
	InfeasiblePoints int `json:"infeasible_points"`
}
