// Package dataset loads DOE experiment tables and removes rows that carry no
// usable response information.
package dataset

import (
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/utils"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the table.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRows is returned when no usable rows remain.
	ErrNoRows = errors.New("no usable rows")
)

// FenceMultiplier scales the interquartile range on each side of the quartiles.
const FenceMultiplier = 1.5

// Fence is the closed interval [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
type Fence struct {
	Lo float64
	Hi float64
}

// Contains reports whether v lies inside the fence
func (f Fence) Contains(v float64) bool {
	return v >= f.Lo && v <= f.Hi
}

// ComputeFence derives the IQR fence for values. Identical values collapse
// the fence to that single value.
func ComputeFence(values []float64) Fence {
	q1, q3 := utils.Quartiles(values)
	iqr := q3 - q1
	return Fence{Lo: q1 - FenceMultiplier*iqr, Hi: q3 + FenceMultiplier*iqr}
}

// RequireColumns returns ErrMissingColumn naming the first absent column.
func RequireColumns(table *models.Table, columns ...string) error {
	for _, c := range columns {
		if !table.HasColumn(c) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

// Clean drops rows with any missing outcome, then applies the IQR fence to
// each outcome in turn. Every fence is computed on the table left by the
// previous step. Row order and the column set are preserved.
func Clean(table *models.Table) (*models.Table, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrNoRows)
	}
	if err := RequireColumns(table, models.Outcomes...); err != nil {
		return nil, err
	}

	cleaned := table.Subset(func(r models.Record) bool {
		for _, y := range models.Outcomes {
			if _, ok := r.Value(y); !ok {
				return false
			}
		}
		return true
	})
	logger.Debug("dropped rows with missing outcomes", "before", table.Len(), "after", cleaned.Len())

	for _, y := range models.Outcomes {
		if cleaned.Len() == 0 {
			break
		}
		fence := ComputeFence(cleaned.NumericColumn(y))
		before := cleaned.Len()
		cleaned = cleaned.Subset(func(r models.Record) bool {
			v, _ := r.Value(y)
			return fence.Contains(v)
		})
		logger.Debug("applied IQR fence", "outcome", y, "lo", fence.Lo, "hi", fence.Hi,
			"before", before, "after", cleaned.Len())
	}

	if cleaned.Len() == 0 {
		return nil, fmt.Errorf("%w: every row was dropped during cleaning", ErrNoRows)
	}
	return cleaned, nil
}

// ColumnMedians returns the median of each listed column that the table
// carries and that has at least one value.
func ColumnMedians(table *models.Table, columns []string) map[string]float64 {
	medians := make(map[string]float64, len(columns))
	for _, c := range columns {
		if !table.HasColumn(c) {
			continue
		}
		values := table.NumericColumn(c)
		if len(values) == 0 {
			continue
		}
		medians[c] = utils.Median(values)
	}
	return medians
}
