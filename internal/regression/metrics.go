package regression

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// R2 returns the coefficient of determination. A constant target scores 1
// when predicted exactly and 0 otherwise.
func R2(y, yhat []float64) (float64, error) {
	if len(y) != len(yhat) {
		return 0, fmt.Errorf("%w: %d targets, %d predictions", ErrDimensionMismatch, len(y), len(yhat))
	}
	if len(y) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrTooFewSamples)
	}
	mean := stat.Mean(y, nil)
	ssTot := 0.0
	for _, v := range y {
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if floats.Distance(y, yhat, 2) == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return stat.RSquaredFrom(yhat, y, nil), nil
}

// MAE returns the mean absolute error
func MAE(y, yhat []float64) (float64, error) {
	if len(y) != len(yhat) {
		return 0, fmt.Errorf("%w: %d targets, %d predictions", ErrDimensionMismatch, len(y), len(yhat))
	}
	if len(y) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrTooFewSamples)
	}
	return floats.Distance(y, yhat, 1) / float64(len(y)), nil
}
