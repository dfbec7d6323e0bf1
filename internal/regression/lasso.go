package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LassoOptions controls coordinate descent.
type LassoOptions struct {
	MaxIter int
	Tol     float64
}

// DefaultLassoOptions mirrors the settings used for flash variable selection.
func DefaultLassoOptions() LassoOptions {
	return LassoOptions{MaxIter: 10000, Tol: 1e-4}
}

// FitLasso minimizes (1/2n)·||y - Xw - b||² + alpha·||w||₁.
func FitLasso(x mat.Matrix, y []float64, alpha float64, opts LassoOptions) (*LinearModel, error) {
	if err := checkShape(x, y); err != nil {
		return nil, err
	}
	if alpha < 0 {
		return nil, fmt.Errorf("lasso: alpha must be non-negative, got %g", alpha)
	}
	n, p := x.Dims()
	c := center(x, y, allRows(n))
	w := make([]float64, p)
	c.descend(w, alpha, opts)
	return c.model(w), nil
}

// descend runs cyclic coordinate descent in place, starting from w.
func (c *centered) descend(w []float64, alpha float64, opts LassoOptions) {
	p := len(c.cols)
	normSq := make([]float64, p)
	for j, col := range c.cols {
		normSq[j] = floats.Dot(col, col)
	}

	// residual = y - Xw
	residual := make([]float64, c.n)
	copy(residual, c.y)
	for j, col := range c.cols {
		if w[j] != 0 {
			floats.AddScaled(residual, -w[j], col)
		}
	}

	threshold := alpha * float64(c.n)
	for iter := 0; iter < opts.MaxIter; iter++ {
		maxDelta, maxW := 0.0, 0.0
		for j, col := range c.cols {
			if normSq[j] == 0 {
				w[j] = 0
				continue
			}
			old := w[j]
			rho := floats.Dot(col, residual) + old*normSq[j]
			next := softThreshold(rho, threshold) / normSq[j]
			if next != old {
				floats.AddScaled(residual, old-next, col)
				w[j] = next
			}
			maxDelta = math.Max(maxDelta, math.Abs(next-old))
			maxW = math.Max(maxW, math.Abs(next))
		}
		if maxDelta <= opts.Tol*maxW {
			return
		}
	}
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}
