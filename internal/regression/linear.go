// Package regression implements the linear fitting primitives used by the
// response-surface models: ordinary least squares, L1-penalized (lasso)
// regression by coordinate descent, and k-fold cross-validation of the lasso
// regularization strength.
package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when X and y disagree on the number of rows.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrTooFewSamples is returned when there are not enough rows to fit.
	ErrTooFewSamples = errors.New("too few samples")
)

// LinearModel is y = Intercept + Coef·x.
type LinearModel struct {
	Coef      []float64
	Intercept float64
}

// Predict evaluates the model for one feature vector
func (m *LinearModel) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("%w: model has %d coefficients, got %d features", ErrDimensionMismatch, len(m.Coef), len(x))
	}
	return m.Intercept + floats.Dot(m.Coef, x), nil
}

// PredictMatrix evaluates the model for every row of x
func (m *LinearModel) PredictMatrix(x mat.Matrix) ([]float64, error) {
	r, c := x.Dims()
	if c != len(m.Coef) {
		return nil, fmt.Errorf("%w: model has %d coefficients, got %d features", ErrDimensionMismatch, len(m.Coef), c)
	}
	out := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, x)
		out[i] = m.Intercept + floats.Dot(m.Coef, row)
	}
	return out, nil
}

// NonZero returns the number of coefficients that are not exactly zero
func (m *LinearModel) NonZero() int {
	n := 0
	for _, c := range m.Coef {
		if c != 0 {
			n++
		}
	}
	return n
}

// centered holds column-major, mean-centered training data.
type centered struct {
	cols  [][]float64
	y     []float64
	xMean []float64
	yMean float64
	n     int
}

func center(x mat.Matrix, y []float64, rows []int) *centered {
	_, p := x.Dims()
	n := len(rows)
	c := &centered{
		cols:  make([][]float64, p),
		y:     make([]float64, n),
		xMean: make([]float64, p),
		n:     n,
	}
	for k, i := range rows {
		c.y[k] = y[i]
	}
	c.yMean = floats.Sum(c.y) / float64(n)
	floats.AddConst(-c.yMean, c.y)

	for j := 0; j < p; j++ {
		col := make([]float64, n)
		for k, i := range rows {
			col[k] = x.At(i, j)
		}
		c.xMean[j] = floats.Sum(col) / float64(n)
		floats.AddConst(-c.xMean[j], col)
		c.cols[j] = col
	}
	return c
}

func (c *centered) model(w []float64) *LinearModel {
	return &LinearModel{
		Coef:      w,
		Intercept: c.yMean - floats.Dot(c.xMean, w),
	}
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func checkShape(x mat.Matrix, y []float64) error {
	r, _ := x.Dims()
	if r != len(y) {
		return fmt.Errorf("%w: X has %d rows, y has %d", ErrDimensionMismatch, r, len(y))
	}
	if r == 0 {
		return fmt.Errorf("%w: no rows", ErrTooFewSamples)
	}
	return nil
}

// FitOLS fits an ordinary least squares model with an intercept. The
// coefficient vector is the minimum-norm solution, so rank-deficient designs
// (e.g. constant standardized columns) still fit.
func FitOLS(x mat.Matrix, y []float64) (*LinearModel, error) {
	if err := checkShape(x, y); err != nil {
		return nil, err
	}
	n, p := x.Dims()
	c := center(x, y, allRows(n))
	w := make([]float64, p)
	if p == 0 {
		return c.model(w), nil
	}

	xc := mat.NewDense(n, p, nil)
	for j, col := range c.cols {
		xc.SetCol(j, col)
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return nil, fmt.Errorf("least squares: SVD factorization failed")
	}
	rcond := math.Nextafter(1, 2) - 1
	rank := svd.Rank(rcond * float64(max(n, p)))
	if rank > 0 {
		var sol mat.VecDense
		svd.SolveVecTo(&sol, mat.NewVecDense(n, c.y), rank)
		for j := range w {
			w[j] = sol.AtVec(j)
		}
	}
	return c.model(w), nil
}
