package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// alphaFloor replaces a zero regularization grid when y has no variance.
const alphaFloor = 1e-15

// LassoCVOptions controls the regularization path and cross-validation.
type LassoCVOptions struct {
	Folds   int
	NAlphas int
	// Eps is alpha_min / alpha_max.
	Eps   float64
	Lasso LassoOptions
}

// DefaultLassoCVOptions returns 5 folds over 50 alphas spanning three decades.
func DefaultLassoCVOptions() LassoCVOptions {
	return LassoCVOptions{
		Folds:   5,
		NAlphas: 50,
		Eps:     1e-3,
		Lasso:   DefaultLassoOptions(),
	}
}

// LassoCVResult is the outcome of cross-validated alpha selection.
type LassoCVResult struct {
	// Alpha is the strength with the lowest mean held-out MSE.
	Alpha float64
	// Alphas is the candidate grid in descending order.
	Alphas []float64
	// MSEPath[i][k] is the held-out MSE of Alphas[i] on fold k.
	MSEPath [][]float64
	MeanMSE []float64
	// Model is the lasso refit on all rows at Alpha.
	Model *LinearModel
}

// AlphaGrid returns nAlphas log-spaced strengths from alpha_max down to
// eps·alpha_max, where alpha_max is the smallest alpha that zeroes every
// coefficient on x, y.
func AlphaGrid(x mat.Matrix, y []float64, nAlphas int, eps float64) []float64 {
	n, _ := x.Dims()
	c := center(x, y, allRows(n))
	alphaMax := 0.0
	for _, col := range c.cols {
		alphaMax = math.Max(alphaMax, math.Abs(floats.Dot(col, c.y)))
	}
	alphaMax /= float64(n)

	alphas := make([]float64, nAlphas)
	if alphaMax <= alphaFloor {
		for i := range alphas {
			alphas[i] = alphaFloor
		}
		return alphas
	}
	if nAlphas == 1 {
		alphas[0] = alphaMax
		return alphas
	}
	return floats.LogSpan(alphas, alphaMax, alphaMax*eps)
}

// KFold splits n rows into k contiguous folds; the first n%k folds get one
// extra row. It returns the held-out rows of each fold.
func KFold(n, k int) [][]int {
	folds := make([][]int, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		folds[f] = make([]int, size)
		for i := range folds[f] {
			folds[f][i] = start + i
		}
		start += size
	}
	return folds
}

// LassoCV selects the lasso regularization strength by k-fold
// cross-validation over a shared alpha grid, then refits on all rows. Ties
// in mean MSE resolve to the larger alpha.
func LassoCV(x mat.Matrix, y []float64, opts LassoCVOptions) (*LassoCVResult, error) {
	if err := checkShape(x, y); err != nil {
		return nil, err
	}
	n, p := x.Dims()
	if opts.Folds < 2 {
		return nil, fmt.Errorf("lasso cv: need at least 2 folds, got %d", opts.Folds)
	}
	if n < opts.Folds {
		return nil, fmt.Errorf("%w: %d rows for %d folds", ErrTooFewSamples, n, opts.Folds)
	}
	if opts.NAlphas < 1 {
		return nil, fmt.Errorf("lasso cv: need at least one alpha")
	}

	alphas := AlphaGrid(x, y, opts.NAlphas, opts.Eps)
	folds := KFold(n, opts.Folds)

	mse := make([][]float64, len(alphas))
	for i := range mse {
		mse[i] = make([]float64, len(folds))
	}

	for k, test := range folds {
		train := make([]int, 0, n-len(test))
		for i := 0; i < n; i++ {
			if i < test[0] || i > test[len(test)-1] {
				train = append(train, i)
			}
		}
		c := center(x, y, train)
		w := make([]float64, p)
		row := make([]float64, p)
		for i, alpha := range alphas {
			// Warm start from the previous, stronger alpha.
			c.descend(w, alpha, opts.Lasso)
			m := c.model(w)
			sum := 0.0
			for _, r := range test {
				mat.Row(row, r, x)
				d := y[r] - (m.Intercept + floats.Dot(w, row))
				sum += d * d
			}
			mse[i][k] = sum / float64(len(test))
		}
	}

	mean := make([]float64, len(alphas))
	best := 0
	for i := range alphas {
		mean[i] = floats.Sum(mse[i]) / float64(len(folds))
		if mean[i] < mean[best] {
			best = i
		}
	}

	model, err := FitLasso(x, y, alphas[best], opts.Lasso)
	if err != nil {
		return nil, fmt.Errorf("lasso cv refit: %w", err)
	}

	return &LassoCVResult{
		Alpha:   alphas[best],
		Alphas:  alphas,
		MSEPath: mse,
		MeanMSE: mean,
		Model:   model,
	}, nil
}
