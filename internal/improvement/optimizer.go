package improvement

import (
	"context"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Predictor maps a complete input record to the three modeled outcomes.
// Implementations must be safe for concurrent use and must not retain rec.
type Predictor interface {
	Predict(rec models.Record) (models.Prediction, error)
}

// PredictorFunc adapts a function to Predictor
type PredictorFunc func(rec models.Record) (models.Prediction, error)

// Predict calls f(rec)
func (f PredictorFunc) Predict(rec models.Record) (models.Prediction, error) {
	return f(rec)
}

// GridOptimizer exhaustively evaluates the tunable parameter grid and
// returns the point with the lowest penalized objective. Ties go to the
// point that comes first in canonical enumeration order.
type GridOptimizer struct {
	predictor Predictor
	workers   int
	progress  func(evaluated, total int)
}

// NewGridOptimizer creates a sequential grid optimizer
func NewGridOptimizer(predictor Predictor) *GridOptimizer {
	return &GridOptimizer{predictor: predictor, workers: 1}
}

// WithWorkers evaluates contiguous chunks of the grid concurrently.
// The result is identical to the sequential search.
func (o *GridOptimizer) WithWorkers(workers int) *GridOptimizer {
	if workers < 1 {
		workers = 1
	}
	o.workers = workers
	return o
}

// WithProgressReporter sets a callback invoked after each finished chunk
func (o *GridOptimizer) WithProgressReporter(fn func(evaluated, total int)) *GridOptimizer {
	o.progress = fn
	return o
}

// candidate is the best point found within a range of grid indices.
type candidate struct {
	index      int
	objective  float64
	prediction models.Prediction
	infeasible int
	evaluated  int
}

func (c candidate) better(other candidate) bool {
	if other.index < 0 {
		return c.index >= 0
	}
	return c.index >= 0 && c.objective < other.objective
}

// Optimize searches the grid spanned by bounds. fixed supplies every
// non-swept input; its tunable entries, if any, are overwritten per point.
// A winner that still violates a constraint is returned with Feasible=false.
func (o *GridOptimizer) Optimize(ctx context.Context, bounds models.ParameterBounds, fixed models.Record, constraints models.Constraints) (*models.Recommendation, error) {
	if o.predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	grid, err := NewGrid(bounds)
	if err != nil {
		return nil, err
	}
	objective := NewPenaltyObjective(constraints)

	logger.Info("starting grid search",
		"points", grid.Size(),
		"workers", o.workers,
		"weld_min", constraints.WeldMin,
		"pinj_max", constraints.PinjMax)

	best, err := o.search(ctx, grid, fixed, objective)
	if err != nil {
		return nil, err
	}

	point := make(map[string]float64, len(grid.Axes()))
	grid.Point(best.index, point)
	inputs := fixed.Clone()
	for name, v := range point {
		inputs.Numeric[name] = v
	}

	rec := &models.Recommendation{
		Point:            point,
		Inputs:           inputs,
		Prediction:       best.prediction,
		Constraints:      constraints,
		Objective:        best.objective,
		Feasible:         best.prediction.Satisfies(constraints),
		GridPoints:       grid.Size(),
		InfeasiblePoints: best.infeasible,
	}

	logger.Info("grid search finished",
		"objective", rec.Objective,
		"flash", rec.Prediction.Flash,
		"weld", rec.Prediction.Weld,
		"pressure", rec.Prediction.Pressure,
		"feasible", rec.Feasible,
		"infeasible_points", rec.InfeasiblePoints)
	if !rec.Feasible {
		logger.Warn("no grid point satisfies both constraints; returning least-penalized point")
	}
	return rec, nil
}

// scan evaluates grid indices [lo, hi) and returns the first minimum.
func (o *GridOptimizer) scan(ctx context.Context, grid *Grid, fixed models.Record, objective *PenaltyObjective, lo, hi int) (candidate, error) {
	best := candidate{index: -1, objective: math.Inf(1)}
	rec := fixed.Clone()
	for idx := lo; idx < hi; idx++ {
		if (idx-lo)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return best, err
			}
		}
		grid.Point(idx, rec.Numeric)
		pred, err := o.predictor.Predict(rec)
		if err != nil {
			point := make(map[string]float64)
			grid.Point(idx, point)
			return best, &PredictionError{Point: point, Err: err}
		}
		best.evaluated++
		if !pred.Satisfies(objective.Constraints) {
			best.infeasible++
		}
		score := objective.Evaluate(pred)
		if best.index < 0 || score < best.objective {
			best.index = idx
			best.objective = score
			best.prediction = pred
		}
	}
	return best, nil
}
