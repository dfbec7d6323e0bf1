package improvement

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Penalty weights per unit of constraint violation. A weld shortfall costs
// 200x more than the same amount of pressure excess.
const (
	WeldPenaltyWeight     = 100.0
	PressurePenaltyWeight = 0.5
)

// ObjectiveFunction scores a predicted outcome triplet.
// Lower scores are better.
type ObjectiveFunction interface {
	// Evaluate computes the objective value for one prediction.
	Evaluate(pred models.Prediction) float64

	// Name returns the name of the objective function.
	Name() string
}

// PenaltyObjective is predicted flash plus linear penalties for a weld
// strength below WeldMin and a pressure above PinjMax.
type PenaltyObjective struct {
	Constraints models.Constraints
}

// NewPenaltyObjective creates the penalized flash objective for c
func NewPenaltyObjective(c models.Constraints) *PenaltyObjective {
	return &PenaltyObjective{Constraints: c}
}

func (o *PenaltyObjective) Name() string {
	return "penalized_flash"
}

// Penalty returns the constraint violation cost alone.
func (o *PenaltyObjective) Penalty(pred models.Prediction) float64 {
	penalty := 0.0
	if pred.Weld < o.Constraints.WeldMin {
		penalty += (o.Constraints.WeldMin - pred.Weld) * WeldPenaltyWeight
	}
	if pred.Pressure > o.Constraints.PinjMax {
		penalty += (pred.Pressure - o.Constraints.PinjMax) * PressurePenaltyWeight
	}
	return penalty
}

// Evaluate returns flash + penalty. NaN scores are mapped to +Inf so they
// never win a comparison.
func (o *PenaltyObjective) Evaluate(pred models.Prediction) float64 {
	score := pred.Flash + o.Penalty(pred)
	if math.IsNaN(score) {
		return math.Inf(1)
	}
	return score
}

// InvalidBoundsError indicates a search interval the grid cannot enumerate
type InvalidBoundsError struct {
	Parameter string
	Reason    string
}

func (e *InvalidBoundsError) Error() string {
	return "invalid bounds for " + e.Parameter + ": " + e.Reason
}

// PredictionError wraps a model failure at a specific grid point
type PredictionError struct {
	Point map[string]float64
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed at %v: %v", e.Point, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
