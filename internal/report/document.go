// Package report renders the artifacts of an optimization run: the cleaned
// data, a machine-readable model report and a plain-text recommendation.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/rsm"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Document gathers everything a run reports.
type Document struct {
	RunID          string
	CreatedAt      time.Time
	Model          *rsm.Report
	Bounds         models.ParameterBounds
	BoundsFallback []string
	Recommendation *models.Recommendation
}

// NewDocument stamps a new run identifier on the results of one run.
func NewDocument(model *rsm.Report, bounds models.ParameterBounds, fallbacks []string, rec *models.Recommendation) *Document {
	return &Document{
		RunID:          uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Model:          model,
		Bounds:         bounds,
		BoundsFallback: fallbacks,
		Recommendation: rec,
	}
}

// MarshalModelReport encodes doc as indented JSON with top-level keys
// run_id, created_at, report, recommendation_inputs and prediction.
// Non-finite numbers are written as null.
func MarshalModelReport(doc *Document) ([]byte, error) {
	s, err := structpb.NewStruct(modelReport(doc))
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

func modelReport(doc *Document) map[string]any {
	out := map[string]any{
		"run_id": doc.RunID,
	}
	if !doc.CreatedAt.IsZero() {
		out["created_at"] = doc.CreatedAt.Format(time.RFC3339)
	}

	report := map[string]any{}
	if m := doc.Model; m != nil {
		report["r2_flash"] = number(m.R2Flash)
		report["mae_flash"] = number(m.MAEFlash)
		report["n_samples"] = m.NSamples
		report["alphas"] = numbers(m.Alphas)
		report["alpha_best"] = number(m.AlphaBest)
		report["active_features"] = m.ActiveFeatures
		report["feature_count"] = m.FeatureCount
		report["feature_names"] = stringList(m.FeatureNames)
		report["r2_weld"] = number(m.R2Weld)
		report["r2_pressure"] = number(m.R2Pressure)
	}
	if doc.Bounds != nil {
		bounds := make(map[string]any, len(doc.Bounds))
		for name, iv := range doc.Bounds {
			bounds[name] = map[string]any{"min": number(iv.Min), "max": number(iv.Max)}
		}
		report["bounds"] = bounds
	}
	report["bounds_fallback"] = stringList(doc.BoundsFallback)
	out["report"] = report

	if rec := doc.Recommendation; rec != nil {
		report["grid_points"] = rec.GridPoints
		report["infeasible_points"] = rec.InfeasiblePoints
		report["objective"] = number(rec.Objective)
		report["feasible"] = rec.Feasible

		inputs := make(map[string]any, len(rec.Inputs.Numeric)+len(rec.Inputs.Categorical))
		for k, v := range rec.Inputs.Numeric {
			inputs[k] = number(v)
		}
		for k, v := range rec.Inputs.Categorical {
			inputs[k] = v
		}
		out["recommendation_inputs"] = inputs

		out["prediction"] = map[string]any{
			models.OutcomeFlash:    number(rec.Prediction.Flash),
			models.OutcomeWeld:     number(rec.Prediction.Weld),
			models.OutcomePressure: number(rec.Prediction.Pressure),
			"weld_min":             number(rec.Constraints.WeldMin),
			"pinj_max":             number(rec.Constraints.PinjMax),
		}
	}
	return out
}

func number(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func numbers(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = number(v)
	}
	return out
}

func stringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
