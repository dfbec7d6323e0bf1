// Package rsm builds the response-surface models that map process settings
// to flash, weld-line strength and maximum injection pressure.
//
// All three outcomes share one fitted feature pipeline. The flash model is
// fit in two phases: a cross-validated lasso selects the regularization
// strength and active features for diagnostics, then an ordinary least
// squares refit on the same features is deployed for prediction.
package rsm

import (
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/dataset"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/features"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/regression"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// ErrInsufficientRows is returned when the table has no rows or fewer rows
// than expanded features.
var ErrInsufficientRows = errors.New("insufficient rows for model fit")

// Options configures model building.
type Options struct {
	CV regression.LassoCVOptions
}

// DefaultOptions returns 5-fold cross-validation over 50 alphas.
func DefaultOptions() Options {
	return Options{CV: regression.DefaultLassoCVOptions()}
}

// Report carries the flash model diagnostics.
type Report struct {
	R2Flash   float64   `json:"r2_flash"`
	MAEFlash  float64   `json:"mae_flash"`
	NSamples  int       `json:"n_samples"`
	Alphas    []float64 `json:"alphas"`
	AlphaBest float64   `json:"alpha_best"`
	// ActiveFeatures counts the non-zero lasso coefficients at AlphaBest.
	ActiveFeatures int      `json:"active_features"`
	FeatureCount   int      `json:"feature_count"`
	FeatureNames   []string `json:"feature_names"`
	R2Weld         float64  `json:"r2_weld"`
	R2Pressure     float64  `json:"r2_pressure"`
}

// Models is the fitted set of response surfaces.
type Models struct {
	pipeline  *features.Pipeline
	Flash     *regression.LinearModel
	Weld      *regression.LinearModel
	Pressure  *regression.LinearModel
	Selection *regression.LassoCVResult
}

// Pipeline returns the shared feature pipeline
func (m *Models) Pipeline() *features.Pipeline {
	return m.pipeline
}

// Predict transforms rec once and evaluates all three outcome models.
func (m *Models) Predict(rec models.Record) (models.Prediction, error) {
	x, err := m.pipeline.Transform(rec)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("transform: %w", err)
	}
	flash, err := m.Flash.Predict(x)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("flash: %w", err)
	}
	weld, err := m.Weld.Predict(x)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("weld: %w", err)
	}
	pressure, err := m.Pressure.Predict(x)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("pressure: %w", err)
	}
	return models.Prediction{Flash: flash, Weld: weld, Pressure: pressure}, nil
}

// RequiredFeatures lists the feature columns a table must carry to be
// modeled: every fixed numeric parameter and both categorical columns.
// Tunable parameters may be absent.
func RequiredFeatures() []string {
	return append(models.FixedNumericFeatures(), models.CategoricalFeatures...)
}

// InputColumns returns the schema feature columns the table carries.
func InputColumns(table *models.Table) features.Columns {
	var cols features.Columns
	for _, c := range models.NumericFeatures {
		if table.HasColumn(c) {
			cols.Numeric = append(cols.Numeric, c)
		}
	}
	for _, c := range models.CategoricalFeatures {
		if table.HasColumn(c) {
			cols.Categorical = append(cols.Categorical, c)
		}
	}
	return cols
}

// Build fits the shared pipeline and the three outcome models on a cleaned table.
func Build(table *models.Table, opts Options) (*Models, *Report, error) {
	if table.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: table is empty", ErrInsufficientRows)
	}
	if err := dataset.RequireColumns(table, models.Outcomes...); err != nil {
		return nil, nil, err
	}
	if err := dataset.RequireColumns(table, RequiredFeatures()...); err != nil {
		return nil, nil, err
	}

	cols := InputColumns(table)

	pipeline, x, err := features.FitTransform(table, cols)
	if err != nil {
		return nil, nil, fmt.Errorf("fit feature pipeline: %w", err)
	}
	n, p := x.Dims()
	if n < p {
		return nil, nil, fmt.Errorf("%w: %d rows for %d expanded features", ErrInsufficientRows, n, p)
	}

	targets := make(map[string][]float64, len(models.Outcomes))
	for _, y := range models.Outcomes {
		values := table.NumericColumn(y)
		if len(values) != n {
			return nil, nil, fmt.Errorf("%w: %s has missing values", features.ErrMissingValue, y)
		}
		targets[y] = values
	}

	selection, err := regression.LassoCV(x, targets[models.OutcomeFlash], opts.CV)
	if err != nil {
		return nil, nil, fmt.Errorf("flash variable selection: %w", err)
	}

	fitted := make(map[string]*regression.LinearModel, len(models.Outcomes))
	r2 := make(map[string]float64, len(models.Outcomes))
	var maeFlash float64
	for _, y := range models.Outcomes {
		m, err := regression.FitOLS(x, targets[y])
		if err != nil {
			return nil, nil, fmt.Errorf("fit %s model: %w", y, err)
		}
		yhat, err := m.PredictMatrix(x)
		if err != nil {
			return nil, nil, fmt.Errorf("predict %s: %w", y, err)
		}
		if r2[y], err = regression.R2(targets[y], yhat); err != nil {
			return nil, nil, fmt.Errorf("score %s: %w", y, err)
		}
		if y == models.OutcomeFlash {
			if maeFlash, err = regression.MAE(targets[y], yhat); err != nil {
				return nil, nil, fmt.Errorf("score %s: %w", y, err)
			}
		}
		fitted[y] = m
	}

	built := &Models{
		pipeline:  pipeline,
		Flash:     fitted[models.OutcomeFlash],
		Weld:      fitted[models.OutcomeWeld],
		Pressure:  fitted[models.OutcomePressure],
		Selection: selection,
	}
	report := &Report{
		R2Flash:        r2[models.OutcomeFlash],
		MAEFlash:       maeFlash,
		NSamples:       n,
		Alphas:         selection.Alphas,
		AlphaBest:      selection.Alpha,
		ActiveFeatures: selection.Model.NonZero(),
		FeatureCount:   p,
		FeatureNames:   pipeline.FeatureNames(),
		R2Weld:         r2[models.OutcomeWeld],
		R2Pressure:     r2[models.OutcomePressure],
	}

	logger.Info("fitted response surface models",
		"samples", n,
		"features", p,
		"alpha_best", report.AlphaBest,
		"active_features", report.ActiveFeatures,
		"r2_flash", report.R2Flash,
		"mae_flash", report.MAEFlash)

	return built, report, nil
}
