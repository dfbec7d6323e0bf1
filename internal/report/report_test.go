package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/rsm"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

func sampleDocument() *Document {
	inputs := models.NewRecord()
	inputs.Numeric[models.ParamMoldTemp] = 42
	inputs.Numeric[models.ParamInjectionSpeed] = 64
	inputs.Numeric[models.ParamPackTime] = 2.6
	inputs.Numeric[models.ParamPackPressure] = 390
	inputs.Numeric[models.ParamCoolTime] = 6
	inputs.Numeric["gate_width_mm"] = 3
	inputs.Categorical[models.ColumnMaterial] = "S1000P"
	inputs.Categorical[models.ColumnGateType] = "fan"

	rec := &models.Recommendation{
		Point: map[string]float64{
			models.ParamMoldTemp:       42,
			models.ParamInjectionSpeed: 64,
			models.ParamPackTime:       2.6,
			models.ParamPackPressure:   390,
			models.ParamCoolTime:       6,
		},
		Inputs:           inputs,
		Prediction:       models.Prediction{Flash: 12.346, Weld: 31.2, Pressure: 904.6},
		Constraints:      models.Constraints{WeldMin: 30, PinjMax: 1000},
		Objective:        12.346,
		Feasible:         true,
		GridPoints:       500,
		InfeasiblePoints: 120,
	}
	model := &rsm.Report{
		R2Flash:        0.8734,
		MAEFlash:       1.234,
		NSamples:       93,
		Alphas:         []float64{1, 0.1, 0.01},
		AlphaBest:      0.1,
		ActiveFeatures: 7,
		FeatureCount:   22,
		FeatureNames:   []string{"T_mold_C", "T_mold_C^2"},
		R2Weld:         0.6,
		R2Pressure:     0.9,
	}
	return NewDocument(model, models.ParameterBounds{
		models.ParamMoldTemp: {Min: 25, Max: 49},
	}, nil, rec)
}

func TestSummary(t *testing.T) {
	got := Summary(sampleDocument())
	want := strings.Join([]string{
		"# DOE flash optimization: recommended settings",
		"- T_mold_C: 42.000",
		"- injection_speed_mm3s: 64.000",
		"- pack_time_s: 2.600",
		"- pack_pressure_bar: 390.000",
		"- cool_time_s: 6.000",
		"",
		"Predicted flash: 12.35 µm",
		"Weld-line strength (predicted): 31.20 MPa (floor 30.00)",
		"Max injection pressure (predicted): 905 bar (ceiling 1000)",
		"",
		"Model fit:",
		"- Flash R²: 0.873, MAE: 1.23 µm, n=93",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestSummaryWarnings(t *testing.T) {
	doc := sampleDocument()
	doc.Recommendation.Feasible = false
	doc.BoundsFallback = []string{models.ParamPackPressure, models.ParamCoolTime}

	got := Summary(doc)
	assert.Contains(t, got, "WARNING: no grid point satisfies both constraints")
	assert.Contains(t, got, "safety envelope for pack_pressure_bar, cool_time_s.")
}

func TestMarshalModelReport(t *testing.T) {
	doc := sampleDocument()
	data, err := MarshalModelReport(doc)
	require.NoError(t, err)

	var decoded struct {
		RunID  string `json:"run_id"`
		Report struct {
			R2Flash        float64                    `json:"r2_flash"`
			MAEFlash       float64                    `json:"mae_flash"`
			NSamples       int                        `json:"n_samples"`
			Alphas         []float64                  `json:"alphas"`
			AlphaBest      float64                    `json:"alpha_best"`
			ActiveFeatures int                        `json:"active_features"`
			Bounds         map[string]models.Interval `json:"bounds"`
			BoundsFallback []string                   `json:"bounds_fallback"`
			GridPoints     int                        `json:"grid_points"`
			Feasible       bool                       `json:"feasible"`
		} `json:"report"`
		Inputs     map[string]any     `json:"recommendation_inputs"`
		Prediction map[string]float64 `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, err = uuid.Parse(decoded.RunID)
	assert.NoError(t, err)
	assert.Equal(t, doc.RunID, decoded.RunID)
	assert.Equal(t, 0.8734, decoded.Report.R2Flash)
	assert.Equal(t, 93, decoded.Report.NSamples)
	assert.Equal(t, []float64{1, 0.1, 0.01}, decoded.Report.Alphas)
	assert.Equal(t, 0.1, decoded.Report.AlphaBest)
	assert.Equal(t, 7, decoded.Report.ActiveFeatures)
	assert.Equal(t, models.Interval{Min: 25, Max: 49}, decoded.Report.Bounds[models.ParamMoldTemp])
	assert.Empty(t, decoded.Report.BoundsFallback)
	assert.Equal(t, 500, decoded.Report.GridPoints)
	assert.True(t, decoded.Report.Feasible)

	assert.Equal(t, "S1000P", decoded.Inputs[models.ColumnMaterial])
	assert.Equal(t, 2.6, decoded.Inputs[models.ParamPackTime])
	assert.Equal(t, 3.0, decoded.Inputs["gate_width_mm"])

	assert.Equal(t, 12.346, decoded.Prediction[models.OutcomeFlash])
	assert.Equal(t, 30.0, decoded.Prediction["weld_min"])
	assert.Equal(t, 1000.0, decoded.Prediction["pinj_max"])
}

func TestMarshalModelReportNonFinite(t *testing.T) {
	doc := sampleDocument()
	doc.Recommendation.Objective = math.Inf(1)
	doc.Model.R2Weld = math.NaN()

	data, err := MarshalModelReport(doc)
	require.NoError(t, err)

	var decoded struct {
		RunID  string         `json:"run_id"`
		Report map[string]any `json:"report"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded.Report, "objective")
	require.Contains(t, decoded.Report, "r2_weld")
	assert.Nil(t, decoded.Report["objective"])
	assert.Nil(t, decoded.Report["r2_weld"])
	assert.Equal(t, 0.8734, decoded.Report["r2_flash"])
}

func TestNewDocumentRunIDsAreUnique(t *testing.T) {
	a := NewDocument(nil, nil, nil, nil)
	b := NewDocument(nil, nil, nil, nil)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestEmitterWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	e, err := NewEmitter(dir)
	require.NoError(t, err)

	row := models.NewRecord()
	row.Numeric[models.OutcomeFlash] = 12.5
	row.Categorical[models.ColumnMaterial] = "S1000P"
	clean := &models.Table{
		Columns: []string{models.OutcomeFlash, models.ColumnMaterial},
		Rows:    []models.Record{row},
	}

	artifacts, err := e.WriteAll(clean, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, CleanDataFile), artifacts.CleanData)
	assert.Equal(t, filepath.Join(dir, ModelReportFile), artifacts.ModelReport)
	assert.Equal(t, filepath.Join(dir, RecommendationFile), artifacts.Recommendation)
	assert.Len(t, artifacts.Paths(), 3)

	csvData, err := os.ReadFile(artifacts.CleanData)
	require.NoError(t, err)
	assert.Equal(t, "flash_um,material\n12.5,S1000P\n", string(csvData))

	summary, err := os.ReadFile(artifacts.Recommendation)
	require.NoError(t, err)
	assert.Equal(t, Summary(sampleDocument()), string(summary))

	reportData, err := os.ReadFile(artifacts.ModelReport)
	require.NoError(t, err)
	assert.True(t, json.Valid(reportData))
}
