// Package pipeline runs the full tuning workflow: load, clean, model,
// bound, search and report.
package pipeline

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/dataset"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/improvement"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/metrics"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/regression"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/report"
	"github.com/GoSim-25-26J-441/flash-optimizer/internal/rsm"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/config"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Result holds the outputs of one run.
type Result struct {
	Clean          *models.Table
	Models         *rsm.Models
	Report         *rsm.Report
	Bounds         models.ParameterBounds
	BoundsFallback []string
	Constraints    models.Constraints
	Recommendation *models.Recommendation
	Document       *report.Document
	Artifacts      report.Artifacts
}

// Runner executes runs for one configuration.
type Runner struct {
	cfg       *config.Config
	collector *metrics.Collector
	progress  func(evaluated, total int)
}

// NewRunner creates a runner. cfg must already be validated.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg, collector: metrics.NewCollector()}
}

// WithProgressReporter forwards grid search progress to fn
func (r *Runner) WithProgressReporter(fn func(evaluated, total int)) *Runner {
	r.progress = fn
	return r
}

// Metrics returns the collector of this runner
func (r *Runner) Metrics() *metrics.Collector {
	return r.collector
}

// Run loads the CSV at path, analyzes it and, when an output directory is
// configured, writes every artifact. The total run time covers load through
// search; the report stage is timed on its own.
func (r *Runner) Run(ctx context.Context, path string) (*Result, error) {
	r.collector.Start()
	res, err := r.loadAndAnalyze(ctx, path)
	r.collector.Stop()
	if err != nil {
		return nil, err
	}
	if r.cfg.OutputDir == "" {
		return res, nil
	}
	if err := r.Emit(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) loadAndAnalyze(ctx context.Context, path string) (*Result, error) {
	done := r.collector.StartStage("load")
	table, err := dataset.LoadCSV(path)
	done()
	if err != nil {
		return nil, err
	}
	logger.Info("loaded experiment table", "path", path, "rows", table.Len(), "columns", len(table.Columns))
	return r.Analyze(ctx, table)
}

// Analyze runs cleaning, model building and the constrained search on table.
func (r *Runner) Analyze(ctx context.Context, table *models.Table) (*Result, error) {
	res := &Result{}
	var err error

	done := r.collector.StartStage("clean")
	res.Clean, err = dataset.Clean(table)
	done()
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	r.collector.RecordCleaning(table.Len(), res.Clean.Len())
	logger.Info("cleaned experiment table", "rows_in", table.Len(), "rows_kept", res.Clean.Len())

	done = r.collector.StartStage("model")
	res.Models, res.Report, err = rsm.Build(res.Clean, r.modelOptions())
	done()
	if err != nil {
		return nil, fmt.Errorf("build models: %w", err)
	}
	r.collector.RecordModel(models.OutcomeFlash, res.Report.R2Flash)
	r.collector.RecordModel(models.OutcomeWeld, res.Report.R2Weld)
	r.collector.RecordModel(models.OutcomePressure, res.Report.R2Pressure)
	r.collector.RecordActiveFeatures(res.Report.ActiveFeatures)

	res.Bounds, res.BoundsFallback, err = improvement.ResolveBounds(res.Clean, r.cfg.SafetyEnvelope)
	if err != nil {
		return nil, fmt.Errorf("resolve bounds: %w", err)
	}
	r.collector.RecordBoundsFallbacks(res.BoundsFallback)

	res.Constraints, err = improvement.ResolveConstraints(res.Clean, improvement.ConstraintOverrides{
		WeldMin: r.cfg.Constraints.WeldMin,
		PinjMax: r.cfg.Constraints.PinjMax,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve constraints: %w", err)
	}

	fixed := improvement.FixedInputs(res.Clean, map[string]string{
		models.ColumnMaterial: r.cfg.OperatingPoint.Material,
		models.ColumnGateType: r.cfg.OperatingPoint.GateType,
	})

	optimizer := improvement.NewGridOptimizer(res.Models).
		WithWorkers(r.cfg.Search.Workers).
		WithProgressReporter(r.progress)

	done = r.collector.StartStage("search")
	res.Recommendation, err = optimizer.Optimize(ctx, res.Bounds, fixed, res.Constraints)
	done()
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	r.collector.RecordSearch(res.Recommendation)

	res.Document = report.NewDocument(res.Report, res.Bounds, res.BoundsFallback, res.Recommendation)
	return res, nil
}

// Emit writes the artifacts of res and the run metrics to the output directory.
func (r *Runner) Emit(res *Result) error {
	emitter, err := report.NewEmitter(r.cfg.OutputDir)
	if err != nil {
		return err
	}
	done := r.collector.StartStage("report")
	res.Artifacts, err = emitter.WriteAll(res.Clean, res.Document)
	done()
	if err != nil {
		return err
	}
	if err := r.collector.WriteTextfile(emitter.Path(report.MetricsFile)); err != nil {
		return err
	}
	logger.Info("wrote run artifacts", "dir", emitter.Dir(), "run_id", res.Document.RunID)
	return nil
}

func (r *Runner) modelOptions() rsm.Options {
	return rsm.Options{CV: regression.LassoCVOptions{
		Folds:   regression.DefaultLassoCVOptions().Folds,
		NAlphas: r.cfg.Model.NAlphas,
		Eps:     r.cfg.Model.Eps,
		Lasso: regression.LassoOptions{
			MaxIter: r.cfg.Model.MaxIter,
			Tol:     r.cfg.Model.Tol,
		},
	}}
}
