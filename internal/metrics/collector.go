package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

const namespace = "flashopt"

// Collector records the metrics of one optimization run in a private
// Prometheus registry so runs never share state.
type Collector struct {
	mu        sync.Mutex
	startTime time.Time
	endTime   time.Time

	registry *prometheus.Registry

	rowsRead        prometheus.Gauge
	rowsKept        prometheus.Gauge
	stageDuration   *prometheus.GaugeVec
	boundsFallbacks *prometheus.CounterVec
	modelR2         *prometheus.GaugeVec
	activeFeatures  prometheus.Gauge
	gridPoints      prometheus.Counter
	infeasible      prometheus.Counter
	objective       prometheus.Gauge
	feasible        prometheus.Gauge
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	c := &Collector{
		startTime: time.Now(),
		registry:  prometheus.NewRegistry(),
		rowsRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_read",
			Help:      "Rows read from the input table.",
		}),
		rowsKept: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_kept",
			Help:      "Rows remaining after outlier filtering.",
		}),
		stageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage.",
		}, []string{"stage"}),
		boundsFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bounds_fallback_total",
			Help:      "Tunable parameters whose search interval fell back to the safety envelope.",
		}, []string{"parameter"}),
		modelR2: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_r2",
			Help:      "In-sample coefficient of determination per outcome model.",
		}, []string{"outcome"}),
		activeFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lasso_active_features",
			Help:      "Features with a non-zero coefficient in the selected Lasso model.",
		}),
		gridPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_points_evaluated_total",
			Help:      "Candidate operating points evaluated by the grid search.",
		}),
		infeasible: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_points_infeasible_total",
			Help:      "Evaluated points that violate at least one constraint.",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_objective",
			Help:      "Penalized objective of the recommended point.",
		}),
		feasible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recommendation_feasible",
			Help:      "1 if the recommended point satisfies both constraints, else 0.",
		}),
	}
	c.registry.MustRegister(
		c.rowsRead, c.rowsKept, c.stageDuration, c.boundsFallbacks,
		c.modelR2, c.activeFeatures, c.gridPoints, c.infeasible,
		c.objective, c.feasible,
	)
	return c
}

// Start marks the start of metric collection
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
}

// Stop marks the end of metric collection and records the total run time.
func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endTime = time.Now()
	c.stageDuration.WithLabelValues("total").Set(c.endTime.Sub(c.startTime).Seconds())
}

// Duration returns the time between Start and Stop
func (c *Collector) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endTime.IsZero() {
		return time.Since(c.startTime)
	}
	return c.endTime.Sub(c.startTime)
}

// StartStage starts timing stage. Call the returned function when the stage ends.
func (c *Collector) StartStage(stage string) func() {
	begin := time.Now()
	return func() {
		c.stageDuration.WithLabelValues(stage).Set(time.Since(begin).Seconds())
	}
}

// RecordCleaning records the row counts before and after filtering.
func (c *Collector) RecordCleaning(read, kept int) {
	c.rowsRead.Set(float64(read))
	c.rowsKept.Set(float64(kept))
}

// RecordModel records the fit diagnostics of one outcome model.
func (c *Collector) RecordModel(outcome string, r2 float64) {
	c.modelR2.WithLabelValues(outcome).Set(r2)
}

// RecordActiveFeatures records the size of the Lasso selection
func (c *Collector) RecordActiveFeatures(n int) {
	c.activeFeatures.Set(float64(n))
}

// RecordBoundsFallbacks counts each parameter that fell back to the envelope
func (c *Collector) RecordBoundsFallbacks(parameters []string) {
	for _, p := range parameters {
		c.boundsFallbacks.WithLabelValues(p).Inc()
	}
}

// RecordSearch records the outcome of a grid search
func (c *Collector) RecordSearch(rec *models.Recommendation) {
	if rec == nil {
		return
	}
	c.gridPoints.Add(float64(rec.GridPoints))
	c.infeasible.Add(float64(rec.InfeasiblePoints))
	c.objective.Set(rec.Objective)
	if rec.Feasible {
		c.feasible.Set(1)
	} else {
		c.feasible.Set(0)
	}
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes all metrics in the Prometheus text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
