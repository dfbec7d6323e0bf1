package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

func TestCollectorRecordSearch(t *testing.T) {
	c := NewCollector()
	c.RecordSearch(&models.Recommendation{
		GridPoints:       120,
		InfeasiblePoints: 30,
		Objective:        4.5,
		Feasible:         true,
	})

	assert.Equal(t, 120.0, testutil.ToFloat64(c.gridPoints))
	assert.Equal(t, 30.0, testutil.ToFloat64(c.infeasible))
	assert.Equal(t, 4.5, testutil.ToFloat64(c.objective))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.feasible))

	c.RecordSearch(&models.Recommendation{GridPoints: 10, InfeasiblePoints: 10, Objective: 99})
	assert.Equal(t, 130.0, testutil.ToFloat64(c.gridPoints))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.feasible))

	c.RecordSearch(nil)
	assert.Equal(t, 130.0, testutil.ToFloat64(c.gridPoints))
}

func TestCollectorBoundsFallbacks(t *testing.T) {
	c := NewCollector()
	c.RecordBoundsFallbacks([]string{models.ParamPackPressure, models.ParamCoolTime})
	c.RecordBoundsFallbacks([]string{models.ParamPackPressure})
	c.RecordBoundsFallbacks(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.boundsFallbacks.WithLabelValues(models.ParamPackPressure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.boundsFallbacks.WithLabelValues(models.ParamCoolTime)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.boundsFallbacks))
}

func TestCollectorCleaningAndModel(t *testing.T) {
	c := NewCollector()
	c.RecordCleaning(100, 93)
	c.RecordModel(models.OutcomeFlash, 0.87)
	c.RecordActiveFeatures(14)

	assert.Equal(t, 100.0, testutil.ToFloat64(c.rowsRead))
	assert.Equal(t, 93.0, testutil.ToFloat64(c.rowsKept))
	assert.Equal(t, 0.87, testutil.ToFloat64(c.modelR2.WithLabelValues(models.OutcomeFlash)))
	assert.Equal(t, 14.0, testutil.ToFloat64(c.activeFeatures))
}

func TestCollectorStages(t *testing.T) {
	c := NewCollector()
	c.Start()
	done := c.StartStage("clean")
	time.Sleep(2 * time.Millisecond)
	done()
	c.Stop()

	assert.Greater(t, testutil.ToFloat64(c.stageDuration.WithLabelValues("clean")), 0.0)
	assert.Greater(t, testutil.ToFloat64(c.stageDuration.WithLabelValues("total")), 0.0)
	assert.GreaterOrEqual(t, c.Duration(), 2*time.Millisecond)
}

func TestCollectorWriteTextfile(t *testing.T) {
	c := NewCollector()
	c.RecordCleaning(10, 9)
	c.RecordBoundsFallbacks([]string{models.ParamMoldTemp})

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "flashopt_rows_kept 9"), text)
	assert.True(t, strings.Contains(text, `flashopt_bounds_fallback_total{parameter="T_mold_C"} 1`), text)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.RecordCleaning(5, 5)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.rowsRead))
}
