package improvement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

func TestNewAxis(t *testing.T) {
	tests := []struct {
		name string
		iv   models.Interval
		step float64
		want []float64
	}{
		{name: "exact multiple", iv: models.Interval{Min: 20, Max: 23}, step: 1, want: []float64{20, 21, 22, 23}},
		{name: "last value clamped", iv: models.Interval{Min: 20, Max: 21.5}, step: 1, want: []float64{20, 21, 21.5}},
		{name: "single value", iv: models.Interval{Min: 45, Max: 45}, step: 1, want: []float64{45}},
		{name: "fractional step", iv: models.Interval{Min: 1.8, Max: 2.2}, step: 0.1, want: []float64{1.8, 1.9, 2.0, 2.1, 2.2}},
		{name: "cool time", iv: models.Interval{Min: 7.0, Max: 7.1}, step: 0.1, want: []float64{7.0, 7.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := NewAxis("x", tt.iv, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, axis.Values)
		})
	}
}

func TestNewAxisInvalid(t *testing.T) {
	var boundsErr *InvalidBoundsError

	_, err := NewAxis("x", models.Interval{Min: 5, Max: 4}, 1)
	assert.True(t, errors.As(err, &boundsErr))

	_, err = NewAxis("x", models.Interval{Min: 4, Max: 5}, 0)
	assert.True(t, errors.As(err, &boundsErr))
}

func TestNewAxisStaysInBounds(t *testing.T) {
	env := envelope()
	for _, p := range models.TunableParameters {
		axis, err := NewAxis(p.Name, env[p.Name], p.Step)
		require.NoError(t, err)
		assert.Equal(t, env[p.Name].Min, axis.Values[0], p.Name)
		assert.Equal(t, env[p.Name].Max, axis.Values[len(axis.Values)-1], p.Name)
		for _, v := range axis.Values {
			assert.GreaterOrEqual(t, v, env[p.Name].Min, p.Name)
			assert.LessOrEqual(t, v, env[p.Name].Max, p.Name)
		}
	}
}

func TestGridEnumerationOrder(t *testing.T) {
	bounds := models.ParameterBounds{
		models.ParamMoldTemp:       {Min: 20, Max: 22},
		models.ParamInjectionSpeed: {Min: 30, Max: 34},
		models.ParamPackTime:       {Min: 2.0, Max: 2.2},
		models.ParamPackPressure:   {Min: 400, Max: 410},
		models.ParamCoolTime:       {Min: 7.0, Max: 7.1},
	}
	grid, err := NewGrid(bounds)
	require.NoError(t, err)
	assert.Equal(t, 3*3*3*3*2, grid.Size())

	p := make(map[string]float64)
	grid.Point(0, p)
	assert.Equal(t, map[string]float64{
		models.ParamMoldTemp:       20,
		models.ParamInjectionSpeed: 30,
		models.ParamPackTime:       2.0,
		models.ParamPackPressure:   400,
		models.ParamCoolTime:       7.0,
	}, p)

	// cool time varies fastest
	grid.Point(1, p)
	assert.Equal(t, 7.1, p[models.ParamCoolTime])
	assert.Equal(t, 400.0, p[models.ParamPackPressure])

	// mold temperature varies slowest
	grid.Point(grid.Size()-1, p)
	assert.Equal(t, 22.0, p[models.ParamMoldTemp])
	assert.Equal(t, 34.0, p[models.ParamInjectionSpeed])
	assert.Equal(t, 7.1, p[models.ParamCoolTime])

	grid.Point(54, p)
	assert.Equal(t, 21.0, p[models.ParamMoldTemp])
	assert.Equal(t, 30.0, p[models.ParamInjectionSpeed])
}

func TestNewGridMissingParameter(t *testing.T) {
	bounds := pointBounds(45, 60, 2.5, 400, 7.0)
	delete(bounds, models.ParamInjectionSpeed)

	_, err := NewGrid(bounds)
	var boundsErr *InvalidBoundsError
	require.True(t, errors.As(err, &boundsErr))
	assert.Equal(t, models.ParamInjectionSpeed, boundsErr.Parameter)
}
