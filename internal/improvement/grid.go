package improvement

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/utils"
)

// gridDecimals is the rounding applied to axis values to remove the drift
// of repeated float steps (e.g. 1.8 + 3*0.1).
const gridDecimals = 9

// Axis is one swept dimension of the grid.
type Axis struct {
	Name   string
	Values []float64
}

// NewAxis enumerates lo, lo+step, ... up to hi. The count is
// ceil((hi-lo)/step)+1 and the last value is clamped to hi, so every value
// lies inside the interval. lo == hi yields a single value.
func NewAxis(name string, iv models.Interval, step float64) (Axis, error) {
	if math.IsNaN(iv.Min) || math.IsNaN(iv.Max) || math.IsInf(iv.Min, 0) || math.IsInf(iv.Max, 0) {
		return Axis{}, &InvalidBoundsError{Parameter: name, Reason: "bounds must be finite"}
	}
	if iv.Min > iv.Max {
		return Axis{}, &InvalidBoundsError{Parameter: name, Reason: fmt.Sprintf("min %g exceeds max %g", iv.Min, iv.Max)}
	}
	if !(step > 0) {
		return Axis{}, &InvalidBoundsError{Parameter: name, Reason: "step must be positive"}
	}

	steps := int(math.Ceil((iv.Max-iv.Min)/step - 1e-9))
	if steps < 0 {
		steps = 0
	}
	values := make([]float64, steps+1)
	for i := range values {
		values[i] = utils.Round(utils.ClampFloat64(iv.Min+float64(i)*step, iv.Min, iv.Max), gridDecimals)
	}
	return Axis{Name: name, Values: values}, nil
}

// Grid is the Cartesian product of the tunable parameter axes. Points are
// numbered in canonical order: the first axis varies slowest, the last
// fastest.
type Grid struct {
	axes []Axis
	size int
}

// NewGrid builds the search grid from bounds using the fixed step sizes.
func NewGrid(bounds models.ParameterBounds) (*Grid, error) {
	g := &Grid{size: 1}
	for _, p := range models.TunableParameters {
		iv, ok := bounds[p.Name]
		if !ok {
			return nil, &InvalidBoundsError{Parameter: p.Name, Reason: "missing"}
		}
		axis, err := NewAxis(p.Name, iv, p.Step)
		if err != nil {
			return nil, err
		}
		if g.size > math.MaxInt/len(axis.Values) {
			return nil, &InvalidBoundsError{Parameter: p.Name, Reason: "grid too large"}
		}
		g.size *= len(axis.Values)
		g.axes = append(g.axes, axis)
	}
	return g, nil
}

// Size returns the number of grid points
func (g *Grid) Size() int {
	return g.size
}

// Axes returns the grid axes in canonical order
func (g *Grid) Axes() []Axis {
	return g.axes
}

// Point writes the coordinates of point idx into dst.
func (g *Grid) Point(idx int, dst map[string]float64) {
	for k := len(g.axes) - 1; k >= 0; k-- {
		n := len(g.axes[k].Values)
		dst[g.axes[k].Name] = g.axes[k].Values[idx%n]
		idx /= n
	}
}
