// Package features turns experiment records into model-ready feature vectors:
// degree-2 polynomial expansion and standardization for numeric inputs,
// one-hot encoding for categorical inputs.
package features

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// ErrMissingValue is returned when a numeric input is absent or NaN.
var ErrMissingValue = errors.New("missing feature value")

// Columns selects the raw inputs of a pipeline.
type Columns struct {
	Numeric     []string
	Categorical []string
}

// constantTolerance marks a column as constant; such columns keep scale 1.
const constantTolerance = 1e-12

// Pipeline holds the state learned at fit time. It is immutable after Fit,
// so Transform is a pure function of the pipeline and the record.
type Pipeline struct {
	numeric     []string
	categorical []string
	mean        []float64
	scale       []float64
	vocab       [][]string
	names       []string
}

// Fit learns standardization statistics and category vocabularies from table.
func Fit(table *models.Table, cols Columns) (*Pipeline, error) {
	p, _, err := FitTransform(table, cols)
	return p, err
}

// FitTransform fits a pipeline and returns the transformed design matrix.
// The matrix is produced by Transform itself, so fit-time and predict-time
// encodings are identical.
func FitTransform(table *models.Table, cols Columns) (*Pipeline, *mat.Dense, error) {
	if table.Len() == 0 {
		return nil, nil, fmt.Errorf("cannot fit feature pipeline on an empty table")
	}

	p := &Pipeline{
		numeric:     slices.Clone(cols.Numeric),
		categorical: slices.Clone(cols.Categorical),
	}

	width := expandedWidth(len(p.numeric))
	raw := mat.NewDense(table.Len(), max(width, 1), nil)
	for i, row := range table.Rows {
		x, err := p.numericInputs(row)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		if width > 0 {
			raw.SetRow(i, expand(x))
		}
	}

	p.mean = make([]float64, width)
	p.scale = make([]float64, width)
	col := make([]float64, table.Len())
	for j := 0; j < width; j++ {
		mat.Col(col, j, raw)
		mean, std := stat.PopMeanStdDev(col, nil)
		p.mean[j] = mean
		if std <= constantTolerance*math.Max(1, math.Abs(mean)) {
			std = 1
		}
		p.scale[j] = std
	}

	p.vocab = make([][]string, len(p.categorical))
	for k, c := range p.categorical {
		seen := make(map[string]bool)
		for _, row := range table.Rows {
			seen[row.Categorical[c]] = true
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		p.vocab[k] = values
	}

	p.names = p.featureNames()

	x, err := p.TransformTable(table)
	if err != nil {
		return nil, nil, err
	}
	return p, x, nil
}

// Width returns the length of every transformed vector.
func (p *Pipeline) Width() int {
	return len(p.names)
}

// FeatureNames returns the transformed column names in output order.
func (p *Pipeline) FeatureNames() []string {
	return slices.Clone(p.names)
}

// Columns returns the raw inputs the pipeline was fit on.
func (p *Pipeline) Columns() Columns {
	return Columns{Numeric: slices.Clone(p.numeric), Categorical: slices.Clone(p.categorical)}
}

// Transform maps one record to its feature vector. Unseen categories encode
// as an all-zero block.
func (p *Pipeline) Transform(rec models.Record) ([]float64, error) {
	out := make([]float64, 0, p.Width())

	x, err := p.numericInputs(rec)
	if err != nil {
		return nil, err
	}
	if len(x) > 0 {
		for j, v := range expand(x) {
			out = append(out, (v-p.mean[j])/p.scale[j])
		}
	}

	for k, c := range p.categorical {
		value := rec.Categorical[c]
		for _, category := range p.vocab[k] {
			if category == value {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out, nil
}

// TransformTable transforms every row of table into a design matrix.
func (p *Pipeline) TransformTable(table *models.Table) (*mat.Dense, error) {
	if table.Len() == 0 {
		return nil, fmt.Errorf("cannot transform an empty table")
	}
	if p.Width() == 0 {
		return nil, fmt.Errorf("feature pipeline has no inputs")
	}
	x := mat.NewDense(table.Len(), p.Width(), nil)
	for i, row := range table.Rows {
		v, err := p.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		x.SetRow(i, v)
	}
	return x, nil
}

func (p *Pipeline) numericInputs(rec models.Record) ([]float64, error) {
	x := make([]float64, len(p.numeric))
	for j, c := range p.numeric {
		v, ok := rec.Value(c)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingValue, c)
		}
		x[j] = v
	}
	return x, nil
}

func (p *Pipeline) featureNames() []string {
	names := make([]string, 0, expandedWidth(len(p.numeric)))
	names = append(names, p.numeric...)
	for i := range p.numeric {
		for j := i; j < len(p.numeric); j++ {
			if i == j {
				names = append(names, p.numeric[i]+"^2")
			} else {
				names = append(names, p.numeric[i]+" "+p.numeric[j])
			}
		}
	}
	for k, c := range p.categorical {
		for _, category := range p.vocab[k] {
			names = append(names, c+"_"+category)
		}
	}
	return names
}
