package improvement

import (
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// numericTable builds a table from column names and row values.
func numericTable(columns []string, rows [][]float64) *models.Table {
	t := &models.Table{Columns: columns}
	for _, values := range rows {
		rec := models.NewRecord()
		for i, c := range columns {
			rec.Numeric[c] = values[i]
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func envelope() map[string]models.Interval {
	return map[string]models.Interval{
		models.ParamMoldTemp:       {Min: 20, Max: 60},
		models.ParamInjectionSpeed: {Min: 30, Max: 100},
		models.ParamPackTime:       {Min: 1.8, Max: 4.0},
		models.ParamPackPressure:   {Min: 350, Max: 520},
		models.ParamCoolTime:       {Min: 5.5, Max: 8.5},
	}
}

func pointBounds(t, speed, packTime, packPressure, cool float64) models.ParameterBounds {
	return models.ParameterBounds{
		models.ParamMoldTemp:       {Min: t, Max: t},
		models.ParamInjectionSpeed: {Min: speed, Max: speed},
		models.ParamPackTime:       {Min: packTime, Max: packTime},
		models.ParamPackPressure:   {Min: packPressure, Max: packPressure},
		models.ParamCoolTime:       {Min: cool, Max: cool},
	}
}
