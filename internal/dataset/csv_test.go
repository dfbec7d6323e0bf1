package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

const sampleCSV = `run,material,gate_type,T_mold_C,flash_um,weld_strength_MPa,max_inj_pressure_bar,operator
1,S1000P,fan,40,12.5,22.1,850,kim
2,S1000P,edge,45,,21.7,870,lee
3,S2000,fan,50,9.75,NA,880,kim
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, []string{"run", "material", "gate_type", "T_mold_C", "flash_um",
		"weld_strength_MPa", "max_inj_pressure_bar", "operator"}, table.Columns)

	first := table.Rows[0]
	assert.Equal(t, "S1000P", first.Categorical[models.ColumnMaterial])
	assert.Equal(t, "kim", first.Categorical["operator"])
	v, ok := first.Value(models.ParamMoldTemp)
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)

	_, ok = table.Rows[1].Value(models.OutcomeFlash)
	assert.False(t, ok, "empty cell must read as missing")
	_, ok = table.Rows[2].Value(models.OutcomeWeld)
	assert.False(t, ok, "NA must read as missing")
}

func TestReadCSVRejectsBadNumber(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("T_mold_C,flash_um\nhot,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "T_mold_C")
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoRows)
}

func TestWriteCSVKeepsColumnsAndMissingCells(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "run,material,gate_type,T_mold_C,flash_um,weld_strength_MPa,max_inj_pressure_bar,operator", lines[0])
	assert.Equal(t, "2,S1000P,edge,45,,21.7,870,lee", lines[2])
	assert.Equal(t, "3,S2000,fan,50,9.75,,880,kim", lines[3])
}
