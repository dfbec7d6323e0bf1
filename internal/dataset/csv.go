package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// numericSchema lists columns that must parse as numbers.
func numericSchema() []string {
	return append(slices.Clone(models.NumericFeatures), models.Outcomes...)
}

func isMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

// ReadCSV parses a table with a header row. Schema numeric columns must be
// numeric (empty cells become missing values); schema categorical columns are
// kept as text. Other columns are numeric when every non-empty cell parses.
func ReadCSV(r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", ErrNoRows)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}

	numeric := make([]bool, len(header))
	for j, name := range header {
		switch {
		case slices.Contains(models.CategoricalFeatures, name):
			numeric[j] = false
		case slices.Contains(numericSchema(), name):
			numeric[j] = true
		default:
			numeric[j] = columnParses(records, j)
		}
	}

	table := &models.Table{Columns: header, Rows: make([]models.Record, 0, len(records))}
	for i, cells := range records {
		rec := models.NewRecord()
		for j, name := range header {
			cell := ""
			if j < len(cells) {
				cell = strings.TrimSpace(cells[j])
			}
			if !numeric[j] {
				rec.Categorical[name] = cell
				continue
			}
			if isMissing(cell) {
				rec.Numeric[name] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: invalid number %q: %w", i+2, name, cell, err)
			}
			rec.Numeric[name] = v
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func columnParses(records [][]string, j int) bool {
	for _, cells := range records {
		if j >= len(cells) || isMissing(cells[j]) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(cells[j]), 64); err != nil {
			return false
		}
	}
	return true
}

// LoadCSV reads a table from path
func LoadCSV(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return table, nil
}

// WriteCSV writes the table with its original column order. Missing numeric
// values are written as empty cells.
func WriteCSV(w io.Writer, table *models.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	cells := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for j, name := range table.Columns {
			if s, ok := row.Categorical[name]; ok {
				cells[j] = s
				continue
			}
			v, ok := row.Value(name)
			if !ok {
				cells[j] = ""
				continue
			}
			cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
