package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/flash-optimizer/internal/dataset"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/logger"
	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// Artifact file names inside the output directory.
const (
	CleanDataFile      = "clean_data.csv"
	ModelReportFile    = "model_report.json"
	RecommendationFile = "recommendations.txt"
	MetricsFile        = "metrics.prom"
)

// Artifacts lists the paths written by an Emitter.
type Artifacts struct {
	CleanData      string
	ModelReport    string
	Recommendation string
}

// Paths returns the artifact paths in display order
func (a Artifacts) Paths() []string {
	return []string{a.Recommendation, a.ModelReport, a.CleanData}
}

// Emitter writes run artifacts into one directory.
type Emitter struct {
	dir string
}

// NewEmitter creates dir if needed and returns an emitter writing into it.
func NewEmitter(dir string) (*Emitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Emitter{dir: dir}, nil
}

// Dir returns the output directory
func (e *Emitter) Dir() string {
	return e.dir
}

// Path joins name onto the output directory
func (e *Emitter) Path(name string) string {
	return filepath.Join(e.dir, name)
}

// WriteCleanData writes the cleaned table as CSV.
func (e *Emitter) WriteCleanData(table *models.Table) (string, error) {
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, table); err != nil {
		return "", fmt.Errorf("failed to encode clean data: %w", err)
	}
	return e.write(CleanDataFile, buf.Bytes())
}

// WriteModelReport writes the JSON model report.
func (e *Emitter) WriteModelReport(doc *Document) (string, error) {
	data, err := MarshalModelReport(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode model report: %w", err)
	}
	return e.write(ModelReportFile, data)
}

// WriteSummary writes the plain-text recommendation.
func (e *Emitter) WriteSummary(doc *Document) (string, error) {
	return e.write(RecommendationFile, []byte(Summary(doc)))
}

// WriteAll writes every artifact of a run.
func (e *Emitter) WriteAll(clean *models.Table, doc *Document) (Artifacts, error) {
	var a Artifacts
	var err error
	if a.CleanData, err = e.WriteCleanData(clean); err != nil {
		return a, err
	}
	if a.ModelReport, err = e.WriteModelReport(doc); err != nil {
		return a, err
	}
	if a.Recommendation, err = e.WriteSummary(doc); err != nil {
		return a, err
	}
	return a, nil
}

func (e *Emitter) write(name string, data []byte) (string, error) {
	path := e.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("wrote artifact", "path", path, "bytes", len(data))
	return path, nil
}
