package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minslab/revmomo/internal/frame"
	"github.com/minslab/revmomo/internal/stats"
)

// ArtifactWriter writes run artifacts (weights CSV, stats JSON) under
// a base directory, one subdirectory per run day.
type ArtifactWriter struct {
	baseDir string
}

// NewArtifactWriter creates an artifact writer rooted at baseDir.
func NewArtifactWriter(baseDir string) *ArtifactWriter {
	return &ArtifactWriter{baseDir: baseDir}
}

// runDir creates and returns the per-run artifact directory.
func (w *ArtifactWriter) runDir(day time.Time) (string, error) {
	dir := filepath.Join(w.baseDir, day.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	return dir, nil
}

// WriteWeightsCSV writes the weight matrix in long format: one row
// per nonzero (day, asset) cell.
func (w *ArtifactWriter) WriteWeightsCSV(day time.Time, weights *frame.Matrix) (string, error) {
	dir, err := w.runDir(day)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "weights.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create weights csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"date", "asset", "weight"}); err != nil {
		return "", err
	}

	times := weights.Times()
	assets := weights.Assets()
	for ti := range times {
		for ai := range assets {
			v := weights.At(ti, ai)
			if v == 0 || math.IsNaN(v) {
				continue
			}
			record := []string{
				times[ti].Format("2006-01-02"),
				assets[ai],
				strconv.FormatFloat(v, 'f', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return "", err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("write weights csv: %w", err)
	}
	return path, nil
}

// WriteStatsJSON writes the performance report as indented JSON.
func (w *ArtifactWriter) WriteStatsJSON(day time.Time, report *stats.Report) (string, error) {
	dir, err := w.runDir(day)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}

	path := filepath.Join(dir, "stats.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write stats json: %w", err)
	}
	return path, nil
}
