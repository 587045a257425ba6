package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer writes sweep results into a timestamped subdirectory so repeated
// sweeps never clobber each other.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create result directory: %w", err)
	}

	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the directory this writer's files land in.
func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteRunRecords writes one CSV row per parameter combination.
func (w *Writer) WriteRunRecords(records []RunRecord) error {
	path := filepath.Join(w.baseDir, "runs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create runs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"policy_a", "policy_b", "delta", "mu",
		"exact_a", "exact_b", "monte_a", "monte_b",
		"disagreement", "exact_nanos", "monte_nanos",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write runs header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.PolicyA,
			r.PolicyB,
			formatFloat(r.Delta),
			formatFloat(r.Mu),
			formatFloat(r.ExactA),
			formatFloat(r.ExactB),
			formatFloat(r.MonteA),
			formatFloat(r.MonteB),
			formatFloat(r.Disagreement()),
			strconv.FormatInt(r.ExactNanos, 10),
			strconv.FormatInt(r.MonteNanos, 10),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write run record: %w", err)
		}
	}
	return nil
}

// WriteSummary writes the cross-engine agreement summary as a small text
// file, one value per line.
func (w *Writer) WriteSummary(s Summary) error {
	path := filepath.Join(w.baseDir, "summary.txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "runs: %d\nmean_disagreement: %g\nstd_disagreement: %g\nmax_disagreement: %g\n",
		s.Runs, s.MeanDisagreement, s.StdDisagreement, s.MaxDisagreement)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
