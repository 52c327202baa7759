// internal/report/analysis.go
package report

import (
	"encoding/csv"
	"path/filepath"
	"strconv"

	"github.com/mwiater/syndeo/internal/metrics"
)

// CoreRow carries one variant's answer-overlap metrics within an
// experiment.
type CoreRow struct {
	Experiment string
	Variant    string
	Core       metrics.CoreResult
}

// WriteCoreSummaries writes a summary_core.csv per experiment plus the
// combined all_core_summary.csv under dir. Row order is preserved.
func WriteCoreSummaries(dir string, rows []CoreRow) error {
	header := []string{"experiment", "model", "Precision", "Recall", "Macro-F1", "n"}

	byExp, order := map[string][]CoreRow{}, []string{}
	for _, row := range rows {
		if _, ok := byExp[row.Experiment]; !ok {
			order = append(order, row.Experiment)
		}
		byExp[row.Experiment] = append(byExp[row.Experiment], row)
	}

	for _, exp := range order {
		if err := writeCoreCSV(filepath.Join(dir, exp, "summary_core.csv"), header, byExp[exp]); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return writeCoreCSV(filepath.Join(dir, "all_core_summary.csv"), header, rows)
}

func writeCoreCSV(path string, header []string, rows []CoreRow) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Experiment,
			row.Variant,
			formatFloat(row.Core.Precision),
			formatFloat(row.Core.Recall),
			formatFloat(row.Core.MacroF1),
			strconv.Itoa(row.Core.N),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReasoningRow carries one variant's reasoning-presence metrics within
// an experiment.
type ReasoningRow struct {
	Experiment string
	Variant    string
	Reasoning  metrics.ReasoningResult
}

// WriteReasoningSummaries writes a summary_reasoning.csv per experiment
// plus the combined all_reasoning_summary.csv under dir.
func WriteReasoningSummaries(dir string, rows []ReasoningRow) error {
	header := []string{"experiment", "model", "n_examples", "coverage_ratio", "avg_step_count_if_present"}

	byExp, order := map[string][]ReasoningRow{}, []string{}
	for _, row := range rows {
		if _, ok := byExp[row.Experiment]; !ok {
			order = append(order, row.Experiment)
		}
		byExp[row.Experiment] = append(byExp[row.Experiment], row)
	}

	for _, exp := range order {
		if err := writeReasoningCSV(filepath.Join(dir, exp, "summary_reasoning.csv"), header, byExp[exp]); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return writeReasoningCSV(filepath.Join(dir, "all_reasoning_summary.csv"), header, rows)
}

func writeReasoningCSV(path string, header []string, rows []ReasoningRow) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Experiment,
			row.Variant,
			strconv.Itoa(row.Reasoning.Examples),
			formatFloat(row.Reasoning.Coverage),
			formatFloat(row.Reasoning.AvgStepCount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
