// internal/report/report_test.go
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mwiater/syndeo/internal/metrics"
	"github.com/mwiater/syndeo/internal/scoring"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return rows
}

func TestWriteDetailedOrdersRows(t *testing.T) {
	results := map[string]*scoring.Evaluation{
		"b_model": {Results: []scoring.Result{
			{PuzzleID: "1", Score: 1, CorrectGroups: 4},
		}},
		"a_model": {Results: []scoring.Result{
			{PuzzleID: "note", Score: 0, CorrectGroups: 0},
			{PuzzleID: "10", Score: 0.5, CorrectGroups: 2},
			{PuzzleID: "2_dup2", Score: 0.25, CorrectGroups: 1},
			{PuzzleID: "2", Score: 0.75, CorrectGroups: 3},
		}},
	}

	path := filepath.Join(t.TempDir(), "evaluation_results.csv")
	if err := WriteDetailed(path, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows := readCSV(t, path)
	if !reflect.DeepEqual(rows[0], []string{"model_name", "puzzle_id", "score", "correct_groups"}) {
		t.Fatalf("header = %v", rows[0])
	}
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}

	var ids []string
	for _, row := range rows[1:5] {
		if row[0] != "a_model" {
			t.Fatalf("models not alphabetical: %v", row)
		}
		ids = append(ids, row[1])
	}
	if !reflect.DeepEqual(ids, []string{"2", "2_dup2", "10", "note"}) {
		t.Fatalf("id order = %v", ids)
	}
	if rows[5][0] != "b_model" || rows[5][2] != "1.00" {
		t.Fatalf("last row = %v", rows[5])
	}
}

func TestWriteSummaryFormats(t *testing.T) {
	results := map[string]*scoring.Evaluation{
		"solver": {
			Results: []scoring.Result{
				{PuzzleID: "1", Score: 1, CorrectGroups: 4},
				{PuzzleID: "2", Score: 0.5, CorrectGroups: 2},
				{PuzzleID: "3", Score: 0.25, CorrectGroups: 1},
				{PuzzleID: "4", Score: 0.25, CorrectGroups: 1},
			},
			TotalScore: 2.0,
			Perfect:    1,
		},
		"empty": {},
	}

	path := filepath.Join(t.TempDir(), "evaluation_summary.csv")
	if err := WriteSummary(path, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus one model", len(rows))
	}
	want := []string{"solver", "4", "50.00%", "1/4 (25.0%)", "8"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("summary row = %v, want %v", rows[1], want)
	}
}

func TestWriteExtractions(t *testing.T) {
	results := map[string]*scoring.Evaluation{
		"solver": {Results: []scoring.Result{
			{
				PuzzleID:        "12",
				Score:           0.25,
				CorrectGroups:   1,
				TotalGroups:     4,
				ReferenceGroups: [][]string{{"A", "B", "C", "D"}},
				GroupMatches: []scoring.GroupMatch{
					{Reference: []string{"A", "B", "C", "D"}, Matched: true},
					{Reference: []string{"E", "F", "G", "H"}, Nearest: []string{"E", "F", "G", "X"}, Distance: 2},
				},
			},
			{PuzzleID: "3", Score: 0, TotalGroups: 4},
		}},
	}

	path := filepath.Join(t.TempDir(), "evaluation_extractions.json")
	if err := WriteExtractions(path, results); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"predicted_groups": []`) {
		t.Fatal("missing groups should encode as empty lists")
	}

	var details map[string][]ExtractionDetail
	if err := json.Unmarshal(raw, &details); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rows := details["solver"]
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].PuzzleID != "3" || rows[1].PuzzleID != "12" {
		t.Fatalf("row order = %s, %s", rows[0].PuzzleID, rows[1].PuzzleID)
	}
	if rows[1].ReferenceGroups[0][3] != "D" {
		t.Fatalf("reference groups = %v", rows[1].ReferenceGroups)
	}

	matches := rows[1].GroupMatches
	if len(matches) != 2 {
		t.Fatalf("group matches = %d, want 2", len(matches))
	}
	if !matches[0].Matched || matches[0].NearestPredicted != nil {
		t.Fatalf("matched group should carry no nearest miss: %+v", matches[0])
	}
	if matches[1].Matched || matches[1].EditDistance != 2 {
		t.Fatalf("missed group diagnostics wrong: %+v", matches[1])
	}
	if !reflect.DeepEqual(matches[1].NearestPredicted, []string{"E", "F", "G", "X"}) {
		t.Fatalf("nearest predicted = %v", matches[1].NearestPredicted)
	}
}

func TestWriteCoreSummaries(t *testing.T) {
	dir := t.TempDir()
	rows := []CoreRow{
		{Experiment: "exp1", Variant: "exp1_baseline", Core: metrics.CoreResult{Precision: 0.5, Recall: 0.25, MacroF1: 0.3333333333333333, N: 8}},
		{Experiment: "exp1", Variant: "exp1_full", Core: metrics.CoreResult{Precision: 1, Recall: 1, MacroF1: 1, N: 8}},
		{Experiment: "exp3", Variant: "exp3_staged", Core: metrics.CoreResult{N: 2}},
	}
	if err := WriteCoreSummaries(dir, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	exp1 := readCSV(t, filepath.Join(dir, "exp1", "summary_core.csv"))
	if len(exp1) != 3 {
		t.Fatalf("exp1 rows = %d, want 3", len(exp1))
	}
	if !reflect.DeepEqual(exp1[0], []string{"experiment", "model", "Precision", "Recall", "Macro-F1", "n"}) {
		t.Fatalf("header = %v", exp1[0])
	}
	if exp1[1][2] != "0.5" || exp1[1][5] != "8" {
		t.Fatalf("baseline row = %v", exp1[1])
	}

	all := readCSV(t, filepath.Join(dir, "all_core_summary.csv"))
	if len(all) != 4 {
		t.Fatalf("combined rows = %d, want 4", len(all))
	}
	if all[3][0] != "exp3" || all[3][1] != "exp3_staged" {
		t.Fatalf("combined last row = %v", all[3])
	}
}

func TestWriteReasoningSummaries(t *testing.T) {
	dir := t.TempDir()
	rows := []ReasoningRow{
		{Experiment: "exp2", Variant: "exp2_mixed", Reasoning: metrics.ReasoningResult{Examples: 10, Coverage: 0.9, AvgStepCount: 4.5}},
	}
	if err := WriteReasoningSummaries(dir, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := readCSV(t, filepath.Join(dir, "exp2", "summary_reasoning.csv"))
	if !reflect.DeepEqual(got[0], []string{"experiment", "model", "n_examples", "coverage_ratio", "avg_step_count_if_present"}) {
		t.Fatalf("header = %v", got[0])
	}
	if !reflect.DeepEqual(got[1], []string{"exp2", "exp2_mixed", "10", "0.9", "4.5"}) {
		t.Fatalf("row = %v", got[1])
	}

	if err := WriteReasoningSummaries(t.TempDir(), nil); err != nil {
		t.Fatalf("empty write: %v", err)
	}
}

func TestWriteCoreSummariesEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCoreSummaries(dir, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "all_core_summary.csv")); !os.IsNotExist(err) {
		t.Fatalf("combined file should not exist, stat err = %v", err)
	}
}
