// internal/report/report.go

// Package report renders evaluation results as the CSV and JSON
// artifacts downstream analysis reads.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/mwiater/syndeo/internal/scoring"
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// WriteDetailed writes one row per graded puzzle across all models,
// models alphabetical, puzzles in id order.
func WriteDetailed(path string, results map[string]*scoring.Evaluation) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"model_name", "puzzle_id", "score", "correct_groups"}); err != nil {
		return err
	}
	for _, model := range sortedKeys(results) {
		for _, res := range orderResults(results[model].Results) {
			row := []string{model, res.PuzzleID, fmt.Sprintf("%.2f", res.Score), strconv.Itoa(res.CorrectGroups)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSummary writes per-model aggregates: puzzle count, average score,
// perfect-solve rate, and total correct groups.
func WriteSummary(path string, results map[string]*scoring.Evaluation) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"model_name", "total_puzzles", "avg_score_%", "perfect_puzzles", "total_correct_groups"}); err != nil {
		return err
	}
	for _, model := range sortedKeys(results) {
		eval := results[model]
		n := len(eval.Results)
		if n == 0 {
			continue
		}
		totalCorrect := 0
		for _, res := range eval.Results {
			totalCorrect += res.CorrectGroups
		}
		row := []string{
			model,
			strconv.Itoa(n),
			fmt.Sprintf("%.2f%%", eval.AverageScore()*100),
			fmt.Sprintf("%d/%d (%.1f%%)", eval.Perfect, n, float64(eval.Perfect)/float64(n)*100),
			strconv.Itoa(totalCorrect),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExtractionDetail records one graded puzzle with the groups both sides
// resolved to, for auditing extraction failures.
type ExtractionDetail struct {
	PuzzleID        string             `json:"puzzle_id"`
	Score           float64            `json:"score"`
	CorrectGroups   int                `json:"correct_groups"`
	TotalGroups     int                `json:"total_groups"`
	ReferenceGroups [][]string         `json:"ground_truth_groups"`
	PredictedGroups [][]string         `json:"predicted_groups"`
	GroupMatches    []GroupMatchDetail `json:"group_matches"`
}

// GroupMatchDetail is one reference group's outcome: matched exactly, or
// missed with the closest predicted group by edit distance. A miss with
// no predicted groups carries an edit distance of -1.
type GroupMatchDetail struct {
	ReferenceGroup   []string `json:"reference_group"`
	Matched          bool     `json:"matched"`
	NearestPredicted []string `json:"nearest_predicted,omitempty"`
	EditDistance     int      `json:"edit_distance,omitempty"`
}

// WriteExtractions dumps every model's extracted groups as indented JSON.
func WriteExtractions(path string, results map[string]*scoring.Evaluation) error {
	details := make(map[string][]ExtractionDetail, len(results))
	for model, eval := range results {
		rows := make([]ExtractionDetail, 0, len(eval.Results))
		for _, res := range orderResults(eval.Results) {
			matches := make([]GroupMatchDetail, 0, len(res.GroupMatches))
			for _, m := range res.GroupMatches {
				matches = append(matches, GroupMatchDetail{
					ReferenceGroup:   m.Reference,
					Matched:          m.Matched,
					NearestPredicted: m.Nearest,
					EditDistance:     m.Distance,
				})
			}
			rows = append(rows, ExtractionDetail{
				PuzzleID:        res.PuzzleID,
				Score:           res.Score,
				CorrectGroups:   res.CorrectGroups,
				TotalGroups:     res.TotalGroups,
				ReferenceGroups: emptyIfNil(res.ReferenceGroups),
				PredictedGroups: emptyIfNil(res.PredictedGroups),
				GroupMatches:    matches,
			})
		}
		details[model] = rows
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(details)
}

// orderResults sorts rows so ids with a numeric prefix come first in
// numeric order, suffixed variants of the same number adjacent, and
// everything else after in lexicographic order.
func orderResults(results []scoring.Result) []scoring.Result {
	out := make([]scoring.Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := numericPrefix(out[i].PuzzleID)
		b, bok := numericPrefix(out[j].PuzzleID)
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return out[i].PuzzleID < out[j].PuzzleID
		case aok:
			return true
		case bok:
			return false
		default:
			return out[i].PuzzleID < out[j].PuzzleID
		}
	})
	return out
}

func numericPrefix(id string) (int, bool) {
	m := leadingDigits.FindString(id)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func sortedKeys(results map[string]*scoring.Evaluation) []string {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func emptyIfNil(groups [][]string) [][]string {
	if groups == nil {
		return [][]string{}
	}
	return groups
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
