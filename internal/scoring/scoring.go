// internal/scoring/scoring.go

// Package scoring grades model predictions against ground-truth answer
// groups. A prediction earns a quarter point for every reference group
// it reproduces exactly, membership-wise.
package scoring

import (
	"fmt"
	"log"

	"github.com/agext/levenshtein"

	"github.com/mwiater/syndeo/internal/puzzle"
)

const groupValue = 0.25

// Result grades a single prediction.
type Result struct {
	PuzzleID        string
	Score           float64
	CorrectGroups   int
	TotalGroups     int
	ExtractionOK    bool
	ReferenceGroups [][]string
	PredictedGroups [][]string
	GroupMatches    []GroupMatch
}

// GroupMatch records how one reference group fared. A miss carries the
// closest predicted group by edit distance; Distance is -1 when the
// prediction yielded no groups at all. Diagnostic only, the score never
// uses it.
type GroupMatch struct {
	Reference []string
	Matched   bool
	Nearest   []string
	Distance  int
}

// Grade scores one prediction record. The reference groups come from
// the record's ground truth, so a malformed reference yields a zero
// score rather than an error.
func Grade(rec puzzle.PredictionRecord) Result {
	id := rec.PuzzleID
	if id == "" {
		id = "unknown"
	}

	ref := ReferenceGroups(rec.GroundTruth)
	pred := PredictedGroups(rec.Prediction)

	correct := 0
	matches := make([]GroupMatch, 0, len(ref))
	for _, g := range ref {
		m := GroupMatch{Reference: g, Matched: containsGroup(pred, g)}
		if m.Matched {
			correct++
		} else {
			m.Nearest, m.Distance = nearestGroup(pred, g)
		}
		matches = append(matches, m)
	}

	return Result{
		PuzzleID:        id,
		Score:           float64(correct) * groupValue,
		CorrectGroups:   correct,
		TotalGroups:     4,
		ExtractionOK:    len(ref) == 4,
		ReferenceGroups: ref,
		PredictedGroups: pred,
		GroupMatches:    matches,
	}
}

// Evaluation aggregates the graded results of one prediction file.
type Evaluation struct {
	Results           []Result
	TotalScore        float64
	Perfect           int
	FailedExtractions int
}

// AverageScore is the mean puzzle score, 0 when nothing was graded.
func (e *Evaluation) AverageScore() float64 {
	if len(e.Results) == 0 {
		return 0
	}
	return e.TotalScore / float64(len(e.Results))
}

// Evaluate grades every record in order. Repeated puzzle ids get a
// _dupN suffix so synthetic and source puzzles sharing a number keep
// separate rows.
func Evaluate(records []puzzle.PredictionRecord, verbose bool) *Evaluation {
	eval := &Evaluation{}
	seen := map[string]int{}
	total := len(records)

	for i, rec := range records {
		res := Grade(rec)
		seen[res.PuzzleID]++
		if n := seen[res.PuzzleID]; n > 1 {
			res.PuzzleID = puzzle.DedupeID(res.PuzzleID, n)
		}

		fmt.Printf("[%d/%d] %s - Score: %.2f correct=%d/%d\n", i+1, total, res.PuzzleID, res.Score, res.CorrectGroups, res.TotalGroups)
		if verbose && !res.ExtractionOK {
			log.Printf("puzzle %s: extracted %d reference groups instead of 4", res.PuzzleID, len(res.ReferenceGroups))
		}
		if verbose && res.CorrectGroups < len(res.ReferenceGroups) {
			logMisses(res)
		}

		eval.Results = append(eval.Results, res)
		eval.TotalScore += res.Score
		if res.Score == 1.0 {
			eval.Perfect++
		}
		if !res.ExtractionOK {
			eval.FailedExtractions++
		}
	}
	return eval
}

// logMisses names each reference group the prediction missed, with the
// closest predicted group by edit distance.
func logMisses(res Result) {
	for _, m := range res.GroupMatches {
		if m.Matched {
			continue
		}
		if m.Nearest == nil {
			log.Printf("puzzle %s: group %v not predicted", res.PuzzleID, m.Reference)
			continue
		}
		log.Printf("puzzle %s: group %v not predicted, closest %v (distance %d)", res.PuzzleID, m.Reference, m.Nearest, m.Distance)
	}
}

func nearestGroup(predicted [][]string, ref []string) ([]string, int) {
	refKey := groupKey(ref)
	var best []string
	bestDist := -1
	for _, p := range predicted {
		d := levenshtein.Distance(refKey, groupKey(p), nil)
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, p
		}
	}
	return best, bestDist
}
