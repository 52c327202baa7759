// internal/scoring/scoring_test.go
package scoring

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/mwiater/syndeo/internal/puzzle"
)

const sampleTruth = "<think>\nworked through the board\n</think>\n\n" +
	"**FISH**: BASS, FLOUNDER, SALMON, TROUT\n" +
	"**FIRE ___**: ANT, DRILL, ISLAND, OPAL\n" +
	"**SCHOOL SUPPLIES**: ERASER, GLUE, PAPER, PENCIL\n" +
	"**___ TRAP**: BEAR, SPEED, THIRST, TOURIST"

func TestFinalAnswer(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"both tags", "<think>\nsteps\n</think>\n\nANSWER", "ANSWER"},
		{"close only", "steps\n</think>\nANSWER", "ANSWER"},
		{"last close wins", "</think>first</think> second ", "second"},
		{"open without close", "<think>\nran out of tokens", ""},
		{"no tags", "  plain reply  ", "plain reply"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := FinalAnswer(tc.in); got != tc.want {
			t.Errorf("%s: FinalAnswer = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestReferenceGroupsBoldForm(t *testing.T) {
	groups := ReferenceGroups(sampleTruth)
	if len(groups) != 4 {
		t.Fatalf("extracted %d groups, want 4", len(groups))
	}
	if groups[0][0] != "BASS" || groups[0][3] != "TROUT" {
		t.Fatalf("first group = %v", groups[0])
	}
	if groups[3][3] != "TOURIST" {
		t.Fatalf("last group = %v", groups[3])
	}
}

func TestReferenceGroupsFallback(t *testing.T) {
	truth := "</think>\n" +
		"**ONE**: ALPHA, BRAVO, CHARLIE, DELTA\n" +
		"repeat: ALPHA, BRAVO, CHARLIE, DELTA\n" +
		"plain line two: echo, foxtrot, golf, hotel."
	groups := ReferenceGroups(truth)
	if len(groups) != 2 {
		t.Fatalf("extracted %d groups, want 2 (bold plus one new colon line): %v", len(groups), groups)
	}
	if groups[1][0] != "echo" || groups[1][3] != "hotel" {
		t.Fatalf("fallback group = %v", groups[1])
	}
}

func TestPredictedGroupsMarkdownTable(t *testing.T) {
	reply := "</think>\n| 1 | bass, flounder, salmon, trout |\n| 2 | **ant, drill, island, opal** |"
	groups := PredictedGroups(reply)
	if len(groups) != 2 {
		t.Fatalf("extracted %d groups, want 2: %v", len(groups), groups)
	}
	if groups[0][0] != "BASS" {
		t.Fatalf("words not uppercased: %v", groups[0])
	}
	if groups[1][0] != "ANT" || groups[1][3] != "OPAL" {
		t.Fatalf("second group = %v", groups[1])
	}
}

func TestPredictedGroupsStripsLaTeX(t *testing.T) {
	reply := "</think>\nFinal: $\\boxed{\\text{APPLE, BANANA, CHERRY, DATE}}$"
	groups := PredictedGroups(reply)
	if len(groups) != 1 {
		t.Fatalf("extracted %d groups, want 1: %v", len(groups), groups)
	}
	want := []string{"APPLE", "BANANA", "CHERRY", "DATE"}
	for i, w := range want {
		if groups[0][i] != w {
			t.Fatalf("group = %v, want %v", groups[0], want)
		}
	}
}

func TestPredictedGroupsStripsParentheticals(t *testing.T) {
	reply := "</think>\n**Building**: TILE, GROUT (for floors), MORTAR, BRICK (ALL CAN BE STACKED"
	groups := PredictedGroups(reply)
	if len(groups) != 1 {
		t.Fatalf("extracted %d groups, want 1: %v", len(groups), groups)
	}
	want := []string{"TILE", "GROUT", "MORTAR", "BRICK"}
	for i, w := range want {
		if groups[0][i] != w {
			t.Fatalf("group = %v, want %v", groups[0], want)
		}
	}
}

func TestPredictedGroupsSkipsProse(t *testing.T) {
	reply := "</think>\n" +
		"The groups are: BASS, TROUT, SALMON, FLOUNDER\n" +
		"Note: these all seem like words that could fit, in many groups, overall, honestly"
	groups := PredictedGroups(reply)
	if len(groups) != 1 {
		t.Fatalf("extracted %d groups, want 1: %v", len(groups), groups)
	}
	if groups[0][0] != "BASS" {
		t.Fatalf("group = %v", groups[0])
	}
}

func TestPredictedGroupsDedupeAndCap(t *testing.T) {
	reply := "</think>\n" +
		"1: AAAA, BBBB, CCCC, DDDD\n" +
		"2: dddd, cccc, bbbb, aaaa\n" +
		"3: EEEE, FFFF, GGGG, HHHH\n" +
		"4: IIII, JJJJ, KKKK, LLLL\n" +
		"5: MMMM, NNNN, OOOO, PPPP\n" +
		"6: QQQQ, RRRR, SSSS, TTTT"
	groups := PredictedGroups(reply)
	if len(groups) != 4 {
		t.Fatalf("extracted %d groups, want 4", len(groups))
	}
	if groups[1][0] != "EEEE" {
		t.Fatalf("reordered duplicate not skipped: %v", groups[1])
	}
	if groups[3][0] != "MMMM" {
		t.Fatalf("extraction did not stop after four groups: %v", groups[3])
	}
}

func TestPredictedGroupsReadsOnlyTail(t *testing.T) {
	reply := "</think>\n**A**: AAAA, BBBB, CCCC, DDDD\n" +
		strings.Repeat("x", 1100) +
		"\n**B**: EEEE, FFFF, GGGG, HHHH"
	groups := PredictedGroups(reply)
	if len(groups) != 1 {
		t.Fatalf("extracted %d groups, want only the one inside the tail window: %v", len(groups), groups)
	}
	if groups[0][0] != "EEEE" {
		t.Fatalf("group = %v", groups[0])
	}
}

func TestPredictedGroupsStableOnReextraction(t *testing.T) {
	reply := "<think>\nmaybe **FISH**: BASS, TROUT, PIKE, SOLE?\n</think>\n\n" +
		"**FISH**: BASS, FLOUNDER, SALMON, TROUT\n" +
		"**FIRE ___**: ANT, DRILL, ISLAND, OPAL"
	first := PredictedGroups(reply)
	if len(first) != 2 {
		t.Fatalf("extracted %d groups, want 2: %v", len(first), first)
	}

	// Feeding the extracted groups back through as a plain final answer
	// must not change them.
	var lines []string
	for i, g := range first {
		lines = append(lines, fmt.Sprintf("Group %d: %s", i+1, strings.Join(g, ", ")))
	}
	second := PredictedGroups(strings.Join(lines, "\n"))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-extraction diverged: %v vs %v", first, second)
	}
}

func TestGroupComparisonNormalizesWordVariants(t *testing.T) {
	ref := []string{"APPLE", "BANANA", "CHERRY", "DATE"}
	for _, variant := range [][]string{
		{"Apple", "Banana", "Cherry", "Date"},
		{" apple ", " banana ", " cherry ", " date "},
	} {
		if !containsGroup([][]string{variant}, ref) {
			t.Errorf("variant %v should match %v", variant, ref)
		}
	}
	if containsGroup([][]string{{"APPLES", "BANANA", "CHERRY", "DATE"}}, ref) {
		t.Error("plural word should stay distinct")
	}
}

func TestGradeStripsEdgePunctuationBeforeMatching(t *testing.T) {
	rec := puzzle.PredictionRecord{
		PuzzleID:    "31",
		GroundTruth: "</think>\n**FRUIT**: APPLE, BANANA, CHERRY, DATE",
		Prediction:  "</think>\nGroup 1: Apple!, banana, .CHERRY., ??date??",
	}
	res := Grade(rec)
	if res.CorrectGroups != 1 || res.Score != 0.25 {
		t.Fatalf("punctuated variants should still match: %+v", res)
	}

	plural := puzzle.PredictionRecord{
		PuzzleID:    "32",
		GroundTruth: "</think>\n**FRUIT**: APPLE, BANANA, CHERRY, DATE",
		Prediction:  "</think>\nGroup 1: apples, banana, cherry, date",
	}
	if res := Grade(plural); res.CorrectGroups != 0 {
		t.Fatalf("plural word should not match: %+v", res)
	}
}

func TestGradeThreeOfFourScoresThreeQuarters(t *testing.T) {
	rec := puzzle.PredictionRecord{
		PuzzleID:    "813",
		GroundTruth: sampleTruth,
		Prediction: "</think>\n" +
			"Group 1: BASS, FLOUNDER, SALMON, TROUT\n" +
			"Group 2: ANT, DRILL, ISLAND, OPAL\n" +
			"Group 3: ERASER, GLUE, PAPER, PENCIL\n" +
			"Group 4: BEAR, SPEED, THIRST, CAMERA",
	}
	res := Grade(rec)
	if res.Score != 0.75 || res.CorrectGroups != 3 {
		t.Fatalf("score = %.2f correct = %d, want 0.75 and 3", res.Score, res.CorrectGroups)
	}

	if len(res.GroupMatches) != 4 {
		t.Fatalf("group matches = %d, want 4", len(res.GroupMatches))
	}
	miss := res.GroupMatches[3]
	if miss.Matched {
		t.Fatalf("trap group should be a miss: %+v", miss)
	}
	if !reflect.DeepEqual(miss.Nearest, []string{"BEAR", "SPEED", "THIRST", "CAMERA"}) || miss.Distance <= 0 {
		t.Fatalf("nearest miss diagnostics wrong: %+v", miss)
	}
}

func TestGradeScoresMatches(t *testing.T) {
	rec := puzzle.PredictionRecord{
		PuzzleID:    "812",
		GroundTruth: sampleTruth,
		Prediction: "</think>\n" +
			"Group 1: trout, salmon, bass, flounder\n" +
			"Group 2: ANT, DRILL, ISLAND, OPAL\n" +
			"Group 3: ERASER, GLUE, PAPER, MARKER\n" +
			"Group 4: BEAR, SPEED, THIRST, CAMERA",
	}
	res := Grade(rec)
	if res.Score != 0.5 || res.CorrectGroups != 2 {
		t.Fatalf("score = %.2f correct = %d, want 0.50 and 2", res.Score, res.CorrectGroups)
	}
	if !res.ExtractionOK {
		t.Fatal("reference extraction should succeed")
	}
	if len(res.PredictedGroups) != 4 {
		t.Fatalf("predicted groups = %d, want 4", len(res.PredictedGroups))
	}
}

func TestGradeIgnoresGroupsInsideThinking(t *testing.T) {
	rec := puzzle.PredictionRecord{
		PuzzleID:    "7",
		GroundTruth: sampleTruth,
		Prediction: "<think>\n**FISH**: BASS, FLOUNDER, SALMON, TROUT\n</think>\n\n" +
			"**GUESS**: ANT, DRILL, ISLAND, OPAL",
	}
	res := Grade(rec)
	if res.Score != 0.25 || res.CorrectGroups != 1 {
		t.Fatalf("score = %.2f correct = %d, want 0.25 and 1", res.Score, res.CorrectGroups)
	}
}

func TestGradeUnfinishedReasoningScoresZero(t *testing.T) {
	rec := puzzle.PredictionRecord{
		PuzzleID:    "9",
		GroundTruth: sampleTruth,
		Prediction:  "<think>\nstill thinking about BASS, FLOUNDER, SALMON, TROUT",
	}
	res := Grade(rec)
	if res.Score != 0 || len(res.PredictedGroups) != 0 {
		t.Fatalf("score = %.2f predicted = %v, want zero", res.Score, res.PredictedGroups)
	}
}

func TestEvaluateDedupesRepeatedIDs(t *testing.T) {
	fullMatch := "</think>\n" +
		"**F**: BASS, FLOUNDER, SALMON, TROUT\n" +
		"**G**: ANT, DRILL, ISLAND, OPAL\n" +
		"**H**: ERASER, GLUE, PAPER, PENCIL\n" +
		"**I**: BEAR, SPEED, THIRST, TOURIST"
	records := []puzzle.PredictionRecord{
		{PuzzleID: "42", GroundTruth: sampleTruth, Prediction: fullMatch},
		{PuzzleID: "42", GroundTruth: "</think>\n**ONLY**: A9, B9, C9, D9", Prediction: "</think>\nnothing useful"},
	}

	eval := Evaluate(records, false)
	if len(eval.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(eval.Results))
	}
	if eval.Results[0].PuzzleID != "42" || eval.Results[1].PuzzleID != "42_dup2" {
		t.Fatalf("ids = %s, %s", eval.Results[0].PuzzleID, eval.Results[1].PuzzleID)
	}
	if eval.TotalScore != 1.0 || eval.Perfect != 1 {
		t.Fatalf("total = %.2f perfect = %d, want 1.00 and 1", eval.TotalScore, eval.Perfect)
	}
	if eval.FailedExtractions != 1 {
		t.Fatalf("failed extractions = %d, want 1", eval.FailedExtractions)
	}
	if avg := eval.AverageScore(); avg != 0.5 {
		t.Fatalf("average = %.2f, want 0.50", avg)
	}
}
