// internal/generator/generator_test.go
package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/mwiater/syndeo/internal/lexicon"
	"github.com/mwiater/syndeo/internal/puzzle"
)

func testBank(t *testing.T) *lexicon.Bank {
	t.Helper()
	bank, err := lexicon.Default()
	if err != nil {
		t.Fatalf("loading embedded lexicon: %v", err)
	}
	return bank
}

func TestGeneratePuzzlesPartition(t *testing.T) {
	t.Parallel()

	g := New(testBank(t), 7)
	puzzles := g.GeneratePuzzles(20, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(puzzles) != 20 {
		t.Fatalf("expected 20 puzzles, got %d", len(puzzles))
	}

	for _, p := range puzzles {
		if len(p.Answers) != puzzle.GroupCount {
			t.Fatalf("puzzle %d: expected %d groups, got %d", p.ID, puzzle.GroupCount, len(p.Answers))
		}
		seen := make(map[string]bool)
		levels := make(map[int]bool)
		for _, grp := range p.Answers {
			if len(grp.Members) != puzzle.GroupSize {
				t.Fatalf("puzzle %d group %q: expected %d members, got %d", p.ID, grp.Label, puzzle.GroupSize, len(grp.Members))
			}
			if grp.Label != strings.ToUpper(grp.Label) {
				t.Fatalf("puzzle %d: group label %q not uppercased", p.ID, grp.Label)
			}
			levels[grp.Level] = true
			for _, w := range grp.Members {
				key := strings.ToUpper(w)
				if seen[key] {
					t.Fatalf("puzzle %d: word %q appears twice", p.ID, w)
				}
				seen[key] = true
			}
		}
		if len(seen) != puzzle.WordCount {
			t.Fatalf("puzzle %d: expected %d unique words, got %d", p.ID, puzzle.WordCount, len(seen))
		}
		for lvl := 0; lvl < puzzle.GroupCount; lvl++ {
			if !levels[lvl] {
				t.Fatalf("puzzle %d: missing difficulty level %d", p.ID, lvl)
			}
		}
	}
}

func TestGeneratePuzzlesSortedByLevel(t *testing.T) {
	t.Parallel()

	g := New(testBank(t), 11)
	puzzles := g.GeneratePuzzles(5, 100, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	for _, p := range puzzles {
		for i := 1; i < len(p.Answers); i++ {
			if p.Answers[i-1].Level > p.Answers[i].Level {
				t.Fatalf("puzzle %d: groups not sorted by level: %d before %d", p.ID, p.Answers[i-1].Level, p.Answers[i].Level)
			}
		}
	}
	if puzzles[0].ID != 100 {
		t.Fatalf("expected first puzzle id 100, got %d", puzzles[0].ID)
	}
	if puzzles[1].Date != "2024-03-02" {
		t.Fatalf("expected second puzzle dated 2024-03-02, got %s", puzzles[1].Date)
	}
}

func TestGeneratePuzzlesDeterministic(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := New(testBank(t), 42).GeneratePuzzles(10, 1, start)
	b := New(testBank(t), 42).GeneratePuzzles(10, 1, start)

	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Date != b[i].Date || len(a[i].Answers) != len(b[i].Answers) {
			t.Fatalf("puzzle %d differs between seeded runs", a[i].ID)
		}
		for j := range a[i].Answers {
			if a[i].Answers[j].Label != b[i].Answers[j].Label {
				t.Fatalf("puzzle %d group %d differs: %q vs %q", a[i].ID, j, a[i].Answers[j].Label, b[i].Answers[j].Label)
			}
			for k := range a[i].Answers[j].Members {
				if a[i].Answers[j].Members[k] != b[i].Answers[j].Members[k] {
					t.Fatalf("puzzle %d group %d member %d differs", a[i].ID, j, k)
				}
			}
		}
	}
}

func TestGeneratePatternsWordCounts(t *testing.T) {
	t.Parallel()

	wantWords := map[string]int{
		PatternOddOneOut:  5,
		PatternFiveTwo:    7,
		PatternSevenThree: 10,
		PatternEightTwo:   12,
		PatternTenThree:   16,
	}
	wantOdd := map[string]int{
		PatternOddOneOut:  1,
		PatternFiveTwo:    2,
		PatternSevenThree: 3,
	}

	g := New(testBank(t), 3)
	dist := Distribution{
		PatternOddOneOut:  8,
		PatternFiveTwo:    8,
		PatternSevenThree: 8,
		PatternEightTwo:   8,
		PatternTenThree:   8,
	}
	examples := g.GeneratePatterns(dist)
	if len(examples) != 40 {
		t.Fatalf("expected 40 examples, got %d", len(examples))
	}

	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Pattern]++
		if len(ex.Words) != wantWords[ex.Pattern] {
			t.Fatalf("pattern %s: expected %d words, got %d", ex.Pattern, wantWords[ex.Pattern], len(ex.Words))
		}
		if len(ex.TargetScores) != len(ex.Words) {
			t.Fatalf("pattern %s: score vector length %d != word count %d", ex.Pattern, len(ex.TargetScores), len(ex.Words))
		}

		seen := make(map[string]bool)
		for _, w := range ex.Words {
			key := strings.ToUpper(w)
			if seen[key] {
				t.Fatalf("pattern %s example %d: duplicate word %q", ex.Pattern, ex.ID, w)
			}
			seen[key] = true
		}

		switch ex.Pattern {
		case PatternOddOneOut, PatternFiveTwo, PatternSevenThree:
			odd := 0
			for _, s := range ex.TargetScores {
				if s == 1 {
					odd++
				} else if s != 0 {
					t.Fatalf("pattern %s: unexpected score %d", ex.Pattern, s)
				}
			}
			if odd != wantOdd[ex.Pattern] {
				t.Fatalf("pattern %s: expected %d outliers, got %d", ex.Pattern, wantOdd[ex.Pattern], odd)
			}
			if !strings.HasPrefix(ex.Answer, "The odd word(s) out: ") {
				t.Fatalf("pattern %s: unexpected answer %q", ex.Pattern, ex.Answer)
			}
		case PatternEightTwo, PatternTenThree:
			byGroup := make(map[int]int)
			for _, s := range ex.TargetScores {
				byGroup[s]++
			}
			if len(byGroup) != 3 {
				t.Fatalf("pattern %s: expected 3 groups, got %d", ex.Pattern, len(byGroup))
			}
			if !strings.HasPrefix(ex.Answer, "Main group: ") || !strings.Contains(ex.Answer, "Minor group 2: ") {
				t.Fatalf("pattern %s: unexpected answer %q", ex.Pattern, ex.Answer)
			}
		}
	}

	for pattern, want := range dist {
		if counts[pattern] != want {
			t.Fatalf("pattern %s: expected %d examples, got %d", pattern, want, counts[pattern])
		}
	}
}

func TestGeneratePatternsSequentialIDs(t *testing.T) {
	t.Parallel()

	g := New(testBank(t), 9)
	examples := g.GeneratePatterns(Distribution{PatternOddOneOut: 5})
	for i, ex := range examples {
		if ex.ID != i+1 {
			t.Fatalf("expected sequential ids, got %d at position %d", ex.ID, i)
		}
	}
}
