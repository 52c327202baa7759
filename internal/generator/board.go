// internal/generator/board.go
package generator

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/syndeo/internal/lexicon"
	"github.com/mwiater/syndeo/internal/puzzle"
)

// GeneratePuzzles builds count full 4x4 boards. IDs run sequentially from
// startID and dates daily from startDate. The attempt budget is ten per
// requested puzzle; a shortfall is logged and the partial set returned.
func (g *Generator) GeneratePuzzles(count, startID int, startDate time.Time) []puzzle.Puzzle {
	puzzles := make([]puzzle.Puzzle, 0, count)

	maxAttempts := count * attemptBudget
	for attempts := 0; len(puzzles) < count && attempts < maxAttempts; attempts++ {
		p, ok := g.generateBoard(
			startID+len(puzzles),
			startDate.AddDate(0, 0, len(puzzles)),
		)
		if !ok {
			continue
		}
		puzzles = append(puzzles, p)

		if len(puzzles)%10 == 0 {
			fmt.Printf("generated %d/%d puzzles\n", len(puzzles), count)
		}
	}

	if len(puzzles) < count {
		log.Printf("warning: only generated %d/%d puzzles", len(puzzles), count)
	}
	return puzzles
}

// generateBoard assembles one board: four groups from four distinct
// categories, difficulty levels shuffled across them, no word repeated.
func (g *Generator) generateBoard(id int, date time.Time) (puzzle.Puzzle, bool) {
	cats := g.sampleCategories(puzzle.GroupCount)

	levels := g.rng.Perm(puzzle.GroupCount)
	used := make(map[string]bool, puzzle.WordCount)
	groups := make([]puzzle.Group, 0, puzzle.GroupCount)

	for i, cat := range cats {
		sub := g.unusedSubgroup(cat, used)
		if sub == nil {
			return puzzle.Puzzle{}, false
		}

		available := availableWords(sub.Words, used)
		members := g.sampleWords(available, puzzle.GroupSize)
		for _, w := range members {
			used[strings.ToUpper(w)] = true
		}
		sort.Strings(members)

		groups = append(groups, puzzle.Group{
			Level:   levels[i],
			Label:   strings.ToUpper(sub.Label),
			Members: members,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Level < groups[j].Level })

	return puzzle.Puzzle{
		ID:      id,
		Date:    date.Format("2006-01-02"),
		Answers: groups,
	}, true
}

// unusedSubgroup returns a random subgroup of cat holding at least four
// words not yet on the board, or nil when none qualifies.
func (g *Generator) unusedSubgroup(cat *lexicon.Category, used map[string]bool) *lexicon.Subgroup {
	candidates := make([]*lexicon.Subgroup, 0, len(cat.Subgroups))
	for i := range cat.Subgroups {
		if len(availableWords(cat.Subgroups[i].Words, used)) >= puzzle.GroupSize {
			candidates = append(candidates, &cat.Subgroups[i])
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// availableWords filters out words already on the board, dropping
// duplicates within the subgroup as well.
func availableWords(words []string, used map[string]bool) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToUpper(w)
		if used[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, w)
	}
	return out
}
