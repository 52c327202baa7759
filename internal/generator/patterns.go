// internal/generator/patterns.go
package generator

import (
	"fmt"
	"log"
	"strings"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// Pattern names in generation order.
const (
	PatternOddOneOut  = "4:1"
	PatternFiveTwo    = "5:2"
	PatternSevenThree = "7:3"
	PatternEightTwo   = "8:2:2"
	PatternTenThree   = "10:3:3"
)

// patternOrder fixes the order patterns are generated in so a seed always
// yields the same file.
var patternOrder = []string{
	PatternOddOneOut,
	PatternFiveTwo,
	PatternSevenThree,
	PatternEightTwo,
	PatternTenThree,
}

// Distribution maps pattern name to requested example count.
type Distribution map[string]int

// DefaultDistribution is the stock mix of warm-up patterns.
func DefaultDistribution() Distribution {
	return Distribution{
		PatternOddOneOut:  100,
		PatternFiveTwo:    150,
		PatternSevenThree: 150,
		PatternEightTwo:   200,
		PatternTenThree:   200,
	}
}

// GeneratePatterns produces the requested mix of categorical examples.
// Each pattern gets an attempt budget of ten per requested example; a
// shortfall is logged and the partial result returned.
func (g *Generator) GeneratePatterns(dist Distribution) []puzzle.PatternExample {
	var all []puzzle.PatternExample
	nextID := 1

	for _, pattern := range patternOrder {
		count := dist[pattern]
		if count <= 0 {
			continue
		}
		fmt.Printf("generating %d examples of pattern %s\n", count, pattern)

		generated := 0
		maxAttempts := count * attemptBudget
		for attempts := 0; generated < count && attempts < maxAttempts; attempts++ {
			if generated > 0 && generated%20 == 0 && attempts%attemptBudget == 0 {
				fmt.Printf("  generated %d/%d\n", generated, count)
			}

			ex, ok := g.generatePattern(pattern)
			if !ok {
				continue
			}
			ex.ID = nextID
			nextID++
			all = append(all, ex)
			generated++
		}

		if generated < count {
			log.Printf("warning: only generated %d/%d %s examples", generated, count, pattern)
		}
	}

	return all
}

func (g *Generator) generatePattern(pattern string) (puzzle.PatternExample, bool) {
	switch pattern {
	case PatternOddOneOut:
		return g.oddOneOut()
	case PatternFiveTwo:
		return g.mainMinor(PatternFiveTwo, 5, 2)
	case PatternSevenThree:
		return g.mainMinor(PatternSevenThree, 7, 3)
	case PatternEightTwo:
		return g.threeGroups(PatternEightTwo, 8, 2, 2)
	case PatternTenThree:
		return g.threeGroups(PatternTenThree, 10, 3, 3)
	}
	return puzzle.PatternExample{}, false
}

// oddOneOut builds a 4:1 example: four words sharing a subgroup plus one
// outlier from a different category.
func (g *Generator) oddOneOut() (puzzle.PatternExample, bool) {
	cats := g.sampleCategories(2)
	mainSub := g.sampleSubgroup(cats[0])
	outlierSub := g.sampleSubgroup(cats[1])

	if len(mainSub.Words) < 4 || len(outlierSub.Words) < 1 {
		return puzzle.PatternExample{}, false
	}
	mainWords := g.sampleWords(mainSub.Words, 4)
	outlier := outlierSub.Words[g.rng.Intn(len(outlierSub.Words))]
	if !allDistinct(mainWords, []string{outlier}) {
		return puzzle.PatternExample{}, false
	}

	words := append(append([]string{}, mainWords...), outlier)
	g.shuffle(words)

	scores := make([]int, len(words))
	var odd []string
	for i, w := range words {
		if w == outlier {
			scores[i] = 1
			odd = append(odd, w)
		}
	}

	return puzzle.PatternExample{
		Pattern:      PatternOddOneOut,
		Input:        "Pick the odd word out: " + strings.Join(words, ", "),
		Words:        words,
		TargetScores: scores,
		Explanation:  fmt.Sprintf("Main: %s, Outlier: %s", mainSub.Label, outlierSub.Label),
		Answer:       "The odd word(s) out: " + strings.Join(odd, ", "),
	}, true
}

// mainMinor builds the 5:2 and 7:3 shapes: a main subgroup plus a smaller
// set of outliers that themselves share a pattern.
func (g *Generator) mainMinor(pattern string, mainN, minorN int) (puzzle.PatternExample, bool) {
	cats := g.sampleCategories(2)
	mainSub := g.sampleSubgroup(cats[0])
	minorSub := g.sampleSubgroup(cats[1])

	if len(mainSub.Words) < mainN || len(minorSub.Words) < minorN {
		return puzzle.PatternExample{}, false
	}
	mainWords := g.sampleWords(mainSub.Words, mainN)
	minorWords := g.sampleWords(minorSub.Words, minorN)
	if !allDistinct(mainWords, minorWords) {
		return puzzle.PatternExample{}, false
	}

	minorSet := make(map[string]bool, minorN)
	for _, w := range minorWords {
		minorSet[w] = true
	}

	words := append(append([]string{}, mainWords...), minorWords...)
	g.shuffle(words)

	scores := make([]int, len(words))
	var odd []string
	for i, w := range words {
		if minorSet[w] {
			scores[i] = 1
			odd = append(odd, w)
		}
	}

	return puzzle.PatternExample{
		Pattern:      pattern,
		Input:        "Pick the odd words out: " + strings.Join(words, ", "),
		Words:        words,
		TargetScores: scores,
		Explanation:  fmt.Sprintf("Main: %s, Minor: %s", mainSub.Label, minorSub.Label),
		Answer:       "The odd word(s) out: " + strings.Join(odd, ", "),
	}, true
}

// threeGroups builds the 8:2:2 and 10:3:3 shapes: one large group and two
// small ones, all to be identified.
func (g *Generator) threeGroups(pattern string, mainN, minor1N, minor2N int) (puzzle.PatternExample, bool) {
	cats := g.sampleCategories(3)
	mainSub := g.sampleSubgroup(cats[0])
	minor1Sub := g.sampleSubgroup(cats[1])
	minor2Sub := g.sampleSubgroup(cats[2])

	if len(mainSub.Words) < mainN || len(minor1Sub.Words) < minor1N || len(minor2Sub.Words) < minor2N {
		return puzzle.PatternExample{}, false
	}
	mainWords := g.sampleWords(mainSub.Words, mainN)
	minor1Words := g.sampleWords(minor1Sub.Words, minor1N)
	minor2Words := g.sampleWords(minor2Sub.Words, minor2N)
	if !allDistinct(mainWords, minor1Words, minor2Words) {
		return puzzle.PatternExample{}, false
	}

	groupOf := make(map[string]int)
	for _, w := range mainWords {
		groupOf[w] = 0
	}
	for _, w := range minor1Words {
		groupOf[w] = 1
	}
	for _, w := range minor2Words {
		groupOf[w] = 2
	}

	words := append(append(append([]string{}, mainWords...), minor1Words...), minor2Words...)
	g.shuffle(words)

	scores := make([]int, len(words))
	grouped := make([][]string, 3)
	for i, w := range words {
		scores[i] = groupOf[w]
		grouped[groupOf[w]] = append(grouped[groupOf[w]], w)
	}

	answer := fmt.Sprintf("Main group: %s\nMinor group 1: %s\nMinor group 2: %s",
		strings.Join(grouped[0], ", "),
		strings.Join(grouped[1], ", "),
		strings.Join(grouped[2], ", "))

	return puzzle.PatternExample{
		Pattern:      pattern,
		Input:        "There are 3 word groups, identify the word groups and their themes: " + strings.Join(words, ", "),
		Words:        words,
		TargetScores: scores,
		Explanation: fmt.Sprintf("Group 1: %s, Group 2: %s, Group 3: %s",
			mainSub.Label, minor1Sub.Label, minor2Sub.Label),
		Answer: answer,
	}, true
}
