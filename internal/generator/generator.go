// internal/generator/generator.go
// Package generator builds synthetic Connections material from the lexicon:
// categorical warm-up patterns and full 4x4 boards.
package generator

import (
	"math/rand"
	"strings"

	"github.com/mwiater/syndeo/internal/lexicon"
)

// Generator draws puzzles from a word bank with a seeded RNG so runs are
// reproducible.
type Generator struct {
	bank *lexicon.Bank
	rng  *rand.Rand
}

// New returns a Generator over bank seeded with seed.
func New(bank *lexicon.Bank, seed int64) *Generator {
	return &Generator{
		bank: bank,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// attemptBudget caps generation retries at ten per requested item.
const attemptBudget = 10

// sampleCategories picks n distinct categories from the bank.
func (g *Generator) sampleCategories(n int) []*lexicon.Category {
	idx := g.rng.Perm(len(g.bank.Categories))[:n]
	cats := make([]*lexicon.Category, n)
	for i, j := range idx {
		cats[i] = &g.bank.Categories[j]
	}
	return cats
}

// sampleSubgroup picks one subgroup of cat at random.
func (g *Generator) sampleSubgroup(cat *lexicon.Category) *lexicon.Subgroup {
	return &cat.Subgroups[g.rng.Intn(len(cat.Subgroups))]
}

// sampleWords returns n words drawn without replacement.
func (g *Generator) sampleWords(words []string, n int) []string {
	out := make([]string, len(words))
	copy(out, words)
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n]
}

// shuffle permutes words in place.
func (g *Generator) shuffle(words []string) {
	g.rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
}

// allDistinct reports whether no word repeats, case-insensitively.
func allDistinct(groups ...[]string) bool {
	seen := make(map[string]bool)
	for _, words := range groups {
		for _, w := range words {
			key := strings.ToUpper(strings.TrimSpace(w))
			if seen[key] {
				return false
			}
			seen[key] = true
		}
	}
	return true
}
