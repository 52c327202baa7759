// internal/narrative/permute.go
package narrative

import (
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/mwiater/syndeo/internal/puzzle"
)

const (
	// DefaultSplitRatio is the train share of a 90/10 split.
	DefaultSplitRatio = 0.9
	// splitSeed fixes the train/test shuffle so reruns produce the same split.
	splitSeed = 42
)

// Variant is one word ordering of a source puzzle queued for narration.
// Permutation 0 keeps the answer-order board; 1..N are shuffles.
type Variant struct {
	ID          string
	OriginalID  string
	Permutation int
	Words       []string
	Answers     []puzzle.Group
}

// SplitTrainTest shuffles items with the fixed split seed and cuts the
// slice at ratio. The input is not modified.
func SplitTrainTest[T any](items []T, ratio float64) (train, test []T) {
	shuffled := make([]T, len(items))
	copy(shuffled, items)

	rng := rand.New(rand.NewSource(splitSeed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(float64(len(shuffled)) * ratio)
	return shuffled[:cut], shuffled[cut:]
}

// Permute expands each puzzle into n shuffled variants with IDs
// "{id}_perm{k}", k in 1..n. The shuffle seed derives from the board
// words, so a puzzle always lands in the same shuffle bucket no matter
// where it sits in the input.
func Permute(puzzles []puzzle.Puzzle, n int) []Variant {
	variants := make([]Variant, 0, len(puzzles)*n)
	for _, p := range puzzles {
		words := p.Words()
		base := wordSeed(words)
		originalID := strconv.Itoa(p.ID)

		for k := 1; k <= n; k++ {
			shuffled := make([]string, len(words))
			copy(shuffled, words)
			rng := rand.New(rand.NewSource(base + int64(k)))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			variants = append(variants, Variant{
				ID:          puzzle.PermutationID(originalID, k),
				OriginalID:  originalID,
				Permutation: k,
				Words:       shuffled,
				Answers:     p.Answers,
			})
		}
	}
	return variants
}

// TestVariants wraps puzzles as permutation-0 variants with the board in
// answer order.
func TestVariants(puzzles []puzzle.Puzzle) []Variant {
	variants := make([]Variant, 0, len(puzzles))
	for _, p := range puzzles {
		id := strconv.Itoa(p.ID)
		variants = append(variants, Variant{
			ID:          id,
			OriginalID:  id,
			Permutation: 0,
			Words:       p.Words(),
			Answers:     p.Answers,
		})
	}
	return variants
}

// wordSeed hashes the board words into a shuffle seed. FNV-1a with a
// separator keeps ["AB","C"] and ["A","BC"] distinct.
func wordSeed(words []string) int64 {
	h := fnv.New64a()
	for _, w := range words {
		h.Write([]byte(w))
		h.Write([]byte{0})
	}
	return int64(h.Sum64())
}
