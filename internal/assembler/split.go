// internal/assembler/split.go
package assembler

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// valFractionDenom sizes the validation sample at a tenth of the unique
// ids, never below one.
const valFractionDenom = 10

// SplitIDs samples max(1, 10%) of the ids as validation and returns the
// train and validation ID sets. The draw comes from the assembler's
// seeded stream over the sorted ids, so a fixed input always splits the
// same way.
func (a *Assembler) SplitIDs(ids map[string]bool) (train, val map[string]bool) {
	train = map[string]bool{}
	val = map[string]bool{}
	sorted := setList(ids)
	if len(sorted) == 0 {
		return train, val
	}

	k := len(sorted) / valFractionDenom
	if k < 1 {
		k = 1
	}
	for _, id := range a.sample(sorted, k) {
		val[id] = true
	}
	for id := range ids {
		if !val[id] {
			train[id] = true
		}
	}
	return train, val
}

// Materialize filters examples to those whose original id is in keep,
// preserving input order.
func Materialize(examples []puzzle.Example, keep map[string]bool) []puzzle.Example {
	var out []puzzle.Example
	for _, ex := range examples {
		if keep[exampleOriginalID(ex)] {
			out = append(out, ex)
		}
	}
	return out
}

// sample draws k ids without replacement, in draw order.
func (a *Assembler) sample(ids []string, k int) []string {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	a.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}

// trainingSplit carries the materialized train/validation slices and the
// ID sets behind them through the suite builders.
type trainingSplit struct {
	nytTestIDs, synTestIDs map[string]bool
	nytTrainIDs, nytValIDs map[string]bool
	synTrainIDs, synValIDs map[string]bool
	nytTrain, nytVal       []puzzle.Example
	synTrain, synVal       []puzzle.Example
}

// splitTraining separates the structured training inputs into train and
// validation by original id, writes the global validation set and the ID
// manifest, and warns on raw train/test overlap.
func (a *Assembler) splitTraining(in Inputs, nytTestIDs, synTestIDs map[string]bool, sum *Summary) (*trainingSplit, error) {
	nytFull := idSet(in.StructuredNYTTrain)
	synFull := idSet(in.StructuredSyntheticTrain)

	if leak := intersect(nytFull, nytTestIDs); len(leak) > 0 {
		log.Printf("warning: nyt train/test overlap: %v", leak)
	}
	if leak := intersect(synFull, synTestIDs); len(leak) > 0 {
		log.Printf("warning: synthetic train/test overlap: %v", leak)
	}

	nytTrainIDs, nytValIDs := a.SplitIDs(nytFull)
	synTrainIDs, synValIDs := a.SplitIDs(synFull)

	split := &trainingSplit{
		nytTestIDs:  nytTestIDs,
		synTestIDs:  synTestIDs,
		nytTrainIDs: nytTrainIDs,
		nytValIDs:   nytValIDs,
		synTrainIDs: synTrainIDs,
		synValIDs:   synValIDs,
		nytTrain:    Materialize(in.StructuredNYTTrain, nytTrainIDs),
		nytVal:      Materialize(in.StructuredNYTTrain, nytValIDs),
		synTrain:    Materialize(in.StructuredSyntheticTrain, synTrainIDs),
		synVal:      Materialize(in.StructuredSyntheticTrain, synValIDs),
	}

	sum.NYTTrainIDs = len(nytTrainIDs)
	sum.NYTValIDs = len(nytValIDs)
	sum.SyntheticTrainIDs = len(synTrainIDs)
	sum.SyntheticValIDs = len(synValIDs)

	globalValidation := concat(split.nytVal, split.synVal)
	if err := puzzle.WriteExamples(filepath.Join(a.outDir, "global_validation.jsonl"), globalValidation); err != nil {
		return nil, err
	}
	sum.GlobalValidation = len(globalValidation)
	log.Printf("global validation set: %d entries", len(globalValidation))

	// Experiment 1 evaluates its baseline arm on single-ordering entries
	// and the permutation arm on all of them.
	exp1 := a.suiteDir("exp1", "experiment1")
	if err := a.writeArm(sum, exp1, "validation_nyt_perm1.jsonl", permOnly(split.nytVal, 1)); err != nil {
		return nil, err
	}
	if err := a.writeArm(sum, exp1, "validation_nyt_all_perms.jsonl", split.nytVal); err != nil {
		return nil, err
	}

	ids := validationIDsFile{
		NYTValIDs:         setList(nytValIDs),
		SyntheticValIDs:   setList(synValIDs),
		NYTTrainIDs:       setList(nytTrainIDs),
		SyntheticTrainIDs: setList(synTrainIDs),
	}
	if err := writeJSON(filepath.Join(a.outDir, "validation_ids.json"), ids); err != nil {
		return nil, err
	}
	return split, nil
}

// leakCheck rejects a sampled training set that contains any held-out
// puzzle. The pools the sample draws from already exclude them, so a hit
// here means the pool construction regressed.
func leakCheck(sampled []string, split *trainingSplit) error {
	for _, id := range sampled {
		if split.nytTestIDs[id] {
			return fmt.Errorf("sampled ids include test puzzle %s: %w", id, ErrLeakage)
		}
		if split.nytValIDs[id] {
			return fmt.Errorf("sampled ids include validation puzzle %s: %w", id, ErrLeakage)
		}
	}
	return nil
}

// exampleOriginalID resolves the source-puzzle identity of an example:
// the explicit original id when present, otherwise the puzzle id with any
// permutation suffix stripped.
func exampleOriginalID(ex puzzle.Example) string {
	if ex.Metadata.OriginalID != "" {
		return ex.Metadata.OriginalID
	}
	return puzzle.OriginalID(ex.Metadata.PuzzleID)
}

func idSet(examples []puzzle.Example) map[string]bool {
	ids := make(map[string]bool)
	for _, ex := range examples {
		if id := exampleOriginalID(ex); id != "" {
			ids[id] = true
		}
	}
	return ids
}

func groupByOriginalID(examples []puzzle.Example) map[string][]puzzle.Example {
	m := make(map[string][]puzzle.Example)
	for _, ex := range examples {
		if id := exampleOriginalID(ex); id != "" {
			m[id] = append(m[id], ex)
		}
	}
	return m
}

// permOnly keeps the entries of one permutation number.
func permOnly(examples []puzzle.Example, n int) []puzzle.Example {
	var out []puzzle.Example
	for _, ex := range examples {
		if ex.Metadata.Permutation == n {
			out = append(out, ex)
		}
	}
	return out
}

func intersect(a, b map[string]bool) []string {
	var out []string
	for id := range a {
		if b[id] {
			out = append(out, id)
		}
	}
	puzzle.SortIDs(out)
	return out
}

func setList(ids map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	puzzle.SortIDs(out)
	return out
}

func concat(a, b []puzzle.Example) []puzzle.Example {
	out := make([]puzzle.Example, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
