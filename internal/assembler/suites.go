// internal/assembler/suites.go
package assembler

import (
	"log"
	"path/filepath"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// Manifest files pin each run's splits down so later scoring can audit
// exactly which puzzles went where.
type testIDsFile struct {
	NYTTestIDs                []string `json:"nyt_test_ids"`
	SyntheticTestIDs          []string `json:"synthetic_test_ids"`
	UnstructuredTestPuzzleIDs []string `json:"unstructured_test_puzzle_ids"`
}

type validationIDsFile struct {
	NYTValIDs         []string `json:"nyt_val_ids"`
	SyntheticValIDs   []string `json:"synthetic_val_ids"`
	NYTTrainIDs       []string `json:"nyt_train_ids"`
	SyntheticTrainIDs []string `json:"synthetic_train_ids"`
}

type sampledIDsFile struct {
	SampledIDs []string `json:"sampled_ids"`
}

type idSplitsFile struct {
	AllIDs        []string `json:"all_ids"`
	FirstHalfIDs  []string `json:"first_half_ids"`
	SecondHalfIDs []string `json:"second_half_ids"`
	Note          string   `json:"note"`
}

// writeGlobalTest records the held-out puzzle IDs and writes the combined
// test set every prediction run evaluates against.
func (a *Assembler) writeGlobalTest(in Inputs, nytTestIDs, synTestIDs map[string]bool, sum *Summary) error {
	unstructuredTest := map[string]bool{}
	for _, ex := range in.UnstructuredNYT {
		if id := ex.Metadata.PuzzleID; nytTestIDs[id] {
			unstructuredTest[id] = true
		}
	}

	ids := testIDsFile{
		NYTTestIDs:                setList(nytTestIDs),
		SyntheticTestIDs:          setList(synTestIDs),
		UnstructuredTestPuzzleIDs: setList(unstructuredTest),
	}
	if err := writeJSON(filepath.Join(a.outDir, "test_ids.json"), ids); err != nil {
		return err
	}

	globalTest := concat(in.StructuredNYTTest, in.StructuredSyntheticTest)
	if err := puzzle.WriteExamples(filepath.Join(a.outDir, "global_test.jsonl"), globalTest); err != nil {
		return err
	}
	sum.GlobalTest = len(globalTest)
	log.Printf("global test set: %d entries (%d nyt + %d synthetic puzzles)", len(globalTest), len(nytTestIDs), len(synTestIDs))
	return nil
}

// buildExperiment1 writes the augmentation-ablation arms: one board
// ordering, all orderings, synthetic added, and everything combined.
func (a *Assembler) buildExperiment1(split *trainingSplit, sum *Summary) error {
	if len(split.nytTrain) == 0 {
		log.Printf("experiment1: no structured training data, skipping")
		return nil
	}
	dir := a.suiteDir("exp1", "experiment1")

	if err := a.writeArm(sum, dir, "baseline_train.jsonl", permOnly(split.nytTrain, 1)); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "permutation_train.jsonl", split.nytTrain); err != nil {
		return err
	}
	synthetic := concat(permOnly(split.nytTrain, 1), permOnly(split.synTrain, 1))
	if err := a.writeArm(sum, dir, "synthetic_train.jsonl", synthetic); err != nil {
		return err
	}
	return a.writeArm(sum, dir, "full_train.jsonl", concat(split.nytTrain, split.synTrain))
}

// buildExperiment2 writes the format-impact arms: the same sampled
// puzzles rendered structured-only, unstructured-only, mixed, and as a
// two-phase sequence.
func (a *Assembler) buildExperiment2(in Inputs, split *trainingSplit, sum *Summary) error {
	dir := a.suiteDir("exp2", "experiment2")

	structuredByID := groupByOriginalID(split.nytTrain)

	unstructuredByID := map[string]puzzle.Example{}
	for _, ex := range in.UnstructuredNYT {
		id := ex.Metadata.PuzzleID
		if id == "" || split.nytTestIDs[id] || split.nytValIDs[id] {
			continue
		}
		unstructuredByID[id] = ex
	}

	common := map[string]bool{}
	for id := range structuredByID {
		if _, ok := unstructuredByID[id]; ok && !split.nytTestIDs[id] && !split.nytValIDs[id] {
			common[id] = true
		}
	}
	if len(common) == 0 {
		log.Printf("experiment2: no puzzles present in both formats, skipping")
		return nil
	}

	// A plan without an exp2 entry still gets the stock sample bound,
	// since CommonSample defaults on the zero suite.
	suite, _ := a.plan.Suite("exp2")
	size := suite.CommonSample()
	if size > len(common) {
		size = len(common)
	}
	sampled := a.sample(setList(common), size)
	log.Printf("experiment2: sampled %d of %d puzzles present in both formats", len(sampled), len(common))

	if err := leakCheck(sampled, split); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(a.outDir, "experiments", dir, "sampled_ids.json"), sampledIDsFile{SampledIDs: sortedCopy(sampled)}); err != nil {
		return err
	}

	firstHalf := sampled[:len(sampled)/2]
	secondHalf := sampled[len(sampled)/2:]

	structuredFor := func(ids []string) []puzzle.Example {
		var out []puzzle.Example
		for _, id := range ids {
			out = append(out, permOnly(structuredByID[id], 1)...)
		}
		return out
	}
	unstructuredFor := func(ids []string) []puzzle.Example {
		var out []puzzle.Example
		for _, id := range ids {
			if ex, ok := unstructuredByID[id]; ok {
				out = append(out, ex)
			}
		}
		return out
	}

	if err := a.writeArm(sum, dir, "structured_only_train.jsonl", structuredFor(sampled)); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "unstructured_only_train.jsonl", unstructuredFor(sampled)); err != nil {
		return err
	}

	phase1 := unstructuredFor(firstHalf)
	phase2 := structuredFor(secondHalf)
	mixed := concat(phase1, phase2)
	a.rng.Shuffle(len(mixed), func(i, j int) { mixed[i], mixed[j] = mixed[j], mixed[i] })
	if err := a.writeArm(sum, dir, "mixed_train.jsonl", mixed); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "sequential_phase1_unstructured.jsonl", phase1); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "sequential_phase2_structured.jsonl", phase2); err != nil {
		return err
	}

	splits := idSplitsFile{
		AllIDs:        sortedCopy(sampled),
		FirstHalfIDs:  sortedCopy(firstHalf),
		SecondHalfIDs: sortedCopy(secondHalf),
		Note:          "mixed shuffles every sampled entry together; sequential trains on first_half_ids then second_half_ids",
	}
	if err := writeJSON(filepath.Join(a.outDir, "experiments", dir, "id_splits.json"), splits); err != nil {
		return err
	}

	return a.writeExperiment2Validation(in, split, dir, sum)
}

// writeExperiment2Validation renders the validation puzzles in each of
// the three formats so every arm evaluates against the same puzzles.
func (a *Assembler) writeExperiment2Validation(in Inputs, split *trainingSplit, dir string, sum *Summary) error {
	structuredValByID := groupByOriginalID(split.nytVal)

	unstructuredValByID := map[string]puzzle.Example{}
	for _, ex := range in.UnstructuredNYT {
		if id := ex.Metadata.PuzzleID; split.nytValIDs[id] {
			unstructuredValByID[id] = ex
		}
	}

	valIDs := setList(split.nytValIDs)

	var valStructured []puzzle.Example
	for _, id := range valIDs {
		valStructured = append(valStructured, permOnly(structuredValByID[id], 1)...)
	}
	var valUnstructured []puzzle.Example
	for _, id := range valIDs {
		if ex, ok := unstructuredValByID[id]; ok {
			valUnstructured = append(valUnstructured, ex)
		}
	}

	half := len(valIDs) / 2
	var mixed []puzzle.Example
	for _, id := range valIDs[:half] {
		if ex, ok := unstructuredValByID[id]; ok {
			mixed = append(mixed, ex)
		}
	}
	for _, id := range valIDs[half:] {
		mixed = append(mixed, permOnly(structuredValByID[id], 1)...)
	}
	a.rng.Shuffle(len(mixed), func(i, j int) { mixed[i], mixed[j] = mixed[j], mixed[i] })

	if err := a.writeArm(sum, dir, "validation_structured.jsonl", valStructured); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "validation_unstructured.jsonl", valUnstructured); err != nil {
		return err
	}
	return a.writeArm(sum, dir, "validation_mixed.jsonl", mixed)
}

// buildExperiment3 writes the warmup-strategy components. The staged arm
// trains on them in sequence, so each component is stored separately.
func (a *Assembler) buildExperiment3(in Inputs, split *trainingSplit, sum *Summary) error {
	dir := a.suiteDir("exp3", "experiment3")

	if len(in.PreconnTrain) == 0 {
		log.Printf("experiment3: no warmup data, skipping preconn_warmup.jsonl")
	} else if err := a.writeArm(sum, dir, "preconn_warmup.jsonl", in.PreconnTrain); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "synthetic_component.jsonl", split.synTrain); err != nil {
		return err
	}
	if err := a.writeArm(sum, dir, "nyt_component.jsonl", split.nytTrain); err != nil {
		return err
	}
	return a.writeArm(sum, dir, "full_augmented.jsonl", concat(split.nytTrain, split.synTrain))
}

func sortedCopy(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	puzzle.SortIDs(out)
	return out
}
