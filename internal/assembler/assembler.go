// internal/assembler/assembler.go
// Package assembler builds the experiment datasets from formatted
// narrative files: the global test and validation sets plus the per-suite
// training arms, with leakage checks on every boundary that matters.
package assembler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/mwiater/syndeo/internal/puzzle"
)

// ErrLeakage marks a held-out puzzle found where training data is being
// sampled. Overlaps between raw train and test inputs only warn; a leak
// inside a sampled training set is fatal.
var ErrLeakage = errors.New("data leakage detected")

// splitSeed fixes every sample and shuffle in an assembly run.
const splitSeed = 42

// Formatted narrative files under the reasoning directory.
const (
	FileStructuredNYTTrain = "structured_nyt_train.jsonl"
	FileStructuredNYTTest  = "structured_nyt_test.jsonl"
	FileStructuredSynTrain = "structured_synthetic_train.jsonl"
	FileStructuredSynTest  = "structured_synthetic_test.jsonl"
	FileUnstructuredNYT    = "unstructured_nyt.jsonl"
	FileUnstructuredSyn    = "unstructured_synthetic.jsonl"
	FilePreconnTrain       = "structured_preconn_train.jsonl"
	FilePreconnTest        = "structured_preconn_test.jsonl"
)

// Inputs are the formatted narrative datasets an assembly run consumes.
type Inputs struct {
	StructuredNYTTrain       []puzzle.Example
	StructuredNYTTest        []puzzle.Example
	StructuredSyntheticTrain []puzzle.Example
	StructuredSyntheticTest  []puzzle.Example
	UnstructuredNYT          []puzzle.Example
	PreconnTrain             []puzzle.Example
}

// LoadInputs reads the formatted narrative datasets from dir. A missing
// or unreadable file is logged and treated as an empty source.
func LoadInputs(dir string) Inputs {
	return Inputs{
		StructuredNYTTrain:       readOptional(filepath.Join(dir, FileStructuredNYTTrain)),
		StructuredNYTTest:        readOptional(filepath.Join(dir, FileStructuredNYTTest)),
		StructuredSyntheticTrain: readOptional(filepath.Join(dir, FileStructuredSynTrain)),
		StructuredSyntheticTest:  readOptional(filepath.Join(dir, FileStructuredSynTest)),
		UnstructuredNYT:          readOptional(filepath.Join(dir, FileUnstructuredNYT)),
		PreconnTrain:             readOptional(filepath.Join(dir, FilePreconnTrain)),
	}
}

func readOptional(path string) []puzzle.Example {
	examples, err := puzzle.ReadExamples(path)
	if err != nil {
		log.Printf("warning: skipping source %s: %v", path, err)
		return nil
	}
	return examples
}

// Assembler materializes experiment datasets under one output directory.
type Assembler struct {
	rng    *rand.Rand
	outDir string
	plan   experiments.Plan
}

// New creates an assembler writing under outDir, with suites laid out per
// the plan. The sampling stream is seeded so reruns reproduce the same
// splits.
func New(outDir string, plan experiments.Plan) *Assembler {
	return &Assembler{
		rng:    rand.New(rand.NewSource(splitSeed)),
		outDir: outDir,
		plan:   plan,
	}
}

// Summary reports what one assembly run produced.
type Summary struct {
	NYTTestIDs        int
	SyntheticTestIDs  int
	NYTTrainIDs       int
	NYTValIDs         int
	SyntheticTrainIDs int
	SyntheticValIDs   int
	GlobalTest        int
	GlobalValidation  int
	Arms              map[string]int
}

// Run builds every output: global test/validation sets, the three
// experiment suites, and the ID manifests that pin the splits down.
func (a *Assembler) Run(in Inputs) (*Summary, error) {
	nytTestIDs := idSet(in.StructuredNYTTest)
	synTestIDs := idSet(in.StructuredSyntheticTest)
	if len(nytTestIDs)+len(synTestIDs) == 0 {
		return nil, errors.New("assemble: no structured test data found")
	}

	sum := &Summary{
		Arms:             map[string]int{},
		NYTTestIDs:       len(nytTestIDs),
		SyntheticTestIDs: len(synTestIDs),
	}

	if err := a.writeGlobalTest(in, nytTestIDs, synTestIDs, sum); err != nil {
		return nil, err
	}

	split, err := a.splitTraining(in, nytTestIDs, synTestIDs, sum)
	if err != nil {
		return nil, err
	}

	if err := a.buildExperiment1(split, sum); err != nil {
		return nil, err
	}
	if err := a.buildExperiment2(in, split, sum); err != nil {
		return nil, err
	}
	if err := a.buildExperiment3(in, split, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// suiteDir resolves a suite's output directory from the plan.
func (a *Assembler) suiteDir(name, fallback string) string {
	if s, ok := a.plan.Suite(name); ok && s.Dir != "" {
		return s.Dir
	}
	return fallback
}

// writeArm writes one experiment arm and records its size.
func (a *Assembler) writeArm(sum *Summary, dir, name string, examples []puzzle.Example) error {
	rel := filepath.Join("experiments", dir, name)
	if err := puzzle.WriteExamples(filepath.Join(a.outDir, rel), examples); err != nil {
		return err
	}
	sum.Arms[filepath.Join(dir, name)] = len(examples)
	fmt.Printf("wrote %s (%d entries)\n", rel, len(examples))
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
