// internal/experiments/experiments.go
// Package experiments describes the training-ablation suites: which
// experiment directories the assembler materializes and which fine-tuned
// variants the analysis and judge stages compare.
package experiments

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the suite plan lives next to the main config.
const DefaultPath = "config/experiments.yaml"

// defaultSampleSize bounds the common-ID sample for the format-impact
// suite.
const defaultSampleSize = 500

// Suite is one experiment: an assembler output directory plus the
// prediction variants compared during analysis and judging.
type Suite struct {
	Name       string   `yaml:"name"`
	Dir        string   `yaml:"dir"`
	Variants   []string `yaml:"variants"`
	SampleSize int      `yaml:"sampleSize,omitempty"`
}

// Plan is the full set of suites.
type Plan struct {
	Suites []Suite `yaml:"suites"`
}

// Default returns the stock three-suite plan: data-source ablation,
// narrative-format impact, and warm-up curriculum.
func Default() Plan {
	return Plan{Suites: []Suite{
		{
			Name:     "exp1",
			Dir:      "experiment1",
			Variants: []string{"exp1_baseline", "exp1_permutation", "exp1_full", "exp1_synthetic"},
		},
		{
			Name:       "exp2",
			Dir:        "experiment2",
			Variants:   []string{"exp2_mixed", "exp2_sequential", "exp2_structured", "exp2_unstructured"},
			SampleSize: defaultSampleSize,
		},
		{
			Name:     "exp3",
			Dir:      "experiment3",
			Variants: []string{"exp3_warmup", "exp3_no_warmup", "exp3_staged"},
		},
	}}
}

// Load reads a suite plan from a YAML file. A missing file yields the
// default plan.
func Load(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse %q: %w", path, err)
	}
	if len(plan.Suites) == 0 {
		return Plan{}, fmt.Errorf("%q defines no suites", path)
	}
	for i, s := range plan.Suites {
		if s.Name == "" {
			return Plan{}, fmt.Errorf("%q: suite %d has no name", path, i)
		}
		if len(s.Variants) == 0 {
			return Plan{}, fmt.Errorf("%q: suite %q lists no variants", path, s.Name)
		}
	}
	return plan, nil
}

// Suite looks a suite up by name.
func (p Plan) Suite(name string) (Suite, bool) {
	for _, s := range p.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// CommonSample returns the bounded sample size for the suite, defaulting
// when unset.
func (s Suite) CommonSample() int {
	if s.SampleSize <= 0 {
		return defaultSampleSize
	}
	return s.SampleSize
}

// Pairs enumerates the ordered variant pairings the judge scores, each
// variant against every later one.
func (s Suite) Pairs() [][2]string {
	var pairs [][2]string
	for i := 0; i < len(s.Variants); i++ {
		for j := i + 1; j < len(s.Variants); j++ {
			pairs = append(pairs, [2]string{s.Variants[i], s.Variants[j]})
		}
	}
	return pairs
}
