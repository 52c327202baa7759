// internal/puzzle/io.go
package puzzle

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadPuzzles reads a JSON array of full puzzles.
func LoadPuzzles(path string) ([]Puzzle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var puzzles []Puzzle
	if err := json.NewDecoder(file).Decode(&puzzles); err != nil {
		return nil, fmt.Errorf("decode puzzles %q: %w", path, err)
	}
	return puzzles, nil
}

// SavePuzzles writes a JSON array of full puzzles with indentation.
func SavePuzzles(path string, puzzles []Puzzle) error {
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
	return enc.Encode(puzzles)
}

// LoadPatternExamples reads a JSON array of categorical pattern examples.
func LoadPatternExamples(path string) ([]PatternExample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var examples []PatternExample
	if err := json.NewDecoder(file).Decode(&examples); err != nil {
		return nil, fmt.Errorf("decode pattern examples %q: %w", path, err)
	}
	return examples, nil
}

// SavePatternExamples writes pattern examples as an indented JSON array.
func SavePatternExamples(path string, examples []PatternExample) error {
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
	return enc.Encode(examples)
}

// ReadExamples loads a JSONL file of training examples, one per line.
// Blank lines are skipped.
func ReadExamples(path string) ([]Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var examples []Example
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ex Example
		if err := json.Unmarshal(raw, &ex); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return examples, nil
}

// WriteExamples writes training examples as JSONL, creating parent
// directories as needed.
func WriteExamples(path string, examples []Example) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode example %s: %w", ex.Metadata.PuzzleID, err)
		}
	}
	return nil
}

// AppendExample appends a single example to a JSONL file.
func AppendExample(path string, ex Example) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(ex)
}

// ReadPredictions loads a prediction file: either a bare JSON array or an
// object wrapping the array under "examples", "data", or "items".
func ReadPredictions(path string) ([]PredictionRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []PredictionRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode predictions %q: %w", path, err)
	}
	for _, key := range []string{"examples", "data", "items"} {
		inner, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &records); err != nil {
			return nil, fmt.Errorf("decode predictions %q key %q: %w", path, key, err)
		}
		return records, nil
	}
	return nil, fmt.Errorf("predictions %q: no recognizable record array", path)
}

// WritePredictions writes prediction records as an indented JSON array.
func WritePredictions(path string, records []PredictionRecord) error {
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
	return enc.Encode(records)
}
