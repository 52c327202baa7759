// internal/judge/checkpoint.go
package judge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Vote is one judged comparison.
type Vote struct {
	Pair     string
	PuzzleID string
	Verdict  Verdict
}

type voteKey struct {
	pair string
	id   string
}

var checkpointHeader = []string{"pair", "id", "vote"}

// readCheckpoint loads previously recorded votes. A missing file is an
// empty checkpoint, not an error.
func readCheckpoint(path string) ([]Vote, map[voteKey]bool, error) {
	seen := make(map[voteKey]bool)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, seen, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open checkpoint %q: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read checkpoint %q: %w", path, err)
	}

	var votes []Vote
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		v := Vote{Pair: row[0], PuzzleID: row[1], Verdict: Verdict(row[2])}
		votes = append(votes, v)
		seen[voteKey{pair: v.Pair, id: v.PuzzleID}] = true
	}
	return votes, seen, nil
}

// writeCheckpoint rewrites the full vote list. The file is small enough
// that rewriting beats appending plus dedup on resume.
func writeCheckpoint(path string, votes []Vote) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write checkpoint %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(checkpointHeader); err != nil {
		return err
	}
	for _, v := range votes {
		if err := w.Write([]string{v.Pair, v.PuzzleID, string(v.Verdict)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
