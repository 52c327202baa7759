// internal/puzzle/types.go
// Package puzzle defines the shared data model for Connections-style
// puzzles, training examples, and prediction records.
package puzzle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GroupSize is the number of members in a full-puzzle group.
const GroupSize = 4

// GroupCount is the number of groups in a full puzzle.
const GroupCount = 4

// WordCount is the total number of words on a full puzzle board.
const WordCount = GroupSize * GroupCount

// Group is one answer group of a full puzzle.
type Group struct {
	Level   int      `json:"level"`
	Label   string   `json:"group"`
	Members []string `json:"members"`
}

// Puzzle is a full 4x4 Connections board in the published layout.
type Puzzle struct {
	ID      int     `json:"id"`
	Date    string  `json:"date"`
	Answers []Group `json:"answers"`
}

// Words returns the board words in answer order.
func (p Puzzle) Words() []string {
	words := make([]string, 0, WordCount)
	for _, g := range p.Answers {
		words = append(words, g.Members...)
	}
	return words
}

// PatternExample is a categorical warm-up puzzle (odd-one-out and
// multi-group shapes) produced by the pattern generator.
type PatternExample struct {
	ID           int      `json:"id"`
	Pattern      string   `json:"pattern"`
	Input        string   `json:"input"`
	Words        []string `json:"words"`
	Explanation  string   `json:"explanation"`
	TargetScores []int    `json:"target_scores"`
	Answer       string   `json:"answer"`
}

// ChatMessage is one turn of a training conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Metadata identifies an example and ties it back to its source puzzle.
type Metadata struct {
	PuzzleID        string `json:"puzzle_id"`
	OriginalID      string `json:"original_id,omitempty"`
	Permutation     int    `json:"permutation"`
	ReasoningLength int    `json:"reasoning_length,omitempty"`
	Source          string `json:"source,omitempty"`
	Pattern         string `json:"pattern,omitempty"`
	Explanation     string `json:"explanation,omitempty"`
}

// Example is one JSONL training or evaluation row.
type Example struct {
	Messages []ChatMessage `json:"messages"`
	Metadata Metadata      `json:"metadata"`
}

// UserMessage returns the first user turn, or "" when absent.
func (e Example) UserMessage() string {
	for _, m := range e.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

// AssistantMessage returns the first assistant turn, or "" when absent.
func (e Example) AssistantMessage() string {
	for _, m := range e.Messages {
		if m.Role == "assistant" {
			return m.Content
		}
	}
	return ""
}

// PredictionRecord is one model output for one test puzzle.
type PredictionRecord struct {
	PuzzleID    string   `json:"puzzle_id"`
	UserMessage string   `json:"user_message"`
	Prediction  string   `json:"prediction"`
	GroundTruth string   `json:"ground_truth"`
	Metadata    Metadata `json:"metadata"`
	Error       string   `json:"error,omitempty"`
}

// ScoreRecord is one scored prediction.
type ScoreRecord struct {
	ModelName     string  `json:"model_name"`
	PuzzleID      string  `json:"puzzle_id"`
	Score         float64 `json:"score"`
	CorrectGroups int     `json:"correct_groups"`
}

// OriginalID strips a trailing "_perm{n}" suffix so permuted examples and
// their source puzzle share one identity. IDs without the suffix are
// returned unchanged.
func OriginalID(id string) string {
	if i := strings.LastIndex(id, "_perm"); i >= 0 {
		if _, err := strconv.Atoi(id[i+len("_perm"):]); err == nil {
			return id[:i]
		}
	}
	return id
}

// PermutationID builds the id for permutation n of a source puzzle.
func PermutationID(originalID string, n int) string {
	return fmt.Sprintf("%s_perm%d", originalID, n)
}

// DedupeID disambiguates the nth repeat of a puzzle id within one
// prediction file; n starts at 2 for the first repeat.
func DedupeID(id string, n int) string {
	return fmt.Sprintf("%s_dup%d", id, n)
}

// SortIDs orders puzzle ids in place: purely numeric ids first in numeric
// order, everything else after in lexicographic order.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
