// internal/categories/categories.go
// Package categories drives an LLM over puzzle answer groups to maintain
// a compact taxonomy of the linguistic mechanisms behind them. Puzzles
// are analyzed in small batches; each batch sees the running taxonomy and
// returns the complete updated version.
package categories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/syndeo/internal/lexicon"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/retry"
)

// defaultBatchSize keeps each prompt small enough that the full taxonomy
// can ride along with it.
const defaultBatchSize = 3

// TypeEntry is one taxonomy type with representative group labels.
type TypeEntry struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Analyzer accumulates the taxonomy across batches.
type Analyzer struct {
	client    providers.ChatClient
	model     string
	outDir    string
	policy    retry.Policy
	BatchSize int

	taxonomy []TypeEntry
}

// New builds an analyzer writing progress files into outDir.
func New(client providers.ChatClient, model, outDir string) *Analyzer {
	return &Analyzer{
		client:    client,
		model:     model,
		outDir:    outDir,
		policy:    retry.Exponential(3, time.Second, 8*time.Second),
		BatchSize: defaultBatchSize,
	}
}

// Run analyzes every puzzle and returns the final taxonomy. Progress is
// saved after each batch so an interrupted run loses at most one batch.
func (a *Analyzer) Run(ctx context.Context, puzzles []puzzle.Puzzle) ([]TypeEntry, error) {
	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return nil, err
	}

	batchSize := a.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	batchNum := 0
	for start := 0; start < len(puzzles); start += batchSize {
		end := start + batchSize
		if end > len(puzzles) {
			end = len(puzzles)
		}
		batchNum++

		if err := a.analyzeBatch(ctx, puzzles[start:end], batchNum); err != nil {
			return a.taxonomy, fmt.Errorf("batch %d: %w", batchNum, err)
		}
		fmt.Printf("[batch %d] %d puzzles analyzed, %d taxonomy types\n", batchNum, end, len(a.taxonomy))

		if err := a.save(fmt.Sprintf("category_analysis_batch_%d.json", batchNum)); err != nil {
			return a.taxonomy, err
		}
	}

	if err := a.save("category_analysis_final.json"); err != nil {
		return a.taxonomy, err
	}
	return a.taxonomy, nil
}

func (a *Analyzer) analyzeBatch(ctx context.Context, batch []puzzle.Puzzle, batchNum int) error {
	prompt, err := a.buildPrompt(batch, batchNum == 1)
	if err != nil {
		return err
	}

	var resp providers.ChatResponse
	err = a.policy.Do(ctx, func(ctx context.Context) error {
		r, callErr := a.client.Complete(ctx, providers.ChatRequest{
			Model:    a.model,
			Messages: []providers.ChatMessage{{Role: "user", Content: prompt}},
		})
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return err
	}

	updated, err := ParseTaxonomy(resp.Content)
	if err != nil {
		return err
	}
	a.taxonomy = updated
	return nil
}

// FormatBatch renders puzzles the way the analyst prompt expects them.
func FormatBatch(batch []puzzle.Puzzle) string {
	var b strings.Builder
	for _, p := range batch {
		fmt.Fprintf(&b, "Connection #%d (%s):\n", p.ID, p.Date)
		for _, g := range p.Answers {
			fmt.Fprintf(&b, "  - %s: %s\n", g.Label, strings.Join(g.Members, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Analyzer) buildPrompt(batch []puzzle.Puzzle, first bool) (string, error) {
	var b strings.Builder
	b.WriteString("You are a linguistics expert analyzing Connections puzzles. Identify the HIGH-LEVEL linguistic mechanism behind each answer group, keeping a compact taxonomy of 10-20 broad types.\n\n")
	b.WriteString(FormatBatch(batch))
	b.WriteString("\n\n")

	if first {
		b.WriteString("Seed types to consider: ")
		b.WriteString(lexicon.TypeList())
		b.WriteString("\n\nFocus on the linguistic MECHANISM, never the content domain: all named-entity sets are one type, all \"types of X\" sets are one type.\n")
	} else {
		current, err := json.MarshalIndent(a.taxonomy, "", "  ")
		if err != nil {
			return "", err
		}
		b.WriteString("Current taxonomy:\n")
		b.Write(current)
		b.WriteString("\n\nFit each new group into an existing type where possible; merge over-specific types aggressively. Output the COMPLETE updated taxonomy.\n")
	}

	b.WriteString("\nOutput as JSON:\n{\"category_types\": [{\"type\": \"...\", \"description\": \"...\", \"examples\": [\"...\"]}]}")
	return b.String(), nil
}

// ParseTaxonomy decodes the model's taxonomy JSON, tolerating markdown
// code fences around the payload.
func ParseTaxonomy(content string) ([]TypeEntry, error) {
	text := strings.TrimSpace(content)
	if i := strings.Index(text, "{"); i > 0 {
		text = text[i:]
	}
	if i := strings.LastIndex(text, "}"); i >= 0 {
		text = text[:i+1]
	}

	var payload struct {
		CategoryTypes []TypeEntry `json:"category_types"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("parse taxonomy reply: %w", err)
	}
	if len(payload.CategoryTypes) == 0 {
		return nil, fmt.Errorf("taxonomy reply contained no category_types")
	}
	return payload.CategoryTypes, nil
}

func (a *Analyzer) save(name string) error {
	payload := struct {
		Types []TypeEntry `json:"category_types"`
		Count int         `json:"type_count"`
	}{Types: a.taxonomy, Count: len(a.taxonomy)}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.outDir, name), data, 0o644)
}
