// internal/narrative/narrative.go
// Package narrative turns generated puzzles into chain-of-thought training
// examples. A narrator model is prompted with the solved board and asked
// for a discovery narrative; accepted replies are wrapped in think tags
// with the canonical answer appended.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/pool"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/retry"
)

// errRejected marks replies at or below the acceptance threshold.
var errRejected = errors.New("narrative too short")

// Generator drives one narrator model over queued puzzles.
type Generator struct {
	client providers.ChatClient
	cfg    appconfig.Generation
	policy retry.Policy

	// OnProgress, when set, replaces the default progress prints. It is
	// always invoked from a single goroutine.
	OnProgress func(done, total, accepted int)
}

// New wires a narrative generator around a chat client using the
// generation section of the application config.
func New(client providers.ChatClient, cfg appconfig.Generation) *Generator {
	return &Generator{
		client: client,
		cfg:    cfg,
		policy: retry.Exponential(cfg.RetryAttempts(), time.Second, 8*time.Second),
	}
}

// task is one queued narration: the solver prompt sent to the narrator
// plus the clean conversation stored on success.
type task struct {
	prompt     string
	user       string
	meta       puzzle.Metadata
	answer     string // canonical answer block; empty for warm-up tasks
	splitReply bool   // derive the answer from the reply's last sentence
}

// Structured generates taxonomy-guided narratives: a seeded 90/10 split,
// shuffled variants for each training puzzle, and permutation-0 boards
// for the held-out test set.
func (g *Generator) Structured(ctx context.Context, puzzles []puzzle.Puzzle) (train, test []puzzle.Example, err error) {
	trainPuzzles, testPuzzles := SplitTrainTest(puzzles, DefaultSplitRatio)
	fmt.Printf("split: %d train puzzles, %d test puzzles\n", len(trainPuzzles), len(testPuzzles))

	variants := Permute(trainPuzzles, g.cfg.TrainPermutations())
	train, err = g.run(ctx, "train", fullPuzzleTasks(variants, StructuredPrompt))
	if err != nil {
		return train, nil, err
	}
	test, err = g.run(ctx, "test", fullPuzzleTasks(TestVariants(testPuzzles), StructuredPrompt))
	return train, test, err
}

// Unstructured generates free-narrative examples for every puzzle, with
// no split and no permutations.
func (g *Generator) Unstructured(ctx context.Context, puzzles []puzzle.Puzzle) ([]puzzle.Example, error) {
	return g.run(ctx, "unstructured", fullPuzzleTasks(TestVariants(puzzles), UnstructuredPrompt))
}

// Patterns generates warm-up narratives over the categorical examples,
// split 90/10 ahead of generation so held-out shapes never reach a
// training file.
func (g *Generator) Patterns(ctx context.Context, examples []puzzle.PatternExample) (train, test []puzzle.Example, err error) {
	trainEx, testEx := SplitTrainTest(examples, DefaultSplitRatio)
	fmt.Printf("split: %d train examples, %d test examples\n", len(trainEx), len(testEx))

	train, err = g.run(ctx, "pattern train", patternTasks(trainEx))
	if err != nil {
		return train, nil, err
	}
	test, err = g.run(ctx, "pattern test", patternTasks(testEx))
	return train, test, err
}

func fullPuzzleTasks(variants []Variant, buildPrompt func([]string, []puzzle.Group) string) []task {
	tasks := make([]task, 0, len(variants))
	for _, v := range variants {
		tasks = append(tasks, task{
			prompt: buildPrompt(v.Words, v.Answers),
			user:   FullPuzzleUserMessage(v.Words),
			answer: AnswerBlock(v.Answers),
			meta: puzzle.Metadata{
				PuzzleID:    v.ID,
				OriginalID:  v.OriginalID,
				Permutation: v.Permutation,
			},
		})
	}
	return tasks
}

func patternTasks(examples []puzzle.PatternExample) []task {
	tasks := make([]task, 0, len(examples))
	for _, ex := range examples {
		prompt, ok := PatternPrompt(ex)
		if !ok {
			log.Printf("warning: skipping pattern example %d: unsupported shape %q", ex.ID, ex.Pattern)
			continue
		}
		tasks = append(tasks, task{
			prompt:     prompt,
			user:       ex.Input,
			splitReply: true,
			meta: puzzle.Metadata{
				PuzzleID:    strconv.Itoa(ex.ID),
				Pattern:     ex.Pattern,
				Explanation: ex.Explanation,
			},
		})
	}
	return tasks
}

// run narrates every task, sequentially with pacing when a single worker
// is configured, otherwise through the ordered pool. Failed and rejected
// tasks are dropped; survivors come back in submission order.
func (g *Generator) run(ctx context.Context, label string, tasks []task) ([]puzzle.Example, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	fmt.Printf("\nprocessing %s (%d examples)...\n", label, len(tasks))

	var examples []puzzle.Example

	if workers := g.cfg.Workers(); workers > 1 {
		// Workers report completions to a single counting goroutine so
		// progress state never sees concurrent writes.
		events := make(chan bool, workers)
		counted := make(chan struct{})
		go func() {
			defer close(counted)
			done, accepted := 0, 0
			for ok := range events {
				done++
				if ok {
					accepted++
				}
				g.progress(done, len(tasks), accepted)
			}
		}()

		results := pool.Map(ctx, workers, tasks, func(ctx context.Context, _ int, t task) (puzzle.Example, error) {
			ex, err := g.narrate(ctx, t)
			events <- err == nil
			return ex, err
		})
		close(events)
		<-counted

		for _, r := range results {
			if r.Err == nil {
				examples = append(examples, r.Value)
			}
		}
	} else {
		delay := g.cfg.DelayDuration()
		for i, t := range tasks {
			if err := ctx.Err(); err != nil {
				return examples, err
			}
			if ex, err := g.narrate(ctx, t); err == nil {
				examples = append(examples, ex)
			}
			g.progress(i+1, len(tasks), len(examples))
			if i < len(tasks)-1 {
				pause(ctx, delay)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return examples, err
	}
	fmt.Printf("%s success: %d/%d\n", label, len(examples), len(tasks))
	return examples, nil
}

// narrate performs one narrator call with retries and formats the reply.
func (g *Generator) narrate(ctx context.Context, t task) (puzzle.Example, error) {
	var resp providers.ChatResponse
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		r, callErr := g.client.Complete(ctx, providers.ChatRequest{
			Model:      g.cfg.Model,
			Messages:   []providers.ChatMessage{{Role: "user", Content: t.prompt}},
			Parameters: appconfig.NarratorParams(),
		})
		if callErr != nil {
			return callErr
		}
		resp = r
		return nil
	})
	if err != nil {
		log.Printf("warning: %s: narration failed: %v", t.meta.PuzzleID, err)
		return puzzle.Example{}, err
	}

	reasoning := strings.TrimSpace(resp.Content)
	length := utf8.RuneCountInString(reasoning)
	if length <= g.cfg.MinRunes() {
		log.Printf("warning: %s: narration rejected at %d runes", t.meta.PuzzleID, length)
		return puzzle.Example{}, fmt.Errorf("%s: %w", t.meta.PuzzleID, errRejected)
	}

	answer := t.answer
	if t.splitReply {
		reasoning, answer = SplitPatternReply(reasoning)
	}

	meta := t.meta
	meta.ReasoningLength = length

	return puzzle.Example{
		Messages: []puzzle.ChatMessage{
			{Role: "user", Content: t.user},
			{Role: "assistant", Content: WrapThink(reasoning, answer)},
		},
		Metadata: meta,
	}, nil
}

// progress reports one completion, printing every tenth by default.
func (g *Generator) progress(done, total, accepted int) {
	if g.OnProgress != nil {
		g.OnProgress(done, total, accepted)
		return
	}
	if done%10 == 0 {
		fmt.Printf("  %d/%d (%.1f%%)\n", done, total, float64(done)/float64(total)*100)
	}
}

// pause sleeps for the pacing delay unless the context ends first.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
