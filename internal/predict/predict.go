// internal/predict/predict.go
// Package predict drives configured models over the held-out test set and
// writes one prediction file per model. Raw model output is stored without
// evaluation; the scoring stage consumes the files read-only.
package predict

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/pool"
	"github.com/mwiater/syndeo/internal/providerfactory"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/retry"
	"github.com/mwiater/syndeo/internal/util"
)

// defaultWorkers bounds in-flight requests per model.
const defaultWorkers = 10

// Progress reports one completed request to an observer.
type Progress struct {
	Model   string
	Done    int
	Total   int
	OK      int
	Failed  int
	Latency time.Duration
}

// Options configure one prediction run.
type Options struct {
	TestFile    string
	OutDir      string
	Endpoint    string
	Models      []string
	Workers     int
	MaxExamples int
	// Profile names the sampling preset; empty means the deterministic
	// solver preset.
	Profile string
}

// Runner executes prediction runs. OnProgress, when set, receives one
// callback per completed request from the coordinating goroutine; the
// default prints plain counters.
type Runner struct {
	cfg        *appconfig.Config
	policy     retry.Policy
	OnProgress func(Progress)
}

// NewRunner builds a runner over the loaded application config.
func NewRunner(cfg *appconfig.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		policy: retry.Exponential(3, time.Second, 8*time.Second),
	}
}

// outcome pairs a prediction record with its call statistics.
type outcome struct {
	rec              puzzle.PredictionRecord
	latency          time.Duration
	promptTokens     int
	completionTokens int
}

// Run predicts with every requested model and writes a run manifest when
// all models finish. Individual request failures are recorded on their
// prediction records; only setup problems abort the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Manifest, error) {
	examples, err := puzzle.ReadExamples(opts.TestFile)
	if err != nil {
		return nil, fmt.Errorf("load test set: %w", err)
	}
	if opts.MaxExamples > 0 && len(examples) > opts.MaxExamples {
		examples = examples[:opts.MaxExamples]
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, err
	}

	client, err := providerfactory.ByName(r.cfg, opts.Endpoint)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	manifest := NewManifest(opts, r.cfg.ConfigPath, len(examples))
	fmt.Printf("loaded %d test examples from %s\n", len(examples), opts.TestFile)

	for _, model := range opts.Models {
		if err := ctx.Err(); err != nil {
			return manifest, err
		}
		stats, err := r.runModel(ctx, client, model, examples, opts)
		if err != nil {
			return manifest, err
		}
		manifest.Models = append(manifest.Models, stats)
	}

	manifest.Finish()
	if err := manifest.Write(filepath.Join(opts.OutDir, "run_manifest.json")); err != nil {
		return manifest, err
	}
	return manifest, nil
}

// runModel collects predictions for one model and writes its file.
func (r *Runner) runModel(ctx context.Context, client providers.ChatClient, model string, examples []puzzle.Example, opts Options) (ModelStats, error) {
	fmt.Printf("\nmodel %s: %d puzzles\n", model, len(examples))

	stats := ModelStats{Model: model, File: util.Slugify(model) + ".json", Total: len(examples)}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	// Workers hand each outcome to a single counting goroutine, so the
	// progress counters never see concurrent writes.
	events := make(chan outcome, workers)
	counted := make(chan struct{})
	done, ok, failed := 0, 0, 0
	go func() {
		defer close(counted)
		for out := range events {
			done++
			if out.rec.Error == "" {
				ok++
				stats.Latency.Observe(float64(out.latency.Milliseconds()))
				stats.PromptTokens += out.promptTokens
				stats.CompletionTokens += out.completionTokens
			} else {
				failed++
			}

			if r.OnProgress != nil {
				r.OnProgress(Progress{Model: model, Done: done, Total: len(examples), OK: ok, Failed: failed, Latency: out.latency})
			} else if done%10 == 0 || done == len(examples) {
				fmt.Printf("[%d/%d] ok=%d failed=%d\n", done, len(examples), ok, failed)
			}
		}
	}()

	results := pool.Map(ctx, workers, examples, func(ctx context.Context, _ int, ex puzzle.Example) (outcome, error) {
		out := r.predictOne(ctx, client, model, opts.Profile, ex)
		events <- out
		return out, nil
	})
	close(events)
	<-counted

	records := make([]puzzle.PredictionRecord, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			// Pool-level errors only happen on context cancellation.
			return stats, res.Err
		}
		records = append(records, res.Value.rec)
	}
	stats.OK, stats.Failed = ok, failed

	path := filepath.Join(opts.OutDir, stats.File)
	if err := puzzle.WritePredictions(path, records); err != nil {
		return stats, err
	}
	fmt.Printf("model %s: wrote %d predictions to %s\n", model, len(records), path)
	return stats, nil
}

// predictOne runs one puzzle through the model, degrading transport
// failure into a record with an error field.
func (r *Runner) predictOne(ctx context.Context, client providers.ChatClient, model, profile string, ex puzzle.Example) outcome {
	userMessage := ex.UserMessage()
	out := outcome{rec: puzzle.PredictionRecord{
		PuzzleID:    ex.Metadata.PuzzleID,
		UserMessage: userMessage,
		GroundTruth: ex.AssistantMessage(),
		Metadata:    ex.Metadata,
	}}
	if userMessage == "" {
		log.Printf("warning: %s: no user message, skipping call", out.rec.PuzzleID)
		out.rec.Error = "no user message in example"
		return out
	}

	var resp providers.ChatResponse
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout())
		defer cancel()

		var callErr error
		resp, callErr = client.Complete(callCtx, providers.ChatRequest{
			Model:      model,
			Messages:   []providers.ChatMessage{{Role: "user", Content: userMessage}},
			Parameters: appconfig.ParamsForProfile(profile),
		})
		return callErr
	})
	if err != nil {
		log.Printf("warning: %s: prediction failed: %v", out.rec.PuzzleID, err)
		out.rec.Error = err.Error()
		return out
	}

	out.rec.Prediction = resp.Content
	out.latency = resp.Duration
	out.promptTokens = resp.PromptTokens
	out.completionTokens = resp.CompletionTokens
	return out
}
