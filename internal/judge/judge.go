// internal/judge/judge.go
// Package judge runs pairwise LLM-as-judge comparisons between the
// prediction files of two fine-tuned variants on the same puzzles. Votes
// are checkpointed to CSV so an interrupted run resumes where it stopped,
// and per-pair win rates carry Wilson confidence intervals.
package judge

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/ratelimit"
	"github.com/mwiater/syndeo/internal/retry"
)

// Verdict is the judge's vote on one puzzle pair.
type Verdict string

// The three verdict tokens the judge model may emit.
const (
	WinA Verdict = "WIN_A"
	WinB Verdict = "WIN_B"
	Tie  Verdict = "TIE"
)

const systemPrompt = `You are a strict evaluator comparing two model responses (Answer A vs Answer B) to the SAME puzzle.

You must judge BOTH:

1) Final answer correctness and task success.
2) Reasoning quality:
   - Logical, step-by-step thinking
   - Correct intermediate reasoning
   - No hallucinated or false steps
   - Coherence and structure
   - Faithful to the problem information

Weighting:
- Correctness > Reasoning faithfulness > Clarity > Format

If one answer is correct and the other is wrong, prefer the correct one.
If both are correct, choose the one with better reasoning quality.
If both are incorrect, choose the one with more reasonable and grounded reasoning.
If they are equally good/bad, output TIE.

Respond with ONLY ONE token: WIN_A, WIN_B, or TIE.`

// Judge compares variant prediction files pair by pair. A nil client puts
// the judge in offline mode, where every comparison is a TIE; that keeps
// the reporting pipeline runnable without an API key.
type Judge struct {
	client  providers.ChatClient
	cfg     appconfig.Judge
	limiter *ratelimit.Limiter
	policy  retry.Policy
	cache   *lru.Cache[uint64, Verdict]
}

// New builds a judge around a chat client. Pass nil for offline mode.
func New(client providers.ChatClient, cfg appconfig.Judge) (*Judge, error) {
	cache, err := lru.New[uint64, Verdict](cfg.VerdictCacheSize())
	if err != nil {
		return nil, fmt.Errorf("verdict cache: %w", err)
	}
	return &Judge{
		client:  client,
		cfg:     cfg,
		limiter: ratelimit.PerMinute(cfg.Rate()),
		policy:  retry.Fixed(cfg.RetryAttempts(), cfg.Cooldown()),
		cache:   cache,
	}, nil
}

// Offline reports whether the judge will vote without calling a model.
func (j *Judge) Offline() bool {
	return j.client == nil
}

// answer is one variant's output for one puzzle.
type answer struct {
	prediction string
	question   string
}

// loadVariant reads a variant's prediction file into a puzzle-id lookup.
func loadVariant(path string) (map[string]answer, error) {
	records, err := puzzle.ReadPredictions(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]answer, len(records))
	for _, rec := range records {
		out[rec.PuzzleID] = answer{prediction: rec.Prediction, question: rec.UserMessage}
	}
	return out, nil
}

// Run judges every variant pair of the suite. Prediction files live at
// {predDir}/{variant}.json; missing files drop their variant with a log
// line. Checkpoints go to checkpointDir, summaries to outDir/{suite dir}.
func (j *Judge) Run(ctx context.Context, suite experiments.Suite, predDir, outDir, checkpointDir string, maxExamples int) ([]SummaryRow, error) {
	if err := os.MkdirAll(checkpointDir, 0o755); err != nil {
		return nil, err
	}
	suiteDir := filepath.Join(outDir, suite.Name)
	if err := os.MkdirAll(suiteDir, 0o755); err != nil {
		return nil, err
	}

	variants := make(map[string]map[string]answer)
	for _, name := range suite.Variants {
		path := filepath.Join(predDir, name+".json")
		data, err := loadVariant(path)
		if err != nil {
			log.Printf("warning: skipping variant %s: %v", name, err)
			continue
		}
		variants[name] = data
	}

	var summaries []SummaryRow
	for _, pair := range suite.Pairs() {
		a, b := pair[0], pair[1]
		if variants[a] == nil || variants[b] == nil {
			continue
		}
		ckpt := filepath.Join(checkpointDir, fmt.Sprintf("%s_%s_vs_%s.csv", suite.Name, a, b))
		votes, err := j.runPair(ctx, a, b, variants[a], variants[b], ckpt, maxExamples)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, Summarize(votes)...)
	}

	if err := WriteSummary(filepath.Join(suiteDir, "judge_summary.csv"), summaries); err != nil {
		return summaries, err
	}
	return summaries, nil
}

// runPair votes on every puzzle id present in both variants, resuming
// from the checkpoint file when one exists.
func (j *Judge) runPair(ctx context.Context, a, b string, dataA, dataB map[string]answer, ckpt string, maxExamples int) ([]Vote, error) {
	tag := fmt.Sprintf("%s vs %s", a, b)

	votes, seen, err := readCheckpoint(ckpt)
	if err != nil {
		return nil, err
	}

	var ids []string
	for id := range dataA {
		if _, ok := dataB[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if maxExamples > 0 && len(ids) > maxExamples {
		ids = ids[:maxExamples]
	}

	fmt.Printf("\n%s: %d shared puzzles (%d already judged)\n", tag, len(ids), len(seen))

	interval := j.cfg.CheckpointInterval()
	for i, id := range ids {
		if seen[voteKey{pair: tag, id: id}] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return votes, err
		}

		ansA, ansB := dataA[id], dataB[id]
		verdict := j.compare(ctx, ansA.question, ansA.prediction, ansB.prediction)
		votes = append(votes, Vote{Pair: tag, PuzzleID: id, Verdict: verdict})

		fmt.Printf("[%d/%d] %s: %s\n", i+1, len(ids), id, verdict)
		if len(votes)%interval == 0 {
			if err := writeCheckpoint(ckpt, votes); err != nil {
				return votes, err
			}
		}
	}

	if err := writeCheckpoint(ckpt, votes); err != nil {
		return votes, err
	}
	return votes, nil
}

// compare obtains one verdict, consulting the cache first so repeated
// answer pairs never cost a second call.
func (j *Judge) compare(ctx context.Context, question, a, b string) Verdict {
	if j.Offline() {
		return Tie
	}

	key := pairKey(question, a, b)
	if v, ok := j.cache.Get(key); ok {
		return v
	}

	if err := j.limiter.Throttle(ctx); err != nil {
		return Tie
	}

	verdict := Tie
	err := j.policy.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, j.cfg.CallTimeout())
		defer cancel()

		resp, callErr := j.client.Complete(callCtx, providers.ChatRequest{
			Model: j.cfg.Model,
			Messages: []providers.ChatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt(question, a, b)},
			},
			Parameters: appconfig.JudgeParams(),
		})
		if callErr != nil {
			return callErr
		}
		verdict = ParseVerdict(resp.Content)
		return nil
	})
	if err != nil {
		// Exhausted retries count as a tie, matching the degrade-don't-abort
		// contract of every network stage.
		log.Printf("warning: judge call failed, recording TIE: %v", err)
		verdict = Tie
	}

	j.cache.Add(key, verdict)
	return verdict
}

func userPrompt(question, a, b string) string {
	return fmt.Sprintf("Question:\n%s\n\n[Answer A]\n%s\n\n[Answer B]\n%s\n\nOutput only: WIN_A | WIN_B | TIE", question, a, b)
}

// ParseVerdict extracts the verdict token from a judge reply. When the
// reply mentions more than one token the last occurrence wins; anything
// unrecognizable is a TIE.
func ParseVerdict(content string) Verdict {
	text := strings.ToUpper(content)
	ia := strings.LastIndex(text, string(WinA))
	ib := strings.LastIndex(text, string(WinB))
	switch {
	case ia < 0 && ib < 0:
		return Tie
	case ia > ib:
		return WinA
	default:
		return WinB
	}
}

func pairKey(question, a, b string) uint64 {
	h := fnv.New64a()
	for _, s := range []string{question, a, b} {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
