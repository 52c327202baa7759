// internal/judge/judge_test.go
package judge

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/puzzle"
)

func TestParseVerdict(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Verdict
	}{
		{"bare win a", "WIN_A", WinA},
		{"bare win b", "win_b", WinB},
		{"tie", "TIE", Tie},
		{"embedded", "After careful review I choose WIN_B.", WinB},
		{"last occurrence wins", "WIN_A is tempting but WIN_B", WinB},
		{"last occurrence wins reversed", "WIN_B? No: WIN_A", WinA},
		{"garbage", "the first answer is better", Tie},
		{"empty", "", Tie},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseVerdict(tc.content); got != tc.want {
				t.Errorf("ParseVerdict(%q) = %s, want %s", tc.content, got, tc.want)
			}
		})
	}
}

func TestWilsonCI(t *testing.T) {
	cases := []struct {
		name     string
		wins, n  int
		lo, hi   float64
	}{
		{"zero trials", 0, 0, 0, 0},
		{"eight of ten", 8, 10, 0.4902, 0.9433},
		{"all wins", 10, 10, 0.7225, 1.0},
		{"no wins", 0, 10, 0.0, 0.2775},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := WilsonCI(tc.wins, tc.n, wilsonZ)
			if math.Abs(lo-tc.lo) > 1e-3 || math.Abs(hi-tc.hi) > 1e-3 {
				t.Errorf("WilsonCI(%d, %d) = (%.4f, %.4f), want (%.4f, %.4f)", tc.wins, tc.n, lo, hi, tc.lo, tc.hi)
			}
		})
	}
}

func TestSummarizeExcludesTies(t *testing.T) {
	votes := []Vote{
		{Pair: "a vs b", PuzzleID: "1", Verdict: WinA},
		{Pair: "a vs b", PuzzleID: "2", Verdict: WinA},
		{Pair: "a vs b", PuzzleID: "3", Verdict: WinB},
		{Pair: "a vs b", PuzzleID: "4", Verdict: Tie},
	}

	rows := Summarize(votes)
	if len(rows) != 1 {
		t.Fatalf("expected one summary row, got %d", len(rows))
	}
	row := rows[0]
	if row.WinsA != 2 || row.WinsB != 1 || row.Ties != 1 || row.N != 4 {
		t.Fatalf("unexpected counts: %+v", row)
	}
	// 2 wins out of 3 non-tie trials.
	if math.Abs(row.WinRateAExclTies-2.0/3.0) > 1e-9 {
		t.Errorf("win rate = %f, want %f", row.WinRateAExclTies, 2.0/3.0)
	}
}

func writeVariant(t *testing.T, dir, name string, ids ...string) {
	t.Helper()
	records := make([]puzzle.PredictionRecord, 0, len(ids))
	for _, id := range ids {
		// Each puzzle gets distinct text so no two comparisons collapse
		// into one cached verdict.
		records = append(records, puzzle.PredictionRecord{
			PuzzleID:    id,
			UserMessage: "Solve Connections puzzle " + id,
			Prediction:  "**GROUP**: " + name + ", b, c, " + id,
			GroundTruth: "**GROUP**: a, b, c, " + id,
		})
	}
	if err := puzzle.WritePredictions(filepath.Join(dir, name+".json"), records); err != nil {
		t.Fatalf("write variant %s: %v", name, err)
	}
}

func TestOfflineRunVotesAllTies(t *testing.T) {
	predDir := t.TempDir()
	outDir := t.TempDir()
	ckptDir := t.TempDir()

	writeVariant(t, predDir, "exp9_left", "1", "2", "3")
	writeVariant(t, predDir, "exp9_right", "2", "3", "4")

	suite := experiments.Suite{
		Name:     "exp9",
		Dir:      "experiment9",
		Variants: []string{"exp9_left", "exp9_right"},
	}

	j, err := New(nil, appconfig.Judge{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !j.Offline() {
		t.Fatal("judge with nil client should be offline")
	}

	rows, err := j.Run(context.Background(), suite, predDir, outDir, ckptDir, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one pair summary, got %d", len(rows))
	}
	// Only ids 2 and 3 are shared, and offline mode always ties.
	if rows[0].Ties != 2 || rows[0].WinsA != 0 || rows[0].WinsB != 0 {
		t.Fatalf("offline votes should all be ties: %+v", rows[0])
	}
}

// scriptedClient returns canned verdicts in call order.
type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Models(_ context.Context) ([]string, error) { return nil, nil }

func (c *scriptedClient) Complete(_ context.Context, _ providers.ChatRequest) (providers.ChatResponse, error) {
	reply := "TIE"
	if c.calls < len(c.replies) {
		reply = c.replies[c.calls]
	}
	c.calls++
	return providers.ChatResponse{Content: reply}, nil
}

func (c *scriptedClient) Close() error { return nil }

func TestRunResumesFromCheckpoint(t *testing.T) {
	predDir := t.TempDir()
	outDir := t.TempDir()
	ckptDir := t.TempDir()

	writeVariant(t, predDir, "exp9_left", "1", "2", "3")
	writeVariant(t, predDir, "exp9_right", "1", "2", "3")

	suite := experiments.Suite{
		Name:     "exp9",
		Dir:      "experiment9",
		Variants: []string{"exp9_left", "exp9_right"},
	}

	// Pre-record a vote for puzzle 1 so only 2 and 3 reach the model.
	ckpt := filepath.Join(ckptDir, "exp9_exp9_left_vs_exp9_right.csv")
	prior := []Vote{{Pair: "exp9_left vs exp9_right", PuzzleID: "1", Verdict: WinB}}
	if err := writeCheckpoint(ckpt, prior); err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	client := &scriptedClient{replies: []string{"WIN_A", "WIN_A"}}
	j, err := New(client, appconfig.Judge{RatePerMinute: 10000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rows, err := j.Run(context.Background(), suite, predDir, outDir, ckptDir, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 judge calls after resume, got %d", client.calls)
	}
	if len(rows) != 1 || rows[0].WinsA != 2 || rows[0].WinsB != 1 {
		t.Fatalf("unexpected summary after resume: %+v", rows)
	}
}

func TestVerdictCacheShortCircuitsRepeats(t *testing.T) {
	client := &scriptedClient{replies: []string{"WIN_A"}}
	j, err := New(client, appconfig.Judge{RatePerMinute: 10000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	first := j.compare(ctx, "q", "answer a", "answer b")
	second := j.compare(ctx, "q", "answer a", "answer b")

	if first != WinA || second != WinA {
		t.Fatalf("verdicts = %s, %s; want WIN_A twice", first, second)
	}
	if client.calls != 1 {
		t.Fatalf("expected a single model call, got %d", client.calls)
	}
}
