// internal/judge/wilson.go
package judge

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

// wilsonZ is the critical value for a 95% interval.
const wilsonZ = 1.96

// WilsonCI returns the Wilson score interval for wins successes out of n
// trials. n of zero yields (0, 0).
func WilsonCI(wins, n int, z float64) (lo, hi float64) {
	if n == 0 {
		return 0, 0
	}
	p := float64(wins) / float64(n)
	fn := float64(n)
	denom := 1 + z*z/fn
	centre := p + z*z/(2*fn)
	margin := z * math.Sqrt((p*(1-p)+z*z/(4*fn))/fn)
	return (centre - margin) / denom, (centre + margin) / denom
}

// SummaryRow aggregates one pair's votes. Win rate and the interval
// exclude ties from the trial count.
type SummaryRow struct {
	Pair              string
	WinsA             int
	WinsB             int
	Ties              int
	N                 int
	WinRateAExclTies  float64
	CILow             float64
	CIHigh            float64
}

// Summarize rolls votes up per pair, in pair-name order.
func Summarize(votes []Vote) []SummaryRow {
	byPair := make(map[string][]Vote)
	for _, v := range votes {
		byPair[v.Pair] = append(byPair[v.Pair], v)
	}

	pairs := make([]string, 0, len(byPair))
	for pair := range byPair {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	rows := make([]SummaryRow, 0, len(pairs))
	for _, pair := range pairs {
		row := SummaryRow{Pair: pair}
		for _, v := range byPair[pair] {
			switch v.Verdict {
			case WinA:
				row.WinsA++
			case WinB:
				row.WinsB++
			default:
				row.Ties++
			}
		}
		row.N = row.WinsA + row.WinsB + row.Ties

		trials := row.N - row.Ties
		if trials < 1 {
			trials = 1
		}
		row.WinRateAExclTies = float64(row.WinsA) / float64(trials)
		row.CILow, row.CIHigh = WilsonCI(row.WinsA, trials, wilsonZ)
		rows = append(rows, row)
	}
	return rows
}

var summaryHeader = []string{"pair", "wins_A", "wins_B", "ties", "n", "win_rate_A_excl_ties", "ci_low", "ci_high"}

// WriteSummary writes the per-pair summary CSV.
func WriteSummary(path string, rows []SummaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write summary %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Pair,
			strconv.Itoa(r.WinsA),
			strconv.Itoa(r.WinsB),
			strconv.Itoa(r.Ties),
			strconv.Itoa(r.N),
			strconv.FormatFloat(r.WinRateAExclTies, 'f', 4, 64),
			strconv.FormatFloat(r.CILow, 'f', 4, 64),
			strconv.FormatFloat(r.CIHigh, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
