// internal/metrics/reasoning.go
package metrics

import (
	"regexp"
	"strings"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// CoreResult carries macro-averaged token-overlap metrics for one prediction set.
type CoreResult struct {
	Precision float64
	Recall    float64
	MacroF1   float64
	N         int
}

// ReasoningResult summarizes chain-of-thought presence across one prediction set.
type ReasoningResult struct {
	Examples     int
	Coverage     float64
	AvgStepCount float64
}

var (
	thinkBlockRe = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkOpenRe  = regexp.MustCompile(`(?is)<think>(.*?)</think>`)
	thinkCloseRe = regexp.MustCompile(`(?i)</think>`)
	nonTokenRe   = regexp.MustCompile(`[^\w\s]`)
	stepRe       = regexp.MustCompile(`(?im)\bstep\s*\d+\b|^\s*-\s|^\s*\d+\.\s|\btherefore\b|\bthus\b|\bbecause\b`)
)

// stripThink removes closed reasoning blocks and keeps only text after the
// last close tag, so token overlap is measured on final answers.
func stripThink(text string) string {
	text = thinkBlockRe.ReplaceAllString(text, "")
	parts := thinkCloseRe.Split(text, -1)
	return strings.TrimSpace(parts[len(parts)-1])
}

// tokens lowercases, drops punctuation, and splits on whitespace.
func tokens(s string) map[string]bool {
	s = strings.ToLower(s)
	s = nonTokenRe.ReplaceAllString(s, "")
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// TokenOverlap computes precision, recall, and F1 of prediction tokens against
// reference tokens.
func TokenOverlap(prediction, reference string) (precision, recall, f1 float64) {
	ps := tokens(prediction)
	rs := tokens(reference)

	tp := 0
	for tok := range ps {
		if rs[tok] {
			tp++
		}
	}
	fp := len(ps) - tp
	fn := len(rs) - tp

	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// EvaluateCore macro-averages token overlap between predictions and ground
// truths. Reasoning blocks are stripped from both sides first. Records that
// failed at prediction time contribute zeros.
func EvaluateCore(records []puzzle.PredictionRecord) CoreResult {
	result := CoreResult{N: len(records)}
	if len(records) == 0 {
		return result
	}

	var precSum, recSum, f1Sum float64
	for _, rec := range records {
		p, r, f := TokenOverlap(stripThink(rec.Prediction), stripThink(rec.GroundTruth))
		precSum += p
		recSum += r
		f1Sum += f
	}
	n := float64(len(records))
	result.Precision = precSum / n
	result.Recall = recSum / n
	result.MacroF1 = f1Sum / n
	return result
}

// EvaluateReasoning measures how many predictions carry visible reasoning and
// how many steps that reasoning takes. A reasoning block counts as explicit
// reasoning with one step per line; otherwise step markers in the prediction
// text are counted.
func EvaluateReasoning(records []puzzle.PredictionRecord) ReasoningResult {
	result := ReasoningResult{Examples: len(records)}

	present := 0
	stepSum := 0
	for _, rec := range records {
		if think := thinkContent(rec.Prediction); think != "" {
			present++
			steps := len(strings.Split(strings.TrimSpace(think), "\n"))
			if steps < 1 {
				steps = 1
			}
			stepSum += steps
			continue
		}
		if matches := stepRe.FindAllStringIndex(rec.Prediction, -1); len(matches) > 0 {
			present++
			stepSum += len(matches)
		}
	}

	total := len(records)
	if total < 1 {
		total = 1
	}
	result.Coverage = float64(present) / float64(total)
	if present > 0 {
		result.AvgStepCount = float64(stepSum) / float64(present)
	}
	return result
}

// thinkContent returns the text inside the first closed reasoning block.
func thinkContent(text string) string {
	m := thinkOpenRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
