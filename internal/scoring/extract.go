// internal/scoring/extract.go
package scoring

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// finalSectionRunes bounds how far back from the end of a reply the
// predicted-group scan looks.
const finalSectionRunes = 1000

var (
	referencePattern = regexp.MustCompile(`\*\*[^*]+\*\*:\s*([^,\n]+),\s*([^,\n]+),\s*([^,\n]+),\s*([^,\n]+)`)
	edgePunct        = regexp.MustCompile(`^[^\p{L}\p{N}_'-]+|[^\p{L}\p{N}_'-]+$`)
	boxedOpen        = regexp.MustCompile(`\\boxed\{`)
	dollarRuns       = regexp.MustCompile(`\$+`)
	latexCommand     = regexp.MustCompile(`\\[a-zA-Z]+`)
	unclosedParen    = regexp.MustCompile(`\([^)]*$`)
	closedParen      = regexp.MustCompile(`\([^)]*\)`)
)

// FinalAnswer returns the answer portion of a model reply. Some models
// emit only the closing tag, so everything after the last </think>
// counts; an opening tag that never closes means the reply ran out
// mid-thought and carries no answer.
func FinalAnswer(text string) string {
	if text == "" {
		return ""
	}
	if i := strings.LastIndex(text, "</think>"); i >= 0 {
		return strings.TrimSpace(text[i+len("</think>"):])
	}
	if strings.Contains(text, "<think>") {
		return ""
	}
	return strings.TrimSpace(text)
}

// ReferenceGroups pulls the answer groups out of a ground-truth reply.
// The primary form is "**CATEGORY**: A, B, C, D"; when fewer than four
// bold lines parse, any colon line with four comma-separated words
// backfills.
func ReferenceGroups(text string) [][]string {
	final := FinalAnswer(text)
	if final == "" {
		return nil
	}

	var groups [][]string
	for _, m := range referencePattern.FindAllStringSubmatch(final, -1) {
		group := make([]string, 0, 4)
		for _, w := range m[1:] {
			if w = strings.TrimSpace(w); w != "" {
				group = append(group, w)
			}
		}
		if len(group) == 4 {
			groups = append(groups, group)
		}
	}

	if len(groups) < 4 {
		for _, line := range strings.Split(final, "\n") {
			i := strings.Index(line, ":")
			if i < 0 {
				continue
			}
			var words []string
			for _, w := range strings.Split(line[i+1:], ",") {
				if cleaned := edgePunct.ReplaceAllString(strings.TrimSpace(w), ""); cleaned != "" {
					words = append(words, cleaned)
				}
			}
			if len(words) == 4 && !containsGroup(groups, words) {
				groups = append(groups, words)
			}
		}
	}

	if len(groups) > 4 {
		groups = groups[:4]
	}
	return groups
}

// PredictedGroups extracts candidate four-word groups from a model
// reply, scanning only the tail of its final answer. Markdown emphasis,
// table pipes, LaTeX wrappers, and parenthetical asides are stripped
// before words are uppercased. Stops at four distinct groups.
func PredictedGroups(text string) [][]string {
	final := FinalAnswer(text)
	if final == "" {
		return nil
	}
	if runes := []rune(final); len(runes) > finalSectionRunes {
		final = string(runes[len(runes)-finalSectionRunes:])
	}

	var groups [][]string
	for _, line := range strings.Split(final, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, part := range strings.Split(line, "|") {
			cleaned := strings.ReplaceAll(part, "**", "")
			cleaned = strings.ReplaceAll(cleaned, "*", "")
			cleaned = boxedOpen.ReplaceAllString(cleaned, "")
			cleaned = dollarRuns.ReplaceAllString(cleaned, "")
			cleaned = latexCommand.ReplaceAllString(cleaned, "")
			cleaned = strings.ReplaceAll(cleaned, "}", "")
			cleaned = strings.ReplaceAll(cleaned, "{", "")

			wordsPart := cleaned
			if i := strings.Index(cleaned, ":"); i >= 0 {
				wordsPart = cleaned[i+1:]
			}

			var words []string
			for _, w := range strings.Split(wordsPart, ",") {
				w = strings.TrimSpace(w)
				w = unclosedParen.ReplaceAllString(w, "")
				w = closedParen.ReplaceAllString(w, "")
				w = edgePunct.ReplaceAllString(w, "")
				if strings.Contains(w, " ") && len(strings.Fields(w)) > 3 {
					continue
				}
				if utf8.RuneCountInString(w) > 1 {
					words = append(words, strings.ToUpper(w))
				}
			}
			if len(words) == 4 && !containsGroup(groups, words) {
				groups = append(groups, words)
				if len(groups) == 4 {
					break
				}
			}
		}
		if len(groups) == 4 {
			break
		}
	}
	return groups
}

func containsGroup(groups [][]string, group []string) bool {
	key := groupKey(group)
	for _, g := range groups {
		if groupKey(g) == key {
			return true
		}
	}
	return false
}

// groupKey canonicalizes a group for set comparison: case-folded,
// deduplicated, order-independent.
func groupKey(group []string) string {
	seen := make(map[string]bool, len(group))
	words := make([]string, 0, len(group))
	for _, w := range group {
		n := strings.ToLower(strings.TrimSpace(w))
		if !seen[n] {
			seen[n] = true
			words = append(words, n)
		}
	}
	sort.Strings(words)
	return strings.Join(words, "\n")
}
