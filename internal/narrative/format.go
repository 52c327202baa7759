// internal/narrative/format.go
package narrative

import (
	"fmt"
	"strings"

	"github.com/mwiater/syndeo/internal/puzzle"
)

// AnswerBlock renders the canonical answer appended after a full-puzzle
// narrative: one "**{label}**: members" line per group, members in board
// order.
func AnswerBlock(groups []puzzle.Group) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = fmt.Sprintf("**%s**: %s", g.Label, strings.Join(g.Members, ", "))
	}
	return strings.Join(lines, "\n")
}

// WrapThink formats an assistant message as a think block followed by the
// answer. An empty answer yields a bare think block.
func WrapThink(reasoning, answer string) string {
	if answer == "" {
		return "<think>\n" + reasoning + "\n</think>"
	}
	return "<think>\n" + reasoning + "\n</think>\n\n" + answer
}

// SplitPatternReply cuts a warm-up narrative at its last period: the
// reasoning keeps the period, the remainder becomes the answer in upper
// case. A reply without a period is all reasoning.
func SplitPatternReply(content string) (reasoning, answer string) {
	i := strings.LastIndex(content, ".")
	if i < 0 {
		return content, ""
	}
	return content[:i+1], strings.ToUpper(strings.TrimSpace(content[i+1:]))
}
