// internal/appconfig/profiles.go
package appconfig

import "strings"

// ProfileName identifies a parameter preset for one pipeline stage.
type ProfileName string

const (
	// ProfileNarrator favors varied, long-form discovery narratives.
	ProfileNarrator ProfileName = "narrator"
	// ProfileSolver is the deterministic preset for test-set inference.
	ProfileSolver ProfileName = "solver"
	// ProfileJudge pins the pairwise judge to a single short verdict token.
	ProfileJudge ProfileName = "judge"
)

// ParamsForProfile selects a parameter preset by name. Empty and unknown
// names fall back to the solver preset.
func ParamsForProfile(name string) Parameters {
	switch ProfileName(strings.ToLower(strings.TrimSpace(string(name)))) {
	case ProfileNarrator:
		return NarratorParams()
	case ProfileJudge:
		return JudgeParams()
	default:
		return SolverParams()
	}
}

// NarratorParams leaves room for stylistic variation across permutations
// of the same board.
func NarratorParams() Parameters {
	return Parameters{
		Temperature: floatPtr(0.7),
		TopP:        floatPtr(0.95),
	}
}

// SolverParams keeps inference runs reproducible across models.
func SolverParams() Parameters {
	return Parameters{
		Temperature: floatPtr(0.0),
	}
}

// JudgeParams forces a terse verdict: temperature zero and just enough
// tokens for WIN_A, WIN_B, or TIE.
func JudgeParams() Parameters {
	return Parameters{
		Temperature: floatPtr(0.0),
		MaxTokens:   intPtr(8),
	}
}

// Merge overlays the endpoint's configured parameters on a preset; set
// fields in override win.
func (p Parameters) Merge(override Parameters) Parameters {
	out := p
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.TopP != nil {
		out.TopP = override.TopP
	}
	if override.MaxTokens != nil {
		out.MaxTokens = override.MaxTokens
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
