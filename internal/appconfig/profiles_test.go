// internal/appconfig/profiles_test.go
package appconfig

import "testing"

func TestParamsForProfile(t *testing.T) {
	narrator := ParamsForProfile("narrator")
	if narrator.Temperature == nil || *narrator.Temperature != 0.7 {
		t.Fatalf("narrator temperature wrong: %+v", narrator)
	}
	if narrator.TopP == nil || *narrator.TopP != 0.95 {
		t.Fatalf("narrator top_p wrong: %+v", narrator)
	}

	judge := ParamsForProfile(" Judge ")
	if judge.Temperature == nil || *judge.Temperature != 0.0 {
		t.Fatalf("judge temperature wrong: %+v", judge)
	}
	if judge.MaxTokens == nil || *judge.MaxTokens != 8 {
		t.Fatalf("judge max_tokens wrong: %+v", judge)
	}

	// Empty and unknown names fall back to the deterministic solver preset.
	for _, name := range []string{"", "solver", "something-else"} {
		p := ParamsForProfile(name)
		if p.Temperature == nil || *p.Temperature != 0.0 {
			t.Fatalf("profile %q should resolve to solver params: %+v", name, p)
		}
	}
}

func TestParametersMerge(t *testing.T) {
	base := Parameters{Temperature: floatPtr(0.2), MaxTokens: intPtr(256)}
	override := Parameters{Temperature: floatPtr(0.9), TopP: floatPtr(0.5)}

	merged := base.Merge(override)
	if *merged.Temperature != 0.9 {
		t.Fatalf("override temperature should win, got %v", *merged.Temperature)
	}
	if *merged.TopP != 0.5 {
		t.Fatalf("override top_p should win, got %v", *merged.TopP)
	}
	if *merged.MaxTokens != 256 {
		t.Fatalf("base max_tokens should survive, got %v", *merged.MaxTokens)
	}

	if kept := base.Merge(Parameters{}); *kept.Temperature != 0.2 || *kept.MaxTokens != 256 {
		t.Fatalf("empty override should keep base values: %+v", kept)
	}
}
