package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		fmt.Fprintln(out, "No configuration loaded.")
		return
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics:         %v\n", cfg.Metrics)
	fmt.Fprintf(out, "  Data Dir:        %s\n", cfg.DataDirPath())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())

	fmt.Fprintln(out, "\nGeneration:")
	fmt.Fprintf(out, "  Endpoint:        %s\n", cfg.Generation.Endpoint)
	fmt.Fprintf(out, "  Model:           %s\n", cfg.Generation.Model)
	fmt.Fprintf(out, "  Workers:         %d\n", cfg.Generation.Workers())
	fmt.Fprintf(out, "  Delay:           %s\n", cfg.Generation.DelayDuration())
	fmt.Fprintf(out, "  Min Reasoning:   %d runes\n", cfg.Generation.MinRunes())
	fmt.Fprintf(out, "  Permutations:    %d\n", cfg.Generation.TrainPermutations())

	fmt.Fprintln(out, "\nJudge:")
	fmt.Fprintf(out, "  Endpoint:        %s\n", cfg.Judge.Endpoint)
	fmt.Fprintf(out, "  Model:           %s\n", cfg.Judge.Model)
	fmt.Fprintf(out, "  Rate:            %d/min\n", cfg.Judge.Rate())
	fmt.Fprintf(out, "  Retries:         %d\n", cfg.Judge.RetryAttempts())
	fmt.Fprintf(out, "  Call Timeout:    %s\n", cfg.Judge.CallTimeout())
	fmt.Fprintf(out, "  Checkpoint:      every %d verdicts\n", cfg.Judge.CheckpointInterval())

	fmt.Fprintf(out, "\nEndpoints (%d):\n", len(cfg.Endpoints))
	for _, e := range cfg.Endpoints {
		key := "none"
		if strings.TrimSpace(e.APIKeyEnv) != "" {
			key = "$" + e.APIKeyEnv
		}
		fmt.Fprintf(out, "  %-16s %-8s %s (key: %s, models: %d)\n", e.Name, e.Type, e.URL, key, len(e.Models))
	}
}
