// internal/cli/predict.go
package syndeo

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/predict"
	"github.com/mwiater/syndeo/internal/tui"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run models over the held-out test set",
	Long: `The 'predict' command sends every held-out puzzle to each requested
model and stores the raw responses, one prediction file per model, plus
a run manifest with latency and token statistics. Scoring runs
separately over the stored files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd)
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("test-file", "data/assembled/global_test.jsonl", "held-out test set (JSONL)")
	predictCmd.Flags().String("out-dir", "data/predictions", "output directory for prediction files")
	predictCmd.Flags().StringP("endpoint", "e", "", "endpoint name from the config")
	predictCmd.Flags().StringSliceP("models", "m", nil, "models to run (default: endpoint's configured models)")
	predictCmd.Flags().Int("concurrency", 0, "parallel requests per model (0 = default)")
	predictCmd.Flags().Int("max-examples", 0, "limit the test set to the first N puzzles (0 = all)")
	predictCmd.Flags().String("profile", "solver", "sampling preset: solver, narrator, or judge")
	predictCmd.Flags().Bool("watch", false, "show live progress in the terminal UI")
	_ = predictCmd.MarkFlagRequired("endpoint")
}

func runPredict(cmd *cobra.Command) error {
	testFile, _ := cmd.Flags().GetString("test-file")
	outDir, _ := cmd.Flags().GetString("out-dir")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	modelList, _ := cmd.Flags().GetStringSlice("models")
	workers, _ := cmd.Flags().GetInt("concurrency")
	maxExamples, _ := cmd.Flags().GetInt("max-examples")
	profile, _ := cmd.Flags().GetString("profile")
	watch, _ := cmd.Flags().GetBool("watch")

	cfg := GetConfig()
	if len(modelList) == 0 {
		ep, err := cfg.EndpointByName(endpoint)
		if err != nil {
			return err
		}
		modelList = ep.Models
	}
	if len(modelList) == 0 {
		return fmt.Errorf("no models to run: endpoint %q configures none and --models is empty", endpoint)
	}

	runner := predict.NewRunner(cfg)
	opts := predict.Options{
		TestFile:    testFile,
		OutDir:      outDir,
		Endpoint:    endpoint,
		Models:      modelList,
		Workers:     workers,
		MaxExamples: maxExamples,
		Profile:     profile,
	}

	if watch {
		return watchRun("predict", func(ctx context.Context, updates chan<- tui.Update) error {
			runner.OnProgress = func(p predict.Progress) {
				updates <- tui.Update{Label: p.Model, Done: p.Done, Total: p.Total, OK: p.OK, Failed: p.Failed, Latency: p.Latency}
			}
			_, err := runner.Run(ctx, opts)
			return err
		})
	}

	manifest, err := runner.Run(context.Background(), opts)
	if err != nil {
		return err
	}
	color.Green("run %s: %d models predicted into %s", manifest.RunID, len(manifest.Models), outDir)
	return nil
}
