// internal/cli/score.go
package syndeo

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/report"
	"github.com/mwiater/syndeo/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Extract and score predicted groups",
	Long: `The 'score' command reads every prediction file in the predictions
directory, extracts the four answer groups from each model's free-text
reply, and grades them with 0.25 partial credit per correct group. It
writes a detailed per-puzzle CSV, a per-model summary CSV, and an
extraction-details JSON for debugging misses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("predictions-dir", "data/predictions", "directory of per-model prediction files")
	scoreCmd.Flags().String("out-dir", "data/reports", "output directory for score reports")
}

func runScore(cmd *cobra.Command) error {
	predDir, _ := cmd.Flags().GetString("predictions-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")

	files, err := filepath.Glob(filepath.Join(predDir, "*.json"))
	if err != nil {
		return err
	}

	results := map[string]*scoring.Evaluation{}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		if name == "run_manifest" {
			continue
		}
		records, err := puzzle.ReadPredictions(file)
		if err != nil {
			log.Printf("warning: skipping %s: %v", file, err)
			continue
		}
		eval := scoring.Evaluate(records, DebugEnabled())
		results[name] = eval
		fmt.Printf("%s: %d puzzles, average %.2f%%\n", name, len(eval.Results), eval.AverageScore()*100)
	}
	if len(results) == 0 {
		return fmt.Errorf("no prediction files found in %s", predDir)
	}

	if err := report.WriteDetailed(filepath.Join(outDir, "detailed_scores.csv"), results); err != nil {
		return err
	}
	if err := report.WriteSummary(filepath.Join(outDir, "summary_scores.csv"), results); err != nil {
		return err
	}
	if err := report.WriteExtractions(filepath.Join(outDir, "extraction_details.json"), results); err != nil {
		return err
	}

	color.Green("scored %d models -> %s", len(results), outDir)
	return nil
}
