// internal/cli/analyze.go
package syndeo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/categories"
	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/mwiater/syndeo/internal/metrics"
	"github.com/mwiater/syndeo/internal/providerfactory"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/report"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze predictions and puzzle taxonomy",
}

var analyzeReasoningCmd = &cobra.Command{
	Use:   "reasoning",
	Short: "Compute token-overlap and reasoning-presence metrics per variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeReasoning(cmd)
	},
}

var analyzeCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Build a linguistic taxonomy of puzzle answer groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyzeCategories(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeReasoningCmd)
	analyzeCmd.AddCommand(analyzeCategoriesCmd)

	analyzeReasoningCmd.Flags().String("predictions-dir", "data/predictions", "directory of per-variant prediction files")
	analyzeReasoningCmd.Flags().String("out-dir", "data/reports", "output directory for metric summaries")
	analyzeReasoningCmd.Flags().String("experiments", experiments.DefaultPath, "experiment suite plan (YAML)")

	analyzeCategoriesCmd.Flags().String("puzzles", "", "puzzle JSON file to analyze")
	analyzeCategoriesCmd.Flags().StringP("model", "m", "", "analyst model")
	analyzeCategoriesCmd.Flags().StringP("endpoint", "e", "", "endpoint name from the config")
	analyzeCategoriesCmd.Flags().String("out-dir", "data/reports/categories", "output directory for taxonomy files")
	analyzeCategoriesCmd.Flags().Int("batch-size", 0, "puzzles per analysis batch (0 = default)")
	_ = analyzeCategoriesCmd.MarkFlagRequired("puzzles")
	_ = analyzeCategoriesCmd.MarkFlagRequired("model")
	_ = analyzeCategoriesCmd.MarkFlagRequired("endpoint")
}

func runAnalyzeReasoning(cmd *cobra.Command) error {
	predDir, _ := cmd.Flags().GetString("predictions-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	planPath, _ := cmd.Flags().GetString("experiments")

	plan, err := experiments.Load(planPath)
	if err != nil {
		return err
	}

	var coreRows []report.CoreRow
	var reasoningRows []report.ReasoningRow
	for _, suite := range plan.Suites {
		for _, variant := range suite.Variants {
			path := filepath.Join(predDir, variant+".json")
			records, err := puzzle.ReadPredictions(path)
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					log.Printf("warning: skipping %s: %v", path, err)
				}
				continue
			}
			core := metrics.EvaluateCore(records)
			reasoning := metrics.EvaluateReasoning(records)
			coreRows = append(coreRows, report.CoreRow{Experiment: suite.Name, Variant: variant, Core: core})
			reasoningRows = append(reasoningRows, report.ReasoningRow{Experiment: suite.Name, Variant: variant, Reasoning: reasoning})
			fmt.Printf("%s/%s: F1 %.4f over %d records, reasoning coverage %.1f%%\n",
				suite.Name, variant, core.MacroF1, core.N, reasoning.Coverage*100)
		}
	}
	if len(coreRows) == 0 {
		return fmt.Errorf("no variant prediction files found in %s", predDir)
	}

	if err := report.WriteCoreSummaries(outDir, coreRows); err != nil {
		return err
	}
	if err := report.WriteReasoningSummaries(outDir, reasoningRows); err != nil {
		return err
	}
	color.Green("analyzed %d variants -> %s", len(coreRows), outDir)
	return nil
}

func runAnalyzeCategories(cmd *cobra.Command) error {
	puzzlesFile, _ := cmd.Flags().GetString("puzzles")
	model, _ := cmd.Flags().GetString("model")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	outDir, _ := cmd.Flags().GetString("out-dir")
	batchSize, _ := cmd.Flags().GetInt("batch-size")

	puzzles, err := puzzle.LoadPuzzles(puzzlesFile)
	if err != nil {
		return err
	}

	client, err := providerfactory.ByName(GetConfig(), endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	analyzer := categories.New(client, model, outDir)
	if batchSize > 0 {
		analyzer.BatchSize = batchSize
	}

	taxonomy, err := analyzer.Run(context.Background(), puzzles)
	if err != nil {
		return err
	}
	color.Green("taxonomy of %d types -> %s", len(taxonomy), filepath.Join(outDir, "category_analysis_final.json"))
	return nil
}
