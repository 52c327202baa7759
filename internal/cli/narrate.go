// internal/cli/narrate.go
package syndeo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/assembler"
	"github.com/mwiater/syndeo/internal/narrative"
	"github.com/mwiater/syndeo/internal/providerfactory"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/mwiater/syndeo/internal/tui"
	"github.com/spf13/cobra"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Narrate puzzles into chain-of-thought training examples",
	Long: `The 'narrate' command sends solved puzzles to the configured narrator
model and wraps accepted discovery narratives into think-tagged training
examples. Styles: structured (taxonomy-guided, with train/test split and
permutations), unstructured (free narrative, no split), and patterns
(categorical warm-up examples).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNarrate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(narrateCmd)

	narrateCmd.Flags().String("style", "structured", "narration style: structured, unstructured, or patterns")
	narrateCmd.Flags().String("source", "synthetic", "puzzle provenance for output naming: nyt or synthetic")
	narrateCmd.Flags().StringP("in", "i", "", "input puzzles or pattern examples (JSON)")
	narrateCmd.Flags().String("out-dir", "data/formatted", "directory for the generated JSONL files")
	narrateCmd.Flags().String("endpoint", "", "endpoint name (default: generation.endpoint from config)")
	narrateCmd.Flags().StringP("model", "m", "", "narrator model (default: generation.model from config)")
	narrateCmd.Flags().Int("permutations", 0, "shuffled copies per training puzzle (0 = config value)")
	narrateCmd.Flags().Int("concurrency", 0, "parallel narration workers (0 = config value)")
	narrateCmd.Flags().Bool("sequential", false, "force one paced request at a time")
	narrateCmd.Flags().Bool("watch", false, "show live progress in the terminal UI")
	_ = narrateCmd.MarkFlagRequired("in")
}

func runNarrate(cmd *cobra.Command) error {
	style, _ := cmd.Flags().GetString("style")
	source, _ := cmd.Flags().GetString("source")
	in, _ := cmd.Flags().GetString("in")
	outDir, _ := cmd.Flags().GetString("out-dir")
	watch, _ := cmd.Flags().GetBool("watch")

	if source != "nyt" && source != "synthetic" {
		return fmt.Errorf("unknown --source %q (want nyt or synthetic)", source)
	}

	cfg := GetConfig()
	genCfg := cfg.Generation
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		genCfg.Endpoint = endpoint
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		genCfg.Model = model
	}
	if perms, _ := cmd.Flags().GetInt("permutations"); perms > 0 {
		genCfg.Permutations = perms
	}
	if workers, _ := cmd.Flags().GetInt("concurrency"); workers > 0 {
		genCfg.Concurrency = workers
	}
	if sequential, _ := cmd.Flags().GetBool("sequential"); sequential {
		genCfg.Concurrency = 1
	}
	if genCfg.Endpoint == "" {
		return fmt.Errorf("no narrator endpoint: set generation.endpoint in the config or pass --endpoint")
	}
	if genCfg.Model == "" {
		return fmt.Errorf("no narrator model: set generation.model in the config or pass --model")
	}

	client, err := providerfactory.ByName(cfg, genCfg.Endpoint)
	if err != nil {
		return err
	}
	defer client.Close()

	gen := narrative.New(client, genCfg)

	run := func(ctx context.Context) error {
		return narrateStyle(ctx, gen, style, source, in, outDir)
	}
	if watch {
		return watchRun("narrate "+style, func(ctx context.Context, updates chan<- tui.Update) error {
			gen.OnProgress = func(done, total, accepted int) {
				updates <- tui.Update{Label: genCfg.Model, Done: done, Total: total, OK: accepted, Failed: done - accepted}
			}
			return run(ctx)
		})
	}
	return run(context.Background())
}

// narrateStyle dispatches one narration style and writes its output files.
func narrateStyle(ctx context.Context, gen *narrative.Generator, style, source, in, outDir string) error {
	switch style {
	case "structured":
		puzzles, err := puzzle.LoadPuzzles(in)
		if err != nil {
			return err
		}
		train, test, err := gen.Structured(ctx, puzzles)
		if err != nil {
			return err
		}
		trainFile, testFile := assembler.FileStructuredNYTTrain, assembler.FileStructuredNYTTest
		if source == "synthetic" {
			trainFile, testFile = assembler.FileStructuredSynTrain, assembler.FileStructuredSynTest
		}
		return writeSplit(outDir, trainFile, train, testFile, test)

	case "unstructured":
		puzzles, err := puzzle.LoadPuzzles(in)
		if err != nil {
			return err
		}
		examples, err := gen.Unstructured(ctx, puzzles)
		if err != nil {
			return err
		}
		name := assembler.FileUnstructuredNYT
		if source == "synthetic" {
			name = assembler.FileUnstructuredSyn
		}
		path := filepath.Join(outDir, name)
		if err := puzzle.WriteExamples(path, examples); err != nil {
			return err
		}
		color.Green("wrote %d examples -> %s", len(examples), path)
		return nil

	case "patterns":
		patterns, err := puzzle.LoadPatternExamples(in)
		if err != nil {
			return err
		}
		train, test, err := gen.Patterns(ctx, patterns)
		if err != nil {
			return err
		}
		return writeSplit(outDir, assembler.FilePreconnTrain, train, assembler.FilePreconnTest, test)

	default:
		return fmt.Errorf("unknown --style %q (want structured, unstructured, or patterns)", style)
	}
}

func writeSplit(outDir, trainFile string, train []puzzle.Example, testFile string, test []puzzle.Example) error {
	trainPath := filepath.Join(outDir, trainFile)
	if err := puzzle.WriteExamples(trainPath, train); err != nil {
		return err
	}
	testPath := filepath.Join(outDir, testFile)
	if err := puzzle.WriteExamples(testPath, test); err != nil {
		return err
	}
	color.Green("wrote %d train examples -> %s", len(train), trainPath)
	color.Green("wrote %d test examples -> %s", len(test), testPath)
	return nil
}
