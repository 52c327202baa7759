// internal/cli/generate.go
package syndeo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/generator"
	"github.com/mwiater/syndeo/internal/lexicon"
	"github.com/mwiater/syndeo/internal/puzzle"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic puzzles and warm-up pattern examples",
}

var generatePuzzlesCmd = &cobra.Command{
	Use:   "puzzles",
	Short: "Generate full 4x4 puzzles from the word bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGeneratePuzzles(cmd)
	},
}

var generatePatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Generate categorical warm-up examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGeneratePatterns(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.AddCommand(generatePuzzlesCmd)
	generateCmd.AddCommand(generatePatternsCmd)

	generatePuzzlesCmd.Flags().Int("count", 500, "number of puzzles to generate")
	generatePuzzlesCmd.Flags().Int("start-id", 10000, "first puzzle id")
	generatePuzzlesCmd.Flags().String("start-date", "2024-01-01", "date of the first puzzle (YYYY-MM-DD)")
	generatePuzzlesCmd.Flags().Int64("seed", 42, "random seed")
	generatePuzzlesCmd.Flags().String("lexicon", "", "word bank JSON file (default: embedded bank)")
	generatePuzzlesCmd.Flags().StringP("out", "o", "data/synthetic_puzzles.json", "output file")

	generatePatternsCmd.Flags().Int64("seed", 42, "random seed")
	generatePatternsCmd.Flags().String("lexicon", "", "word bank JSON file (default: embedded bank)")
	generatePatternsCmd.Flags().String("counts", "", `pattern counts, e.g. "4:1=100,5:2=150" (default: stock mix)`)
	generatePatternsCmd.Flags().StringP("out", "o", "data/pattern_examples.json", "output file")
}

func loadBank(cmd *cobra.Command) (*lexicon.Bank, error) {
	path, _ := cmd.Flags().GetString("lexicon")
	if path != "" {
		return lexicon.LoadFile(path)
	}
	return lexicon.Default()
}

func runGeneratePuzzles(cmd *cobra.Command) error {
	count, _ := cmd.Flags().GetInt("count")
	startID, _ := cmd.Flags().GetInt("start-id")
	seed, _ := cmd.Flags().GetInt64("seed")
	out, _ := cmd.Flags().GetString("out")

	dateStr, _ := cmd.Flags().GetString("start-date")
	startDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid --start-date %q: %w", dateStr, err)
	}

	bank, err := loadBank(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("word bank: %d subgroups, %d words\n", bank.SubgroupCount(), bank.WordCount())

	puzzles := generator.New(bank, seed).GeneratePuzzles(count, startID, startDate)
	if err := puzzle.ValidatePuzzles(puzzles); err != nil {
		return fmt.Errorf("generated puzzles failed validation: %w", err)
	}
	if err := puzzle.SavePuzzles(out, puzzles); err != nil {
		return err
	}

	color.Green("generated %d/%d puzzles -> %s", len(puzzles), count, out)
	return nil
}

func runGeneratePatterns(cmd *cobra.Command) error {
	seed, _ := cmd.Flags().GetInt64("seed")
	out, _ := cmd.Flags().GetString("out")
	countsSpec, _ := cmd.Flags().GetString("counts")

	dist := generator.DefaultDistribution()
	if countsSpec != "" {
		var err error
		if dist, err = parseDistribution(countsSpec); err != nil {
			return err
		}
	}

	bank, err := loadBank(cmd)
	if err != nil {
		return err
	}

	examples := generator.New(bank, seed).GeneratePatterns(dist)
	if err := puzzle.SavePatternExamples(out, examples); err != nil {
		return err
	}

	color.Green("generated %d pattern examples -> %s", len(examples), out)
	return nil
}

// parseDistribution turns "4:1=100,5:2=150" into a pattern distribution.
func parseDistribution(spec string) (generator.Distribution, error) {
	dist := generator.Distribution{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, countStr, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pattern count %q (want NAME=N)", part)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid count in %q", part)
		}
		dist[strings.TrimSpace(name)] = count
	}
	if len(dist) == 0 {
		return nil, fmt.Errorf("no pattern counts in %q", spec)
	}
	return dist, nil
}
