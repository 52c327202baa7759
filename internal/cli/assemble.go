// internal/cli/assemble.go
package syndeo

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/assembler"
	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/spf13/cobra"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble leakage-free experiment datasets",
	Long: `The 'assemble' command combines the formatted narrative datasets into
global test/validation sets and the per-experiment training arms, keying
every split on original puzzle identity so no permutation of a held-out
puzzle can reach a training file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssemble(cmd)
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	assembleCmd.Flags().String("data-dir", "data/formatted", "directory holding the formatted JSONL datasets")
	assembleCmd.Flags().String("out-dir", "data/assembled", "output directory for experiment datasets")
	assembleCmd.Flags().String("experiments", experiments.DefaultPath, "experiment suite plan (YAML)")
}

func runAssemble(cmd *cobra.Command) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	planPath, _ := cmd.Flags().GetString("experiments")

	plan, err := experiments.Load(planPath)
	if err != nil {
		return err
	}

	in := assembler.LoadInputs(dataDir)
	sum, err := assembler.New(outDir, plan).Run(in)
	if err != nil {
		if errors.Is(err, assembler.ErrLeakage) {
			color.Red("FAIL: %v", err)
		}
		return err
	}

	fmt.Println()
	fmt.Printf("test ids: %d nyt, %d synthetic\n", sum.NYTTestIDs, sum.SyntheticTestIDs)
	fmt.Printf("train/val ids: nyt %d/%d, synthetic %d/%d\n",
		sum.NYTTrainIDs, sum.NYTValIDs, sum.SyntheticTrainIDs, sum.SyntheticValIDs)
	fmt.Printf("global test: %d examples, global validation: %d examples\n", sum.GlobalTest, sum.GlobalValidation)
	color.Green("OK: %d experiment arms assembled under %s", len(sum.Arms), outDir)
	return nil
}
