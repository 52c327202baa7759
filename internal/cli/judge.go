// internal/cli/judge.go
package syndeo

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/experiments"
	"github.com/mwiater/syndeo/internal/judge"
	"github.com/mwiater/syndeo/internal/providerfactory"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/spf13/cobra"
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Judge prediction variants pairwise with an LLM",
	Long: `The 'judge' command compares experiment variants pair by pair: for each
shared puzzle a judge model picks WIN_A, WIN_B, or TIE, and the votes
roll up into win rates with Wilson confidence intervals. Without an API
key for the judge endpoint the command runs offline and every vote is a
TIE, which keeps the reporting pipeline runnable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJudge(cmd)
	},
}

func init() {
	rootCmd.AddCommand(judgeCmd)

	judgeCmd.Flags().String("experiment", "all", "suite to judge (exp1, exp2, exp3, or all)")
	judgeCmd.Flags().String("predictions-dir", "data/predictions", "directory of per-variant prediction files")
	judgeCmd.Flags().String("out-dir", "data/reports", "output directory for judge summaries")
	judgeCmd.Flags().String("checkpoint-dir", "data/judge_checkpoints", "directory for resumable vote checkpoints")
	judgeCmd.Flags().String("experiments", experiments.DefaultPath, "experiment suite plan (YAML)")
	judgeCmd.Flags().Int("max-examples", 0, "limit each pair to the first N shared puzzles (0 = all)")
}

func runJudge(cmd *cobra.Command) error {
	suiteName, _ := cmd.Flags().GetString("experiment")
	predDir, _ := cmd.Flags().GetString("predictions-dir")
	outDir, _ := cmd.Flags().GetString("out-dir")
	ckptDir, _ := cmd.Flags().GetString("checkpoint-dir")
	planPath, _ := cmd.Flags().GetString("experiments")
	maxExamples, _ := cmd.Flags().GetInt("max-examples")

	cfg := GetConfig()
	plan, err := experiments.Load(planPath)
	if err != nil {
		return err
	}

	suites := plan.Suites
	if suiteName != "all" {
		suite, ok := plan.Suite(suiteName)
		if !ok {
			return fmt.Errorf("no experiment named %q in %s", suiteName, planPath)
		}
		suites = []experiments.Suite{suite}
	}

	client := judgeClient(cfg)
	if client != nil {
		defer client.Close()
	}

	j, err := judge.New(client, cfg.Judge)
	if err != nil {
		return err
	}
	if j.Offline() {
		color.Yellow("no judge endpoint or API key configured: running offline, all votes are TIE")
	}

	var all []judge.SummaryRow
	for _, suite := range suites {
		fmt.Printf("\njudging %s (%d pairs)...\n", suite.Name, len(suite.Pairs()))
		rows, err := j.Run(context.Background(), suite, predDir, outDir, ckptDir, maxExamples)
		if err != nil {
			return err
		}
		all = append(all, rows...)
	}

	if err := judge.WriteSummary(filepath.Join(outDir, "all_judge_summary.csv"), all); err != nil {
		return err
	}
	color.Green("judged %d pairs -> %s", len(all), outDir)
	return nil
}

// judgeClient builds the judge's chat client, or nil for offline mode.
func judgeClient(cfg *appconfig.Config) providers.ChatClient {
	if cfg.Judge.Endpoint == "" {
		return nil
	}
	endpoint, err := cfg.EndpointByName(cfg.Judge.Endpoint)
	if err != nil {
		log.Printf("warning: %v", err)
		return nil
	}
	if endpoint.APIKeyEnv != "" && endpoint.APIKey() == "" {
		log.Printf("warning: endpoint %q has no %s in the environment", endpoint.Name, endpoint.APIKeyEnv)
		return nil
	}
	client, err := providerfactory.NewChatClient(cfg, endpoint)
	if err != nil {
		log.Printf("warning: judge client: %v", err)
		return nil
	}
	return client
}
