// internal/cli/mockserver.go
package syndeo

import (
	"fmt"

	"github.com/mwiater/syndeo/internal/mockchat"
	"github.com/spf13/cobra"
)

// mockserverCmd implements 'mockserver', which serves an offline
// OpenAI-compatible endpoint for exercising the pipeline without a
// hosted model.
var mockserverCmd = &cobra.Command{
	Use:   "mockserver",
	Short: "Serve a deterministic OpenAI-compatible mock endpoint",
	Long: `The 'mockserver' command starts a local chat-completions server whose
canned solver echoes any answer block embedded in the prompt. Failure
and latency injection flags exercise the retry paths of the narrate and
predict commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		failRate, _ := cmd.Flags().GetFloat64("fail-rate")
		latency, _ := cmd.Flags().GetDuration("latency")
		seed, _ := cmd.Flags().GetInt64("seed")

		if failRate < 0 || failRate > 1 {
			return fmt.Errorf("--fail-rate must be in [0,1], got %v", failRate)
		}

		server := mockchat.New(mockchat.Options{FailRate: failRate, Latency: latency, Seed: seed})
		return server.Run(fmt.Sprintf(":%d", port))
	},
}

func init() {
	rootCmd.AddCommand(mockserverCmd)

	mockserverCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	mockserverCmd.Flags().Float64("fail-rate", 0, "probability a completion returns 500")
	mockserverCmd.Flags().Duration("latency", 0, "artificial delay per completion (e.g. 250ms)")
	mockserverCmd.Flags().Int64("seed", 0, "failure injection seed (0 = clock)")
}
