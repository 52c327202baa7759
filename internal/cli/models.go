// internal/cli/models.go
package syndeo

import (
	"context"

	"github.com/mwiater/syndeo/internal/models"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect models on the configured endpoints",
}

// modelsListCmd implements 'models list', which enumerates the models
// each configured endpoint currently serves.
var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the models on each configured endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		models.Print(models.List(context.Background(), GetConfig()))
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
}
