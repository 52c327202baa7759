// internal/cli/root.go
package syndeo

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "syndeo",
	Short: "syndeo — word-connection puzzle dataset and evaluation pipeline",
	Long: `syndeo generates synthetic word-connection puzzles, narrates them into
reasoning training examples, assembles leakage-free experiment datasets,
and evaluates fine-tuned models through scoring, analysis, and pairwise
LLM judging.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load the .env file quietly; API keys may also come from the
		// real environment.
		_ = godotenv.Load()

		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			// Offline subcommands (generate, score, analyze, mockserver)
			// run fine without a config file.
			cfg = appconfig.Config{ConfigPath: cfgFile}
		}

		// Flags override config values; both pflags and viper then
		// reflect the same merged state.
		if cmd.Flags().Changed("debug") {
			cfg.Debug = viper.GetBool("debug")
		}
		if cmd.Flags().Changed("logFile") {
			cfg.LogFile = viper.GetString("logFile")
		}
		viper.Set("debug", cfg.Debug)
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
