package commands

import (
	"github.com/spf13/cobra"

	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roitrack",
	Short: "Trading-account ROI tracker",
	Long: `roitrack samples a trading account's equity/balance and reports
return-on-investment over rolling periods (day, week, month, all) to
Telegram.

Usage:
  go run ./cmd/roitrack [command]

Examples:
  go run ./cmd/roitrack report
  go run ./cmd/roitrack baselines
  go run ./cmd/roitrack scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig builds the configuration and logger shared by every command.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
