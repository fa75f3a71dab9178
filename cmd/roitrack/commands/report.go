package commands

import (
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run one report cycle",
	Long: `Fetches the current account snapshot, rolls period baselines as
needed, computes per-period ROI and delivers the report.

This is the one-shot mode intended for external cron:
  0 * * * *  roitrack report

Example:
  go run ./cmd/roitrack report
  go run ./cmd/roitrack report -v`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	runner, _, cleanup, err := buildRunner(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}

	return runner.Run(ctx)
}
