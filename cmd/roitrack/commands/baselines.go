package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/roi"
)

// baselinesCmd represents the baselines command
var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Show stored period baselines",
	Long: `Prints the persisted baseline for each tracked period: the anchor
timestamp and the equity/balance the next report will measure against.

Example:
  go run ./cmd/roitrack baselines`,
	RunE: showBaselines,
}

func init() {
	rootCmd.AddCommand(baselinesCmd)
}

func showBaselines(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, cleanup, err := buildStore(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}

	state, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if len(state) == 0 {
		fmt.Println("No baselines stored yet; run `roitrack report` first.")
		return nil
	}

	for _, k := range period.Keys {
		rec, ok := state[k]
		if !ok {
			fmt.Printf("%-6s (none)\n", k.Label()+":")
			continue
		}
		fmt.Printf("%-6s anchored %s  equity $%s  balance $%s\n",
			k.Label()+":",
			rec.AnchoredAt.Format(time.RFC3339),
			roi.FormatMoney(rec.Equity),
			roi.FormatMoney(rec.Balance),
		)
	}

	return nil
}
