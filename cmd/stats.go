package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd prints aggregate glucose and crash statistics.
var statsCmd = &cobra.Command{
	Use:   "stats [data-path]",
	Short: "Show aggregate glucose statistics and the crash summary.",
	Long: `Summarize the glucose series and all detected crashes for the window.

The glucose overview covers mean, standard deviation, coefficient of
variation, time in the 70-180 mg/dL range and the glucose management
indicator (GMI). The crash summary reduces every detected event to counts,
average drop, worst drop and worst velocity.

Use this to:
- Track overall glycemic control across weeks
- Watch whether crash frequency responds to diet changes
- Get the headline numbers before digging into individual events

Examples:
  # Ninety-day overview from the store
  glucodip stats

  # One week of a fresh export
  glucodip stats ~/Downloads/cgm --start "7 days ago"

  # Machine-readable output for dashboards
  glucodip stats --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run stats analysis", err)
		}
	},
}
