package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd renders a one-day glucose chart to PNG.
var chartCmd = &cobra.Command{
	Use:   "chart [data-path]",
	Short: "Render one day's glucose curve as a PNG.",
	Long: `Draw a static chart of one day's glucose readings.

The chart shows the glucose line over the day with the 70-180 mg/dL target
band shaded, crash spans highlighted and meal times marked. Requires --day.

Examples:
  # Chart a day from the store
  glucodip chart --day 2024-01-15

  # Chart from a directory of exports, custom output path
  glucodip chart ~/Downloads/cgm --day 2024-01-15 --chart-file tuesday.png`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot render chart", err)
		}
	},
}
