package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// mealsCmd performs per-meal glucose response analysis.
var mealsCmd = &cobra.Command{
	Use:   "meals [data-path]",
	Short: "Show per-meal glucose responses with risk labels.",
	Long: `Group food log entries into meals and analyze each meal's glucose response.

Joins every meal against the CGM series over its response window and
computes rise, peak, drop and crash metrics, helping you:
- See which meals trigger a crash or a fast post-peak drop
- Compare glucose spikes across meal groups
- Check protein/carb balance against observed responses
- Tell incomplete data apart from genuinely good responses

Each meal gets a risk label: Crash, Fast Drop, High Spike, Good, or a
partial-data state when the response window is not fully covered yet.

Examples:
  # Most recent meals with their responses
  glucodip meals

  # One day's meals from a directory of exports
  glucodip meals ~/Downloads/cgm --day 2024-01-15

  # Only breakfasts, as JSON
  glucodip meals --group Breakfast --output json

  # Widen the response window to four hours
  glucodip meals --response-window 240`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMeals(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run meals analysis", err)
		}
	},
}
