package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// triggersCmd ranks foods eaten before crash events.
var triggersCmd = &cobra.Command{
	Use:   "triggers [data-path]",
	Short: "Rank foods that precede glucose crashes.",
	Long: `Attribute crash events to the foods eaten in the window before them.

For each crash, the foods logged 30 to 180 minutes before the crash start
are counted as candidate triggers. Foods are ranked by how many crashes
they preceded, with the average crash velocity as a severity signal.

Attribution is correlational: a food that always accompanies another true
trigger will rank alongside it. Use the ranking to decide what to test
changing, not as proof of cause.

Examples:
  # Top trigger candidates over the analysis window
  glucodip triggers

  # Narrow attribution to a recent stretch
  glucodip triggers --start "14 days ago"

  # Export the full ranking
  glucodip triggers --limit 50 --output csv --output-file triggers.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTriggers(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run triggers analysis", err)
		}
	},
}
