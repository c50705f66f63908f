package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// crashesCmd performs crash-event analysis over the glucose series.
var crashesCmd = &cobra.Command{
	Use:   "crashes [data-path]",
	Short: "Show glucose crash events ranked by drop magnitude.",
	Long: `Detect rapid glucose drops in the CGM series and rank them by severity.

Computes the per-sample rate of change, smooths it over the configured
window and segments contiguous danger-zone runs into discrete crash events,
helping you:
- Spot episodes of reactive hypoglycemia
- See how fast and how far each crash fell
- Judge whether a threshold change alters detection sensitivity
- Track whether crashes cluster around particular days

With a data path, the exports in that directory are analyzed directly;
without one, readings are loaded from the configured store.

Examples:
  # Rank crashes in the last 90 days from the store
  glucodip crashes

  # Analyze a directory of fresh CSV exports
  glucodip crashes ~/Downloads/cgm

  # Tighten the detector to steeper drops only
  glucodip crashes --danger-threshold 2.5

  # Export findings to CSV for tracking
  glucodip crashes --output csv --output-file crashes.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCrashes(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run crashes analysis", err)
		}
	},
}
