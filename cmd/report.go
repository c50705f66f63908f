package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd renders the clinician report.
var reportCmd = &cobra.Command{
	Use:   "report [data-path]",
	Short: "Render a clinician report for the analysis window.",
	Long: `Assemble a report suitable for sharing with a clinician.

Sections:
- Report period and generation time
- Executive summary from the glucose overview and crash summary
- Top five food trigger candidates
- Chronological crash table (first fifteen events)
- Meal response digest by risk level
- Pattern notes and a data disclaimer

The report renders as plain text by default; markdown suits pasting into
notes or issue trackers.

Examples:
  # Text report for the default window
  glucodip report

  # Markdown report for one month, written to a file
  glucodip report --start "1 month ago" --report-format markdown --output-file report.md`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
