package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// importCmd ingests CSV exports into the store.
var importCmd = &cobra.Command{
	Use:   "import [data-path]",
	Short: "Ingest CGM and food log exports into the store.",
	Long: `Parse export files and persist readings, food entries and detected crashes.

Discovery picks the newest glucose export (file name containing "glucose")
and the newest food export (file name containing "servings") in the data
directory; --glucose-file and --food-file override discovery. Each file is
recorded by name and modification time so re-running the import skips
files the store has already seen. Use --force to re-import.

Crash detection runs on the freshly parsed readings and only events not
already stored are added, so overlapping exports do not duplicate crashes.

Examples:
  # Import the newest exports from a downloads folder
  glucodip import ~/Downloads

  # Re-import a corrected export
  glucodip import --glucose-file fixed_glucose.csv --force

  # Import and raise a desktop notification when new crashes appear
  glucodip import ~/Downloads --notify`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteImport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run import", err)
		}
	},
}
