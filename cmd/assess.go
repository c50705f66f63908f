package cmd

import (
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/spf13/cobra"
)

// assessCmd is the parent for AI narrative assessments.
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Generate AI narrative assessments via Gemini",
	Long: `Generate short narrative assessments of meals and crashes with Gemini.

Assessments are grounded in the computed metrics: the model receives the
meal's macros, its glucose response numbers and the attached trace, never
raw speculation. Meal assessments are cached in the store by meal key;
crash explanations are generated fresh each run.

Requires a Gemini API key via --gemini-api-key, GEMINI_API_KEY, or .env.

Subcommands:
  meal  - Assess one meal's glucose response
  crash - Explain the worst crash in the window

Examples:
  # Assess Tuesday's breakfast
  glucodip assess meal --day 2024-01-15 --group Breakfast

  # Explain the worst crash of the last two weeks
  glucodip assess crash --start "14 days ago"`,
}

// assessMealCmd assesses a single meal's response.
var assessMealCmd = &cobra.Command{
	Use:   "meal [data-path]",
	Short: "Assess one meal's glucose response.",
	Long: `Generate a narrative assessment for one meal, selected by --day and --group.

The assessment covers what the response looked like, whether the meal's
composition explains it, and one concrete adjustment to try. Results are
cached under the meal key; --force regenerates.

Examples:
  # Assess a specific meal
  glucodip assess meal --day 2024-01-15 --group Lunch

  # Regenerate after re-importing corrected data
  glucodip assess meal --day 2024-01-15 --group Lunch --force`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAssessMeal(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot assess meal", err)
		}
	},
}

// assessCrashCmd explains the worst crash in the window.
var assessCrashCmd = &cobra.Command{
	Use:   "crash [data-path]",
	Short: "Explain the worst crash in the analysis window.",
	Long: `Generate an explanation of the most severe crash in the window.

The model receives the crash's timing, magnitude and velocity plus the
foods logged in the three hours before it, and explains the likely
mechanism and what to adjust.

Examples:
  # Explain the worst crash in the default window
  glucodip assess crash

  # Focus on a recent stretch
  glucodip assess crash --start "7 days ago"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAssessCrash(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot assess crash", err)
		}
	},
}
