// Package cmd defines the command-line interface for glucodip.
package cmd

import (
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(crashesCmd)
	rootCmd.AddCommand(mealsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(triggersCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the assess subcommands to the parent assess command
	assessCmd.AddCommand(assessMealCmd)
	assessCmd.AddCommand(assessCrashCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("glucose-file", "", "Explicit path to a CGM export CSV (overrides discovery)")
	rootCmd.PersistentFlags().String("food-file", "", "Explicit path to a food log export CSV (overrides discovery)")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago")
	rootCmd.PersistentFlags().Float64("danger-threshold", contract.DefaultDangerThreshold, "Smoothed drop velocity magnitude (mg/dL per minute) that marks a danger zone")
	rootCmd.PersistentFlags().Int("smoothing-window", contract.DefaultSmoothingWindow, "Velocity smoothing window in minutes")
	rootCmd.PersistentFlags().Int("response-window", contract.DefaultResponseWindow, "Post-meal response window in minutes")
	rootCmd.PersistentFlags().Int("tolerance", contract.DefaultMealTolerance, "Minutes of glucose data attached before each meal time")
	rootCmd.PersistentFlags().StringP("group", "g", "", "Filter meals by meal group (e.g. Breakfast)")
	rootCmd.PersistentFlags().String("day", "", "Filter meals to one day (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("force", false, "Re-run work that a cache or dedupe record would otherwise skip")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("report-format", string(schema.TextReport), "Report format: text or markdown")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of chartCmd to Viper
	chartCmd.Flags().String("chart-file", "", "Path for the rendered PNG (default glucose_<day>.png)")
	if err := viper.BindPFlags(chartCmd.Flags()); err != nil {
		contract.LogFatal("Error binding chart flags", err)
	}

	// Bind all flags of importCmd to Viper
	importCmd.Flags().Bool("notify", false, "Desktop notification when new crash events are stored")
	if err := viper.BindPFlags(importCmd.Flags()); err != nil {
		contract.LogFatal("Error binding import flags", err)
	}

	// Bind all flags of assessCmd to Viper
	assessCmd.PersistentFlags().String("gemini-model", contract.DefaultGeminiModel, "Gemini model for narrative assessments")
	assessCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key (prefer GEMINI_API_KEY in the environment or .env)")
	if err := viper.BindPFlags(assessCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding assess flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
