package cmd

import (
	"fmt"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/datastore"
	"github.com/mlevkov/glucodip/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")
	output := viper.GetString("output")
	if output == "" {
		output = string(schema.ParquetOut)
	}

	// Initialize the stores with the loaded config
	if err := datastore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = outputFile
	cfg.Output = schema.OutputMode(output)

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on store management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids export file
// discovery and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persistent glucose and meal store",
	Long: `Manage the persistent store that holds imported data and cached results.

The store keeps:
- Raw glucose readings and food log entries from imports
- Detected crash events
- Cached AI meal assessments
- Import history for file deduplication
- Memoized analysis results

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics per table
  clear   - Remove all stored data
  export  - Export stored tables for analytics
  migrate - Run database schema migrations

Examples:
  # Check store status
  glucodip store status

  # Export for analysis in pandas/DuckDB
  glucodip store export --output-file glucodip-data`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the persistent store.

Displays:
- Backend type and connection status
- Row counts for every table
- Newest stored glucose reading timestamp
- Last import timestamp

Use this to:
- Verify persistence is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check store status
  glucodip store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := datastore.Manager.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		datastore.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored data",
	Long: `Delete all persisted data from the configured backend.

This removes:
- All imported glucose readings and food entries
- Detected crash events and import history
- Cached AI assessments and analysis results

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables

Examples:
  # Export before clearing
  glucodip store export --output-file backup
  glucodip store clear

  # Clear a MySQL store (set connection string via env variable)
  GLUCODIP_STORE_BACKEND=mysql GLUCODIP_STORE_DB_CONNECT="..." glucodip store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := datastore.ClearStore(cfg.StoreBackend, datastore.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeExportCmd exports stored tables to files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored tables for BI tools and analytics",
	Long: `Export the stored glucose, food and crash tables to files.

Exports three datasets, one file per table, named after --output-file:
- Glucose readings
- Food log entries
- Crash events

The file format follows --output (csv, json); anything else exports
Parquet, which enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data as Parquet
  glucodip store export --output-file glucodip-data

  # Use with DuckDB for analysis
  glucodip store export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.glucose_readings.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := datastore.ExecuteStoreExport(cfg, datastore.Manager); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the persistent store.

Migrations allow:
- Upgrading to new schema versions when Glucodip is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed
- Testing new features on specific schema versions

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  glucodip store migrate

  # Migrate to specific version
  glucodip store migrate --target-version 3

  # Rollback everything
  glucodip store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := datastore.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
