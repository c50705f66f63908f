package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mlevkov/glucodip/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays    = 90
	DefaultResultLimit     = 25
	MaxResultLimit         = 1000
	DefaultPrecision       = 1
	DefaultDangerThreshold = 2.0
	DefaultSmoothingWindow = 15
	DefaultResponseWindow  = 180
	DefaultMealTolerance   = 15
	DefaultGeminiModel     = "gemini-2.0-flash"
)

// CacheGranularity defines the time granularity for caching analysis results.
// This ensures consistent cache key generation and time window alignment across
// the application and tests.
const CacheGranularity = time.Hour

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir     string
	GlucoseFile string
	FoodFile    string

	StartTime time.Time
	EndTime   time.Time

	// Analysis windows are in minutes. CGM sensors report on a five minute
	// cadence, so minute integers are the natural unit for every threshold.
	DangerThreshold float64
	SmoothingWindow int
	ResponseWindow  int
	MealTolerance   int

	GroupFilter string
	Day         string

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	ReportFormat schema.ReportFormat
	ChartFile    string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	GeminiModel string
	GeminiKey   string // Never log this value

	Force  bool // Re-run work that a cache or dedupe record would skip
	Notify bool // Desktop notification when an import stores new crashes

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	GlucoseFile     string  `mapstructure:"glucose-file"`
	FoodFile        string  `mapstructure:"food-file"`
	Start           string  `mapstructure:"start"`
	End             string  `mapstructure:"end"`
	DangerThreshold float64 `mapstructure:"danger-threshold"`
	SmoothingWindow int     `mapstructure:"smoothing-window"`
	ResponseWindow  int     `mapstructure:"response-window"`
	Tolerance       int     `mapstructure:"tolerance"`
	Group           string  `mapstructure:"group"`
	Limit           int     `mapstructure:"limit"`
	Workers         int     `mapstructure:"workers"`
	Precision       int     `mapstructure:"precision"`
	Output          string  `mapstructure:"output"`
	OutputFile      string  `mapstructure:"output-file"`
	Width           int     `mapstructure:"width"`
	StoreBackend    string  `mapstructure:"store-backend"`
	StoreDBConnect  string  `mapstructure:"store-db-connect"`
	Emoji           string  `mapstructure:"emoji"`
	Color           string  `mapstructure:"color"`

	// --- Fields from reportCmd.Flags() ---
	ReportFormat string `mapstructure:"report-format"`

	// --- Fields from chartCmd.Flags() ---
	ChartFile string `mapstructure:"chart-file"`
	Day       string `mapstructure:"day"`

	// --- Fields from assessCmd.Flags() ---
	GeminiModel string `mapstructure:"gemini-model"`
	GeminiKey   string `mapstructure:"gemini-api-key"`

	// --- Fields from importCmd.Flags() ---
	Force  bool `mapstructure:"force"`
	Notify bool `mapstructure:"notify"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// GetAnalysisStartTime returns the configured start time, truncated to the caching granularity.
// This ensures consistent time window alignment across the application and tests.
func (c *Config) GetAnalysisStartTime() time.Time {
	return c.StartTime.Truncate(CacheGranularity)
}

// GetAnalysisEndTime returns the configured end time, truncated to the caching granularity.
// This ensures consistent time window alignment across the application and tests.
func (c *Config) GetAnalysisEndTime() time.Time {
	return c.EndTime.Truncate(CacheGranularity)
}

// ProcessProfilingConfig processes profiling configuration from the profile prefix.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisWindows(cfg, input); err != nil {
		return err
	}
	if err := resolveDataPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.GroupFilter = strings.TrimSpace(input.Group)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ChartFile = input.ChartFile

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 4. Report Format Validation ---
	format := input.ReportFormat
	if format == "" {
		format = string(schema.TextReport)
	}
	cfg.ReportFormat = schema.ReportFormat(strings.ToLower(format))
	if _, ok := schema.ValidReportFormats[cfg.ReportFormat]; !ok {
		return fmt.Errorf("invalid report format '%s'. must be text, markdown", input.ReportFormat)
	}

	// --- 5. Backend Validation ---
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}

	// --- 6. Day Filter Validation ---
	cfg.Day = strings.TrimSpace(input.Day)
	if cfg.Day != "" {
		if _, err := time.Parse(schema.DayLayout, cfg.Day); err != nil {
			return fmt.Errorf("invalid --day value '%s'. Expected YYYY-MM-DD: %w", input.Day, err)
		}
	}

	// --- 7. Gemini Settings ---
	cfg.GeminiModel = input.GeminiModel
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}
	cfg.GeminiKey = input.GeminiKey
	if cfg.GeminiKey == "" {
		cfg.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}

	// --- 8. Import Flags ---
	cfg.Force = input.Force
	cfg.Notify = input.Notify

	return nil
}

// processTimeRange handles the complex date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	now := time.Now()
	cfg.EndTime = now
	cfg.StartTime = cfg.EndTime.Add(-DefaultLookbackDays * 24 * time.Hour)

	parseAbsolute := func(s string) (time.Time, error) {
		return time.Parse(DateTimeFormat, s)
	}

	// --- Process Start Time ---
	if input.Start != "" {
		t, err := parseAbsolute(input.Start)
		if err == nil {
			cfg.StartTime = t
		} else {
			t, relErr := ParseRelativeTime(input.Start, now)
			if relErr != nil {
				return fmt.Errorf("invalid start date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.Start, err)
			}
			cfg.StartTime = t
		}
	}

	// --- Process End Time ---
	if input.End != "" {
		t, err := parseAbsolute(input.End)
		if err == nil {
			cfg.EndTime = t
		} else {
			t, relErr := ParseRelativeTime(input.End, now)
			if relErr != nil {
				return fmt.Errorf("invalid end date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.End, err)
			}
			cfg.EndTime = t
		}
	}

	// --- Final Validation ---
	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	return nil
}

// processAnalysisWindows validates the thresholds that drive crash detection
// and meal response analysis.
func processAnalysisWindows(cfg *Config, input *ConfigRawInput) error {
	if input.DangerThreshold <= 0 {
		return fmt.Errorf("danger-threshold must be greater than 0 mg/dL per minute (received %.2f)", input.DangerThreshold)
	}
	cfg.DangerThreshold = input.DangerThreshold

	if input.SmoothingWindow <= 0 {
		return fmt.Errorf("smoothing-window must be greater than 0 minutes (received %d)", input.SmoothingWindow)
	}
	cfg.SmoothingWindow = input.SmoothingWindow

	if input.ResponseWindow <= 0 {
		return fmt.Errorf("response-window must be greater than 0 minutes (received %d)", input.ResponseWindow)
	}
	cfg.ResponseWindow = input.ResponseWindow

	if input.Tolerance < 0 {
		return fmt.Errorf("tolerance cannot be negative (received %d)", input.Tolerance)
	}
	cfg.MealTolerance = input.Tolerance

	return nil
}

// resolveDataPaths resolves the data directory and any explicit export files.
// An empty data directory means the analysis loads from the store instead of
// export files. Explicit file flags take precedence over directory discovery.
func resolveDataPaths(cfg *Config, input *ConfigRawInput) error {
	if input.DataDirStr != "" {
		absSearchPath, err := filepath.Abs(input.DataDirStr)
		if err != nil {
			return err
		}
		info, err := os.Stat(absSearchPath)
		if err != nil {
			return fmt.Errorf("data directory not found: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path %s is not a directory", absSearchPath)
		}
		cfg.DataDir = filepath.Clean(absSearchPath)
	}

	if input.GlucoseFile != "" {
		if _, err := os.Stat(input.GlucoseFile); err != nil {
			return fmt.Errorf("glucose file not found: %w", err)
		}
		cfg.GlucoseFile = input.GlucoseFile
	}
	if input.FoodFile != "" {
		if _, err := os.Stat(input.FoodFile); err != nil {
			return fmt.Errorf("food file not found: %w", err)
		}
		cfg.FoodFile = input.FoodFile
	}

	return nil
}
