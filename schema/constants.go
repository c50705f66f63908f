package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ReportFormat represents the rendering format for clinician reports.
	ReportFormat string

	// DatabaseBackend represents the database backend for the store.
	DatabaseBackend string

	// RiskLevel classifies a meal's glucose response for display.
	RiskLevel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All report formats supported.
const (
	TextReport     ReportFormat = "text" // default
	MarkdownReport ReportFormat = "markdown"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All risk levels, from worst to best, plus the two incomplete-data states.
const (
	CrashLevel    RiskLevel = "Crash"
	FastDropLevel RiskLevel = "Fast Drop"
	SpikeLevel    RiskLevel = "High Spike"
	GoodLevel     RiskLevel = "Good"
	PartialLevel  RiskLevel = "Partial"
	AwaitingLevel RiskLevel = "Awaiting Data"
)

// Crash severity labels, keyed off the fastest smoothed velocity in the crash.
const (
	SevereLabel   = "Severe"
	HighLabel     = "High"
	ModerateLabel = "Moderate"
	MildLabel     = "Mild"
)

// DefaultMealGroup is the meal group assigned to food entries whose source
// row carries no category.
const DefaultMealGroup = "Uncategorized"

// Meal response classification cutoffs, matching the conventions used across
// display and reporting.
const (
	FastDropVelocity = -1.5 // smoothed mg/dL/min at or below which a drop counts as fast
	HighSpikeRise    = 50.0 // mg/dL rise above baseline that counts as a high spike
)

// Standard glycemic range bounds in mg/dL for time-in-range statistics.
const (
	RangeLowMgDl  = 70.0
	RangeHighMgDl = 180.0
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidReportFormats lists all valid report formats.
var ValidReportFormats = map[ReportFormat]struct{}{
	TextReport:     {},
	MarkdownReport: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
