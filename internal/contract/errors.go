package contract

import "errors"

// Sentinel errors shared across the analysis pipeline.
var (
	// ErrNoGlucoseData indicates that no glucose readings were available from
	// either export files or the store for the requested window.
	ErrNoGlucoseData = errors.New("no glucose readings found")

	// ErrNoFoodData indicates that no food log entries were available from
	// either export files or the store for the requested window.
	ErrNoFoodData = errors.New("no food log entries found")

	// ErrNoExportFiles indicates that discovery found no matching export
	// files in the data directory.
	ErrNoExportFiles = errors.New("no export files found")

	// ErrNoInputData indicates that both input tables came back empty, so
	// there is nothing to analyze.
	ErrNoInputData = errors.New("no glucose readings or food entries to analyze")

	// ErrStoreDisabled indicates that a command needs the store but the
	// configured backend is none.
	ErrStoreDisabled = errors.New("store backend is disabled")

	// ErrNoGeminiKey indicates that an AI command ran without a Gemini API
	// key configured via flag, GLUCODIP_GEMINI_API_KEY or .env.
	ErrNoGeminiKey = errors.New("no Gemini API key configured")

	// ErrMealNotFound indicates that no meal matched the requested day and
	// group within the analysis window.
	ErrMealNotFound = errors.New("no meal found for the requested day and group")

	// ErrNoCrashesFound indicates that the analysis window contains no
	// detected crash events to work with.
	ErrNoCrashesFound = errors.New("no crash events found in the analysis window")
)
