package core

import (
	"context"
	"sort"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/outwriter"
	"github.com/mlevkov/glucodip/schema"
)

// Clinician report caps, matching the printed layout: five leading triggers
// and fifteen crash rows keep the report on one page.
const (
	reportTriggerLimit = 5
	reportCrashLimit   = 15
)

// ExecuteReport assembles and renders the clinician report.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	report, err := GetReportResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintReportResults(report, cfg, duration)
}

// GetReportResults runs the full pipeline and assembles the clinician
// report without rendering it.
func GetReportResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.DoctorReport, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return schema.DoctorReport{}, err
	}
	return buildDoctorReport(cfg, bundle), nil
}

// buildDoctorReport reduces one analysis bundle to the report's sections.
// The crash table uses chronological order; severity is visible in the
// magnitude column rather than the sort.
func buildDoctorReport(cfg *contract.Config, bundle *schema.AnalysisBundle) schema.DoctorReport {
	crashes := bundle.Crashes
	sort.SliceStable(crashes, func(i, j int) bool {
		return crashes[i].StartTime.Before(crashes[j].StartTime)
	})
	if len(crashes) > reportCrashLimit {
		crashes = crashes[:reportCrashLimit]
	}

	return schema.DoctorReport{
		PeriodStart: cfg.StartTime,
		PeriodEnd:   cfg.EndTime,
		GeneratedAt: time.Now(),
		Stats: schema.StatsBundle{
			Overview: ComputeGlucoseOverview(rawReadings(bundle.Readings)),
			Crashes:  SummarizeCrashes(bundle.Crashes),
		},
		TopTriggers: FindFoodTriggers(bundle.Crashes, bundle.Foods, reportTriggerLimit),
		TopCrashes:  crashes,
		MealDigest:  schema.SummarizeMealResponses(bundle.Meals),
	}
}
