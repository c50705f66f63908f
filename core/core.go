// Package core has the analysis engine: velocity derivation, crash
// detection, meal grouping and response metrics, plus the Execute entry
// points that commands call into.
package core

import (
	"context"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/outwriter"
	"github.com/mlevkov/glucodip/schema"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteCrashes runs the crash analysis and prints the ranked events.
// It serves as the main entry point for the 'crashes' command.
func ExecuteCrashes(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, summary, err := GetCrashResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintCrashResults(ranked, summary, cfg, duration)
}

// GetCrashResults runs the pipeline and returns the ranked crash events with
// their summary, without rendering them.
func GetCrashResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.CrashEvent, schema.CrashSummary, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, schema.CrashSummary{}, err
	}
	summary := SummarizeCrashes(bundle.Crashes)
	ranked := RankCrashes(bundle.Crashes, cfg.ResultLimit)
	return ranked, summary, nil
}

// ExecuteMeals runs the meal response analysis and prints per-meal results.
// It serves as the main entry point for the 'meals' command.
func ExecuteMeals(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	ranked, err := GetMealResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintMealResults(ranked, cfg, duration)
}

// GetMealResults runs the pipeline and returns the ranked per-meal response
// results without rendering them.
func GetMealResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.MealResult, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return RankMeals(bundle.Meals, cfg.ResultLimit), nil
}

// ExecuteStats runs the glucose overview and crash summary statistics.
// It serves as the main entry point for the 'stats' command.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	stats, err := GetStatsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintStatsResults(stats, cfg, duration)
}

// GetStatsResults runs the pipeline and returns the overview and crash
// summary without rendering them.
func GetStatsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.StatsBundle, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return schema.StatsBundle{}, err
	}
	return schema.StatsBundle{
		Overview: ComputeGlucoseOverview(rawReadings(bundle.Readings)),
		Crashes:  SummarizeCrashes(bundle.Crashes),
	}, nil
}

// ExecuteTriggers ranks foods eaten in the window before crashes.
// It serves as the main entry point for the 'triggers' command.
func ExecuteTriggers(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	triggers, err := GetTriggerResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintTriggerResults(triggers, cfg, duration)
}

// GetTriggerResults runs the pipeline and returns the ranked food trigger
// candidates without rendering them.
func GetTriggerResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.FoodTrigger, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	return FindFoodTriggers(bundle.Crashes, bundle.Foods, cfg.ResultLimit), nil
}
