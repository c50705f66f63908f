package core

import (
	"context"
	"strings"
	"sync"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/outwriter"
	"github.com/mlevkov/glucodip/schema"
)

// runAnalysisPipeline performs the common Load, Augment and Join steps and
// returns the full bundle that every analysis command renders from.
func runAnalysisPipeline(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.AnalysisBundle, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}

	// --- 1. Input Loading Phase ---
	in, err := loadInputs(cfg, mgr)
	if err != nil {
		return nil, err
	}

	// --- 2. Analysis Phase (with caching) ---
	return cachedAnalysisBundle(cfg, mgr, in)
}

// computeAnalysisBundle runs the pure analysis over already loaded inputs:
// velocity augmentation, crash segmentation, meal grouping and the per-meal
// response metrics.
func computeAnalysisBundle(cfg *contract.Config, in *loadedInputs) *schema.AnalysisBundle {
	augmented := ComputeVelocity(in.Readings, cfg.SmoothingWindow, cfg.DangerThreshold)
	crashes := SegmentCrashes(augmented)

	meals := filterMeals(GroupMeals(in.Foods), cfg)
	events := JoinMealsWithGlucose(meals, augmented, cfg.MealTolerance, cfg.ResponseWindow)
	results := analyzeMealResponses(cfg.Workers, events)

	return &schema.AnalysisBundle{
		Readings: augmented,
		Crashes:  crashes,
		Meals:    results,
		Foods:    in.Foods,
	}
}

// filterMeals applies the --group and --day filters. Group matching is
// case-insensitive; the day filter is an exact YYYY-MM-DD match.
func filterMeals(meals []schema.Meal, cfg *contract.Config) []schema.Meal {
	if cfg.GroupFilter == "" && cfg.Day == "" {
		return meals
	}

	filtered := make([]schema.Meal, 0, len(meals))
	for _, m := range meals {
		if cfg.GroupFilter != "" && !strings.EqualFold(m.Group, cfg.GroupFilter) {
			continue
		}
		if cfg.Day != "" && m.Day != cfg.Day {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// analyzeMealResponses computes response metrics for all meal windows in
// parallel using a worker pool. It spawns up to workers goroutines and
// writes each result at the event's own index, so meal order is preserved
// without a second sort.
func analyzeMealResponses(workers int, events []schema.MealGlucoseEvent) []schema.MealResult {
	results := make([]schema.MealResult, len(events))
	indexCh := make(chan int, len(events))
	var wg sync.WaitGroup

	// Start worker pool
	for range max(1, workers) {
		wg.Go(func() {
			for idx := range indexCh {
				// Note: each goroutine writes to a *unique* index (results[idx]), which is safe.
				event := events[idx]
				metrics, ok := AnalyzeMealResponse(&event)
				results[idx] = schema.MealResult{
					MealGlucoseEvent: event,
					Metrics:          metrics,
					HasMetrics:       ok,
				}
			}
		})
	}

	// Send meal indices to worker channel
	for i := range events {
		indexCh <- i
	}
	close(indexCh)

	// Wait for all workers to finish processing
	wg.Wait()

	return results
}

// rawReadings strips the augmentation for consumers that only need the base
// glucose series, like the overview statistics.
func rawReadings(augmented []schema.AugmentedReading) []schema.GlucoseReading {
	readings := make([]schema.GlucoseReading, len(augmented))
	for i, r := range augmented {
		readings[i] = r.GlucoseReading
	}
	return readings
}
