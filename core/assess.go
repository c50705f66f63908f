package core

import (
	"context"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/internal/gemini"
	"github.com/mlevkov/glucodip/internal/outwriter"
	"github.com/mlevkov/glucodip/schema"
)

// ExecuteAssessMeal generates or re-serves the AI narrative for one meal,
// identified by the --day and --group filters. Narratives are cached in the
// assessment store under the meal identity; --force regenerates.
func ExecuteAssessMeal(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	if cfg.Day == "" || cfg.GroupFilter == "" {
		return fmt.Errorf("%w: pass --day and --group to pick the meal", contract.ErrMealNotFound)
	}

	meal, err := findMeal(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	key := schema.MealKey(meal.Day, meal.Group)
	store := mgr.GetAssessmentStore()

	if store != nil && !cfg.Force {
		cached, err := store.GetAssessment(key)
		if err != nil {
			return fmt.Errorf("loading cached assessment: %w", err)
		}
		if cached != nil {
			return outwriter.PrintAssessmentResults(*cached, true, cfg, time.Since(start))
		}
	}

	assessor, err := gemini.NewAssessor(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = assessor.Close() }()

	text, err := assessor.AssessMeal(ctx, meal)
	if err != nil {
		return err
	}

	assessment := schema.Assessment{
		MealKey:   key,
		Text:      text,
		Model:     assessor.Model(),
		CreatedAt: time.Now(),
	}
	if store != nil {
		if err := store.PutAssessment(assessment); err != nil {
			contract.LogWarn("caching assessment", err)
		}
	}

	return outwriter.PrintAssessmentResults(assessment, false, cfg, time.Since(start))
}

// ExecuteAssessCrash explains the most severe crash in the analysis window:
// what happened, what was eaten beforehand and what to adjust. Explanations
// are generated fresh each run since the worst crash shifts with the window.
func ExecuteAssessCrash(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if len(bundle.Crashes) == 0 {
		return contract.ErrNoCrashesFound
	}
	worst := RankCrashes(bundle.Crashes, 1)[0]

	assessor, err := gemini.NewAssessor(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = assessor.Close() }()

	text, err := assessor.ExplainCrash(ctx, worst, foodsBefore(bundle.Foods, worst.StartTime))
	if err != nil {
		return err
	}

	assessment := schema.Assessment{
		MealKey:   "crash_" + worst.StartTime.Format(time.RFC3339),
		Text:      text,
		Model:     assessor.Model(),
		CreatedAt: time.Now(),
	}
	return outwriter.PrintAssessmentResults(assessment, false, cfg, time.Since(start))
}

// findMeal runs the pipeline with the configured day and group filters and
// returns the single matching meal result. Grouping guarantees at most one
// meal per (day, group) pair.
func findMeal(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.MealResult, error) {
	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	if len(bundle.Meals) == 0 {
		return nil, fmt.Errorf("%w: day %s, group %s", contract.ErrMealNotFound, cfg.Day, cfg.GroupFilter)
	}
	return &bundle.Meals[0], nil
}

// foodsBefore returns the foods eaten within the attribution window before a
// crash start, in log order.
func foodsBefore(foods []schema.FoodEntry, crashStart time.Time) []schema.FoodEntry {
	earliest := crashStart.Add(-triggerMaxLeadMinutes * time.Minute)
	prior := []schema.FoodEntry{}
	for _, f := range foods {
		if !f.Timestamp.Before(earliest) && !f.Timestamp.After(crashStart) {
			prior = append(prior, f)
		}
	}
	return prior
}
