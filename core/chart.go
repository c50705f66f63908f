package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mlevkov/glucodip/internal/chart"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// ExecuteChart renders one day's glucose curve with crash spans and meal
// markers to a PNG file. It serves as the main entry point for the 'chart'
// command.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	if cfg.Day == "" {
		return errors.New("--day is required for the chart command")
	}
	dayStart, err := time.Parse(schema.DayLayout, cfg.Day)
	if err != nil {
		return fmt.Errorf("invalid --day value %q: %w", cfg.Day, err)
	}

	bundle, err := runAnalysisPipeline(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	path := cfg.ChartFile
	if path == "" {
		path = fmt.Sprintf("glucose_%s.png", cfg.Day)
	}

	err = chart.WriteDayChart(path, dayStart, dayOf(bundle.Readings, dayStart), bundle.Crashes, bundle.Meals, 0, 0)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote chart for %s to %s in %v.\n", cfg.Day, path, time.Since(start))
	return nil
}

// dayOf keeps the readings that fall on the given day.
func dayOf(readings []schema.AugmentedReading, dayStart time.Time) []schema.AugmentedReading {
	dayEnd := dayStart.AddDate(0, 0, 1)
	day := make([]schema.AugmentedReading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(dayStart) && r.Timestamp.Before(dayEnd) {
			day = append(day, r)
		}
	}
	return day
}
