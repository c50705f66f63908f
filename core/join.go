package core

import (
	"math"
	"sort"
	"time"

	"github.com/mlevkov/glucodip/schema"
)

// JoinMealsWithGlucose attaches to each meal the glucose readings that fall
// inside its response window, from toleranceMinutes before the meal to
// responseWindowMinutes after it. Readings must already be sorted ascending;
// window bounds are found by binary search. Every meal produces an event
// even when no readings matched.
func JoinMealsWithGlucose(meals []schema.Meal, readings []schema.AugmentedReading, toleranceMinutes, responseWindowMinutes int) []schema.MealGlucoseEvent {
	var datasetLatest time.Time
	if len(readings) > 0 {
		datasetLatest = readings[len(readings)-1].Timestamp
	}

	events := make([]schema.MealGlucoseEvent, 0, len(meals))
	for _, meal := range meals {
		events = append(events, joinOneMeal(meal, readings, datasetLatest, toleranceMinutes, responseWindowMinutes))
	}
	return events
}

func joinOneMeal(meal schema.Meal, readings []schema.AugmentedReading, datasetLatest time.Time, toleranceMinutes, responseWindowMinutes int) schema.MealGlucoseEvent {
	windowStart := meal.MealTime.Add(-time.Duration(toleranceMinutes) * time.Minute)
	horizon := meal.MealTime.Add(time.Duration(responseWindowMinutes) * time.Minute)

	lo := sort.Search(len(readings), func(i int) bool {
		return !readings[i].Timestamp.Before(windowStart)
	})
	hi := sort.Search(len(readings), func(i int) bool {
		return readings[i].Timestamp.After(horizon)
	})

	event := schema.MealGlucoseEvent{Meal: meal}
	for _, r := range readings[lo:hi] {
		minutes := r.Timestamp.Sub(meal.MealTime).Minutes()
		event.Readings = append(event.Readings, schema.WindowReading{
			AugmentedReading: r,
			MinutesFromMeal:  math.Round(minutes*10) / 10,
		})
	}

	if n := len(event.Readings); n > 0 {
		baseline := event.Readings[0].GlucoseMgDl
		peak, low := baseline, baseline
		for _, r := range event.Readings[1:] {
			if r.GlucoseMgDl > peak {
				peak = r.GlucoseMgDl
			}
			if r.GlucoseMgDl < low {
				low = r.GlucoseMgDl
			}
		}
		event.BaselineGlucose = &baseline
		event.PeakGlucose = &peak
		event.MinGlucose = &low
		event.DataCoverageMinutes = event.Readings[n-1].Timestamp.Sub(meal.MealTime).Minutes()
	}

	// Completeness is judged against the newest reading in the whole dataset,
	// not just this meal's matches. A window with a gap in the middle but
	// data beyond its horizon is complete; a sensor that has not synced past
	// the horizon yet is pending. With no glucose data at all there is no
	// reference point, so the countdown stays unknown.
	if !datasetLatest.IsZero() {
		event.DataComplete = !datasetLatest.Before(horizon)
		remaining := math.Max(0, horizon.Sub(datasetLatest).Minutes())
		event.MinutesUntilComplete = &remaining
	}

	return event
}
