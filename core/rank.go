package core

import (
	"sort"

	"github.com/mlevkov/glucodip/schema"
)

// RankCrashes sorts crashes by drop magnitude in descending order and
// returns the top 'limit' events. If limit is greater than the number of
// crashes, all crashes are returned in sorted order.
func RankCrashes(crashes []schema.CrashEvent, limit int) []schema.CrashEvent {
	sort.SliceStable(crashes, func(i, j int) bool {
		return crashes[i].DropMagnitude > crashes[j].DropMagnitude
	})
	if len(crashes) > limit {
		return crashes[:limit]
	}
	return crashes
}

// RankMeals sorts meal results newest first and returns the top 'limit'
// results. Recency ranking keeps the most actionable meals on screen.
func RankMeals(meals []schema.MealResult, limit int) []schema.MealResult {
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].MealTime.After(meals[j].MealTime)
	})
	if len(meals) > limit {
		return meals[:limit]
	}
	return meals
}

// RankTriggers sorts food triggers by crash count descending, breaking ties
// with the faster average velocity, and returns the top 'limit' triggers.
func RankTriggers(triggers []schema.FoodTrigger, limit int) []schema.FoodTrigger {
	sort.SliceStable(triggers, func(i, j int) bool {
		if triggers[i].CrashCount != triggers[j].CrashCount {
			return triggers[i].CrashCount > triggers[j].CrashCount
		}
		return triggers[i].AvgVelocity < triggers[j].AvgVelocity
	})
	if len(triggers) > limit {
		return triggers[:limit]
	}
	return triggers
}
