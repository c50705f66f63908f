package core

import (
	"sort"

	"github.com/mlevkov/glucodip/schema"
)

// GroupMeals aggregates food entries into one Meal per (day, group) pair.
// Entries missing a group fall into the default group, and entries missing a
// day take the date of their timestamp. Macro fields are plain sums, food
// names keep chronological order, and the output is sorted by meal time
// ascending.
func GroupMeals(entries []schema.FoodEntry) []schema.Meal {
	sorted := make([]schema.FoodEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	grouped := make(map[string]*schema.Meal)
	order := []string{}
	for _, e := range sorted {
		day := e.Day
		if day == "" {
			day = schema.DayOf(e.Timestamp)
		}
		group := e.Group
		if group == "" {
			group = schema.DefaultMealGroup
		}
		key := schema.MealKey(day, group)

		meal, ok := grouped[key]
		if !ok {
			// First entry chronologically, so its timestamp is the meal time.
			meal = &schema.Meal{Day: day, Group: group, MealTime: e.Timestamp}
			grouped[key] = meal
			order = append(order, key)
		}
		meal.Foods = append(meal.Foods, e.FoodName)
		meal.FoodsWithTimes = append(meal.FoodsWithTimes, schema.FoodAtTime{
			Name:      e.FoodName,
			Timestamp: e.Timestamp,
		})
		meal.FoodCount++
		meal.Calories += e.Calories
		meal.ProteinG += e.ProteinG
		meal.CarbsG += e.CarbsG
		meal.FatG += e.FatG
		meal.FiberG += e.FiberG
		meal.SugarG += e.SugarG
	}

	meals := make([]schema.Meal, 0, len(order))
	for _, key := range order {
		meals = append(meals, *grouped[key])
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].MealTime.Before(meals[j].MealTime)
	})
	return meals
}
