package core

import (
	"time"

	"github.com/mlevkov/glucodip/schema"
)

// Food trigger attribution window relative to a crash start. Food eaten less
// than half an hour before a crash has not cleared digestion yet; food eaten
// more than three hours before it is past the reactive window.
const (
	triggerMinLeadMinutes = 30
	triggerMaxLeadMinutes = 180
)

// FindFoodTriggers correlates crashes with the foods eaten in the
// attribution window before each crash start, ranked by how often each food
// shows up. A food logged before several crashes counts once per crash.
func FindFoodTriggers(crashes []schema.CrashEvent, foods []schema.FoodEntry, limit int) []schema.FoodTrigger {
	type aggregate struct {
		count       int
		velocitySum float64
	}
	byFood := make(map[string]*aggregate)
	order := []string{}

	for _, crash := range crashes {
		earliest := crash.StartTime.Add(-triggerMaxLeadMinutes * time.Minute)
		latest := crash.StartTime.Add(-triggerMinLeadMinutes * time.Minute)
		for _, f := range foods {
			if f.Timestamp.Before(earliest) || f.Timestamp.After(latest) {
				continue
			}
			agg, ok := byFood[f.FoodName]
			if !ok {
				agg = &aggregate{}
				byFood[f.FoodName] = agg
				order = append(order, f.FoodName)
			}
			agg.count++
			agg.velocitySum += crash.MaxVelocity
		}
	}

	triggers := make([]schema.FoodTrigger, 0, len(order))
	for _, name := range order {
		agg := byFood[name]
		triggers = append(triggers, schema.FoodTrigger{
			FoodName:    name,
			CrashCount:  agg.count,
			AvgVelocity: agg.velocitySum / float64(agg.count),
		})
	}

	return RankTriggers(triggers, limit)
}
