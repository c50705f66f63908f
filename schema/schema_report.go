package schema

import "time"

// ReportRiskOrder is the display order for risk labels in meal digests,
// worst first.
var ReportRiskOrder = []RiskLevel{
	CrashLevel,
	FastDropLevel,
	SpikeLevel,
	GoodLevel,
	PartialLevel,
	AwaitingLevel,
}

// MealDigest reduces meal responses to per-label counts for reporting.
type MealDigest struct {
	TotalMeals  int               `json:"total_meals"`
	LabelCounts map[RiskLevel]int `json:"label_counts"`
}

// DoctorReport is the assembled clinician report: one period's statistics,
// the leading food triggers, the most severe crashes and a digest of meal
// responses. Rendering (text or markdown) happens downstream.
type DoctorReport struct {
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	GeneratedAt time.Time     `json:"generated_at"`
	Stats       StatsBundle   `json:"stats"`
	TopTriggers []FoodTrigger `json:"top_triggers"`
	TopCrashes  []CrashEvent  `json:"top_crashes"`
	MealDigest  MealDigest    `json:"meal_digest"`
}

// SummarizeMealResponses counts meal results per risk label.
func SummarizeMealResponses(meals []MealResult) MealDigest {
	digest := MealDigest{
		TotalMeals:  len(meals),
		LabelCounts: make(map[RiskLevel]int),
	}
	for i := range meals {
		digest.LabelCounts[ClassifyResponse(&meals[i])]++
	}
	return digest
}
