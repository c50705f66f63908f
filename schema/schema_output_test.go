package schema_test

import (
	"testing"

	"github.com/mlevkov/glucodip/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetCrashLabel(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		want     string
	}{
		{"severe at boundary", -3.0, "Severe"},
		{"severe below boundary", -4.2, "Severe"},
		{"high at boundary", -2.5, "High"},
		{"moderate at boundary", -2.0, "Moderate"},
		{"mild just above moderate", -1.9, "Mild"},
		{"mild near zero", -0.5, "Mild"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.GetCrashLabel(tt.velocity),
				"GetCrashLabel(%v) should match expected severity", tt.velocity)
		})
	}
}

// completeResult builds a meal result with full data and the given metrics,
// so classification exercises the metric branches rather than the data states.
func completeResult(m schema.MealResponseMetrics) schema.MealResult {
	return schema.MealResult{
		MealGlucoseEvent: schema.MealGlucoseEvent{
			Meal:         schema.Meal{Day: "2024-01-15", Group: "Lunch"},
			DataComplete: true,
		},
		Metrics:    m,
		HasMetrics: true,
	}
}

func TestClassifyResponse(t *testing.T) {
	noMetrics := schema.MealResult{}
	partial := completeResult(schema.MealResponseMetrics{})
	partial.DataComplete = false

	tests := []struct {
		name   string
		result schema.MealResult
		want   schema.RiskLevel
	}{
		{"no readings yet", noMetrics, schema.AwaitingLevel},
		{"window still open", partial, schema.PartialLevel},
		{"crash wins over spike", completeResult(schema.MealResponseMetrics{
			CrashDetected: true, GlucoseRise: 80.0, MaxDropVelocity: -2.5,
		}), schema.CrashLevel},
		{"fast drop wins over spike", completeResult(schema.MealResponseMetrics{
			MaxDropVelocity: -1.8, GlucoseRise: 60.0,
		}), schema.FastDropLevel},
		{"spike alone", completeResult(schema.MealResponseMetrics{
			MaxDropVelocity: -0.4, GlucoseRise: 55.0,
		}), schema.SpikeLevel},
		{"flat response", completeResult(schema.MealResponseMetrics{
			MaxDropVelocity: -0.2, GlucoseRise: 20.0,
		}), schema.GoodLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.ClassifyResponse(&tt.result))
		})
	}
}

func TestEnrichCrashes(t *testing.T) {
	crashes := []schema.CrashEvent{
		{DropMagnitude: 40.0, MaxVelocity: -3.2},
		{DropMagnitude: 25.0, MaxVelocity: -2.1},
		{DropMagnitude: 12.0, MaxVelocity: -1.4},
	}

	enriched := schema.EnrichCrashes(crashes)

	assert.Len(t, enriched, 3, "All crashes should be enriched")
	for i, e := range enriched {
		assert.Equal(t, i+1, e.Rank, "Rank should be 1-based position")
	}
	assert.Equal(t, "Severe", enriched[0].Label)
	assert.Equal(t, "Moderate", enriched[1].Label)
	assert.Equal(t, "Mild", enriched[2].Label)
}

func TestEnrichMeals(t *testing.T) {
	meals := []schema.MealResult{
		completeResult(schema.MealResponseMetrics{CrashDetected: true}),
		completeResult(schema.MealResponseMetrics{GlucoseRise: 12.0}),
	}

	enriched := schema.EnrichMeals(meals)

	assert.Len(t, enriched, 2, "All meals should be enriched")
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, string(schema.CrashLevel), enriched[0].Label)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, string(schema.GoodLevel), enriched[1].Label)
}
