package schema

// EnrichedCrashEvent adds presentation data to a CrashEvent.
type EnrichedCrashEvent struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	CrashEvent
}

// EnrichedMealResult adds presentation data to a MealResult.
type EnrichedMealResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	MealResult
}

// GetCrashLabel returns a plain text severity label for a crash based on its
// fastest smoothed velocity (more negative is worse).
func GetCrashLabel(maxVelocity float64) string {
	switch {
	case maxVelocity <= -3.0:
		return SevereLabel
	case maxVelocity <= -2.5:
		return HighLabel
	case maxVelocity <= -2.0:
		return ModerateLabel
	default:
		return MildLabel
	}
}

// ClassifyResponse assigns a risk level to a meal result. A detected crash
// outranks a fast drop, which outranks a large spike; incomplete data states
// take precedence over all of them since the metrics are not yet trustworthy.
func ClassifyResponse(r *MealResult) RiskLevel {
	switch {
	case !r.HasMetrics:
		return AwaitingLevel
	case !r.DataComplete:
		return PartialLevel
	case r.Metrics.CrashDetected:
		return CrashLevel
	case r.Metrics.MaxDropVelocity <= FastDropVelocity:
		return FastDropLevel
	case r.Metrics.GlucoseRise > HighSpikeRise:
		return SpikeLevel
	default:
		return GoodLevel
	}
}

// EnrichCrashes adds rank and label to a list of crash events.
func EnrichCrashes(crashes []CrashEvent) []EnrichedCrashEvent {
	output := make([]EnrichedCrashEvent, len(crashes))
	for i, c := range crashes {
		output[i] = EnrichedCrashEvent{
			Rank:       i + 1,
			Label:      GetCrashLabel(c.MaxVelocity),
			CrashEvent: c,
		}
	}
	return output
}

// EnrichMeals adds rank and label to a list of meal results.
func EnrichMeals(meals []MealResult) []EnrichedMealResult {
	output := make([]EnrichedMealResult, len(meals))
	for i, m := range meals {
		output[i] = EnrichedMealResult{
			Rank:       i + 1,
			Label:      string(ClassifyResponse(&m)),
			MealResult: m,
		}
	}
	return output
}
