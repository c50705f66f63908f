package schema

import "time"

// AnalysisBundle is the full output of one analysis pass over a pair of
// input tables. It is what commands render from and what the result cache
// memoizes, so every field must survive a JSON round trip.
type AnalysisBundle struct {
	Readings []AugmentedReading `json:"readings"`
	Crashes  []CrashEvent       `json:"crashes"`
	Meals    []MealResult       `json:"meals"`
	Foods    []FoodEntry        `json:"foods"`
}

// LatestReadingTime returns the timestamp of the newest reading in the
// bundle, or the zero time when the glucose table is empty. Readings are
// sorted ascending by construction.
func (b *AnalysisBundle) LatestReadingTime() time.Time {
	if len(b.Readings) == 0 {
		return time.Time{}
	}
	return b.Readings[len(b.Readings)-1].Timestamp
}
