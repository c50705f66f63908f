package core

import (
	"math"

	"github.com/mlevkov/glucodip/schema"
)

// SummarizeCrashes reduces crash events to headline statistics. An empty
// input yields the zero value; zero is the defined convention for "no data".
func SummarizeCrashes(crashes []schema.CrashEvent) schema.CrashSummary {
	summary := schema.CrashSummary{TotalCrashes: len(crashes)}
	if len(crashes) == 0 {
		return summary
	}

	worst := crashes[0].MaxVelocity
	for _, c := range crashes {
		summary.AvgDropMagnitude += c.DropMagnitude
		summary.AvgDurationMinutes += c.DurationMinutes
		summary.AvgVelocity += c.AverageVelocity
		if c.DropMagnitude > summary.MaxDropMagnitude {
			summary.MaxDropMagnitude = c.DropMagnitude
		}
		if c.MaxVelocity < worst {
			worst = c.MaxVelocity
		}
	}

	n := float64(len(crashes))
	summary.AvgDropMagnitude /= n
	summary.AvgDurationMinutes /= n
	summary.AvgVelocity /= n
	summary.WorstVelocity = worst
	return summary
}

// ComputeGlucoseOverview derives distribution statistics for a reading
// series: mean, spread, time in the standard 70-180 mg/dL band, and the
// Glucose Management Indicator estimate of A1C. An empty series yields the
// zero value.
func ComputeGlucoseOverview(readings []schema.GlucoseReading) schema.GlucoseOverview {
	overview := schema.GlucoseOverview{TotalReadings: len(readings)}
	if len(readings) == 0 {
		return overview
	}

	first, last := readings[0].Timestamp, readings[0].Timestamp
	sum := 0.0
	below, above := 0, 0
	for _, r := range readings {
		sum += r.GlucoseMgDl
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
		switch {
		case r.GlucoseMgDl < schema.RangeLowMgDl:
			below++
		case r.GlucoseMgDl > schema.RangeHighMgDl:
			above++
		}
	}

	n := float64(len(readings))
	mean := sum / n
	variance := 0.0
	for _, r := range readings {
		d := r.GlucoseMgDl - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / n)

	overview.FirstReading = first
	overview.LastReading = last
	overview.AverageGlucose = mean
	overview.StdDev = stdDev
	overview.TimeBelowPct = float64(below) / n * 100
	overview.TimeAbovePct = float64(above) / n * 100
	overview.TimeInRangePct = 100 - overview.TimeBelowPct - overview.TimeAbovePct
	overview.GMI = 3.31 + 0.02392*mean
	if mean != 0 {
		overview.CoefficientOfVariation = stdDev / mean * 100
	}
	return overview
}
