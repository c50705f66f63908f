package core

import (
	"math"

	"github.com/mlevkov/glucodip/schema"
)

// AnalyzeMealResponse derives response metrics from a meal's attached glucose
// window. The smoothed velocities carried on each reading are reused as
// computed over the full series; recomputing them inside the window would
// shift the first sample's missing velocity and bias edge smoothing. Returns
// false when the window holds no readings.
func AnalyzeMealResponse(event *schema.MealGlucoseEvent) (schema.MealResponseMetrics, bool) {
	window := event.Readings
	if len(window) == 0 {
		return schema.MealResponseMetrics{}, false
	}

	var m schema.MealResponseMetrics
	m.BaselineGlucose = window[0].GlucoseMgDl

	// First occurrence of the maximum wins on plateaus.
	peakIdx := 0
	for i, r := range window {
		if r.GlucoseMgDl > window[peakIdx].GlucoseMgDl {
			peakIdx = i
		}
	}
	peak := window[peakIdx]
	m.PeakGlucose = peak.GlucoseMgDl
	m.GlucoseRise = peak.GlucoseMgDl - m.BaselineGlucose
	m.TimeToPeakMinutes = peak.MinutesFromMeal
	m.MaxDropVelocity = minSmoothedVelocity(window)

	analyzePostPeak(&m, window, peakIdx)

	m.ProteinCarbRatio = proteinCarbRatio(event.ProteinG, event.CarbsG)
	return m, true
}

// analyzePostPeak fills the drop and crash fields from the sub-window that
// starts at the peak. With the peak as the last sample there is nothing
// after it to characterize, so the drop fields stay at their zero values
// and the duration stays missing.
func analyzePostPeak(m *schema.MealResponseMetrics, window []schema.WindowReading, peakIdx int) {
	postPeak := window[peakIdx:]
	if len(postPeak) <= 1 {
		return
	}

	nadirIdx := 0
	for i, r := range postPeak {
		if r.GlucoseMgDl < postPeak[nadirIdx].GlucoseMgDl {
			nadirIdx = i
		}
	}
	nadir := postPeak[nadirIdx]
	m.TotalDrop = postPeak[0].GlucoseMgDl - nadir.GlucoseMgDl
	duration := nadir.MinutesFromMeal - postPeak[0].MinutesFromMeal
	m.DropDurationMinutes = &duration

	crashes := SegmentCrashes(stripWindowOffsets(postPeak))
	if len(crashes) == 0 {
		return
	}
	worst := crashes[0]
	for _, c := range crashes[1:] {
		if c.DropMagnitude > worst.DropMagnitude {
			worst = c
		}
	}
	m.CrashDetected = true
	m.CrashStartMinutes = worst.StartTime.Sub(window[0].Timestamp).Minutes()
	m.CrashMagnitude = worst.DropMagnitude
	m.CrashVelocity = worst.MaxVelocity
}

// minSmoothedVelocity returns the most negative smoothed velocity in the
// window, or zero when no sample carries one.
func minSmoothedVelocity(window []schema.WindowReading) float64 {
	lowest, found := 0.0, false
	for _, r := range window {
		v := r.VelocitySmoothed
		if v == nil {
			continue
		}
		if !found || *v < lowest {
			lowest = *v
			found = true
		}
	}
	return lowest
}

// stripWindowOffsets converts window readings back to plain augmented
// readings for crash segmentation.
func stripWindowOffsets(window []schema.WindowReading) []schema.AugmentedReading {
	readings := make([]schema.AugmentedReading, len(window))
	for i, r := range window {
		readings[i] = r.AugmentedReading
	}
	return readings
}

// proteinCarbRatio guards the carb-free cases: protein without carbs is an
// infinite ratio rather than a division by zero, and a meal with neither is
// simply zero.
func proteinCarbRatio(proteinG, carbsG float64) schema.Ratio {
	if carbsG == 0 {
		if proteinG > 0 {
			return schema.Ratio(math.Inf(1))
		}
		return 0
	}
	return schema.Ratio(proteinG / carbsG)
}
