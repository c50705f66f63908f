// Package core has the analysis engine: velocity derivation, crash
// detection, meal grouping and response metrics, plus the Execute entry
// points that commands call into.
package core

import (
	"sort"

	"github.com/mlevkov/glucodip/schema"
)

// ComputeVelocity sorts readings by timestamp and derives per-sample glucose
// velocity, a centered moving average of it, and the danger zone flag. The
// input slice is not mutated. The first sample of the series has no
// predecessor to difference against, so its velocity stays missing rather
// than zero.
func ComputeVelocity(readings []schema.GlucoseReading, windowMinutes int, dangerThreshold float64) []schema.AugmentedReading {
	sorted := make([]schema.GlucoseReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	output := make([]schema.AugmentedReading, len(sorted))
	for i, r := range sorted {
		output[i] = schema.AugmentedReading{GlucoseReading: r}
	}

	for i := 1; i < len(output); i++ {
		deltaMin := output[i].Timestamp.Sub(output[i-1].Timestamp).Minutes()
		if deltaMin <= 0 {
			// Duplicate timestamps have no defined rate of change.
			continue
		}
		v := (output[i].GlucoseMgDl - output[i-1].GlucoseMgDl) / deltaMin
		output[i].Velocity = &v
	}

	// Window size is expressed in minutes and converted to samples assuming
	// the usual five minute CGM cadence.
	smoothVelocity(output, max(1, windowMinutes/5))

	for i := range output {
		s := output[i].VelocitySmoothed
		output[i].IsDangerZone = s != nil && *s <= -dangerThreshold
	}

	return output
}

// smoothVelocity fills VelocitySmoothed with a centered moving average over
// the raw velocities. Samples near the edges use a partial window; a window
// holding no defined velocities yields a missing value. Even window sizes
// reach one sample further back than forward.
func smoothVelocity(readings []schema.AugmentedReading, window int) {
	for i := range readings {
		lo := max(0, i-window/2)
		hi := min(len(readings)-1, i+(window-1)/2)

		sum, count := 0.0, 0
		for j := lo; j <= hi; j++ {
			if v := readings[j].Velocity; v != nil {
				sum += *v
				count++
			}
		}
		if count > 0 {
			mean := sum / float64(count)
			readings[i].VelocitySmoothed = &mean
		}
	}
}
