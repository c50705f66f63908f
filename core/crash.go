package core

import "github.com/mlevkov/glucodip/schema"

// minCrashSamples is the shortest danger zone run that counts as a crash.
// A single flagged sample is indistinguishable from sensor jitter.
const minCrashSamples = 2

// SegmentCrashes partitions a velocity-augmented series into maximal
// contiguous danger zone runs and emits one CrashEvent per run of at least
// minCrashSamples. A run still open when the data ends is emitted too; the
// series simply stops before recovery.
func SegmentCrashes(readings []schema.AugmentedReading) []schema.CrashEvent {
	crashes := []schema.CrashEvent{}
	runStart := -1

	for i := range readings {
		if readings[i].IsDangerZone {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if event, ok := buildCrashEvent(readings[runStart:i]); ok {
				crashes = append(crashes, event)
			}
			runStart = -1
		}
	}
	if runStart >= 0 {
		if event, ok := buildCrashEvent(readings[runStart:]); ok {
			crashes = append(crashes, event)
		}
	}

	return crashes
}

// buildCrashEvent characterizes one danger zone run. Samples flagged as
// dangerous always carry a smoothed velocity, since a missing velocity never
// raises the flag.
func buildCrashEvent(run []schema.AugmentedReading) (schema.CrashEvent, bool) {
	if len(run) < minCrashSamples {
		return schema.CrashEvent{}, false
	}

	first, last := run[0], run[len(run)-1]
	sum, worst := 0.0, *first.VelocitySmoothed
	for _, r := range run {
		v := *r.VelocitySmoothed
		sum += v
		if v < worst {
			worst = v
		}
	}

	return schema.CrashEvent{
		StartTime:       first.Timestamp,
		EndTime:         last.Timestamp,
		StartGlucose:    first.GlucoseMgDl,
		EndGlucose:      last.GlucoseMgDl,
		DropMagnitude:   first.GlucoseMgDl - last.GlucoseMgDl,
		AverageVelocity: sum / float64(len(run)),
		MaxVelocity:     worst,
		DurationMinutes: last.Timestamp.Sub(first.Timestamp).Minutes(),
	}, true
}
