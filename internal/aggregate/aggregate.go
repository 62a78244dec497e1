// Package aggregate reduces a day's activity segments into the work-time
// reconciliation summary.
package aggregate

import (
	"math"
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
)

// DefaultClaimedHours is assumed when no claim record exists; the summary
// is then flagged unverified.
const DefaultClaimedHours = 8.0

// Summarize reduces segments into a WorkTimeSummary for one worker-day.
// Pure over its inputs; claim may be nil.
func Summarize(employeeID string, day time.Time, segments []model.ActivitySegment, claim *model.ClaimRecord) model.WorkTimeSummary {
	summary := model.WorkTimeSummary{
		EmployeeID:         employeeID,
		Date:               day,
		PerActivityMinutes: make(map[model.ActivityCategory]float64),
		PerCodeMinutes:     make(map[model.ActivityCode]float64),
		EventCounts:        make(map[model.EventSource]int),
	}

	var workMinutes, mealMinutes, confidenceSum float64
	for _, seg := range segments {
		summary.PerActivityMinutes[seg.Activity.Category()] += seg.DurationMinutes
		summary.PerCodeMinutes[seg.Activity] += seg.DurationMinutes
		confidenceSum += float64(seg.Confidence)

		if seg.Activity.CountsAsWork() {
			workMinutes += seg.DurationMinutes
		}
		if seg.Activity.Meal() {
			mealMinutes += seg.DurationMinutes
		}
	}

	summary.ActualWorkHours = workMinutes / 60

	// Work can never exceed the observed presence window minus mandatory
	// meal time.
	if len(segments) > 0 {
		spanHours := segments[len(segments)-1].EndTime.Sub(segments[0].StartTime).Hours()
		ceiling := spanHours - mealMinutes/60
		if ceiling < 0 {
			ceiling = 0
		}
		if summary.ActualWorkHours > ceiling {
			summary.ActualWorkHours = ceiling
		}
	}

	// The 8.0 default stands in for an absent record only. A record that
	// claims zero hours is kept as-is and yields a zero efficiency ratio.
	if claim != nil {
		summary.ClaimedHours = claim.ClaimedHours
	} else {
		summary.ClaimedHours = DefaultClaimedHours
		summary.Unverified = true
	}
	if summary.ClaimedHours > 0 {
		summary.EfficiencyRatio = round2(summary.ActualWorkHours / summary.ClaimedHours * 100)
	}
	summary.ActualWorkHours = round2(summary.ActualWorkHours)

	if len(segments) > 0 {
		mean := confidenceSum / float64(len(segments))
		summary.ConfidenceScore = int(math.Round(clamp(mean, 0, 100)))
	}

	return summary
}

// AttachQuality records per-source event counts and the unresolved share on
// a summary. Kept separate from Summarize so the reduction stays a pure
// function of the segments.
func AttachQuality(summary *model.WorkTimeSummary, events []model.ClassifiedEvent) {
	unresolved := 0
	for _, e := range events {
		summary.EventCounts[e.Source]++
		if e.Zone == model.ZoneUnknown {
			unresolved++
		}
	}
	if len(events) > 0 {
		summary.UnresolvedShare = round2(float64(unresolved) / float64(len(events)))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
