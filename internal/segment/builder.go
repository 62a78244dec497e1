// Package segment turns a classified event sequence into contiguous,
// non-overlapping activity segments with policy-counted durations.
package segment

import (
	"sort"
	"time"

	"github.com/shiftsense/shiftsense/internal/classify"
	"github.com/shiftsense/shiftsense/internal/model"
)

// Config holds the duration policy constants.
type Config struct {
	// TakeoutMinutes is the fixed dwell for a takeout meal, independent of
	// the gap to the next event.
	TakeoutMinutes float64
	// MealMaxMinutes caps a dine-in meal dwell.
	MealMaxMinutes float64
	// EquipmentMinMinutes / EquipmentMaxMinutes clamp a system-usage dwell.
	EquipmentMinMinutes float64
	EquipmentMaxMinutes float64
	// NonWorkCapMinutes caps counted dwell for non-work-capable activities
	// when tagging is sparse. Work-capable dwells count in full.
	NonWorkCapMinutes float64
	// TrailingMinutes is the assumed dwell for the last event of the day.
	TrailingMinutes float64
	// NightWindowStartHour / NightWindowEndHour bound the analysis window
	// for night-shift days: [D-1 start, D end).
	NightWindowStartHour int
	NightWindowEndHour   int
}

// DefaultConfig returns the study's duration policy.
func DefaultConfig() Config {
	return Config{
		TakeoutMinutes:       10,
		MealMaxMinutes:       60,
		EquipmentMinMinutes:  10,
		EquipmentMaxMinutes:  30,
		NonWorkCapMinutes:    60,
		TrailingMinutes:      5,
		NightWindowStartHour: 17,
		NightWindowEndHour:   12,
	}
}

// Window is the analysis window for one worker-day.
type Window struct {
	Start, End time.Time
}

// DayWindow returns the analysis window for day (midnight-based date).
// Night shifts span [D-1 17:00, D 12:00); standard shifts cover the
// calendar day.
func DayWindow(day time.Time, night bool, cfg Config) Window {
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	if night {
		return Window{
			Start: base.AddDate(0, 0, -1).Add(time.Duration(cfg.NightWindowStartHour) * time.Hour),
			End:   base.Add(time.Duration(cfg.NightWindowEndHour) * time.Hour),
		}
	}
	return Window{Start: base, End: base.AddDate(0, 0, 1)}
}

// span is a working segment before merging.
type span struct {
	start, end time.Time
	counted    float64
	activity   model.ActivityCode
	location   string
	confidence int
	takeout    bool
}

// Build converts classified events into the day's activity segments.
// Excursion brackets collapse into single NON_WORK spans; everything else
// follows the duration policy order: calendar end, takeout fixed dwell,
// dine-in cap, system-usage clamp, then plain gap with the sparse-tagging
// cap on non-work-capable dwells.
func Build(events []model.ClassifiedEvent, excursions []classify.Excursion, window Window, cfg Config) []model.ActivitySegment {
	spans := buildSpans(events, excursions, cfg)
	spans = mergeAdjacent(spans)
	enforceContiguity(spans, window)

	out := make([]model.ActivitySegment, 0, len(spans))
	for _, s := range spans {
		out = append(out, model.ActivitySegment{
			StartTime:       s.start,
			EndTime:         s.end,
			Activity:        s.activity,
			Location:        s.location,
			DurationMinutes: s.counted,
			Confidence:      s.confidence,
			IsTakeout:       s.takeout,
		})
	}
	return out
}

// FilterWindow drops events outside the analysis window. The pipeline runs
// this before classification so that contextual passes and excursion
// detection only see in-window events.
func FilterWindow(events []model.ClassifiedEvent, window Window) []model.ClassifiedEvent {
	if window.Start.IsZero() {
		return events
	}
	out := make([]model.ClassifiedEvent, 0, len(events))
	for _, e := range events {
		if e.Timestamp.Before(window.Start) || !e.Timestamp.Before(window.End) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func buildSpans(events []model.ClassifiedEvent, excursions []classify.Excursion, cfg Config) []span {
	consumed := make(map[int]bool)
	synthetic := make(map[int]span)
	for _, ex := range excursions {
		for i := ex.Out; i <= ex.In; i++ {
			consumed[i] = true
		}
		start := events[ex.Out].Timestamp
		end := events[ex.In].Timestamp
		synthetic[ex.Out] = span{
			start:      start,
			end:        end,
			counted:    end.Sub(start).Minutes(),
			activity:   model.ActivityNonWork,
			location:   events[ex.Out].Location,
			confidence: ex.Confidence,
		}
	}

	var spans []span
	for i := range events {
		if s, ok := synthetic[i]; ok {
			spans = append(spans, s)
			continue
		}
		if consumed[i] {
			continue
		}

		e := &events[i]
		// A consumed neighbor is always an excursion's Out event, so the
		// next raw timestamp is the correct dwell boundary either way.
		next := i + 1
		if next >= len(events) {
			next = -1
		}

		var gapMin float64
		var wallEnd time.Time
		if next >= 0 {
			wallEnd = events[next].Timestamp
			gapMin = wallEnd.Sub(e.Timestamp).Minutes()
		} else {
			gapMin = cfg.TrailingMinutes
			wallEnd = e.Timestamp.Add(time.Duration(cfg.TrailingMinutes * float64(time.Minute)))
		}

		counted := gapMin
		switch {
		case e.Protected && e.EndTime != nil:
			counted = e.EndTime.Sub(e.Timestamp).Minutes()
			if next < 0 {
				wallEnd = *e.EndTime
			}
		case e.Zone == model.ZoneMealTakeout:
			counted = cfg.TakeoutMinutes
			if next < 0 {
				wallEnd = e.Timestamp.Add(time.Duration(cfg.TakeoutMinutes * float64(time.Minute)))
			}
		case e.Zone == model.ZoneMealDineIn:
			counted = minFloat(gapMin, cfg.MealMaxMinutes)
		case e.Zone == model.ZoneSystemUsage:
			counted = clampFloat(gapMin, cfg.EquipmentMinMinutes, cfg.EquipmentMaxMinutes)
		default:
			if !e.Activity.CountsAsWork() || e.Zone == model.ZoneUnknown {
				counted = minFloat(gapMin, cfg.NonWorkCapMinutes)
			}
		}

		spans = append(spans, span{
			start:      e.Timestamp,
			end:        wallEnd,
			counted:    counted,
			activity:   e.Activity,
			location:   e.Location,
			confidence: e.Confidence,
			takeout:    e.TakeoutFlag,
		})
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })
	return spans
}

// mergeAdjacent folds neighboring spans with the same activity and location
// into one: durations sum, confidence takes the minimum of the pair.
func mergeAdjacent(spans []span) []span {
	if len(spans) == 0 {
		return spans
	}
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.activity == last.activity && s.location == last.location && s.takeout == last.takeout {
			last.end = s.end
			last.counted += s.counted
			if s.confidence < last.confidence {
				last.confidence = s.confidence
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// enforceContiguity absorbs residual gaps into the preceding segment and
// clamps the final end to the analysis window.
func enforceContiguity(spans []span, window Window) {
	for i := 0; i+1 < len(spans); i++ {
		spans[i].end = spans[i+1].start
	}
	if len(spans) == 0 {
		return
	}
	last := &spans[len(spans)-1]
	if !window.End.IsZero() && last.end.After(window.End) {
		last.end = window.End
		if span := last.end.Sub(last.start).Minutes(); last.counted > span {
			last.counted = span
		}
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
