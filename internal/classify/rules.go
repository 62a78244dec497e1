package classify

import (
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
)

// Classify labels a normalized event sequence. The base rule table runs
// first, with one-event lookback and lookahead; the contextual passes then
// run in a fixed order over the whole sequence. Protected labels set by the
// table are never rewritten by the passes.
//
// The input slice is not modified; callers get a fresh slice.
func Classify(events []model.ClassifiedEvent, cfg Config) []model.ClassifiedEvent {
	out := make([]model.ClassifiedEvent, len(events))
	copy(out, events)

	for i := range out {
		var prev, next *model.ClassifiedEvent
		if i > 0 {
			prev = &out[i-1]
		}
		if i+1 < len(out) {
			next = &out[i+1]
		}
		applyRuleTable(&out[i], prev, next)
	}

	// Passes compose left to right; each is pure over the sequence.
	passTailgating(out, cfg)
	passPreMealExit(out, cfg)
	passPostMealReentry(out, cfg)
	passIdleDwell(out, cfg)

	return out
}

// applyRuleTable maps one event's zone code to its base activity label.
func applyRuleTable(e, prev, next *model.ClassifiedEvent) {
	switch e.Zone {
	case model.ZoneEntry:
		e.Activity = model.ActivityCommuteIn
		e.Confidence = confCommute
		e.Protected = true

	case model.ZoneExit:
		e.Activity = model.ActivityCommuteOut
		e.Confidence = confCommute
		e.Protected = true

	case model.ZoneSystemUsage:
		e.Activity = model.ActivityWork
		e.Confidence = confSystemUsage
		if adjacentZone(prev, next, model.ZoneSystemUsage) {
			e.Confidence = confSystemUsageRun
		}
		e.Protected = true

	case model.ZonePrimaryWork:
		e.Activity = model.ActivityWork
		e.Confidence = confWork
		if prev != nil && prev.Zone.WorkCapable() {
			e.Confidence = confWorkSustained
		}

	case model.ZonePreparation:
		e.Activity = model.ActivityWorkPrep
		e.Confidence = confWorkPrep

	case model.ZoneCollaboration:
		e.Activity = model.ActivityMeeting
		if e.Source == model.SourceMeeting && e.EndTime != nil {
			// Calendar meeting with an explicit end; duration comes from
			// the calendar, not from the gap to the next event.
			e.Confidence = confMeetingCal
			e.Protected = true
		} else {
			e.Confidence = confMeetingBadge
		}

	case model.ZoneTraining:
		e.Activity = model.ActivityTraining
		e.Confidence = confTraining

	case model.ZoneRest:
		e.Activity = model.ActivityRest
		e.Confidence = confRestN1

	case model.ZoneWelfare:
		e.Activity = model.ActivityRest
		e.Confidence = confRestN2

	case model.ZoneMealDineIn, model.ZoneMealTakeout:
		// The transaction record names the meal; the clock only
		// approximates it.
		if e.MealKind != "" {
			e.Activity = e.MealKind
		} else {
			e.Activity = MealSubtype(e.Timestamp)
		}
		if e.Source == model.SourceMeal {
			e.Confidence = confMealTxn
		} else {
			e.Confidence = confMealBadge
		}
		if e.Zone == model.ZoneMealTakeout {
			e.Confidence = confMealTxn
			e.TakeoutFlag = true
		}
		e.Protected = true

	case model.ZoneTransit:
		e.Activity = model.ActivityMovement
		e.Confidence = confMovement

	default:
		// Unresolved locations are conservatively counted as work at low
		// confidence; they are never silently dropped.
		e.Activity = model.ActivityWork
		e.Confidence = confUnknown
	}
}

// MealSubtype picks the meal sub-type from the fixed time-of-day table:
// breakfast 06:30-09:00, lunch 11:20-13:20, dinner 17:00-20:00, midnight
// 23:30-01:00. Timestamps outside every window fall back to the nearest
// window by clock hour.
func MealSubtype(ts time.Time) model.ActivityCode {
	m := ts.Hour()*60 + ts.Minute()
	switch {
	case m >= 6*60+30 && m < 9*60:
		return model.ActivityBreakfast
	case m >= 11*60+20 && m < 13*60+20:
		return model.ActivityLunch
	case m >= 17*60 && m < 20*60:
		return model.ActivityDinner
	case m >= 23*60+30 || m < 60:
		return model.ActivityMidnightMeal
	}

	// Nearest-window fallback.
	switch {
	case ts.Hour() < 10:
		return model.ActivityBreakfast
	case ts.Hour() < 15:
		return model.ActivityLunch
	case ts.Hour() < 22:
		return model.ActivityDinner
	}
	return model.ActivityMidnightMeal
}

func adjacentZone(prev, next *model.ClassifiedEvent, zone model.ZoneCode) bool {
	if prev != nil && prev.Zone == zone {
		return true
	}
	if next != nil && next.Zone == zone {
		return true
	}
	return false
}
