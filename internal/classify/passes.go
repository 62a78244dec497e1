package classify

import (
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
)

// passTailgating reclassifies long contiguous T1 runs as work. A corridor
// dwell past the threshold means the badge reader saw someone walk in
// behind a colleague and then stay; runs at or under the threshold stay
// MOVEMENT.
func passTailgating(events []model.ClassifiedEvent, cfg Config) {
	for start := 0; start < len(events); {
		if events[start].Zone != model.ZoneTransit {
			start++
			continue
		}

		end := start
		for end+1 < len(events) && events[end+1].Zone == model.ZoneTransit {
			end++
		}

		// Dwell runs to the event after the run when one exists.
		runEnd := events[end].Timestamp
		if end+1 < len(events) {
			runEnd = events[end+1].Timestamp
		}
		dwell := runEnd.Sub(events[start].Timestamp)

		if dwell > cfg.TailgateThreshold {
			conf := confTailgateWork
			if dwell >= cfg.TailgateLongRun {
				conf = confTailgateLong
			}
			for i := start; i <= end; i++ {
				if events[i].Locked() {
					continue
				}
				events[i].Activity = model.ActivityWork
				events[i].Confidence = conf
			}
		}

		start = end + 1
	}
}

// mealGroup is a maximal run of meal-zone events.
type mealGroup struct {
	first, last int
}

func mealGroups(events []model.ClassifiedEvent) []mealGroup {
	var groups []mealGroup
	for start := 0; start < len(events); {
		if !mealZone(events[start].Zone) {
			start++
			continue
		}
		end := start
		for end+1 < len(events) && mealZone(events[end+1].Zone) {
			end++
		}
		groups = append(groups, mealGroup{first: start, last: end})
		start = end + 1
	}
	return groups
}

func mealZone(z model.ZoneCode) bool {
	return z == model.ZoneMealDineIn || z == model.ZoneMealTakeout
}

// passPreMealExit forces a badge OUT shortly before a meal group to
// MOVEMENT: leaving the work area to queue for a meal is walking, whatever
// the exit reader's zone defaults to.
func passPreMealExit(events []model.ClassifiedEvent, cfg Config) {
	for _, g := range mealGroups(events) {
		mealStart := events[g.first].Timestamp
		for i := g.first - 1; i >= 0; i-- {
			e := &events[i]
			lead := mealStart.Sub(e.Timestamp)
			if lead > cfg.MealAdjacency {
				break
			}
			if e.Locked() || e.Source != model.SourceBadge || e.Direction != model.DirectionOut {
				continue
			}
			e.Activity = model.ActivityMovement
			if lead <= cfg.PreMealNearWindow {
				e.Confidence = confPreMealNear
			} else {
				e.Confidence = confPreMealFar
			}
		}
	}
}

// passPostMealReentry forces the first badge IN shortly after a meal group
// to WORK: coming back through a reader after eating means returning to the
// job, not a fresh commute, unless the event really is a perimeter entry.
func passPostMealReentry(events []model.ClassifiedEvent, cfg Config) {
	for _, g := range mealGroups(events) {
		mealEnd := events[g.last].Timestamp
		for i := g.last + 1; i < len(events); i++ {
			e := &events[i]
			if e.Timestamp.Sub(mealEnd) > cfg.MealAdjacency {
				break
			}
			if e.Source != model.SourceBadge || e.Direction != model.DirectionIn {
				continue
			}
			if e.Locked() || e.Activity == model.ActivityCommuteIn {
				break
			}
			e.Activity = model.ActivityWork
			e.Confidence = confPostMeal
			break
		}
	}
}

// passIdleDwell reclassifies long contiguous N-zone runs as NON_WORK,
// overriding the plain REST default. Short breaks stay rest; parking in the
// lounge does not.
func passIdleDwell(events []model.ClassifiedEvent, cfg Config) {
	for start := 0; start < len(events); {
		if !events[start].Zone.RestZone() {
			start++
			continue
		}

		end := start
		for end+1 < len(events) && events[end+1].Zone.RestZone() {
			end++
		}

		var dwell time.Duration
		if end+1 < len(events) {
			dwell = events[end+1].Timestamp.Sub(events[start].Timestamp)
		} else {
			dwell = events[end].Timestamp.Sub(events[start].Timestamp)
		}

		if dwell >= cfg.IdleDwellThreshold {
			for i := start; i <= end; i++ {
				// Meal-adjacency rewrites on N-zone events stand.
				if events[i].Locked() || events[i].Activity != model.ActivityRest {
					continue
				}
				events[i].Activity = model.ActivityNonWork
				events[i].Confidence = confIdleDwell
			}
		}

		start = end + 1
	}
}
