// Package normalize merges the per-source event feeds for one worker-day
// into a single time-ordered stream with canonical zone codes.
package normalize

import (
	"sort"

	"github.com/shiftsense/shiftsense/internal/location"
	"github.com/shiftsense/shiftsense/internal/model"
)

// Normalize produces the canonical event list for one worker-day.
//
// Events are defensively re-sorted by timestamp; duplicate timestamps are
// tie-broken by source priority (badge > equipment > meeting > meal).
// Non-badge sources get a synthetic zone at ingestion time: equipment usage
// is O, meetings are G3, meal transactions are M1 or M2 depending on the
// takeout flag. Badge events go through the resolver.
func Normalize(events []model.RawEvent, resolver *location.Resolver) []model.ClassifiedEvent {
	ordered := make([]model.RawEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].Source.Priority() < ordered[j].Source.Priority()
	})

	out := make([]model.ClassifiedEvent, 0, len(ordered))
	for _, raw := range ordered {
		ce := model.ClassifiedEvent{RawEvent: raw}

		switch raw.Source {
		case model.SourceEquipment:
			ce.Zone = model.ZoneSystemUsage
		case model.SourceMeeting:
			ce.Zone = model.ZoneCollaboration
		case model.SourceMeal:
			if raw.TakeoutFlag {
				ce.Zone = model.ZoneMealTakeout
			} else {
				ce.Zone = model.ZoneMealDineIn
			}
		default:
			res := resolver.Resolve(&raw)
			ce.Zone = res.Zone
			if res.Direction != model.DirectionNone {
				ce.Direction = res.Direction
			}
			if res.Resolved() && res.Entry.DisplayName != "" {
				ce.Location = res.Entry.DisplayName
			}
		}

		out = append(out, ce)
	}

	return out
}
