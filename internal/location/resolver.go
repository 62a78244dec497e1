package location

import (
	"fmt"

	"github.com/maypok86/otter/v2"
	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/model"
)

// DefaultConfidence is carried by events the resolver cannot match; they
// flow through as UNKNOWN rather than being dropped.
const DefaultConfidence = 50

// Resolution is the outcome of resolving one raw event against the master.
type Resolution struct {
	Entry     *model.LocationMasterEntry // nil when unresolved
	Zone      model.ZoneCode
	Direction model.Direction
}

// Resolved reports whether a master entry was found.
func (r Resolution) Resolved() bool {
	return r.Entry != nil
}

// Resolver maps raw events to zone codes. It is safe for concurrent use:
// the index is read-only and the lookup cache is concurrency-safe.
type Resolver struct {
	index *Index
	cache *otter.Cache[string, Resolution]
}

// cacheCapacity bounds the resolver cache. A facility master has a few
// thousand devices; repeated lookups dominate in batch runs.
const cacheCapacity = 16_384

// NewResolver creates a resolver over a prepared index.
func NewResolver(index *Index) *Resolver {
	cache := otter.Must(&otter.Options[string, Resolution]{
		MaximumSize: cacheCapacity,
	})
	return &Resolver{index: index, cache: cache}
}

// Resolve maps a raw event to a zone code using the master lookup order:
// (device, direction), then display name, then gate name, then device
// prefix + name substring. Unresolved events fall back to UNKNOWN with the
// event's own direction; this is logged, never fatal.
func (r *Resolver) Resolve(event *model.RawEvent) Resolution {
	key := fmt.Sprintf("%s|%s|%s", event.DeviceID, event.Direction, event.Location)
	if res, ok := r.cache.GetIfPresent(key); ok {
		return res
	}

	res := r.resolve(event)
	r.cache.Set(key, res)
	return res
}

func (r *Resolver) resolve(event *model.RawEvent) Resolution {
	if entry := r.index.lookupDevice(event.DeviceID, event.Direction); entry != nil {
		return fromEntry(entry)
	}
	if entry := r.index.lookupDisplay(event.Location); entry != nil {
		return fromEntry(entry)
	}
	if entry := r.index.lookupGate(event.Location); entry != nil {
		return fromEntry(entry)
	}
	if entry := r.index.lookupPrefix(event.DeviceID, event.Location); entry != nil {
		return fromEntry(entry)
	}

	common.LogWarn("unresolved location", common.Fields{
		"device_id": event.DeviceID,
		"location":  event.Location,
		"direction": event.Direction,
	})
	return Resolution{Zone: model.ZoneUnknown, Direction: event.Direction}
}

func fromEntry(entry *model.LocationMasterEntry) Resolution {
	return Resolution{Entry: entry, Zone: entry.Zone, Direction: entry.Direction}
}
