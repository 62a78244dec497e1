// Package location resolves raw device/location identifiers to canonical
// zone codes using the facility's location master.
package location

import (
	"strings"

	"github.com/shiftsense/shiftsense/internal/model"
)

// Index is a read-only lookup structure over the location master. Build it
// once per run and share it across worker-day units; it holds no mutable
// state after construction.
type Index struct {
	byDevice  map[deviceKey]*model.LocationMasterEntry
	byDisplay map[string]*model.LocationMasterEntry
	byGate    map[string]*model.LocationMasterEntry
	byPrefix  map[string][]*model.LocationMasterEntry
	entries   []model.LocationMasterEntry
}

type deviceKey struct {
	device    string
	direction model.Direction
}

// NewIndex builds the lookup maps from master entries. Later entries win on
// key collisions, matching load order semantics of the master extract.
func NewIndex(entries []model.LocationMasterEntry) *Index {
	idx := &Index{
		byDevice:  make(map[deviceKey]*model.LocationMasterEntry, len(entries)),
		byDisplay: make(map[string]*model.LocationMasterEntry, len(entries)),
		byGate:    make(map[string]*model.LocationMasterEntry, len(entries)),
		byPrefix:  make(map[string][]*model.LocationMasterEntry),
		entries:   entries,
	}

	for i := range idx.entries {
		e := &idx.entries[i]
		idx.byDevice[deviceKey{e.DeviceID, e.Direction}] = e
		if name := normalize(e.DisplayName); name != "" {
			idx.byDisplay[name] = e
		}
		if gate := normalize(e.GateName); gate != "" {
			idx.byGate[gate] = e
		}
		if p := devicePrefix(e.DeviceID); p != "" {
			idx.byPrefix[p] = append(idx.byPrefix[p], e)
		}
	}

	return idx
}

// Len returns the number of master entries behind the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// lookupDevice is step 1: exact match on (device id, direction).
func (idx *Index) lookupDevice(deviceID string, dir model.Direction) *model.LocationMasterEntry {
	return idx.byDevice[deviceKey{deviceID, dir}]
}

// lookupDisplay is step 2: exact match of the raw location text against a
// display name.
func (idx *Index) lookupDisplay(raw string) *model.LocationMasterEntry {
	return idx.byDisplay[normalize(raw)]
}

// lookupGate is step 3: exact match of the raw location text against a gate
// name.
func (idx *Index) lookupGate(raw string) *model.LocationMasterEntry {
	return idx.byGate[normalize(raw)]
}

// lookupPrefix is step 4: candidates sharing the device's first two
// dash-delimited segments, narrowed by a substring match between the raw
// location text and the candidate's display name.
func (idx *Index) lookupPrefix(deviceID, raw string) *model.LocationMasterEntry {
	prefix := devicePrefix(deviceID)
	if prefix == "" {
		return nil
	}
	rawNorm := normalize(raw)
	if rawNorm == "" {
		return nil
	}
	for _, candidate := range idx.byPrefix[prefix] {
		name := normalize(candidate.DisplayName)
		if name == "" {
			continue
		}
		if strings.Contains(rawNorm, name) || strings.Contains(name, rawNorm) {
			return candidate
		}
	}
	return nil
}

// devicePrefix returns the first two dash-delimited segments of a device id,
// e.g. "701-8-1-1" -> "701-8".
func devicePrefix(deviceID string) string {
	parts := strings.SplitN(deviceID, "-", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "-" + parts[1]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
