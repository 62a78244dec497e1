// Package model defines the core domain models used throughout the application.
package model

// ZoneCode is the canonical classification of a tagging location.
//
// The closed set mirrors the facility's location master: G zones are
// work-capable, N zones are rest/welfare, T zones are transit and the
// perimeter gates, M zones are meal service points, and O marks direct
// work-system usage logs (equipment, approval, mail systems) that have no
// physical gate at all.
type ZoneCode string

// Zone code constants.
const (
	ZonePrimaryWork   ZoneCode = "G1" // main work areas, also the resolver default
	ZonePreparation   ZoneCode = "G2" // lockers, gowning, setup rooms
	ZoneCollaboration ZoneCode = "G3" // meeting and conference rooms
	ZoneTraining      ZoneCode = "G4" // training and lecture spaces
	ZoneRest          ZoneCode = "N1" // rest areas, lounges
	ZoneWelfare       ZoneCode = "N2" // medical, fitness, convenience facilities
	ZoneTransit       ZoneCode = "T1" // corridors, bridges, elevators
	ZoneEntry         ZoneCode = "T2" // perimeter gate, inbound
	ZoneExit          ZoneCode = "T3" // perimeter gate, outbound
	ZoneMealDineIn    ZoneCode = "M1"
	ZoneMealTakeout   ZoneCode = "M2"
	ZoneSystemUsage   ZoneCode = "O"
	ZoneUnknown       ZoneCode = "UNKNOWN"
)

// Valid reports whether z is one of the closed zone codes.
func (z ZoneCode) Valid() bool {
	switch z {
	case ZonePrimaryWork, ZonePreparation, ZoneCollaboration, ZoneTraining,
		ZoneRest, ZoneWelfare,
		ZoneTransit, ZoneEntry, ZoneExit,
		ZoneMealDineIn, ZoneMealTakeout,
		ZoneSystemUsage, ZoneUnknown:
		return true
	}
	return false
}

// WorkCapable reports whether a dwell in this zone can plausibly be work.
// Used by the excursion detector: an out-and-back bracket only counts as an
// absence if no work-capable zone was visited in between.
func (z ZoneCode) WorkCapable() bool {
	switch z {
	case ZonePrimaryWork, ZonePreparation, ZoneCollaboration, ZoneTraining, ZoneSystemUsage:
		return true
	}
	return false
}

// RestZone reports whether z is one of the N (rest/welfare) zones.
func (z ZoneCode) RestZone() bool {
	return z == ZoneRest || z == ZoneWelfare
}
