package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// EventSource identifies which collector produced a raw event.
type EventSource string

// Event source constants, in descending tie-break priority.
const (
	SourceBadge     EventSource = "badge"
	SourceEquipment EventSource = "equipment"
	SourceMeeting   EventSource = "meeting"
	SourceMeal      EventSource = "meal"
)

// Priority returns the tie-break rank for events sharing a timestamp.
// Lower is stronger: badge > equipment > meeting > meal.
func (s EventSource) Priority() int {
	switch s {
	case SourceBadge:
		return 0
	case SourceEquipment:
		return 1
	case SourceMeeting:
		return 2
	case SourceMeal:
		return 3
	}
	return 4
}

// Direction is the gate pass direction on a badge swipe.
type Direction string

// Direction constants. DirectionNone marks sources with no gate semantics.
const (
	DirectionIn   Direction = "IN"
	DirectionOut  Direction = "OUT"
	DirectionNone Direction = ""
)

// RawEvent is a single collector record for one worker. Immutable once
// ingested.
type RawEvent struct {
	Timestamp   time.Time
	EndTime     *time.Time // calendar meetings only
	EmployeeID  string
	DeviceID    string
	Location    string // raw location text from the collector
	Direction   Direction
	Source      EventSource
	Payload     string       // source-specific detail (system name, service point, meeting id)
	MealKind    ActivityCode // meal transactions only
	TakeoutFlag bool         // meal transactions only
}

// GenerateHash creates a stable identity for duplicate detection on import.
func (e *RawEvent) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		e.EmployeeID,
		e.Timestamp.Format(time.RFC3339),
		e.Source,
		e.DeviceID,
		e.Payload)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ClassifiedEvent is a raw event after zone resolution and rule
// classification. Immutable after the classifier pass; the segment builder
// derives spans from it without writing back.
type ClassifiedEvent struct {
	RawEvent

	Zone       ZoneCode
	Activity   ActivityCode
	Confidence int  // 0-100
	Protected  bool // locked label, later passes must not rewrite
}

// Locked reports whether later passes may rewrite this event's label.
func (e *ClassifiedEvent) Locked() bool {
	return e.Protected
}
