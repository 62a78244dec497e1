package model

import "time"

// ActivitySegment is a contiguous span of one activity within a worker-day.
//
// Segments for a day are time-ordered, non-overlapping and gap-free: the
// start of each segment equals the end of the one before it. End times can
// therefore run past the span its counted duration covers; DurationMinutes
// is the policy-counted dwell, not necessarily EndTime minus StartTime.
type ActivitySegment struct {
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	Activity        ActivityCode `json:"activity"`
	Location        string       `json:"location,omitempty"`
	DurationMinutes float64      `json:"duration_minutes"`
	Confidence      int          `json:"confidence"`
	IsTakeout       bool         `json:"is_takeout,omitempty"`
}

// SpanMinutes is the wall-clock width of the segment.
func (s *ActivitySegment) SpanMinutes() float64 {
	return s.EndTime.Sub(s.StartTime).Minutes()
}

// WorkTimeSummary is the derived reconciliation for one worker-day.
// Recomputed on every run; immutable once built.
type WorkTimeSummary struct {
	EmployeeID         string                       `json:"employee_id"`
	Date               time.Time                    `json:"date"`
	ActualWorkHours    float64                      `json:"actual_work_hours"`
	ClaimedHours       float64                      `json:"claimed_hours"`
	EfficiencyRatio    float64                      `json:"efficiency_ratio"` // actual / claimed * 100
	ConfidenceScore    int                          `json:"confidence_score"` // mean segment confidence, 0-100
	PerActivityMinutes map[ActivityCategory]float64 `json:"per_activity_minutes,omitempty"`
	PerCodeMinutes     map[ActivityCode]float64     `json:"per_code_minutes,omitempty"`
	EventCounts        map[EventSource]int          `json:"event_counts,omitempty"`
	UnresolvedShare    float64                      `json:"unresolved_share"` // fraction of events resolved to UNKNOWN
	Unverified         bool                         `json:"unverified"`       // claim record missing, 8.0h default applied
}
