package model

import "time"

// ScheduleType is the attendance schedule the claim was filed under.
type ScheduleType string

// Schedule type constants.
const (
	ScheduleStandard  ScheduleType = "standard"
	ScheduleFlexible  ScheduleType = "flexible"
	ScheduleSelective ScheduleType = "selective"
	ScheduleNight     ScheduleType = "night"
)

// ClaimRecord is the self-reported attendance claim for one worker-day.
// External, read-only input.
type ClaimRecord struct {
	WorkDate     time.Time
	EmployeeID   string
	ClaimedHours float64
	Schedule     ScheduleType
}

// NightShift reports whether the claim is filed under the night schedule,
// which shifts the analysis window across midnight.
func (c *ClaimRecord) NightShift() bool {
	return c != nil && c.Schedule == ScheduleNight
}
