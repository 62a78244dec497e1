// Package classify implements the deterministic zone-code rule table and
// the ordered context-adjustment passes that label classified events.
package classify

import "time"

// Config holds the empirically chosen thresholds behind the contextual
// rules. The defaults come from the facility study this engine was built
// for; they are configuration, not universal truths, and should not be
// assumed to generalize to other sites.
type Config struct {
	// TailgateThreshold is the contiguous T1 dwell beyond which a corridor
	// run is treated as unlogged work rather than literal walking.
	TailgateThreshold time.Duration
	// TailgateLongRun is the T1 run length at which the reclassified work
	// confidence drops from 85 to 60.
	TailgateLongRun time.Duration
	// IdleDwellThreshold is the contiguous N-zone dwell beyond which rest
	// becomes NON_WORK.
	IdleDwellThreshold time.Duration
	// MealAdjacency is the window before/after a meal group in which exit
	// and re-entry events are reinterpreted.
	MealAdjacency time.Duration
	// PreMealNearWindow splits the pre-meal exit confidence band: exits
	// closer to the meal than this get the higher confidence.
	PreMealNearWindow time.Duration
	// ExcursionCertain is the out-and-back absence length at which the
	// NON_WORK confidence steps from 90 to 95.
	ExcursionCertain time.Duration
}

// DefaultConfig returns the thresholds used by the facility study.
func DefaultConfig() Config {
	return Config{
		TailgateThreshold:  30 * time.Minute,
		TailgateLongRun:    2 * time.Hour,
		IdleDwellThreshold: 10 * time.Minute,
		MealAdjacency:      30 * time.Minute,
		PreMealNearWindow:  15 * time.Minute,
		ExcursionCertain:   3 * time.Hour,
	}
}

// Confidence constants from the rule table.
const (
	confCommute        = 100
	confSystemUsage    = 95
	confSystemUsageRun = 98
	confWork           = 85
	confWorkSustained  = 90
	confWorkPrep       = 90
	confMeetingBadge   = 95
	confMeetingCal     = 100
	confTraining       = 90
	confRestN1         = 90
	confRestN2         = 86
	confMealTxn        = 100
	confMealBadge      = 95
	confMovement       = 85
	confTailgateWork   = 85
	confTailgateLong   = 60
	confUnknown        = 50
	confPreMealNear    = 95
	confPreMealFar     = 90
	confPostMeal       = 95
	confIdleDwell      = 85
	confExcursion      = 90
	confExcursionLong  = 95
)
