package model

// ActivityCode labels what the worker was doing during a span of time.
type ActivityCode string

// Activity code constants.
const (
	ActivityWork         ActivityCode = "WORK"
	ActivityWorkPrep     ActivityCode = "WORK_PREPARATION"
	ActivityMeeting      ActivityCode = "MEETING"
	ActivityTraining     ActivityCode = "TRAINING"
	ActivityBreakfast    ActivityCode = "BREAKFAST"
	ActivityLunch        ActivityCode = "LUNCH"
	ActivityDinner       ActivityCode = "DINNER"
	ActivityMidnightMeal ActivityCode = "MIDNIGHT_MEAL"
	ActivityMovement     ActivityCode = "MOVEMENT"
	ActivityCommuteIn    ActivityCode = "COMMUTE_IN"
	ActivityCommuteOut   ActivityCode = "COMMUTE_OUT"
	ActivityRest         ActivityCode = "REST"
	ActivityNonWork      ActivityCode = "NON_WORK"
)

// ActivityCategory groups activity codes for reporting.
type ActivityCategory string

// Activity categories.
const (
	CategoryWork     ActivityCategory = "work"
	CategoryMeal     ActivityCategory = "meal"
	CategoryMovement ActivityCategory = "movement"
	CategoryRest     ActivityCategory = "rest"
	CategoryAbsence  ActivityCategory = "absence"
)

// Category returns the reporting category for an activity code.
func (a ActivityCode) Category() ActivityCategory {
	switch a {
	case ActivityWork, ActivityWorkPrep, ActivityMeeting, ActivityTraining:
		return CategoryWork
	case ActivityBreakfast, ActivityLunch, ActivityDinner, ActivityMidnightMeal:
		return CategoryMeal
	case ActivityMovement, ActivityCommuteIn, ActivityCommuteOut:
		return CategoryMovement
	case ActivityRest:
		return CategoryRest
	case ActivityNonWork:
		return CategoryAbsence
	}
	return CategoryAbsence
}

// CountsAsWork reports whether segments with this activity feed into
// actual_work_hours.
func (a ActivityCode) CountsAsWork() bool {
	return a.Category() == CategoryWork
}

// Meal reports whether a is one of the meal sub-types.
func (a ActivityCode) Meal() bool {
	return a.Category() == CategoryMeal
}

// DisplayName returns a human readable label for reports.
func (a ActivityCode) DisplayName() string {
	switch a {
	case ActivityWork:
		return "Work"
	case ActivityWorkPrep:
		return "Work preparation"
	case ActivityMeeting:
		return "Meeting"
	case ActivityTraining:
		return "Training"
	case ActivityBreakfast:
		return "Breakfast"
	case ActivityLunch:
		return "Lunch"
	case ActivityDinner:
		return "Dinner"
	case ActivityMidnightMeal:
		return "Midnight meal"
	case ActivityMovement:
		return "Movement"
	case ActivityCommuteIn:
		return "Commute in"
	case ActivityCommuteOut:
		return "Commute out"
	case ActivityRest:
		return "Rest"
	case ActivityNonWork:
		return "Non-work"
	}
	return string(a)
}
