package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shiftsense/shiftsense/internal/model"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func seg(activity model.ActivityCode, startH, startM, endH, endM int, counted float64, conf int) model.ActivitySegment {
	return model.ActivitySegment{
		StartTime:       at(startH, startM),
		EndTime:         at(endH, endM),
		Activity:        activity,
		DurationMinutes: counted,
		Confidence:      conf,
	}
}

func TestSummarize(t *testing.T) {
	claim := &model.ClaimRecord{
		EmployeeID:   "E100",
		WorkDate:     day,
		ClaimedHours: 8,
		Schedule:     model.ScheduleStandard,
	}

	segments := []model.ActivitySegment{
		seg(model.ActivityCommuteIn, 8, 0, 8, 5, 5, 100),
		seg(model.ActivityWork, 8, 5, 12, 0, 235, 85),
		seg(model.ActivityLunch, 12, 0, 13, 0, 60, 100),
		seg(model.ActivityWork, 13, 0, 17, 30, 270, 85),
		seg(model.ActivityCommuteOut, 17, 30, 17, 35, 5, 100),
	}

	summary := Summarize("E100", day, segments, claim)

	assert.Equal(t, "E100", summary.EmployeeID)
	assert.InDelta(t, 8.42, summary.ActualWorkHours, 0.001)
	assert.Equal(t, 8.0, summary.ClaimedHours)
	assert.InDelta(t, 105.21, summary.EfficiencyRatio, 0.001)
	assert.Equal(t, 94, summary.ConfidenceScore)
	assert.False(t, summary.Unverified)

	assert.InDelta(t, 505, summary.PerActivityMinutes[model.CategoryWork], 0.001)
	assert.InDelta(t, 60, summary.PerActivityMinutes[model.CategoryMeal], 0.001)
	assert.InDelta(t, 10, summary.PerActivityMinutes[model.CategoryMovement], 0.001)
	assert.InDelta(t, 60, summary.PerCodeMinutes[model.ActivityLunch], 0.001)
}

func TestSummarize_WorkCeiling(t *testing.T) {
	// Counted work exceeds the observed presence span; the ceiling is the
	// span minus meal time.
	segments := []model.ActivitySegment{
		seg(model.ActivityWork, 9, 0, 12, 0, 600, 85),
		seg(model.ActivityLunch, 12, 0, 13, 0, 60, 100),
	}

	summary := Summarize("E100", day, segments, &model.ClaimRecord{ClaimedHours: 8})
	assert.InDelta(t, 3.0, summary.ActualWorkHours, 0.001, "4h span minus 1h meal")
}

func TestSummarize_MissingClaim(t *testing.T) {
	segments := []model.ActivitySegment{
		seg(model.ActivityWork, 9, 0, 13, 0, 240, 85),
	}

	summary := Summarize("E100", day, segments, nil)
	assert.Equal(t, DefaultClaimedHours, summary.ClaimedHours)
	assert.True(t, summary.Unverified)
	assert.InDelta(t, 50.0, summary.EfficiencyRatio, 0.001)
}

func TestSummarize_ZeroHourClaimKept(t *testing.T) {
	segments := []model.ActivitySegment{
		seg(model.ActivityWork, 9, 0, 13, 0, 240, 85),
	}

	summary := Summarize("E100", day, segments, &model.ClaimRecord{ClaimedHours: 0})
	assert.Zero(t, summary.ClaimedHours)
	assert.Zero(t, summary.EfficiencyRatio)
	assert.False(t, summary.Unverified)
	assert.InDelta(t, 4.0, summary.ActualWorkHours, 0.001)
}

func TestSummarize_EmptyDay(t *testing.T) {
	summary := Summarize("E100", day, nil, nil)
	assert.Zero(t, summary.ActualWorkHours)
	assert.Zero(t, summary.ConfidenceScore)
	assert.Zero(t, summary.EfficiencyRatio)
}

func TestAttachQuality(t *testing.T) {
	summary := Summarize("E100", day, nil, nil)

	events := []model.ClassifiedEvent{
		{RawEvent: model.RawEvent{Source: model.SourceBadge}, Zone: model.ZonePrimaryWork},
		{RawEvent: model.RawEvent{Source: model.SourceBadge}, Zone: model.ZoneUnknown},
		{RawEvent: model.RawEvent{Source: model.SourceMeal}, Zone: model.ZoneMealDineIn},
		{RawEvent: model.RawEvent{Source: model.SourceEquipment}, Zone: model.ZoneSystemUsage},
	}

	AttachQuality(&summary, events)
	assert.Equal(t, 2, summary.EventCounts[model.SourceBadge])
	assert.Equal(t, 1, summary.EventCounts[model.SourceMeal])
	assert.Equal(t, 1, summary.EventCounts[model.SourceEquipment])
	assert.InDelta(t, 0.25, summary.UnresolvedShare, 0.001)
}
