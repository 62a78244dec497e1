package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/location"
	"github.com/shiftsense/shiftsense/internal/model"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func testAnalyzer() *Analyzer {
	index := location.NewIndex([]model.LocationMasterEntry{
		{DeviceID: "gate-1-1", DisplayName: "Main Gate In", Zone: model.ZoneEntry, Direction: model.DirectionIn},
		{DeviceID: "gate-1-2", DisplayName: "Main Gate Out", Zone: model.ZoneExit, Direction: model.DirectionOut},
		{DeviceID: "line-3-1", DisplayName: "Line 3", Zone: model.ZonePrimaryWork, Direction: model.DirectionIn},
	})
	return NewAnalyzer(location.NewResolver(index))
}

func badge(deviceID string, dir model.Direction, hour, minute int) model.RawEvent {
	return model.RawEvent{
		Timestamp:  at(hour, minute),
		EmployeeID: "E100",
		DeviceID:   deviceID,
		Direction:  dir,
		Source:     model.SourceBadge,
	}
}

func TestAnalyze_StandardDay(t *testing.T) {
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			badge("gate-1-1", model.DirectionIn, 8, 0),
			badge("line-3-1", model.DirectionIn, 8, 5),
			{Timestamp: at(12, 0), EmployeeID: "E100", Source: model.SourceMeal, MealKind: model.ActivityLunch},
			badge("line-3-1", model.DirectionIn, 13, 0),
			badge("gate-1-2", model.DirectionOut, 17, 30),
		},
		Claim: &model.ClaimRecord{
			EmployeeID:   "E100",
			WorkDate:     day,
			ClaimedHours: 8,
			Schedule:     model.ScheduleStandard,
		},
	}

	result, err := testAnalyzer().Analyze(unit)
	require.NoError(t, err)

	require.Len(t, result.Segments, 5)
	assert.Equal(t, model.ActivityCommuteIn, result.Segments[0].Activity)
	assert.Equal(t, 5.0, result.Segments[0].DurationMinutes)

	assert.Equal(t, model.ActivityWork, result.Segments[1].Activity)
	assert.Equal(t, 235.0, result.Segments[1].DurationMinutes)

	assert.Equal(t, model.ActivityLunch, result.Segments[2].Activity)
	assert.Equal(t, 60.0, result.Segments[2].DurationMinutes)
	assert.Equal(t, 100, result.Segments[2].Confidence)

	assert.Equal(t, model.ActivityWork, result.Segments[3].Activity)
	assert.Equal(t, 270.0, result.Segments[3].DurationMinutes)

	assert.Equal(t, model.ActivityCommuteOut, result.Segments[4].Activity)

	assert.InDelta(t, 8.42, result.Summary.ActualWorkHours, 0.001)
	assert.InDelta(t, 105.21, result.Summary.EfficiencyRatio, 0.001)
	assert.False(t, result.Summary.Unverified)
	assert.Equal(t, 4, result.Summary.EventCounts[model.SourceBadge])
	assert.Equal(t, 1, result.Summary.EventCounts[model.SourceMeal])
}

func TestAnalyze_ShortExcursion(t *testing.T) {
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			badge("gate-1-2", model.DirectionOut, 12, 0),
			badge("gate-1-1", model.DirectionIn, 12, 20),
		},
	}

	result, err := testAnalyzer().Analyze(unit)
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, model.ActivityNonWork, result.Segments[0].Activity)
	assert.Equal(t, at(12, 0), result.Segments[0].StartTime)
	assert.Equal(t, at(12, 20), result.Segments[0].EndTime)
	assert.Equal(t, 20.0, result.Segments[0].DurationMinutes)
	assert.Equal(t, 90, result.Segments[0].Confidence)

	// The underlying events keep their protected gate labels.
	assert.Equal(t, model.ActivityCommuteOut, result.Events[0].Activity)
	assert.Equal(t, model.ActivityCommuteIn, result.Events[1].Activity)

	assert.Zero(t, result.Summary.ActualWorkHours)
	assert.True(t, result.Summary.Unverified)
}

func TestAnalyze_SegmentsPartitionTheDay(t *testing.T) {
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			badge("gate-1-1", model.DirectionIn, 8, 0),
			badge("line-3-1", model.DirectionIn, 8, 10),
			{Timestamp: at(12, 10), EmployeeID: "E100", Source: model.SourceMeal},
			{Timestamp: at(14, 0), EmployeeID: "E100", Source: model.SourceEquipment, Payload: "MES"},
			badge("gate-1-2", model.DirectionOut, 18, 0),
		},
	}

	result, err := testAnalyzer().Analyze(unit)
	require.NoError(t, err)
	require.NotEmpty(t, result.Segments)

	for i := 0; i+1 < len(result.Segments); i++ {
		assert.Equal(t, result.Segments[i].EndTime, result.Segments[i+1].StartTime,
			"segment %d must end where segment %d starts", i, i+1)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			badge("gate-1-1", model.DirectionIn, 8, 0),
			badge("line-3-1", model.DirectionIn, 8, 5),
			badge("gate-1-2", model.DirectionOut, 17, 30),
		},
	}

	analyzer := testAnalyzer()
	first, err := analyzer.Analyze(unit)
	require.NoError(t, err)
	second, err := analyzer.Analyze(unit)
	require.NoError(t, err)

	assert.Equal(t, first.Segments, second.Segments)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestAnalyze_NightShiftWindow(t *testing.T) {
	previousEvening := at(22, 0).AddDate(0, 0, -1)
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			{Timestamp: previousEvening, EmployeeID: "E100", DeviceID: "gate-1-1", Direction: model.DirectionIn, Source: model.SourceBadge},
			badge("line-3-1", model.DirectionIn, 2, 0),
			badge("gate-1-2", model.DirectionOut, 7, 0),
		},
		Claim: &model.ClaimRecord{EmployeeID: "E100", WorkDate: day, ClaimedHours: 8, Schedule: model.ScheduleNight},
	}

	result, err := testAnalyzer().Analyze(unit)
	require.NoError(t, err)
	require.NotEmpty(t, result.Segments)
	assert.Equal(t, previousEvening, result.Segments[0].StartTime,
		"night window must include the previous evening's entry")
}

func TestAnalyze_EventsOutsideWindowDropped(t *testing.T) {
	unit := Unit{
		Day:        day,
		EmployeeID: "E100",
		Events: []model.RawEvent{
			{Timestamp: at(9, 0).AddDate(0, 0, -3), EmployeeID: "E100", DeviceID: "line-3-1", Direction: model.DirectionIn, Source: model.SourceBadge},
			badge("line-3-1", model.DirectionIn, 9, 0),
		},
	}

	result, err := testAnalyzer().Analyze(unit)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, at(9, 0), result.Events[0].Timestamp)
}

func TestAnalyze_MissingEmployee(t *testing.T) {
	_, err := testAnalyzer().Analyze(Unit{Day: day})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingEmployee)
}

func TestAnalyze_EmptyDay(t *testing.T) {
	result, err := testAnalyzer().Analyze(Unit{Day: day, EmployeeID: "E100"})
	require.NoError(t, err)
	assert.Empty(t, result.Segments)
	assert.Zero(t, result.Summary.ActualWorkHours)
}
