package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftsense/shiftsense/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func event(zone model.ZoneCode, hour, minute int) model.ClassifiedEvent {
	return model.ClassifiedEvent{
		RawEvent: model.RawEvent{
			Timestamp:  at(hour, minute),
			EmployeeID: "E100",
			Source:     model.SourceBadge,
		},
		Zone: zone,
	}
}

func badgeEvent(zone model.ZoneCode, dir model.Direction, hour, minute int) model.ClassifiedEvent {
	e := event(zone, hour, minute)
	e.Direction = dir
	return e
}

func TestClassify_RuleTable(t *testing.T) {
	tests := []struct {
		name           string
		event          model.ClassifiedEvent
		wantActivity   model.ActivityCode
		wantConfidence int
		wantProtected  bool
	}{
		{
			name:           "entry gate is protected commute in",
			event:          badgeEvent(model.ZoneEntry, model.DirectionIn, 8, 0),
			wantActivity:   model.ActivityCommuteIn,
			wantConfidence: 100,
			wantProtected:  true,
		},
		{
			name:           "exit gate is protected commute out",
			event:          badgeEvent(model.ZoneExit, model.DirectionOut, 17, 30),
			wantActivity:   model.ActivityCommuteOut,
			wantConfidence: 100,
			wantProtected:  true,
		},
		{
			name:           "primary work zone",
			event:          event(model.ZonePrimaryWork, 9, 0),
			wantActivity:   model.ActivityWork,
			wantConfidence: 85,
		},
		{
			name:           "preparation zone",
			event:          event(model.ZonePreparation, 7, 50),
			wantActivity:   model.ActivityWorkPrep,
			wantConfidence: 90,
		},
		{
			name:           "meeting room badge",
			event:          event(model.ZoneCollaboration, 10, 0),
			wantActivity:   model.ActivityMeeting,
			wantConfidence: 95,
		},
		{
			name:           "training zone",
			event:          event(model.ZoneTraining, 14, 0),
			wantActivity:   model.ActivityTraining,
			wantConfidence: 90,
		},
		{
			name:           "rest zone",
			event:          event(model.ZoneRest, 15, 0),
			wantActivity:   model.ActivityRest,
			wantConfidence: 90,
		},
		{
			name:           "welfare zone",
			event:          event(model.ZoneWelfare, 15, 0),
			wantActivity:   model.ActivityRest,
			wantConfidence: 86,
		},
		{
			name:           "short transit stays movement",
			event:          event(model.ZoneTransit, 10, 30),
			wantActivity:   model.ActivityMovement,
			wantConfidence: 85,
		},
		{
			name:           "unknown zone counts as low confidence work",
			event:          event(model.ZoneUnknown, 11, 0),
			wantActivity:   model.ActivityWork,
			wantConfidence: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]model.ClassifiedEvent{tt.event}, DefaultConfig())
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantActivity, got[0].Activity)
			assert.Equal(t, tt.wantConfidence, got[0].Confidence)
			assert.Equal(t, tt.wantProtected, got[0].Protected)
		})
	}
}

func TestClassify_SustainedWorkConfidence(t *testing.T) {
	events := []model.ClassifiedEvent{
		event(model.ZonePrimaryWork, 9, 0),
		event(model.ZonePrimaryWork, 10, 0),
	}
	got := Classify(events, DefaultConfig())
	assert.Equal(t, 85, got[0].Confidence)
	assert.Equal(t, 90, got[1].Confidence, "second tag after a work-capable zone should read sustained")
}

func TestClassify_SystemUsageRun(t *testing.T) {
	events := []model.ClassifiedEvent{
		event(model.ZoneSystemUsage, 9, 0),
		event(model.ZoneSystemUsage, 9, 10),
		event(model.ZonePrimaryWork, 10, 0),
	}
	got := Classify(events, DefaultConfig())
	assert.Equal(t, 98, got[0].Confidence)
	assert.Equal(t, 98, got[1].Confidence)
	assert.True(t, got[0].Protected)
}

func TestClassify_CalendarMeetingProtected(t *testing.T) {
	end := at(11, 0)
	e := event(model.ZoneCollaboration, 10, 0)
	e.Source = model.SourceMeeting
	e.EndTime = &end

	got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
	assert.Equal(t, model.ActivityMeeting, got[0].Activity)
	assert.Equal(t, 100, got[0].Confidence)
	assert.True(t, got[0].Protected)
}

func TestClassify_MealEvents(t *testing.T) {
	t.Run("dine-in transaction", func(t *testing.T) {
		e := event(model.ZoneMealDineIn, 12, 0)
		e.Source = model.SourceMeal
		got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
		assert.Equal(t, model.ActivityLunch, got[0].Activity)
		assert.Equal(t, 100, got[0].Confidence)
		assert.True(t, got[0].Protected)
		assert.False(t, got[0].TakeoutFlag)
	})

	t.Run("cafeteria badge tag", func(t *testing.T) {
		e := event(model.ZoneMealDineIn, 12, 0)
		got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
		assert.Equal(t, 95, got[0].Confidence)
	})

	t.Run("takeout sets flag", func(t *testing.T) {
		e := event(model.ZoneMealTakeout, 18, 30)
		e.Source = model.SourceMeal
		got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
		assert.Equal(t, model.ActivityDinner, got[0].Activity)
		assert.Equal(t, 100, got[0].Confidence)
		assert.True(t, got[0].TakeoutFlag)
	})

	t.Run("transaction category overrides the clock", func(t *testing.T) {
		e := event(model.ZoneMealDineIn, 12, 0)
		e.Source = model.SourceMeal
		e.MealKind = model.ActivityDinner
		got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
		assert.Equal(t, model.ActivityDinner, got[0].Activity)
		assert.Equal(t, 100, got[0].Confidence)
	})

	t.Run("badge tag without a category uses the clock", func(t *testing.T) {
		e := event(model.ZoneMealDineIn, 18, 10)
		got := Classify([]model.ClassifiedEvent{e}, DefaultConfig())
		assert.Equal(t, model.ActivityDinner, got[0].Activity)
	})
}

func TestMealSubtype(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want model.ActivityCode
	}{
		{"breakfast window", at(7, 30), model.ActivityBreakfast},
		{"lunch window start", at(11, 20), model.ActivityLunch},
		{"lunch window end is exclusive", at(13, 20), model.ActivityLunch},
		{"dinner window", at(18, 0), model.ActivityDinner},
		{"midnight window late", at(23, 45), model.ActivityMidnightMeal},
		{"midnight window early", at(0, 30), model.ActivityMidnightMeal},
		{"mid-morning falls back to breakfast", at(9, 30), model.ActivityBreakfast},
		{"mid-afternoon falls back to lunch", at(14, 0), model.ActivityLunch},
		{"evening falls back to dinner", at(21, 0), model.ActivityDinner},
		{"late night falls back to midnight", at(22, 30), model.ActivityMidnightMeal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MealSubtype(tt.ts))
		})
	}
}

func TestClassify_Tailgating(t *testing.T) {
	t.Run("run over threshold becomes work", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneTransit, 9, 0),
			event(model.ZoneTransit, 9, 20),
			event(model.ZonePrimaryWork, 9, 45),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityWork, got[0].Activity)
		assert.Equal(t, 85, got[0].Confidence)
		assert.Equal(t, model.ActivityWork, got[1].Activity)
	})

	t.Run("run at threshold stays movement", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneTransit, 9, 0),
			event(model.ZonePrimaryWork, 9, 30),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityMovement, got[0].Activity)
	})

	t.Run("very long run drops confidence", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneTransit, 9, 0),
			event(model.ZoneTransit, 10, 30),
			event(model.ZonePrimaryWork, 11, 30),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityWork, got[0].Activity)
		assert.Equal(t, 60, got[0].Confidence)
	})
}

func TestClassify_PreMealExit(t *testing.T) {
	t.Run("exit shortly before meal becomes movement", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			badgeEvent(model.ZoneRest, model.DirectionOut, 11, 50),
			meal,
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityMovement, got[0].Activity)
		assert.Equal(t, 95, got[0].Confidence, "within the near window")
	})

	t.Run("exit in outer window gets lower confidence", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			badgeEvent(model.ZoneRest, model.DirectionOut, 11, 35),
			meal,
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityMovement, got[0].Activity)
		assert.Equal(t, 90, got[0].Confidence)
	})

	t.Run("perimeter exit keeps its protected label", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			badgeEvent(model.ZoneExit, model.DirectionOut, 11, 50),
			meal,
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityCommuteOut, got[0].Activity)
		assert.Equal(t, 100, got[0].Confidence)
	})

	t.Run("exit outside the adjacency window falls to the idle pass", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			badgeEvent(model.ZoneRest, model.DirectionOut, 11, 20),
			meal,
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityNonWork, got[0].Activity)
	})
}

func TestClassify_PostMealReentry(t *testing.T) {
	t.Run("first re-entry after meal becomes work", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			meal,
			badgeEvent(model.ZoneRest, model.DirectionIn, 12, 25),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityWork, got[1].Activity)
		assert.Equal(t, 95, got[1].Confidence)
	})

	t.Run("perimeter entry stays commute in", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			meal,
			badgeEvent(model.ZoneEntry, model.DirectionIn, 12, 25),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityCommuteIn, got[1].Activity)
	})

	t.Run("re-entry past the window is untouched", func(t *testing.T) {
		meal := event(model.ZoneMealDineIn, 12, 0)
		meal.Source = model.SourceMeal
		events := []model.ClassifiedEvent{
			meal,
			badgeEvent(model.ZoneRest, model.DirectionIn, 12, 45),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityRest, got[1].Activity)
	})
}

func TestClassify_IdleDwell(t *testing.T) {
	t.Run("long rest dwell becomes non-work", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneRest, 15, 0),
			event(model.ZonePrimaryWork, 15, 20),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityNonWork, got[0].Activity)
		assert.Equal(t, 85, got[0].Confidence)
	})

	t.Run("short rest dwell stays rest", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneRest, 15, 0),
			event(model.ZonePrimaryWork, 15, 5),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityRest, got[0].Activity)
	})

	t.Run("welfare runs merge with rest runs", func(t *testing.T) {
		events := []model.ClassifiedEvent{
			event(model.ZoneRest, 15, 0),
			event(model.ZoneWelfare, 15, 8),
			event(model.ZonePrimaryWork, 15, 30),
		}
		got := Classify(events, DefaultConfig())
		assert.Equal(t, model.ActivityNonWork, got[0].Activity)
		assert.Equal(t, model.ActivityNonWork, got[1].Activity)
	})
}

func TestClassify_GateLabelsNeverRewritten(t *testing.T) {
	// Mixed sequence exercising every pass at once; the perimeter gate
	// events must come out labeled commute regardless.
	meal := event(model.ZoneMealDineIn, 12, 0)
	meal.Source = model.SourceMeal
	events := []model.ClassifiedEvent{
		badgeEvent(model.ZoneEntry, model.DirectionIn, 8, 0),
		event(model.ZoneTransit, 8, 5),
		event(model.ZoneTransit, 9, 0),
		meal,
		badgeEvent(model.ZoneRest, model.DirectionIn, 12, 20),
		event(model.ZoneRest, 15, 0),
		event(model.ZoneRest, 15, 30),
		badgeEvent(model.ZoneExit, model.DirectionOut, 17, 30),
	}

	got := Classify(events, DefaultConfig())
	assert.Equal(t, model.ActivityCommuteIn, got[0].Activity)
	assert.Equal(t, 100, got[0].Confidence)
	assert.Equal(t, model.ActivityCommuteOut, got[len(got)-1].Activity)
	assert.Equal(t, 100, got[len(got)-1].Confidence)
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	events := []model.ClassifiedEvent{event(model.ZonePrimaryWork, 9, 0)}
	_ = Classify(events, DefaultConfig())
	assert.Empty(t, events[0].Activity, "input slice must stay untouched")
}

func TestExcursions(t *testing.T) {
	t.Run("out and back bracket", func(t *testing.T) {
		events := Classify([]model.ClassifiedEvent{
			badgeEvent(model.ZoneExit, model.DirectionOut, 12, 0),
			badgeEvent(model.ZoneEntry, model.DirectionIn, 12, 20),
		}, DefaultConfig())

		got := Excursions(events, DefaultConfig())
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Out)
		assert.Equal(t, 1, got[0].In)
		assert.Equal(t, 90, got[0].Confidence)
	})

	t.Run("long absence gains confidence", func(t *testing.T) {
		events := Classify([]model.ClassifiedEvent{
			badgeEvent(model.ZoneExit, model.DirectionOut, 12, 0),
			badgeEvent(model.ZoneEntry, model.DirectionIn, 16, 0),
		}, DefaultConfig())

		got := Excursions(events, DefaultConfig())
		require.Len(t, got, 1)
		assert.Equal(t, 95, got[0].Confidence)
	})

	t.Run("work-capable zone in between blocks the bracket", func(t *testing.T) {
		events := Classify([]model.ClassifiedEvent{
			badgeEvent(model.ZoneExit, model.DirectionOut, 12, 0),
			event(model.ZonePrimaryWork, 12, 10),
			badgeEvent(model.ZoneEntry, model.DirectionIn, 12, 20),
		}, DefaultConfig())

		assert.Empty(t, Excursions(events, DefaultConfig()))
	})

	t.Run("unmatched exit at end of day is not a bracket", func(t *testing.T) {
		events := Classify([]model.ClassifiedEvent{
			event(model.ZonePrimaryWork, 9, 0),
			badgeEvent(model.ZoneExit, model.DirectionOut, 17, 30),
		}, DefaultConfig())

		assert.Empty(t, Excursions(events, DefaultConfig()))
	})
}
