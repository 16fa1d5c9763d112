package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxline/voxline/pkg/models"
)

func flatSchedule(start, end string) models.WeeklySchedule {
	schedule := models.WeeklySchedule{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		schedule[day] = map[string]any{"start": start, "end": end}
	}

	return schedule
}

func at(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}

	return parsed
}

func TestIsOpen_DaytimeWindow(t *testing.T) {
	schedule := flatSchedule("09:00", "17:00")

	assert.True(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T10:30:00Z")))
	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T08:59:00Z")))
	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T18:00:00Z")))
}

func TestIsOpen_ResolvesTimezone(t *testing.T) {
	schedule := flatSchedule("09:00", "17:00")

	// 14:00 UTC is 10:00 in New York (EDT): open there, but a Tokyo
	// schedule (23:00 local) is closed.
	instant := at(t, "2026-09-01T14:00:00Z")
	assert.True(t, IsOpen(schedule, "America/New_York", instant))
	assert.False(t, IsOpen(schedule, "Asia/Tokyo", instant))
}

func TestIsOpen_OvernightWindow(t *testing.T) {
	schedule := flatSchedule("22:00", "06:00")

	// Open after the window starts, same calendar day.
	assert.True(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T23:00:00Z")))

	// Open in the early morning, covered by yesterday's wrapped window.
	assert.True(t, IsOpen(schedule, "UTC", at(t, "2026-09-02T05:00:00Z")))

	// Closed after the wrapped window ends.
	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-02T07:00:00Z")))
}

func TestFitsWorkingHours_IntervalInsideWindow(t *testing.T) {
	schedule := flatSchedule("09:00", "17:00")

	assert.True(t, FitsWorkingHours(schedule, "UTC", at(t, "2026-09-01T10:00:00Z"), at(t, "2026-09-01T11:00:00Z")))
	assert.False(t, FitsWorkingHours(schedule, "UTC", at(t, "2026-09-01T16:30:00Z"), at(t, "2026-09-01T17:30:00Z")))
}

func TestFitsWorkingHours_OvernightInterval(t *testing.T) {
	schedule := flatSchedule("22:00", "06:00")

	assert.True(t, FitsWorkingHours(schedule, "UTC", at(t, "2026-09-01T23:00:00Z"), at(t, "2026-09-01T23:30:00Z")))
	assert.True(t, FitsWorkingHours(schedule, "UTC", at(t, "2026-09-02T05:00:00Z"), at(t, "2026-09-02T05:30:00Z")))
	assert.False(t, FitsWorkingHours(schedule, "UTC", at(t, "2026-09-02T07:00:00Z"), at(t, "2026-09-02T07:30:00Z")))
}

func TestFitsWorkingHours_EmptyScheduleIsClosed(t *testing.T) {
	assert.False(t, IsOpen(nil, "UTC", at(t, "2026-09-01T10:00:00Z")))
	assert.False(t, IsOpen(models.WeeklySchedule{}, "UTC", at(t, "2026-09-01T10:00:00Z")))
}

func TestDayWindow_WrappedShapeAndShortKeys(t *testing.T) {
	schedule := models.WeeklySchedule{
		"days": map[string]any{
			"tue": map[string]any{"enabled": true, "start": "09:00", "end": "17:00"},
			"wed": map[string]any{"enabled": false, "start": "09:00", "end": "17:00"},
		},
	}

	// 2026-09-01 is a Tuesday.
	assert.True(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T10:00:00Z")))

	// Wednesday is present but disabled.
	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-02T10:00:00Z")))

	// Thursday is not in the schedule at all.
	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-03T10:00:00Z")))
}

func TestDayWindow_InvalidClockIsClosed(t *testing.T) {
	schedule := models.WeeklySchedule{
		"tuesday": map[string]any{"start": "nine", "end": "17:00"},
	}

	assert.False(t, IsOpen(schedule, "UTC", at(t, "2026-09-01T10:00:00Z")))
}

func TestIsOpen_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	schedule := flatSchedule("09:00", "17:00")

	assert.True(t, IsOpen(schedule, "Not/AZone", at(t, "2026-09-01T10:00:00Z")))
}

func TestEffective_Precedence(t *testing.T) {
	tenant := &models.Tenant{
		Timezone:      "America/Chicago",
		BusinessHours: flatSchedule("08:00", "16:00"),
	}
	wf := &models.Workflow{
		BusinessHours: flatSchedule("09:00", "17:00"),
	}
	agent := &models.Agent{
		Timezone:     "Europe/Lisbon",
		WorkingHours: flatSchedule("10:00", "18:00"),
	}

	schedule, tz := Effective(agent, wf, tenant)
	assert.Equal(t, agent.WorkingHours, schedule)
	assert.Equal(t, "Europe/Lisbon", tz)

	schedule, tz = Effective(nil, wf, tenant)
	assert.Equal(t, wf.BusinessHours, schedule)
	assert.Equal(t, "America/Chicago", tz) // workflow has no timezone of its own

	schedule, tz = Effective(nil, nil, tenant)
	assert.Equal(t, tenant.BusinessHours, schedule)
	assert.Equal(t, "America/Chicago", tz)

	schedule, tz = Effective(nil, nil, nil)
	assert.Nil(t, schedule)
	assert.Empty(t, tz)
}
