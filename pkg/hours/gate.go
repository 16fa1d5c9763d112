// Package hours implements the time-zone-aware business-hours gate used for
// trigger gating and for validating proposed meeting times.
package hours

import (
	"strings"
	"time"

	"github.com/voxline/voxline/pkg/models"
)

// Window is a single day's working window in "HH:MM" wall-clock time.
type Window struct {
	Start string
	End   string
}

var shortDayNames = map[time.Weekday]string{
	time.Sunday:    "sun",
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
}

// IsOpen reports whether the instant falls inside the schedule's working
// window, resolving the instant into the given time zone. A missing or
// unparseable schedule is closed.
func IsOpen(schedule models.WeeklySchedule, timezone string, now time.Time) bool {
	return FitsWorkingHours(schedule, timezone, now, now)
}

// FitsWorkingHours reports whether the interval [start, end) fits inside a
// single working window. Overnight shifts (end <= start) roll the window
// end to the next calendar day; an interval starting before that day's
// window is also checked against the previous day's wrapped window.
func FitsWorkingHours(schedule models.WeeklySchedule, timezone string, start, end time.Time) bool {
	if len(schedule) == 0 {
		return false
	}

	loc := loadLocation(timezone)
	start = start.In(loc)
	end = end.In(loc)

	if fitsDayWindow(schedule, start, end, 0) {
		return true
	}

	// An overnight window opened yesterday can still cover the interval.
	return fitsDayWindow(schedule, start, end, -1)
}

func fitsDayWindow(schedule models.WeeklySchedule, start, end time.Time, dayOffset int) bool {
	anchor := start.AddDate(0, 0, dayOffset)

	window, ok := dayWindow(schedule, anchor.Weekday())
	if !ok {
		return false
	}

	windowStart, ok := atClock(anchor, window.Start)
	if !ok {
		return false
	}

	windowEnd, ok := atClock(anchor, window.End)
	if !ok {
		return false
	}

	if !windowEnd.After(windowStart) {
		windowEnd = windowEnd.AddDate(0, 0, 1) // overnight shift
	}

	// Candidate end rolls forward a day when it is not already after the
	// start (an overnight meeting given in same-day wall clock). Equal
	// instants are point-in-time open-now checks and stay put.
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return !start.Before(windowStart) && !end.After(windowEnd)
}

// dayWindow extracts the weekday's window, accepting both the flat
// {day: {start, end}} shape and the {days: {day: {enabled, start, end}}}
// variant, with short or long weekday-name keys.
func dayWindow(schedule models.WeeklySchedule, weekday time.Weekday) (Window, bool) {
	source := schedule

	if days, ok := schedule["days"].(map[string]any); ok {
		source = days
	}

	entry := lookupDay(source, weekday)
	if entry == nil {
		return Window{}, false
	}

	if enabled, ok := entry["enabled"].(bool); ok && !enabled {
		return Window{}, false
	}

	start, _ := entry["start"].(string)

	end, _ := entry["end"].(string)
	if !validClock(start) || !validClock(end) {
		return Window{}, false
	}

	return Window{Start: start, End: end}, true
}

func lookupDay(source map[string]any, weekday time.Weekday) map[string]any {
	long := strings.ToLower(weekday.String())
	short := shortDayNames[weekday]

	for key, value := range source {
		k := strings.ToLower(key)
		if k != long && k != short {
			continue
		}

		if entry, ok := value.(map[string]any); ok {
			return entry
		}
	}

	return nil
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)

	return err == nil
}

func atClock(day time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

func loadLocation(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Effective resolves the schedule precedence: a per-agent schedule wins
// over a per-workflow schedule, which wins over the tenant default. The
// returned time zone follows the same precedence.
func Effective(agent *models.Agent, workflow *models.Workflow, tenant *models.Tenant) (models.WeeklySchedule, string) {
	if agent != nil && len(agent.WorkingHours) > 0 {
		return agent.WorkingHours, firstNonEmpty(agent.Timezone, tenantTimezone(tenant))
	}

	if workflow != nil && len(workflow.BusinessHours) > 0 {
		return workflow.BusinessHours, firstNonEmpty(workflow.Timezone, tenantTimezone(tenant))
	}

	if tenant != nil {
		return tenant.BusinessHours, tenant.Timezone
	}

	return nil, ""
}

func tenantTimezone(tenant *models.Tenant) string {
	if tenant == nil {
		return ""
	}

	return tenant.Timezone
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
