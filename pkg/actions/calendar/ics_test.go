package calendar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxline/voxline/pkg/protocol"
)

func TestBuildICS(t *testing.T) {
	ics := BuildICS(protocol.CalendarEvent{
		Title:       "Dental Checkup",
		Description: "Cleaning, then x-rays",
		Start:       "2026-09-10T14:00:00Z",
		End:         "2026-09-10T14:30:00Z",
		Attendees:   []string{"ada@example.com"},
	})

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "METHOD:REQUEST\r\n")
	assert.Contains(t, ics, "UID:dental-checkup-20260910T140000Z@voxline\r\n")
	assert.Contains(t, ics, "DTSTART:20260910T140000Z\r\n")
	assert.Contains(t, ics, "DTEND:20260910T143000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:Dental Checkup\r\n")
	assert.Contains(t, ics, "DESCRIPTION:Cleaning\\, then x-rays\r\n")
	assert.Contains(t, ics, "ATTENDEE;RSVP=TRUE:mailto:ada@example.com\r\n")
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
}

func TestBuildICS_NormalizesToUTC(t *testing.T) {
	ics := BuildICS(protocol.CalendarEvent{
		Title: "Call",
		Start: "2026-09-10T10:00:00-04:00",
		End:   "2026-09-10T10:30:00-04:00",
	})

	assert.Contains(t, ics, "DTSTART:20260910T140000Z")
	assert.Contains(t, ics, "DTEND:20260910T143000Z")
}

func TestBuildICS_DeterministicUID(t *testing.T) {
	event := protocol.CalendarEvent{Title: "Checkup", Start: "2026-09-10T14:00:00Z", End: "2026-09-10T15:00:00Z"}

	assert.Equal(t, BuildICS(event), BuildICS(event))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "dental-checkup", slug("Dental Checkup"))
	assert.Equal(t, "event", slug("!!!"))
}
