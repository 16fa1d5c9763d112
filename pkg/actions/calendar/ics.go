package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxline/voxline/pkg/protocol"
)

// BuildICS renders a minimal deterministic iCalendar invite for the event.
// The UID derives from the title and start time so re-running the same
// node produces the same invite.
func BuildICS(event protocol.CalendarEvent) string {
	start := icsTime(event.Start)
	end := icsTime(event.End)
	uid := fmt.Sprintf("%s-%s@voxline", slug(event.Title), start)

	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Voxline//Workflow Engine//EN\r\n")
	b.WriteString("METHOD:REQUEST\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString("UID:" + uid + "\r\n")
	b.WriteString("DTSTART:" + start + "\r\n")
	b.WriteString("DTEND:" + end + "\r\n")
	b.WriteString("SUMMARY:" + escapeText(event.Title) + "\r\n")

	if event.Description != "" {
		b.WriteString("DESCRIPTION:" + escapeText(event.Description) + "\r\n")
	}

	for _, attendee := range event.Attendees {
		b.WriteString("ATTENDEE;RSVP=TRUE:mailto:" + attendee + "\r\n")
	}

	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")

	return b.String()
}

func icsTime(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return strings.NewReplacer("-", "", ":", "").Replace(rfc3339)
	}

	return t.UTC().Format("20060102T150405Z")
}

func escapeText(s string) string {
	return strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	).Replace(s)
}

func slug(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}

	if b.Len() == 0 {
		return "event"
	}

	return b.String()
}
