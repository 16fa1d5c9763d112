// Package calendar implements the Create Calendar Event action node. Event
// creation on the connected calendar is best-effort; the .ics invite email
// is always sent so the attendee receives the meeting even when the
// calendar integration is disconnected.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/hours"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/variables"
)

type Config struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Attendees   any    `mapstructure:"attendees"` // []string or comma-separated string
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	Timezone    string `mapstructure:"timezone"`
	CalendarID  string `mapstructure:"calendarId"`
}

type Action struct {
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	attendees := a.resolveAttendees(ectx)
	if len(attendees) == 0 {
		logger.Warn("no attendees resolved for calendar event, skipping")

		return nil
	}

	start, end, timezone, err := a.resolveInterval(ectx)
	if err != nil {
		logger.Warn("could not resolve meeting interval, skipping", "error", err)
		variables.Set("variables.workflow.calendarError", err.Error(), ectx)

		return nil
	}

	if !a.fitsWorkingHours(ctx, ectx, start, end, timezone) {
		logger.Warn("proposed meeting is outside working hours, skipping",
			"start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339))
		variables.Set("variables.workflow.calendarError", "proposed time outside working hours", ectx)

		return nil
	}

	event := protocol.CalendarEvent{
		Title:       a.config.Title,
		Description: a.config.Description,
		Start:       start.Format(time.RFC3339),
		End:         end.Format(time.RFC3339),
		Timezone:    timezone,
		Attendees:   attendees,
		CalendarID:  a.config.CalendarID,
	}

	// Best-effort provider call; a disconnected calendar must not block
	// the invite email below.
	if a.collab.Calendar != nil {
		eventID, err := a.collab.Calendar.CreateEvent(ctx, ectx.TenantID, event)
		if err != nil {
			logger.Error("calendar provider event creation failed, continuing with invite", "error", err)
		} else {
			variables.Set("variables.workflow.calendarEventId", eventID, ectx)
		}
	}

	a.sendInvite(ctx, ectx, event, logger)

	return nil
}

func (a *Action) resolveAttendees(ectx *models.ExecutionContext) []string {
	switch v := a.config.Attendees.(type) {
	case []any:
		var out []string

		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}

		if len(out) > 0 {
			return out
		}
	case string:
		var out []string

		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}

		if len(out) > 0 {
			return out
		}
	}

	if email, ok := ectx.Customer["email"].(string); ok && email != "" {
		return []string{email}
	}

	return nil
}

// resolveInterval takes start/end/timezone from config, falling back to
// the nested meeting block of the trigger payload.
func (a *Action) resolveInterval(ectx *models.ExecutionContext) (time.Time, time.Time, string, error) {
	startRaw := a.config.Start
	if startRaw == "" {
		startRaw = payloadString(ectx, "meeting", "start")
	}

	endRaw := a.config.End
	if endRaw == "" {
		endRaw = payloadString(ectx, "meeting", "end")
	}

	timezone := a.config.Timezone
	if timezone == "" {
		timezone = payloadString(ectx, "meeting", "timezone")
	}

	start, err := parseWhen(startRaw, timezone)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid start time %q: %w", startRaw, err)
	}

	end, err := parseWhen(endRaw, timezone)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid end time %q: %w", endRaw, err)
	}

	return start, end, timezone, nil
}

func (a *Action) fitsWorkingHours(ctx context.Context, ectx *models.ExecutionContext, start, end time.Time, timezone string) bool {
	var tenant *models.Tenant
	if a.collab.Tenants != nil {
		tenant, _ = a.collab.Tenants.GetByID(ctx, ectx.TenantID)
	}

	var workflow *models.Workflow
	if a.collab.WorkflowStore != nil {
		workflow, _ = a.collab.WorkflowStore.GetByID(ctx, ectx.WorkflowID)
	}

	schedule, scheduleTZ := hours.Effective(ectx.Resources.Agent, workflow, tenant)
	if timezone != "" {
		scheduleTZ = timezone
	}

	return hours.FitsWorkingHours(schedule, scheduleTZ, start, end)
}

func (a *Action) sendInvite(ctx context.Context, ectx *models.ExecutionContext, event protocol.CalendarEvent, logger *slog.Logger) {
	if a.collab.Email == nil {
		logger.Warn("no email transport configured, invite not sent")

		return
	}

	invite := BuildICS(event)

	for _, attendee := range event.Attendees {
		err := a.collab.Email.SendEmail(ctx, protocol.Email{
			To:      attendee,
			Subject: "Invitation: " + event.Title,
			Body:    event.Description,
			Attachments: []protocol.Attachment{{
				Filename: "invite.ics",
				MIMEType: "text/calendar",
				Content:  []byte(invite),
			}},
		})
		if err != nil {
			logger.Error("failed to send invite email", "to", attendee, "error", err)
			variables.Set("variables.workflow.calendarInviteError", err.Error(), ectx)
		}
	}
}

func payloadString(ectx *models.ExecutionContext, block, key string) string {
	nested, ok := ectx.Trigger.Payload[block].(map[string]any)
	if !ok {
		return ""
	}

	s, _ := nested[key].(string)

	return s
}

func parseWhen(raw, timezone string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing value")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}

	return time.ParseInLocation("2006-01-02 15:04", raw, loc)
}

type Factory struct {
	collab *protocol.Collaborators
}

func NewFactory(collab *protocol.Collaborators) *Factory {
	return &Factory{collab: collab}
}

func (f *Factory) Label() string { return models.ActionCreateCalendarEvent }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"start":       map[string]any{"type": "string"},
			"end":         map[string]any{"type": "string"},
			"timezone":    map[string]any{"type": "string"},
			"calendarId":  map[string]any{"type": "string"},
		},
		"required": []any{"title"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode Create Calendar Event config: %w", err)
	}

	return &Action{config: cfg, collab: f.collab}, nil
}
