package models

// WeeklySchedule is a raw weekly business-hours document. Two shapes are
// accepted for backward compatibility:
//
//	{"monday": {"start": "09:00", "end": "17:00"}, ...}
//	{"days": {"mon": {"enabled": true, "start": "09:00", "end": "17:00"}, ...}}
//
// Parsing lives in pkg/hours; the model keeps the document opaque.
type WeeklySchedule map[string]any

// AfterHoursMode controls whether a closed tenant auto-replies to inbound
// messages.
type AfterHoursMode string

const (
	AfterHoursAlways           AfterHoursMode = "ALWAYS"
	AfterHoursOnlyOnEscalation AfterHoursMode = "ONLY_ON_ESCALATION"
)

// Tenant holds the per-tenant preferences the engine consults at trigger
// time.
type Tenant struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"     validate:"required"`
	Timezone          string         `json:"timezone"`
	BusinessHours     WeeklySchedule `json:"business_hours,omitempty"`
	AfterHoursMode    AfterHoursMode `json:"after_hours_mode,omitempty"`
	AfterHoursMessage string         `json:"after_hours_message,omitempty"`
	CalendarEmail     string         `json:"calendar_email,omitempty"`
}

// Agent is a human operator that may be assigned to a workflow. Agent
// working hours take precedence over workflow and tenant schedules when
// validating meeting times.
type Agent struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenant_id"`
	Name         string         `json:"name"  validate:"required"`
	Email        string         `json:"email" validate:"omitempty,email"`
	Timezone     string         `json:"timezone,omitempty"`
	WorkingHours WeeklySchedule `json:"working_hours,omitempty"`
}

// AIPersona configures the conversational agent for voice sessions.
type AIPersona struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
	ToneOfVoice  string `json:"tone_of_voice,omitempty"`
	Greeting     string `json:"greeting,omitempty"`
}

// Document is a knowledge-base document attached to a workflow.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PhoneNumber is a provisioned number linked to a tenant.
type PhoneNumber struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Number   string `json:"number" validate:"required"`
}

// Integration is a connected third-party provider account.
type Integration struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Provider string `json:"provider"` // e.g. "hubspot", "google"
	Active   bool   `json:"active"`
}

// Resources are the read-only references assembled once at trigger time.
type Resources struct {
	Persona      *AIPersona    `json:"persona,omitempty"`
	Agent        *Agent        `json:"agent,omitempty"`
	Documents    []Document    `json:"documents,omitempty"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers,omitempty"`
	Integrations []Integration `json:"integrations,omitempty"`
}
