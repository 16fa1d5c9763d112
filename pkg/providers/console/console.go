// Package console implements every provider interface against the log
// output. It is the default wiring for local development and demos: side
// effects are printed, not performed, and calls always succeed.
package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

type Providers struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Providers {
	return &Providers{logger: logger.With("module", "console_providers")}
}

func (p *Providers) AnswerCall(_ context.Context, callID string) error {
	p.logger.Info("answer call", "call_id", callID)

	return nil
}

func (p *Providers) SpeakText(_ context.Context, callID, text string) error {
	p.logger.Info("speak", "call_id", callID, "text", text)

	return nil
}

func (p *Providers) StartTranscription(_ context.Context, callID string) error {
	p.logger.Info("start transcription", "call_id", callID)

	return nil
}

func (p *Providers) HangupCall(_ context.Context, callID string) error {
	p.logger.Info("hangup call", "call_id", callID)

	return nil
}

// GenerateResponse echoes the last user turn. A real deployment plugs in
// an LLM provider here.
func (p *Providers) GenerateResponse(_ context.Context, messages []models.Utterance) (string, error) {
	last := ""

	for _, m := range messages {
		if m.Role == models.RoleUser {
			last = m.Content
		}
	}

	return fmt.Sprintf("I heard you say: %s", last), nil
}

func (p *Providers) Search(_ context.Context, query, tenantID string, _ int, _ []string) ([]string, error) {
	p.logger.Info("knowledge search", "tenant_id", tenantID, "query", query)

	return nil, nil
}

func (p *Providers) SendEmail(_ context.Context, email protocol.Email) error {
	p.logger.Info("send email", "to", email.To, "subject", email.Subject, "attachments", len(email.Attachments))

	return nil
}

func (p *Providers) CreateEvent(_ context.Context, tenantID string, event protocol.CalendarEvent) (string, error) {
	p.logger.Info("create calendar event", "tenant_id", tenantID, "title", event.Title, "start", event.Start)

	return uuid.NewString(), nil
}

func (p *Providers) SendMessage(_ context.Context, tenantID string, email protocol.Email) (string, error) {
	p.logger.Info("gmail send", "tenant_id", tenantID, "to", email.To, "subject", email.Subject)

	return uuid.NewString(), nil
}

func (p *Providers) UploadFile(_ context.Context, tenantID, name, mimeType string, content []byte) (*protocol.DriveFile, error) {
	p.logger.Info("drive upload", "tenant_id", tenantID, "name", name, "mime_type", mimeType, "bytes", len(content))

	id := uuid.NewString()

	return &protocol.DriveFile{ID: id, Link: "https://drive.example/" + id}, nil
}

func (p *Providers) AppendRow(_ context.Context, tenantID, spreadsheetID, sheetRange string, values []any) error {
	p.logger.Info("sheets append", "tenant_id", tenantID, "spreadsheet_id", spreadsheetID, "range", sheetRange, "columns", len(values))

	return nil
}

func (p *Providers) SendText(_ context.Context, to, body string) error {
	p.logger.Info("send text", "to", to, "body", body)

	return nil
}

// ProviderFor returns a console CRM regardless of the requested provider.
func (p *Providers) ProviderFor(_ context.Context, tenantID, provider string) (protocol.CRMProvider, error) {
	return &crmProvider{logger: p.logger.With("tenant_id", tenantID, "crm_provider", provider)}, nil
}

type crmProvider struct {
	logger *slog.Logger
}

func (c *crmProvider) SearchContacts(_ context.Context, query string) ([]protocol.CRMContact, error) {
	c.logger.Info("crm search contacts", "query", query)

	return nil, nil
}

func (c *crmProvider) CreateContact(_ context.Context, fields map[string]any) (string, error) {
	c.logger.Info("crm create contact", "fields", len(fields))

	return uuid.NewString(), nil
}

func (c *crmProvider) UpdateContact(_ context.Context, id string, fields map[string]any) error {
	c.logger.Info("crm update contact", "contact_id", id, "fields", len(fields))

	return nil
}

func (c *crmProvider) GetContact(_ context.Context, id string) (*protocol.CRMContact, error) {
	c.logger.Info("crm get contact", "contact_id", id)

	return &protocol.CRMContact{ID: id, Fields: map[string]any{}}, nil
}

func (c *crmProvider) LogActivity(_ context.Context, contactID, note string) error {
	c.logger.Info("crm log activity", "contact_id", contactID, "note", note)

	return nil
}
