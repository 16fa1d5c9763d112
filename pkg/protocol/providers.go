// Package protocol defines the contracts between the engine core and its
// external collaborators. The engine never touches provider transports;
// every side effect goes through one of these narrow interfaces.
package protocol

import (
	"context"
	"errors"

	"github.com/voxline/voxline/pkg/models"
)

// ErrAPIDisabled marks a provider rejection caused by a disabled upstream
// API, logged distinctly from generic failures at the action sites.
var ErrAPIDisabled = errors.New("provider API disabled")

// TelephonyProvider drives the carrier leg of a voice call.
type TelephonyProvider interface {
	AnswerCall(ctx context.Context, callID string) error
	SpeakText(ctx context.Context, callID, text string) error
	StartTranscription(ctx context.Context, callID string) error
	HangupCall(ctx context.Context, callID string) error
}

// TextGenerator produces a conversational response from a message history.
type TextGenerator interface {
	GenerateResponse(ctx context.Context, messages []models.Utterance) (string, error)
}

// KnowledgeSearcher retrieves document snippets scoped to a tenant.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query, tenantID string, limit int, documentIDs []string) ([]string, error)
}

// Attachment is an email attachment.
type Attachment struct {
	Filename string
	MIMEType string
	Content  []byte
}

// Email is an outbound email message.
type Email struct {
	To          string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []Attachment
}

// EmailTransport delivers email through the platform's own transport.
type EmailTransport interface {
	SendEmail(ctx context.Context, email Email) error
}

// CalendarEvent is a proposed calendar entry.
type CalendarEvent struct {
	Title       string
	Description string
	Start       string // RFC 3339
	End         string // RFC 3339
	Timezone    string
	Attendees   []string
	CalendarID  string
}

// CalendarProvider creates events on a tenant's connected calendar.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, tenantID string, event CalendarEvent) (string, error)
}

// MailProvider sends mail through a tenant's connected mailbox (Gmail).
type MailProvider interface {
	SendMessage(ctx context.Context, tenantID string, email Email) (string, error)
}

// DriveFile describes an uploaded file.
type DriveFile struct {
	ID   string
	Link string
}

// DriveProvider uploads files to a tenant's connected drive.
type DriveProvider interface {
	UploadFile(ctx context.Context, tenantID, name, mimeType string, content []byte) (*DriveFile, error)
}

// SheetsProvider appends rows to a tenant's connected spreadsheet.
type SheetsProvider interface {
	AppendRow(ctx context.Context, tenantID, spreadsheetID, sheetRange string, values []any) error
}

// CRMContact is a provider-agnostic contact record.
type CRMContact struct {
	ID     string
	Fields map[string]any
}

// CRMProvider exposes the named operations the CRM actions need.
type CRMProvider interface {
	SearchContacts(ctx context.Context, query string) ([]CRMContact, error)
	CreateContact(ctx context.Context, fields map[string]any) (string, error)
	UpdateContact(ctx context.Context, id string, fields map[string]any) error
	GetContact(ctx context.Context, id string) (*CRMContact, error)
	LogActivity(ctx context.Context, contactID, note string) error
}

// CRMResolver resolves a tenant-scoped CRM provider by connection lookup.
// A missing or inactive connection returns an error; the action records it
// instead of halting the graph.
type CRMResolver interface {
	ProviderFor(ctx context.Context, tenantID, provider string) (CRMProvider, error)
}

// MessageSender delivers outbound text messages on the chat/SMS channel.
type MessageSender interface {
	SendText(ctx context.Context, to, body string) error
}
