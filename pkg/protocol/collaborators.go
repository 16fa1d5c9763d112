package protocol

import (
	"context"

	"github.com/voxline/voxline/pkg/models"
)

// ConversationStore is the slice of durable storage the engine writes to:
// resolving conversations and recording outbound messages.
type ConversationStore interface {
	UpdateStatus(ctx context.Context, conversationID string, status models.ConversationStatus) error
	CreateMessage(ctx context.Context, message *models.ConversationMessage) error
}

// SessionTable is the session store surface actions need. It matches
// pkg/session.Store minus lifecycle management.
type SessionTable interface {
	Get(ctx context.Context, callID string) (*models.SessionState, error)
	Put(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, callID string) error
}

// TenantPreferences reads tenant-wide settings (business hours, time zone,
// after-hours behavior, calendar defaults).
type TenantPreferences interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
}

// WorkflowLookup reads workflows for schedule-precedence resolution.
type WorkflowLookup interface {
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
}

// Collaborators bundles every external dependency an action may need.
// Individual actions pick the interfaces they use; nil members make the
// corresponding actions record an error instead of executing.
type Collaborators struct {
	Telephony     TelephonyProvider
	TextGen       TextGenerator
	Knowledge     KnowledgeSearcher
	Email         EmailTransport
	Calendar      CalendarProvider
	Mail          MailProvider
	Drive         DriveProvider
	Sheets        SheetsProvider
	CRM           CRMResolver
	Messages      MessageSender
	Conversations ConversationStore
	Sessions      SessionTable
	Tenants       TenantPreferences
	WorkflowStore WorkflowLookup
}
