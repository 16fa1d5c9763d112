// Package persistence provides the storage abstraction consumed by the
// trigger resolver and the execution engine. Implementations are opaque
// collaborators; the engine only sees these repositories.
package persistence

import (
	"context"

	"github.com/voxline/voxline/pkg/models"
)

type Persistence interface {
	Workflows() WorkflowRepository
	Tenants() TenantRepository
	Agents() AgentRepository
	Conversations() ConversationRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository resolves workflows for matching and execution.
type WorkflowRepository interface {
	// FindActive returns the best-matching active workflow for the trigger
	// type: a workflow explicitly linked to the destination number wins,
	// otherwise the most-recently-updated active workflow of that trigger
	// type. An empty tenantID searches across tenants.
	FindActive(ctx context.Context, tenantID, triggerType, destinationNumber string) (*models.Workflow, error)

	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	ListActive(ctx context.Context) ([]*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
}

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	Save(ctx context.Context, tenant *models.Tenant) error
}

type AgentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Agent, error)
	Save(ctx context.Context, agent *models.Agent) error
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	Save(ctx context.Context, conversation *models.Conversation) error
	UpdateStatus(ctx context.Context, id string, status models.ConversationStatus) error
	CreateMessage(ctx context.Context, message *models.ConversationMessage) error
}
