package file

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/persistence"
)

type TenantRepository struct {
	store *Persistence
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.store.read("tenants", id, &tenant, persistence.ErrTenantNotFound); err != nil {
		return nil, err
	}

	return &tenant, nil
}

func (r *TenantRepository) Save(ctx context.Context, tenant *models.Tenant) error {
	if err := r.store.validate.Struct(tenant); err != nil {
		return fmt.Errorf("invalid tenant: %w", err)
	}

	return r.store.write("tenants", tenant.ID, tenant)
}

type AgentRepository struct {
	store *Persistence
}

func (r *AgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.store.read("agents", id, &agent, persistence.ErrAgentNotFound); err != nil {
		return nil, err
	}

	return &agent, nil
}

func (r *AgentRepository) Save(ctx context.Context, agent *models.Agent) error {
	if err := r.store.validate.Struct(agent); err != nil {
		return fmt.Errorf("invalid agent: %w", err)
	}

	return r.store.write("agents", agent.ID, agent)
}

type ConversationRepository struct {
	store *Persistence
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.store.read("conversations", id, &conversation, persistence.ErrConversationNotFound); err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) Save(ctx context.Context, conversation *models.Conversation) error {
	return r.store.write("conversations", conversation.ID, conversation)
}

func (r *ConversationRepository) UpdateStatus(ctx context.Context, id string, status models.ConversationStatus) error {
	conversation, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	conversation.Status = status
	conversation.UpdatedAt = time.Now().UTC()

	return r.Save(ctx, conversation)
}

func (r *ConversationRepository) CreateMessage(ctx context.Context, message *models.ConversationMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	return r.store.write("messages", message.ID, message)
}
