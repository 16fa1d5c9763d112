// Package crm implements the CRM action nodes. All five labels share one
// action that dispatches on the operation; the provider is resolved per
// tenant by connection lookup, and a missing or inactive connection is
// recorded into the workflow variables rather than halting the graph.
package crm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/variables"
)

type Config struct {
	Provider  string         `mapstructure:"provider"`
	Query     string         `mapstructure:"query"`
	ContactID string         `mapstructure:"contactId"`
	Fields    map[string]any `mapstructure:"fields"`
	Note      string         `mapstructure:"note"`
}

type Action struct {
	label  string
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	provider, err := a.collab.CRM.ProviderFor(ctx, ectx.TenantID, a.config.Provider)
	if err != nil {
		logger.Warn("no usable CRM connection", "provider", a.config.Provider, "error", err)
		variables.Set("variables.workflow.crmError", err.Error(), ectx)

		return nil
	}

	switch a.label {
	case models.ActionCRMSearchContact:
		a.search(ctx, provider, ectx, logger)
	case models.ActionCRMCreateContact:
		a.create(ctx, provider, ectx, logger)
	case models.ActionCRMUpdateContact:
		a.update(ctx, provider, ectx, logger)
	case models.ActionCRMGetContact:
		a.get(ctx, provider, ectx, logger)
	case models.ActionCRMLogActivity:
		a.logActivity(ctx, provider, ectx, logger)
	}

	return nil
}

func (a *Action) search(ctx context.Context, provider protocol.CRMProvider, ectx *models.ExecutionContext, logger *slog.Logger) {
	contacts, err := provider.SearchContacts(ctx, a.config.Query)
	if err != nil {
		a.record(ectx, logger, "crm contact search failed", err)

		return
	}

	matches := make([]any, 0, len(contacts))
	for _, contact := range contacts {
		matches = append(matches, map[string]any{"id": contact.ID, "fields": contact.Fields})
	}

	variables.Set("variables.workflow.crmMatches", matches, ectx)

	if len(contacts) > 0 {
		variables.Set("variables.workflow.crmContactId", contacts[0].ID, ectx)
	}
}

func (a *Action) create(ctx context.Context, provider protocol.CRMProvider, ectx *models.ExecutionContext, logger *slog.Logger) {
	id, err := provider.CreateContact(ctx, a.config.Fields)
	if err != nil {
		a.record(ectx, logger, "crm contact creation failed", err)

		return
	}

	variables.Set("variables.workflow.crmContactId", id, ectx)
}

func (a *Action) update(ctx context.Context, provider protocol.CRMProvider, ectx *models.ExecutionContext, logger *slog.Logger) {
	if err := provider.UpdateContact(ctx, a.contactID(ectx), a.config.Fields); err != nil {
		a.record(ectx, logger, "crm contact update failed", err)
	}
}

func (a *Action) get(ctx context.Context, provider protocol.CRMProvider, ectx *models.ExecutionContext, logger *slog.Logger) {
	contact, err := provider.GetContact(ctx, a.contactID(ectx))
	if err != nil {
		a.record(ectx, logger, "crm contact fetch failed", err)

		return
	}

	variables.Set("variables.workflow.crmContact", map[string]any{
		"id":     contact.ID,
		"fields": contact.Fields,
	}, ectx)
}

func (a *Action) logActivity(ctx context.Context, provider protocol.CRMProvider, ectx *models.ExecutionContext, logger *slog.Logger) {
	if err := provider.LogActivity(ctx, a.contactID(ectx), a.config.Note); err != nil {
		a.record(ectx, logger, "crm activity log failed", err)
	}
}

// contactID prefers the explicit config value, falling back to the ID a
// preceding search or create node recorded.
func (a *Action) contactID(ectx *models.ExecutionContext) string {
	if a.config.ContactID != "" {
		return a.config.ContactID
	}

	id, _ := variables.Get("variables.workflow.crmContactId", ectx).(string)

	return id
}

func (a *Action) record(ectx *models.ExecutionContext, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	variables.Set("variables.workflow.crmError", err.Error(), ectx)
}

type Factory struct {
	label  string
	collab *protocol.Collaborators
}

// NewFactory serves one of the five CRM labels.
func NewFactory(label string, collab *protocol.Collaborators) *Factory {
	return &Factory{label: label, collab: collab}
}

func (f *Factory) Label() string { return f.label }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"provider":  map[string]any{"type": "string"},
			"query":     map[string]any{"type": "string"},
			"contactId": map[string]any{"type": "string"},
			"fields":    map[string]any{"type": "object"},
			"note":      map[string]any{"type": "string"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", f.label, err)
	}

	return &Action{label: f.label, config: cfg, collab: f.collab}, nil
}
