// Package email implements the Send Email action node.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/variables"
)

type Config struct {
	To      string `mapstructure:"to"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
	IsHTML  bool   `mapstructure:"isHtml"`
}

type Action struct {
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	to := strings.TrimSpace(a.config.To)
	subject := strings.TrimSpace(a.config.Subject)
	body := strings.TrimSpace(a.config.Body)

	// Missing fields skip the send without halting the graph.
	if to == "" || subject == "" || body == "" {
		logger.Warn("Send Email node missing required fields, skipping",
			"has_to", to != "", "has_subject", subject != "", "has_body", body != "")

		return nil
	}

	err := a.collab.Email.SendEmail(ctx, protocol.Email{
		To:      to,
		Subject: subject,
		Body:    body,
		IsHTML:  a.config.IsHTML,
	})
	if err != nil {
		logger.Error("failed to send email", "to", to, "error", err)
		variables.Set("variables.workflow.emailError", err.Error(), ectx)

		return nil
	}

	return nil
}

type Factory struct {
	collab *protocol.Collaborators
}

func NewFactory(collab *protocol.Collaborators) *Factory {
	return &Factory{collab: collab}
}

func (f *Factory) Label() string { return models.ActionSendEmail }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to":      map[string]any{"type": "string"},
			"subject": map[string]any{"type": "string"},
			"body":    map[string]any{"type": "string"},
			"isHtml":  map[string]any{"type": "boolean"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode Send Email config: %w", err)
	}

	return &Action{config: cfg, collab: f.collab}, nil
}
