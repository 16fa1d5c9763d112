// Package endchat implements the End Chat action node: it marks the
// conversation resolved in durable storage and optionally sends a goodbye.
package endchat

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
	GoodbyeMessage string `mapstructure:"goodbyeMessage"`
}

type Action struct {
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	conversationID, _ := ectx.Conversation["id"].(string)
	if conversationID == "" {
		logger.Warn("End Chat node without a conversation, skipping")

		return nil
	}

	if a.config.GoodbyeMessage != "" {
		err := a.collab.Conversations.CreateMessage(ctx, &models.ConversationMessage{
			ConversationID: conversationID,
			Direction:      models.MessageOutbound,
			Body:           a.config.GoodbyeMessage,
		})
		if err != nil {
			logger.Error("failed to send goodbye message", "conversation_id", conversationID, "error", err)
		}
	}

	err := a.collab.Conversations.UpdateStatus(ctx, conversationID, models.ConversationStatusResolved)
	if err != nil {
		logger.Error("failed to resolve conversation", "conversation_id", conversationID, "error", err)
		variables.Set("variables.workflow.endChatError", err.Error(), ectx)

		return nil
	}

	ectx.Conversation["status"] = string(models.ConversationStatusResolved)

	return nil
}

type Factory struct {
	collab *protocol.Collaborators
}

func NewFactory(collab *protocol.Collaborators) *Factory {
	return &Factory{collab: collab}
}

func (f *Factory) Label() string { return models.ActionEndChat }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"goodbyeMessage": map[string]any{"type": "string"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode End Chat config: %w", err)
	}

	return &Action{config: cfg, collab: f.collab}, nil
}
