// Package reply implements the Send Reply and Send SMS action nodes:
// speak on the voice channel, send text on the message channel.
package reply

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

type Config struct {
	Message string `mapstructure:"message"`
}

type Action struct {
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	if a.config.Message == "" {
		logger.Warn("reply node has empty message, skipping")

		return nil
	}

	if callID := ectx.CallID(); callID != "" {
		if a.collab.Telephony == nil {
			return fmt.Errorf("telephony provider not configured")
		}

		if err := a.collab.Telephony.SpeakText(ctx, callID, a.config.Message); err != nil {
			logger.Error("failed to speak reply", "call_id", callID, "error", err)

			return nil
		}

		return nil
	}

	a.sendText(ctx, ectx, logger)

	return nil
}

func (a *Action) sendText(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) {
	to, _ := ectx.Customer["phone"].(string)

	if a.collab.Messages != nil && to != "" {
		if err := a.collab.Messages.SendText(ctx, to, a.config.Message); err != nil {
			logger.Error("failed to send text reply", "to", to, "error", err)

			return
		}
	} else {
		logger.Info("no message channel configured, reply logged only", "message", a.config.Message)
	}

	conversationID, _ := ectx.Conversation["id"].(string)
	if conversationID == "" || a.collab.Conversations == nil {
		return
	}

	err := a.collab.Conversations.CreateMessage(ctx, &models.ConversationMessage{
		ConversationID: conversationID,
		Direction:      models.MessageOutbound,
		Body:           a.config.Message,
	})
	if err != nil {
		logger.Error("failed to record outbound message", "conversation_id", conversationID, "error", err)
	}
}

type Factory struct {
	label  string
	collab *protocol.Collaborators
}

// NewFactory serves either the Send Reply or Send SMS label; both share
// the channel-preference behavior.
func NewFactory(label string, collab *protocol.Collaborators) *Factory {
	return &Factory{label: label, collab: collab}
}

func (f *Factory) Label() string { return f.label }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
		"required": []any{"message"},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", f.label, err)
	}

	return &Action{config: cfg, collab: f.collab}, nil
}
