// Package aigenerate implements the AI Generate action node: it updates
// the active voice session's persona and optionally speaks an opening
// utterance.
package aigenerate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

type Config struct {
	SystemPrompt   string `mapstructure:"systemPrompt"`
	ToneOfVoice    string `mapstructure:"toneOfVoice"`
	InitialMessage string `mapstructure:"initialMessage"`
}

type Action struct {
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	callID := ectx.CallID()
	if callID == "" {
		logger.Warn("AI Generate node outside a voice call, skipping")

		return nil
	}

	state, err := a.collab.Sessions.Get(ctx, callID)
	if err != nil {
		logger.Error("no session for call, skipping AI Generate", "call_id", callID, "error", err)

		return nil
	}

	if a.config.SystemPrompt != "" {
		state.SystemPrompt = a.config.SystemPrompt
	}

	if a.config.ToneOfVoice != "" {
		state.ToneOfVoice = a.config.ToneOfVoice
	}

	if a.config.InitialMessage != "" {
		state.Append(models.RoleAssistant, a.config.InitialMessage)
	}

	if err := a.collab.Sessions.Put(ctx, state); err != nil {
		logger.Error("failed to update session", "call_id", callID, "error", err)

		return nil
	}

	if a.config.InitialMessage != "" && a.collab.Telephony != nil {
		if err := a.collab.Telephony.SpeakText(ctx, callID, a.config.InitialMessage); err != nil {
			logger.Error("failed to speak initial message", "call_id", callID, "error", err)
		}
	}

	return nil
}

type Factory struct {
	collab *protocol.Collaborators
}

func NewFactory(collab *protocol.Collaborators) *Factory {
	return &Factory{collab: collab}
}

func (f *Factory) Label() string { return models.ActionAIGenerate }

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"systemPrompt":   map[string]any{"type": "string"},
			"toneOfVoice":    map[string]any{"type": "string"},
			"initialMessage": map[string]any{"type": "string"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode AI Generate config: %w", err)
	}

	return &Action{config: cfg, collab: f.collab}, nil
}
