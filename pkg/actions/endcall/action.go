// Package endcall implements the End Call action node: speak a closing
// utterance, wait out the estimated speech duration, hang up, and evict
// the call's session state.
package endcall

import (
	"context"
	"log/slog"
	"time"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
)

const fallbackClosing = "Thank you for calling. Goodbye!"

// Speech duration is estimated from message length because the carrier
// does not expose a completion event here; a provider callback would be
// preferable if one becomes available.
const (
	minSpeechWait = 2 * time.Second
	perCharacter  = 100 * time.Millisecond
)

type Action struct {
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	callID := ectx.CallID()
	if callID == "" {
		logger.Warn("End Call node outside a voice call, skipping")

		return nil
	}

	closing := a.closingMessage(ctx, callID, logger)

	if err := a.collab.Telephony.SpeakText(ctx, callID, closing); err != nil {
		logger.Error("failed to speak closing message", "call_id", callID, "error", err)
	} else {
		wait := time.Duration(len(closing)) * perCharacter
		if wait < minSpeechWait {
			wait = minSpeechWait
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}

	if err := a.collab.Telephony.HangupCall(ctx, callID); err != nil {
		logger.Error("failed to hang up call", "call_id", callID, "error", err)
	}

	if err := a.collab.Sessions.Delete(ctx, callID); err != nil {
		logger.Error("failed to evict session", "call_id", callID, "error", err)
	}

	return nil
}

func (a *Action) closingMessage(ctx context.Context, callID string, logger *slog.Logger) string {
	state, err := a.collab.Sessions.Get(ctx, callID)
	if err != nil || a.collab.TextGen == nil {
		return fallbackClosing
	}

	messages := append(state.History, models.Utterance{
		Role:    models.RoleSystem,
		Content: "Politely wrap up the call in one short sentence.",
	})

	closing, err := a.collab.TextGen.GenerateResponse(ctx, messages)
	if err != nil || closing == "" {
		logger.Warn("closing generation failed, using fallback", "call_id", callID, "error", err)

		return fallbackClosing
	}

	return closing
}

type Factory struct {
	collab *protocol.Collaborators
}

func NewFactory(collab *protocol.Collaborators) *Factory {
	return &Factory{collab: collab}
}

func (f *Factory) Label() string { return models.ActionEndCall }

func (f *Factory) Schema() map[string]any { return nil }

func (f *Factory) Create(_ map[string]any) (protocol.Action, error) {
	return &Action{collab: f.collab}, nil
}
