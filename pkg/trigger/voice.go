package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/variables"
)

const knowledgeSnippetLimit = 3

// answerCall performs the voice trigger setup sequence: answer, speak the
// templated greeting, prime the session, then start transcription. The
// session must exist before the first transcription event can arrive, so
// ordering here matters.
func (r *Resolver) answerCall(ctx context.Context, wf *models.Workflow, ectx *models.ExecutionContext, logger *slog.Logger) error {
	callID := ectx.CallID()
	if callID == "" {
		return fmt.Errorf("incoming call payload carries no callId")
	}

	if err := r.collab.Telephony.AnswerCall(ctx, callID); err != nil {
		return fmt.Errorf("failed to answer call: %w", err)
	}

	if greeting := r.greeting(wf, ectx); greeting != "" {
		if err := r.collab.Telephony.SpeakText(ctx, callID, greeting); err != nil {
			logger.Warn("failed to speak greeting, continuing", "error", err)
		}
	}

	state := &models.SessionState{
		CallID:     callID,
		WorkflowID: wf.ID,
		TenantID:   wf.TenantID,
	}

	if persona := ectx.Resources.Persona; persona != nil {
		state.SystemPrompt = persona.SystemPrompt
		state.ToneOfVoice = persona.ToneOfVoice
	}

	for _, doc := range ectx.Resources.Documents {
		state.DocumentIDs = append(state.DocumentIDs, doc.ID)
	}

	if err := r.sessions.Put(ctx, state); err != nil {
		return fmt.Errorf("failed to store call session: %w", err)
	}

	if err := r.collab.Telephony.StartTranscription(ctx, callID); err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}

	logger.Info("call answered", "call_id", callID)

	return nil
}

// greeting resolves the trigger node's greeting template against the
// execution context.
func (r *Resolver) greeting(wf *models.Workflow, ectx *models.ExecutionContext) string {
	node := wf.TriggerNode(ectx.Trigger.Type)
	if node == nil {
		return ""
	}

	template, _ := node.Config["greeting"].(string)
	if template == "" {
		return ""
	}

	return variables.Resolve(template, ectx)
}

// HandleVoiceInput processes one transcribed user turn: record it, gather
// knowledge context, generate a response, record and speak it.
func (r *Resolver) HandleVoiceInput(ctx context.Context, callID, transcript string) error {
	logger := r.logger.With("call_id", callID)

	state, err := r.sessions.Get(ctx, callID)
	if err != nil {
		return fmt.Errorf("no session for call %s: %w", callID, err)
	}

	state.Append(models.RoleUser, transcript)

	messages := r.assembleMessages(ctx, state, transcript, logger)

	response, err := r.collab.TextGen.GenerateResponse(ctx, messages)
	if err != nil {
		return fmt.Errorf("response generation failed: %w", err)
	}

	state.Append(models.RoleAssistant, response)

	if err := r.sessions.Put(ctx, state); err != nil {
		logger.Warn("failed to persist session turn", "error", err)
	}

	if err := r.collab.Telephony.SpeakText(ctx, callID, response); err != nil {
		return fmt.Errorf("failed to speak response: %w", err)
	}

	return nil
}

// assembleMessages prefixes the history with the persona prompt and any
// retrieved knowledge snippets. Knowledge failures degrade to a prompt-only
// conversation.
func (r *Resolver) assembleMessages(ctx context.Context, state *models.SessionState, query string, logger *slog.Logger) []models.Utterance {
	system := state.SystemPrompt
	if state.ToneOfVoice != "" {
		system += "\nTone of voice: " + state.ToneOfVoice
	}

	if r.collab.Knowledge != nil {
		snippets, err := r.collab.Knowledge.Search(ctx, query, state.TenantID, knowledgeSnippetLimit, state.DocumentIDs)
		if err != nil {
			logger.Warn("knowledge search failed, answering without context", "error", err)
		} else if len(snippets) > 0 {
			system += "\n\nRelevant information:\n" + strings.Join(snippets, "\n")
		}
	}

	messages := make([]models.Utterance, 0, len(state.History)+1)
	if system != "" {
		messages = append(messages, models.Utterance{Role: models.RoleSystem, Content: system})
	}

	return append(messages, state.History...)
}

// HandleSpeakEnded re-arms transcription once the assistant finishes
// speaking, keeping the turn loop going until an End Call node hangs up.
func (r *Resolver) HandleSpeakEnded(ctx context.Context, callID string) error {
	if _, err := r.sessions.Get(ctx, callID); err != nil {
		// Call already ended; the speak that just finished was the goodbye.
		return nil
	}

	if err := r.collab.Telephony.StartTranscription(ctx, callID); err != nil {
		return fmt.Errorf("failed to restart transcription: %w", err)
	}

	return nil
}
