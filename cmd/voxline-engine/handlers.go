package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/voxline/voxline/pkg/events"
	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/otelhelper"
	"github.com/voxline/voxline/pkg/trigger"
)

// registerHandlers maps each inbound event type onto the trigger resolver.
// Handlers return nil for resolutions the engine handled, even when no
// workflow ran; a non-nil error nacks the message for redelivery.
func (e *Engine) registerHandlers(ctx context.Context) {
	e.bus.Handle(events.MessageReceivedEvent, func(ctx context.Context, event any) error {
		msg, ok := event.(*events.MessageReceived)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.MessageReceivedEvent)
		}

		result := e.resolver.Trigger(ctx, models.TriggerIncomingMessage, map[string]any{
			"tenantId":       msg.TenantID,
			"conversationId": msg.ConversationID,
			"from":           msg.From,
			"to":             msg.To,
			"text":           msg.Text,
			"customerName":   msg.CustomerName,
		})

		e.logResult(ctx, models.TriggerIncomingMessage, result)

		if result.Kind == trigger.ResultSkipped && result.AfterHours != nil && result.AfterHours.ShouldReply {
			if err := e.collab.Messages.SendText(ctx, msg.From, result.AfterHours.Message); err != nil {
				e.logger.Error("failed to send after-hours reply", "to", msg.From, "error", err)
			}
		}

		return nil
	})

	e.bus.Handle(events.CallIncomingEvent, func(ctx context.Context, event any) error {
		call, ok := event.(*events.CallIncoming)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.CallIncomingEvent)
		}

		result := e.resolver.Trigger(ctx, models.TriggerIncomingCall, map[string]any{
			"tenantId":     call.TenantID,
			"callId":       call.CallID,
			"from":         call.From,
			"to":           call.To,
			"customerName": call.CustomerName,
		})

		e.logResult(ctx, models.TriggerIncomingCall, result)

		return nil
	})

	e.bus.Handle(events.CallTranscriptionEvent, func(ctx context.Context, event any) error {
		transcription, ok := event.(*events.CallTranscription)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.CallTranscriptionEvent)
		}

		return e.resolver.HandleVoiceInput(ctx, transcription.CallID, transcription.Transcript)
	})

	e.bus.Handle(events.CallSpeakEndedEvent, func(ctx context.Context, event any) error {
		ended, ok := event.(*events.CallSpeakEnded)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.CallSpeakEndedEvent)
		}

		return e.resolver.HandleSpeakEnded(ctx, ended.CallID)
	})

	e.bus.Handle(events.WebhookReceivedEvent, func(ctx context.Context, event any) error {
		webhook, ok := event.(*events.WebhookReceived)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.WebhookReceivedEvent)
		}

		payload := map[string]any{
			"tenantId": webhook.TenantID,
			"source":   webhook.Source,
		}
		for k, v := range webhook.Payload {
			payload[k] = v
		}

		result := e.resolver.Trigger(ctx, models.TriggerWebhook, payload)
		e.logResult(ctx, models.TriggerWebhook, result)

		return nil
	})

	e.bus.Handle(events.ScheduleTickEvent, func(ctx context.Context, event any) error {
		tick, ok := event.(*events.ScheduleTick)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", events.ScheduleTickEvent)
		}

		result := e.resolver.TriggerWorkflow(ctx, tick.WorkflowID, models.TriggerScheduled, map[string]any{
			"tenantId":   tick.TenantID,
			"workflowId": tick.WorkflowID,
		})
		e.logResult(ctx, models.TriggerScheduled, result)

		return nil
	})
}

func (e *Engine) logResult(ctx context.Context, triggerType string, result *trigger.Result) {
	e.logger.InfoContext(ctx, "trigger resolved",
		"trigger_type", triggerType,
		"result", string(result.Kind),
		"reason", result.Reason,
		"workflow_id", result.WorkflowID,
		"execution_id", result.ExecutionID,
	)
}

func otelTracer(ctx context.Context) (trace.Tracer, error) {
	return otelhelper.NewTracer(ctx, "voxline-engine")
}
