// Package web provides the gateway HTTP surface: provider callback
// webhooks that publish events onto the bus, and the condition field
// catalog consumed by the workflow builder.
package web

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/voxline/voxline/pkg/conditions"
	"github.com/voxline/voxline/pkg/eventbus"
	"github.com/voxline/voxline/pkg/events"
	"github.com/voxline/voxline/pkg/models"
)

type GatewayHandlers struct {
	publisher eventbus.EventPublisher
	validator *validator.Validate
	logger    *slog.Logger
}

func NewGatewayHandlers(publisher eventbus.EventPublisher, logger *slog.Logger) *GatewayHandlers {
	return &GatewayHandlers{
		publisher: publisher,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.With("module", "gateway"),
	}
}

type inboundMessageRequest struct {
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	From           string `json:"from" validate:"required"`
	To             string `json:"to"`
	Text           string `json:"text" validate:"required"`
	CustomerName   string `json:"customer_name"`
}

func (h *GatewayHandlers) ReceiveMessage(c fiber.Ctx) error {
	var req inboundMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.MessageReceived{
		BaseEvent:      events.NewBaseEvent(events.MessageReceivedEvent, req.TenantID),
		ConversationID: req.ConversationID,
		From:           req.From,
		To:             req.To,
		Text:           req.Text,
		CustomerName:   req.CustomerName,
	}

	return h.publish(c, req.From, event)
}

type incomingCallRequest struct {
	TenantID     string `json:"tenant_id"`
	CallID       string `json:"call_id" validate:"required"`
	From         string `json:"from"    validate:"required"`
	To           string `json:"to"`
	CustomerName string `json:"customer_name"`
}

func (h *GatewayHandlers) ReceiveIncomingCall(c fiber.Ctx) error {
	var req incomingCallRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.CallIncoming{
		BaseEvent:    events.NewBaseEvent(events.CallIncomingEvent, req.TenantID),
		CallID:       req.CallID,
		From:         req.From,
		To:           req.To,
		CustomerName: req.CustomerName,
	}

	return h.publish(c, req.CallID, event)
}

type transcriptionRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

func (h *GatewayHandlers) ReceiveTranscription(c fiber.Ctx) error {
	callID := c.Params("callId")
	if callID == "" {
		return badRequest(c, "Call ID is required")
	}

	var req transcriptionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := events.CallTranscription{
		BaseEvent:  events.NewBaseEvent(events.CallTranscriptionEvent, ""),
		CallID:     callID,
		Transcript: req.Transcript,
	}

	return h.publish(c, callID, event)
}

func (h *GatewayHandlers) ReceiveSpeakEnded(c fiber.Ctx) error {
	callID := c.Params("callId")
	if callID == "" {
		return badRequest(c, "Call ID is required")
	}

	event := events.CallSpeakEnded{
		BaseEvent: events.NewBaseEvent(events.CallSpeakEndedEvent, ""),
		CallID:    callID,
	}

	return h.publish(c, callID, event)
}

// ReceiveWebhook accepts arbitrary integration callbacks and forwards the
// raw payload. The workflow graph decides what the payload means.
func (h *GatewayHandlers) ReceiveWebhook(c fiber.Ctx) error {
	source := c.Params("source")
	if source == "" {
		return badRequest(c, "Webhook source is required")
	}

	var payload map[string]any
	if err := c.Bind().JSON(&payload); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	tenantID, _ := payload["tenant_id"].(string)

	event := events.WebhookReceived{
		BaseEvent: events.NewBaseEvent(events.WebhookReceivedEvent, tenantID),
		Source:    source,
		Payload:   payload,
	}

	return h.publish(c, source, event)
}

// GetConditionFields serves the condition field catalog. The integrations
// query parameter is a comma-separated provider list extending the base
// set.
func (h *GatewayHandlers) GetConditionFields(c fiber.Ctx) error {
	var integrations []models.Integration

	if raw := c.Query("integrations"); raw != "" {
		for _, provider := range strings.Split(raw, ",") {
			provider = strings.TrimSpace(provider)
			if provider == "" {
				continue
			}

			integrations = append(integrations, models.Integration{Provider: provider, Active: true})
		}
	}

	return c.JSON(fiber.Map{"fields": conditions.FieldsFor(integrations)})
}

func (h *GatewayHandlers) publish(c fiber.Ctx, key string, event eventbus.Event) error {
	if err := h.publisher.Publish(c.Context(), key, event); err != nil {
		h.logger.Error("failed to publish event", "event_type", event.GetType(), "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}
