// Package events defines the inbound domain events the engine consumes
// from the message bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Bus topic for inbound engine events.
const Topic = "voxline.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	MessageReceivedEvent   EventType = "message.received"
	CallIncomingEvent      EventType = "call.incoming"
	CallTranscriptionEvent EventType = "call.transcription"
	CallSpeakEndedEvent    EventType = "call.speak_ended"
	WebhookReceivedEvent   EventType = "webhook.received"
	ScheduleTickEvent      EventType = "schedule.tick"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	TenantID  string    `json:"tenant_id,omitempty"`
}

func NewBaseEvent(eventType EventType, tenantID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		TenantID:  tenantID,
	}
}

// MessageReceived is an inbound chat/SMS message.
type MessageReceived struct {
	BaseEvent

	ConversationID string `json:"conversation_id,omitempty"`
	From           string `json:"from"`
	To             string `json:"to,omitempty"`
	Text           string `json:"text"`
	CustomerName   string `json:"customer_name,omitempty"`
}

func (e MessageReceived) GetType() EventType { return MessageReceivedEvent }

// CallIncoming is a carrier notification of a ringing inbound call.
type CallIncoming struct {
	BaseEvent

	CallID       string `json:"call_id"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

func (e CallIncoming) GetType() EventType { return CallIncomingEvent }

// CallTranscription carries a transcribed utterance from an active call.
type CallTranscription struct {
	BaseEvent

	CallID     string `json:"call_id"`
	Transcript string `json:"transcript"`
}

func (e CallTranscription) GetType() EventType { return CallTranscriptionEvent }

// CallSpeakEnded signals that synthesized speech finished playing.
type CallSpeakEnded struct {
	BaseEvent

	CallID string `json:"call_id"`
}

func (e CallSpeakEnded) GetType() EventType { return CallSpeakEndedEvent }

// WebhookReceived is a raw integration webhook.
type WebhookReceived struct {
	BaseEvent

	Source  string         `json:"source"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (e WebhookReceived) GetType() EventType { return WebhookReceivedEvent }

// ScheduleTick fires for workflows with a Scheduled trigger node.
type ScheduleTick struct {
	BaseEvent

	WorkflowID string `json:"workflow_id"`
}

func (e ScheduleTick) GetType() EventType { return ScheduleTickEvent }
