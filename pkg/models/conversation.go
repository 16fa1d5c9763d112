package models

import "time"

// ConversationStatus is the lifecycle state of a chat conversation.
type ConversationStatus string

const (
	ConversationStatusOpen     ConversationStatus = "open"
	ConversationStatusResolved ConversationStatus = "resolved"
)

// Conversation is a durable chat thread between a tenant and a customer.
type Conversation struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenant_id"`
	CustomerID string             `json:"customer_id,omitempty"`
	Status     ConversationStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// MessageDirection distinguishes inbound customer messages from outbound
// automation replies.
type MessageDirection string

const (
	MessageInbound  MessageDirection = "inbound"
	MessageOutbound MessageDirection = "outbound"
)

// ConversationMessage is a single message within a conversation.
type ConversationMessage struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	Direction      MessageDirection `json:"direction"`
	Body           string           `json:"body"`
	CreatedAt      time.Time        `json:"created_at"`
}
