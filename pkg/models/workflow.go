// Package models defines the core domain models for tenant workflow automation.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Editable, not executable
	WorkflowStatusActive   WorkflowStatus = "active"   // Matched against inbound events
	WorkflowStatusArchived WorkflowStatus = "archived" // Historical, not executable
)

// Trigger type labels carried by trigger nodes.
const (
	TriggerIncomingCall    = "Incoming Call"
	TriggerIncomingMessage = "Incoming Message"
	TriggerWebhook         = "Webhook"
	TriggerScheduled       = "Scheduled"
)

// Workflow is a node/edge automation graph owned by a tenant.
type Workflow struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenant_id"`
	Name           string          `json:"name"            validate:"required,min=3"`
	Description    string          `json:"description"`
	Status         WorkflowStatus  `json:"status"          validate:"required"`
	Nodes          []*WorkflowNode `json:"nodes"`
	Edges          []*WorkflowEdge `json:"edges"`
	PhoneNumberIDs []string        `json:"phone_number_ids,omitempty"` // Numbers explicitly linked to this workflow
	BusinessHours  WeeklySchedule  `json:"business_hours,omitempty"`   // Optional per-workflow override
	Timezone       string          `json:"timezone,omitempty"`
	Owner          string          `json:"owner"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TriggerNode returns the trigger node whose label matches the given trigger
// type exactly, falling back to the first node of type trigger.
func (w *Workflow) TriggerNode(triggerType string) *WorkflowNode {
	var fallback *WorkflowNode

	for _, node := range w.Nodes {
		if node.Type != NodeTypeTrigger {
			continue
		}

		if node.Label == triggerType {
			return node
		}

		if fallback == nil {
			fallback = node
		}
	}

	return fallback
}

// HasTriggerType reports whether the graph contains a trigger node for the
// given trigger type.
func (w *Workflow) HasTriggerType(triggerType string) bool {
	for _, node := range w.Nodes {
		if node.Type == NodeTypeTrigger && node.Label == triggerType {
			return true
		}
	}

	return false
}

// NodeByID returns the node with the given ID, or nil.
func (w *Workflow) NodeByID(id string) *WorkflowNode {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// OutgoingEdges returns the edges whose source is the given node, in
// declaration order.
func (w *Workflow) OutgoingEdges(nodeID string) []*WorkflowEdge {
	var out []*WorkflowEdge

	for _, edge := range w.Edges {
		if edge.Source == nodeID {
			out = append(out, edge)
		}
	}

	return out
}

// LinkedToNumber reports whether the workflow is explicitly linked to the
// given phone number ID.
func (w *Workflow) LinkedToNumber(numberID string) bool {
	for _, id := range w.PhoneNumberIDs {
		if id == numberID {
			return true
		}
	}

	return false
}
