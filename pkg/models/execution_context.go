package models

import "time"

// TriggerInfo records the event that started an execution. Immutable once
// the context is created.
type TriggerInfo struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// VariableSet holds the three independent variable namespaces. Keys are
// unique per namespace; writes win, there is no versioning.
type VariableSet struct {
	Workflow     map[string]any `json:"workflow"`
	Conversation map[string]any `json:"conversation"`
	Global       map[string]any `json:"global"`
}

// ExecutionContext is the mutable record threaded through one event's
// processing. It is created per triggering event and discarded when graph
// traversal terminates; there are no checkpoint/resume semantics.
type ExecutionContext struct {
	ID         string      `json:"id"`
	WorkflowID string      `json:"workflow_id"`
	TenantID   string      `json:"tenant_id"`
	StartedAt  time.Time   `json:"started_at"`
	Trigger    TriggerInfo `json:"trigger"`

	Variables VariableSet `json:"variables"`

	// Optional structured snapshots of the counterpart entity, partially
	// populated from the triggering payload. Patched via merge.
	Customer     map[string]any `json:"customer,omitempty"`
	Conversation map[string]any `json:"conversation,omitempty"`
	Call         map[string]any `json:"call,omitempty"`

	Resources Resources `json:"resources"`

	// Extra holds values written under top-level path segments the context
	// does not model explicitly.
	Extra map[string]any `json:"extra,omitempty"`

	// BypassBusinessHours forces the trigger gate open regardless of the
	// effective schedule.
	BypassBusinessHours bool `json:"bypass_business_hours,omitempty"`
}

// NewExecutionContext creates a context with all namespaces initialized.
func NewExecutionContext(id, workflowID, tenantID string, trigger TriggerInfo) *ExecutionContext {
	return &ExecutionContext{
		ID:         id,
		WorkflowID: workflowID,
		TenantID:   tenantID,
		StartedAt:  time.Now().UTC(),
		Trigger:    trigger,
		Variables: VariableSet{
			Workflow:     make(map[string]any),
			Conversation: make(map[string]any),
			Global:       make(map[string]any),
		},
		Customer:     make(map[string]any),
		Conversation: make(map[string]any),
		Call:         make(map[string]any),
		Extra:        make(map[string]any),
	}
}

// Root assembles the dotted-path view used by the variable resolver. The
// nested maps are the live context maps, so writes through the view mutate
// the context.
func (c *ExecutionContext) Root() map[string]any {
	root := map[string]any{
		"execution": map[string]any{
			"id":         c.ID,
			"workflowId": c.WorkflowID,
			"tenantId":   c.TenantID,
			"startedAt":  c.StartedAt.Format(time.RFC3339),
		},
		"trigger": map[string]any{
			"type":    c.Trigger.Type,
			"payload": c.Trigger.Payload,
		},
		"variables": map[string]any{
			"workflow":     c.Variables.Workflow,
			"conversation": c.Variables.Conversation,
			"global":       c.Variables.Global,
		},
		"customer":     c.Customer,
		"conversation": c.Conversation,
		"call":         c.Call,
		"resources":    c.resourceView(),
	}

	for k, v := range c.Extra {
		root[k] = v
	}

	return root
}

func (c *ExecutionContext) resourceView() map[string]any {
	view := make(map[string]any)

	if p := c.Resources.Persona; p != nil {
		view["persona"] = map[string]any{
			"name":        p.Name,
			"toneOfVoice": p.ToneOfVoice,
		}
	}

	if a := c.Resources.Agent; a != nil {
		view["agent"] = map[string]any{
			"name":  a.Name,
			"email": a.Email,
		}
	}

	return view
}

// CallID returns the telephony call identifier for voice executions, or "".
func (c *ExecutionContext) CallID() string {
	if id, ok := c.Call["id"].(string); ok {
		return id
	}

	return ""
}

// ContextPatch carries newly observed facts to fold into an in-flight
// context. Customer/Conversation/Call merge shallowly; the variable
// namespaces merge deeply.
type ContextPatch struct {
	Customer     map[string]any
	Conversation map[string]any
	Call         map[string]any
	Variables    VariableSet
}
