package models

// NodeType classifies a workflow node.
type NodeType string

const (
	NodeTypeTrigger     NodeType = "trigger"
	NodeTypeAction      NodeType = "action"
	NodeTypeCondition   NodeType = "condition"
	NodeTypeIntegration NodeType = "integration"
)

// Action and integration node labels. The label selects the concrete
// behavior at the dispatch point; trigger nodes carry the trigger type
// they match instead.
const (
	ActionSendReply           = "Send Reply"
	ActionSendSMS             = "Send SMS"
	ActionSetVariable         = "Set Variable"
	ActionAIGenerate          = "AI Generate"
	ActionSendEmail           = "Send Email"
	ActionAssignAgent         = "Assign Agent"
	ActionEndChat             = "End Chat"
	ActionEndCall             = "End Call"
	ActionCreateCalendarEvent = "Create Calendar Event"
	ActionCRMSearchContact    = "CRM Search Contact"
	ActionCRMCreateContact    = "CRM Create Contact"
	ActionCRMUpdateContact    = "CRM Update Contact"
	ActionCRMGetContact       = "CRM Get Contact"
	ActionCRMLogActivity      = "CRM Log Activity"
	ActionGmailSend           = "Gmail Send"
	ActionDriveUpload         = "Drive Upload"
	ActionSheetsAppend        = "Sheets Append"
)

// WorkflowNode is a single node in a workflow graph. Nodes are immutable
// during an execution; they are read from storage at trigger time.
type WorkflowNode struct {
	ID     string         `json:"id"    validate:"required"`
	Type   NodeType       `json:"type"  validate:"required"`
	Label  string         `json:"label"`
	Config map[string]any `json:"config,omitempty"`
}

// WorkflowEdge connects two nodes. Label is only meaningful for edges
// leaving a condition node, conventionally "yes"/"no".
type WorkflowEdge struct {
	ID     string `json:"id"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Label  string `json:"label,omitempty"`
}
