package conditions

import "github.com/voxline/voxline/pkg/models"

// FieldType classifies a catalog field for the builder UI.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldArray   FieldType = "array"
)

// Field describes one resolvable context path: its type and the operators
// the builder may offer for it. The catalog is consumed by the builder UI
// and validation, not by execution.
type Field struct {
	Path      string            `json:"path"`
	Label     string            `json:"label"`
	Type      FieldType         `json:"type"`
	Operators []models.Operator `json:"operators"`
}

var stringOperators = []models.Operator{
	models.OperatorExists, models.OperatorNotExists,
	models.OperatorIsEmpty, models.OperatorIsNotEmpty,
	models.OperatorEquals, models.OperatorNotEquals,
	models.OperatorContains, models.OperatorNotContains,
	models.OperatorStartsWith, models.OperatorEndsWith,
	models.OperatorMatchesRegex,
	models.OperatorIn, models.OperatorNotIn,
}

var numberOperators = []models.Operator{
	models.OperatorExists, models.OperatorNotExists,
	models.OperatorEquals, models.OperatorNotEquals,
	models.OperatorGreaterThan, models.OperatorLessThan,
	models.OperatorGreaterEqual, models.OperatorLessEqual,
	models.OperatorIsBetween,
}

var booleanOperators = []models.Operator{
	models.OperatorExists, models.OperatorNotExists,
	models.OperatorEquals, models.OperatorNotEquals,
}

var dateOperators = []models.Operator{
	models.OperatorExists, models.OperatorNotExists,
	models.OperatorIsBefore, models.OperatorIsAfter,
	models.OperatorIsWithinLast, models.OperatorIsOlderThan,
	models.OperatorIsBetween,
}

var arrayOperators = []models.Operator{
	models.OperatorIsEmpty, models.OperatorIsNotEmpty,
	models.OperatorIncludes, models.OperatorNotIncludes,
	models.OperatorCount,
}

// BaseFields returns the static catalog available to every workflow.
func BaseFields() []Field {
	return []Field{
		{Path: "trigger.type", Label: "Trigger Type", Type: FieldString, Operators: stringOperators},
		{Path: "trigger.payload.text", Label: "Message Text", Type: FieldString, Operators: stringOperators},
		{Path: "trigger.payload.from", Label: "Sender", Type: FieldString, Operators: stringOperators},
		{Path: "trigger.payload.to", Label: "Destination Number", Type: FieldString, Operators: stringOperators},
		{Path: "customer.name", Label: "Customer Name", Type: FieldString, Operators: stringOperators},
		{Path: "customer.email", Label: "Customer Email", Type: FieldString, Operators: stringOperators},
		{Path: "customer.phone", Label: "Customer Phone", Type: FieldString, Operators: stringOperators},
		{Path: "customer.tags", Label: "Customer Tags", Type: FieldArray, Operators: arrayOperators},
		{Path: "conversation.status", Label: "Conversation Status", Type: FieldString, Operators: stringOperators},
		{Path: "conversation.createdAt", Label: "Conversation Started", Type: FieldDate, Operators: dateOperators},
		{Path: "call.id", Label: "Call ID", Type: FieldString, Operators: stringOperators},
		{Path: "call.direction", Label: "Call Direction", Type: FieldString, Operators: stringOperators},
		{Path: "variables.global.isOpenNow", Label: "Open Now", Type: FieldBoolean, Operators: booleanOperators},
		{Path: "execution.startedAt", Label: "Execution Started", Type: FieldDate, Operators: dateOperators},
	}
}

// FieldsFor extends the base catalog with per-integration fields for the
// tenant's connected providers.
func FieldsFor(integrations []models.Integration) []Field {
	fields := BaseFields()

	for _, integration := range integrations {
		if !integration.Active {
			continue
		}

		switch integration.Provider {
		case "hubspot", "salesforce", "pipedrive":
			fields = append(fields,
				Field{Path: "variables.workflow.crmContactId", Label: "CRM Contact ID", Type: FieldString, Operators: stringOperators},
				Field{Path: "variables.workflow.crmMatches", Label: "CRM Matches", Type: FieldArray, Operators: arrayOperators},
			)
		case "google":
			fields = append(fields,
				Field{Path: "variables.workflow.calendarEventId", Label: "Calendar Event ID", Type: FieldString, Operators: stringOperators},
				Field{Path: "variables.workflow.driveFileLink", Label: "Drive File Link", Type: FieldString, Operators: stringOperators},
				Field{Path: "variables.workflow.gmailMessageId", Label: "Gmail Message ID", Type: FieldString, Operators: stringOperators},
			)
		}
	}

	return fields
}
