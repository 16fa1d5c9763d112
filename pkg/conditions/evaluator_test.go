package conditions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxline/voxline/pkg/models"
)

func evalContext() *models.ExecutionContext {
	ectx := models.NewExecutionContext("exec-1", "wf-1", "tenant-1", models.TriggerInfo{
		Type: models.TriggerIncomingMessage,
		Payload: map[string]any{
			"text": "I need to speak to a HUMAN please",
			"from": "+15550001111",
		},
	})
	ectx.Customer["name"] = "Ada"
	ectx.Customer["tags"] = []any{"vip", "returning"}
	ectx.Variables.Workflow["score"] = "5"
	ectx.Variables.Global["isOpenNow"] = true

	return ectx
}

func variable(path string) models.Operand {
	return models.Operand{Type: models.OperandVariable, Value: path}
}

func literal(value any) models.Operand {
	return models.Operand{Type: models.OperandLiteral, Value: value}
}

func simple(left models.Operand, op models.Operator, right models.Operand) *models.ConditionConfig {
	return &models.ConditionConfig{
		EvaluationType: models.EvaluationSimple,
		Simple:         &models.SimpleCondition{Left: left, Operator: op, Right: right},
	}
}

func TestEvaluate_NilAndMalformedConfigsAreFalse(t *testing.T) {
	ectx := evalContext()

	assert.False(t, Evaluate(nil, ectx))
	assert.False(t, Evaluate(&models.ConditionConfig{}, ectx))
	assert.False(t, Evaluate(&models.ConditionConfig{EvaluationType: "mystery"}, ectx))
	assert.False(t, Evaluate(&models.ConditionConfig{EvaluationType: models.EvaluationCompound}, ectx))
	assert.False(t, Evaluate(simple(variable("customer.name"), "BOGUS_OPERATOR", literal("Ada")), ectx))
}

func TestEvaluate_LooseEquality(t *testing.T) {
	ectx := evalContext()

	// "5" in the context matches the number 5.
	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorEquals, literal(5)), ectx))
	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorEquals, literal("5")), ectx))
	assert.False(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorEquals, literal(6)), ectx))
	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorNotEquals, literal(6)), ectx))

	// Booleans compare against their string literal forms.
	assert.True(t, Evaluate(simple(variable("variables.global.isOpenNow"), models.OperatorEquals, literal("true")), ectx))
}

func TestEvaluate_ExistenceAndEmptiness(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("customer.name"), models.OperatorExists, models.Operand{}), ectx))
	assert.True(t, Evaluate(simple(variable("customer.nickname"), models.OperatorNotExists, models.Operand{}), ectx))
	assert.False(t, Evaluate(simple(variable("customer.name"), models.OperatorIsEmpty, models.Operand{}), ectx))
	assert.True(t, Evaluate(simple(variable("customer.nickname"), models.OperatorIsEmpty, models.Operand{}), ectx))
	assert.True(t, Evaluate(simple(variable("customer.tags"), models.OperatorIsNotEmpty, models.Operand{}), ectx))
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorGreaterThan, literal(4)), ectx))
	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorLessEqual, literal("5")), ectx))
	assert.False(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorLessThan, literal(5)), ectx))

	// Non-numeric operands fail closed instead of erroring.
	assert.False(t, Evaluate(simple(variable("customer.name"), models.OperatorGreaterThan, literal(4)), ectx))
}

func TestEvaluate_StringOperators(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("trigger.payload.text"), models.OperatorContains, literal("human")), ectx))
	assert.False(t, Evaluate(simple(variable("trigger.payload.text"), models.OperatorNotContains, literal("human")), ectx))
	assert.True(t, Evaluate(simple(variable("customer.name"), models.OperatorStartsWith, literal("ad")), ectx))
	assert.True(t, Evaluate(simple(variable("customer.name"), models.OperatorEndsWith, literal("DA")), ectx))
}

func TestEvaluate_Regex(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("trigger.payload.from"), models.OperatorMatchesRegex, literal(`^\+1555`)), ectx))
	assert.False(t, Evaluate(simple(variable("trigger.payload.from"), models.OperatorMatchesRegex, literal(`^\+44`)), ectx))

	// Invalid pattern is no match, not an error.
	assert.False(t, Evaluate(simple(variable("trigger.payload.from"), models.OperatorMatchesRegex, literal(`([`)), ectx))
}

func TestEvaluate_ArrayAndMembership(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("customer.tags"), models.OperatorIncludes, literal("vip")), ectx))
	assert.True(t, Evaluate(simple(variable("customer.tags"), models.OperatorNotIncludes, literal("blocked")), ectx))
	assert.True(t, Evaluate(simple(variable("customer.name"), models.OperatorIn, literal([]any{"Ada", "Grace"})), ectx))
	assert.True(t, Evaluate(simple(variable("customer.name"), models.OperatorNotIn, literal([]any{"Grace"})), ectx))
	assert.True(t, Evaluate(simple(variable("customer.tags"), models.OperatorCount, literal(2)), ectx))
	assert.True(t, Evaluate(simple(variable("customer.tags"), models.OperatorCount, literal("2")), ectx))

	// INCLUDES against a non-array fails closed.
	assert.False(t, Evaluate(simple(variable("customer.name"), models.OperatorIncludes, literal("Ada")), ectx))
}

func TestEvaluate_DateComparisons(t *testing.T) {
	ectx := evalContext()
	ectx.Conversation["createdAt"] = time.Now().Add(-2 * time.Hour).Format(time.RFC3339)

	assert.True(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsBefore, literal("2999-01-01")), ectx))
	assert.True(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsAfter, literal("2000-01-01")), ectx))
	assert.True(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsWithinLast, literal("1 day")), ectx))
	assert.False(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsOlderThan, literal("1 day")), ectx))
	assert.True(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsOlderThan, literal("1 hour")), ectx))

	// A malformed duration must not make IS_OLDER_THAN vacuously true.
	assert.False(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsOlderThan, literal("bogus")), ectx))
}

func TestEvaluate_IsBetween(t *testing.T) {
	ectx := evalContext()

	assert.True(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorIsBetween, literal([]any{1, 10})), ectx))
	assert.False(t, Evaluate(simple(variable("variables.workflow.score"), models.OperatorIsBetween, literal([]any{6, 10})), ectx))

	ectx.Conversation["createdAt"] = "2026-06-15"
	assert.True(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsBetween, literal("2026-06-01, 2026-07-01")), ectx))
	assert.False(t, Evaluate(simple(variable("conversation.createdAt"), models.OperatorIsBetween, literal("not-a-range")), ectx))
}

func TestEvaluate_CompoundLogic(t *testing.T) {
	ectx := evalContext()

	isAda := simple(variable("customer.name"), models.OperatorEquals, literal("Ada"))
	isGrace := simple(variable("customer.name"), models.OperatorEquals, literal("Grace"))

	and := &models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound: &models.CompoundCondition{
			Logic:      models.LogicAnd,
			Conditions: []models.ConditionConfig{*isAda, *isGrace},
		},
	}
	assert.False(t, Evaluate(and, ectx))

	or := &models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound: &models.CompoundCondition{
			Logic:      models.LogicOr,
			Conditions: []models.ConditionConfig{*isAda, *isGrace},
		},
	}
	assert.True(t, Evaluate(or, ectx))
}

func TestEvaluate_VacuousCompounds(t *testing.T) {
	ectx := evalContext()

	emptyAnd := &models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound:       &models.CompoundCondition{Logic: models.LogicAnd},
	}
	assert.True(t, Evaluate(emptyAnd, ectx))

	emptyOr := &models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound:       &models.CompoundCondition{Logic: models.LogicOr},
	}
	assert.False(t, Evaluate(emptyOr, ectx))
}

func TestEvaluate_NestedCompound(t *testing.T) {
	ectx := evalContext()

	inner := models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound: &models.CompoundCondition{
			Logic: models.LogicOr,
			Conditions: []models.ConditionConfig{
				*simple(variable("customer.name"), models.OperatorEquals, literal("Grace")),
				*simple(variable("customer.tags"), models.OperatorIncludes, literal("vip")),
			},
		},
	}

	outer := &models.ConditionConfig{
		EvaluationType: models.EvaluationCompound,
		Compound: &models.CompoundCondition{
			Logic: models.LogicAnd,
			Conditions: []models.ConditionConfig{
				*simple(variable("variables.global.isOpenNow"), models.OperatorEquals, literal(true)),
				inner,
			},
		},
	}

	assert.True(t, Evaluate(outer, ectx))
}
