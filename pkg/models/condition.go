package models

// EvaluationType discriminates the ConditionConfig union.
type EvaluationType string

const (
	EvaluationSimple   EvaluationType = "simple"
	EvaluationCompound EvaluationType = "compound"
)

// LogicOperator combines compound condition children.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// Operator names a comparison applied by the condition evaluator.
type Operator string

const (
	OperatorExists       Operator = "EXISTS"
	OperatorNotExists    Operator = "NOT_EXISTS"
	OperatorIsEmpty      Operator = "IS_EMPTY"
	OperatorIsNotEmpty   Operator = "IS_NOT_EMPTY"
	OperatorEquals       Operator = "EQUALS"
	OperatorNotEquals    Operator = "NOT_EQUALS"
	OperatorGreaterThan  Operator = "GREATER_THAN"
	OperatorLessThan     Operator = "LESS_THAN"
	OperatorGreaterEqual Operator = "GREATER_EQUAL"
	OperatorLessEqual    Operator = "LESS_EQUAL"
	OperatorContains     Operator = "CONTAINS"
	OperatorNotContains  Operator = "NOT_CONTAINS"
	OperatorStartsWith   Operator = "STARTS_WITH"
	OperatorEndsWith     Operator = "ENDS_WITH"
	OperatorMatchesRegex Operator = "MATCHES_REGEX"
	OperatorIncludes     Operator = "INCLUDES"
	OperatorNotIncludes  Operator = "NOT_INCLUDES"
	OperatorIn           Operator = "IN"
	OperatorNotIn        Operator = "NOT_IN"
	OperatorCount        Operator = "COUNT"
	OperatorIsBefore     Operator = "IS_BEFORE"
	OperatorIsAfter      Operator = "IS_AFTER"
	OperatorIsWithinLast Operator = "IS_WITHIN_LAST"
	OperatorIsOlderThan  Operator = "IS_OLDER_THAN"
	OperatorIsBetween    Operator = "IS_BETWEEN"
)

// OperandType tags a condition operand as a context path or a literal.
type OperandType string

const (
	OperandVariable OperandType = "variable"
	OperandLiteral  OperandType = "literal"
)

// Operand is one side of a simple comparison. For variable operands Value
// holds a dotted context path; for literals it holds the raw value.
type Operand struct {
	Type  OperandType `json:"type"  mapstructure:"type"`
	Value any         `json:"value" mapstructure:"value"`
}

// SimpleCondition is a single {left, operator, right} comparison.
type SimpleCondition struct {
	Left     Operand  `json:"left"     mapstructure:"left"`
	Operator Operator `json:"operator" mapstructure:"operator"`
	Right    Operand  `json:"right"    mapstructure:"right"`
}

// CompoundCondition combines child conditions with AND/OR logic.
type CompoundCondition struct {
	Logic      LogicOperator     `json:"logic"      mapstructure:"logic"`
	Conditions []ConditionConfig `json:"conditions" mapstructure:"conditions"`
}

// ConditionConfig is a tagged union: exactly one of Simple/Compound is
// populated per the EvaluationType discriminator. Malformed configs
// evaluate to false rather than erroring.
type ConditionConfig struct {
	EvaluationType EvaluationType     `json:"evaluationType"     mapstructure:"evaluationType"`
	Simple         *SimpleCondition   `json:"simple,omitempty"   mapstructure:"simple"`
	Compound       *CompoundCondition `json:"compound,omitempty" mapstructure:"compound"`
}
