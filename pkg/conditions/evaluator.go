// Package conditions evaluates the typed boolean expression trees embedded
// in condition nodes. Evaluation is fail-closed: malformed configs, unknown
// operators, bad regexes, and bad dates all yield false, never an error.
package conditions

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/variables"
)

// Evaluate resolves and evaluates the condition config against the
// execution context. It never panics or errors past this boundary.
func Evaluate(cfg *models.ConditionConfig, ectx *models.ExecutionContext) (result bool) {
	logger := slog.With("module", "condition_evaluator")

	defer func() {
		if r := recover(); r != nil {
			logger.Error("condition evaluation panicked, treating as false", "panic", r)

			result = false
		}
	}()

	ok, err := evaluate(cfg, ectx)
	if err != nil {
		logger.Warn("condition evaluation failed, treating as false", "error", err)

		return false
	}

	return ok
}

func evaluate(cfg *models.ConditionConfig, ectx *models.ExecutionContext) (bool, error) {
	if cfg == nil {
		return false, fmt.Errorf("nil condition config")
	}

	switch cfg.EvaluationType {
	case models.EvaluationCompound:
		if cfg.Compound == nil {
			return false, fmt.Errorf("compound condition missing body")
		}

		return evaluateCompound(cfg.Compound, ectx)
	case models.EvaluationSimple, "":
		if cfg.Simple == nil {
			return false, fmt.Errorf("simple condition missing body")
		}

		return evaluateSimple(cfg.Simple, ectx)
	default:
		return false, fmt.Errorf("unknown evaluation type %q", cfg.EvaluationType)
	}
}

// evaluateCompound combines children with all-true/any-true semantics. An
// empty AND is vacuously true; an empty OR is vacuously false.
func evaluateCompound(compound *models.CompoundCondition, ectx *models.ExecutionContext) (bool, error) {
	switch compound.Logic {
	case models.LogicAnd:
		for i := range compound.Conditions {
			ok, err := evaluate(&compound.Conditions[i], ectx)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, nil
			}
		}

		return true, nil
	case models.LogicOr:
		for i := range compound.Conditions {
			ok, err := evaluate(&compound.Conditions[i], ectx)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil
	default:
		return false, fmt.Errorf("unknown logic operator %q", compound.Logic)
	}
}

func evaluateSimple(simple *models.SimpleCondition, ectx *models.ExecutionContext) (bool, error) {
	left := resolveOperand(simple.Left, ectx)
	right := resolveOperand(simple.Right, ectx)

	return compare(left, simple.Operator, right)
}

// resolveOperand fetches a variable operand from the context, or coerces a
// literal operand best-effort ("true"/"false" to bool, numeric strings to
// numbers, else string).
func resolveOperand(op models.Operand, ectx *models.ExecutionContext) any {
	if op.Type == models.OperandVariable {
		path, _ := op.Value.(string)

		return variables.Get(path, ectx)
	}

	return coerceLiteral(op.Value)
}

func compare(left any, operator models.Operator, right any) (bool, error) {
	switch operator {
	case models.OperatorExists:
		return left != nil, nil
	case models.OperatorNotExists:
		return left == nil, nil
	case models.OperatorIsEmpty:
		return isEmpty(left), nil
	case models.OperatorIsNotEmpty:
		return !isEmpty(left), nil
	case models.OperatorEquals:
		return looseEquals(left, right), nil
	case models.OperatorNotEquals:
		return !looseEquals(left, right), nil
	case models.OperatorGreaterThan, models.OperatorLessThan,
		models.OperatorGreaterEqual, models.OperatorLessEqual:
		return compareNumeric(left, operator, right)
	case models.OperatorContains:
		return stringContains(left, right), nil
	case models.OperatorNotContains:
		return !stringContains(left, right), nil
	case models.OperatorStartsWith:
		return strings.HasPrefix(lowerString(left), lowerString(right)), nil
	case models.OperatorEndsWith:
		return strings.HasSuffix(lowerString(left), lowerString(right)), nil
	case models.OperatorMatchesRegex:
		return matchesRegex(left, right), nil
	case models.OperatorIncludes:
		return arrayIncludes(left, right)
	case models.OperatorNotIncludes:
		ok, err := arrayIncludes(left, right)

		return !ok, err
	case models.OperatorIn:
		return arrayIncludes(right, left)
	case models.OperatorNotIn:
		ok, err := arrayIncludes(right, left)

		return !ok, err
	case models.OperatorCount:
		return compareCount(left, right)
	case models.OperatorIsBefore, models.OperatorIsAfter:
		return compareDates(left, operator, right)
	case models.OperatorIsWithinLast, models.OperatorIsOlderThan:
		return compareAge(left, operator, right)
	case models.OperatorIsBetween:
		return isBetween(left, right), nil
	default:
		return false, fmt.Errorf("unknown operator %q", operator)
	}
}

func compareNumeric(left any, operator models.Operator, right any) (bool, error) {
	l, lok := coerceNumber(left)

	r, rok := coerceNumber(right)
	if !lok || !rok {
		return false, fmt.Errorf("non-numeric operand for %s", operator)
	}

	switch operator {
	case models.OperatorGreaterThan:
		return l > r, nil
	case models.OperatorLessThan:
		return l < r, nil
	case models.OperatorGreaterEqual:
		return l >= r, nil
	default:
		return l <= r, nil
	}
}

func stringContains(left, right any) bool {
	return strings.Contains(lowerString(left), lowerString(right))
}

// matchesRegex compiles right as a pattern against left; an invalid
// pattern yields false instead of an error.
func matchesRegex(left, right any) bool {
	pattern, ok := right.(string)
	if !ok {
		pattern = variables.Stringify(right)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		slog.Warn("invalid regex in condition, treating as no match",
			"module", "condition_evaluator", "pattern", pattern, "error", err)

		return false
	}

	return re.MatchString(variables.Stringify(left))
}

func arrayIncludes(haystack, needle any) (bool, error) {
	items, ok := haystack.([]any)
	if !ok {
		return false, fmt.Errorf("membership operand is %T, expected array", haystack)
	}

	for _, item := range items {
		if looseEquals(item, needle) {
			return true, nil
		}
	}

	return false, nil
}

func compareCount(left, right any) (bool, error) {
	items, ok := left.([]any)
	if !ok {
		return false, fmt.Errorf("COUNT operand is %T, expected array", left)
	}

	return looseEquals(float64(len(items)), right), nil
}

func compareDates(left any, operator models.Operator, right any) (bool, error) {
	l, lok := parseTime(left)

	r, rok := parseTime(right)
	if !lok || !rok {
		return false, fmt.Errorf("unparseable date operand for %s", operator)
	}

	if operator == models.OperatorIsBefore {
		return l.Before(r), nil
	}

	return l.After(r), nil
}

// compareAge checks left against now minus a duration string like
// "3 days". A malformed duration fails the whole comparison.
func compareAge(left any, operator models.Operator, right any) (bool, error) {
	t, ok := parseTime(left)
	if !ok {
		return false, fmt.Errorf("unparseable date operand for %s", operator)
	}

	duration, err := parseDuration(variables.Stringify(right))
	if err != nil {
		return false, err
	}

	cutoff := time.Now().Add(-duration)

	if operator == models.OperatorIsWithinLast {
		return t.After(cutoff), nil
	}

	return t.Before(cutoff), nil
}

// isBetween accepts right as a two-element array or a comma-separated
// string, trying a numeric range first and falling back to a date range.
func isBetween(left, right any) bool {
	lo, hi, ok := rangeBounds(right)
	if !ok {
		return false
	}

	if l, lok := coerceNumber(left); lok {
		loN, loOk := coerceNumber(lo)
		if hiN, hiOk := coerceNumber(hi); loOk && hiOk {
			return l >= loN && l <= hiN
		}
	}

	l, lok := parseTime(left)
	loT, loOk := parseTime(lo)

	hiT, hiOk := parseTime(hi)
	if !lok || !loOk || !hiOk {
		return false
	}

	return !l.Before(loT) && !l.After(hiT)
}

func rangeBounds(right any) (any, any, bool) {
	switch v := right.(type) {
	case []any:
		if len(v) != 2 {
			return nil, nil, false
		}

		return v[0], v[1], true
	case string:
		parts := strings.SplitN(v, ",", 2)
		if len(parts) != 2 {
			return nil, nil, false
		}

		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
	default:
		return nil, nil, false
	}
}
