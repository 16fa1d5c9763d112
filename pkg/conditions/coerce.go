package conditions

import (
	"strconv"
	"strings"
	"time"

	"github.com/voxline/voxline/pkg/variables"
)

// coerceLiteral applies best-effort typing to a literal operand:
// "true"/"false" become booleans, numeric strings become numbers,
// everything else passes through.
func coerceLiteral(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}

	return s
}

// coerceNumber casts an operand to float64 for numeric comparison.
func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}

		return 0, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}

		return n, true
	default:
		return 0, false
	}
}

// looseEquals implements the intentionally type-coercing equality of
// workflow variables, so "5" matches 5 and "true" matches true. Numeric
// equality is tried first, then case-sensitive string forms.
func looseEquals(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	l, lok := coerceNumber(left)
	if r, rok := coerceNumber(right); lok && rok {
		return l == r
	}

	return variables.Stringify(left) == variables.Stringify(right)
}

// isEmpty treats nil, "", and empty arrays as empty.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func lowerString(value any) string {
	return strings.ToLower(variables.Stringify(value))
}

// parseTime accepts time.Time values, RFC 3339 and common date layouts,
// and epoch seconds or milliseconds.
func parseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}

		return time.Time{}, false
	case float64:
		return epochTime(int64(v)), true
	case int64:
		return epochTime(v), true
	case int:
		return epochTime(int64(v)), true
	default:
		return time.Time{}, false
	}
}

// epochTime treats values past the year ~2286 in seconds as milliseconds.
func epochTime(v int64) time.Time {
	if v > 1e10 {
		return time.UnixMilli(v)
	}

	return time.Unix(v, 0)
}
