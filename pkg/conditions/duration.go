package conditions

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*(minute|hour|day|week|month|year)s?\s*$`)

// ParseDuration parses a duration string of the form "<integer> <unit>(s)"
// with unit in {minute, hour, day, week, month, year}. Month and year are
// fixed-length approximations (30 and 365 days). Malformed input logs a
// warning and returns 0.
func ParseDuration(s string) time.Duration {
	d, err := parseDuration(s)
	if err != nil {
		slog.Warn("malformed duration string, treating as zero",
			"module", "condition_evaluator", "input", s)

		return 0
	}

	return d
}

func parseDuration(s string) (time.Duration, error) {
	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("malformed duration %q", s)
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed duration amount %q", s)
	}

	var unit time.Duration

	switch match[2][0] | 0x20 { // lower-case first byte
	case 'm':
		if len(match[2]) > 1 && (match[2][1]|0x20) == 'o' {
			unit = 30 * 24 * time.Hour // month
		} else {
			unit = time.Minute
		}
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	case 'y':
		unit = 365 * 24 * time.Hour
	}

	return time.Duration(n) * unit, nil
}
