package conditions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration_Units(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30 minutes", 30 * time.Minute},
		{"1 minute", time.Minute},
		{"2 hours", 2 * time.Hour},
		{"7 days", 7 * 24 * time.Hour},
		{"1 week", 7 * 24 * time.Hour},
		{"2 weeks", 14 * 24 * time.Hour},
		{"1 month", 30 * 24 * time.Hour},
		{"1 year", 365 * 24 * time.Hour},
		{"3 DAYS", 3 * 24 * time.Hour},
		{"  5 hours  ", 5 * time.Hour},
		{"7days", 7 * 24 * time.Hour},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseDuration(tc.input), "input %q", tc.input)
	}
}

func TestParseDuration_SevenDaysInMilliseconds(t *testing.T) {
	assert.Equal(t, int64(604800000), ParseDuration("7 days").Milliseconds())
}

func TestParseDuration_MalformedReturnsZero(t *testing.T) {
	for _, input := range []string{"", "bogus", "three days", "5 fortnights", "days 5", "-2 days"} {
		assert.Equal(t, time.Duration(0), ParseDuration(input), "input %q", input)
	}
}

func TestParseDurationInternal_MalformedErrors(t *testing.T) {
	_, err := parseDuration("bogus")
	require.Error(t, err)

	d, err := parseDuration("90 minutes")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)
}
