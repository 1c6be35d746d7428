package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHazyUtcTime(t *testing.T) {
	expectedTimeUtc, _ := time.Parse(time.RFC3339, "2026-08-24T00:00:00Z")
	expectedTimeBst, _ := time.Parse(time.RFC3339, "2026-08-24T00:00:00+01:00")
	expectedTimeMillis, _ := time.Parse(time.RFC3339Nano, "2026-08-24T00:00:00.123Z")

	t.Run("Without TZ", testParseHazyUtcTime("2026-08-24T00:00:00", &expectedTimeUtc))
	t.Run("With zulu TZ", testParseHazyUtcTime("2026-08-24T00:00:00Z", &expectedTimeUtc))
	t.Run("With explicit UTC TZ", testParseHazyUtcTime("2026-08-24T00:00:00+00:00", &expectedTimeUtc))
	t.Run("With explicit non zero TZ", testParseHazyUtcTime("2026-08-24T00:00:00+01:00", &expectedTimeBst))
	t.Run("With fractional seconds", testParseHazyUtcTime("2026-08-24T00:00:00.123Z", &expectedTimeMillis))
}

func testParseHazyUtcTime(value string, expectedTime *time.Time) func(t *testing.T) {
	return func(t *testing.T) {
		parsedTime, err := ParseHazyUtcTime(value)
		if err != nil {
			assert.NoError(t, err)
			return
		}
		assert.Equal(t, expectedTime.UTC(), parsedTime.UTC())

		_, actualTzOffset := parsedTime.Zone()
		_, expectedTzOffset := expectedTime.Zone()
		assert.Equal(t, expectedTzOffset, actualTzOffset)
	}
}

func TestParseHazyUtcTimeRejectsGarbage(t *testing.T) {
	_, err := ParseHazyUtcTime("yesterday")
	assert.Error(t, err)
}
