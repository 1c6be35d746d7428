package models

import (
	"time"
)

// ParseHazyUtcTime accepts RFC 3339 with or without a zone, a missing zone is read as UTC.
func ParseHazyUtcTime(value string) (time.Time, error) {
	parsedTime, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		parsedTime, err = time.Parse("2006-01-02T15:04:05.999999999", value)
		if err != nil {
			return time.Time{}, err
		}
	}
	return parsedTime, nil
}
