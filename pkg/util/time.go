package util

import (
	"errors"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts the date strings browsers and date pickers send: full
// RFC3339 timestamps, timestamps without a zone and bare dates. Values
// without a zone are read as UTC.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, errors.New("unrecognised date format: " + value)
}
