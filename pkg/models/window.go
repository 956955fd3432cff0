package models

import (
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
)

// Window bounds a query on the occurrence time of a report. Either side may
// be unset, which leaves that side open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w Window) IsZero() bool {
	return w.Start == nil && w.End == nil
}

func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}

	return true
}

// ParseWindow reads the startDate/endDate query values. Empty strings leave
// the matching bound open.
func ParseWindow(start string, end string) (Window, error) {
	window := Window{}

	if start != "" {
		startTime, err := util.ParseDate(start)
		if err != nil {
			return window, NewValidationError("startDate", "Invalid startDate")
		}
		window.Start = &startTime
	}

	if end != "" {
		endTime, err := util.ParseDate(end)
		if err != nil {
			return window, NewValidationError("endDate", "Invalid endDate")
		}
		window.End = &endTime
	}

	return window, nil
}
