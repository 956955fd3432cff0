package models

import "golang.org/x/exp/slices"

// Status is informational only. Any authorised actor may move a report to any
// status, there is no enforced ordering between them.
type Status string

const (
	StatusReported           Status = "Reported"
	StatusUnderInvestigation Status = "Under Investigation"
	StatusResolved           Status = "Resolved"
	StatusClosed             Status = "Closed"
)

var Statuses = []Status{StatusReported, StatusUnderInvestigation, StatusResolved, StatusClosed}

func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}
