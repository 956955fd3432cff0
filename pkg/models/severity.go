package models

import "golang.org/x/exp/slices"

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var Severities = []Severity{SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical}

func (s Severity) IsValid() bool {
	return slices.Contains(Severities, s)
}

// Score is the weight a severity contributes to a location's average severity.
// High scores 3 and every value that is not High, Moderate or Low scores 4, so
// Critical lands above High only through the fallback branch.
func (s Severity) Score() float64 {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityModerate:
		return 2
	case SeverityLow:
		return 1
	default:
		return 4
	}
}

// RiskLevel turns an average severity score into a display label.
func RiskLevel(avgSeverity float64) Severity {
	switch {
	case avgSeverity >= 3.5:
		return SeverityCritical
	case avgSeverity >= 2.5:
		return SeverityHigh
	case avgSeverity >= 1.5:
		return SeverityModerate
	default:
		return SeverityLow
	}
}
