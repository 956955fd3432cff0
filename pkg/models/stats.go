package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// TrendKey identifies a calendar bucket. Only the fields of the requested
// granularity are set.
type TrendKey struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month,omitempty" json:"month,omitempty"`
	Day   int `bson:"day,omitempty" json:"day,omitempty"`
	Week  int `bson:"week,omitempty" json:"week,omitempty"`
}

// Less orders keys by year, month, day and then week.
func (k TrendKey) Less(other TrendKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	if k.Month != other.Month {
		return k.Month < other.Month
	}
	if k.Day != other.Day {
		return k.Day < other.Day
	}
	return k.Week < other.Week
}

type MonthlyCount struct {
	ID    TrendKey `bson:"_id" json:"_id"`
	Count int64    `bson:"count" json:"count"`
}

type TrendBucket struct {
	ID         TrendKey `bson:"_id" json:"_id"`
	Count      int64    `bson:"count" json:"count"`
	Fatalities int64    `bson:"fatalities" json:"fatalities"`
	Injuries   int64    `bson:"injuries" json:"injuries"`
}

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod falls back to month for anything it does not recognise.
func ParsePeriod(value string) Period {
	switch Period(value) {
	case PeriodDay, PeriodWeek:
		return Period(value)
	default:
		return PeriodMonth
	}
}

// KeyFor builds the bucket key a timestamp falls in. Calendar fields are taken
// in UTC. Week buckets use the ISO week-numbering year, so 30 December 2024
// lands in week 1 of 2025.
func (p Period) KeyFor(t time.Time) TrendKey {
	t = t.UTC()

	switch p {
	case PeriodDay:
		return TrendKey{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
	case PeriodWeek:
		year, week := t.ISOWeek()
		return TrendKey{Year: year, Week: week}
	default:
		return TrendKey{Year: t.Year(), Month: int(t.Month())}
	}
}

type LocationRisk struct {
	Location    string   `bson:"_id" json:"_id"`
	Count       int64    `bson:"count" json:"count"`
	AvgSeverity float64  `bson:"avgSeverity" json:"avgSeverity"`
	AvgLat      float64  `bson:"avgLat" json:"avgLat"`
	AvgLng      float64  `bson:"avgLng" json:"avgLng"`
	RiskLevel   Severity `bson:"-" json:"riskLevel"`
}

type CasualtyStats struct {
	TotalFatalities int64   `bson:"totalFatalities" json:"totalFatalities"`
	TotalInjuries   int64   `bson:"totalInjuries" json:"totalInjuries"`
	AvgFatalities   float64 `bson:"avgFatalities" json:"avgFatalities"`
	AvgInjuries     float64 `bson:"avgInjuries" json:"avgInjuries"`
}

type HeatmapPoint struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Coordinates *Coordinates       `bson:"coordinates" json:"coordinates"`
	Severity    Severity           `bson:"severity" json:"severity"`
	DateTime    time.Time          `bson:"dateTime" json:"dateTime"`
	Title       string             `bson:"title" json:"title"`
	Location    string             `bson:"location" json:"location"`
}
