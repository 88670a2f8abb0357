package domain

import (
	"fmt"
	"time"
)

// FirstActivityPeriod is the earliest month with recorded activity.
var FirstActivityPeriod = Period{Month: 8, Year: 2024}

// DefaultActivityPeriod is the period shown before a viewer picks one.
var DefaultActivityPeriod = Period{Month: 2, Year: 2025}

// Period identifies a calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before reports whether p is an earlier month than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// InRange reports whether the period has a valid month and lies between
// FirstActivityPeriod and the month containing now, inclusive.
func (p Period) InRange(now time.Time) bool {
	if p.Month < 1 || p.Month > 12 {
		return false
	}
	if p.Before(FirstActivityPeriod) {
		return false
	}
	return !PeriodOf(now).Before(p)
}

// MonthlyActivity aggregates platform activity for one month.
type MonthlyActivity struct {
	Period                      Period          `json:"period"`
	TotalTime                   float64         `json:"total_time"`
	AverageTimePerActivity      float64         `json:"average_time_per_activity"`
	UniquePlayers               float64         `json:"unique_players"`
	NumberOfActivities          float64         `json:"number_of_activities"`
	NumberOfActivitiesPerPlayer float64         `json:"number_of_activities_per_player"`
	AverageTimeSpentPerPlayer   float64         `json:"average_time_spent_per_player"`
	DailyBreakdown              []DailyActivity `json:"daily_breakdown"`
}

// IsEmpty reports whether the month has no recorded activity at all.
func (m MonthlyActivity) IsEmpty() bool {
	return m.NumberOfActivities == 0 && len(m.DailyBreakdown) == 0
}

// DailyActivity is one day of a monthly breakdown.
type DailyActivity struct {
	Date            string  `json:"date"`
	TotalMinutes    float64 `json:"total_minutes"`
	TotalActivities int64   `json:"total_activities"`
}
