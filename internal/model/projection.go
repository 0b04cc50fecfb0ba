package model

import "time"

// CashflowDay is one simulated day of a projection window.
type CashflowDay struct {
	Date            time.Time
	Events          []Event
	StartingBalance int64
	EndingBalance   int64
	NetChange       int64
	IsNegative      bool // ending balance below zero
	IsCritical      bool // ending balance below the safety buffer
}

// CashflowProjection is the full day-by-day simulation plus aggregates over
// the window.
type CashflowProjection struct {
	StartDate         time.Time
	EndDate           time.Time
	LowestBalanceDate time.Time
	Days              []CashflowDay
	TotalIncome       int64
	TotalExpenses     int64
	TotalInvestments  int64
	NetChange         int64
	LowestBalance     int64
	SafetyBuffer      int64
	NegativeDays      int
	CriticalDays      int
}

// ProjectionSummary reduces a projection to the handful of numbers the
// dashboard headline needs. DaysUntilNegative is the zero-based index of the
// first negative day, nil when the balance never goes negative.
type ProjectionSummary struct {
	DaysUntilNegative *int
	StartingBalance   int64
	EndingBalance     int64
	NetChange         int64
	AvgDailySpend     int64
}
