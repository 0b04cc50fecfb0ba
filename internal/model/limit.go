package model

import "time"

// ShortfallReason attributes the cause of a negative available-for-spending
// amount.
type ShortfallReason string

const (
	// ShortfallNone means there is no shortfall.
	ShortfallNone ShortfallReason = "none"
	// ShortfallExpenses means planned expenses alone cause the deficit.
	ShortfallExpenses ShortfallReason = "expenses"
	// ShortfallInvestments means planned investments alone cause the deficit.
	ShortfallInvestments ShortfallReason = "investments"
	// ShortfallBuffer means the safety buffer tips an otherwise-positive
	// balance negative.
	ShortfallBuffer ShortfallReason = "buffer"
	// ShortfallMultiple means more than one factor independently causes a
	// deficit.
	ShortfallMultiple ShortfallReason = "multiple"
)

// SpendingLimitBreakdown is the full arithmetic behind a daily spending limit.
// All money fields are integer cents.
type SpendingLimitBreakdown struct {
	HorizonDate          time.Time
	HorizonMode          HorizonMode
	ShortfallReason      ShortfallReason
	CashNow              int64
	RequiredExpenses     int64
	PlannedInvestments   int64
	SafetyBuffer         int64
	AvailableForSpending int64
	DailyLimit           int64
	DaysUntilHorizon     int
	IsNegative           bool
}

// SpendingLimitResult pairs the breakdown with advisory warnings and a
// human-readable trace of the computation.
type SpendingLimitResult struct {
	Explanation string
	Warnings    []string
	Breakdown   SpendingLimitBreakdown
}
