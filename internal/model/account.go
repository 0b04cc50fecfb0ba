package model

import "time"

// Account is a balance snapshot row: the balance the account held at its
// reference point, in integer cents. The projection engine treats it as an
// immutable input.
type Account struct {
	CreatedAt      time.Time
	ID             string
	Name           string
	InitialBalance int64
}

// AccountBalance is the computed balance of one account as of a cutoff date.
type AccountBalance struct {
	AccountID string
	Name      string
	Balance   int64
}

// Settings holds the user's planning preferences.
type Settings struct {
	HorizonMode  HorizonMode
	SafetyBuffer int64
}

// HorizonMode selects how the spending-limit horizon is resolved.
type HorizonMode string

const (
	// HorizonEndOfMonth plans until the last day of the current month.
	HorizonEndOfMonth HorizonMode = "END_OF_MONTH"
	// HorizonNextIncome plans until the next expected income.
	HorizonNextIncome HorizonMode = "NEXT_INCOME"
)

// Valid reports whether the horizon mode is one of the known values.
func (m HorizonMode) Valid() bool {
	switch m {
	case HorizonEndOfMonth, HorizonNextIncome:
		return true
	}
	return false
}
