// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// EventType categorizes the financial nature of an event.
type EventType string

const (
	// EventTypeIncome represents money coming in.
	EventTypeIncome EventType = "INCOME"
	// EventTypeExpense represents money going out.
	EventTypeExpense EventType = "EXPENSE"
	// EventTypeInvestment represents money moved into investments.
	EventTypeInvestment EventType = "INVESTMENT"
)

// Valid reports whether the event type is one of the known values.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeIncome, EventTypeExpense, EventTypeInvestment:
		return true
	}
	return false
}

// EventStatus tracks the lifecycle of an event.
type EventStatus string

const (
	// StatusPlanned marks an event that is expected but not yet realized.
	StatusPlanned EventStatus = "PLANNED"
	// StatusConfirmed marks an event that has actually happened.
	StatusConfirmed EventStatus = "CONFIRMED"
	// StatusSkipped marks an event the user dismissed; it is invisible to
	// every financial computation.
	StatusSkipped EventStatus = "SKIPPED"
)

// Valid reports whether the status is one of the known values.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusConfirmed, StatusSkipped:
		return true
	}
	return false
}

// EventPriority expresses how negotiable an event is.
type EventPriority string

const (
	// PriorityRequired marks non-negotiable events.
	PriorityRequired EventPriority = "REQUIRED"
	// PriorityImportant marks events that matter but could slip.
	PriorityImportant EventPriority = "IMPORTANT"
	// PriorityOptional marks nice-to-have events.
	PriorityOptional EventPriority = "OPTIONAL"
)

// Valid reports whether the priority is one of the known values.
func (p EventPriority) Valid() bool {
	switch p {
	case PriorityRequired, PriorityImportant, PriorityOptional:
		return true
	}
	return false
}

// CostType distinguishes recurring costs from one-offs. Meaningful only for
// EXPENSE events; empty otherwise.
type CostType string

const (
	// CostRecurrent marks a repeating cost (rent, subscriptions).
	CostRecurrent CostType = "RECURRENT"
	// CostExceptional marks a one-off cost.
	CostExceptional CostType = "EXCEPTIONAL"
)

// Valid reports whether the cost type is one of the known values.
func (c CostType) Valid() bool {
	switch c {
	case CostRecurrent, CostExceptional:
		return true
	}
	return false
}

// RecurrenceFrequency is the period of a recurring event template.
type RecurrenceFrequency string

const (
	// FrequencyDaily repeats every calendar day.
	FrequencyDaily RecurrenceFrequency = "DAILY"
	// FrequencyWeekly repeats every 7 days.
	FrequencyWeekly RecurrenceFrequency = "WEEKLY"
	// FrequencyBiweekly repeats every 14 days.
	FrequencyBiweekly RecurrenceFrequency = "BIWEEKLY"
	// FrequencyMonthly repeats every calendar month, clamped to month end.
	FrequencyMonthly RecurrenceFrequency = "MONTHLY"
	// FrequencyYearly repeats every calendar year, Feb 29 clamped to Feb 28.
	FrequencyYearly RecurrenceFrequency = "YEARLY"
)

// Valid reports whether the frequency is one of the known values.
func (f RecurrenceFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Event is a single financial fact or plan: income, expense, or investment,
// attached to an account on a calendar day. Amounts are signed integer cents:
// positive for money in, negative for money out. A row carrying a
// RecurrenceFrequency is a template rather than a financial fact; templates
// are expanded into ordinary PLANNED occurrences by the engine.
type Event struct {
	Date                time.Time
	RecurrenceEndDate   *time.Time
	ID                  string
	Description         string
	AccountID           string
	TemplateID          string // set on generated occurrences, back-reference to the template
	Type                EventType
	CostType            CostType
	Status              EventStatus
	Priority            EventPriority
	RecurrenceFrequency RecurrenceFrequency
	Amount              int64
}

// IsTemplate reports whether this row is a recurring-event template.
func (e *Event) IsTemplate() bool {
	return e.RecurrenceFrequency != ""
}

// Counts reports whether the event participates in financial computations.
// SKIPPED events and templates never do.
func (e *Event) Counts() bool {
	return e.Status != StatusSkipped && !e.IsTemplate()
}

// DedupKey produces a stable hash for duplicate detection across imports.
func (e *Event) DedupKey() string {
	data := fmt.Sprintf("%s:%d:%s:%s",
		e.Date.Format("2006-01-02"),
		e.Amount,
		e.Description,
		e.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
