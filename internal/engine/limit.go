package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/calebgardner/runway/internal/model"
)

// tightBudgetThreshold is the daily limit below which the calculator attaches
// a tight-budget warning, in cents.
const tightBudgetThreshold = 2000

// LimitInput bundles everything the spending-limit calculation needs.
// CurrentBalance is assumed to already include every CONFIRMED event, so only
// PLANNED events inside the horizon move the breakdown.
type LimitInput struct {
	Today          time.Time
	HorizonDate    time.Time
	HorizonMode    model.HorizonMode
	Events         []model.Event
	CurrentBalance int64
	SafetyBuffer   int64
}

// FindNextIncomeDate returns the date of the earliest PLANNED or CONFIRMED
// income event on or after today, or nil if none exists.
func FindNextIncomeDate(events []model.Event, today time.Time) *time.Time {
	today = NormalizeDate(today)
	var next *time.Time
	for _, ev := range events {
		if !ev.Counts() || ev.Type != model.EventTypeIncome {
			continue
		}
		date := NormalizeDate(ev.Date)
		if date.Before(today) {
			continue
		}
		if next == nil || date.Before(*next) {
			d := date
			next = &d
		}
	}
	return next
}

// FindLastCommitmentDate returns the date of the latest PLANNED expense or
// investment on or after today, or nil if none exists.
func FindLastCommitmentDate(events []model.Event, today time.Time) *time.Time {
	today = NormalizeDate(today)
	var last *time.Time
	for _, ev := range events {
		if ev.Status != model.StatusPlanned || ev.IsTemplate() {
			continue
		}
		if ev.Type != model.EventTypeExpense && ev.Type != model.EventTypeInvestment {
			continue
		}
		date := NormalizeDate(ev.Date)
		if date.Before(today) {
			continue
		}
		if last == nil || date.After(*last) {
			d := date
			last = &d
		}
	}
	return last
}

// HorizonDate resolves the planning horizon for the given mode, then extends
// it to cover any known later obligation: a committed expense outside the
// nominal window must never be invisible to the limit calculation.
func HorizonDate(events []model.Event, mode model.HorizonMode, today time.Time) (time.Time, error) {
	today = NormalizeDate(today)

	var base time.Time
	switch mode {
	case model.HorizonEndOfMonth:
		base = EndOfMonth(today)
	case model.HorizonNextIncome:
		if next := FindNextIncomeDate(events, today); next != nil {
			base = *next
		} else {
			base = EndOfMonth(today)
		}
	default:
		return time.Time{}, fmt.Errorf("unrecognized horizon mode %q", mode)
	}

	if last := FindLastCommitmentDate(events, today); last != nil && last.After(base) {
		base = *last
	}
	return base, nil
}

// DailySpendingLimitAuto resolves the horizon for the given mode and then
// computes the spending limit.
func DailySpendingLimitAuto(balance int64, events []model.Event, mode model.HorizonMode, buffer int64, today time.Time) (*model.SpendingLimitResult, error) {
	horizon, err := HorizonDate(events, mode, today)
	if err != nil {
		return nil, err
	}
	return DailySpendingLimit(LimitInput{
		Today:          today,
		HorizonDate:    horizon,
		HorizonMode:    mode,
		Events:         events,
		CurrentBalance: balance,
		SafetyBuffer:   buffer,
	})
}

// DailySpendingLimit computes how much can safely be spent per day until the
// horizon, diagnosing the cause of any shortfall.
func DailySpendingLimit(in LimitInput) (*model.SpendingLimitResult, error) {
	if err := validateEvents(in.Events); err != nil {
		return nil, err
	}
	today := NormalizeDate(in.Today)
	horizon := NormalizeDate(in.HorizonDate)

	// Only PLANNED events strictly after today and up to the horizon move
	// the breakdown; confirmed reality is already inside CurrentBalance.
	var plannedIncome, requiredExpenses, plannedInvestments int64
	for _, ev := range in.Events {
		if ev.Status != model.StatusPlanned || ev.IsTemplate() {
			continue
		}
		date := NormalizeDate(ev.Date)
		if !date.After(today) || date.After(horizon) {
			continue
		}
		switch ev.Type {
		case model.EventTypeIncome:
			plannedIncome += ev.Amount
		case model.EventTypeExpense:
			requiredExpenses += abs(ev.Amount)
		case model.EventTypeInvestment:
			plannedInvestments += abs(ev.Amount)
		}
	}

	cashNow := in.CurrentBalance + plannedIncome
	available := cashNow - requiredExpenses - plannedInvestments - in.SafetyBuffer

	daysUntilHorizon := DaysBetween(today, horizon) + 1
	if daysUntilHorizon < 1 {
		daysUntilHorizon = 1
	}

	breakdown := model.SpendingLimitBreakdown{
		HorizonDate:          horizon,
		HorizonMode:          in.HorizonMode,
		CashNow:              cashNow,
		RequiredExpenses:     requiredExpenses,
		PlannedInvestments:   plannedInvestments,
		SafetyBuffer:         in.SafetyBuffer,
		AvailableForSpending: available,
		DailyLimit:           available / int64(daysUntilHorizon),
		DaysUntilHorizon:     daysUntilHorizon,
		IsNegative:           available < 0,
		ShortfallReason:      model.ShortfallNone,
	}
	if breakdown.IsNegative {
		breakdown.ShortfallReason = diagnoseShortfall(cashNow, requiredExpenses, plannedInvestments, in.SafetyBuffer)
	}

	return &model.SpendingLimitResult{
		Breakdown:   breakdown,
		Warnings:    limitWarnings(breakdown),
		Explanation: explainLimit(breakdown),
	}, nil
}

// diagnoseShortfall attributes a negative available amount to the factor (or
// factors) that would independently have caused it.
func diagnoseShortfall(cashNow, expenses, investments, buffer int64) model.ShortfallReason {
	expensesAlone := cashNow-expenses < 0
	investmentsAlone := cashNow-investments < 0
	bufferAlone := cashNow-buffer < 0

	causes := 0
	for _, c := range []bool{expensesAlone, investmentsAlone, bufferAlone} {
		if c {
			causes++
		}
	}

	switch {
	case causes > 1:
		return model.ShortfallMultiple
	case expensesAlone:
		return model.ShortfallExpenses
	case investmentsAlone:
		return model.ShortfallInvestments
	case cashNow-expenses-investments >= 0:
		// Positive before the buffer; the buffer tips it negative.
		return model.ShortfallBuffer
	default:
		// No single factor suffices, only their combination does.
		return model.ShortfallMultiple
	}
}

// limitWarnings produces the advisory strings co-returned with a breakdown.
// These are guidance, not errors.
func limitWarnings(b model.SpendingLimitBreakdown) []string {
	var warnings []string
	if b.IsNegative {
		switch b.ShortfallReason {
		case model.ShortfallExpenses:
			warnings = append(warnings, fmt.Sprintf(
				"Planned expenses of %s exceed available cash; review required expenses before the horizon.",
				model.FormatCents(b.RequiredExpenses)))
		case model.ShortfallInvestments:
			warnings = append(warnings, fmt.Sprintf(
				"Planned investments of %s exceed available cash; consider deferring contributions.",
				model.FormatCents(b.PlannedInvestments)))
		case model.ShortfallBuffer:
			warnings = append(warnings, fmt.Sprintf(
				"Spending anything would dip into your %s safety buffer.",
				model.FormatCents(b.SafetyBuffer)))
		default:
			warnings = append(warnings,
				"Multiple commitments exceed available cash; expenses, investments, and buffer each contribute to the shortfall.")
		}
		warnings = append(warnings, fmt.Sprintf(
			"Projected shortfall of %s by %s.",
			model.FormatCents(-b.AvailableForSpending),
			b.HorizonDate.Format(isoDate)))
		return warnings
	}
	if b.DailyLimit < tightBudgetThreshold {
		warnings = append(warnings, fmt.Sprintf(
			"Tight budget: only %s per day until %s.",
			model.FormatCents(b.DailyLimit),
			b.HorizonDate.Format(isoDate)))
	}
	return warnings
}

// explainLimit renders the full arithmetic as a human-readable trace for UI
// transparency; it is never machine-parsed.
func explainLimit(b model.SpendingLimitBreakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current cash: %s\n", model.FormatCents(b.CashNow))
	fmt.Fprintf(&sb, "Required expenses: %s\n", model.FormatCents(b.RequiredExpenses))
	fmt.Fprintf(&sb, "Planned investments: %s\n", model.FormatCents(b.PlannedInvestments))
	fmt.Fprintf(&sb, "Safety buffer: %s\n", model.FormatCents(b.SafetyBuffer))
	fmt.Fprintf(&sb, "Available for spending: %s\n", model.FormatCents(b.AvailableForSpending))
	fmt.Fprintf(&sb, "Days until horizon (%s): %d\n", b.HorizonDate.Format(isoDate), b.DaysUntilHorizon)
	fmt.Fprintf(&sb, "Daily spending limit: %s", model.FormatCents(b.DailyLimit))
	return sb.String()
}
