package cli

import (
	"fmt"
	"strings"

	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
)

const isoDate = "2006-01-02"

// balanceStyle picks a style for an amount relative to zero and the buffer.
func balanceStyle(amount, buffer int64) func(...string) string {
	switch {
	case amount < 0:
		return ErrorStyle.Render
	case amount < buffer:
		return WarningStyle.Render
	default:
		return SuccessStyle.Render
	}
}

// RenderProjection renders the full day-by-day cashflow table with its
// aggregate footer.
func RenderProjection(p *model.CashflowProjection) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("Cashflow %s .. %s",
		p.StartDate.Format(isoDate), p.EndDate.Format(isoDate))))
	sb.WriteString("\n")

	header := fmt.Sprintf("%-12s %14s %14s %14s  %s", "Date", "Start", "Change", "End", "Events")
	sb.WriteString(BoldStyle.Render(header))
	sb.WriteString("\n")

	for _, day := range p.Days {
		var names []string
		for _, ev := range day.Events {
			names = append(names, fmt.Sprintf("%s %s", ev.Description, model.FormatCents(ev.Amount)))
		}
		style := balanceStyle(day.EndingBalance, p.SafetyBuffer)
		line := fmt.Sprintf("%-12s %14s %14s %14s  %s",
			day.Date.Format(isoDate),
			model.FormatCents(day.StartingBalance),
			model.FormatCents(day.NetChange),
			model.FormatCents(day.EndingBalance),
			strings.Join(names, ", "))
		sb.WriteString(style(line))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderProjectionSummary(p))
	return sb.String()
}

// RenderProjectionSummary renders the aggregate totals and risk counts.
func RenderProjectionSummary(p *model.CashflowProjection) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Income: %s  Expenses: %s  Investments: %s  Net: %s\n",
		SuccessStyle.Render(model.FormatCents(p.TotalIncome)),
		ErrorStyle.Render(model.FormatCents(p.TotalExpenses)),
		SubtleStyle.Render(model.FormatCents(p.TotalInvestments)),
		BoldStyle.Render(model.FormatCents(p.NetChange))))

	lowest := fmt.Sprintf("Lowest balance: %s on %s",
		model.FormatCents(p.LowestBalance), p.LowestBalanceDate.Format(isoDate))
	sb.WriteString(balanceStyle(p.LowestBalance, p.SafetyBuffer)(lowest))
	sb.WriteString("\n")

	if p.NegativeDays > 0 {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("%d day(s) below zero", p.NegativeDays)))
		sb.WriteString("\n")
	}
	if p.CriticalDays > 0 {
		sb.WriteString(WarningStyle.Render(
			fmt.Sprintf("%d day(s) below the %s safety buffer",
				p.CriticalDays, model.FormatCents(p.SafetyBuffer))))
		sb.WriteString("\n")
	}
	if culprits := engine.FindCriticalEvents(p); len(culprits) > 0 {
		var names []string
		for _, ev := range culprits {
			names = append(names, ev.Description)
		}
		sb.WriteString(ErrorStyle.Render("First below zero after: " + strings.Join(names, ", ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderSpendingLimit renders the breakdown, warnings, and explanation of a
// spending-limit result.
func RenderSpendingLimit(result *model.SpendingLimitResult) string {
	var sb strings.Builder
	b := result.Breakdown

	sb.WriteString(TitleStyle.Render("Daily spending limit"))
	sb.WriteString("\n")

	limitStyle := SuccessStyle
	if b.IsNegative {
		limitStyle = ErrorStyle
	}
	sb.WriteString(limitStyle.Render(BoldStyle.Render(model.FormatCents(b.DailyLimit)) + " per day"))
	sb.WriteString(SubtleStyle.Render(fmt.Sprintf("  (until %s, %d days, %s mode)",
		b.HorizonDate.Format(isoDate), b.DaysUntilHorizon, b.HorizonMode)))
	sb.WriteString("\n\n")

	sb.WriteString(BoxStyle.Render(result.Explanation))
	sb.WriteString("\n")

	if b.IsNegative {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("Shortfall cause: %s", b.ShortfallReason)))
		sb.WriteString("\n")
	}
	for _, warning := range result.Warnings {
		sb.WriteString(WarningStyle.Render("! " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderAccountBalances renders per-account balances as of a date.
func RenderAccountBalances(balances []model.AccountBalance) string {
	var sb strings.Builder
	var total int64
	for _, ab := range balances {
		sb.WriteString(fmt.Sprintf("%-20s %14s\n", ab.Name, model.FormatCents(ab.Balance)))
		total += ab.Balance
	}
	sb.WriteString(BoldStyle.Render(fmt.Sprintf("%-20s %14s", "Total", model.FormatCents(total))))
	sb.WriteString("\n")
	return sb.String()
}
