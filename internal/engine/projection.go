package engine

import (
	"fmt"
	"time"

	"github.com/calebgardner/runway/internal/model"
)

// ProjectionInput bundles everything a cashflow simulation needs. Events on
// or after StartDate are applied by the day loop; CONFIRMED events dated
// strictly before StartDate are folded into the seed balance.
type ProjectionInput struct {
	StartDate    time.Time
	EndDate      time.Time
	Accounts     []model.Account
	Events       []model.Event
	SafetyBuffer int64
}

// BuildProjection simulates account balances day by day across the window
// and computes aggregate totals. Identical inputs always produce identical
// output: event order within a day is input order, and no map iteration
// affects results.
func BuildProjection(in ProjectionInput) (*model.CashflowProjection, error) {
	start := NormalizeDate(in.StartDate)
	end := NormalizeDate(in.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s",
			end.Format(isoDate), start.Format(isoDate))
	}
	if err := validateEvents(in.Events); err != nil {
		return nil, err
	}

	// Seed: initial balances plus everything already confirmed before the
	// window opens.
	balance := seedBalance(in.Accounts, in.Events, start)

	byDay := make(map[string][]model.Event, len(in.Events))
	for _, ev := range in.Events {
		if !ev.Counts() {
			continue
		}
		key := NormalizeDate(ev.Date).Format(isoDate)
		byDay[key] = append(byDay[key], ev)
	}

	numDays := DaysBetween(start, end) + 1
	projection := &model.CashflowProjection{
		StartDate:    start,
		EndDate:      end,
		SafetyBuffer: in.SafetyBuffer,
		Days:         make([]model.CashflowDay, 0, numDays),
	}

	lowestSet := false
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dayEvents := byDay[date.Format(isoDate)]

		var netChange int64
		for _, ev := range dayEvents {
			netChange += ev.Amount
		}

		day := model.CashflowDay{
			Date:            date,
			Events:          dayEvents,
			StartingBalance: balance,
			NetChange:       netChange,
			EndingBalance:   balance + netChange,
		}
		day.IsNegative = day.EndingBalance < 0
		day.IsCritical = day.EndingBalance < in.SafetyBuffer
		if day.IsNegative {
			projection.NegativeDays++
		}
		if day.IsCritical {
			projection.CriticalDays++
		}
		if !lowestSet || day.EndingBalance < projection.LowestBalance {
			projection.LowestBalance = day.EndingBalance
			projection.LowestBalanceDate = date
			lowestSet = true
		}

		for _, ev := range dayEvents {
			switch ev.Type {
			case model.EventTypeIncome:
				projection.TotalIncome += ev.Amount
			case model.EventTypeExpense:
				projection.TotalExpenses += abs(ev.Amount)
			case model.EventTypeInvestment:
				projection.TotalInvestments += abs(ev.Amount)
			}
		}

		projection.Days = append(projection.Days, day)
		balance = day.EndingBalance
	}

	first := projection.Days[0]
	last := projection.Days[len(projection.Days)-1]
	projection.NetChange = last.EndingBalance - first.StartingBalance

	return projection, nil
}

// seedBalance folds initial balances with CONFIRMED events dated strictly
// before the cutoff.
func seedBalance(accounts []model.Account, events []model.Event, cutoff time.Time) int64 {
	var balance int64
	for _, acc := range accounts {
		balance += acc.InitialBalance
	}
	for _, ev := range events {
		if ev.Status == model.StatusConfirmed && !ev.IsTemplate() && NormalizeDate(ev.Date).Before(cutoff) {
			balance += ev.Amount
		}
	}
	return balance
}

// AccountBalances computes each account's balance as of a cutoff date:
// initial balance plus CONFIRMED events dated on or before asOf. Results
// preserve account input order.
func AccountBalances(accounts []model.Account, events []model.Event, asOf time.Time) []model.AccountBalance {
	asOf = NormalizeDate(asOf)

	confirmed := make(map[string]int64, len(accounts))
	for _, ev := range events {
		if ev.Status == model.StatusConfirmed && !ev.IsTemplate() && !NormalizeDate(ev.Date).After(asOf) {
			confirmed[ev.AccountID] += ev.Amount
		}
	}

	balances := make([]model.AccountBalance, len(accounts))
	for i, acc := range accounts {
		balances[i] = model.AccountBalance{
			AccountID: acc.ID,
			Name:      acc.Name,
			Balance:   acc.InitialBalance + confirmed[acc.ID],
		}
	}
	return balances
}

// CurrentBalance sums AccountBalances across every account.
func CurrentBalance(accounts []model.Account, events []model.Event, asOf time.Time) int64 {
	var total int64
	for _, ab := range AccountBalances(accounts, events, asOf) {
		total += ab.Balance
	}
	return total
}

// FindCriticalEvents returns the events landing on the first day the running
// balance crosses from non-negative to negative: the straws that break the
// bank, rather than every event on every negative day.
func FindCriticalEvents(p *model.CashflowProjection) []model.Event {
	for _, day := range p.Days {
		if day.StartingBalance >= 0 && day.EndingBalance < 0 {
			return day.Events
		}
	}
	return nil
}

// Summary reduces a projection to its headline numbers.
func Summary(p *model.CashflowProjection) model.ProjectionSummary {
	s := model.ProjectionSummary{}
	if len(p.Days) == 0 {
		return s
	}
	s.StartingBalance = p.Days[0].StartingBalance
	s.EndingBalance = p.Days[len(p.Days)-1].EndingBalance
	s.NetChange = p.NetChange
	s.AvgDailySpend = (p.TotalExpenses + p.TotalInvestments) / int64(len(p.Days))
	for i, day := range p.Days {
		if day.IsNegative {
			idx := i
			s.DaysUntilNegative = &idx
			break
		}
	}
	return s
}

// validateEvents fails fast on enum values outside the known sets; numeric
// policy downstream depends on exact type semantics.
func validateEvents(events []model.Event) error {
	for _, ev := range events {
		if !ev.Type.Valid() {
			return fmt.Errorf("event %q: invalid type %q", ev.ID, ev.Type)
		}
		if !ev.Status.Valid() {
			return fmt.Errorf("event %q: invalid status %q", ev.ID, ev.Status)
		}
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
