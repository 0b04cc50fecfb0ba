package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/calebgardner/runway/internal/model"
)

func expense(id string, amount int64, d time.Time, status model.EventStatus) model.Event {
	return model.Event{
		ID:          id,
		Description: id,
		Amount:      amount,
		Type:        model.EventTypeExpense,
		CostType:    model.CostExceptional,
		Status:      status,
		Priority:    model.PriorityRequired,
		Date:        d,
		AccountID:   "acc-1",
	}
}

func income(id string, amount int64, d time.Time, status model.EventStatus) model.Event {
	return model.Event{
		ID:          id,
		Description: id,
		Amount:      amount,
		Type:        model.EventTypeIncome,
		Status:      status,
		Priority:    model.PriorityRequired,
		Date:        d,
		AccountID:   "acc-1",
	}
}

func investment(id string, amount int64, d time.Time, status model.EventStatus) model.Event {
	return model.Event{
		ID:          id,
		Description: id,
		Amount:      amount,
		Type:        model.EventTypeInvestment,
		Status:      status,
		Priority:    model.PriorityImportant,
		Date:        d,
		AccountID:   "acc-1",
	}
}

func TestBuildProjection_NegativeDayCounting(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts:  []model.Account{{ID: "acc-1", Name: "Checking", InitialBalance: 10000}},
		Events:    []model.Event{expense("big", -50000, date(2024, time.January, 3), model.StatusPlanned)},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.NegativeDays != 3 {
		t.Errorf("NegativeDays = %d, want 3", p.NegativeDays)
	}
	if p.LowestBalance != -40000 {
		t.Errorf("LowestBalance = %d, want -40000", p.LowestBalance)
	}
	if !p.LowestBalanceDate.Equal(date(2024, time.January, 3)) {
		t.Errorf("LowestBalanceDate = %v, want 2024-01-03", p.LowestBalanceDate)
	}
	if !p.Days[2].IsNegative {
		t.Error("days[2].IsNegative = false, want true")
	}
	if p.Days[1].IsNegative {
		t.Error("days[1].IsNegative = true, want false")
	}
}

func TestBuildProjection_CriticalVsNegative(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts:     []model.Account{{ID: "acc-1", InitialBalance: 100000}},
		Events:       []model.Event{expense("spend", -90000, date(2024, time.January, 2), model.StatusPlanned)},
		StartDate:    date(2024, time.January, 1),
		EndDate:      date(2024, time.January, 5),
		SafetyBuffer: 20000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day2 := p.Days[1]
	if day2.EndingBalance != 10000 {
		t.Errorf("days[1].EndingBalance = %d, want 10000", day2.EndingBalance)
	}
	if !day2.IsCritical {
		t.Error("days[1].IsCritical = false, want true")
	}
	if day2.IsNegative {
		t.Error("days[1].IsNegative = true, want false")
	}
	if p.CriticalDays != 4 {
		t.Errorf("CriticalDays = %d, want 4", p.CriticalDays)
	}
	if p.NegativeDays != 0 {
		t.Errorf("NegativeDays = %d, want 0", p.NegativeDays)
	}
}

func TestBuildProjection_EndToEnd(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 100000}},
		Events: []model.Event{
			income("paycheck", 500000, date(2024, time.January, 1), model.StatusConfirmed),
			expense("insurance", -150000, date(2024, time.January, 5), model.StatusPlanned),
		},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.TotalIncome != 500000 {
		t.Errorf("TotalIncome = %d, want 500000", p.TotalIncome)
	}
	if p.TotalExpenses != 150000 {
		t.Errorf("TotalExpenses = %d, want 150000", p.TotalExpenses)
	}
	if p.Days[0].EndingBalance != 600000 {
		t.Errorf("days[0].EndingBalance = %d, want 600000", p.Days[0].EndingBalance)
	}
	if last := p.Days[len(p.Days)-1]; last.EndingBalance != 450000 {
		t.Errorf("final EndingBalance = %d, want 450000", last.EndingBalance)
	}
	if p.NetChange != 350000 {
		t.Errorf("NetChange = %d, want 350000", p.NetChange)
	}
}

func TestBuildProjection_BalanceConservation(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 25000}},
		Events: []model.Event{
			income("a", 10000, date(2024, time.March, 2), model.StatusPlanned),
			expense("b", -3000, date(2024, time.March, 2), model.StatusConfirmed),
			investment("c", -5000, date(2024, time.March, 4), model.StatusPlanned),
		},
		StartDate: date(2024, time.March, 1),
		EndDate:   date(2024, time.March, 7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, day := range p.Days {
		var sum int64
		for _, ev := range day.Events {
			sum += ev.Amount
		}
		if day.NetChange != sum {
			t.Errorf("day %d: NetChange = %d, events sum to %d", i, day.NetChange, sum)
		}
		if day.EndingBalance != day.StartingBalance+day.NetChange {
			t.Errorf("day %d: EndingBalance %d != StartingBalance %d + NetChange %d",
				i, day.EndingBalance, day.StartingBalance, day.NetChange)
		}
		if i > 0 && day.StartingBalance != p.Days[i-1].EndingBalance {
			t.Errorf("day %d: StartingBalance %d != previous EndingBalance %d",
				i, day.StartingBalance, p.Days[i-1].EndingBalance)
		}
	}
}

func TestBuildProjection_SkippedExcluded(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 10000}},
		Events: []model.Event{
			expense("skipped", -90000, date(2024, time.January, 2), model.StatusSkipped),
			income("skipped-income", 5000, date(2024, time.January, 3), model.StatusSkipped),
		},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.TotalExpenses != 0 || p.TotalIncome != 0 {
		t.Errorf("skipped events leaked into totals: income=%d expenses=%d", p.TotalIncome, p.TotalExpenses)
	}
	for i, day := range p.Days {
		if len(day.Events) != 0 {
			t.Errorf("day %d lists %d skipped events", i, len(day.Events))
		}
		if day.EndingBalance != 10000 {
			t.Errorf("day %d: EndingBalance = %d, want 10000", i, day.EndingBalance)
		}
	}
}

func TestBuildProjection_SeedsConfirmedHistory(t *testing.T) {
	// Confirmed events before the window fold into the seed; planned ones
	// do not, and events inside the window are handled by the day loop.
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 100000}},
		Events: []model.Event{
			expense("old-confirmed", -30000, date(2024, time.February, 10), model.StatusConfirmed),
			expense("old-planned", -99999, date(2024, time.February, 20), model.StatusPlanned),
			income("in-window", 5000, date(2024, time.March, 2), model.StatusConfirmed),
		},
		StartDate: date(2024, time.March, 1),
		EndDate:   date(2024, time.March, 3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Days[0].StartingBalance != 70000 {
		t.Errorf("seed = %d, want 70000", p.Days[0].StartingBalance)
	}
	if p.Days[1].EndingBalance != 75000 {
		t.Errorf("days[1].EndingBalance = %d, want 75000", p.Days[1].EndingBalance)
	}
}

func TestBuildProjection_Deterministic(t *testing.T) {
	in := ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 42000}},
		Events: []model.Event{
			income("a", 10000, date(2024, time.May, 3), model.StatusPlanned),
			expense("b", -2000, date(2024, time.May, 3), model.StatusPlanned),
			expense("c", -7000, date(2024, time.May, 9), model.StatusConfirmed),
		},
		StartDate:    date(2024, time.May, 1),
		EndDate:      date(2024, time.May, 14),
		SafetyBuffer: 5000,
	}

	first, err := BuildProjection(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildProjection(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different projections")
	}
}

func TestBuildProjection_FailsFastOnBadEnums(t *testing.T) {
	bad := expense("bad", -100, date(2024, time.January, 2), model.StatusPlanned)
	bad.Type = "TRANSFER"
	if _, err := BuildProjection(ProjectionInput{
		Accounts:  []model.Account{{ID: "acc-1"}},
		Events:    []model.Event{bad},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 3),
	}); err == nil {
		t.Error("expected error for invalid event type")
	}

	if _, err := BuildProjection(ProjectionInput{
		Accounts:  []model.Account{{ID: "acc-1"}},
		StartDate: date(2024, time.January, 5),
		EndDate:   date(2024, time.January, 1),
	}); err == nil {
		t.Error("expected error for inverted date range")
	}
}

func TestAccountBalances(t *testing.T) {
	accounts := []model.Account{
		{ID: "acc-1", Name: "Checking", InitialBalance: 50000},
		{ID: "acc-2", Name: "Savings", InitialBalance: 200000},
	}
	events := []model.Event{
		income("salary", 100000, date(2024, time.January, 10), model.StatusConfirmed),
		expense("rent", -80000, date(2024, time.January, 15), model.StatusConfirmed),
		expense("future", -5000, date(2024, time.February, 1), model.StatusConfirmed),
		expense("planned", -7000, date(2024, time.January, 12), model.StatusPlanned),
	}

	got := AccountBalances(accounts, events, date(2024, time.January, 15))
	want := []model.AccountBalance{
		{AccountID: "acc-1", Name: "Checking", Balance: 70000},
		{AccountID: "acc-2", Name: "Savings", Balance: 200000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AccountBalances = %+v, want %+v", got, want)
	}

	if total := CurrentBalance(accounts, events, date(2024, time.January, 15)); total != 270000 {
		t.Errorf("CurrentBalance = %d, want 270000", total)
	}
}

func TestFindCriticalEvents(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 10000}},
		Events: []model.Event{
			expense("first-dip", -15000, date(2024, time.January, 2), model.StatusPlanned),
			expense("later", -5000, date(2024, time.January, 4), model.StatusPlanned),
		},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	critical := FindCriticalEvents(p)
	if len(critical) != 1 || critical[0].ID != "first-dip" {
		t.Errorf("FindCriticalEvents = %+v, want the first-dip event only", critical)
	}
}

func TestSummary(t *testing.T) {
	p, err := BuildProjection(ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", InitialBalance: 10000}},
		Events: []model.Event{
			expense("spend", -25000, date(2024, time.January, 3), model.StatusPlanned),
		},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := Summary(p)
	if s.StartingBalance != 10000 || s.EndingBalance != -15000 {
		t.Errorf("summary balances = %d..%d, want 10000..-15000", s.StartingBalance, s.EndingBalance)
	}
	if s.AvgDailySpend != 5000 {
		t.Errorf("AvgDailySpend = %d, want 5000", s.AvgDailySpend)
	}
	if s.DaysUntilNegative == nil || *s.DaysUntilNegative != 2 {
		t.Errorf("DaysUntilNegative = %v, want 2", s.DaysUntilNegative)
	}

	healthy, err := BuildProjection(ProjectionInput{
		Accounts:  []model.Account{{ID: "acc-1", InitialBalance: 10000}},
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := Summary(healthy); s.DaysUntilNegative != nil {
		t.Errorf("DaysUntilNegative = %v, want nil", s.DaysUntilNegative)
	}
}
