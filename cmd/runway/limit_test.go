package main

import (
	"context"
	"testing"
	"time"

	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
	"github.com/calebgardner/runway/internal/storage"
)

// A NEXT_INCOME horizon months out must see every recurring obligation
// between now and the horizon, not just the next month's worth.
func TestExpandForLimitReachesDistantHorizon(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	account := &model.Account{ID: "acc-1", Name: "Checking", InitialBalance: 100000}
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	payday := model.Event{
		ID:          "ev-pay",
		Description: "Contract payout",
		Amount:      300000,
		Type:        model.EventTypeIncome,
		Status:      model.StatusPlanned,
		Priority:    model.PriorityRequired,
		Date:        time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		AccountID:   "acc-1",
	}
	rent := model.Event{
		ID:                  "tmpl-rent",
		Description:         "Rent",
		Amount:              -50000,
		Type:                model.EventTypeExpense,
		CostType:            model.CostRecurrent,
		Status:              model.StatusPlanned,
		Priority:            model.PriorityRequired,
		Date:                time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		AccountID:           "acc-1",
		RecurrenceFrequency: model.FrequencyMonthly,
	}
	if err := store.SaveEvents(ctx, []model.Event{payday, rent}); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	saved, err := store.ListEvents(ctx, service.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	today := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	events, err := expandForLimit(ctx, store, saved, model.HorizonNextIncome, today)
	if err != nil {
		t.Fatalf("expandForLimit: %v", err)
	}

	// Payday plus the Feb, Mar, and Apr rent occurrences.
	if len(events) != 4 {
		t.Fatalf("expanded events = %d, want 4", len(events))
	}
	march := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	foundMarch := false
	for _, ev := range events {
		if ev.TemplateID == "tmpl-rent" && ev.Date.Equal(march) {
			foundMarch = true
		}
	}
	if !foundMarch {
		t.Error("March rent occurrence missing from the expanded window")
	}

	balance := engine.CurrentBalance([]model.Account{*account}, events, today)
	result, err := engine.DailySpendingLimitAuto(balance, events, model.HorizonNextIncome, 0, today)
	if err != nil {
		t.Fatalf("DailySpendingLimitAuto: %v", err)
	}
	b := result.Breakdown
	if !b.HorizonDate.Equal(payday.Date) {
		t.Errorf("horizon = %s, want %s", b.HorizonDate.Format("2006-01-02"), "2024-04-01")
	}
	if b.RequiredExpenses != 150000 {
		t.Errorf("required expenses = %d, want 150000 (three rent payments)", b.RequiredExpenses)
	}
	if b.CashNow != 400000 {
		t.Errorf("cash now = %d, want 400000", b.CashNow)
	}
}
