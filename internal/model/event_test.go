package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidation(t *testing.T) {
	assert.True(t, EventTypeIncome.Valid())
	assert.True(t, EventTypeExpense.Valid())
	assert.True(t, EventTypeInvestment.Valid())
	assert.False(t, EventType("TRANSFER").Valid())
	assert.False(t, EventType("").Valid())

	assert.True(t, StatusPlanned.Valid())
	assert.True(t, StatusConfirmed.Valid())
	assert.True(t, StatusSkipped.Valid())
	assert.False(t, EventStatus("PENDING").Valid())

	assert.True(t, PriorityRequired.Valid())
	assert.True(t, PriorityImportant.Valid())
	assert.True(t, PriorityOptional.Valid())
	assert.False(t, EventPriority("CRITICAL").Valid())

	assert.True(t, CostRecurrent.Valid())
	assert.True(t, CostExceptional.Valid())
	assert.False(t, CostType("ONCE").Valid())

	for _, freq := range []RecurrenceFrequency{FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyYearly} {
		assert.True(t, freq.Valid(), string(freq))
	}
	assert.False(t, RecurrenceFrequency("QUARTERLY").Valid())

	assert.True(t, HorizonEndOfMonth.Valid())
	assert.True(t, HorizonNextIncome.Valid())
	assert.False(t, HorizonMode("NEXT_PAYDAY").Valid())
}

func TestEventTemplateAndCounts(t *testing.T) {
	oneOff := Event{Status: StatusPlanned}
	assert.False(t, oneOff.IsTemplate())
	assert.True(t, oneOff.Counts())

	skipped := Event{Status: StatusSkipped}
	assert.False(t, skipped.IsTemplate())
	assert.False(t, skipped.Counts())

	template := Event{Status: StatusPlanned, RecurrenceFrequency: FrequencyMonthly}
	assert.True(t, template.IsTemplate())
	assert.False(t, template.Counts())
}

func TestDedupKey(t *testing.T) {
	base := Event{
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount:      -2550,
		Description: "STARBUCKS",
		AccountID:   "acc-1",
	}

	same := base
	same.ID = "different-id"
	same.Status = StatusConfirmed
	assert.Equal(t, base.DedupKey(), same.DedupKey(),
		"identity fields only, not ID or status")

	otherAmount := base
	otherAmount.Amount = -2551
	assert.NotEqual(t, base.DedupKey(), otherAmount.DedupKey())

	otherDay := base
	otherDay.Date = base.Date.AddDate(0, 0, 1)
	assert.NotEqual(t, base.DedupKey(), otherDay.DedupKey())

	otherAccount := base
	otherAccount.AccountID = "acc-2"
	assert.NotEqual(t, base.DedupKey(), otherAccount.DedupKey())
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		want  string
		cents int64
	}{
		{"$0.00", 0},
		{"$0.05", 5},
		{"$12.50", 1250},
		{"$1234.00", 123400},
		{"-$12.50", -1250},
		{"-$0.01", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCents(tt.cents))
	}
}
