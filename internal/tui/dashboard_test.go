package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
)

func fixtureProjection(t *testing.T) *model.CashflowProjection {
	t.Helper()
	p, err := engine.BuildProjection(engine.ProjectionInput{
		Accounts: []model.Account{{ID: "acc-1", Name: "Checking", InitialBalance: 10000}},
		Events: []model.Event{{
			ID:          "ev-1",
			Description: "Vet bill",
			Amount:      -25000,
			Type:        model.EventTypeExpense,
			CostType:    model.CostExceptional,
			Status:      model.StatusPlanned,
			Priority:    model.PriorityRequired,
			Date:        time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
			AccountID:   "acc-1",
		}},
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func TestDashboardView(t *testing.T) {
	m := New(fixtureProjection(t), nil)

	view := m.View()
	assert.Contains(t, view, "2024-01-01")
	assert.Contains(t, view, "Vet bill")
	assert.Contains(t, view, "day(s) below zero")
}

func TestDashboardQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := New(fixtureProjection(t), nil)

			msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			switch key {
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}

			updated, cmd := m.Update(msg)
			require.NotNil(t, cmd, "expected a quit command")
			assert.Empty(t, updated.(Model).View())
		})
	}
}

func TestDashboardResize(t *testing.T) {
	m := New(fixtureProjection(t), nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 12})
	view := updated.(Model).View()
	assert.True(t, strings.Contains(view, "Cashflow"))
}
