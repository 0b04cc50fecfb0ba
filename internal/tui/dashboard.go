// Package tui provides a read-only terminal dashboard for cashflow
// projections.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebgardner/runway/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7FB685")).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D")).
			Padding(0, 1)

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1)
)

// Model is the bubbletea model for the cashflow dashboard.
type Model struct {
	projection *model.CashflowProjection
	limit      *model.SpendingLimitResult
	table      table.Model
	quitting   bool
}

// New builds a dashboard over a projection and an optional spending-limit
// result.
func New(projection *model.CashflowProjection, limit *model.SpendingLimitResult) Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Start", Width: 14},
		{Title: "Change", Width: 14},
		{Title: "End", Width: 14},
		{Title: "Flags", Width: 10},
		{Title: "Events", Width: 40},
	}

	rows := make([]table.Row, 0, len(projection.Days))
	for _, day := range projection.Days {
		var flags []string
		if day.IsNegative {
			flags = append(flags, "NEG")
		}
		if day.IsCritical {
			flags = append(flags, "CRIT")
		}
		var names []string
		for _, ev := range day.Events {
			names = append(names, ev.Description)
		}
		rows = append(rows, table.Row{
			day.Date.Format("2006-01-02"),
			model.FormatCents(day.StartingBalance),
			model.FormatCents(day.NetChange),
			model.FormatCents(day.EndingBalance),
			strings.Join(flags, " "),
			strings.Join(names, ", "),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	return Model{
		projection: projection,
		limit:      limit,
		table:      t,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := msg.Height - 8
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf(
		"Cashflow %s .. %s   net %s   lowest %s on %s",
		m.projection.StartDate.Format("2006-01-02"),
		m.projection.EndDate.Format("2006-01-02"),
		model.FormatCents(m.projection.NetChange),
		model.FormatCents(m.projection.LowestBalance),
		m.projection.LowestBalanceDate.Format("2006-01-02"))))
	sb.WriteString("\n")

	if m.limit != nil {
		sb.WriteString(headerStyle.Render(fmt.Sprintf(
			"Daily limit %s until %s",
			model.FormatCents(m.limit.Breakdown.DailyLimit),
			m.limit.Breakdown.HorizonDate.Format("2006-01-02"))))
		sb.WriteString("\n")
	}

	sb.WriteString(m.table.View())
	sb.WriteString("\n")

	if m.projection.NegativeDays > 0 {
		sb.WriteString(negativeStyle.Render(fmt.Sprintf(
			"%d day(s) below zero", m.projection.NegativeDays)))
		sb.WriteString("\n")
	}
	if m.limit != nil {
		for _, warning := range m.limit.Warnings {
			sb.WriteString(warningStyle.Render("! " + warning))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(helpStyle.Render("↑/↓ scroll · q quit"))
	return sb.String()
}

// Run displays the dashboard until the user quits.
func Run(projection *model.CashflowProjection, limit *model.SpendingLimitResult) error {
	program := tea.NewProgram(New(projection, limit), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
