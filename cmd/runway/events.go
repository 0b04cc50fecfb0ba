package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage financial events",
	}
	cmd.AddCommand(eventsAddCmd())
	cmd.AddCommand(eventsListCmd())
	cmd.AddCommand(eventsStatusCmd("confirm", model.StatusConfirmed, "Mark an event as having actually happened"))
	cmd.AddCommand(eventsStatusCmd("skip", model.StatusSkipped, "Dismiss an event from every computation"))
	cmd.AddCommand(eventsRmCmd())
	return cmd
}

func eventsAddCmd() *cobra.Command {
	var (
		accountID string
		amount    string
		date      string
		eventType string
		priority  string
		costType  string
		status    string
		recur     string
		until     string
	)

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Add an event or a recurring template",
		Long: `Add a one-off financial event, or with --recur a recurring template.

Templates are not financial facts themselves; run 'runway expand' to
materialize their dated occurrences.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cents, err := parseAmount(amount)
			if err != nil {
				return err
			}
			when, err := parseDate(date)
			if err != nil {
				return err
			}
			initialStatus, err := parseAddStatus(status)
			if err != nil {
				return err
			}

			event := model.Event{
				ID:          uuid.New().String(),
				Description: args[0],
				AccountID:   accountID,
				Amount:      cents,
				Date:        when,
				Type:        model.EventType(eventType),
				Status:      initialStatus,
				Priority:    model.EventPriority(priority),
				CostType:    model.CostType(costType),
			}
			if recur != "" {
				event.RecurrenceFrequency = model.RecurrenceFrequency(recur)
				// Templates stay PLANNED; their occurrences get confirmed.
				event.Status = model.StatusPlanned
			}
			if until != "" {
				end, err := parseDate(until)
				if err != nil {
					return err
				}
				event.RecurrenceEndDate = &end
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.GetAccount(ctx, accountID); err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}
			if err := store.SaveEvents(ctx, []model.Event{event}); err != nil {
				return fmt.Errorf("failed to save event: %w", err)
			}

			slog.Info("event saved", "id", event.ID, "description", event.Description, "template", event.IsTemplate())
			if event.IsTemplate() {
				fmt.Printf("Created %s template %q (%s), anchored %s\n",
					recur, event.Description, event.ID, when.Format(isoDate))
			} else {
				fmt.Printf("Created event %q (%s) on %s for %s\n",
					event.Description, event.ID, when.Format(isoDate), model.FormatCents(cents))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount in dollars, negative for money out (required)")
	cmd.Flags().StringVar(&date, "date", "", "event date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&eventType, "type", string(model.EventTypeExpense), "INCOME, EXPENSE, or INVESTMENT")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityRequired), "REQUIRED, IMPORTANT, or OPTIONAL")
	cmd.Flags().StringVar(&costType, "cost-type", "", "RECURRENT or EXCEPTIONAL (expenses only)")
	cmd.Flags().StringVar(&status, "status", string(model.StatusPlanned), "PLANNED or CONFIRMED")
	cmd.Flags().StringVar(&recur, "recur", "", "make this a template: DAILY, WEEKLY, BIWEEKLY, MONTHLY, or YEARLY")
	cmd.Flags().StringVar(&until, "until", "", "last date the recurrence applies (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

// parseAddStatus restricts a new event to the two statuses that make sense at
// creation; SKIPPED is only reachable through 'events skip'.
func parseAddStatus(value string) (model.EventStatus, error) {
	status := model.EventStatus(value)
	if status != model.StatusPlanned && status != model.StatusConfirmed {
		return "", fmt.Errorf("--status must be PLANNED or CONFIRMED, got %q", value)
	}
	return status, nil
}

func eventsListCmd() *cobra.Command {
	var (
		accountID   string
		showSkipped bool
		templates   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if templates {
				rows, err := store.ListTemplates(ctx)
				if err != nil {
					return fmt.Errorf("failed to list templates: %w", err)
				}
				for _, tmpl := range rows {
					until := "forever"
					if tmpl.RecurrenceEndDate != nil {
						until = tmpl.RecurrenceEndDate.Format(isoDate)
					}
					fmt.Printf("%s  %-8s %-10s %12s  %s (from %s until %s)\n",
						tmpl.ID, tmpl.RecurrenceFrequency, tmpl.Type,
						model.FormatCents(tmpl.Amount), tmpl.Description,
						tmpl.Date.Format(isoDate), until)
				}
				return nil
			}

			filter := service.EventFilter{
				AccountID:      accountID,
				IncludeSkipped: showSkipped,
			}
			if value, _ := cmd.Flags().GetString("from"); value != "" {
				from, err := parseDate(value)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if value, _ := cmd.Flags().GetString("to"); value != "" {
				to, err := parseDate(value)
				if err != nil {
					return err
				}
				filter.EndDate = &to
			}

			events, err := store.ListEvents(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			for _, ev := range events {
				fmt.Printf("%s  %s %-10s %-9s %12s  %s\n",
					ev.ID, ev.Date.Format(isoDate), ev.Type, ev.Status,
					model.FormatCents(ev.Amount), ev.Description)
			}
			return nil
		},
	}

	cmd.Flags().String("from", "", "start of the date range (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account ID")
	cmd.Flags().BoolVar(&showSkipped, "skipped", false, "include SKIPPED events")
	cmd.Flags().BoolVar(&templates, "templates", false, "list recurring templates instead of events")
	return cmd
}

func eventsStatusCmd(use string, status model.EventStatus, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpdateEventStatus(ctx, args[0], status); err != nil {
				return fmt.Errorf("failed to update event %s: %w", args[0], err)
			}
			fmt.Printf("Event %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func eventsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an event or template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteEvent(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete event %s: %w", args[0], err)
			}
			fmt.Printf("Deleted event %s\n", args[0])
			return nil
		},
	}
}
