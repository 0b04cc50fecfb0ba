package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/cli"
	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
)

func projectCmd() *cobra.Command {
	var (
		buffer      string
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project cashflow day by day over a date range",
		Long: `Simulate the combined account balance day by day, applying every
PLANNED and CONFIRMED event in the window. Recurring templates are
expanded in memory for the window without saving anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			today, err := resolveToday(cmd)
			if err != nil {
				return err
			}
			from, to, err := resolveRange(cmd, today)
			if err != nil {
				return err
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			accounts, events, settings, err := loadPlanningData(ctx, store)
			if err != nil {
				return err
			}

			safetyBuffer := settings.SafetyBuffer
			if buffer != "" {
				safetyBuffer, err = parseAmount(buffer)
				if err != nil {
					return err
				}
			}

			events, err = withExpandedTemplates(ctx, store, events, from, to)
			if err != nil {
				return err
			}

			projection, err := engine.BuildProjection(engine.ProjectionInput{
				StartDate:    from,
				EndDate:      to,
				Accounts:     accounts,
				Events:       events,
				SafetyBuffer: safetyBuffer,
			})
			if err != nil {
				return err
			}

			if summaryOnly {
				fmt.Print(cli.RenderProjectionSummary(projection))
			} else {
				fmt.Print(cli.RenderProjection(projection))
			}
			return nil
		},
	}

	addRangeFlags(cmd)
	cmd.Flags().StringVar(&buffer, "buffer", "", "safety buffer in dollars (default from settings)")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the aggregate summary")
	return cmd
}

// withExpandedTemplates appends the window's unmaterialized template
// occurrences to the saved events, without persisting them.
func withExpandedTemplates(ctx context.Context, store service.Storage, events []model.Event, from, to time.Time) ([]model.Event, error) {
	templates, err := store.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return events, nil
	}

	existing := make(map[string]map[string]bool, len(templates))
	for _, tmpl := range templates {
		dates, err := store.ListOccurrenceDates(ctx, tmpl.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list occurrences of %s: %w", tmpl.ID, err)
		}
		existing[tmpl.ID] = dates
	}

	occurrences, err := engine.GenerateFromTemplates(templates, from, to, existing)
	if err != nil {
		return nil, err
	}

	merged := make([]model.Event, 0, len(events)+len(occurrences))
	merged = append(merged, events...)
	merged = append(merged, occurrences...)
	return merged, nil
}
