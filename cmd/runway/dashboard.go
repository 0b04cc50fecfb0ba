package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive cashflow dashboard",
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

			accounts, saved, settings, err := loadPlanningData(ctx, store)
			if err != nil {
				return err
			}
			events, err := withExpandedTemplates(ctx, store, saved, from, to)
			if err != nil {
				return err
			}

			projection, err := engine.BuildProjection(engine.ProjectionInput{
				StartDate:    from,
				EndDate:      to,
				Accounts:     accounts,
				Events:       events,
				SafetyBuffer: settings.SafetyBuffer,
			})
			if err != nil {
				return err
			}

			// The limit pane is advisory; the dashboard still renders if the
			// calculation fails. Its expansion window follows the horizon,
			// not the projection window.
			var limit *model.SpendingLimitResult
			limitEvents, err := expandForLimit(ctx, store, saved, settings.HorizonMode, today)
			if err == nil {
				balance := engine.CurrentBalance(accounts, limitEvents, today)
				limit, err = engine.DailySpendingLimitAuto(balance, limitEvents, settings.HorizonMode, settings.SafetyBuffer, today)
			}
			if err != nil {
				slog.Warn("spending limit unavailable", "error", err)
				limit = nil
			}

			return tui.Run(projection, limit)
		},
	}

	addRangeFlags(cmd)
	return cmd
}
