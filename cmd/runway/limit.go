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

func limitCmd() *cobra.Command {
	var (
		buffer      string
		horizonMode string
	)

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Compute the safe daily spending limit",
		Long: `Compute how much can be spent per day until the planning horizon
without breaking any commitment. The horizon follows the configured
mode (END_OF_MONTH or NEXT_INCOME) and stretches to cover any later
planned expense or investment.

Recurring templates are expanded in memory through the horizon, so an
unexpanded rent template still lowers today's limit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			today, err := resolveToday(cmd)
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
			mode := settings.HorizonMode
			if horizonMode != "" {
				mode = model.HorizonMode(horizonMode)
				if !mode.Valid() {
					return fmt.Errorf("invalid horizon mode %q", horizonMode)
				}
			}

			events, err = expandForLimit(ctx, store, events, mode, today)
			if err != nil {
				return err
			}

			balance := engine.CurrentBalance(accounts, events, today)
			result, err := engine.DailySpendingLimitAuto(balance, events, mode, safetyBuffer, today)
			if err != nil {
				return err
			}

			fmt.Print(cli.RenderSpendingLimit(result))
			return nil
		},
	}

	cmd.Flags().String("today", "", "override the current date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&buffer, "buffer", "", "safety buffer in dollars (default from settings)")
	cmd.Flags().StringVar(&horizonMode, "horizon-mode", "", "END_OF_MONTH or NEXT_INCOME (default from settings)")
	return cmd
}

// expandForLimit expands templates in memory through whichever is later: one
// month past the end of the current month, or the horizon resolved from the
// saved events. A NEXT_INCOME horizon months out (or one stretched by a later
// planned expense) must see every recurring obligation inside it.
func expandForLimit(ctx context.Context, store service.Storage, events []model.Event, mode model.HorizonMode, today time.Time) ([]model.Event, error) {
	lookahead := engine.EndOfMonth(today.AddDate(0, 1, 0))
	horizon, err := engine.HorizonDate(events, mode, today)
	if err != nil {
		return nil, err
	}
	if horizon.After(lookahead) {
		lookahead = horizon
	}
	return withExpandedTemplates(ctx, store, events, today, lookahead)
}
