package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/cli"
	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsRmCmd())
	return cmd
}

func accountsAddCmd() *cobra.Command {
	var balance string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			initial, err := parseAmount(balance)
			if err != nil {
				return err
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			account := &model.Account{
				ID:             uuid.New().String(),
				Name:           args[0],
				InitialBalance: initial,
				CreatedAt:      time.Now().UTC(),
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			slog.Info("account created", "id", account.ID, "name", account.Name)
			fmt.Printf("Created account %s (%s) with balance %s\n",
				account.Name, account.ID, model.FormatCents(account.InitialBalance))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "initial balance in dollars (e.g. 1250.00)")
	return cmd
}

func accountsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances as of a date",
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

			accounts, events, _, err := loadPlanningData(ctx, store)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println("No accounts yet. Create one with: runway accounts add NAME")
				return nil
			}

			balances := engine.AccountBalances(accounts, events, today)
			fmt.Print(cli.RenderAccountBalances(balances))
			return nil
		},
	}

	cmd.Flags().String("today", "", "override the current date (YYYY-MM-DD)")
	return cmd
}

func accountsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an account and all its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteAccount(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete account %s: %w", args[0], err)
			}
			fmt.Printf("Deleted account %s\n", args[0])
			return nil
		},
	}
}
