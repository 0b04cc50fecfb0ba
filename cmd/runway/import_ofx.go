package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/ofx"
	"github.com/calebgardner/runway/internal/service"
)

func importOFXCmd() *cobra.Command {
	var (
		accountID string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx FILE...",
		Short: "Import bank transactions from OFX/QFX files",
		Long: `Parse OFX/QFX statement exports and record their transactions as
CONFIRMED events on an account. Transactions already imported (same
date, amount, and description) are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := store.GetAccount(ctx, accountID); err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}

			// Dedup against everything already stored for the account,
			// skipped rows included.
			stored, err := store.ListEvents(ctx, service.EventFilter{
				AccountID:      accountID,
				IncludeSkipped: true,
			})
			if err != nil {
				return fmt.Errorf("failed to list existing events: %w", err)
			}
			seen := make(map[string]bool, len(stored))
			for i := range stored {
				seen[stored[i].DedupKey()] = true
			}

			parser := ofx.NewParser()
			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("Importing statements"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var fresh []model.Event
			var duplicates int
			for _, path := range args {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				events, err := parser.ParseFile(file, accountID)
				file.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}

				for i := range events {
					key := events[i].DedupKey()
					if seen[key] {
						duplicates++
						continue
					}
					seen[key] = true
					events[i].ID = uuid.New().String()
					fresh = append(fresh, events[i])
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()

			if dryRun {
				for _, ev := range fresh {
					fmt.Printf("%s %12s  %s\n",
						ev.Date.Format(isoDate), model.FormatCents(ev.Amount), ev.Description)
				}
				fmt.Printf("Dry run: %d transaction(s) would be imported, %d duplicate(s) skipped.\n",
					len(fresh), duplicates)
				return nil
			}

			if len(fresh) > 0 {
				err = common.WithRetry(ctx, func() error {
					return store.SaveEvents(ctx, fresh)
				}, common.RetryOptions{})
				if err != nil {
					return fmt.Errorf("failed to save imported events: %w", err)
				}
			}

			slog.Info("import complete",
				"files", len(args),
				"imported", len(fresh),
				"duplicates", duplicates)
			fmt.Printf("Imported %d transaction(s), skipped %d duplicate(s).\n",
				len(fresh), duplicates)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID to attach transactions to (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and dedup without saving")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
