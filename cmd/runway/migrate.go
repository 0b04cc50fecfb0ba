package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/storage"
)

func migrateCmd() *cobra.Command {
	var (
		setBuffer string
		setMode   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema current and manage settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// openStorage already migrates; this command exists to do it
			// explicitly and to adjust the settings row.
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			settings, err := store.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			changed := false
			if setBuffer != "" {
				buffer, err := parseAmount(setBuffer)
				if err != nil {
					return err
				}
				settings.SafetyBuffer = buffer
				changed = true
			}
			if setMode != "" {
				mode := model.HorizonMode(setMode)
				if !mode.Valid() {
					return fmt.Errorf("invalid horizon mode %q", setMode)
				}
				settings.HorizonMode = mode
				changed = true
			}
			if changed {
				if err := store.SaveSettings(ctx, settings); err != nil {
					return fmt.Errorf("failed to save settings: %w", err)
				}
			}

			fmt.Printf("Schema version %d. Safety buffer %s, horizon mode %s.\n",
				storage.ExpectedSchemaVersion,
				model.FormatCents(settings.SafetyBuffer),
				settings.HorizonMode)
			return nil
		},
	}

	cmd.Flags().StringVar(&setBuffer, "set-buffer", "", "set the safety buffer in dollars")
	cmd.Flags().StringVar(&setMode, "set-horizon-mode", "", "set the horizon mode (END_OF_MONTH or NEXT_INCOME)")
	return cmd
}
