package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
)

func expandCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Materialize recurring templates into dated events",
		Long: `Expand every recurring template over the date range into concrete
PLANNED events. Dates already materialized are skipped, so re-running
over an overlapping range never duplicates events.`,
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

			templates, err := store.ListTemplates(ctx)
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}
			if len(templates) == 0 {
				fmt.Println("No recurring templates to expand.")
				return nil
			}

			existing := make(map[string]map[string]bool, len(templates))
			for _, tmpl := range templates {
				dates, err := store.ListOccurrenceDates(ctx, tmpl.ID)
				if err != nil {
					return fmt.Errorf("failed to list occurrences of %s: %w", tmpl.ID, err)
				}
				existing[tmpl.ID] = dates
			}

			occurrences, err := engine.GenerateFromTemplates(templates, from, to, existing)
			if err != nil {
				return err
			}
			if len(occurrences) == 0 {
				fmt.Printf("Nothing new in %s .. %s.\n", from.Format(isoDate), to.Format(isoDate))
				return nil
			}

			for i := range occurrences {
				occurrences[i].ID = uuid.New().String()
			}

			if dryRun {
				for _, occ := range occurrences {
					fmt.Printf("%s %12s  %s\n",
						occ.Date.Format(isoDate), model.FormatCents(occ.Amount), occ.Description)
				}
				fmt.Printf("Dry run: %d occurrence(s) would be created.\n", len(occurrences))
				return nil
			}

			if err := store.SaveEvents(ctx, occurrences); err != nil {
				return fmt.Errorf("failed to save occurrences: %w", err)
			}

			common.LogInfo("templates expanded", common.Fields{
				"templates":   len(templates),
				"occurrences": len(occurrences),
				"from":        from.Format(isoDate),
				"to":          to.Format(isoDate),
			})
			fmt.Printf("Created %d occurrence(s) in %s .. %s.\n",
				len(occurrences), from.Format(isoDate), to.Format(isoDate))
			return nil
		},
	}

	addRangeFlags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be created without saving")
	return cmd
}
