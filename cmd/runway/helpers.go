package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/config"
	"github.com/calebgardner/runway/internal/engine"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
	"github.com/calebgardner/runway/internal/storage"
)

const isoDate = "2006-01-02"

// openStorage opens the configured database and brings its schema current.
func openStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database at %s", dbPath), err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("could not migrate database", err)
	}
	return store, nil
}

// parseDate parses a YYYY-MM-DD flag value into a UTC midnight date.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}

// resolveToday reads the --today override or falls back to the wall clock.
// Everything downstream of here is deterministic in this date.
func resolveToday(cmd *cobra.Command) (time.Time, error) {
	if value, _ := cmd.Flags().GetString("today"); value != "" {
		return parseDate(value)
	}
	return engine.NormalizeDate(time.Now()), nil
}

// resolveRange reads --from/--to, defaulting to [today, end of today's month].
func resolveRange(cmd *cobra.Command, today time.Time) (time.Time, time.Time, error) {
	from := today
	to := engine.EndOfMonth(today)

	if value, _ := cmd.Flags().GetString("from"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if value, _ := cmd.Flags().GetString("to"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s precedes --from %s",
			to.Format(isoDate), from.Format(isoDate))
	}
	return from, to, nil
}

// addRangeFlags attaches the shared date-window flags.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "start of the date range (YYYY-MM-DD, default today)")
	cmd.Flags().String("to", "", "end of the date range (YYYY-MM-DD, default end of month)")
	cmd.Flags().String("today", "", "override the current date (YYYY-MM-DD, for planning ahead)")
}

// parseAmount converts a decimal string like "1234.56" or "-12" to cents.
func parseAmount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("amount is required")
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}

	whole := value
	frac := "0"
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		whole = value[:idx]
		frac = value[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: at most two decimal places", value)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	centsPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}

	cents := dollars*100 + centsPart
	if negative {
		cents = -cents
	}
	return cents, nil
}

// loadPlanningData fetches accounts, non-template events, and settings in one
// pass; the common prelude for every reporting command.
func loadPlanningData(ctx context.Context, store service.Storage) ([]model.Account, []model.Event, *model.Settings, error) {
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	events, err := store.ListEvents(ctx, service.EventFilter{})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list events: %w", err)
	}
	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := applyConfigOverrides(settings); err != nil {
		return nil, nil, nil, err
	}
	return accounts, events, settings, nil
}

// applyConfigOverrides lets the config file / RUNWAY_* env override the stored
// planning settings without touching the database. The buffer is in cents.
func applyConfigOverrides(settings *model.Settings) error {
	if viper.IsSet("planning.safety_buffer") {
		buffer := viper.GetInt64("planning.safety_buffer")
		if buffer < 0 {
			return fmt.Errorf("%w: planning.safety_buffer must not be negative", common.ErrInvalidConfig)
		}
		settings.SafetyBuffer = buffer
	}
	if viper.IsSet("planning.horizon_mode") {
		mode := model.HorizonMode(viper.GetString("planning.horizon_mode"))
		if !mode.Valid() {
			return fmt.Errorf("%w: planning.horizon_mode %q", common.ErrInvalidConfig, mode)
		}
		settings.HorizonMode = mode
	}
	return nil
}
