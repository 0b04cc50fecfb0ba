package storage

import (
	"context"
	"fmt"

	"github.com/calebgardner/runway/internal/model"
)

// GetSettings returns the singleton settings row. Migrations seed it, so it
// always exists on a migrated database.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (*model.Settings, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSettings(ctx, s.db)
}

func getSettings(ctx context.Context, q querier) (*model.Settings, error) {
	var settings model.Settings
	err := q.QueryRowContext(ctx, `
		SELECT safety_buffer, horizon_mode FROM settings WHERE id = 1`).
		Scan(&settings.SafetyBuffer, &settings.HorizonMode)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings updates the singleton settings row.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSettings(settings); err != nil {
		return err
	}
	return saveSettings(ctx, s.db, settings)
}

func saveSettings(ctx context.Context, q querier, settings *model.Settings) error {
	_, err := q.ExecContext(ctx, `
		UPDATE settings
		SET safety_buffer = ?, horizon_mode = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`,
		settings.SafetyBuffer, string(settings.HorizonMode))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", wrapBusy(err))
	}
	return nil
}
