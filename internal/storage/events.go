package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
)

const eventColumns = `id, description, amount, type, cost_type, status, priority,
	date, account_id, recurrence_frequency, recurrence_end_date, template_id`

// SaveEvents upserts a batch of events in one transaction.
func (s *SQLiteStorage) SaveEvents(ctx context.Context, events []model.Event) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvents(events); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", wrapBusy(err))
	}
	if err := saveEvents(ctx, tx, events); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", wrapBusy(err))
	}
	return nil
}

func saveEvents(ctx context.Context, q querier, events []model.Event) error {
	for _, ev := range events {
		if err := validateEvent(&ev); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO events (`+eventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				description = excluded.description,
				amount = excluded.amount,
				type = excluded.type,
				cost_type = excluded.cost_type,
				status = excluded.status,
				priority = excluded.priority,
				date = excluded.date,
				account_id = excluded.account_id,
				recurrence_frequency = excluded.recurrence_frequency,
				recurrence_end_date = excluded.recurrence_end_date,
				template_id = excluded.template_id`,
			ev.ID, ev.Description, ev.Amount, string(ev.Type),
			nullString(string(ev.CostType)), string(ev.Status), string(ev.Priority),
			ev.Date, ev.AccountID, nullString(string(ev.RecurrenceFrequency)),
			nullTime(ev.RecurrenceEndDate), nullString(ev.TemplateID))
		if err != nil {
			return fmt.Errorf("failed to save event %q: %w", ev.ID, wrapBusy(err))
		}
	}
	return nil
}

// GetEvent fetches one event by id.
func (s *SQLiteStorage) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getEvent(ctx, s.db, id)
}

func getEvent(ctx context.Context, q querier, id string) (*model.Event, error) {
	row := q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: event %q", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ev, nil
}

// ListEvents returns non-template events matching the filter, ordered by date
// then insertion order. SKIPPED rows are excluded unless the filter opts in.
func (s *SQLiteStorage) ListEvents(ctx context.Context, filter service.EventFilter) ([]model.Event, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}
	return listEvents(ctx, s.db, filter)
}

func listEvents(ctx context.Context, q querier, filter service.EventFilter) ([]model.Event, error) {
	var conditions []string
	var args []any

	conditions = append(conditions, "recurrence_frequency IS NULL")
	if !filter.IncludeSkipped {
		conditions = append(conditions, "status != ?")
		args = append(args, string(model.StatusSkipped))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.AccountID != "" {
		conditions = append(conditions, "account_id = ?")
		args = append(args, filter.AccountID)
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date, rowid`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

// ListTemplates returns every recurring-event template, ordered by insertion.
func (s *SQLiteStorage) ListTemplates(ctx context.Context) ([]model.Event, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listTemplates(ctx, s.db)
}

func listTemplates(ctx context.Context, q querier) ([]model.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE recurrence_frequency IS NOT NULL
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

// ListOccurrenceDates returns the ISO dates of every materialized occurrence
// of a template, keyed for the expansion skip set.
func (s *SQLiteStorage) ListOccurrenceDates(ctx context.Context, templateID string) (map[string]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(templateID, "templateID"); err != nil {
		return nil, err
	}
	return listOccurrenceDates(ctx, s.db, templateID)
}

func listOccurrenceDates(ctx context.Context, q querier, templateID string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', date) FROM events WHERE template_id = ?`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrence dates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	dates := make(map[string]bool)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence date: %w", err)
		}
		dates[day] = true
	}
	return dates, rows.Err()
}

// UpdateEventStatus moves an event through its lifecycle
// (PLANNED → CONFIRMED or SKIPPED).
func (s *SQLiteStorage) UpdateEventStatus(ctx context.Context, id string, status model.EventStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidEvent, status)
	}
	return updateEventStatus(ctx, s.db, id, status)
}

func updateEventStatus(ctx context.Context, q querier, id string, status model.EventStatus) error {
	result, err := q.ExecContext(ctx, `UPDATE events SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", wrapBusy(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: event %q", common.ErrNotFound, id)
	}
	return nil
}

// DeleteEvent removes one event.
func (s *SQLiteStorage) DeleteEvent(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteEvent(ctx, s.db, id)
}

func deleteEvent(ctx context.Context, q querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", wrapBusy(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: event %q", common.ErrNotFound, id)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for event scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*model.Event, error) {
	var ev model.Event
	var costType, frequency, templateID sql.NullString
	var recurrenceEnd sql.NullTime

	err := row.Scan(&ev.ID, &ev.Description, &ev.Amount, &ev.Type, &costType,
		&ev.Status, &ev.Priority, &ev.Date, &ev.AccountID,
		&frequency, &recurrenceEnd, &templateID)
	if err != nil {
		return nil, err
	}

	ev.CostType = model.CostType(costType.String)
	ev.RecurrenceFrequency = model.RecurrenceFrequency(frequency.String)
	ev.TemplateID = templateID.String
	if recurrenceEnd.Valid {
		end := recurrenceEnd.Time
		ev.RecurrenceEndDate = &end
	}
	ev.Date = ev.Date.UTC()
	return &ev, nil
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
