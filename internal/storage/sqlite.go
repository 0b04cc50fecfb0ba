package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/model"
	"github.com/calebgardner/runway/internal/service"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// querier abstracts *sql.DB and *sql.Tx so every query helper works both
// standalone and inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// wrapBusy maps SQLITE_BUSY/SQLITE_LOCKED contention onto common.ErrBusy so
// common.WithRetry recognizes the failure as transient. Other errors pass
// through unchanged.
func wrapBusy(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %v", common.ErrBusy, err)
	}
	return err
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction. Every
// method delegates to the shared query helpers with the transaction as the
// querier.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) CreateAccount(ctx context.Context, account *model.Account) error {
	return createAccount(ctx, t.tx, account)
}

func (t *sqliteTransaction) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	return getAccount(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return listAccounts(ctx, t.tx)
}

func (t *sqliteTransaction) DeleteAccount(ctx context.Context, id string) error {
	return deleteAccount(ctx, t.tx, id)
}

func (t *sqliteTransaction) SaveEvents(ctx context.Context, events []model.Event) error {
	return saveEvents(ctx, t.tx, events)
}

func (t *sqliteTransaction) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return getEvent(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListEvents(ctx context.Context, filter service.EventFilter) ([]model.Event, error) {
	return listEvents(ctx, t.tx, filter)
}

func (t *sqliteTransaction) ListTemplates(ctx context.Context) ([]model.Event, error) {
	return listTemplates(ctx, t.tx)
}

func (t *sqliteTransaction) ListOccurrenceDates(ctx context.Context, templateID string) (map[string]bool, error) {
	return listOccurrenceDates(ctx, t.tx, templateID)
}

func (t *sqliteTransaction) UpdateEventStatus(ctx context.Context, id string, status model.EventStatus) error {
	return updateEventStatus(ctx, t.tx, id, status)
}

func (t *sqliteTransaction) DeleteEvent(ctx context.Context, id string) error {
	return deleteEvent(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetSettings(ctx context.Context) (*model.Settings, error) {
	return getSettings(ctx, t.tx)
}

func (t *sqliteTransaction) SaveSettings(ctx context.Context, settings *model.Settings) error {
	return saveSettings(ctx, t.tx, settings)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	return fmt.Errorf("migrations cannot run inside a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	return nil, fmt.Errorf("nested transactions are not supported")
}

func (t *sqliteTransaction) Close() error {
	return t.tx.Rollback()
}
