package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/calebgardner/runway/internal/common"
	"github.com/calebgardner/runway/internal/model"
	"github.com/mattn/go-sqlite3"
)

// CreateAccount inserts a new account row.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return createAccount(ctx, s.db, account)
}

func createAccount(ctx context.Context, q querier, account *model.Account) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, name, initial_balance)
		VALUES (?, ?, ?)`,
		account.ID, account.Name, account.InitialBalance)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: account %q", common.ErrDuplicateEntry, account.ID)
		}
		return fmt.Errorf("failed to create account: %w", wrapBusy(err))
	}
	return nil
}

// GetAccount fetches one account by id.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getAccount(ctx, s.db, id)
}

func getAccount(ctx context.Context, q querier, id string) (*model.Account, error) {
	var account model.Account
	err := q.QueryRowContext(ctx, `
		SELECT id, name, initial_balance, created_at
		FROM accounts WHERE id = ?`, id).
		Scan(&account.ID, &account.Name, &account.InitialBalance, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: account %q", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ListAccounts returns every account ordered by creation time.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listAccounts(ctx, s.db)
}

func listAccounts(ctx context.Context, q querier) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, initial_balance, created_at
		FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.InitialBalance, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes an account and every event attached to it, in one
// transaction so a failure leaves both tables untouched.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", wrapBusy(err))
	}
	if err := deleteAccount(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account delete: %w", wrapBusy(err))
	}
	return nil
}

func deleteAccount(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM events WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account events: %w", wrapBusy(err))
	}
	result, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", wrapBusy(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: account %q", common.ErrNotFound, id)
	}
	return nil
}
