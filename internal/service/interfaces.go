// Package service defines the interfaces between the application layers.
package service

import (
	"context"
	"time"

	"github.com/calebgardner/runway/internal/model"
)

// EventFilter defines filtering options for event queries.
type EventFilter struct {
	StartDate      *time.Time
	EndDate        *time.Time
	AccountID      string
	IncludeSkipped bool
	Limit          int
	Offset         int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Event operations
	SaveEvents(ctx context.Context, events []model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]model.Event, error)
	ListTemplates(ctx context.Context) ([]model.Event, error)
	ListOccurrenceDates(ctx context.Context, templateID string) (map[string]bool, error)
	UpdateEventStatus(ctx context.Context, id string, status model.EventStatus) error
	DeleteEvent(ctx context.Context, id string) error

	// Settings operations
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings *model.Settings) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within the transaction
	Storage
}
