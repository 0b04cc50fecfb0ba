// Package storage provides the data persistence layer for the runway application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebgardner/runway/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidAccount   = errors.New("invalid account")
	ErrInvalidEvent     = errors.New("invalid event")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAccount validates a single account.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	return nil
}

// validateEvents validates a slice of events.
func validateEvents(events []model.Event) error {
	if events == nil {
		return fmt.Errorf("%w: events", ErrNilParameter)
	}
	if len(events) == 0 {
		return fmt.Errorf("%w: events", ErrEmptySlice)
	}

	for i, ev := range events {
		if err := validateEvent(&ev); err != nil {
			return fmt.Errorf("event at index %d: %w", i, err)
		}
	}
	return nil
}

// validateEvent validates a single event, rejecting enum values outside the
// known sets before they reach SQL.
func validateEvent(ev *model.Event) error {
	if ev == nil {
		return fmt.Errorf("%w: event", ErrNilParameter)
	}
	if ev.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidEvent)
	}
	if ev.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidEvent)
	}
	if ev.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidEvent)
	}
	if !ev.Type.Valid() {
		return fmt.Errorf("%w: type %q", ErrInvalidEvent, ev.Type)
	}
	if !ev.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidEvent, ev.Status)
	}
	if !ev.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidEvent, ev.Priority)
	}
	if ev.CostType != "" && !ev.CostType.Valid() {
		return fmt.Errorf("%w: cost type %q", ErrInvalidEvent, ev.CostType)
	}
	if ev.RecurrenceFrequency != "" && !ev.RecurrenceFrequency.Valid() {
		return fmt.Errorf("%w: recurrence frequency %q", ErrInvalidEvent, ev.RecurrenceFrequency)
	}
	return nil
}

// validateSettings validates the settings row.
func validateSettings(settings *model.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	if !settings.HorizonMode.Valid() {
		return fmt.Errorf("%w: horizon mode %q", ErrInvalidSettings, settings.HorizonMode)
	}
	if settings.SafetyBuffer < 0 {
		return fmt.Errorf("%w: safety buffer must not be negative", ErrInvalidSettings)
	}
	return nil
}
