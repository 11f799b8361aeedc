// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/saveplus/payoff/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a user or debt does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned (wrapped) when a unique key is already taken.
	ErrDuplicate = errors.New("already exists")
)

// UserStore holds user accounts.
type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// DebtStore holds the debts users track.
type DebtStore interface {
	// CreateDebt persists a new debt.
	// The debt.ID and timestamp fields are populated by the store when empty.
	CreateDebt(ctx context.Context, debt *models.Debt) error

	// GetDebt retrieves a debt by its ID.
	// Returns ErrNotFound if the debt does not exist.
	GetDebt(ctx context.Context, debtID string) (*models.Debt, error)

	// ListDebts returns the user's debts ordered by creation time.
	// When activeOnly is set, inactive debts are skipped.
	ListDebts(ctx context.Context, userID string, activeOnly bool) ([]*models.Debt, error)

	// UpdateDebt overwrites the mutable fields of an existing debt.
	// Returns ErrNotFound if the debt does not exist.
	UpdateDebt(ctx context.Context, debt *models.Debt) error

	// DeleteDebt removes a debt.
	// Returns ErrNotFound if the debt does not exist.
	DeleteDebt(ctx context.Context, debtID string) error
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	DebtStore

	// Close releases any resources held by the store.
	Close() error
}
