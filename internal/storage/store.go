// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

// ConsentFilter narrows ListConsentsByTrip.
// Empty fields do not filter.
type ConsentFilter struct {
	DebtorID string
	PayerID  string
	Statuses []models.ConsentStatus
}

// Queries defines the row-level operations the ledger needs.
// Implementations run them either directly against the database or inside a
// transaction handed out by Store.InTx.
//
// Lookups of a single row return an error wrapping models.ErrNotFound when
// the row does not exist. Every other driver failure wraps models.ErrPersistence.
type Queries interface {
	// CreateTrip persists a new trip. ID and CreatedAt are populated if empty.
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	// ListTripsForUser returns the trips where userID holds an active membership.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)
	UpdateTripStatus(ctx context.Context, tripID string, status models.TripStatus) error

	// UpsertMembership inserts a membership, or reactivates an existing one
	// and refreshes its nickname. JoinedAt of an existing row is preserved.
	UpsertMembership(ctx context.Context, m *models.Membership) error
	GetMembership(ctx context.Context, tripID, userID string) (*models.Membership, error)
	ListMemberships(ctx context.Context, tripID string) ([]*models.Membership, error)
	SetMembershipActive(ctx context.Context, tripID, userID string, active bool) error

	// InsertExpense persists a new expense row only. ID and CreatedAt are populated if empty.
	InsertExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpensesByTrip returns a trip's expenses, most recently incurred first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)

	InsertInvolvements(ctx context.Context, involvements []models.Involvement) error
	ListInvolvements(ctx context.Context, expenseID string) ([]models.Involvement, error)
	ListInvolvementsByTrip(ctx context.Context, tripID string) ([]models.Involvement, error)
	DeleteInvolvement(ctx context.Context, expenseID, debtorID string) error
	// UpdateShares overwrites share_amount on every involvement of an expense.
	UpdateShares(ctx context.Context, expenseID string, share decimal.Decimal) error

	// InsertConsents persists consents. IDs and UpdatedAt are populated if empty.
	InsertConsents(ctx context.Context, consents []models.Consent) error
	GetConsent(ctx context.Context, consentID string) (*models.Consent, error)
	ListConsents(ctx context.Context, expenseID string) ([]models.Consent, error)
	ListConsentsByTrip(ctx context.Context, tripID string, filter ConsentFilter) ([]models.ConsentDetail, error)
	UpdateConsentStatus(ctx context.Context, consent *models.Consent) error
	DeleteConsent(ctx context.Context, consentID string) error
}

// Store defines the interface for ledger storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger.
type Store interface {
	Queries

	// InTx runs fn inside a single serializable transaction. The transaction
	// commits only if fn returns nil; otherwise every write fn made is rolled
	// back and the error is returned unchanged.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// Close releases any resources held by the store.
	Close() error
}
