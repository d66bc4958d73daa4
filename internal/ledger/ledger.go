// Package ledger implements trip membership, the expense ledger, the consent
// state machine and dispute resolution on top of a transactional storage.Store.
//
// Every operation takes the acting user's ID explicitly. Writes that touch more
// than one row run inside a single Store.InTx call, so a failure at any step
// leaves nothing behind.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// Ledger is the entry point for every trip and expense operation.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrValidation}, args...)...)
}

func permissionErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrPermission}, args...)...)
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrConflict}, args...)...)
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}

// requireActiveMember fails with a validation error unless userID holds an
// active membership in tripID.
func requireActiveMember(ctx context.Context, q storage.Queries, tripID, userID string) error {
	m, err := q.GetMembership(ctx, tripID, userID)
	if isNotFound(err) {
		return validationErr("user %s is not a member of trip %s", userID, tripID)
	}
	if err != nil {
		return err
	}
	if !m.Active {
		return validationErr("user %s is no longer an active member of trip %s", userID, tripID)
	}
	return nil
}

// requireActiveTrip loads tripID and fails with a validation error unless it
// still accepts new expenses.
func requireActiveTrip(ctx context.Context, q storage.Queries, tripID string) (*models.Trip, error) {
	trip, err := q.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != models.TripStatusActive {
		return nil, validationErr("trip %s is %s", tripID, trip.Status)
	}
	return trip, nil
}

// loadSnapshot assembles the balance snapshot of a trip from q.
func loadSnapshot(ctx context.Context, q storage.Queries, tripID string) ([]calculator.ExpenseForBalance, error) {
	expenses, err := q.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	involvements, err := q.ListInvolvementsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	byExpense := make(map[string][]calculator.InvolvementForBalance, len(expenses))
	for _, inv := range involvements {
		byExpense[inv.ExpenseID] = append(byExpense[inv.ExpenseID], calculator.InvolvementForBalance{
			DebtorID:    inv.DebtorID,
			ShareAmount: inv.ShareAmount,
		})
	}

	snapshot := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		snapshot[i] = calculator.ExpenseForBalance{
			PayerID:      e.PayerID,
			Amount:       e.Amount,
			Involvements: byExpense[e.ID],
		}
	}
	return snapshot, nil
}
