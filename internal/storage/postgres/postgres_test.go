package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// newTestStore connects to TRIPSPLIT_TEST_POSTGRES_URL and empties every table.
// Tests are skipped when the variable is unset.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TRIPSPLIT_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TRIPSPLIT_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	store, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.pool.Exec(ctx, "TRUNCATE consents, involvements, expenses, memberships, trips CASCADE")
	require.NoError(t, err)
	return store
}

func seedTrip(t *testing.T, s *PostgresStore, members ...string) *models.Trip {
	t.Helper()
	ctx := context.Background()
	trip := &models.Trip{Name: "Lisbon", Currency: "EUR", CreatorID: members[0]}
	require.NoError(t, s.CreateTrip(ctx, trip))
	for _, m := range members {
		require.NoError(t, s.UpsertMembership(ctx, &models.Membership{TripID: trip.ID, UserID: m}))
	}
	return trip
}

func seedExpense(t *testing.T, q storage.Queries, tripID, payer, amount string, debtors ...string) *models.Expense {
	t.Helper()
	ctx := context.Background()
	e := &models.Expense{
		TripID:  tripID,
		Name:    "Tram",
		Amount:  decimal.RequireFromString(amount),
		PayerID: payer,
		Status:  models.ExpenseStatusPending,
	}
	require.NoError(t, q.InsertExpense(ctx, e))

	share := e.Amount.Div(decimal.NewFromInt(int64(len(debtors) + 1)))
	invs := make([]models.Involvement, len(debtors))
	consents := make([]models.Consent, len(debtors))
	for i, d := range debtors {
		invs[i] = models.Involvement{ExpenseID: e.ID, DebtorID: d, ShareAmount: share, SplitType: models.SplitTypeEqual}
		consents[i] = models.Consent{ExpenseID: e.ID, DebtorID: d, Status: models.ConsentRequired}
	}
	require.NoError(t, q.InsertInvolvements(ctx, invs))
	require.NoError(t, q.InsertConsents(ctx, consents))
	return e
}

func TestTripsAndMemberships(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, s, "alice", "bob")

	got, err := s.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusActive, got.Status)
	assert.Equal(t, "EUR", got.Currency)

	_, err = s.GetTrip(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.SetMembershipActive(ctx, trip.ID, "bob", false))
	trips, err := s.ListTripsForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, trips)

	m := &models.Membership{TripID: trip.ID, UserID: "bob", Nickname: "B"}
	require.NoError(t, s.UpsertMembership(ctx, m))
	assert.True(t, m.Active)
	assert.Equal(t, "B", m.Nickname)

	members, err := s.ListMemberships(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, s.UpdateTripStatus(ctx, trip.ID, models.TripStatusArchived))
	assert.ErrorIs(t, s.UpdateTripStatus(ctx, "missing", models.TripStatusArchived), models.ErrNotFound)
}

func TestExpensesKeepPrecision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, s, "a", "b", "c")
	e := seedExpense(t, s, trip.ID, "a", "100", "b", "c")

	got, err := s.GetExpense(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.ExpenseStatusPending, got.Status)

	invs, err := s.ListInvolvements(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	assert.True(t, invs[0].ShareAmount.Equal(e.Amount.Div(decimal.NewFromInt(3))), "share = %s", invs[0].ShareAmount)

	require.NoError(t, s.UpdateShares(ctx, e.ID, decimal.RequireFromString("12.345")))
	invs, err = s.ListInvolvementsByTrip(ctx, trip.ID)
	require.NoError(t, err)
	for _, inv := range invs {
		assert.Equal(t, "12.345", inv.ShareAmount.String())
	}

	// Deleting an involvement removes its consent.
	require.NoError(t, s.DeleteInvolvement(ctx, e.ID, "b"))
	consents, err := s.ListConsents(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, consents, 1)
	assert.Equal(t, "c", consents[0].DebtorID)
}

func TestListConsentsByTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, s, "a", "b", "c")
	e1 := seedExpense(t, s, trip.ID, "a", "30", "b", "c")
	seedExpense(t, s, trip.ID, "b", "10", "c")

	consents, err := s.ListConsents(ctx, e1.ID)
	require.NoError(t, err)
	disputed := consents[0]
	disputed.Status = models.ConsentDisputed
	disputed.Reason = "not me"
	require.NoError(t, s.UpdateConsentStatus(ctx, &disputed))

	all, err := s.ListConsentsByTrip(ctx, trip.ID, storage.ConsentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forC, err := s.ListConsentsByTrip(ctx, trip.ID, storage.ConsentFilter{DebtorID: "c"})
	require.NoError(t, err)
	assert.Len(t, forC, 2)

	disputes, err := s.ListConsentsByTrip(ctx, trip.ID, storage.ConsentFilter{
		PayerID:  "a",
		Statuses: []models.ConsentStatus{models.ConsentDisputed},
	})
	require.NoError(t, err)
	require.Len(t, disputes, 1)
	assert.Equal(t, "not me", disputes[0].Reason)
	assert.Equal(t, "a", disputes[0].PayerID)
	assert.True(t, disputes[0].ShareAmount.Equal(decimal.NewFromInt(10)))

	assert.ErrorIs(t, s.DeleteConsent(ctx, "missing"), models.ErrNotFound)
}

func TestInTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trip := seedTrip(t, s, "a", "b")

	err := s.InTx(ctx, func(q storage.Queries) error {
		seedExpense(t, q, trip.ID, "a", "50", "b")
		return models.ErrConflict
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	expenses, err := s.ListExpensesByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses, "rolled back expense must not persist")

	err = s.InTx(ctx, func(q storage.Queries) error {
		seedExpense(t, q, trip.ID, "a", "50", "b")
		return nil
	})
	require.NoError(t, err)

	expenses, err = s.ListExpensesByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestConflictOnSerialization(t *testing.T) {
	serialization := persistenceErr("commit transaction", &pgconn.PgError{Code: "40001"})
	err := conflictOnSerialization(serialization)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.ErrorIs(t, err, models.ErrPersistence)

	unique := persistenceErr("insert trip", &pgconn.PgError{Code: "23505"})
	assert.NotErrorIs(t, conflictOnSerialization(unique), models.ErrConflict)

	plain := fmt.Errorf("%w: trip x", models.ErrNotFound)
	assert.Same(t, plain, conflictOnSerialization(plain))
	assert.False(t, errors.Is(conflictOnSerialization(models.ErrValidation), models.ErrConflict))
}
