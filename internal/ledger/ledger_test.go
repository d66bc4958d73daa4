package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
)

var testNow = time.Unix(1_700_000_000, 0)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestLedger(t *testing.T) (*Ledger, *sqlite.SQLiteStore) {
	t.Helper()
	store := newTestStore(t)
	return New(store, WithClock(func() time.Time { return testNow })), store
}

// newTrip creates a trip whose creator is members[0] and adds the rest.
func newTrip(t *testing.T, l *Ledger, members ...string) *models.Trip {
	t.Helper()
	ctx := context.Background()
	trip, err := l.CreateTrip(ctx, members[0], "Goa", "inr")
	require.NoError(t, err)
	for _, m := range members[1:] {
		_, err := l.AddMember(ctx, trip.ID, m, "")
		require.NoError(t, err)
	}
	return trip
}

func mustCreateExpense(t *testing.T, l *Ledger, tripID, payer, amount string, debtors ...string) string {
	t.Helper()
	id, err := l.CreateExpense(context.Background(), CreateExpenseInput{
		TripID:    tripID,
		PayerID:   payer,
		Name:      "Dinner",
		Amount:    decimal.RequireFromString(amount),
		DebtorIDs: debtors,
	})
	require.NoError(t, err)
	return id
}

func consentOf(t *testing.T, l *Ledger, expenseID, debtorID string) models.Consent {
	t.Helper()
	detail, err := l.GetExpense(context.Background(), expenseID)
	require.NoError(t, err)
	for _, c := range detail.Consents {
		if c.DebtorID == debtorID {
			return c
		}
	}
	t.Fatalf("no consent for %s on expense %s", debtorID, expenseID)
	return models.Consent{}
}

func shareOf(t *testing.T, l *Ledger, expenseID, debtorID string) decimal.Decimal {
	t.Helper()
	detail, err := l.GetExpense(context.Background(), expenseID)
	require.NoError(t, err)
	for _, inv := range detail.Involvements {
		if inv.DebtorID == debtorID {
			return inv.ShareAmount
		}
	}
	t.Fatalf("no involvement for %s on expense %s", debtorID, expenseID)
	return decimal.Zero
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// failingStore injects a persistence failure into InsertConsents inside transactions.
type failingStore struct {
	storage.Store
}

func (s failingStore) InTx(ctx context.Context, fn func(q storage.Queries) error) error {
	return s.Store.InTx(ctx, func(q storage.Queries) error {
		return fn(failingQueries{q})
	})
}

type failingQueries struct {
	storage.Queries
}

func (failingQueries) InsertConsents(context.Context, []models.Consent) error {
	return fmt.Errorf("%w: failed to insert consent: disk I/O error", models.ErrPersistence)
}

func TestCreateTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	t.Run("creator becomes active member", func(t *testing.T) {
		trip, err := l.CreateTrip(ctx, "alice", " Goa 2026 ", "inr")
		require.NoError(t, err)
		assert.Equal(t, "Goa 2026", trip.Name)
		assert.Equal(t, "INR", trip.Currency)
		assert.Equal(t, models.TripStatusActive, trip.Status)
		assert.Equal(t, testNow.Unix(), trip.CreatedAt)

		members, err := l.ListMembers(ctx, trip.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "alice", members[0].UserID)
		assert.True(t, members[0].Active)
	})

	tests := []struct {
		name     string
		creator  string
		tripName string
		currency string
	}{
		{"missing creator", "", "Goa", "INR"},
		{"blank name", "alice", "   ", "INR"},
		{"bad currency", "alice", "Goa", "RUPEES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateTrip(ctx, tt.creator, tt.tripName, tt.currency)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestListAndArchiveTrips(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	goa := newTrip(t, l, "alice", "bob")
	newTrip(t, l, "alice")

	trips, err := l.ListTrips(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, trips, 2)

	err = l.ArchiveTrip(ctx, goa.ID, "bob")
	assert.ErrorIs(t, err, models.ErrPermission)

	require.NoError(t, l.ArchiveTrip(ctx, goa.ID, "alice"))
	require.NoError(t, l.ArchiveTrip(ctx, goa.ID, "alice"), "archiving twice is a no-op")

	trips, err = l.ListTrips(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, trips, 1)

	trips, err = l.ListTrips(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, trips)

	got, err := l.GetTrip(ctx, goa.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusArchived, got.Status)

	_, err = l.AddMember(ctx, goa.ID, "carol", "")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = l.ArchiveTrip(ctx, "missing", "alice")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateExpense(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2")

	t.Run("equal split with a required consent per debtor", func(t *testing.T) {
		id := mustCreateExpense(t, l, trip.ID, "p", "300", "d1", "d2")

		detail, err := l.GetExpense(ctx, id)
		require.NoError(t, err)
		assert.True(t, detail.Amount.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, models.ExpenseStatusApproved, detail.Status)
		assert.Equal(t, testNow.Unix(), detail.IncurredAt)

		require.Len(t, detail.Involvements, 2)
		for _, inv := range detail.Involvements {
			assert.True(t, inv.ShareAmount.Equal(decimal.NewFromInt(100)), "share = %s", inv.ShareAmount)
			assert.Equal(t, models.SplitTypeEqual, inv.SplitType)
			assert.NotEqual(t, "p", inv.DebtorID)
		}
		require.Len(t, detail.Consents, 2)
		for _, c := range detail.Consents {
			assert.Equal(t, models.ConsentRequired, c.Status)
		}
	})

	t.Run("incurred at is kept", func(t *testing.T) {
		when := time.Date(2026, 1, 2, 20, 0, 0, 0, time.UTC)
		id, err := l.CreateExpense(ctx, CreateExpenseInput{
			TripID:     trip.ID,
			PayerID:    "d1",
			Name:       "Taxi",
			Amount:     decimal.NewFromInt(50),
			DebtorIDs:  []string{"p"},
			IncurredAt: when,
		})
		require.NoError(t, err)

		detail, err := l.GetExpense(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, when.Unix(), detail.IncurredAt)
		assert.True(t, detail.Involvements[0].ShareAmount.Equal(decimal.NewFromInt(25)))
	})

	tests := []struct {
		name    string
		in      CreateExpenseInput
		wantErr error
	}{
		{
			name:    "missing trip",
			in:      CreateExpenseInput{Name: "Lunch", PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "missing payer",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "empty name",
			in:      CreateExpenseInput{TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "blank name",
			in:      CreateExpenseInput{Name: "   ", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "zero amount",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.Zero, DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "negative amount",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(-5), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "no debtors",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10)},
			wantErr: models.ErrValidation,
		},
		{
			name:    "payer among debtors",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1", "p"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "duplicate debtor",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1", "d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "debtor outside trip",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"stranger"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "payer outside trip",
			in:      CreateExpenseInput{Name: "Lunch", TripID: trip.ID, PayerID: "stranger", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrValidation,
		},
		{
			name:    "unknown trip",
			in:      CreateExpenseInput{Name: "Lunch", TripID: "missing", PayerID: "p", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"d1"}},
			wantErr: models.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := l.CreateExpense(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, id)
		})
	}

	t.Run("inactive debtor", func(t *testing.T) {
		_, err := l.AddMember(ctx, trip.ID, "gone", "")
		require.NoError(t, err)
		require.NoError(t, l.DeactivateMembership(ctx, trip.ID, "gone"))

		_, err = l.CreateExpense(ctx, CreateExpenseInput{
			TripID: trip.ID, PayerID: "p", Name: "Lunch", Amount: decimal.NewFromInt(10), DebtorIDs: []string{"gone"},
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestCreateExpense_Atomic(t *testing.T) {
	store := newTestStore(t)
	l := New(store)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2")

	failing := New(failingStore{store})
	id, err := failing.CreateExpense(ctx, CreateExpenseInput{
		TripID:    trip.ID,
		PayerID:   "p",
		Name:      "Hotel",
		Amount:    decimal.NewFromInt(300),
		DebtorIDs: []string{"d1", "d2"},
	})
	require.ErrorIs(t, err, models.ErrPersistence)
	assert.Empty(t, id)

	expenses, err := store.ListExpensesByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses, "expense row must be rolled back")

	involvements, err := store.ListInvolvementsByTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, involvements, "involvement rows must be rolled back")
}

func TestSetConsent(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2")
	expenseID := mustCreateExpense(t, l, trip.ID, "p", "300", "d1", "d2")

	t.Run("approve", func(t *testing.T) {
		c := consentOf(t, l, expenseID, "d1")
		got, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentApproved, "ignored")
		require.NoError(t, err)
		assert.Equal(t, models.ConsentApproved, got.Status)
		assert.Empty(t, got.Reason)
		assert.Equal(t, testNow.Unix(), got.UpdatedAt)

		// The share is untouched.
		assert.True(t, shareOf(t, l, expenseID, "d1").Equal(decimal.NewFromInt(100)))
	})

	t.Run("approved is terminal", func(t *testing.T) {
		c := consentOf(t, l, expenseID, "d1")
		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
		assert.ErrorIs(t, err, models.ErrConflict)
		_, err = l.SetConsent(ctx, c.ID, "d1", models.ConsentApproved, "")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("dispute stores reason", func(t *testing.T) {
		c := consentOf(t, l, expenseID, "d2")
		got, err := l.SetConsent(ctx, c.ID, "d2", models.ConsentDisputed, " left early ")
		require.NoError(t, err)
		assert.Equal(t, models.ConsentDisputed, got.Status)
		assert.Equal(t, "left early", got.Reason)

		_, err = l.SetConsent(ctx, c.ID, "d2", models.ConsentDisputed, "")
		assert.ErrorIs(t, err, models.ErrConflict)
		_, err = l.SetConsent(ctx, c.ID, "d2", models.ConsentApproved, "")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("other debtor", func(t *testing.T) {
		c := consentOf(t, l, expenseID, "d2")
		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentApproved, "")
		assert.ErrorIs(t, err, models.ErrPermission)
		_, err = l.SetConsent(ctx, c.ID, "p", models.ConsentApproved, "")
		assert.ErrorIs(t, err, models.ErrPermission)
	})

	t.Run("invalid status", func(t *testing.T) {
		id := mustCreateExpense(t, l, trip.ID, "p", "10", "d1")
		c := consentOf(t, l, id, "d1")
		for _, status := range []models.ConsentStatus{"Maybe", models.ConsentRequired, models.ConsentPreApproved} {
			_, err := l.SetConsent(ctx, c.ID, "d1", status, "")
			assert.ErrorIs(t, err, models.ErrValidation, "status %q", status)
		}
	})

	t.Run("pre-approved behaves like required", func(t *testing.T) {
		id := mustCreateExpense(t, l, trip.ID, "p", "10", "d1")
		c := consentOf(t, l, id, "d1")
		c.Status = models.ConsentPreApproved
		require.NoError(t, store.UpdateConsentStatus(ctx, &c))

		got, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
		require.NoError(t, err)
		assert.Equal(t, models.ConsentDisputed, got.Status)
	})

	t.Run("unknown consent", func(t *testing.T) {
		_, err := l.SetConsent(ctx, "missing", "d1", models.ConsentApproved, "")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRemoveDebtor(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2")

	t.Run("disputed debtor removed and shares recomputed", func(t *testing.T) {
		expenseID := mustCreateExpense(t, l, trip.ID, "p", "300", "d1", "d2")
		assert.True(t, shareOf(t, l, expenseID, "d1").Equal(decimal.NewFromInt(100)))
		assert.True(t, shareOf(t, l, expenseID, "d2").Equal(decimal.NewFromInt(100)))

		c := consentOf(t, l, expenseID, "d1")
		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
		require.NoError(t, err)

		require.NoError(t, l.RemoveDebtor(ctx, c.ID, "p"))

		detail, err := l.GetExpense(ctx, expenseID)
		require.NoError(t, err)
		require.Len(t, detail.Involvements, 1)
		require.Len(t, detail.Consents, 1)
		assert.Equal(t, "d2", detail.Involvements[0].DebtorID)
		assert.True(t, detail.Involvements[0].ShareAmount.Equal(decimal.NewFromInt(150)),
			"share = %s", detail.Involvements[0].ShareAmount)
		assert.True(t, detail.Amount.Equal(decimal.NewFromInt(300)), "amount is immutable")
	})

	t.Run("last debtor removed leaves no involvements", func(t *testing.T) {
		expenseID := mustCreateExpense(t, l, trip.ID, "p", "80", "d1")
		c := consentOf(t, l, expenseID, "d1")
		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
		require.NoError(t, err)

		require.NoError(t, l.RemoveDebtor(ctx, c.ID, "p"))

		detail, err := l.GetExpense(ctx, expenseID)
		require.NoError(t, err)
		assert.Empty(t, detail.Involvements)
		assert.Empty(t, detail.Consents)
	})

	t.Run("only the payer", func(t *testing.T) {
		expenseID := mustCreateExpense(t, l, trip.ID, "p", "60", "d1", "d2")
		c := consentOf(t, l, expenseID, "d1")
		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
		require.NoError(t, err)

		assert.ErrorIs(t, l.RemoveDebtor(ctx, c.ID, "d2"), models.ErrPermission)
		assert.ErrorIs(t, l.RemoveDebtor(ctx, c.ID, "d1"), models.ErrPermission)
	})

	t.Run("consent must be disputed", func(t *testing.T) {
		expenseID := mustCreateExpense(t, l, trip.ID, "p", "60", "d1", "d2")
		c := consentOf(t, l, expenseID, "d1")
		assert.ErrorIs(t, l.RemoveDebtor(ctx, c.ID, "p"), models.ErrConflict)

		_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentApproved, "")
		require.NoError(t, err)
		assert.ErrorIs(t, l.RemoveDebtor(ctx, c.ID, "p"), models.ErrConflict)
		assert.True(t, shareOf(t, l, expenseID, "d1").Equal(decimal.NewFromInt(20)))
	})
}

func TestRejectDispute(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2")
	expenseID := mustCreateExpense(t, l, trip.ID, "p", "300", "d1", "d2")
	c := consentOf(t, l, expenseID, "d1")

	_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "wasn't there")
	require.NoError(t, err)

	assert.ErrorIs(t, l.RejectDispute(ctx, c.ID, "d2"), models.ErrPermission)

	require.NoError(t, l.RejectDispute(ctx, c.ID, "p"))
	got := consentOf(t, l, expenseID, "d1")
	assert.Equal(t, models.ConsentRequired, got.Status)
	assert.Empty(t, got.Reason)
	assert.True(t, shareOf(t, l, expenseID, "d1").Equal(decimal.NewFromInt(100)))

	assert.ErrorIs(t, l.RejectDispute(ctx, c.ID, "p"), models.ErrConflict, "no longer disputed")

	// Disputing again reuses the same consent.
	_, err = l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
	require.NoError(t, err)
	detail, err := l.GetExpense(ctx, expenseID)
	require.NoError(t, err)
	assert.Len(t, detail.Consents, 2)
	assert.Equal(t, models.ConsentDisputed, consentOf(t, l, expenseID, "d1").Status)
}

func TestReAddDebtor(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "p", "d1", "d2", "d3")
	expenseID := mustCreateExpense(t, l, trip.ID, "p", "300", "d1", "d2")

	c := consentOf(t, l, expenseID, "d1")
	_, err := l.SetConsent(ctx, c.ID, "d1", models.ConsentDisputed, "")
	require.NoError(t, err)
	require.NoError(t, l.RemoveDebtor(ctx, c.ID, "p"))

	readdedBefore := counterValue(t, metrics.DebtorsReAdded)
	removedBefore := counterValue(t, metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRemoved))
	rejectedBefore := counterValue(t, metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRejected))

	require.NoError(t, l.ReAddDebtor(ctx, expenseID, "d1", "p"))

	assert.Equal(t, readdedBefore+1, counterValue(t, metrics.DebtorsReAdded))
	assert.Equal(t, removedBefore, counterValue(t, metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRemoved)))
	assert.Equal(t, rejectedBefore, counterValue(t, metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRejected)))

	detail, err := l.GetExpense(ctx, expenseID)
	require.NoError(t, err)
	require.Len(t, detail.Involvements, 2)
	for _, inv := range detail.Involvements {
		assert.True(t, inv.ShareAmount.Equal(decimal.NewFromInt(100)))
	}
	readded := consentOf(t, l, expenseID, "d1")
	assert.Equal(t, models.ConsentRequired, readded.Status)
	assert.NotEqual(t, c.ID, readded.ID)

	assert.ErrorIs(t, l.ReAddDebtor(ctx, expenseID, "d1", "p"), models.ErrConflict)
	assert.ErrorIs(t, l.ReAddDebtor(ctx, expenseID, "p", "p"), models.ErrValidation)
	assert.ErrorIs(t, l.ReAddDebtor(ctx, expenseID, "stranger", "p"), models.ErrValidation)
	assert.ErrorIs(t, l.ReAddDebtor(ctx, expenseID, "d3", "d1"), models.ErrPermission)
	assert.ErrorIs(t, l.ReAddDebtor(ctx, "missing", "d3", "p"), models.ErrNotFound)
}

func TestBalances(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	t.Run("peer balance", func(t *testing.T) {
		trip := newTrip(t, l, "a", "b")
		mustCreateExpense(t, l, trip.ID, "a", "100", "b")
		mustCreateExpense(t, l, trip.ID, "b", "60", "a")

		ab, err := l.GetPeerBalance(ctx, trip.ID, "a", "b")
		require.NoError(t, err)
		assert.True(t, ab.Equal(decimal.NewFromInt(20)), "Peer(a,b) = %s", ab)

		ba, err := l.GetPeerBalance(ctx, trip.ID, "b", "a")
		require.NoError(t, err)
		assert.True(t, ba.Equal(ab.Neg()))

		report, err := l.GetTripBalances(ctx, trip.ID)
		require.NoError(t, err)
		require.Len(t, report.Balances, 2)
		assert.True(t, report.Balances[0].NetBalance.Equal(decimal.NewFromInt(20)))
		assert.True(t, report.Balances[1].NetBalance.Equal(decimal.NewFromInt(-20)))
		require.Len(t, report.Settlements, 1)
		assert.Equal(t, "b", report.Settlements[0].From)
		assert.Equal(t, "a", report.Settlements[0].To)
	})

	t.Run("empty trip", func(t *testing.T) {
		trip := newTrip(t, l, "x", "y")
		report, err := l.GetTripBalances(ctx, trip.ID)
		require.NoError(t, err)
		require.Len(t, report.Balances, 2)
		for _, b := range report.Balances {
			assert.True(t, b.NetBalance.IsZero())
		}
		assert.Empty(t, report.Settlements)

		peer, err := l.GetPeerBalance(ctx, trip.ID, "x", "y")
		require.NoError(t, err)
		assert.True(t, peer.IsZero())
	})

	t.Run("net balances sum to zero and count every consent status", func(t *testing.T) {
		trip := newTrip(t, l, "p", "d1", "d2")
		expenseID := mustCreateExpense(t, l, trip.ID, "p", "100", "d1", "d2")
		mustCreateExpense(t, l, trip.ID, "d1", "45.50", "d2")

		c := consentOf(t, l, expenseID, "d2")
		_, err := l.SetConsent(ctx, c.ID, "d2", models.ConsentDisputed, "")
		require.NoError(t, err)

		report, err := l.GetTripBalances(ctx, trip.ID)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, b := range report.Balances {
			sum = sum.Add(b.NetBalance)
		}
		assert.True(t, sum.Abs().LessThanOrEqual(decimal.New(1, -9)), "sum = %s", sum)
	})

	t.Run("unknown trip", func(t *testing.T) {
		_, err := l.GetTripBalances(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = l.GetPeerBalance(ctx, "missing", "a", "b")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeactivateMembership(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"no balance", "", false},
		{"within tolerance", "0.02", false},
		{"just over tolerance", "0.03", true},
		{"large balance", "300", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t)
			trip := newTrip(t, l, "p", "d")
			if tt.amount != "" {
				mustCreateExpense(t, l, trip.ID, "p", tt.amount, "d")
			}

			err := l.DeactivateMembership(ctx, trip.ID, "d")
			if !tt.wantErr {
				require.NoError(t, err)
				m, err := l.store.GetMembership(ctx, trip.ID, "d")
				require.NoError(t, err)
				assert.False(t, m.Active)
				return
			}

			require.ErrorIs(t, err, models.ErrOutstandingBalance)
			var balErr *models.OutstandingBalanceError
			require.ErrorAs(t, err, &balErr)
			assert.Equal(t, "d", balErr.UserID)
			assert.True(t, balErr.Balance.IsNegative())

			m, err := l.store.GetMembership(ctx, trip.ID, "d")
			require.NoError(t, err)
			assert.True(t, m.Active)
		})
	}

	t.Run("history survives reactivation", func(t *testing.T) {
		l, _ := newTestLedger(t)
		trip := newTrip(t, l, "a", "b")
		mustCreateExpense(t, l, trip.ID, "a", "100", "b")
		mustCreateExpense(t, l, trip.ID, "b", "100", "a")

		require.NoError(t, l.DeactivateMembership(ctx, trip.ID, "b"))
		require.NoError(t, l.DeactivateMembership(ctx, trip.ID, "b"), "already inactive")

		expenses, err := l.ListExpensesForUser(ctx, trip.ID, "b")
		require.NoError(t, err)
		assert.Len(t, expenses, 2)

		require.NoError(t, l.ReactivateMembership(ctx, trip.ID, "b"))
		report, err := l.GetTripBalances(ctx, trip.ID)
		require.NoError(t, err)
		assert.Len(t, report.Balances, 2)
		assert.NoError(t, l.RequireActiveMember(ctx, trip.ID, "b"))
	})

	t.Run("unknown membership", func(t *testing.T) {
		l, _ := newTestLedger(t)
		trip := newTrip(t, l, "a")
		assert.ErrorIs(t, l.DeactivateMembership(ctx, trip.ID, "ghost"), models.ErrNotFound)
		assert.ErrorIs(t, l.ReactivateMembership(ctx, trip.ID, "ghost"), models.ErrNotFound)
		assert.ErrorIs(t, l.ReactivateMembership(ctx, "missing", "a"), models.ErrNotFound)
	})

	t.Run("archived trip stays closed", func(t *testing.T) {
		l, _ := newTestLedger(t)
		trip := newTrip(t, l, "a", "b")
		require.NoError(t, l.DeactivateMembership(ctx, trip.ID, "b"))
		require.NoError(t, l.ArchiveTrip(ctx, trip.ID, "a"))

		assert.ErrorIs(t, l.ReactivateMembership(ctx, trip.ID, "b"), models.ErrValidation)
		assert.ErrorIs(t, l.RequireActiveMember(ctx, trip.ID, "b"), models.ErrPermission, "membership must stay inactive")
	})
}

func TestMembers(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "alice")

	m, err := l.AddMember(ctx, trip.ID, "bob", "Bobby")
	require.NoError(t, err)
	assert.True(t, m.Active)
	assert.Equal(t, "Bobby", m.Nickname)

	assert.ErrorIs(t, l.RequireActiveMember(ctx, trip.ID, "carol"), models.ErrPermission)

	require.NoError(t, l.DeactivateMembership(ctx, trip.ID, "bob"))
	assert.ErrorIs(t, l.RequireActiveMember(ctx, trip.ID, "bob"), models.ErrPermission)

	m, err = l.AddMember(ctx, trip.ID, "bob", "")
	require.NoError(t, err)
	assert.True(t, m.Active)
	assert.Equal(t, "Bobby", m.Nickname)

	_, err = l.AddMember(ctx, "missing", "bob", "")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = l.ListMembers(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListings(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	trip := newTrip(t, l, "a", "b", "c")

	e1 := mustCreateExpense(t, l, trip.ID, "a", "90", "b", "c")
	e2 := mustCreateExpense(t, l, trip.ID, "b", "40", "a")
	e3 := mustCreateExpense(t, l, trip.ID, "c", "20", "b")

	t.Run("expenses for user", func(t *testing.T) {
		mine, err := l.ListExpensesForUser(ctx, trip.ID, "a")
		require.NoError(t, err)
		var ids []string
		for _, e := range mine {
			ids = append(ids, e.ID)
		}
		assert.ElementsMatch(t, []string{e1, e2}, ids)

		all, err := l.ListExpenses(ctx, trip.ID)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("pending consents", func(t *testing.T) {
		pending, err := l.ListPendingConsents(ctx, trip.ID, "b")
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		c := consentOf(t, l, e3, "b")
		_, err = l.SetConsent(ctx, c.ID, "b", models.ConsentApproved, "")
		require.NoError(t, err)

		pending, err = l.ListPendingConsents(ctx, trip.ID, "b")
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, e1, pending[0].ExpenseID)
		assert.True(t, pending[0].ShareAmount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("disputes for payer", func(t *testing.T) {
		c := consentOf(t, l, e1, "c")
		_, err := l.SetConsent(ctx, c.ID, "c", models.ConsentDisputed, "vegetarian")
		require.NoError(t, err)

		disputes, err := l.ListDisputes(ctx, trip.ID, "a")
		require.NoError(t, err)
		require.Len(t, disputes, 1)
		assert.Equal(t, c.ID, disputes[0].ID)
		assert.Equal(t, "vegetarian", disputes[0].Reason)

		disputes, err = l.ListDisputes(ctx, trip.ID, "b")
		require.NoError(t, err)
		assert.Empty(t, disputes)
	})
}
