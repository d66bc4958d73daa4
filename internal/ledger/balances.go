package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/calculator"
)

// TripBalances is the balance report of one trip.
type TripBalances struct {
	TripID string

	// Balances holds one entry per member who ever joined or appears in an
	// expense, sorted by user ID. Net balances sum to zero.
	Balances []calculator.MemberBalance

	// Settlements suggests transfers that would zero every balance.
	Settlements []calculator.DebtEdge
}

// GetTripBalances computes every member's net balance from the current
// expenses. Balances are recomputed on each call and never stored.
func (l *Ledger) GetTripBalances(ctx context.Context, tripID string) (*TripBalances, error) {
	if tripID == "" {
		return nil, validationErr("trip_id is required")
	}
	if _, err := l.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	memberships, err := l.store.ListMemberships(ctx, tripID)
	if err != nil {
		return nil, err
	}
	snapshot, err := loadSnapshot(ctx, l.store, tripID)
	if err != nil {
		return nil, err
	}

	members := make([]string, len(memberships))
	for i, m := range memberships {
		members[i] = m.UserID
	}
	balances := calculator.CalculateTripBalances(snapshot, members)
	return &TripBalances{
		TripID:      tripID,
		Balances:    balances,
		Settlements: calculator.SimplifyDebts(balances),
	}, nil
}

// GetPeerBalance returns how much userB owes userA within a trip. A negative
// result means userA owes userB.
func (l *Ledger) GetPeerBalance(ctx context.Context, tripID, userA, userB string) (decimal.Decimal, error) {
	if tripID == "" || userA == "" || userB == "" {
		return decimal.Zero, validationErr("trip_id and both user IDs are required")
	}
	if _, err := l.store.GetTrip(ctx, tripID); err != nil {
		return decimal.Zero, err
	}
	snapshot, err := loadSnapshot(ctx, l.store, tripID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := calculator.CalculatePeerBalance(snapshot, userA, userB)
	if err != nil {
		return decimal.Zero, validationErr("%v", err)
	}
	return balance, nil
}
