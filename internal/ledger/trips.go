package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateTrip creates an active trip and makes its creator the first member.
func (l *Ledger) CreateTrip(ctx context.Context, creatorID, name, currency string) (*models.Trip, error) {
	name = strings.TrimSpace(name)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if creatorID == "" {
		return nil, validationErr("creator_id is required")
	}
	if name == "" {
		return nil, validationErr("trip name is required")
	}
	if len(currency) != 3 {
		return nil, validationErr("currency must be a 3-letter code, got %q", currency)
	}

	now := l.now().Unix()
	trip := &models.Trip{
		Name:      name,
		Currency:  currency,
		CreatorID: creatorID,
		Status:    models.TripStatusActive,
		CreatedAt: now,
	}
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		if err := q.CreateTrip(ctx, trip); err != nil {
			return err
		}
		return q.UpsertMembership(ctx, &models.Membership{
			TripID:   trip.ID,
			UserID:   creatorID,
			JoinedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTrip returns a trip by ID.
func (l *Ledger) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	if tripID == "" {
		return nil, validationErr("trip_id is required")
	}
	return l.store.GetTrip(ctx, tripID)
}

// ListTrips returns the non-archived trips userID is an active member of.
func (l *Ledger) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	trips, err := l.store.ListTripsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible := trips[:0]
	for _, t := range trips {
		if t.Status != models.TripStatusArchived {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// ArchiveTrip soft-deletes a trip. Only its creator may archive it.
func (l *Ledger) ArchiveTrip(ctx context.Context, tripID, callerID string) error {
	return l.store.InTx(ctx, func(q storage.Queries) error {
		trip, err := q.GetTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.CreatorID != callerID {
			return permissionErr("only the creator can archive trip %s", tripID)
		}
		if trip.Status == models.TripStatusArchived {
			return nil
		}
		return q.UpdateTripStatus(ctx, tripID, models.TripStatusArchived)
	})
}

// AddMember adds userID to a trip, or reactivates their earlier membership.
func (l *Ledger) AddMember(ctx context.Context, tripID, userID, nickname string) (*models.Membership, error) {
	if tripID == "" || userID == "" {
		return nil, validationErr("trip_id and user_id are required")
	}
	m := &models.Membership{
		TripID:   tripID,
		UserID:   userID,
		Nickname: strings.TrimSpace(nickname),
		JoinedAt: l.now().Unix(),
	}
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		trip, err := q.GetTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.Status == models.TripStatusArchived {
			return validationErr("trip %s is archived", tripID)
		}
		return q.UpsertMembership(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	metrics.MembershipChanges.WithLabelValues(metrics.ChangeActivated).Inc()
	return m, nil
}

// ListMembers returns every membership of a trip, inactive ones included.
func (l *Ledger) ListMembers(ctx context.Context, tripID string) ([]*models.Membership, error) {
	if _, err := l.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return l.store.ListMemberships(ctx, tripID)
}

// RequireActiveMember fails with models.ErrPermission unless userID holds an
// active membership in tripID.
func (l *Ledger) RequireActiveMember(ctx context.Context, tripID, userID string) error {
	m, err := l.store.GetMembership(ctx, tripID, userID)
	if err != nil {
		if isNotFound(err) {
			return permissionErr("user %s is not a member of trip %s", userID, tripID)
		}
		return err
	}
	if !m.Active {
		return permissionErr("user %s is no longer an active member of trip %s", userID, tripID)
	}
	return nil
}

// DeactivateMembership marks userID as having left the trip. It fails with an
// *models.OutstandingBalanceError while their net balance exceeds
// calculator.Epsilon in either direction. Expense history is untouched.
func (l *Ledger) DeactivateMembership(ctx context.Context, tripID, userID string) error {
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		m, err := q.GetMembership(ctx, tripID, userID)
		if err != nil {
			return err
		}
		if !m.Active {
			return nil
		}

		snapshot, err := loadSnapshot(ctx, q, tripID)
		if err != nil {
			return err
		}
		balance := calculator.BalanceOf(calculator.CalculateTripBalances(snapshot, nil), userID)
		if balance.Abs().GreaterThan(calculator.Epsilon) {
			return &models.OutstandingBalanceError{TripID: tripID, UserID: userID, Balance: balance}
		}
		return q.SetMembershipActive(ctx, tripID, userID, false)
	})
	if err != nil {
		return err
	}
	metrics.MembershipChanges.WithLabelValues(metrics.ChangeDeactivated).Inc()
	return nil
}

// ReactivateMembership restores a deactivated membership. Archived trips
// accept no membership changes.
func (l *Ledger) ReactivateMembership(ctx context.Context, tripID, userID string) error {
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		trip, err := q.GetTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.Status == models.TripStatusArchived {
			return validationErr("trip %s is archived", tripID)
		}
		return q.SetMembershipActive(ctx, tripID, userID, true)
	})
	if err != nil {
		return err
	}
	metrics.MembershipChanges.WithLabelValues(metrics.ChangeActivated).Inc()
	return nil
}
