package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// CreateTrip persists a new trip to the database.
func (q *queries) CreateTrip(ctx context.Context, trip *models.Trip) error {
	// Generate IDs if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusActive
	}

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO trips (id, name, currency, creator_id, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		trip.ID, trip.Name, trip.Currency, trip.CreatorID, trip.Status, trip.CreatedAt,
	)
	if err != nil {
		return persistenceErr("insert trip", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (q *queries) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, currency, creator_id, status, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.Currency, &trip.CreatorID, &trip.Status, &trip.CreatedAt)
	if err != nil {
		return nil, scanErr(err, "trip", tripID)
	}
	return trip, nil
}

// ListTripsForUser retrieves all trips the user is an active member of, newest first.
func (q *queries) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.currency, t.creator_id, t.status, t.created_at
		 FROM trips t
		 JOIN memberships m ON m.trip_id = t.id
		 WHERE m.user_id = ? AND m.active = 1
		 ORDER BY t.created_at DESC, t.id`,
		userID,
	)
	if err != nil {
		return nil, persistenceErr("list trips", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.Currency, &trip.CreatorID, &trip.Status, &trip.CreatedAt); err != nil {
			return nil, persistenceErr("scan trip", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate trips", err)
	}
	return trips, nil
}

// UpdateTripStatus changes a trip's lifecycle status.
func (q *queries) UpdateTripStatus(ctx context.Context, tripID string, status models.TripStatus) error {
	res, err := q.db.ExecContext(ctx, "UPDATE trips SET status = ? WHERE id = ?", status, tripID)
	if err != nil {
		return persistenceErr("update trip status", err)
	}
	return expectAffected(res, "trip", tripID)
}

// UpsertMembership adds a user to a trip or reactivates their existing membership.
func (q *queries) UpsertMembership(ctx context.Context, m *models.Membership) error {
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}

	err := q.db.QueryRowContext(ctx,
		`INSERT INTO memberships (trip_id, user_id, nickname, active, joined_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT (trip_id, user_id) DO UPDATE SET
		     active = 1,
		     nickname = CASE WHEN excluded.nickname <> '' THEN excluded.nickname ELSE memberships.nickname END
		 RETURNING nickname, joined_at`,
		m.TripID, m.UserID, m.Nickname, m.JoinedAt,
	).Scan(&m.Nickname, &m.JoinedAt)
	if err != nil {
		return persistenceErr("upsert membership", err)
	}
	m.Active = true
	return nil
}

// GetMembership retrieves one user's membership in a trip.
func (q *queries) GetMembership(ctx context.Context, tripID, userID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := q.db.QueryRowContext(ctx,
		"SELECT trip_id, user_id, nickname, active, joined_at FROM memberships WHERE trip_id = ? AND user_id = ?",
		tripID, userID,
	).Scan(&m.TripID, &m.UserID, &m.Nickname, &m.Active, &m.JoinedAt)
	if err != nil {
		return nil, scanErr(err, "membership", tripID+"/"+userID)
	}
	return m, nil
}

// ListMemberships retrieves every membership of a trip, active or not.
func (q *queries) ListMemberships(ctx context.Context, tripID string) ([]*models.Membership, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT trip_id, user_id, nickname, active, joined_at
		 FROM memberships WHERE trip_id = ? ORDER BY joined_at, user_id`,
		tripID,
	)
	if err != nil {
		return nil, persistenceErr("list memberships", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.TripID, &m.UserID, &m.Nickname, &m.Active, &m.JoinedAt); err != nil {
			return nil, persistenceErr("scan membership", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate memberships", err)
	}
	return memberships, nil
}

// SetMembershipActive flips a membership's active flag without touching history.
func (q *queries) SetMembershipActive(ctx context.Context, tripID, userID string, active bool) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE memberships SET active = ? WHERE trip_id = ? AND user_id = ?",
		active, tripID, userID,
	)
	if err != nil {
		return persistenceErr("update membership", err)
	}
	return expectAffected(res, "membership", tripID+"/"+userID)
}
