package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/tripsplit/internal/models"
)

const tripColumns = "id, name, currency, creator_id, status, created_at"

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var (
		trip   models.Trip
		status string
	)
	if err := row.Scan(&trip.ID, &trip.Name, &trip.Currency, &trip.CreatorID, &status, &trip.CreatedAt); err != nil {
		return nil, err
	}
	trip.Status = models.TripStatus(status)
	return &trip, nil
}

// CreateTrip persists a new trip.
func (q *queries) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusActive
	}

	_, err := q.db.Exec(ctx,
		"INSERT INTO trips ("+tripColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		trip.ID, trip.Name, trip.Currency, trip.CreatorID, string(trip.Status), trip.CreatedAt,
	)
	if err != nil {
		return persistenceErr("insert trip", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (q *queries) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := scanTrip(q.db.QueryRow(ctx,
		"SELECT "+tripColumns+" FROM trips WHERE id = $1",
		tripID,
	))
	if err != nil {
		return nil, scanErr(err, "trip", tripID)
	}
	return trip, nil
}

// ListTripsForUser retrieves the trips userID is an active member of, newest first.
func (q *queries) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := q.db.Query(ctx,
		`SELECT t.id, t.name, t.currency, t.creator_id, t.status, t.created_at
		 FROM trips t
		 JOIN memberships m ON m.trip_id = t.id
		 WHERE m.user_id = $1 AND m.active
		 ORDER BY t.created_at DESC, t.id`,
		userID,
	)
	if err != nil {
		return nil, persistenceErr("list trips", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
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
	tag, err := q.db.Exec(ctx, "UPDATE trips SET status = $1 WHERE id = $2", string(status), tripID)
	if err != nil {
		return persistenceErr("update trip status", err)
	}
	return expectAffected(tag, "trip", tripID)
}

// UpsertMembership adds a user to a trip or reactivates their existing membership.
func (q *queries) UpsertMembership(ctx context.Context, m *models.Membership) error {
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}

	err := q.db.QueryRow(ctx,
		`INSERT INTO memberships (trip_id, user_id, nickname, active, joined_at)
		 VALUES ($1, $2, $3, TRUE, $4)
		 ON CONFLICT (trip_id, user_id) DO UPDATE SET
		     active = TRUE,
		     nickname = CASE WHEN EXCLUDED.nickname <> '' THEN EXCLUDED.nickname ELSE memberships.nickname END
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
	err := q.db.QueryRow(ctx,
		"SELECT trip_id, user_id, nickname, active, joined_at FROM memberships WHERE trip_id = $1 AND user_id = $2",
		tripID, userID,
	).Scan(&m.TripID, &m.UserID, &m.Nickname, &m.Active, &m.JoinedAt)
	if err != nil {
		return nil, scanErr(err, "membership", tripID+"/"+userID)
	}
	return m, nil
}

// ListMemberships retrieves every membership of a trip, active or not.
func (q *queries) ListMemberships(ctx context.Context, tripID string) ([]*models.Membership, error) {
	rows, err := q.db.Query(ctx,
		`SELECT trip_id, user_id, nickname, active, joined_at
		 FROM memberships WHERE trip_id = $1 ORDER BY joined_at, user_id`,
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

// SetMembershipActive flips a membership's active flag.
func (q *queries) SetMembershipActive(ctx context.Context, tripID, userID string, active bool) error {
	tag, err := q.db.Exec(ctx,
		"UPDATE memberships SET active = $1 WHERE trip_id = $2 AND user_id = $3",
		active, tripID, userID,
	)
	if err != nil {
		return persistenceErr("update membership", err)
	}
	return expectAffected(tag, "membership", tripID+"/"+userID)
}
