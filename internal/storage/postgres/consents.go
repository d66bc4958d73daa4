package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const consentColumns = "id, expense_id, debtor_id, status, reason, updated_at"

func scanConsent(row pgx.Row) (models.Consent, error) {
	var (
		c      models.Consent
		status string
	)
	err := row.Scan(&c.ID, &c.ExpenseID, &c.DebtorID, &status, &c.Reason, &c.UpdatedAt)
	c.Status = models.ConsentStatus(status)
	return c, err
}

// InsertConsents persists approval requests for the debtors of an expense.
func (q *queries) InsertConsents(ctx context.Context, consents []models.Consent) error {
	now := time.Now().Unix()
	batch := &pgx.Batch{}
	for i := range consents {
		c := &consents[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.UpdatedAt == 0 {
			c.UpdatedAt = now
		}
		batch.Queue(
			"INSERT INTO consents ("+consentColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
			c.ID, c.ExpenseID, c.DebtorID, string(c.Status), c.Reason, c.UpdatedAt,
		)
	}
	return q.sendBatch(ctx, batch, "insert consent")
}

// GetConsent retrieves a consent by ID.
func (q *queries) GetConsent(ctx context.Context, consentID string) (*models.Consent, error) {
	c, err := scanConsent(q.db.QueryRow(ctx,
		"SELECT "+consentColumns+" FROM consents WHERE id = $1",
		consentID,
	))
	if err != nil {
		return nil, scanErr(err, "consent", consentID)
	}
	return &c, nil
}

// ListConsents retrieves every consent of one expense.
func (q *queries) ListConsents(ctx context.Context, expenseID string) ([]models.Consent, error) {
	rows, err := q.db.Query(ctx,
		"SELECT "+consentColumns+" FROM consents WHERE expense_id = $1 ORDER BY debtor_id",
		expenseID,
	)
	if err != nil {
		return nil, persistenceErr("list consents", err)
	}
	defer rows.Close()

	var consents []models.Consent
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, persistenceErr("scan consent", err)
		}
		consents = append(consents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate consents", err)
	}
	return consents, nil
}

// ListConsentsByTrip retrieves consents of a trip joined with their expense, newest change first.
func (q *queries) ListConsentsByTrip(ctx context.Context, tripID string, filter storage.ConsentFilter) ([]models.ConsentDetail, error) {
	var where strings.Builder
	where.WriteString("e.trip_id = $1")
	args := []any{tripID}

	if filter.DebtorID != "" {
		args = append(args, filter.DebtorID)
		fmt.Fprintf(&where, " AND c.debtor_id = $%d", len(args))
	}
	if filter.PayerID != "" {
		args = append(args, filter.PayerID)
		fmt.Fprintf(&where, " AND e.payer_id = $%d", len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		fmt.Fprintf(&where, " AND c.status = ANY($%d)", len(args))
	}

	rows, err := q.db.Query(ctx,
		`SELECT c.id, c.expense_id, c.debtor_id, c.status, c.reason, c.updated_at,
		        e.trip_id, e.name, e.amount::text, e.payer_id, i.share_amount::text
		 FROM consents c
		 JOIN expenses e ON e.id = c.expense_id
		 JOIN involvements i ON i.expense_id = c.expense_id AND i.debtor_id = c.debtor_id
		 WHERE `+where.String()+`
		 ORDER BY c.updated_at DESC, c.id`,
		args...,
	)
	if err != nil {
		return nil, persistenceErr("list trip consents", err)
	}
	defer rows.Close()

	var details []models.ConsentDetail
	for rows.Next() {
		var (
			cd                    models.ConsentDetail
			status, amount, share string
		)
		if err := rows.Scan(
			&cd.ID, &cd.ExpenseID, &cd.DebtorID, &status, &cd.Reason, &cd.UpdatedAt,
			&cd.TripID, &cd.ExpenseName, &amount, &cd.PayerID, &share,
		); err != nil {
			return nil, persistenceErr("scan trip consent", err)
		}
		cd.Status = models.ConsentStatus(status)
		if cd.Amount, err = parseAmount(amount); err != nil {
			return nil, persistenceErr("scan trip consent", err)
		}
		if cd.ShareAmount, err = parseAmount(share); err != nil {
			return nil, persistenceErr("scan trip consent", err)
		}
		details = append(details, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate trip consents", err)
	}
	return details, nil
}

// UpdateConsentStatus writes a consent's status, reason and timestamp.
func (q *queries) UpdateConsentStatus(ctx context.Context, consent *models.Consent) error {
	tag, err := q.db.Exec(ctx,
		"UPDATE consents SET status = $1, reason = $2, updated_at = $3 WHERE id = $4",
		string(consent.Status), consent.Reason, consent.UpdatedAt, consent.ID,
	)
	if err != nil {
		return persistenceErr("update consent", err)
	}
	return expectAffected(tag, "consent", consent.ID)
}

// DeleteConsent removes a consent by ID.
func (q *queries) DeleteConsent(ctx context.Context, consentID string) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM consents WHERE id = $1", consentID)
	if err != nil {
		return persistenceErr("delete consent", err)
	}
	return expectAffected(tag, "consent", consentID)
}
