package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const consentColumns = "id, expense_id, debtor_id, status, reason, updated_at"

// InsertConsents persists approval requests for the debtors of an expense.
func (q *queries) InsertConsents(ctx context.Context, consents []models.Consent) error {
	now := time.Now().Unix()
	for i := range consents {
		c := &consents[i]
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.UpdatedAt == 0 {
			c.UpdatedAt = now
		}

		_, err := q.db.ExecContext(ctx,
			"INSERT INTO consents ("+consentColumns+") VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, c.ExpenseID, c.DebtorID, c.Status, c.Reason, c.UpdatedAt,
		)
		if err != nil {
			return persistenceErr("insert consent", err)
		}
	}
	return nil
}

// GetConsent retrieves a consent by ID.
func (q *queries) GetConsent(ctx context.Context, consentID string) (*models.Consent, error) {
	c := &models.Consent{}
	err := q.db.QueryRowContext(ctx,
		"SELECT "+consentColumns+" FROM consents WHERE id = ?",
		consentID,
	).Scan(&c.ID, &c.ExpenseID, &c.DebtorID, &c.Status, &c.Reason, &c.UpdatedAt)
	if err != nil {
		return nil, scanErr(err, "consent", consentID)
	}
	return c, nil
}

// ListConsents retrieves every consent of one expense.
func (q *queries) ListConsents(ctx context.Context, expenseID string) ([]models.Consent, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+consentColumns+" FROM consents WHERE expense_id = ? ORDER BY debtor_id",
		expenseID,
	)
	if err != nil {
		return nil, persistenceErr("list consents", err)
	}
	defer rows.Close()

	var consents []models.Consent
	for rows.Next() {
		var c models.Consent
		if err := rows.Scan(&c.ID, &c.ExpenseID, &c.DebtorID, &c.Status, &c.Reason, &c.UpdatedAt); err != nil {
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
	where.WriteString("e.trip_id = ?")
	args := []any{tripID}

	if filter.DebtorID != "" {
		where.WriteString(" AND c.debtor_id = ?")
		args = append(args, filter.DebtorID)
	}
	if filter.PayerID != "" {
		where.WriteString(" AND e.payer_id = ?")
		args = append(args, filter.PayerID)
	}
	if len(filter.Statuses) > 0 {
		where.WriteString(" AND c.status IN (" + placeholders(len(filter.Statuses)) + ")")
		for _, s := range filter.Statuses {
			args = append(args, s)
		}
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT c.id, c.expense_id, c.debtor_id, c.status, c.reason, c.updated_at,
		        e.trip_id, e.name, e.amount, e.payer_id, i.share_amount
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
		var cd models.ConsentDetail
		if err := rows.Scan(
			&cd.ID, &cd.ExpenseID, &cd.DebtorID, &cd.Status, &cd.Reason, &cd.UpdatedAt,
			&cd.TripID, &cd.ExpenseName, &cd.Amount, &cd.PayerID, &cd.ShareAmount,
		); err != nil {
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
	res, err := q.db.ExecContext(ctx,
		"UPDATE consents SET status = ?, reason = ?, updated_at = ? WHERE id = ?",
		consent.Status, consent.Reason, consent.UpdatedAt, consent.ID,
	)
	if err != nil {
		return persistenceErr("update consent", err)
	}
	return expectAffected(res, "consent", consent.ID)
}

// DeleteConsent removes a consent by ID.
func (q *queries) DeleteConsent(ctx context.Context, consentID string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM consents WHERE id = ?", consentID)
	if err != nil {
		return persistenceErr("delete consent", err)
	}
	return expectAffected(res, "consent", consentID)
}
