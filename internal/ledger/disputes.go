package ledger

import (
	"context"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// loadDispute fetches a consent and its expense, checking that payerID paid
// the expense and that the consent is disputed.
func loadDispute(ctx context.Context, q storage.Queries, consentID, payerID string) (*models.Consent, *models.Expense, error) {
	c, err := q.GetConsent(ctx, consentID)
	if err != nil {
		return nil, nil, err
	}
	e, err := q.GetExpense(ctx, c.ExpenseID)
	if err != nil {
		return nil, nil, err
	}
	if e.PayerID != payerID {
		return nil, nil, permissionErr("only the payer of expense %s can resolve its disputes", e.ID)
	}
	if c.Status != models.ConsentDisputed {
		return nil, nil, conflictErr("consent %s is %s, not %s", consentID, c.Status, models.ConsentDisputed)
	}
	return c, e, nil
}

// recomputeShares rewrites every remaining share of e with the equal split.
// An expense with no debtors left keeps no involvements and needs no update.
func recomputeShares(ctx context.Context, q storage.Queries, e *models.Expense) error {
	remaining, err := q.ListInvolvements(ctx, e.ID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}
	share, err := calculator.EqualShare(e.Amount, len(remaining))
	if err != nil {
		return validationErr("%v", err)
	}
	return q.UpdateShares(ctx, e.ID, share)
}

// RemoveDebtor accepts a dispute: the debtor's consent and involvement are
// deleted and the remaining debtors' shares are recomputed.
func (l *Ledger) RemoveDebtor(ctx context.Context, consentID, payerID string) error {
	if consentID == "" || payerID == "" {
		return validationErr("consent_id and payer_id are required")
	}
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		c, e, err := loadDispute(ctx, q, consentID, payerID)
		if err != nil {
			return err
		}
		if err := q.DeleteConsent(ctx, c.ID); err != nil {
			return err
		}
		if err := q.DeleteInvolvement(ctx, e.ID, c.DebtorID); err != nil {
			return err
		}
		return recomputeShares(ctx, q, e)
	})
	if err != nil {
		return err
	}
	metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRemoved).Inc()
	return nil
}

// RejectDispute overrules a dispute: the consent goes back to Required and the
// debtor's share is left as it was.
func (l *Ledger) RejectDispute(ctx context.Context, consentID, payerID string) error {
	if consentID == "" || payerID == "" {
		return validationErr("consent_id and payer_id are required")
	}
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		c, _, err := loadDispute(ctx, q, consentID, payerID)
		if err != nil {
			return err
		}
		c.Status = models.ConsentRequired
		c.Reason = ""
		c.UpdatedAt = l.now().Unix()
		return q.UpdateConsentStatus(ctx, c)
	})
	if err != nil {
		return err
	}
	metrics.DisputesResolved.WithLabelValues(metrics.OutcomeRejected).Inc()
	return nil
}

// ReAddDebtor attaches debtorID to an expense paid by payerID, with a fresh
// Required consent, and recomputes every share.
func (l *Ledger) ReAddDebtor(ctx context.Context, expenseID, debtorID, payerID string) error {
	if expenseID == "" || debtorID == "" || payerID == "" {
		return validationErr("expense_id, debtor_id and payer_id are required")
	}
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		e, err := q.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if e.PayerID != payerID {
			return permissionErr("only the payer of expense %s can add debtors", expenseID)
		}
		if debtorID == e.PayerID {
			return validationErr("payer %s cannot also be a debtor", debtorID)
		}
		if _, err := requireActiveTrip(ctx, q, e.TripID); err != nil {
			return err
		}
		if err := requireActiveMember(ctx, q, e.TripID, debtorID); err != nil {
			return err
		}

		existing, err := q.ListInvolvements(ctx, expenseID)
		if err != nil {
			return err
		}
		for _, inv := range existing {
			if inv.DebtorID == debtorID {
				return conflictErr("user %s is already a debtor of expense %s", debtorID, expenseID)
			}
		}

		share, err := calculator.EqualShare(e.Amount, len(existing)+1)
		if err != nil {
			return validationErr("%v", err)
		}
		err = q.InsertInvolvements(ctx, []models.Involvement{{
			ExpenseID:   expenseID,
			DebtorID:    debtorID,
			ShareAmount: share,
			SplitType:   models.SplitTypeEqual,
		}})
		if err != nil {
			return err
		}
		err = q.InsertConsents(ctx, []models.Consent{{
			ExpenseID: expenseID,
			DebtorID:  debtorID,
			Status:    models.ConsentRequired,
			UpdatedAt: l.now().Unix(),
		}})
		if err != nil {
			return err
		}
		return q.UpdateShares(ctx, expenseID, share)
	})
	if err != nil {
		return err
	}
	metrics.DebtorsReAdded.Inc()
	return nil
}

// ListDisputes returns the disputed consents on expenses payerID paid in a trip.
func (l *Ledger) ListDisputes(ctx context.Context, tripID, payerID string) ([]models.ConsentDetail, error) {
	return l.store.ListConsentsByTrip(ctx, tripID, storage.ConsentFilter{
		PayerID:  payerID,
		Statuses: []models.ConsentStatus{models.ConsentDisputed},
	})
}
