package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// checkDebtorTransition reports whether a debtor may move a consent from
// current to next. Debtors may only approve or dispute a pending consent.
// Approved is terminal, and the payer alone decides what happens to a dispute.
func checkDebtorTransition(current, next models.ConsentStatus) error {
	if next != models.ConsentApproved && next != models.ConsentDisputed {
		return validationErr("status must be %s or %s, got %q", models.ConsentApproved, models.ConsentDisputed, next)
	}
	switch {
	case current.Pending():
		return nil
	case current == models.ConsentApproved:
		return conflictErr("consent is already %s", current)
	case current == models.ConsentDisputed && next == models.ConsentDisputed:
		return conflictErr("consent is already %s", current)
	default:
		return conflictErr("cannot move consent from %s to %s", current, next)
	}
}

// SetConsent records the debtor's decision on their share of an expense.
// Only the debtor the consent belongs to may call it. reason is kept only for
// disputes.
func (l *Ledger) SetConsent(ctx context.Context, consentID, debtorID string, status models.ConsentStatus, reason string) (*models.Consent, error) {
	if consentID == "" || debtorID == "" {
		return nil, validationErr("consent_id and debtor_id are required")
	}
	if !status.Valid() {
		return nil, validationErr("unknown consent status %q", status)
	}

	var consent *models.Consent
	err := l.store.InTx(ctx, func(q storage.Queries) error {
		c, err := q.GetConsent(ctx, consentID)
		if err != nil {
			return err
		}
		if c.DebtorID != debtorID {
			return permissionErr("consent %s belongs to another debtor", consentID)
		}
		if err := checkDebtorTransition(c.Status, status); err != nil {
			return err
		}

		c.Status = status
		c.Reason = ""
		if status == models.ConsentDisputed {
			c.Reason = strings.TrimSpace(reason)
		}
		c.UpdatedAt = l.now().Unix()
		if err := q.UpdateConsentStatus(ctx, c); err != nil {
			return err
		}
		consent = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ConsentTransitions.WithLabelValues(string(status)).Inc()
	return consent, nil
}

// ListPendingConsents returns the consents in a trip still awaiting debtorID's decision.
func (l *Ledger) ListPendingConsents(ctx context.Context, tripID, debtorID string) ([]models.ConsentDetail, error) {
	return l.store.ListConsentsByTrip(ctx, tripID, storage.ConsentFilter{
		DebtorID: debtorID,
		Statuses: []models.ConsentStatus{models.ConsentRequired, models.ConsentPreApproved},
	})
}
