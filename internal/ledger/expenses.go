package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/metrics"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// CreateExpenseInput describes a new expense.
type CreateExpenseInput struct {
	TripID    string
	PayerID   string
	Name      string
	Amount    decimal.Decimal
	DebtorIDs []string

	// IncurredAt defaults to the creation time when zero.
	IncurredAt time.Time
}

func (in CreateExpenseInput) validate() error {
	if in.TripID == "" {
		return validationErr("trip_id is required")
	}
	if in.PayerID == "" {
		return validationErr("payer_id is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return validationErr("name is required")
	}
	if !in.Amount.IsPositive() {
		return validationErr("amount must be positive, got %s", in.Amount)
	}
	if len(in.DebtorIDs) == 0 {
		return validationErr("at least one debtor is required")
	}

	seen := make(map[string]bool, len(in.DebtorIDs))
	for _, d := range in.DebtorIDs {
		switch {
		case d == "":
			return validationErr("debtor_ids must not contain empty IDs")
		case d == in.PayerID:
			return validationErr("payer %s cannot also be a debtor", d)
		case seen[d]:
			return validationErr("debtor %s is listed twice", d)
		}
		seen[d] = true
	}
	return nil
}

// CreateExpense records an expense paid by in.PayerID and owed in equal shares
// by in.DebtorIDs. The expense is tagged Approved on creation; per-debtor
// agreement is tracked on the consents. The expense, one Equal involvement per
// debtor and one Required consent per debtor are written in a single
// transaction. It returns the new expense ID.
func (l *Ledger) CreateExpense(ctx context.Context, in CreateExpenseInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	share, err := calculator.EqualShare(in.Amount, len(in.DebtorIDs))
	if err != nil {
		return "", validationErr("%v", err)
	}

	now := l.now()
	expense := &models.Expense{
		TripID:    in.TripID,
		Name:      strings.TrimSpace(in.Name),
		Amount:    in.Amount,
		PayerID:   in.PayerID,
		Status:    models.ExpenseStatusApproved,
		CreatedAt: now.Unix(),
	}
	if !in.IncurredAt.IsZero() {
		expense.IncurredAt = in.IncurredAt.Unix()
	}

	err = l.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := requireActiveTrip(ctx, q, in.TripID); err != nil {
			return err
		}
		if err := requireActiveMember(ctx, q, in.TripID, in.PayerID); err != nil {
			return err
		}
		for _, d := range in.DebtorIDs {
			if err := requireActiveMember(ctx, q, in.TripID, d); err != nil {
				return err
			}
		}

		if err := q.InsertExpense(ctx, expense); err != nil {
			return err
		}

		involvements := make([]models.Involvement, len(in.DebtorIDs))
		consents := make([]models.Consent, len(in.DebtorIDs))
		for i, d := range in.DebtorIDs {
			involvements[i] = models.Involvement{
				ExpenseID:   expense.ID,
				DebtorID:    d,
				ShareAmount: share,
				SplitType:   models.SplitTypeEqual,
			}
			consents[i] = models.Consent{
				ExpenseID: expense.ID,
				DebtorID:  d,
				Status:    models.ConsentRequired,
				UpdatedAt: now.Unix(),
			}
		}
		if err := q.InsertInvolvements(ctx, involvements); err != nil {
			return err
		}
		return q.InsertConsents(ctx, consents)
	})
	if err != nil {
		return "", err
	}

	metrics.ExpensesCreated.Inc()
	return expense.ID, nil
}

// GetExpense returns an expense with its involvements and consents.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.ExpenseDetail, error) {
	if expenseID == "" {
		return nil, validationErr("expense_id is required")
	}
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	involvements, err := l.store.ListInvolvements(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	consents, err := l.store.ListConsents(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return &models.ExpenseDetail{
		Expense:      *expense,
		Involvements: involvements,
		Consents:     consents,
	}, nil
}

// ListExpenses returns a trip's expenses, most recently incurred first.
func (l *Ledger) ListExpenses(ctx context.Context, tripID string) ([]*models.Expense, error) {
	if _, err := l.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByTrip(ctx, tripID)
}

// ListExpensesForUser returns the expenses of a trip that userID paid for or
// owes a share of. Each expense appears once.
func (l *Ledger) ListExpensesForUser(ctx context.Context, tripID, userID string) ([]*models.Expense, error) {
	expenses, err := l.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, err
	}
	involvements, err := l.store.ListInvolvementsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	owes := make(map[string]bool)
	for _, inv := range involvements {
		if inv.DebtorID == userID {
			owes[inv.ExpenseID] = true
		}
	}

	var mine []*models.Expense
	for _, e := range expenses {
		if e.PayerID == userID || owes[e.ID] {
			mine = append(mine, e)
		}
	}
	return mine, nil
}
