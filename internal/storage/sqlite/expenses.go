package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

const expenseColumns = "id, trip_id, name, amount, payer_id, status, incurred_at, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.TripID, &e.Name, &e.Amount, &e.PayerID, &e.Status, &e.IncurredAt, &e.CreatedAt)
	return e, err
}

// InsertExpense persists a new expense row.
func (q *queries) InsertExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.IncurredAt == 0 {
		expense.IncurredAt = expense.CreatedAt
	}

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.TripID, expense.Name, expense.Amount.String(), expense.PayerID,
		expense.Status, expense.IncurredAt, expense.CreatedAt,
	)
	if err != nil {
		return persistenceErr("insert expense", err)
	}
	return nil
}

// GetExpense retrieves an expense row by ID.
func (q *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(q.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	))
	if err != nil {
		return nil, scanErr(err, "expense", expenseID)
	}
	return e, nil
}

// ListExpensesByTrip retrieves all expenses for a trip, most recently incurred first.
func (q *queries) ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE trip_id = ? ORDER BY incurred_at DESC, created_at DESC, id",
		tripID,
	)
	if err != nil {
		return nil, persistenceErr("list expenses", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, persistenceErr("scan expense", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate expenses", err)
	}
	return expenses, nil
}

// InsertInvolvements persists the debts of an expense.
func (q *queries) InsertInvolvements(ctx context.Context, involvements []models.Involvement) error {
	for _, inv := range involvements {
		_, err := q.db.ExecContext(ctx,
			"INSERT INTO involvements (expense_id, debtor_id, share_amount, split_type) VALUES (?, ?, ?, ?)",
			inv.ExpenseID, inv.DebtorID, inv.ShareAmount.String(), inv.SplitType,
		)
		if err != nil {
			return persistenceErr("insert involvement", err)
		}
	}
	return nil
}

// ListInvolvements retrieves the debts recorded on one expense.
func (q *queries) ListInvolvements(ctx context.Context, expenseID string) ([]models.Involvement, error) {
	return q.listInvolvements(ctx,
		`SELECT expense_id, debtor_id, share_amount, split_type
		 FROM involvements WHERE expense_id = ? ORDER BY debtor_id`,
		expenseID,
	)
}

// ListInvolvementsByTrip retrieves the debts recorded on every expense of a trip.
func (q *queries) ListInvolvementsByTrip(ctx context.Context, tripID string) ([]models.Involvement, error) {
	return q.listInvolvements(ctx,
		`SELECT i.expense_id, i.debtor_id, i.share_amount, i.split_type
		 FROM involvements i
		 JOIN expenses e ON e.id = i.expense_id
		 WHERE e.trip_id = ?
		 ORDER BY i.expense_id, i.debtor_id`,
		tripID,
	)
}

func (q *queries) listInvolvements(ctx context.Context, query string, args ...any) ([]models.Involvement, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("list involvements", err)
	}
	defer rows.Close()

	var involvements []models.Involvement
	for rows.Next() {
		var inv models.Involvement
		if err := rows.Scan(&inv.ExpenseID, &inv.DebtorID, &inv.ShareAmount, &inv.SplitType); err != nil {
			return nil, persistenceErr("scan involvement", err)
		}
		involvements = append(involvements, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("iterate involvements", err)
	}
	return involvements, nil
}

// DeleteInvolvement removes one debtor from an expense. The matching consent
// is removed with it.
func (q *queries) DeleteInvolvement(ctx context.Context, expenseID, debtorID string) error {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM involvements WHERE expense_id = ? AND debtor_id = ?",
		expenseID, debtorID,
	)
	if err != nil {
		return persistenceErr("delete involvement", err)
	}
	return expectAffected(res, "involvement", expenseID+"/"+debtorID)
}

// UpdateShares overwrites the share of every remaining debtor of an expense.
func (q *queries) UpdateShares(ctx context.Context, expenseID string, share decimal.Decimal) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE involvements SET share_amount = ? WHERE expense_id = ?",
		share.String(), expenseID,
	)
	if err != nil {
		return persistenceErr("update shares", err)
	}
	return nil
}
