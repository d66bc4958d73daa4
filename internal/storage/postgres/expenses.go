package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

const expenseColumns = "id, trip_id, name, amount::text, payer_id, status, incurred_at, created_at"

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var (
		e              models.Expense
		amount, status string
	)
	if err := row.Scan(&e.ID, &e.TripID, &e.Name, &amount, &e.PayerID, &status, &e.IncurredAt, &e.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	e.Status = models.ExpenseStatus(status)
	return &e, nil
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

	_, err := q.db.Exec(ctx,
		`INSERT INTO expenses (id, trip_id, name, amount, payer_id, status, incurred_at, created_at)
		 VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8)`,
		expense.ID, expense.TripID, expense.Name, expense.Amount.String(), expense.PayerID,
		string(expense.Status), expense.IncurredAt, expense.CreatedAt,
	)
	if err != nil {
		return persistenceErr("insert expense", err)
	}
	return nil
}

// GetExpense retrieves an expense row by ID.
func (q *queries) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(q.db.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1",
		expenseID,
	))
	if err != nil {
		return nil, scanErr(err, "expense", expenseID)
	}
	return e, nil
}

// ListExpensesByTrip retrieves all expenses for a trip, most recently incurred first.
func (q *queries) ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	rows, err := q.db.Query(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE trip_id = $1 ORDER BY incurred_at DESC, created_at DESC, id",
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

// InsertInvolvements persists the debts of an expense in one round trip.
func (q *queries) InsertInvolvements(ctx context.Context, involvements []models.Involvement) error {
	batch := &pgx.Batch{}
	for _, inv := range involvements {
		batch.Queue(
			`INSERT INTO involvements (expense_id, debtor_id, share_amount, split_type)
			 VALUES ($1, $2, $3::text::numeric, $4)`,
			inv.ExpenseID, inv.DebtorID, inv.ShareAmount.String(), string(inv.SplitType),
		)
	}
	return q.sendBatch(ctx, batch, "insert involvement")
}

// ListInvolvements retrieves the debts recorded on one expense.
func (q *queries) ListInvolvements(ctx context.Context, expenseID string) ([]models.Involvement, error) {
	return q.listInvolvements(ctx,
		`SELECT expense_id, debtor_id, share_amount::text, split_type
		 FROM involvements WHERE expense_id = $1 ORDER BY debtor_id`,
		expenseID,
	)
}

// ListInvolvementsByTrip retrieves the debts recorded on every expense of a trip.
func (q *queries) ListInvolvementsByTrip(ctx context.Context, tripID string) ([]models.Involvement, error) {
	return q.listInvolvements(ctx,
		`SELECT i.expense_id, i.debtor_id, i.share_amount::text, i.split_type
		 FROM involvements i
		 JOIN expenses e ON e.id = i.expense_id
		 WHERE e.trip_id = $1
		 ORDER BY i.expense_id, i.debtor_id`,
		tripID,
	)
}

func (q *queries) listInvolvements(ctx context.Context, query string, args ...any) ([]models.Involvement, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("list involvements", err)
	}
	defer rows.Close()

	var involvements []models.Involvement
	for rows.Next() {
		var (
			inv              models.Involvement
			share, splitType string
		)
		if err := rows.Scan(&inv.ExpenseID, &inv.DebtorID, &share, &splitType); err != nil {
			return nil, persistenceErr("scan involvement", err)
		}
		if inv.ShareAmount, err = parseAmount(share); err != nil {
			return nil, persistenceErr("scan involvement", err)
		}
		inv.SplitType = models.SplitType(splitType)
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
	tag, err := q.db.Exec(ctx,
		"DELETE FROM involvements WHERE expense_id = $1 AND debtor_id = $2",
		expenseID, debtorID,
	)
	if err != nil {
		return persistenceErr("delete involvement", err)
	}
	return expectAffected(tag, "involvement", expenseID+"/"+debtorID)
}

// UpdateShares overwrites the share of every remaining debtor of an expense.
func (q *queries) UpdateShares(ctx context.Context, expenseID string, share decimal.Decimal) error {
	_, err := q.db.Exec(ctx,
		"UPDATE involvements SET share_amount = $1::text::numeric WHERE expense_id = $2",
		share.String(), expenseID,
	)
	if err != nil {
		return persistenceErr("update shares", err)
	}
	return nil
}
