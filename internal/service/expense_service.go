package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates a new ExpenseService backed by the given ledger.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// CreateExpense records an expense. The payer defaults to the caller, who
// must be an active member of the trip.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	in := ledger.CreateExpenseInput{
		TripID:    req.Msg.TripID,
		PayerID:   req.Msg.PayerID,
		Name:      req.Msg.Name,
		Amount:    req.Msg.Amount,
		DebtorIDs: req.Msg.DebtorIDs,
	}
	if in.PayerID == "" {
		in.PayerID = userID
	}
	if req.Msg.IncurredAt != 0 {
		in.IncurredAt = time.Unix(req.Msg.IncurredAt, 0)
	}

	slog.Debug("Creating expense",
		"trip_id", in.TripID,
		"payer_id", in.PayerID,
		"amount", in.Amount,
		"debtors", in.DebtorIDs,
	)
	expenseID, err := s.ledger.CreateExpense(ctx, in)
	if err != nil {
		slog.Error("CreateExpense failed", "trip_id", in.TripID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Expense created", "trip_id", in.TripID, "expense_id", expenseID, "debtors", len(in.DebtorIDs))
	return connect.NewResponse(&api.CreateExpenseResponse{ExpenseID: expenseID}), nil
}

// GetExpense returns an expense with its involvements and consents. Callers
// outside the expense's trip get NotFound, the same as for a missing ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	detail, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	if _, err := requireMember(ctx, s.ledger, detail.TripID); err != nil {
		if connect.CodeOf(err) == connect.CodePermissionDenied {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("expense %s not found", req.Msg.ExpenseID))
		}
		return nil, err
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseDetailToAPI(detail)}), nil
}

// ListExpenses returns a trip's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	var expenses []*models.Expense
	if req.Msg.OnlyMine {
		expenses, err = s.ledger.ListExpensesForUser(ctx, req.Msg.TripID, userID)
	} else {
		expenses, err = s.ledger.ListExpenses(ctx, req.Msg.TripID)
	}
	if err != nil {
		slog.Error("ListExpenses failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// SetConsent approves or disputes the caller's share of an expense.
func (s *ExpenseService) SetConsent(ctx context.Context, req *connect.Request[api.SetConsentRequest]) (*connect.Response[api.SetConsentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	consent, err := s.ledger.SetConsent(ctx, req.Msg.ConsentID, userID, models.ConsentStatus(req.Msg.Status), req.Msg.Reason)
	if err != nil {
		slog.Warn("SetConsent failed", "consent_id", req.Msg.ConsentID, "status", req.Msg.Status, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Consent updated", "consent_id", consent.ID, "expense_id", consent.ExpenseID, "status", consent.Status)
	return connect.NewResponse(&api.SetConsentResponse{Consent: consentToAPI(consent)}), nil
}

// ListPendingConsents returns the caller's consents in a trip still awaiting a decision.
func (s *ExpenseService) ListPendingConsents(ctx context.Context, req *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	consents, err := s.ledger.ListPendingConsents(ctx, req.Msg.TripID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListConsentsResponse{Consents: consentItemsToAPI(consents)}), nil
}

// ListDisputes returns the disputes raised on expenses the caller paid.
func (s *ExpenseService) ListDisputes(ctx context.Context, req *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	consents, err := s.ledger.ListDisputes(ctx, req.Msg.TripID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListConsentsResponse{Consents: consentItemsToAPI(consents)}), nil
}

// RemoveDebtor accepts a dispute on an expense the caller paid.
func (s *ExpenseService) RemoveDebtor(ctx context.Context, req *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RemoveDebtor(ctx, req.Msg.ConsentID, userID); err != nil {
		slog.Warn("RemoveDebtor failed", "consent_id", req.Msg.ConsentID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Debtor removed", "consent_id", req.Msg.ConsentID, "payer_id", userID)
	return connect.NewResponse(&api.ResolveDisputeResponse{}), nil
}

// RejectDispute overrules a dispute on an expense the caller paid.
func (s *ExpenseService) RejectDispute(ctx context.Context, req *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RejectDispute(ctx, req.Msg.ConsentID, userID); err != nil {
		slog.Warn("RejectDispute failed", "consent_id", req.Msg.ConsentID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Dispute rejected", "consent_id", req.Msg.ConsentID, "payer_id", userID)
	return connect.NewResponse(&api.ResolveDisputeResponse{}), nil
}

// ReAddDebtor attaches a member to an expense the caller paid.
func (s *ExpenseService) ReAddDebtor(ctx context.Context, req *connect.Request[api.ReAddDebtorRequest]) (*connect.Response[api.ReAddDebtorResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.ReAddDebtor(ctx, req.Msg.ExpenseID, req.Msg.DebtorID, userID); err != nil {
		slog.Warn("ReAddDebtor failed", "expense_id", req.Msg.ExpenseID, "debtor_id", req.Msg.DebtorID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Debtor re-added", "expense_id", req.Msg.ExpenseID, "debtor_id", req.Msg.DebtorID)
	return connect.NewResponse(&api.ReAddDebtorResponse{}), nil
}
