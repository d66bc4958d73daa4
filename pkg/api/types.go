// Package api defines the request and response messages of the tripsplit.v1
// Connect services. The messages are hand-written Go structs, not protoc
// output, and travel as JSON through JSONCodec. Monetary fields are decimal
// strings on the wire.
package api

import "github.com/shopspring/decimal"

type Trip struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	CreatorID string `json:"creator_id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type Member struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname,omitempty"`
	Active   bool   `json:"active"`
	JoinedAt int64  `json:"joined_at"`
}

type Expense struct {
	ID         string          `json:"id"`
	TripID     string          `json:"trip_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	PayerID    string          `json:"payer_id"`
	Status     string          `json:"status"`
	IncurredAt int64           `json:"incurred_at"`
	CreatedAt  int64           `json:"created_at"`

	// Involvements and Consents are only populated by GetExpense.
	Involvements []Involvement `json:"involvements,omitempty"`
	Consents     []Consent     `json:"consents,omitempty"`
}

type Involvement struct {
	DebtorID    string          `json:"debtor_id"`
	ShareAmount decimal.Decimal `json:"share_amount"`
	SplitType   string          `json:"split_type"`
}

type Consent struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expense_id"`
	DebtorID  string `json:"debtor_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

// ConsentItem is a consent with the expense context needed to act on it.
type ConsentItem struct {
	Consent
	TripID      string          `json:"trip_id"`
	ExpenseName string          `json:"expense_name"`
	Amount      decimal.Decimal `json:"amount"`
	PayerID     string          `json:"payer_id"`
	ShareAmount decimal.Decimal `json:"share_amount"`
}

type MemberBalance struct {
	UserID     string          `json:"user_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
}

// Settlement is a suggested transfer; nothing is paid by the server.
type Settlement struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// TripService messages.

type CreateTripRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type CreateTripResponse struct {
	Trip Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip    Trip     `json:"trip"`
	Members []Member `json:"members"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

type ArchiveTripRequest struct {
	TripID string `json:"trip_id"`
}

type ArchiveTripResponse struct{}

type AddMemberRequest struct {
	TripID   string `json:"trip_id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname,omitempty"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

type ListMembersRequest struct {
	TripID string `json:"trip_id"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

// MembershipRequest targets one membership. An empty UserID means the caller.
type MembershipRequest struct {
	TripID string `json:"trip_id"`
	UserID string `json:"user_id,omitempty"`
}

type MembershipResponse struct{}

type GetTripBalancesRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripBalancesResponse struct {
	Balances    []MemberBalance `json:"balances"`
	Settlements []Settlement    `json:"settlements"`
}

type GetPeerBalanceRequest struct {
	TripID string `json:"trip_id"`
	UserA  string `json:"user_a"`
	UserB  string `json:"user_b"`
}

// GetPeerBalanceResponse carries what UserB owes UserA; negative means UserA owes UserB.
type GetPeerBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// ExpenseService messages.

type CreateExpenseRequest struct {
	TripID string          `json:"trip_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`

	// PayerID defaults to the caller.
	PayerID   string   `json:"payer_id,omitempty"`
	DebtorIDs []string `json:"debtor_ids"`

	// IncurredAt is a Unix timestamp; zero means now.
	IncurredAt int64 `json:"incurred_at,omitempty"`
}

type CreateExpenseResponse struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`

	// OnlyMine limits the list to expenses the caller paid or owes a share of.
	OnlyMine bool `json:"only_mine,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type SetConsentRequest struct {
	ConsentID string `json:"consent_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type SetConsentResponse struct {
	Consent Consent `json:"consent"`
}

type ListConsentsRequest struct {
	TripID string `json:"trip_id"`
}

type ListConsentsResponse struct {
	Consents []ConsentItem `json:"consents"`
}

// ResolveDisputeRequest identifies the disputed consent a payer acts on.
type ResolveDisputeRequest struct {
	ConsentID string `json:"consent_id"`
}

type ResolveDisputeResponse struct{}

type ReAddDebtorRequest struct {
	ExpenseID string `json:"expense_id"`
	DebtorID  string `json:"debtor_id"`
}

type ReAddDebtorResponse struct{}
