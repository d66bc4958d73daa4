package models

import "github.com/shopspring/decimal"

// ExpenseStatus is assigned at creation and not advanced by the ledger.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "Pending"
	ExpenseStatusApproved ExpenseStatus = "Approved"
	ExpenseStatusSettled  ExpenseStatus = "Settled"
)

// SplitType tags how an Involvement's share was derived.
// Only SplitTypeEqual is produced today; the others are reserved.
type SplitType string

const (
	SplitTypeEqual      SplitType = "Equal"
	SplitTypeCustom     SplitType = "Custom"
	SplitTypePercentage SplitType = "Percentage"
)

// ConsentStatus is a debtor's position on the share attributed to them.
type ConsentStatus string

const (
	ConsentRequired    ConsentStatus = "Required"
	ConsentPreApproved ConsentStatus = "Pre_Approved"
	ConsentApproved    ConsentStatus = "Approved"
	ConsentDisputed    ConsentStatus = "Disputed"
)

// Valid reports whether s is a known consent status.
func (s ConsentStatus) Valid() bool {
	switch s {
	case ConsentRequired, ConsentPreApproved, ConsentApproved, ConsentDisputed:
		return true
	}
	return false
}

// Pending reports whether the consent still awaits the debtor's decision.
// Pre_Approved behaves like Required until the debtor acts on it.
func (s ConsentStatus) Pending() bool {
	return s == ConsentRequired || s == ConsentPreApproved
}

// Expense is a single payment event within a trip.
// Amount is immutable after creation.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	TripID string
	Name   string

	// Amount is the full amount paid, always positive.
	Amount decimal.Decimal

	// PayerID is the user who paid. The payer's own share is implicit.
	PayerID string

	Status ExpenseStatus

	// IncurredAt is the Unix timestamp of when the money was spent.
	IncurredAt int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Involvement records one debtor's owed share of one expense.
type Involvement struct {
	ExpenseID   string
	DebtorID    string
	ShareAmount decimal.Decimal
	SplitType   SplitType
}

// Consent tracks a debtor's approval of their Involvement.
type Consent struct {
	ID        string
	ExpenseID string
	DebtorID  string
	Status    ConsentStatus

	// Reason is the optional explanation attached to a dispute.
	Reason string

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64
}

// ExpenseDetail is an expense together with everything it owns.
type ExpenseDetail struct {
	Expense
	Involvements []Involvement
	Consents     []Consent
}

// ConsentDetail is a consent joined with the expense context a debtor or
// payer needs to act on it.
type ConsentDetail struct {
	Consent
	TripID      string
	ExpenseName string
	Amount      decimal.Decimal
	PayerID     string
	ShareAmount decimal.Decimal
}
