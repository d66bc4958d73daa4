package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrValidation marks bad or missing input.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks a caller acting on something they do not own.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound marks a referenced trip, membership, expense or consent that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOutstandingBalance marks a membership change blocked by a non-zero balance.
	ErrOutstandingBalance = errors.New("outstanding balance")

	// ErrConflict marks a state transition that is not allowed from the current state.
	ErrConflict = errors.New("conflict")

	// ErrPersistence marks a storage failure. The enclosing transaction was rolled back.
	ErrPersistence = errors.New("persistence error")
)

// OutstandingBalanceError is returned when a member cannot leave a trip
// because they still owe or are owed money.
type OutstandingBalanceError struct {
	TripID  string
	UserID  string
	Balance decimal.Decimal
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("%s: user %s has balance %s in trip %s",
		ErrOutstandingBalance, e.UserID, e.Balance.StringFixed(2), e.TripID)
}

func (e *OutstandingBalanceError) Unwrap() error {
	return ErrOutstandingBalance
}
