package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EqualShare computes one debtor's share of an expense split equally between
// the payer and debtorCount debtors. The payer's own share is implicit, so the
// headcount is always debtorCount + 1.
//
// Every code path that writes or derives a share goes through this function so
// stored shares and recomputed shares never drift apart.
func EqualShare(amount decimal.Decimal, debtorCount int) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive, got %s", amount)
	}
	if debtorCount < 1 {
		return decimal.Zero, fmt.Errorf("must have at least one debtor")
	}
	return amount.Div(decimal.NewFromInt(int64(debtorCount) + 1)), nil
}
