package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Epsilon is the residue below which a balance is treated as settled.
var Epsilon = decimal.New(1, -2)

// InvolvementForBalance is one debtor's recorded share of an expense.
type InvolvementForBalance struct {
	DebtorID    string
	ShareAmount decimal.Decimal
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	PayerID      string
	Amount       decimal.Decimal
	Involvements []InvolvementForBalance
}

// MemberBalance represents the balance information for one trip member.
type MemberBalance struct {
	UserID     string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across all expenses
	TotalOwed  decimal.Decimal // Total of this member's own shares, implicit payer shares included
}

// DebtEdge represents a suggested transfer from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// CalculateTripBalances computes every member's trip-wide net balance.
//
// Algorithm:
// - Payer contributed +amount and implicitly owes amount minus the other shares
// - Each debtor owes their recorded share
// - net_balance = total_paid - total_owed
//
// Consent status is not consulted: Required and Disputed shares count the same
// as Approved ones. members seeds zero balances so every member is reported;
// anyone appearing only in expenses is added too. The result is sorted by user ID.
func CalculateTripBalances(expenses []ExpenseForBalance, members []string) []MemberBalance {
	balances := make(map[string]*MemberBalance, len(members))
	get := func(userID string) *MemberBalance {
		bal, ok := balances[userID]
		if !ok {
			bal = &MemberBalance{UserID: userID}
			balances[userID] = bal
		}
		return bal
	}
	for _, m := range members {
		get(m)
	}

	for _, e := range expenses {
		if e.PayerID == "" {
			continue
		}
		payer := get(e.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(e.Amount)

		owedByOthers := decimal.Zero
		for _, inv := range e.Involvements {
			debtor := get(inv.DebtorID)
			debtor.TotalOwed = debtor.TotalOwed.Add(inv.ShareAmount)
			owedByOthers = owedByOthers.Add(inv.ShareAmount)
		}
		payer.TotalOwed = payer.TotalOwed.Add(e.Amount.Sub(owedByOthers))
	}

	out := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		out = append(out, *bal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// BalanceOf returns the net balance for userID, or zero if they have none.
func BalanceOf(balances []MemberBalance, userID string) decimal.Decimal {
	for _, b := range balances {
		if b.UserID == userID {
			return b.NetBalance
		}
	}
	return decimal.Zero
}

// CalculatePeerBalance computes what b owes a across the given expenses.
// A positive result means b owes a; a negative one means a owes b.
//
// Only expenses paid by a or b contribute. The share is recomputed from the
// amount and the number of involvements with EqualShare, and expenses without
// involvements are skipped. CalculatePeerBalance(x, a, b) is always the
// negation of CalculatePeerBalance(x, b, a).
func CalculatePeerBalance(expenses []ExpenseForBalance, a, b string) (decimal.Decimal, error) {
	net := decimal.Zero
	if a == b {
		return net, nil
	}
	for _, e := range expenses {
		if e.PayerID != a && e.PayerID != b {
			continue
		}
		if len(e.Involvements) == 0 {
			continue
		}
		share, err := EqualShare(e.Amount, len(e.Involvements))
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to calculate share: %w", err)
		}

		switch e.PayerID {
		case a:
			if involves(e, b) {
				net = net.Add(share) // b owes a
			}
		case b:
			if involves(e, a) {
				net = net.Sub(share) // a owes b
			}
		}
	}
	return net, nil
}

func involves(e ExpenseForBalance, userID string) bool {
	for _, inv := range e.Involvements {
		if inv.DebtorID == userID {
			return true
		}
	}
	return false
}

// SimplifyDebts turns net balances into a short list of suggested transfers.
//
// Greedy algorithm: match the largest debtor with the largest creditor, settle
// the smaller of the two amounts, and move on once either side is within
// Epsilon of zero. Suggestions are informational; nothing is paid.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	var creditors, debtors []MemberBalance
	for _, bal := range balances {
		if bal.NetBalance.GreaterThan(Epsilon) {
			creditors = append(creditors, bal)
		} else if bal.NetBalance.LessThan(Epsilon.Neg()) {
			debtors = append(debtors, bal)
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].NetBalance.GreaterThan(creditors[j].NetBalance)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].NetBalance.LessThan(debtors[j].NetBalance)
	})

	debtorBalance := make(map[string]decimal.Decimal, len(debtors))
	creditorBalance := make(map[string]decimal.Decimal, len(creditors))
	for _, d := range debtors {
		debtorBalance[d.UserID] = d.NetBalance.Neg() // Make positive
	}
	for _, c := range creditors {
		creditorBalance[c.UserID] = c.NetBalance
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].UserID
		creditor := creditors[j].UserID

		amount := decimal.Min(debtorBalance[debtor], creditorBalance[creditor])
		if amount.GreaterThan(Epsilon) {
			edges = append(edges, DebtEdge{From: debtor, To: creditor, Amount: amount})
		}

		debtorBalance[debtor] = debtorBalance[debtor].Sub(amount)
		creditorBalance[creditor] = creditorBalance[creditor].Sub(amount)

		if debtorBalance[debtor].LessThan(Epsilon) {
			i++
		}
		if creditorBalance[creditor].LessThan(Epsilon) {
			j++
		}
	}
	return edges
}
