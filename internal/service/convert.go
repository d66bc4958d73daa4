package service

import (
	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/pkg/api"
)

func tripToAPI(t *models.Trip) api.Trip {
	return api.Trip{
		ID:        t.ID,
		Name:      t.Name,
		Currency:  t.Currency,
		CreatorID: t.CreatorID,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

func membersToAPI(ms []*models.Membership) []api.Member {
	out := make([]api.Member, len(ms))
	for i, m := range ms {
		out[i] = memberToAPI(m)
	}
	return out
}

func memberToAPI(m *models.Membership) api.Member {
	return api.Member{
		UserID:   m.UserID,
		Nickname: m.Nickname,
		Active:   m.Active,
		JoinedAt: m.JoinedAt,
	}
}

func expenseToAPI(e *models.Expense) api.Expense {
	return api.Expense{
		ID:         e.ID,
		TripID:     e.TripID,
		Name:       e.Name,
		Amount:     e.Amount,
		PayerID:    e.PayerID,
		Status:     string(e.Status),
		IncurredAt: e.IncurredAt,
		CreatedAt:  e.CreatedAt,
	}
}

func expenseDetailToAPI(d *models.ExpenseDetail) api.Expense {
	out := expenseToAPI(&d.Expense)
	out.Involvements = make([]api.Involvement, len(d.Involvements))
	for i, inv := range d.Involvements {
		out.Involvements[i] = api.Involvement{
			DebtorID:    inv.DebtorID,
			ShareAmount: inv.ShareAmount,
			SplitType:   string(inv.SplitType),
		}
	}
	out.Consents = make([]api.Consent, len(d.Consents))
	for i := range d.Consents {
		out.Consents[i] = consentToAPI(&d.Consents[i])
	}
	return out
}

func consentToAPI(c *models.Consent) api.Consent {
	return api.Consent{
		ID:        c.ID,
		ExpenseID: c.ExpenseID,
		DebtorID:  c.DebtorID,
		Status:    string(c.Status),
		Reason:    c.Reason,
		UpdatedAt: c.UpdatedAt,
	}
}

func consentItemsToAPI(details []models.ConsentDetail) []api.ConsentItem {
	out := make([]api.ConsentItem, len(details))
	for i := range details {
		d := &details[i]
		out[i] = api.ConsentItem{
			Consent:     consentToAPI(&d.Consent),
			TripID:      d.TripID,
			ExpenseName: d.ExpenseName,
			Amount:      d.Amount,
			PayerID:     d.PayerID,
			ShareAmount: d.ShareAmount,
		}
	}
	return out
}

func balancesToAPI(balances []calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			UserID:     b.UserID,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		}
	}
	return out
}

func settlementsToAPI(edges []calculator.DebtEdge) []api.Settlement {
	out := make([]api.Settlement, len(edges))
	for i, e := range edges {
		out[i] = api.Settlement{FromUserID: e.From, ToUserID: e.To, Amount: e.Amount}
	}
	return out
}
