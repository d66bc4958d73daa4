// Package models defines the core domain models for tripsplit.
//
// # Entities
//
//   - Trip: a shared context grouping members and expenses
//   - Membership: a user's (possibly deactivated) participation in a trip
//   - Expense: a single payment event with one payer and a set of debtors
//   - Involvement: one debtor's owed share of one expense
//   - Consent: a debtor's approval/dispute status for one Involvement
//
// # Ownership
//
// A Trip owns its Memberships and Expenses. An Expense owns its Involvements
// and Consents; deleting an Expense deletes both. Memberships are only ever
// referenced by user ID, so a member leaving never erases expense history.
//
// # Money
//
// All monetary values use decimal.Decimal. Amounts are persisted as their
// canonical string form so no precision is lost between storage backends.
//
// # Relationships
//
// Relationships are expressed with ID strings rather than pointers. The payer
// of an expense never has an Involvement or Consent on that expense, and every
// Involvement has exactly one Consent for the same (expense, debtor) pair.
package models
