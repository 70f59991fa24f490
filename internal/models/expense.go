package models

import "github.com/mmynk/splitledger/internal/calculator"

// Expense is one entry in a group's history.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	Description string

	// Amount is the nominal total. PaidBy and SplitDetails should each sum to
	// it, but this is not enforced.
	Amount float64

	// PaidBy lists what each participant contributed, in the order given.
	PaidBy calculator.Shares

	// SplitDetails lists what each participant owes, in the order given.
	SplitDetails calculator.Shares

	// Category is a Category ID (or SettlementCategory).
	Category string

	// Date is the client-supplied date, stored verbatim.
	Date string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// IsSettlement reports whether the expense records a settle-up transfer.
func (e *Expense) IsSettlement() bool {
	return e.Category == SettlementCategory
}
