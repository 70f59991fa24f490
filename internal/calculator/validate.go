package calculator

import (
	"fmt"
	"math"
)

// ValidationError describes the first malformed amount found in an input.
type ValidationError struct {
	ExpenseID     string
	Field         string
	ParticipantID string
	Reason        string
}

func (e *ValidationError) Error() string {
	target := e.Field
	if e.ParticipantID != "" {
		target = fmt.Sprintf("%s[%s]", e.Field, e.ParticipantID)
	}
	if e.ExpenseID != "" {
		return fmt.Sprintf("expense %s: %s %s", e.ExpenseID, target, e.Reason)
	}
	return fmt.Sprintf("%s %s", target, e.Reason)
}

// ValidateExpense checks that every amount on the expense is finite and
// non-negative and that no share is keyed by an empty or repeated
// participant ID.
// Shares that do not add up to Amount are accepted.
func ValidateExpense(expense Expense) error {
	if reason := checkAmount(expense.Amount); reason != "" {
		return &ValidationError{ExpenseID: expense.ID, Field: "amount", Reason: reason}
	}
	if err := validateShares(expense.ID, "paidBy", expense.PaidBy); err != nil {
		return err
	}
	return validateShares(expense.ID, "splitDetails", expense.SplitDetails)
}

// ValidateExpenses validates each expense in order and returns the first error.
func ValidateExpenses(expenses []Expense) error {
	for _, expense := range expenses {
		if err := ValidateExpense(expense); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBalances rejects balances that are not finite or have no participant.
func ValidateBalances(balances []Balance) error {
	for _, b := range balances {
		if b.ParticipantID == "" {
			return &ValidationError{Field: "participantId", Reason: "must not be empty"}
		}
		if math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0) {
			return &ValidationError{Field: "amount", ParticipantID: b.ParticipantID, Reason: "must be finite"}
		}
	}
	return nil
}

func validateShares(expenseID, field string, shares Shares) error {
	seen := make(map[string]struct{}, len(shares))
	for _, share := range shares {
		id := share.ParticipantID
		if id == "" {
			return &ValidationError{ExpenseID: expenseID, Field: field, Reason: "has an empty participant id"}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{ExpenseID: expenseID, Field: field, ParticipantID: id, Reason: "is listed more than once"}
		}
		seen[id] = struct{}{}
		if reason := checkAmount(share.Amount); reason != "" {
			return &ValidationError{ExpenseID: expenseID, Field: field, ParticipantID: id, Reason: reason}
		}
	}
	return nil
}

func checkAmount(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "must be finite"
	case v < 0:
		return "must not be negative"
	}
	return ""
}
