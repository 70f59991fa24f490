package calculator

import (
	"math"
	"sort"
)

// PlanSettlements returns the transfers that bring every balance to zero.
//
// Algorithm (greedy, largest debt against largest credit):
// - Debtors (< -0.01) sorted most negative first, creditors (> 0.01) sorted
//   largest first; anything within a cent of zero is already settled
// - Each step settles min(debt, credit) between the current pair
// - A debtor or creditor is done once it is within a cent of zero
//
// Infinite balances cannot be settled and are skipped; NaN never compares as
// a debt or credit. The result is not guaranteed to be the minimum number of transfers.
// The caller's slice is never modified.
func PlanSettlements(balances []Balance) []Transaction {
	var debtors, creditors []Balance
	for _, b := range balances {
		if math.IsInf(b.Amount, 0) {
			continue
		}
		if b.Amount < -settledEpsilon {
			debtors = append(debtors, b)
		} else if b.Amount > settledEpsilon {
			creditors = append(creditors, b)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Amount < debtors[j].Amount
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Amount > creditors[j].Amount
	})

	transactions := []Transaction{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := abs(debtor.Amount)
		if creditor.Amount < amount {
			amount = creditor.Amount
		}

		if amount > minTransfer {
			transactions = append(transactions, Transaction{
				FromParticipantID: debtor.ParticipantID,
				ToParticipantID:   creditor.ParticipantID,
				Amount:            Round2(amount),
			})
		}

		debtor.Amount += amount
		creditor.Amount -= amount

		if abs(debtor.Amount) < settledEpsilon {
			i++
		}
		if creditor.Amount < settledEpsilon {
			j++
		}
	}

	return transactions
}

// ApplyTransactions returns a copy of balances with every transaction applied:
// the debtor's balance rises and the creditor's falls by the amount.
// Transactions naming participants missing from balances are ignored.
func ApplyTransactions(balances []Balance, transactions []Transaction) []Balance {
	out := make([]Balance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		if _, ok := index[b.ParticipantID]; !ok {
			index[b.ParticipantID] = i
		}
	}

	for _, tx := range transactions {
		if i, ok := index[tx.FromParticipantID]; ok {
			out[i].Amount += tx.Amount
		}
		if i, ok := index[tx.ToParticipantID]; ok {
			out[i].Amount -= tx.Amount
		}
	}
	return out
}

// NewSettlementExpense builds the expense that records a transfer: the debtor
// is credited as the payer and the creditor absorbs the split, so feeding it
// back into CalculateBalances moves both toward zero.
func NewSettlementExpense(tx Transaction, date string) Expense {
	return Expense{
		Description:  SettlementDescription,
		Amount:       tx.Amount,
		PaidBy:       Shares{{ParticipantID: tx.FromParticipantID, Amount: tx.Amount}},
		SplitDetails: Shares{{ParticipantID: tx.ToParticipantID, Amount: tx.Amount}},
		Category:     SettlementCategory,
		Date:         date,
	}
}

const (
	// SettlementDescription is the description given to settlement expenses.
	SettlementDescription = "Settlement"
	// SettlementCategory is the category id of settlement expenses.
	SettlementCategory = "settlement"
)
