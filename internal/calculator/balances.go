package calculator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// ledger accumulates amounts per participant, remembering the order in which
// participants were first seen.
type ledger struct {
	index   map[string]int
	entries []Balance
}

func newLedger(capacity int) *ledger {
	return &ledger{
		index:   make(map[string]int, capacity),
		entries: make([]Balance, 0, capacity),
	}
}

func (l *ledger) add(id string, amount float64) {
	i, ok := l.index[id]
	if !ok {
		i = len(l.entries)
		l.index[id] = i
		l.entries = append(l.entries, Balance{ParticipantID: id})
	}
	l.entries[i].Amount += amount
}

// CalculateBalances computes every participant's net balance from the full
// expense history.
//
// Algorithm:
// - Seed every roster participant at zero, in roster order
// - For each expense: payers are credited what they contributed, split
//   participants are debited what they owe
// - Participants referenced only by an expense are appended in the order
//   they first appear, payers before split participants
//
// No rounding is applied, and amounts are not validated; see ValidateExpenses.
func CalculateBalances(roster []Participant, expenses []Expense) []Balance {
	l := newLedger(len(roster))

	for _, p := range roster {
		l.add(p.ID, 0)
	}

	for _, expense := range expenses {
		for _, share := range expense.PaidBy {
			l.add(share.ParticipantID, share.Amount)
		}
		for _, share := range expense.SplitDetails {
			l.add(share.ParticipantID, -share.Amount)
		}
	}

	return l.entries
}

// SuggestPayer returns the participant with the largest outstanding debt.
// It reports false when there are no balances or everyone is within a cent
// of zero.
func SuggestPayer(balances []Balance) (string, bool) {
	if len(balances) == 0 {
		return "", false
	}

	sorted := make([]Balance, len(balances))
	copy(sorted, balances)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount < sorted[j].Amount
	})

	lowest := sorted[0]
	if abs(lowest.Amount) < settledEpsilon {
		return "", false
	}
	return lowest.ParticipantID, true
}

// Round2 rounds v to cents, half away from zero. Ties are judged on the
// shortest decimal form of v, so 1.005 rounds to 1.01 and -1.005 to -1.01.
// NaN and infinities are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
