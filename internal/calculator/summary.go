package calculator

import (
	"sort"
	"time"
)

// ParticipantTotal is one participant's total across a set of expenses,
// either what they paid or what their share came to.
type ParticipantTotal struct {
	ParticipantID string  `json:"participantId"`
	Total         float64 `json:"total"`
}

// DailyTotal is the nominal amount spent on one calendar day (YYYY-MM-DD).
// ByPayer breaks the day down by what each roster participant paid, in roster
// order, leaving out participants who paid nothing that day.
type DailyTotal struct {
	Date    string             `json:"date"`
	Amount  float64            `json:"amount"`
	ByPayer []ParticipantTotal `json:"byPayer"`
}

// CategoryTotal is the nominal amount spent in one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Summary aggregates spending for display alongside balances.
type Summary struct {
	SpentBy    []ParticipantTotal `json:"spentBy"`
	ShareBy    []ParticipantTotal `json:"shareBy"`
	Daily      []DailyTotal       `json:"daily"`
	ByCategory []CategoryTotal    `json:"byCategory"`
	Total      float64            `json:"total"`
}

// Summarize computes spending totals per roster participant, per day and per
// category. SpentBy totals what each participant paid and ShareBy what they
// owed, both sorted descending with roster order breaking ties. Expenses whose
// date cannot be parsed are left out of Daily only.
func Summarize(roster []Participant, expenses []Expense) Summary {
	summary := Summary{
		SpentBy:    rosterTotals(roster, expenses, func(e Expense) Shares { return e.PaidBy }),
		ShareBy:    rosterTotals(roster, expenses, func(e Expense) Shares { return e.SplitDetails }),
		Daily:      []DailyTotal{},
		ByCategory: []CategoryTotal{},
	}

	daily := make(map[string][]Expense)
	categories := make(map[string]float64)
	for _, expense := range expenses {
		summary.Total += expense.Amount
		categories[expense.Category] += expense.Amount
		if day, ok := expenseDay(expense.Date); ok {
			daily[day] = append(daily[day], expense)
		}
	}

	for day, dayExpenses := range daily {
		total := DailyTotal{Date: day, ByPayer: []ParticipantTotal{}}
		for _, expense := range dayExpenses {
			total.Amount += expense.Amount
		}
		for _, p := range roster {
			var paid float64
			for _, expense := range dayExpenses {
				paid += expense.PaidBy.Get(p.ID)
			}
			if paid != 0 {
				total.ByPayer = append(total.ByPayer, ParticipantTotal{ParticipantID: p.ID, Total: paid})
			}
		}
		summary.Daily = append(summary.Daily, total)
	}
	sort.Slice(summary.Daily, func(i, j int) bool {
		return summary.Daily[i].Date < summary.Daily[j].Date
	})

	for category, amount := range categories {
		if amount > 0 {
			summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Amount: amount})
		}
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	return summary
}

func rosterTotals(roster []Participant, expenses []Expense, shares func(Expense) Shares) []ParticipantTotal {
	totals := make([]ParticipantTotal, 0, len(roster))
	for _, p := range roster {
		var total float64
		for _, expense := range expenses {
			total += shares(expense).Get(p.ID)
		}
		totals = append(totals, ParticipantTotal{ParticipantID: p.ID, Total: total})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// expenseDay extracts the UTC calendar day from an RFC 3339 or date-only string.
func expenseDay(date string) (string, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.UTC().Format(time.DateOnly), true
		}
	}
	return "", false
}
