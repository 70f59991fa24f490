package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:         g.ID,
		Name:       g.Name,
		Currency:   g.Currency,
		InviteCode: g.InviteCode,
		CreatedAt:  g.CreatedAt,
	}
}

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{ID: c.ID, Label: c.Label, Icon: c.Icon}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitDetails: e.SplitDetails,
		Category:     e.Category,
		Date:         e.Date,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPIEvent(e events.Event) *api.GroupEvent {
	return &api.GroupEvent{
		GroupID:  e.GroupID,
		Kind:     string(e.Kind),
		EntityID: e.EntityID,
		At:       e.At.UnixMilli(),
	}
}

// Conversions between the stored model and the calculator's view of it.

func toCalcRoster(participants []*models.Participant) []calculator.Participant {
	roster := make([]calculator.Participant, len(participants))
	for i, p := range participants {
		roster[i] = calculator.Participant{ID: p.ID, Name: p.Name}
	}
	return roster
}

func toCalcExpense(e *models.Expense) calculator.Expense {
	return calculator.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitDetails: e.SplitDetails,
		Category:     e.Category,
		Date:         e.Date,
	}
}

func toCalcExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toCalcExpense(e)
	}
	return out
}

func fromCalcExpense(groupID string, e calculator.Expense) *models.Expense {
	return &models.Expense{
		ID:           e.ID,
		GroupID:      groupID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitDetails: e.SplitDetails,
		Category:     e.Category,
		Date:         e.Date,
	}
}

func fromAPIBalances(balances []*api.Balance) []calculator.Balance {
	out := make([]calculator.Balance, 0, len(balances))
	for _, b := range balances {
		if b == nil {
			continue
		}
		out = append(out, calculator.Balance{ParticipantID: b.ParticipantID, Amount: b.Amount})
	}
	return out
}

func toAPIBalances(balances []calculator.Balance, names map[string]string) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{ParticipantID: b.ParticipantID, Amount: b.Amount}
		if names != nil {
			out[i].Name = displayName(names, b.ParticipantID)
		}
	}
	return out
}

func toAPITransactions(txs []calculator.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = &api.Transaction{
			FromParticipantID: tx.FromParticipantID,
			ToParticipantID:   tx.ToParticipantID,
			Amount:            tx.Amount,
		}
	}
	return out
}

func toAPISummary(s calculator.Summary, names map[string]string) *api.Summary {
	out := &api.Summary{
		SpentBy:    toAPITotals(s.SpentBy, names),
		ShareBy:    toAPITotals(s.ShareBy, names),
		Daily:      make([]*api.DailyTotal, len(s.Daily)),
		ByCategory: make([]*api.CategoryTotal, len(s.ByCategory)),
		Total:      s.Total,
	}
	for i, d := range s.Daily {
		out.Daily[i] = &api.DailyTotal{Date: d.Date, Amount: d.Amount, ByPayer: toAPITotals(d.ByPayer, names)}
	}
	for i, c := range s.ByCategory {
		out.ByCategory[i] = &api.CategoryTotal{Category: c.Category, Amount: c.Amount}
	}
	return out
}

func toAPITotals(totals []calculator.ParticipantTotal, names map[string]string) []*api.ParticipantTotal {
	out := make([]*api.ParticipantTotal, len(totals))
	for i, t := range totals {
		out[i] = &api.ParticipantTotal{ParticipantID: t.ParticipantID, Name: displayName(names, t.ParticipantID), Total: t.Total}
	}
	return out
}

// unknownParticipant is shown for ids that are not on the roster, such as
// participants referenced by an imported expense.
const unknownParticipant = "Unknown"

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownParticipant
}
