package service

import (
	"context"
	"log/slog"
	"math"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// PlanObserver is told the size of every settlement plan computed.
type PlanObserver interface {
	ObserveSettlementPlan(transactions int)
}

// LedgerService implements the Connect LedgerService: balances, the next
// payer and settlement plans, for ad-hoc inputs or a stored group.
type LedgerService struct {
	store    storage.Store
	observer PlanObserver
	ledgers  *LedgerCache
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService. observer and ledgers may be
// nil. A non-nil ledgers cache must also receive the store's change events.
func NewLedgerService(store storage.Store, observer PlanObserver, ledgers *LedgerCache) *LedgerService {
	return &LedgerService{store: store, observer: observer, ledgers: ledgers}
}

// CalculateBalances computes net balances for the given roster and expenses.
func (s *LedgerService) CalculateBalances(ctx context.Context, req *connect.Request[api.CalculateBalancesRequest]) (*connect.Response[api.CalculateBalancesResponse], error) {
	roster := make([]calculator.Participant, 0, len(req.Msg.Participants))
	for _, p := range req.Msg.Participants {
		if p == nil {
			continue
		}
		if p.ID == "" {
			return nil, invalidArgument("participant id required")
		}
		roster = append(roster, calculator.Participant{ID: p.ID, Name: p.Name})
	}

	expenses := make([]calculator.Expense, 0, len(req.Msg.Expenses))
	for _, e := range req.Msg.Expenses {
		if e == nil {
			continue
		}
		expenses = append(expenses, calculator.Expense{
			ID:           e.ID,
			Description:  e.Description,
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			SplitDetails: e.SplitDetails,
			Category:     e.Category,
			Date:         e.Date,
		})
	}
	if err := calculator.ValidateExpenses(expenses); err != nil {
		return nil, toConnectError(err)
	}

	balances := calculator.CalculateBalances(roster, expenses)

	slog.Debug("Balances calculated",
		"participants", len(roster),
		"expenses", len(expenses),
		"balances", len(balances),
	)

	return connect.NewResponse(&api.CalculateBalancesResponse{
		Balances: toAPIBalances(balances, nil),
	}), nil
}

// GetSuggestedPayer names whoever owes the most, or nobody when all are settled.
func (s *LedgerService) GetSuggestedPayer(ctx context.Context, req *connect.Request[api.GetSuggestedPayerRequest]) (*connect.Response[api.GetSuggestedPayerResponse], error) {
	balances := fromAPIBalances(req.Msg.Balances)
	if err := calculator.ValidateBalances(balances); err != nil {
		return nil, toConnectError(err)
	}

	payer, _ := calculator.SuggestPayer(balances)
	return connect.NewResponse(&api.GetSuggestedPayerResponse{ParticipantID: payer}), nil
}

// CalculateSettlements proposes transfers that bring every balance to zero.
func (s *LedgerService) CalculateSettlements(ctx context.Context, req *connect.Request[api.CalculateSettlementsRequest]) (*connect.Response[api.CalculateSettlementsResponse], error) {
	balances := fromAPIBalances(req.Msg.Balances)
	if err := calculator.ValidateBalances(balances); err != nil {
		return nil, toConnectError(err)
	}

	txs := s.plan(balances)
	return connect.NewResponse(&api.CalculateSettlementsResponse{
		Transactions: toAPITransactions(txs),
	}), nil
}

// GetGroupLedger computes everything the group overview shows from the
// stored roster and history.
func (s *LedgerService) GetGroupLedger(ctx context.Context, req *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	var generation uint64
	if s.ledgers != nil {
		if cached, ok := s.ledgers.get(groupID); ok {
			return connect.NewResponse(cached), nil
		}
		generation = s.ledgers.generation(groupID)
	}

	ledger, err := s.store.LoadLedger(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupLedger failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	names := make(map[string]string, len(ledger.Participants))
	for _, p := range ledger.Participants {
		names[p.ID] = p.Name
	}
	roster := toCalcRoster(ledger.Participants)
	expenses := toCalcExpenses(ledger.Expenses)

	balances := calculator.CalculateBalances(roster, expenses)
	payer, _ := calculator.SuggestPayer(balances)
	txs := s.plan(balances)

	spending := make([]calculator.Expense, 0, len(expenses))
	for i, e := range ledger.Expenses {
		if !e.IsSettlement() {
			spending = append(spending, expenses[i])
		}
	}
	summary := calculator.Summarize(roster, spending)

	slog.Info("GetGroupLedger successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"settlements_count", len(txs),
	)

	resp := &api.GetGroupLedgerResponse{
		Group:          toAPIGroup(ledger.Group),
		Balances:       toAPIBalances(balances, names),
		SuggestedPayer: payer,
		Settlements:    toAPITransactions(txs),
		Summary:        toAPISummary(summary, names),
	}
	if s.ledgers != nil {
		s.ledgers.set(groupID, generation, resp)
	}
	return connect.NewResponse(resp), nil
}

// SettleUp records a transfer between two participants as a settlement
// expense.
func (s *LedgerService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	from, to, amount := req.Msg.FromParticipantID, req.Msg.ToParticipantID, req.Msg.Amount
	switch {
	case from == "" || to == "":
		return nil, invalidArgument("from_participant_id and to_participant_id required")
	case from == to:
		return nil, invalidArgument("cannot settle with oneself")
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return nil, invalidArgument("amount must be positive, got %v", amount)
	}
	// Transfers are recorded to the cent.
	amount = calculator.Round2(amount)
	if amount <= 0 {
		return nil, invalidArgument("amount must be at least 0.01, got %v", req.Msg.Amount)
	}

	participants, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !onRoster(participants, from) || !onRoster(participants, to) {
		return nil, invalidArgument("both participants must belong to the group")
	}

	date := req.Msg.Date
	if date == "" {
		date = today()
	}
	settlement := calculator.NewSettlementExpense(calculator.Transaction{
		FromParticipantID: from,
		ToParticipantID:   to,
		Amount:            amount,
	}, date)

	expense := fromCalcExpense(groupID, settlement)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("SettleUp failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded",
		"group_id", groupID,
		"from", from,
		"to", to,
		"amount", amount,
	)

	return connect.NewResponse(&api.SettleUpResponse{Expense: toAPIExpense(expense)}), nil
}

func (s *LedgerService) plan(balances []calculator.Balance) []calculator.Transaction {
	txs := calculator.PlanSettlements(balances)
	if s.observer != nil {
		s.observer.ObserveSettlementPlan(len(txs))
	}
	return txs
}

func onRoster(participants []*models.Participant, id string) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
