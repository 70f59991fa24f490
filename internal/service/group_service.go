package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

const (
	defaultCurrency = "EUR"
	defaultCategory = "other"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	broker     *events.Broker
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService. broker feeds WatchGroup; the
// store is expected to publish into it (see storage.WithNotifications).
func NewGroupService(store storage.Store, jwtManager *auth.JWTManager, broker *events.Broker) *GroupService {
	return &GroupService{store: store, jwtManager: jwtManager, broker: broker}
}

// CreateGroup creates a new group and returns a token for it.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	slog.Info("CreateGroup request received", "name", name)

	if name == "" {
		return nil, invalidArgument("name required")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	group := &models.Group{Name: name, Currency: currency}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(group)
	if err != nil {
		slog.Error("Failed to generate token", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(group),
		Token: token,
	}), nil
}

// JoinGroup exchanges an invite code for a group token.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	if strings.TrimSpace(req.Msg.InviteCode) == "" {
		return nil, invalidArgument("invite_code required")
	}

	group, err := s.store.GetGroupByInviteCode(ctx, req.Msg.InviteCode)
	if err != nil {
		slog.Warn("JoinGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group joined", "group_id", group.ID)

	return connect.NewResponse(&api.JoinGroupResponse{
		Group: toAPIGroup(group),
		Token: token,
	}), nil
}

// GetGroup returns a group with its roster and categories.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	participants, err := s.store.ListParticipants(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	categories, err := s.store.ListCategories(ctx, groupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupResponse{
		Group:        toAPIGroup(group),
		Participants: make([]*api.Participant, len(participants)),
		Categories:   make([]*api.Category, len(categories)),
	}
	for i, p := range participants {
		resp.Participants[i] = toAPIParticipant(p)
	}
	for i, c := range categories {
		resp.Categories[i] = toAPICategory(c)
	}
	return connect.NewResponse(resp), nil
}

// AddParticipant appends someone to the group's roster.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	participant := &models.Participant{GroupID: groupID, Name: name}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "group_id", groupID, "participant_id", participant.ID)

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: toAPIParticipant(participant),
	}), nil
}

// AddExpense records a new expense.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	expense, err := expenseFromInput(groupID, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// UpdateExpense replaces an expense's contents.
func (s *GroupService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.groupExpense(ctx, groupID, req.Msg.ExpenseID); err != nil {
		return nil, err
	}

	expense, err := expenseFromInput(groupID, req.Msg.Expense)
	if err != nil {
		return nil, toConnectError(err)
	}
	expense.ID = req.Msg.ExpenseID

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "group_id", groupID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense.
func (s *GroupService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}
	if _, err := s.groupExpense(ctx, groupID, req.Msg.ExpenseID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "group_id", groupID, "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns the group's history in the order it was recorded.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// AddCategory creates a custom category.
func (s *GroupService) AddCategory(ctx context.Context, req *connect.Request[api.AddCategoryRequest]) (*connect.Response[api.AddCategoryResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Msg.Label)
	if label == "" {
		return nil, invalidArgument("label required")
	}

	category := &models.Category{GroupID: groupID, Label: label, Icon: req.Msg.Icon}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		slog.Error("AddCategory failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddCategoryResponse{Category: toAPICategory(category)}), nil
}

// DeleteCategory removes a category. Expenses filed under it keep the id.
func (s *GroupService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteCategory(ctx, groupID, req.Msg.CategoryID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}

// WatchGroup streams the group's change events until the client goes away
// or the server shuts down.
func (s *GroupService) WatchGroup(ctx context.Context, req *connect.Request[api.WatchGroupRequest], stream *connect.ServerStream[api.WatchGroupResponse]) error {
	groupID := req.Msg.GroupID
	if err := authorize(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return toConnectError(err)
	}

	ch, cancel := s.broker.Subscribe(groupID)
	defer cancel()

	slog.Info("Watching group", "group_id", groupID)
	defer slog.Info("Stopped watching group", "group_id", groupID)

	// Headers go out with the first message, so the client's call returns
	// once this is sent. Anything published after it reaches the watcher.
	started := events.New(groupID, events.WatchStarted, groupID)
	if err := stream.Send(&api.WatchGroupResponse{Event: toAPIEvent(started)}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(&api.WatchGroupResponse{Event: toAPIEvent(event)}); err != nil {
				return err
			}
		}
	}
}

// groupExpense loads an expense and checks it belongs to groupID. Expenses
// of other groups are reported as missing.
func (s *GroupService) groupExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if expense.GroupID != groupID {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return expense, nil
}

// expenseFromInput resolves equal-split helpers into explicit shares and
// validates the result.
func expenseFromInput(groupID string, in *api.ExpenseInput) (*models.Expense, error) {
	if in == nil {
		return nil, invalidArgument("expense required")
	}

	paidBy := in.PaidBy
	if len(paidBy) == 0 && len(in.Payers) > 0 {
		shares, err := calculator.EqualSplit(in.Amount, in.Payers)
		if err != nil {
			return nil, err
		}
		paidBy = shares
	}
	split := in.SplitDetails
	if len(split) == 0 && len(in.SplitAmong) > 0 {
		shares, err := calculator.EqualSplit(in.Amount, in.SplitAmong)
		if err != nil {
			return nil, err
		}
		split = shares
	}

	expense := calculator.Expense{
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		PaidBy:       paidBy,
		SplitDetails: split,
		Category:     in.Category,
		Date:         in.Date,
	}
	if expense.Category == "" {
		expense.Category = defaultCategory
	}
	if expense.Date == "" {
		expense.Date = today()
	}
	if err := calculator.ValidateExpense(expense); err != nil {
		return nil, err
	}
	return fromCalcExpense(groupID, expense), nil
}

func today() string {
	return time.Now().UTC().Format(time.DateOnly)
}
