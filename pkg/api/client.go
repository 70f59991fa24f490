package api

import (
	"context"

	"connectrpc.com/connect"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(codec{})}, opts...)
}

// GroupServiceClient calls a remote GroupService.
type GroupServiceClient struct {
	createGroup    *connect.Client[CreateGroupRequest, CreateGroupResponse]
	joinGroup      *connect.Client[JoinGroupRequest, JoinGroupResponse]
	getGroup       *connect.Client[GetGroupRequest, GetGroupResponse]
	addParticipant *connect.Client[AddParticipantRequest, AddParticipantResponse]
	addExpense     *connect.Client[AddExpenseRequest, AddExpenseResponse]
	updateExpense  *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense  *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	listExpenses   *connect.Client[ListExpensesRequest, ListExpensesResponse]
	addCategory    *connect.Client[AddCategoryRequest, AddCategoryResponse]
	deleteCategory *connect.Client[DeleteCategoryRequest, DeleteCategoryResponse]
	watchGroup     *connect.Client[WatchGroupRequest, WatchGroupResponse]
}

// NewGroupServiceClient constructs a client for the GroupService at baseURL
// (for example, http://localhost:8080).
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup:    connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		joinGroup:      connect.NewClient[JoinGroupRequest, JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		getGroup:       connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		addParticipant: connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+GroupServiceAddParticipantProcedure, opts...),
		addExpense:     connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+GroupServiceAddExpenseProcedure, opts...),
		updateExpense:  connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+GroupServiceUpdateExpenseProcedure, opts...),
		deleteExpense:  connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+GroupServiceDeleteExpenseProcedure, opts...),
		listExpenses:   connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+GroupServiceListExpensesProcedure, opts...),
		addCategory:    connect.NewClient[AddCategoryRequest, AddCategoryResponse](httpClient, baseURL+GroupServiceAddCategoryProcedure, opts...),
		deleteCategory: connect.NewClient[DeleteCategoryRequest, DeleteCategoryResponse](httpClient, baseURL+GroupServiceDeleteCategoryProcedure, opts...),
		watchGroup:     connect.NewClient[WatchGroupRequest, WatchGroupResponse](httpClient, baseURL+GroupServiceWatchGroupProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddCategory(ctx context.Context, req *connect.Request[AddCategoryRequest]) (*connect.Response[AddCategoryResponse], error) {
	return c.addCategory.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[DeleteCategoryRequest]) (*connect.Response[DeleteCategoryResponse], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}

// WatchGroup opens an event stream. Close it when done.
func (c *GroupServiceClient) WatchGroup(ctx context.Context, req *connect.Request[WatchGroupRequest]) (*connect.ServerStreamForClient[WatchGroupResponse], error) {
	return c.watchGroup.CallServerStream(ctx, req)
}

// LedgerServiceClient calls a remote LedgerService.
type LedgerServiceClient struct {
	calculateBalances    *connect.Client[CalculateBalancesRequest, CalculateBalancesResponse]
	getSuggestedPayer    *connect.Client[GetSuggestedPayerRequest, GetSuggestedPayerResponse]
	calculateSettlements *connect.Client[CalculateSettlementsRequest, CalculateSettlementsResponse]
	getGroupLedger       *connect.Client[GetGroupLedgerRequest, GetGroupLedgerResponse]
	settleUp             *connect.Client[SettleUpRequest, SettleUpResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		calculateBalances:    connect.NewClient[CalculateBalancesRequest, CalculateBalancesResponse](httpClient, baseURL+LedgerServiceCalculateBalancesProcedure, opts...),
		getSuggestedPayer:    connect.NewClient[GetSuggestedPayerRequest, GetSuggestedPayerResponse](httpClient, baseURL+LedgerServiceGetSuggestedPayerProcedure, opts...),
		calculateSettlements: connect.NewClient[CalculateSettlementsRequest, CalculateSettlementsResponse](httpClient, baseURL+LedgerServiceCalculateSettlementsProcedure, opts...),
		getGroupLedger:       connect.NewClient[GetGroupLedgerRequest, GetGroupLedgerResponse](httpClient, baseURL+LedgerServiceGetGroupLedgerProcedure, opts...),
		settleUp:             connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+LedgerServiceSettleUpProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CalculateBalances(ctx context.Context, req *connect.Request[CalculateBalancesRequest]) (*connect.Response[CalculateBalancesResponse], error) {
	return c.calculateBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSuggestedPayer(ctx context.Context, req *connect.Request[GetSuggestedPayerRequest]) (*connect.Response[GetSuggestedPayerResponse], error) {
	return c.getSuggestedPayer.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CalculateSettlements(ctx context.Context, req *connect.Request[CalculateSettlementsRequest]) (*connect.Response[CalculateSettlementsResponse], error) {
	return c.calculateSettlements.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetGroupLedger(ctx context.Context, req *connect.Request[GetGroupLedgerRequest]) (*connect.Response[GetGroupLedgerResponse], error) {
	return c.getGroupLedger.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}
