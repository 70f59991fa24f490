package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[JoinGroupRequest]) (*connect.Response[JoinGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	AddCategory(context.Context, *connect.Request[AddCategoryRequest]) (*connect.Response[AddCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[DeleteCategoryRequest]) (*connect.Response[DeleteCategoryResponse], error)
	// WatchGroup streams change events until the client disconnects.
	WatchGroup(context.Context, *connect.Request[WatchGroupRequest], *connect.ServerStream[WatchGroupResponse]) error
}

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	CalculateBalances(context.Context, *connect.Request[CalculateBalancesRequest]) (*connect.Response[CalculateBalancesResponse], error)
	GetSuggestedPayer(context.Context, *connect.Request[GetSuggestedPayerRequest]) (*connect.Response[GetSuggestedPayerResponse], error)
	CalculateSettlements(context.Context, *connect.Request[CalculateSettlementsRequest]) (*connect.Response[CalculateSettlementsResponse], error)
	GetGroupLedger(context.Context, *connect.Request[GetGroupLedgerRequest]) (*connect.Response[GetGroupLedgerResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(codec{})}, opts...)
}

// route serves each procedure with its handler and 404s everything else.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// NewGroupServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", route(map[string]http.Handler{
		GroupServiceCreateGroupProcedure:    connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceJoinGroupProcedure:      connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...),
		GroupServiceGetGroupProcedure:       connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceAddParticipantProcedure: connect.NewUnaryHandler(GroupServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		GroupServiceAddExpenseProcedure:     connect.NewUnaryHandler(GroupServiceAddExpenseProcedure, svc.AddExpense, opts...),
		GroupServiceUpdateExpenseProcedure:  connect.NewUnaryHandler(GroupServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		GroupServiceDeleteExpenseProcedure:  connect.NewUnaryHandler(GroupServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		GroupServiceListExpensesProcedure:   connect.NewUnaryHandler(GroupServiceListExpensesProcedure, svc.ListExpenses, opts...),
		GroupServiceAddCategoryProcedure:    connect.NewUnaryHandler(GroupServiceAddCategoryProcedure, svc.AddCategory, opts...),
		GroupServiceDeleteCategoryProcedure: connect.NewUnaryHandler(GroupServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...),
		GroupServiceWatchGroupProcedure:     connect.NewServerStreamHandler(GroupServiceWatchGroupProcedure, svc.WatchGroup, opts...),
	})
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", route(map[string]http.Handler{
		LedgerServiceCalculateBalancesProcedure:    connect.NewUnaryHandler(LedgerServiceCalculateBalancesProcedure, svc.CalculateBalances, opts...),
		LedgerServiceGetSuggestedPayerProcedure:    connect.NewUnaryHandler(LedgerServiceGetSuggestedPayerProcedure, svc.GetSuggestedPayer, opts...),
		LedgerServiceCalculateSettlementsProcedure: connect.NewUnaryHandler(LedgerServiceCalculateSettlementsProcedure, svc.CalculateSettlements, opts...),
		LedgerServiceGetGroupLedgerProcedure:       connect.NewUnaryHandler(LedgerServiceGetGroupLedgerProcedure, svc.GetGroupLedger, opts...),
		LedgerServiceSettleUpProcedure:             connect.NewUnaryHandler(LedgerServiceSettleUpProcedure, svc.SettleUp, opts...),
	})
}
