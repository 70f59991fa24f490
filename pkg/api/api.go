// Package api defines the splitledger Connect services.
//
// Messages are plain Go structs carried over a JSON codec, so any Connect,
// gRPC-Web or curl client that speaks JSON can call the server:
//
//	curl -H 'Content-Type: application/json' \
//	    -d '{"name":"Ski Trip","currency":"EUR"}' \
//	    http://localhost:8080/splitledger.v1.GroupService/CreateGroup
package api

import (
	"encoding/json"
	"fmt"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService.
	GroupServiceName = "splitledger.v1.GroupService"
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "splitledger.v1.LedgerService"
)

// Procedure paths, usable in interceptors and for routing.
const (
	GroupServiceCreateGroupProcedure    = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceJoinGroupProcedure      = "/" + GroupServiceName + "/JoinGroup"
	GroupServiceGetGroupProcedure       = "/" + GroupServiceName + "/GetGroup"
	GroupServiceAddParticipantProcedure = "/" + GroupServiceName + "/AddParticipant"
	GroupServiceAddExpenseProcedure     = "/" + GroupServiceName + "/AddExpense"
	GroupServiceUpdateExpenseProcedure  = "/" + GroupServiceName + "/UpdateExpense"
	GroupServiceDeleteExpenseProcedure  = "/" + GroupServiceName + "/DeleteExpense"
	GroupServiceListExpensesProcedure   = "/" + GroupServiceName + "/ListExpenses"
	GroupServiceAddCategoryProcedure    = "/" + GroupServiceName + "/AddCategory"
	GroupServiceDeleteCategoryProcedure = "/" + GroupServiceName + "/DeleteCategory"
	GroupServiceWatchGroupProcedure     = "/" + GroupServiceName + "/WatchGroup"

	LedgerServiceCalculateBalancesProcedure    = "/" + LedgerServiceName + "/CalculateBalances"
	LedgerServiceGetSuggestedPayerProcedure    = "/" + LedgerServiceName + "/GetSuggestedPayer"
	LedgerServiceCalculateSettlementsProcedure = "/" + LedgerServiceName + "/CalculateSettlements"
	LedgerServiceGetGroupLedgerProcedure       = "/" + LedgerServiceName + "/GetGroupLedger"
	LedgerServiceSettleUpProcedure             = "/" + LedgerServiceName + "/SettleUp"
)

// PublicProcedures need no group token: they either issue one or touch no
// stored group.
var PublicProcedures = []string{
	GroupServiceCreateGroupProcedure,
	GroupServiceJoinGroupProcedure,
	LedgerServiceCalculateBalancesProcedure,
	LedgerServiceGetSuggestedPayerProcedure,
	LedgerServiceCalculateSettlementsProcedure,
}

// codec marshals messages as JSON. It is registered under Connect's "json"
// name, replacing the protobuf JSON codec for both handlers and clients.
type codec struct{}

func (codec) Name() string { return "json" }

func (codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to decode %T: %w", msg, err)
	}
	return nil
}
