package service

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := srv.groupClient("").CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name: "  Ski Trip ",
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Ski Trip" {
		t.Errorf("name: expected 'Ski Trip', got '%s'", group.Name)
	}
	if group.Currency != "EUR" {
		t.Errorf("currency: expected default EUR, got '%s'", group.Currency)
	}
	if len(group.InviteCode) != 8 {
		t.Errorf("invite code: expected 8 chars, got '%s'", group.InviteCode)
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
	if resp.Msg.Token == "" {
		t.Error("expected a token")
	}
}

func TestCreateGroup_NameRequired(t *testing.T) {
	srv := setupTestServer(t)

	_, err := srv.groupClient("").CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: "   "}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestJoinGroup(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()

	created, err := srv.groupClient("").CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Flat", Currency: "gbp"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if created.Msg.Group.Currency != "GBP" {
		t.Errorf("currency: expected GBP, got %s", created.Msg.Group.Currency)
	}

	joined, err := srv.groupClient("").JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{
		InviteCode: strings.ToLower(created.Msg.Group.InviteCode),
	}))
	if err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}
	if joined.Msg.Group.ID != created.Msg.Group.ID {
		t.Errorf("joined group %s, want %s", joined.Msg.Group.ID, created.Msg.Group.ID)
	}

	// The joined token works like the creator's.
	if _, err := srv.groupClient(joined.Msg.Token).GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{
		GroupID: joined.Msg.Group.ID,
	})); err != nil {
		t.Errorf("GetGroup with joined token failed: %v", err)
	}

	_, err = srv.groupClient("").JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{InviteCode: "NOPE0000"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = srv.groupClient("").JoinGroup(ctx, connect.NewRequest(&api.JoinGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetGroup(t *testing.T) {
	srv := setupTestServer(t)
	groupID, token, ids := srv.createGroup(t, "Roommates", "Alice", "Bob", "Charlie")

	resp, err := srv.groupClient(token).GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Participants) != 3 {
		t.Fatalf("participants: expected 3, got %d", len(resp.Msg.Participants))
	}
	for i, p := range resp.Msg.Participants {
		if p.ID != ids[i] {
			t.Errorf("participant %d: expected %s, got %s", i, ids[i], p.ID)
		}
	}
	if len(resp.Msg.Categories) != 6 {
		t.Errorf("categories: expected the 6 defaults, got %d", len(resp.Msg.Categories))
	}
}

func TestGetGroup_Authorization(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	groupID, _, _ := srv.createGroup(t, "Mine")
	_, otherToken, _ := srv.createGroup(t, "Theirs")

	tests := []struct {
		name  string
		token string
		want  connect.Code
	}{
		{"no token", "", connect.CodeUnauthenticated},
		{"garbage token", "not-a-jwt", connect.CodeUnauthenticated},
		{"other group's token", otherToken, connect.CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.groupClient(tt.token).GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
			assertCode(t, err, tt.want)
		})
	}
}

func TestAddParticipant_NameRequired(t *testing.T) {
	srv := setupTestServer(t)
	groupID, token, _ := srv.createGroup(t, "Trip")

	_, err := srv.groupClient(token).AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
		GroupID: groupID,
		Name:    "",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestExpenseLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	groupID, token, ids := srv.createGroup(t, "Trip", "Alice", "Bob", "Charlie")
	alice, bob, charlie := ids[0], ids[1], ids[2]
	client := srv.groupClient(token)

	// Equal split helpers.
	added, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		GroupID: groupID,
		Expense: &api.ExpenseInput{
			Description: "Dinner",
			Amount:      100,
			Payers:      []string{alice},
			SplitAmong:  []string{alice, bob, charlie},
			Category:    "food",
			Date:        "2024-03-01",
		},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	expense := added.Msg.Expense
	if expense.ID == "" {
		t.Fatal("expected expense ID")
	}
	if expense.PaidBy.Get(alice) != 100 {
		t.Errorf("paidBy[alice]: expected 100, got %v", expense.PaidBy.Get(alice))
	}
	wantSplit := api.Shares{{ParticipantID: alice, Amount: 33.34}, {ParticipantID: bob, Amount: 33.33}, {ParticipantID: charlie, Amount: 33.33}}
	if len(expense.SplitDetails) != len(wantSplit) {
		t.Fatalf("split: expected %v, got %v", wantSplit, expense.SplitDetails)
	}
	for i, want := range wantSplit {
		got := expense.SplitDetails[i]
		if got.ParticipantID != want.ParticipantID || math.Abs(got.Amount-want.Amount) > 1e-9 {
			t.Errorf("split[%d]: expected %+v, got %+v", i, want, got)
		}
	}

	// Explicit shares, defaults for category and date.
	if _, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		GroupID: groupID,
		Expense: &api.ExpenseInput{
			Description:  "Taxi",
			Amount:       30,
			PaidBy:       api.Shares{{ParticipantID: bob, Amount: 30}},
			SplitDetails: api.Shares{{ParticipantID: alice, Amount: 10}, {ParticipantID: bob, Amount: 20}},
		},
	})); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	list, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list.Msg.Expenses))
	}
	taxi := list.Msg.Expenses[1]
	if taxi.Description != "Taxi" || taxi.Category != "other" || taxi.Date == "" {
		t.Errorf("unexpected defaults on %+v", taxi)
	}

	updated, err := client.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		GroupID:   groupID,
		ExpenseID: expense.ID,
		Expense: &api.ExpenseInput{
			Description: "Dinner (tip included)",
			Amount:      120,
			Payers:      []string{alice},
			SplitAmong:  []string{alice, bob, charlie},
			Category:    "food",
			Date:        "2024-03-01",
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updated.Msg.Expense.Amount != 120 || updated.Msg.Expense.SplitDetails.Get(bob) != 40 {
		t.Errorf("update not applied: %+v", updated.Msg.Expense)
	}

	if _, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{
		GroupID:   groupID,
		ExpenseID: expense.ID,
	})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	_, err = client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{
		GroupID:   groupID,
		ExpenseID: expense.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestAddExpense_Invalid(t *testing.T) {
	srv := setupTestServer(t)
	groupID, token, ids := srv.createGroup(t, "Trip", "Alice", "Bob")
	client := srv.groupClient(token)

	tests := []struct {
		name  string
		input *api.ExpenseInput
	}{
		{"missing expense", nil},
		{"negative amount", &api.ExpenseInput{Amount: -5, PaidBy: api.Shares{{ParticipantID: ids[0], Amount: -5}}}},
		{"negative share", &api.ExpenseInput{Amount: 5, PaidBy: api.Shares{{ParticipantID: ids[0], Amount: 5}}, SplitDetails: api.Shares{{ParticipantID: ids[1], Amount: -5}}}},
		{"empty participant id", &api.ExpenseInput{Amount: 5, PaidBy: api.Shares{{ParticipantID: "", Amount: 5}}}},
		{"duplicate split id", &api.ExpenseInput{Amount: 5, Payers: []string{ids[0]}, SplitAmong: []string{ids[1], ids[1]}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				GroupID: groupID,
				Expense: tt.input,
			}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestExpense_OtherGroupIsNotFound(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	groupA, tokenA, idsA := srv.createGroup(t, "A", "Alice")
	groupB, tokenB, _ := srv.createGroup(t, "B", "Bob")

	added, err := srv.groupClient(tokenA).AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		GroupID: groupA,
		Expense: &api.ExpenseInput{Description: "Coffee", Amount: 3, PaidBy: api.Shares{{ParticipantID: idsA[0], Amount: 3}}},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	_, err = srv.groupClient(tokenB).DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{
		GroupID:   groupB,
		ExpenseID: added.Msg.Expense.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCategories(t *testing.T) {
	srv := setupTestServer(t)
	ctx := context.Background()
	groupID, token, _ := srv.createGroup(t, "Trip")
	client := srv.groupClient(token)

	added, err := client.AddCategory(ctx, connect.NewRequest(&api.AddCategoryRequest{
		GroupID: groupID,
		Label:   "Ski pass",
		Icon:    "⛷️",
	}))
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if added.Msg.Category.ID == "" || added.Msg.Category.Label != "Ski pass" {
		t.Errorf("unexpected category %+v", added.Msg.Category)
	}

	got, err := client.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if n := len(got.Msg.Categories); n != 7 {
		t.Errorf("categories: expected 7, got %d", n)
	}

	del := connect.NewRequest(&api.DeleteCategoryRequest{GroupID: groupID, CategoryID: added.Msg.Category.ID})
	if _, err := client.DeleteCategory(ctx, del); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	_, err = client.DeleteCategory(ctx, connect.NewRequest(&api.DeleteCategoryRequest{GroupID: groupID, CategoryID: added.Msg.Category.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.AddCategory(ctx, connect.NewRequest(&api.AddCategoryRequest{GroupID: groupID}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestWatchGroup(t *testing.T) {
	srv := setupTestServer(t)
	groupID, token, _ := srv.createGroup(t, "Trip")
	client := srv.groupClient(token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.WatchGroup(ctx, connect.NewRequest(&api.WatchGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("WatchGroup failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("expected the watch to start, stream ended: %v", stream.Err())
	}
	if kind := stream.Msg().Event.Kind; kind != "watch.started" {
		t.Fatalf("first event: expected watch.started, got %s", kind)
	}

	added, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{GroupID: groupID, Name: "Dana"}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}

	if !stream.Receive() {
		t.Fatalf("expected an event, stream ended: %v", stream.Err())
	}
	event := stream.Msg().Event
	if event.Kind != "participant.added" {
		t.Errorf("kind: expected participant.added, got %s", event.Kind)
	}
	if event.GroupID != groupID || event.EntityID != added.Msg.Participant.ID {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestWatchGroup_StartsWithoutActivity(t *testing.T) {
	srv := setupTestServer(t)
	groupID, token, _ := srv.createGroup(t, "Quiet")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Nothing else touches the group while the watch is open.
	stream, err := srv.groupClient(token).WatchGroup(ctx, connect.NewRequest(&api.WatchGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("WatchGroup failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("expected the watch to start, stream ended: %v", stream.Err())
	}
	event := stream.Msg().Event
	if event.Kind != "watch.started" || event.GroupID != groupID || event.At == 0 {
		t.Errorf("unexpected first event %+v", event)
	}
	if n := srv.broker.Subscribers(groupID); n != 1 {
		t.Errorf("expected 1 subscriber once started, got %d", n)
	}
}

func TestWatchGroup_RequiresToken(t *testing.T) {
	srv := setupTestServer(t)
	groupID, _, _ := srv.createGroup(t, "Trip")

	stream, err := srv.groupClient("").WatchGroup(context.Background(), connect.NewRequest(&api.WatchGroupRequest{GroupID: groupID}))
	if err != nil {
		assertCode(t, err, connect.CodeUnauthenticated)
		return
	}
	defer stream.Close()

	if stream.Receive() {
		t.Fatal("expected no events without a token")
	}
	assertCode(t, stream.Err(), connect.CodeUnauthenticated)
}
