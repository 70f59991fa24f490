package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createGroup(t *testing.T, store *SQLiteStore, name string) *models.Group {
	t.Helper()
	group := &models.Group{Name: name, Currency: "EUR"}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID, invite code and timestamp", func(t *testing.T) {
		group := createGroup(t, store, "Roommates")

		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if len(group.InviteCode) != 8 {
			t.Errorf("Expected 8-character invite code, got %q", group.InviteCode)
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGroup and GetGroupByInviteCode", func(t *testing.T) {
		original := createGroup(t, store, "Ski Trip")

		byID, err := store.GetGroup(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if byID.Name != "Ski Trip" || byID.Currency != "EUR" || byID.InviteCode != original.InviteCode {
			t.Errorf("GetGroup mismatch: got %+v, want %+v", byID, original)
		}

		byCode, err := store.GetGroupByInviteCode(ctx, " "+original.InviteCode+" ")
		if err != nil {
			t.Fatalf("GetGroupByInviteCode failed: %v", err)
		}
		if byCode.ID != original.ID {
			t.Errorf("GetGroupByInviteCode returned %s, want %s", byCode.ID, original.ID)
		}
	})

	t.Run("GetGroup returns ErrNotFound for nonexistent group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListGroups", func(t *testing.T) {
		groups, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 2 {
			t.Errorf("Expected 2 groups, got %d", len(groups))
		}
	})

	t.Run("new groups get the default categories", func(t *testing.T) {
		group := createGroup(t, store, "Defaults")
		categories, err := store.ListCategories(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		defaults := models.DefaultCategories()
		if len(categories) != len(defaults) {
			t.Fatalf("Expected %d categories, got %d", len(defaults), len(categories))
		}
		for i, c := range categories {
			if c.ID != defaults[i].ID || c.Label != defaults[i].Label {
				t.Errorf("category %d = %+v, want %+v", i, c, defaults[i])
			}
		}
	})
}

func TestSQLiteStore_Roster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createGroup(t, store, "Roster")

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		if err := store.AddParticipant(ctx, &models.Participant{GroupID: group.ID, Name: name}); err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", name, err)
		}
	}

	participants, err := store.ListParticipants(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	want := []string{"Charlie", "Alice", "Bob"}
	if len(participants) != len(want) {
		t.Fatalf("Expected %d participants, got %d", len(want), len(participants))
	}
	for i, p := range participants {
		if p.Name != want[i] {
			t.Errorf("participant %d = %s, want %s (insertion order)", i, p.Name, want[i])
		}
		if p.ID == "" {
			t.Errorf("participant %d has no ID", i)
		}
	}

	err = store.AddParticipant(ctx, &models.Participant{GroupID: "missing", Name: "Eve"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddParticipant to missing group: expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_ExpenseSharesKeepOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createGroup(t, store, "Order")

	expense := &models.Expense{
		GroupID:      group.ID,
		Amount:       30,
		PaidBy:       calculator.Shares{{ParticipantID: "z", Amount: 20}, {ParticipantID: "b", Amount: 10}},
		SplitDetails: calculator.Shares{{ParticipantID: "y", Amount: 10}, {ParticipantID: "x", Amount: 10}, {ParticipantID: "a", Amount: 10}},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !reflect.DeepEqual(got.PaidBy, expense.PaidBy) {
		t.Errorf("paid_by = %v, want %v", got.PaidBy, expense.PaidBy)
	}
	if !reflect.DeepEqual(got.SplitDetails, expense.SplitDetails) {
		t.Errorf("split_details = %v, want %v", got.SplitDetails, expense.SplitDetails)
	}
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createGroup(t, store, "Expenses")

	dinner := &models.Expense{
		GroupID:      group.ID,
		Description:  "Dinner",
		Amount:       90,
		PaidBy:       calculator.Shares{{ParticipantID: "a", Amount: 90}},
		SplitDetails: calculator.Shares{{ParticipantID: "a", Amount: 30}, {ParticipantID: "b", Amount: 30}, {ParticipantID: "c", Amount: 30}},
		Category:     "food",
		Date:         "2024-03-01T19:00:00.000Z",
	}

	t.Run("CreateExpense and GetExpense", func(t *testing.T) {
		if err := store.CreateExpense(ctx, dinner); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if dinner.ID == "" || dinner.CreatedAt == 0 {
			t.Fatalf("Expected ID and CreatedAt to be set: %+v", dinner)
		}

		got, err := store.GetExpense(ctx, dinner.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Description != "Dinner" || got.Amount != 90 || got.Date != dinner.Date || got.Category != "food" {
			t.Errorf("GetExpense mismatch: got %+v", got)
		}
		if got.PaidBy.Get("a") != 90 || len(got.SplitDetails) != 3 || got.SplitDetails.Get("c") != 30 {
			t.Errorf("shares mismatch: paid_by=%v split_details=%v", got.PaidBy, got.SplitDetails)
		}
	})

	t.Run("UpdateExpense keeps group and creation time", func(t *testing.T) {
		update := &models.Expense{
			ID:           dinner.ID,
			Description:  "Dinner (fixed)",
			Amount:       60,
			PaidBy:       calculator.Shares{{ParticipantID: "b", Amount: 60}},
			SplitDetails: calculator.Shares{{ParticipantID: "a", Amount: 30}, {ParticipantID: "b", Amount: 30}},
			Category:     "food",
			Date:         dinner.Date,
		}
		if err := store.UpdateExpense(ctx, update); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if update.GroupID != group.ID || update.CreatedAt != dinner.CreatedAt {
			t.Errorf("UpdateExpense did not fill stored fields: %+v", update)
		}

		got, err := store.GetExpense(ctx, dinner.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != 60 || got.PaidBy.Get("b") != 60 || len(got.SplitDetails) != 2 {
			t.Errorf("UpdateExpense not persisted: %+v", got)
		}
	})

	t.Run("ListExpenses keeps recording order", func(t *testing.T) {
		taxi := &models.Expense{GroupID: group.ID, Description: "Taxi", Amount: 20, Category: "transport"}
		if err := store.CreateExpense(ctx, taxi); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 2 || expenses[0].ID != dinner.ID || expenses[1].ID != taxi.ID {
			t.Fatalf("unexpected expense order: %+v", expenses)
		}
		if expenses[1].PaidBy == nil || len(expenses[1].PaidBy) != 0 {
			t.Errorf("expected empty (non-nil) paid_by, got %v", expenses[1].PaidBy)
		}
	})

	t.Run("LoadLedger", func(t *testing.T) {
		if err := store.AddParticipant(ctx, &models.Participant{GroupID: group.ID, Name: "Alice"}); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}

		ledger, err := store.LoadLedger(ctx, group.ID)
		if err != nil {
			t.Fatalf("LoadLedger failed: %v", err)
		}
		if ledger.Group.ID != group.ID || len(ledger.Participants) != 1 || len(ledger.Expenses) != 2 {
			t.Errorf("unexpected ledger: group=%v participants=%d expenses=%d",
				ledger.Group, len(ledger.Participants), len(ledger.Expenses))
		}

		if _, err := store.LoadLedger(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("LoadLedger(missing): expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, dinner.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, dinner.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteExpense(ctx, dinner.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateExpense for missing group", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{GroupID: "missing", Amount: 1})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Categories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createGroup(t, store, "Categories")

	custom := &models.Category{GroupID: group.ID, Label: "Groceries", Icon: "🛒"}
	if err := store.CreateCategory(ctx, custom); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if custom.ID == "" {
		t.Fatal("Expected category ID to be generated")
	}

	categories, err := store.ListCategories(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if last := categories[len(categories)-1]; last.ID != custom.ID {
		t.Errorf("expected custom category last, got %+v", last)
	}

	if err := store.DeleteCategory(ctx, group.ID, "food"); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if err := store.DeleteCategory(ctx, group.ID, "food"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	categories, _ = store.ListCategories(ctx, group.ID)
	if len(categories) != len(models.DefaultCategories()) {
		t.Errorf("expected %d categories after add+delete, got %d", len(models.DefaultCategories()), len(categories))
	}
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	group := createGroup(t, store, "Persistent")
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetGroup(context.Background(), group.ID); err != nil {
		t.Errorf("GetGroup after reopen failed: %v", err)
	}
}

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := generateInviteCode()
		if len(code) != 8 {
			t.Errorf("invite code %q has length %d, want 8", code, len(code))
		}
		if seen[code] {
			t.Errorf("duplicate invite code %q", code)
		}
		seen[code] = true
	}
}
