// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Ledger is everything the balance calculation needs for one group.
type Ledger struct {
	Group        *models.Group
	Participants []*models.Participant
	Expenses     []*models.Expense
}

// Store defines the interface for group ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lists are returned in creation order, which is the order balances are
// reported in.
type Store interface {
	// CreateGroup persists a new group and seeds its default categories.
	// ID, InviteCode and CreatedAt are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)

	AddParticipant(ctx context.Context, participant *models.Participant) error
	ListParticipants(ctx context.Context, groupID string) ([]*models.Participant, error)

	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// UpdateExpense replaces every field except ID, GroupID and CreatedAt.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, groupID, categoryID string) error
	ListCategories(ctx context.Context, groupID string) ([]*models.Category, error)

	// LoadLedger reads a group's roster and full expense history.
	LoadLedger(ctx context.Context, groupID string) (*Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}
