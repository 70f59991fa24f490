package storage

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
)

// NotifyingStore wraps a Store and publishes an event after every successful
// mutation. Publish failures are logged and never fail the write.
type NotifyingStore struct {
	Store
	publisher events.Publisher
}

// WithNotifications returns store decorated to publish changes to publisher.
func WithNotifications(store Store, publisher events.Publisher) *NotifyingStore {
	return &NotifyingStore{Store: store, publisher: publisher}
}

func (s *NotifyingStore) notify(ctx context.Context, groupID string, kind events.Kind, entityID string) {
	if err := s.publisher.Publish(ctx, events.New(groupID, kind, entityID)); err != nil {
		slog.WarnContext(ctx, "Failed to publish change",
			"group_id", groupID,
			"kind", kind,
			"entity_id", entityID,
			"error", err,
		)
	}
}

func (s *NotifyingStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := s.Store.CreateGroup(ctx, group); err != nil {
		return err
	}
	s.notify(ctx, group.ID, events.GroupCreated, group.ID)
	return nil
}

func (s *NotifyingStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if err := s.Store.AddParticipant(ctx, participant); err != nil {
		return err
	}
	s.notify(ctx, participant.GroupID, events.ParticipantAdded, participant.ID)
	return nil
}

func (s *NotifyingStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.Store.CreateExpense(ctx, expense); err != nil {
		return err
	}
	s.notify(ctx, expense.GroupID, events.ExpenseCreated, expense.ID)
	return nil
}

func (s *NotifyingStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.Store.UpdateExpense(ctx, expense); err != nil {
		return err
	}
	s.notify(ctx, expense.GroupID, events.ExpenseUpdated, expense.ID)
	return nil
}

// DeleteExpense looks the expense up first so the event carries its group.
func (s *NotifyingStore) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := s.Store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	s.notify(ctx, expense.GroupID, events.ExpenseDeleted, expenseID)
	return nil
}

func (s *NotifyingStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := s.Store.CreateCategory(ctx, category); err != nil {
		return err
	}
	s.notify(ctx, category.GroupID, events.CategoryCreated, category.ID)
	return nil
}

func (s *NotifyingStore) DeleteCategory(ctx context.Context, groupID, categoryID string) error {
	if err := s.Store.DeleteCategory(ctx, groupID, categoryID); err != nil {
		return err
	}
	s.notify(ctx, groupID, events.CategoryDeleted, categoryID)
	return nil
}
