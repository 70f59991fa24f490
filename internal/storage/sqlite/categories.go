package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateCategory adds a custom category to a group.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if _, err := s.GetGroup(ctx, category.GroupID); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (group_id, id, label, icon) VALUES (?, ?, ?, ?)",
		category.GroupID, category.ID, category.Label, category.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// DeleteCategory removes a category. Expenses filed under it keep the id.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, groupID, categoryID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE group_id = ? AND id = ?",
		groupID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: category %s", storage.ErrNotFound, categoryID)
	}

	return nil
}

// ListCategories retrieves a group's categories, defaults first.
func (s *SQLiteStore) ListCategories(ctx context.Context, groupID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, id, label, icon FROM categories WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.GroupID, &c.ID, &c.Label, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
