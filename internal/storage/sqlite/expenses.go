package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "id, group_id, description, amount, paid_by, split_details, category, date, created_at"

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if _, err := s.GetGroup(ctx, expense.GroupID); err != nil {
		return err
	}

	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	paidBy, splitDetails, err := encodeShares(expense)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Description, expense.Amount,
		paidBy, splitDetails, expense.Category, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// UpdateExpense overwrites an existing expense. GroupID and CreatedAt are
// filled in from the stored row.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	existing, err := s.GetExpense(ctx, expense.ID)
	if err != nil {
		return err
	}
	expense.GroupID = existing.GroupID
	expense.CreatedAt = existing.CreatedAt

	paidBy, splitDetails, err := encodeShares(expense)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount = ?, paid_by = ?, split_details = ?, category = ?, date = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, paidBy, splitDetails, expense.Category, expense.Date,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}

	return nil
}

// ListExpenses retrieves a group's expenses in the order they were recorded.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, groupID)
}

func listExpenses(ctx context.Context, q querier, groupID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var paidBy, splitDetails string
	if err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&paidBy, &splitDetails, &expense.Category, &expense.Date, &expense.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(paidBy), &expense.PaidBy); err != nil {
		return nil, fmt.Errorf("failed to decode paid_by: %w", err)
	}
	if err := json.Unmarshal([]byte(splitDetails), &expense.SplitDetails); err != nil {
		return nil, fmt.Errorf("failed to decode split_details: %w", err)
	}
	return expense, nil
}

// encodeShares stores shares as JSON objects in share order, so a reload
// rebuilds balances with participants in the same order.
func encodeShares(expense *models.Expense) (string, string, error) {
	paidBy, err := json.Marshal(expense.PaidBy)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode paid_by: %w", err)
	}
	splitDetails, err := json.Marshal(expense.SplitDetails)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode split_details: %w", err)
	}
	return string(paidBy), string(splitDetails), nil
}
