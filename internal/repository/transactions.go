package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/budget-service/internal/models"
)

// CreateTransaction stores a new transaction for its user
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO budget.transactions (user_id, type, category, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, tx.UserID, tx.Type, tx.Category, tx.Amount, tx.Date.String()).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactions returns a user's transactions ordered by date
func (r *Repository) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	if !validID(userID) {
		return nil, nil
	}
	var (
		where = []string{"user_id = $1"}
		args  = []interface{}{userID}
	)
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if !f.From.IsZero() {
		args = append(args, f.From.Format(models.DateLayout))
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !f.To.IsZero() {
		args = append(args, f.To.Format(models.DateLayout))
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	order := "ASC"
	if f.NewestFirst {
		order = "DESC"
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, type, category, amount, date, created_at
		FROM budget.transactions
		WHERE %s
		ORDER BY date %s, id %s`, strings.Join(where, " AND "), order, order)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Date.Time, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTransaction overwrites a transaction owned by tx.UserID
func (r *Repository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if !validID(tx.ID, tx.UserID) {
		return ErrNotFound
	}
	query := `
		UPDATE budget.transactions
		SET type = $3, category = $4, amount = $5, date = $6
		WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, tx.ID, tx.UserID, tx.Type, tx.Category, tx.Amount, tx.Date.String())
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return expectRow(res)
}

// DeleteTransaction removes a transaction owned by userID
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	if !validID(id, userID) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget.transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectRow(res)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func expectRow(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
