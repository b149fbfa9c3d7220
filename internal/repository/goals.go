package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/budget-service/internal/models"
)

// CreateGoal stores a savings goal
func (r *Repository) CreateGoal(ctx context.Context, g *models.Goal) error {
	var target sql.NullString
	if !g.TargetDate.IsZero() {
		target = sql.NullString{String: g.TargetDate.String(), Valid: true}
	}
	query := `
		INSERT INTO budget.goals (user_id, name, goal_amount, target_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, g.UserID, g.Name, g.GoalAmount, target).Scan(&g.ID); err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// ListGoals returns a user's goals in creation order
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	if !validID(userID) {
		return nil, nil
	}
	query := `
		SELECT id, user_id, name, goal_amount, target_date
		FROM budget.goals
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []models.Goal
	for rows.Next() {
		var (
			g      models.Goal
			target sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.GoalAmount, &target); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if target.Valid {
			g.TargetDate = models.NewDate(target.Time)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGoal removes a goal owned by userID
func (r *Repository) DeleteGoal(ctx context.Context, userID, id string) error {
	if !validID(id, userID) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM budget.goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return expectRow(res)
}
