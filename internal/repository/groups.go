package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/budget-service/internal/models"
	"github.com/lib/pq"
)

// CreateGroup stores a group; its creator is the first member
func (r *Repository) CreateGroup(ctx context.Context, g *models.Group) error {
	if len(g.Members) == 0 {
		g.Members = []string{g.CreatedBy}
	}
	query := `
		INSERT INTO budget.groups (name, created_by, members)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, g.Name, g.CreatedBy, pq.Array(g.Members)).Scan(&g.ID); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// FindGroup retrieves a group by id
func (r *Repository) FindGroup(ctx context.Context, id string) (*models.Group, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	g := &models.Group{}
	query := `SELECT id, name, created_by, members FROM budget.groups WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, pq.Array(&g.Members))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return g, nil
}

// ListGroupsForMember returns every group userID belongs to
func (r *Repository) ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error) {
	if !validID(userID) {
		return nil, nil
	}
	query := `
		SELECT id, name, created_by, members
		FROM budget.groups
		WHERE $1 = ANY(members)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, pq.Array(&g.Members)); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddGroupMember appends userID to the group's members unless already present
func (r *Repository) AddGroupMember(ctx context.Context, groupID, userID string) error {
	if !validID(groupID, userID) {
		return ErrNotFound
	}
	query := `
		UPDATE budget.groups
		SET members = CASE WHEN $2::bigint = ANY(members) THEN members ELSE array_append(members, $2::bigint) END
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return expectRow(res)
}

// RenameGroup changes a group's name
func (r *Repository) RenameGroup(ctx context.Context, id, name string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE budget.groups SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename group: %w", err)
	}
	return expectRow(res)
}

// DeleteGroup removes a group and all of its expenses
func (r *Repository) DeleteGroup(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget.group_expenses WHERE group_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete group expenses: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM budget.groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := expectRow(res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group deletion: %w", err)
	}
	return nil
}

// CreateGroupExpense stores an expense against a group
func (r *Repository) CreateGroupExpense(ctx context.Context, e *models.GroupExpense) error {
	query := `
		INSERT INTO budget.group_expenses (group_id, description, amount, paid_by, participants, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, e.GroupID, e.Description, e.Amount, e.PaidBy, pq.Array(e.Participants)).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group expense: %w", err)
	}
	return nil
}

// ListGroupExpenses returns a group's expenses oldest first
func (r *Repository) ListGroupExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error) {
	if !validID(groupID) {
		return nil, nil
	}
	query := `
		SELECT id, group_id, description, amount, paid_by, participants, created_at
		FROM budget.group_expenses
		WHERE group_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	defer rows.Close()

	var out []models.GroupExpense
	for rows.Next() {
		var e models.GroupExpense
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.PaidBy, pq.Array(&e.Participants), &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindUsersByIDs returns the public profile of each listed user
func (r *Repository) FindUsersByIDs(ctx context.Context, ids []string) ([]models.MemberDetails, error) {
	if len(ids) == 0 || !validID(ids...) {
		return []models.MemberDetails{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, email FROM budget.users WHERE id = ANY($1::bigint[]) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer rows.Close()

	out := []models.MemberDetails{}
	for rows.Next() {
		var m models.MemberDetails
		if err := rows.Scan(&m.ID, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
