package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SavedPlanInfo identifies a saved plan. The user-chosen name is the storage
// key, so ID and Name are the same value.
type SavedPlanInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlanRepository persists named diet plans per owner. Names are unique per
// owner and a save never overwrites an existing plan.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Exists reports whether the owner already has a plan saved under name.
func (r *PlanRepository) Exists(ctx context.Context, userID, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM diet_plans WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plan existence: %w", err)
	}
	return count > 0, nil
}

// Save stores a parsed plan under (userID, name). It returns ErrDuplicateName
// if the name is already taken for this owner.
func (r *PlanRepository) Save(ctx context.Context, userID, name string, plan []DayPlan) error {
	exists, err := r.Exists(ctx, userID, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateName
	}

	planData, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal diet plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO diet_plans (user_id, name, plan_data, created_at) VALUES (?, ?, ?, ?)`,
		userID, name, string(planData), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert diet plan: %w", err)
	}
	return nil
}

// List returns the saved plan names for an owner, oldest first.
func (r *PlanRepository) List(ctx context.Context, userID string) ([]SavedPlanInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM diet_plans WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diet plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []SavedPlanInfo
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan diet plan row: %w", err)
		}
		plans = append(plans, SavedPlanInfo{ID: name, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diet plan rows: %w", err)
	}
	return plans, nil
}

// Load returns the stored plan for (userID, name), or ErrNotFound.
func (r *PlanRepository) Load(ctx context.Context, userID, name string) ([]DayPlan, error) {
	var planData string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_data FROM diet_plans WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&planData)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diet plan: %w", err)
	}

	var plan []DayPlan
	if err := json.Unmarshal([]byte(planData), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diet plan: %w", err)
	}
	return plan, nil
}

// Delete removes the plan saved under (userID, name). Deleting a name that
// does not exist is not an error.
func (r *PlanRepository) Delete(ctx context.Context, userID, name string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM diet_plans WHERE user_id = ? AND name = ?`,
		userID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete diet plan: %w", err)
	}
	return nil
}
