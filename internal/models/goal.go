package models

import "github.com/Dan9191/budget-service/internal/analytics"

// Goal represents a savings target. A zero TargetDate means none was set.
type Goal struct {
	ID         string  `json:"_id"`
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	GoalAmount float64 `json:"goal_amount"`
	TargetDate Date    `json:"target_date"`
}

// GoalView is a goal with its forecast, recomputed on every read
type GoalView struct {
	Goal
	RequiredMonthlySavings *float64             `json:"required_monthly_savings,omitempty"`
	CurrentMonthlySavings  *float64             `json:"current_monthly_savings,omitempty"`
	Likelihood             analytics.Likelihood `json:"likelihood"`
	Advice                 string               `json:"advice"`
}
