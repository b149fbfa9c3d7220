package service

import (
	"context"
	"math"
	"strings"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/models"
)

// GoalInput is the caller-supplied part of a goal
type GoalInput struct {
	Name       string      `json:"name"`
	GoalAmount float64     `json:"goal_amount"`
	TargetDate models.Date `json:"target_date"`
}

// AddGoal stores a savings goal. The target date is optional.
func (s *Service) AddGoal(ctx context.Context, userID string, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if math.IsNaN(in.GoalAmount) || math.IsInf(in.GoalAmount, 0) || in.GoalAmount <= 0 {
		return nil, invalid("goal_amount must be a positive number")
	}
	g := &models.Goal{
		UserID:     userID,
		Name:       name,
		GoalAmount: in.GoalAmount,
		TargetDate: in.TargetDate,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

// ListGoals returns the user's dated goals, each with a fresh forecast
func (s *Service) ListGoals(ctx context.Context, userID string) ([]models.GoalView, error) {
	forecasts, err := s.forecast(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.GoalView, 0, len(forecasts))
	for _, fc := range forecasts {
		views = append(views, toGoalView(fc.goal, fc.GoalForecast))
	}
	return views, nil
}

// DeleteGoal removes one of the user's goals
func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	return storeErr(s.repo.DeleteGoal(ctx, userID, id))
}

type goalForecast struct {
	analytics.GoalForecast
	goal models.Goal
}

// forecast runs the goal forecaster over the user's goals and recent history
func (s *Service) forecast(ctx context.Context, userID string) ([]goalForecast, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(goals) == 0 {
		return nil, nil
	}

	now := s.now()
	records, err := s.history(ctx, userID, models.TransactionFilter{
		From: now.AddDate(0, 0, -analytics.ForecastWindowDays),
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Goal, len(goals))
	inputs := make([]analytics.Goal, 0, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
		inputs = append(inputs, analytics.Goal{
			ID:         g.ID,
			Name:       g.Name,
			Amount:     g.GoalAmount,
			TargetDate: g.TargetDate.Time,
		})
	}

	forecasts, err := analytics.ForecastGoals(now, records, inputs, s.currency())
	s.logComputation(userID, err)

	out := make([]goalForecast, 0, len(forecasts))
	for _, fc := range forecasts {
		out = append(out, goalForecast{GoalForecast: fc, goal: byID[fc.Goal.ID]})
	}
	return out, nil
}

func toGoalView(g models.Goal, fc analytics.GoalForecast) models.GoalView {
	view := models.GoalView{
		Goal:       g,
		Likelihood: fc.Likelihood,
		Advice:     fc.Advice,
	}
	if fc.Likelihood.Level != analytics.SuccessUnknown {
		required, current := roundCents(fc.RequiredMonthlySavings), roundCents(fc.CurrentMonthlySavings)
		view.RequiredMonthlySavings = &required
		view.CurrentMonthlySavings = &current
	}
	return view
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
