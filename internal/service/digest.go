package service

import (
	"context"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/models"
)

// Digest is the periodic summary mailed to a user whose finances need attention
type Digest struct {
	User       models.User
	Risk       analytics.RiskAssessment
	AtRisk     []analytics.GoalForecast
	Currency   string
	GoalsTotal int
}

// NeedsAttention reports whether the digest is worth sending
func (d *Digest) NeedsAttention() bool {
	return len(d.AtRisk) > 0 || d.Risk.Level == analytics.RiskHigh || d.Risk.Level == analytics.RiskExtreme
}

// Users lists every registered user
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

// BuildDigest computes risk and goal forecasts for one user
func (s *Service) BuildDigest(ctx context.Context, user models.User) (*Digest, error) {
	risk, err := s.Risk(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	forecasts, err := s.forecast(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	d := &Digest{User: user, Risk: risk, Currency: s.currency(), GoalsTotal: len(forecasts)}
	for _, fc := range forecasts {
		if fc.Likelihood.Level == analytics.SuccessLow {
			d.AtRisk = append(d.AtRisk, fc.GoalForecast)
		}
	}
	return d, nil
}
