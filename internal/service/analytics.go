package service

import (
	"context"
	"strings"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/models"
)

// Summary returns lifetime totals and the expense breakdown
func (s *Service) Summary(ctx context.Context, userID string) (*models.Summary, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	income, expense := analytics.Totals(records)
	return &models.Summary{
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            income - expense,
		ExpensesByCategory: analytics.ExpensesByCategory(records),
	}, nil
}

// CategoricalSummary returns expense totals per category, largest first
func (s *Service) CategoricalSummary(ctx context.Context, userID string) ([]analytics.CategoryTotal, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{Type: models.TransactionExpense})
	if err != nil {
		return nil, err
	}
	return analytics.ExpensesByCategory(records), nil
}

// Analysis returns the income and expense series at every granularity
func (s *Service) Analysis(ctx context.Context, userID string) (analytics.Analysis, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return analytics.Analysis{}, err
	}
	return analytics.BuildAnalysis(records), nil
}

// Trends returns per-category expense series over the user's whole history.
// rule is a resampling rule such as "D", "W-MON" or "ME".
func (s *Service) Trends(ctx context.Context, userID, rule string) (analytics.Trends, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return analytics.Trends{}, err
	}
	start, end, ok := analytics.DateRange(records)
	if !ok {
		return analytics.EmptyTrends(), nil
	}
	return analytics.BuildTrends(records, start, end, analytics.ParseRule(rule)), nil
}

// Insights returns natural-language observations at the given granularity.
// Insights that fail are replaced by a placeholder and logged.
func (s *Service) Insights(ctx context.Context, userID, timeframe string) (analytics.Insights, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return analytics.Insights{}, err
	}
	insights, err := analytics.GenerateInsights(records, analytics.ParseGranularity(timeframe), s.currency())
	s.logComputation(userID, err)
	return insights, nil
}

// Risk rates the user's lifetime spending against income
func (s *Service) Risk(ctx context.Context, userID string) (analytics.RiskAssessment, error) {
	records, err := s.history(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return analytics.RiskAssessment{}, err
	}
	return analytics.AssessRecords(records), nil
}

// CheckAnomaly decides whether a prospective expense is unusual for the user
func (s *Service) CheckAnomaly(ctx context.Context, userID string, check analytics.AnomalyCheck) (analytics.AnomalyResult, error) {
	check.Category = strings.TrimSpace(check.Category)
	if check.Category == "" {
		return analytics.AnomalyResult{}, invalid("category is required")
	}
	if check.Amount <= 0 {
		return analytics.AnomalyResult{}, invalid("amount must be a positive number")
	}
	records, err := s.history(ctx, userID, models.TransactionFilter{Type: models.TransactionExpense})
	if err != nil {
		return analytics.AnomalyResult{}, err
	}
	return analytics.DetectAnomaly(records, check, s.currency()), nil
}

func (s *Service) currency() string {
	if s.config == nil || s.config.CurrencySymbol == "" {
		return analytics.DefaultCurrencySymbol
	}
	return s.config.CurrencySymbol
}

// logComputation records analytics failures that were degraded rather than returned
func (s *Service) logComputation(userID string, err error) {
	if err == nil {
		return
	}
	entry := s.log.WithField("user_id", userID)
	if analytics.IsComputationError(err) {
		entry.WithField("degraded", true).Errorf("Analytics computation failed: %+v", err)
		return
	}
	entry.Errorf("Analytics failed: %v", err)
}
