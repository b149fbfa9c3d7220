package models

import "github.com/Dan9191/budget-service/internal/analytics"

// Summary represents lifetime income and expense statistics
type Summary struct {
	TotalIncome        float64                   `json:"total_income"`
	TotalExpense       float64                   `json:"total_expense"`
	Balance            float64                   `json:"balance"`
	ExpensesByCategory []analytics.CategoryTotal `json:"expenses_by_category"`
}
