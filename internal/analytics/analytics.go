// Package analytics holds the computations behind the budget API: time-series
// bucketing, risk scoring, insights, goal forecasting, anomaly detection and
// group debt settlement. Nothing in this package performs I/O; every function
// works on request-scoped input and returns freshly allocated results.
package analytics

import (
	"time"
)

// TxType distinguishes income from expense records.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// Record is the view of a transaction the analytics need.
type Record struct {
	Type     TxType
	Category string
	Amount   float64
	Date     time.Time
}

// Totals sums income and expense amounts.
func Totals(records []Record) (income, expense float64) {
	for _, r := range records {
		switch r.Type {
		case Income:
			income += r.Amount
		case Expense:
			expense += r.Amount
		}
	}
	return income, expense
}

// CategoryTotal is the accumulated spend for one category.
type CategoryTotal struct {
	Category string  `json:"_id"`
	Total    float64 `json:"total"`
}

// ExpensesByCategory sums expense amounts per category, largest first.
// Equal totals keep the order in which categories first appear.
func ExpensesByCategory(records []Record) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, r := range records {
		if r.Type != Expense {
			continue
		}
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryTotal{Category: r.Category})
		}
		out[i].Total += r.Amount
	}
	sortCategoryTotals(out)
	return out
}

// TopExpenseCategory returns the category with the largest expense total.
func TopExpenseCategory(records []Record) (string, bool) {
	totals := ExpensesByCategory(records)
	if len(totals) == 0 {
		return "", false
	}
	return totals[0].Category, true
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
