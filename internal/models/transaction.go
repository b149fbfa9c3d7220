package models

import "time"

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction represents a single income or expense entry
type Transaction struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      Date      `json:"date"`
	CreatedAt time.Time `json:"-"`
}

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	Type        string
	From        time.Time
	To          time.Time
	NewestFirst bool
}
