package models

import (
	"time"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/shopspring/decimal"
)

// Group is a set of users sharing expenses
type Group struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	Members   []string `json:"members"`
}

// IsMember reports whether userID belongs to the group
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// GroupExpense is an expense paid by one member and split equally among participants
type GroupExpense struct {
	ID           string          `json:"_id"`
	GroupID      string          `json:"group_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paid_by_user_id"`
	Participants []string        `json:"participants"`
	CreatedAt    time.Time       `json:"created_at"`
}

// GroupDetails is the full view of a group with its settlement plan
type GroupDetails struct {
	Group           Group                      `json:"group"`
	Expenses        []GroupExpense             `json:"expenses"`
	Balances        map[string]decimal.Decimal `json:"balances"`
	MembersDetails  []MemberDetails            `json:"members_details"`
	SimplifiedDebts []analytics.Transfer       `json:"simplified_debts"`
}
