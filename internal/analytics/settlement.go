package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SettlementTolerance is the residual below which a balance counts as settled.
var SettlementTolerance = decimal.New(1, -2)

// SharedExpense is one group expense split equally among its participants.
type SharedExpense struct {
	Amount       decimal.Decimal
	PaidBy       string
	Participants []string
}

// Transfer is a single payment instruction in a settlement plan.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Settlement holds the members' balances before settling and the plan that
// clears them.
type Settlement struct {
	Balances  map[string]decimal.Decimal `json:"balances"`
	Transfers []Transfer                 `json:"simplified_debts"`
}

// ComputeBalances credits each payer with the full amount and debits every
// participant an equal share. Ids that are not members are ignored and
// expenses without participants are skipped. Positive balances are owed money.
func ComputeBalances(members []string, expenses []SharedExpense) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m] = decimal.Zero
	}
	for _, e := range expenses {
		if len(e.Participants) == 0 {
			continue
		}
		share := e.Amount.Div(decimal.NewFromInt(int64(len(e.Participants))))
		if b, ok := balances[e.PaidBy]; ok {
			balances[e.PaidBy] = b.Add(e.Amount)
		}
		for _, p := range e.Participants {
			if b, ok := balances[p]; ok {
				balances[p] = b.Sub(share)
			}
		}
	}
	return balances
}

type party struct {
	id      string
	balance decimal.Decimal
}

// SimplifyDebts matches the largest debtor with the largest creditor until
// one side runs out. Each step moves min(|debt|, credit). This greedy
// matching always clears every balance to within SettlementTolerance but is
// not guaranteed to use the fewest possible transfers.
// Members order breaks ties between equal balances.
func SimplifyDebts(members []string, balances map[string]decimal.Decimal) []Transfer {
	var debtors, creditors []party
	negTol := SettlementTolerance.Neg()
	for _, m := range members {
		b, ok := balances[m]
		if !ok {
			continue
		}
		switch {
		case b.LessThan(negTol):
			debtors = append(debtors, party{m, b})
		case b.GreaterThan(SettlementTolerance):
			creditors = append(creditors, party{m, b})
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance.LessThan(debtors[j].balance)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance.GreaterThan(creditors[j].balance)
	})

	transfers := []Transfer{}
	di, ci := 0, 0
	for di < len(debtors) && ci < len(creditors) {
		d, c := &debtors[di], &creditors[ci]
		amount := decimal.Min(d.balance.Abs(), c.balance)
		transfers = append(transfers, Transfer{From: d.id, To: c.id, Amount: amount})
		d.balance = d.balance.Add(amount)
		c.balance = c.balance.Sub(amount)
		if d.balance.Abs().LessThan(SettlementTolerance) {
			di++
		}
		if c.balance.Abs().LessThan(SettlementTolerance) {
			ci++
		}
	}
	return transfers
}

// Settle computes balances for a group and the plan that settles them.
func Settle(members []string, expenses []SharedExpense) Settlement {
	balances := ComputeBalances(members, expenses)
	return Settlement{
		Balances:  balances,
		Transfers: SimplifyDebts(members, balances),
	}
}
