package analytics

import "sort"

// TablesVersion identifies the revision of the fixed conditional tables below.
// Bump it whenever a probability changes so stored verdicts can be traced.
const TablesVersion = "2025.08-1"

// RiskLevel is the categorical outcome of the risk scorer.
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskExtreme RiskLevel = "Extreme"
)

var riskLevels = [4]RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskExtreme}

// riskTable[out][scoreCategory] = P(RiskLevel=out | ScoreCategory).
// Each column sums to 1.
var riskTable = [4][4]float64{
	{0.97, 0.10, 0.01, 0.01},
	{0.02, 0.80, 0.20, 0.01},
	{0.01, 0.10, 0.70, 0.18},
	{0.00, 0.00, 0.09, 0.80},
}

// SuccessLevel is the likelihood that a savings goal is met.
type SuccessLevel string

const (
	SuccessUnknown SuccessLevel = "Unknown"
	SuccessLow     SuccessLevel = "Low"
	SuccessMedium  SuccessLevel = "Medium"
	SuccessHigh    SuccessLevel = "High"
)

var successLevels = [3]SuccessLevel{SuccessLow, SuccessMedium, SuccessHigh}

// Surplus levels, indexed as in the success table.
const (
	surplusNegative = iota
	surplusSufficient
	surplusHigh
)

// Volatility levels, indexed as in the success table.
const (
	volatilityLow = iota
	volatilityHigh
)

// successTable[out][volatility*3+surplus] = P(Success=out | Surplus, Volatility).
// Column order: (Neg,Low) (Suff,Low) (High,Low) (Neg,High) (Suff,High) (High,High).
var successTable = [3][6]float64{
	{0.90, 0.15, 0.01, 0.99, 0.40, 0.10},
	{0.09, 0.70, 0.19, 0.01, 0.50, 0.30},
	{0.01, 0.15, 0.80, 0.00, 0.10, 0.60},
}

// lookupRisk returns the most probable risk level for a score category.
func lookupRisk(scoreCategory int) RiskLevel {
	best := 0
	for out := 1; out < len(riskTable); out++ {
		if riskTable[out][scoreCategory] > riskTable[best][scoreCategory] {
			best = out
		}
	}
	return riskLevels[best]
}

// lookupSuccess returns the most probable success level and its probability.
func lookupSuccess(surplus, volatility int) (SuccessLevel, float64) {
	col := volatility*3 + surplus
	best := 0
	for out := 1; out < len(successTable); out++ {
		if successTable[out][col] > successTable[best][col] {
			best = out
		}
	}
	return successLevels[best], successTable[best][col]
}

func sortCategoryTotals(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
}
