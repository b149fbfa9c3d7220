package analytics

import (
	"fmt"
	"math"
)

// RiskAssessment is the verdict returned by the risk endpoint.
type RiskAssessment struct {
	Level          RiskLevel `json:"level"`
	Percentage     int       `json:"percentage"`
	Recommendation string    `json:"recommendation"`
}

// RiskScore maps income and expense totals to 0..100. Spending grows the
// score super-linearly: ratio^1.5 * 100, capped at 100.
func RiskScore(income, expense float64) int {
	if income <= 0 {
		if expense > 0 {
			return 100
		}
		return 0
	}
	ratio := math.Max(0, expense/income)
	return int(math.Min(100, math.Round(math.Pow(ratio, 1.5)*100)))
}

// scoreCategory discretizes a score: <40 low, <75 medium, <100 high, else extreme.
func scoreCategory(score int) int {
	switch {
	case score < 40:
		return 0
	case score < 75:
		return 1
	case score < 100:
		return 2
	default:
		return 3
	}
}

// RiskLevelFor returns the risk level the lookup table assigns to a score.
func RiskLevelFor(score int) RiskLevel {
	return lookupRisk(scoreCategory(score))
}

// AssessRisk scores a user's lifetime income and expense totals.
// topCategory is the user's largest expense category, empty if none; it is
// named in the recommendation for every level above Low.
func AssessRisk(income, expense float64, topCategory string) RiskAssessment {
	score := RiskScore(income, expense)
	level := RiskLevelFor(score)

	ratio := 1.0
	if income > 0 {
		ratio = expense / income
	}
	spent := math.Round(ratio * 100)

	var recommendation string
	switch level {
	case RiskExtreme:
		recommendation = "Your spending has exceeded your income. This is an extreme risk situation requiring immediate action."
	case RiskHigh:
		recommendation = fmt.Sprintf("You're spending %.0f%% of your income, leaving a very small savings buffer. This is a high-risk situation.", spent)
	case RiskMedium:
		recommendation = fmt.Sprintf("You're spending %.0f%% of your income. Watch out for non-essential expenses to improve your savings.", spent)
	default:
		recommendation = "Great job keeping your spending in check!"
	}
	if level != RiskLow && topCategory != "" {
		recommendation += fmt.Sprintf(" Your top spending category is '%s'.", topCategory)
	}

	return RiskAssessment{Level: level, Percentage: score, Recommendation: recommendation}
}

// AssessRecords is AssessRisk over a full transaction history.
func AssessRecords(records []Record) RiskAssessment {
	income, expense := Totals(records)
	top, _ := TopExpenseCategory(records)
	return AssessRisk(income, expense, top)
}
