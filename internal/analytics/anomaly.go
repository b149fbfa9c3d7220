package analytics

import (
	"fmt"
	"math"
	"sort"
)

const (
	// MinAnomalyHistory is the fewest expense records a check needs.
	MinAnomalyHistory = 10

	// NotEnoughDataMessage is returned when the history is too short.
	NotEnoughDataMessage = "Not enough data for anomaly detection."

	anomalyQuantile = 0.95
	amountLevels    = 3
)

// AnomalyCheck is a prospective expense to test against the history.
type AnomalyCheck struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
}

// AnomalyResult is the outcome of an anomaly check.
type AnomalyResult struct {
	IsAnomaly bool   `json:"is_anomaly"`
	Message   string `json:"message"`
}

type evidence struct {
	category string
	level    int
}

type anomalyCount struct {
	total     int
	anomalies int
}

// AnomalyModel is the per-request fit of P(IsAnomaly | Category, AmountLevel)
// over one user's expense history.
type AnomalyModel struct {
	// Edges are the tertile cut points over history plus candidate amount.
	Edges []float64
	// Thresholds holds each category's 95th percentile amount.
	Thresholds map[string]float64
	// PCategory and PAmountLevel are the marginal frequencies of the history.
	PCategory    map[string]float64
	PAmountLevel map[int]float64

	counts map[evidence]anomalyCount
}

// FitAnomalyModel labels every historical expense above its category's 95th
// percentile as anomalous, bins all amounts into tertiles computed over the
// history together with candidateAmount, and counts anomalies per
// (category, level) pair.
func FitAnomalyModel(history []Record, candidateAmount float64) *AnomalyModel {
	byCategory := make(map[string][]float64)
	all := make([]float64, 0, len(history)+1)
	for _, r := range history {
		byCategory[r.Category] = append(byCategory[r.Category], r.Amount)
		all = append(all, r.Amount)
	}
	all = append(all, candidateAmount)

	m := &AnomalyModel{
		Edges:        tertileEdges(all),
		Thresholds:   make(map[string]float64, len(byCategory)),
		PCategory:    make(map[string]float64, len(byCategory)),
		PAmountLevel: make(map[int]float64, amountLevels),
		counts:       make(map[evidence]anomalyCount),
	}
	for category, amounts := range byCategory {
		m.Thresholds[category] = quantile(amounts, anomalyQuantile)
	}

	n := float64(len(history))
	for _, r := range history {
		level := m.Level(r.Amount)
		key := evidence{r.Category, level}
		c := m.counts[key]
		c.total++
		if r.Amount > m.Thresholds[r.Category] {
			c.anomalies++
		}
		m.counts[key] = c
		m.PCategory[r.Category] += 1 / n
		m.PAmountLevel[level] += 1 / n
	}
	return m
}

// Level returns the tertile an amount falls in, 0 for the lowest. Bins are
// closed on the right and the first bin includes its lower edge.
func (m *AnomalyModel) Level(amount float64) int {
	for i := 1; i < len(m.Edges); i++ {
		if amount <= m.Edges[i] {
			return i - 1
		}
	}
	if len(m.Edges) < 2 {
		return 0
	}
	return len(m.Edges) - 2
}

// Probability returns P(IsAnomaly | category, level). ok is false when the
// category never appeared in the history. A seen category with no records at
// that level gets the uniform estimate of 0.5.
func (m *AnomalyModel) Probability(category string, level int) (p float64, ok bool) {
	if _, seen := m.PCategory[category]; !seen {
		return 0, false
	}
	c, found := m.counts[evidence{category, level}]
	if !found || c.total == 0 {
		return 0.5, true
	}
	return float64(c.anomalies) / float64(c.total), true
}

// DetectAnomaly decides whether candidate is unusually high for its category
// given the user's history. Non-expense records in history are ignored.
// Unknown categories are never flagged.
func DetectAnomaly(history []Record, candidate AnomalyCheck, currency string) AnomalyResult {
	var expenses []Record
	for _, r := range history {
		if r.Type == Expense {
			expenses = append(expenses, r)
		}
	}
	if len(expenses) < MinAnomalyHistory {
		return AnomalyResult{IsAnomaly: false, Message: NotEnoughDataMessage}
	}

	m := FitAnomalyModel(expenses, candidate.Amount)
	p, ok := m.Probability(candidate.Category, m.Level(candidate.Amount))
	if !ok || p <= 0.5 {
		return AnomalyResult{IsAnomaly: false}
	}

	var sum float64
	var n int
	for _, r := range expenses {
		if r.Category == candidate.Category {
			sum += r.Amount
			n++
		}
	}
	return AnomalyResult{
		IsAnomaly: true,
		Message: fmt.Sprintf("This is an unusually high expense for '%s'. Your average is around %s.",
			candidate.Category, Money(currency, sum/float64(n))),
	}
}

// tertileEdges returns the distinct 0, 1/3, 2/3 and 1 quantiles of values.
func tertileEdges(values []float64) []float64 {
	var edges []float64
	for i := 0; i <= amountLevels; i++ {
		q := quantile(values, float64(i)/amountLevels)
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	return edges
}

// quantile interpolates linearly between the closest ranks.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
