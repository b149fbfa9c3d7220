package analytics

import (
	"errors"
	"fmt"
)

const (
	// NoHistoryInsight is the summary shown before any transaction exists.
	NoHistoryInsight = "Add transactions to generate insights."
	// InsightFailed replaces an insight that could not be computed.
	InsightFailed = "We couldn't compute this insight right now."

	noActivityInsight = "In this period, you had no activity."
	upwardTrend       = "Your spending trended upwards in the latter half of the period."
	downwardTrend     = "Good job! Your spending trended downwards in the latter half of the period."

	trendThreshold  = 1.2
	minTrendPeriods = 4
)

// Insights are independent observations about a user's history. Any of them
// may be empty.
type Insights struct {
	Summary         string `json:"summary"`
	AverageSpending string `json:"average_spending"`
	PeakPeriod      string `json:"peak_period"`
	Trend           string `json:"trend"`
}

// GenerateInsights buckets records at granularity g over their own date range
// and derives the four insights. Each is computed on its own; a failure
// replaces only that field with InsightFailed and is reported in the returned
// error, which joins one ComputationError per failed insight.
func GenerateInsights(records []Record, g Granularity, currency string) (Insights, error) {
	start, end, ok := DateRange(records)
	if !ok {
		return Insights{Summary: NoHistoryInsight}, nil
	}
	series := BuildSeries(records, start, end, g)

	var out Insights
	var errs []error
	run := func(component string, field *string, fn func() (string, error)) {
		err := guard(component, func() error {
			s, err := fn()
			if err != nil {
				return err
			}
			*field = s
			return nil
		})
		if err != nil {
			*field = InsightFailed
			errs = append(errs, err)
		}
	}

	run("insights.summary", &out.Summary, func() (string, error) {
		return summaryInsight(series, currency)
	})
	run("insights.average", &out.AverageSpending, func() (string, error) {
		return averageInsight(series.Expense, g, currency)
	})
	run("insights.peak", &out.PeakPeriod, func() (string, error) {
		return peakInsight(series.Expense, g, currency)
	})
	run("insights.trend", &out.Trend, func() (string, error) {
		return trendInsight(series.Expense)
	})

	return out, errors.Join(errs...)
}

func summaryInsight(series IncomeExpense, currency string) (string, error) {
	income, expense := series.Income.Sum(), series.Expense.Sum()
	if err := requireFinite("totals", income, expense); err != nil {
		return "", err
	}
	if income == 0 && expense == 0 {
		return noActivityInsight, nil
	}
	net := income - expense
	if net < 0 {
		return fmt.Sprintf("Overall, you've had a net loss of %s.", Money(currency, -net)), nil
	}
	rate := -100.0
	if income > 0 {
		rate = net / income * 100
	}
	return fmt.Sprintf("Overall, you've saved %s (%.0f%% of your income).", Money(currency, net), rate), nil
}

// averageInsight averages only the periods that had any expense.
func averageInsight(expense Series, g Granularity, currency string) (string, error) {
	if err := requireFinite("expense", expense.Data...); err != nil {
		return "", err
	}
	var sum float64
	var active int
	for _, v := range expense.Data {
		if v > 0 {
			sum += v
			active++
		}
	}
	var avg float64
	if active > 0 {
		avg = sum / float64(active)
	}
	return fmt.Sprintf("On average, you spend %s per %s with expenses.", Money(currency, avg), g.Noun()), nil
}

func peakInsight(expense Series, g Granularity, currency string) (string, error) {
	total := expense.Sum()
	if err := requireFinite("expense total", total); err != nil {
		return "", err
	}
	if total <= 0 {
		return "", nil
	}
	peak := 0
	for i, v := range expense.Data {
		if v > expense.Data[peak] {
			peak = i
		}
	}
	return fmt.Sprintf("Your highest spending %s was %s, where you spent %s.",
		g.Noun(), expense.Labels[peak], Money(currency, expense.Data[peak])), nil
}

func trendInsight(expense Series) (string, error) {
	n := expense.Len()
	if n < minTrendPeriods {
		return "", nil
	}
	mid := n / 2
	var first, second float64
	for i, v := range expense.Data {
		if i < mid {
			first += v
		} else {
			second += v
		}
	}
	if err := requireFinite("half totals", first, second); err != nil {
		return "", err
	}
	switch {
	case second > first*trendThreshold:
		return upwardTrend, nil
	case first > second*trendThreshold:
		return downwardTrend, nil
	default:
		return "", nil
	}
}
