package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// ForecastWindowDays is how far back savings habits are measured.
	ForecastWindowDays = 90

	windowMonths        = 3
	daysPerMonth        = 30.44
	minMonthsRemaining  = 0.5
	volatilityThreshold = 0.5

	noRecentDataAdvice = "Add recent income/expense entries to get a success prediction."
	goalFailedAdvice   = "We couldn't evaluate this goal right now."
	onTrackAdvice      = "You are comfortably on track to achieve this goal!"
	smallBufferAdvice  = "You're on track, but have a small buffer. Consistent saving is key."
)

// Goal is a savings target. A zero TargetDate means the goal has none.
type Goal struct {
	ID         string
	Name       string
	Amount     float64
	TargetDate time.Time
}

// Likelihood is the chance of reaching a goal, Percentage in 0..100.
type Likelihood struct {
	Level      SuccessLevel `json:"level"`
	Percentage int          `json:"percentage"`
}

// GoalForecast is a goal together with the figures derived for it.
type GoalForecast struct {
	Goal                   Goal
	RequiredMonthlySavings float64
	CurrentMonthlySavings  float64
	Likelihood             Likelihood
	Advice                 string
}

// SavingsHabits summarises the recent window a forecast is based on.
type SavingsHabits struct {
	MonthlySavings float64
	Volatile       bool
	HasData        bool
}

// RecentWindow keeps the records dated on or after now minus ForecastWindowDays.
func RecentWindow(now time.Time, records []Record) []Record {
	cutoff := dateOnly(now).AddDate(0, 0, -ForecastWindowDays)
	var out []Record
	for _, r := range records {
		if !dateOnly(r.Date).Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// MeasureHabits derives monthly savings and spending volatility from records
// already restricted to the forecast window.
func MeasureHabits(recent []Record) SavingsHabits {
	if len(recent) == 0 {
		return SavingsHabits{}
	}
	income, expense := Totals(recent)
	return SavingsHabits{
		MonthlySavings: (income - expense) / windowMonths,
		Volatile:       expenseVolatile(recent),
		HasData:        true,
	}
}

// expenseVolatile reports whether the sample standard deviation of monthly
// expense totals exceeds half their mean. Fewer than two months is never
// volatile.
func expenseVolatile(records []Record) bool {
	var expenses []Record
	for _, r := range records {
		if r.Type == Expense {
			expenses = append(expenses, r)
		}
	}
	start, end, ok := DateRange(expenses)
	if !ok {
		return false
	}
	monthly := BuildSeries(expenses, start, end, Monthly).Expense.Data
	if len(monthly) < 2 {
		return false
	}
	mean := 0.0
	for _, v := range monthly {
		mean += v
	}
	mean /= float64(len(monthly))
	var ss float64
	for _, v := range monthly {
		ss += (v - mean) * (v - mean)
	}
	std := math.Sqrt(ss / float64(len(monthly)-1))
	return std > mean*volatilityThreshold
}

// MonthsRemaining counts whole days until target in 30.44-day months, never
// less than half a month.
func MonthsRemaining(now, target time.Time) float64 {
	days := math.Floor(dateOnly(target).Sub(now).Hours() / 24)
	return math.Max(minMonthsRemaining, days/daysPerMonth)
}

// ForecastGoals estimates every goal's likelihood of success from the last
// ForecastWindowDays of records. Goals without a target date are left out.
// A goal that cannot be evaluated is returned with an Unknown likelihood and
// its ComputationError is included in the joined error.
func ForecastGoals(now time.Time, records []Record, goals []Goal, currency string) ([]GoalForecast, error) {
	habits := MeasureHabits(RecentWindow(now, records))
	out := make([]GoalForecast, 0, len(goals))
	var errs []error
	for _, g := range goals {
		if g.TargetDate.IsZero() {
			continue
		}
		if !habits.HasData {
			out = append(out, GoalForecast{
				Goal:       g,
				Likelihood: Likelihood{Level: SuccessUnknown},
				Advice:     noRecentDataAdvice,
			})
			continue
		}
		var fc GoalForecast
		err := guard("goals."+g.Name, func() error {
			var err error
			fc, err = forecastGoal(now, g, habits, currency)
			return err
		})
		if err != nil {
			errs = append(errs, err)
			fc = GoalForecast{
				Goal:                  g,
				CurrentMonthlySavings: habits.MonthlySavings,
				Likelihood:            Likelihood{Level: SuccessUnknown},
				Advice:                goalFailedAdvice,
			}
		}
		out = append(out, fc)
	}
	return out, errors.Join(errs...)
}

func forecastGoal(now time.Time, g Goal, habits SavingsHabits, currency string) (GoalForecast, error) {
	if err := requireFinite("goal amount", g.Amount, habits.MonthlySavings); err != nil {
		return GoalForecast{}, err
	}
	if g.Amount <= 0 {
		return GoalForecast{}, fmt.Errorf("goal amount must be positive, got %v", g.Amount)
	}

	required := g.Amount / MonthsRemaining(now, g.TargetDate)
	surplus := habits.MonthlySavings - required

	level := surplusHigh
	switch {
	case surplus < 0:
		level = surplusNegative
	case surplus < required*0.5:
		level = surplusSufficient
	}
	volatility := volatilityLow
	if habits.Volatile {
		volatility = volatilityHigh
	}
	success, p := lookupSuccess(level, volatility)

	advice := onTrackAdvice
	switch level {
	case surplusSufficient:
		advice = smallBufferAdvice
	case surplusNegative:
		advice = fmt.Sprintf("This goal is at risk. You need to save about %s more per month.",
			WholeMoney(currency, math.Abs(surplus)))
	}

	return GoalForecast{
		Goal:                   g,
		RequiredMonthlySavings: required,
		CurrentMonthlySavings:  habits.MonthlySavings,
		Likelihood:             Likelihood{Level: success, Percentage: int(math.Round(p * 100))},
		Advice:                 advice,
	}, nil
}
