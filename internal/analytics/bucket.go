package analytics

import (
	"sort"
	"strings"
	"time"
)

// Granularity is the width of a bucketing period.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts "daily", "weekly" or "monthly". Anything else
// falls back to monthly.
func ParseGranularity(s string) Granularity {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily
	case Weekly:
		return Weekly
	default:
		return Monthly
	}
}

// ParseRule maps the resampling rule names used by the trends endpoint
// ("D", "W-MON", "ME") to a granularity. Unknown rules mean monthly.
func ParseRule(rule string) Granularity {
	switch strings.ToUpper(strings.TrimSpace(rule)) {
	case "D":
		return Daily
	case "W-MON", "W":
		return Weekly
	default:
		return Monthly
	}
}

// Noun is the word used for one period in messages.
func (g Granularity) Noun() string {
	switch g {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	default:
		return "month"
	}
}

// PeriodStart returns the first day of the period containing t.
// Weeks start on Monday.
func (g Granularity) PeriodStart(t time.Time) time.Time {
	d := dateOnly(t)
	switch g {
	case Daily:
		return d
	case Weekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	default:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func (g Granularity) next(p time.Time) time.Time {
	switch g {
	case Daily:
		return p.AddDate(0, 0, 1)
	case Weekly:
		return p.AddDate(0, 0, 7)
	default:
		return p.AddDate(0, 1, 0)
	}
}

// Label renders a period start for chart axes.
func (g Granularity) Label(p time.Time) string {
	switch g {
	case Daily:
		return p.Format("Jan 02")
	case Weekly:
		return p.Format("Week of Jan 02")
	default:
		return p.Format("Jan 2006")
	}
}

// Periods lists every period start from the one containing start through
// the one containing end, in order and without gaps.
func (g Granularity) Periods(start, end time.Time) []time.Time {
	first, last := g.PeriodStart(start), g.PeriodStart(end)
	var out []time.Time
	for p := first; !p.After(last); p = g.next(p) {
		out = append(out, p)
	}
	return out
}

// Series is a gap-free, chart-ready sequence of period totals.
type Series struct {
	Labels  []string    `json:"labels"`
	Data    []float64   `json:"data"`
	Periods []time.Time `json:"-"`
}

// Len is the number of periods in the series.
func (s Series) Len() int { return len(s.Data) }

// Sum totals every period.
func (s Series) Sum() float64 {
	var total float64
	for _, v := range s.Data {
		total += v
	}
	return total
}

func emptySeries() Series {
	return Series{Labels: []string{}, Data: []float64{}, Periods: []time.Time{}}
}

// axis is the fixed period grid a set of series is accumulated on.
type axis struct {
	g       Granularity
	periods []time.Time
	index   map[int64]int
}

func newAxis(g Granularity, start, end time.Time) *axis {
	periods := g.Periods(start, end)
	index := make(map[int64]int, len(periods))
	for i, p := range periods {
		index[p.Unix()] = i
	}
	return &axis{g: g, periods: periods, index: index}
}

func (a *axis) slot(t time.Time) (int, bool) {
	i, ok := a.index[a.g.PeriodStart(t).Unix()]
	return i, ok
}

func (a *axis) series(data []float64) Series {
	labels := make([]string, len(a.periods))
	for i, p := range a.periods {
		labels[i] = a.g.Label(p)
	}
	periods := make([]time.Time, len(a.periods))
	copy(periods, a.periods)
	return Series{Labels: labels, Data: data, Periods: periods}
}

// DateRange returns the earliest and latest record dates.
func DateRange(records []Record) (start, end time.Time, ok bool) {
	for i, r := range records {
		d := dateOnly(r.Date)
		if i == 0 || d.Before(start) {
			start = d
		}
		if i == 0 || d.After(end) {
			end = d
		}
	}
	return start, end, len(records) > 0
}

// IncomeExpense pairs the income and expense series on one axis.
type IncomeExpense struct {
	Income  Series `json:"income"`
	Expense Series `json:"expense"`
}

// BuildSeries buckets records into income and expense series covering every
// period of [start, end]. Records dated outside the range are ignored.
func BuildSeries(records []Record, start, end time.Time, g Granularity) IncomeExpense {
	a := newAxis(g, start, end)
	income := make([]float64, len(a.periods))
	expense := make([]float64, len(a.periods))
	for _, r := range records {
		i, ok := a.slot(r.Date)
		if !ok {
			continue
		}
		switch r.Type {
		case Income:
			income[i] += r.Amount
		case Expense:
			expense[i] += r.Amount
		}
	}
	return IncomeExpense{Income: a.series(income), Expense: a.series(expense)}
}

// Analysis holds the income/expense series at every granularity.
type Analysis struct {
	Daily   IncomeExpense `json:"daily"`
	Weekly  IncomeExpense `json:"weekly"`
	Monthly IncomeExpense `json:"monthly"`
}

// BuildAnalysis buckets a user's full history at daily, weekly and monthly
// granularity over the history's own date range. No records means empty
// series everywhere.
func BuildAnalysis(records []Record) Analysis {
	start, end, ok := DateRange(records)
	if !ok {
		empty := IncomeExpense{Income: emptySeries(), Expense: emptySeries()}
		return Analysis{Daily: empty, Weekly: empty, Monthly: empty}
	}
	return Analysis{
		Daily:   BuildSeries(records, start, end, Daily),
		Weekly:  BuildSeries(records, start, end, Weekly),
		Monthly: BuildSeries(records, start, end, Monthly),
	}
}

// MaxTrendCategories caps how many category series a trends chart carries.
const MaxTrendCategories = 7

// trendPalette holds one colour per category series.
var trendPalette = [MaxTrendCategories]string{
	"rgba(255, 99, 132, 0.7)",
	"rgba(54, 162, 235, 0.7)",
	"rgba(255, 206, 86, 0.7)",
	"rgba(75, 192, 192, 0.7)",
	"rgba(153, 102, 255, 0.7)",
	"rgba(255, 159, 64, 0.7)",
	"rgba(99, 255, 132, 0.7)",
}

// Dataset is one category's series in a trends chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

// Trends is a category-pivoted expense chart.
type Trends struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// BuildTrends buckets expense records per category over [start, end]. Categories
// that total zero are dropped and only the MaxTrendCategories largest are kept,
// largest first, ties broken by category name.
func BuildTrends(records []Record, start, end time.Time, g Granularity) Trends {
	a := newAxis(g, start, end)
	byCategory := make(map[string][]float64)
	for _, r := range records {
		if r.Type != Expense {
			continue
		}
		i, ok := a.slot(r.Date)
		if !ok {
			continue
		}
		data, ok := byCategory[r.Category]
		if !ok {
			data = make([]float64, len(a.periods))
			byCategory[r.Category] = data
		}
		data[i] += r.Amount
	}

	type ranked struct {
		category string
		total    float64
	}
	var ranking []ranked
	for category, data := range byCategory {
		var total float64
		nonZero := false
		for _, v := range data {
			total += v
			if v != 0 {
				nonZero = true
			}
		}
		if nonZero {
			ranking = append(ranking, ranked{category, total})
		}
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].total != ranking[j].total {
			return ranking[i].total > ranking[j].total
		}
		return ranking[i].category < ranking[j].category
	})
	if len(ranking) > MaxTrendCategories {
		ranking = ranking[:MaxTrendCategories]
	}

	labels := a.series(nil).Labels
	datasets := make([]Dataset, 0, len(ranking))
	for i, r := range ranking {
		datasets = append(datasets, Dataset{
			Label:           r.category,
			Data:            byCategory[r.category],
			BackgroundColor: trendPalette[i%len(trendPalette)],
		})
	}
	return Trends{Labels: labels, Datasets: datasets}
}

// EmptyTrends is the chart returned when a user has no history.
func EmptyTrends() Trends {
	return Trends{Labels: []string{}, Datasets: []Dataset{}}
}
