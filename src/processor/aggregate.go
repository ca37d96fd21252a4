package processor

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
)

// KV is one grouping key with its summed (or counted) value.
type KV struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Aggregate is a named grouping+reduction over the cleaned table, ready to
// chart. Rows is empty when the cleaned table is empty; never nil semantics
// beyond that.
type Aggregate struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Rows   []KV   `json:"rows"`
}

// TrendSeries is one line of a multi-series monthly trend.
type TrendSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"` // aligned to MonthLabels
}

// MonthlyTrend is the month x content-type pivot: one zero-filled series per
// content type, in first-appearance order.
type MonthlyTrend struct {
	Months []string      `json:"months"`
	Series []TrendSeries `json:"series"`
}

var (
	// MonthLabels is the fixed calendar order for monthly views.
	MonthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	// WeekdayLabels is Monday-first, the order weekly views render in.
	WeekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	// SeasonLabels is the fixed season order.
	SeasonLabels = []string{"Winter", "Spring", "Summer", "Fall"}
)

// TotalHours sums the hours column over the whole cleaned table.
func (c *Cleaned) TotalHours() float64 {
	return lo.SumBy(c.Records, func(r Record) float64 { return r.Hours })
}

// sumByKey groups rows by keyFn and sums hours per group. Result order is
// descending by sum; ties keep the key's first-appearance order.
func (c *Cleaned) sumByKey(keyFn func(Record) string) []KV {
	totals := map[string]float64{}
	var order []string
	for _, r := range c.Records {
		k := keyFn(r)
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += r.Hours
	}

	rows := lo.Map(order, func(k string, _ int) KV {
		return KV{Key: k, Value: totals[k]}
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return rows
}

// fixedOrder sums (or counts) into a preset key order, zero-filling keys
// with no rows. Calendar views never reorder by value.
func (c *Cleaned) fixedOrder(keys []string, keyFn func(Record) string, valFn func(Record) float64) []KV {
	if len(c.Records) == 0 {
		return nil
	}
	totals := map[string]float64{}
	for _, r := range c.Records {
		totals[keyFn(r)] += valFn(r)
	}
	rows := make([]KV, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, KV{Key: k, Value: totals[k]})
	}
	return rows
}

func hoursOf(r Record) float64 { return r.Hours }
func countOne(Record) float64  { return 1 }

func monthKey(r Record) string   { return MonthLabels[int(r.Month)-1] }
func weekdayKey(r Record) string { return r.Weekday.String() }

// SumByType totals hours by content type.
func (c *Cleaned) SumByType() Aggregate {
	return Aggregate{
		Name:   "viewership_by_content_type",
		Title:  "Total Viewership Hours by Content Type",
		XLabel: "Content Type",
		YLabel: "Total Hours Viewed",
		Rows:   c.sumByKey(func(r Record) string { return r.Type }),
	}
}

// SumByLanguage totals hours by language indicator.
func (c *Cleaned) SumByLanguage() Aggregate {
	return Aggregate{
		Name:   "viewership_by_language",
		Title:  "Total Viewership Hours by Language",
		XLabel: "Language",
		YLabel: "Total Hours Viewed",
		Rows:   c.sumByKey(func(r Record) string { return r.Language }),
	}
}

// SumByMonth totals hours by release month, all twelve months zero-filled.
func (c *Cleaned) SumByMonth() Aggregate {
	return Aggregate{
		Name:   "monthly_viewership",
		Title:  "Total Viewership Hours by Release Month",
		XLabel: "Month",
		YLabel: "Total Hours Viewed",
		Rows:   c.fixedOrder(MonthLabels, monthKey, hoursOf),
	}
}

// CountByMonth counts releases per month.
func (c *Cleaned) CountByMonth() Aggregate {
	return Aggregate{
		Name:   "monthly_releases",
		Title:  "Number of Releases by Month",
		XLabel: "Month",
		YLabel: "Number of Releases",
		Rows:   c.fixedOrder(MonthLabels, monthKey, countOne),
	}
}

// SumByWeekday totals hours by release weekday, Monday first.
func (c *Cleaned) SumByWeekday() Aggregate {
	return Aggregate{
		Name:   "weekday_viewership",
		Title:  "Total Viewership Hours by Day of Week",
		XLabel: "Day of Week",
		YLabel: "Total Hours Viewed",
		Rows:   c.fixedOrder(WeekdayLabels, weekdayKey, hoursOf),
	}
}

// CountByWeekday counts releases per weekday.
func (c *Cleaned) CountByWeekday() Aggregate {
	return Aggregate{
		Name:   "weekday_releases",
		Title:  "Number of Releases by Day of Week",
		XLabel: "Day of Week",
		YLabel: "Number of Releases",
		Rows:   c.fixedOrder(WeekdayLabels, weekdayKey, countOne),
	}
}

// SumBySeason totals hours by release season, fixed season order.
func (c *Cleaned) SumBySeason() Aggregate {
	return Aggregate{
		Name:   "seasonal_viewership",
		Title:  "Total Viewership Hours by Release Season",
		XLabel: "Season",
		YLabel: "Total Hours Viewed",
		Rows:   c.fixedOrder(SeasonLabels, func(r Record) string { return r.Season }, hoursOf),
	}
}

// SumByHolidayWindow splits hours between holiday-window and regular
// releases.
func (c *Cleaned) SumByHolidayWindow() Aggregate {
	return Aggregate{
		Name:   "holiday_viewership",
		Title:  "Total Viewership Hours: Holiday Window vs Regular",
		XLabel: "Release Window",
		YLabel: "Total Hours Viewed",
		Rows: c.fixedOrder([]string{"Holiday Window", "Regular"}, func(r Record) string {
			if r.Holiday {
				return "Holiday Window"
			}
			return "Regular"
		}, hoursOf),
	}
}

// MonthlyByType pivots hours over month x content type.
func (c *Cleaned) MonthlyByType() MonthlyTrend {
	trend := MonthlyTrend{Months: MonthLabels}
	if len(c.Records) == 0 {
		return trend
	}

	types := lo.Uniq(lo.Map(c.Records, func(r Record, _ int) string { return r.Type }))
	byType := map[string][]float64{}
	for _, t := range types {
		byType[t] = make([]float64, 12)
	}
	for _, r := range c.Records {
		byType[r.Type][int(r.Month)-1] += r.Hours
	}
	for _, t := range types {
		trend.Series = append(trend.Series, TrendSeries{Name: t, Values: byType[t]})
	}
	return trend
}

// TopTitles returns the n highest-viewed records, descending by hours, ties
// kept in original row order. Result length is min(n, rows).
func (c *Cleaned) TopTitles(n int) []Record {
	ranked := make([]Record, len(c.Records))
	copy(ranked, c.Records)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Hours > ranked[j].Hours })
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

// HolidayReleases returns the holiday-window rows in original order.
func (c *Cleaned) HolidayReleases() []Record {
	return lo.Filter(c.Records, func(r Record, _ int) bool { return r.Holiday })
}

// SumByWeek totals hours by ISO week of the release date, chronological
// order. Only weeks that actually appear are listed.
func (c *Cleaned) SumByWeek() Aggregate {
	totals := map[string]float64{}
	for _, r := range c.Records {
		totals[WeekOfYearKey(r.Date)] += r.Hours
	}
	keys := lo.Keys(totals)
	sort.Strings(keys)
	rows := lo.Map(keys, func(k string, _ int) KV {
		return KV{Key: k, Value: totals[k]}
	})
	return Aggregate{
		Name:   "weekly_viewership",
		Title:  "Total Viewership Hours by Release Week",
		XLabel: "Week",
		YLabel: "Total Hours Viewed",
		Rows:   rows,
	}
}

// WeekOfYearKey formats an ISO week as "2024-W05"; the zero padding keeps
// lexical order equal to chronological order.
func WeekOfYearKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
