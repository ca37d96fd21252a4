package report

import (
	"io"

	"ContentPulse/src/processor"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Renderable is anything that can write itself out as a self-contained
// interactive HTML document.
type Renderable interface {
	Render(w io.Writer) error
}

// ChartArtifact pairs a deterministic artifact name with its chart. The
// name doubles as the output file stem, so repeated runs overwrite instead
// of accumulating.
type ChartArtifact struct {
	Name  string
	Title string
	Chart Renderable
}

// BuildCharts maps every aggregate view to its chart artifact. The order
// here is the order file mode writes and the dashboard lists them in.
func BuildCharts(c *processor.Cleaned) []ChartArtifact {
	byType := c.SumByType()
	byLang := c.SumByLanguage()
	byMonth := c.SumByMonth()
	bySeason := c.SumBySeason()
	byWeek := c.SumByWeek()
	byHoliday := c.SumByHolidayWindow()

	return []ChartArtifact{
		{byType.Name, byType.Title, barChart(byType)},
		{byLang.Name, byLang.Title, barChart(byLang)},
		{byMonth.Name, byMonth.Title, lineChart(byMonth)},
		{
			"monthly_viewership_by_type",
			"Viewership Trends by Content Type and Release Month",
			trendChart(c.MonthlyByType()),
		},
		{bySeason.Name, bySeason.Title, barChart(bySeason)},
		{
			"monthly_releases_and_viewership",
			"Monthly Release Patterns and Viewership Hours",
			overlapChart("Monthly Release Patterns and Viewership Hours", "Month",
				c.CountByMonth(), c.SumByMonth()),
		},
		{
			"weekday_release_patterns",
			"Weekly Release Patterns and Viewership Hours",
			overlapChart("Weekly Release Patterns and Viewership Hours", "Day of Week",
				c.CountByWeekday(), c.SumByWeekday()),
		},
		{byWeek.Name, byWeek.Title, lineChart(byWeek)},
		{byHoliday.Name, byHoliday.Title, barChart(byHoliday)},
	}
}

func globalOptions(title, subtitle, xLabel, yLabel string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "920px",
			Height:    "520px",
		}),
	}
}

// noData marks empty views so they render as an explicit notice instead of
// a blank chart.
func noData(rows []processor.KV) string {
	if len(rows) == 0 {
		return "No data"
	}
	return ""
}

func keysAndValues(rows []processor.KV) ([]string, []float64) {
	keys := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
		values[i] = r.Value
	}
	return keys, values
}

func barChart(agg processor.Aggregate) Renderable {
	keys, values := keysAndValues(agg.Rows)

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(agg.Title, noData(agg.Rows), agg.XLabel, agg.YLabel)...)
	bar.SetXAxis(keys).AddSeries(agg.YLabel, barData(values))
	return bar
}

func lineChart(agg processor.Aggregate) Renderable {
	keys, values := keysAndValues(agg.Rows)

	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(agg.Title, noData(agg.Rows), agg.XLabel, agg.YLabel)...)
	line.SetXAxis(keys).AddSeries(agg.YLabel, lineData(values),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}))
	return line
}

// trendChart renders the month x content-type pivot as one line per type.
func trendChart(trend processor.MonthlyTrend) Renderable {
	subtitle := ""
	if len(trend.Series) == 0 {
		subtitle = "No data"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(
		globalOptions("Viewership Trends by Content Type and Release Month", subtitle, "Month", "Total Hours Viewed"),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)
	line.SetXAxis(trend.Months)
	for _, s := range trend.Series {
		line.AddSeries(s.Name, lineData(s.Values),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}))
	}
	return line
}

// overlapChart draws release counts as bars with viewership hours as a line
// over the same axis.
func overlapChart(title, xLabel string, counts, hours processor.Aggregate) Renderable {
	keys, countValues := keysAndValues(counts.Rows)
	_, hourValues := keysAndValues(hours.Rows)

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(
		globalOptions(title, noData(counts.Rows), xLabel, ""),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)
	bar.SetXAxis(keys).AddSeries(counts.YLabel, barData(countValues))

	line := charts.NewLine()
	line.SetXAxis(keys).AddSeries(hours.YLabel, lineData(hourValues),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}))

	bar.Overlap(line)
	return bar
}

func barData(values []float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	return data
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
