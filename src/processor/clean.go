package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ContentPulse/src/config"
	"ContentPulse/src/datasource/file"
	"ContentPulse/src/storage"
	"ContentPulse/src/utils"

	"github.com/go-gota/gota/dataframe"
)

// Record is one cleaned catalog row plus its derived calendar fields.
type Record struct {
	Title    string    `json:"title"`
	Hours    float64   `json:"hours"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Language string    `json:"language"`

	Year    int          `json:"year"`
	Month   time.Month   `json:"month"`
	Week    int          `json:"week"`
	Weekday time.Weekday `json:"weekday"`
	Season  string       `json:"season"`
	Holiday bool         `json:"holiday"`
	// HolidayName is set when Holiday is true.
	HolidayName string `json:"holiday_name,omitempty"`
}

// DropReport accounts for every source row: kept + bad hours + bad dates.
// A row failing both checks is counted once, under bad hours.
type DropReport struct {
	SourceRows int `json:"source_rows"`
	BadHours   int `json:"bad_hours"`
	BadDates   int `json:"bad_dates"`
}

func (d DropReport) Kept() int {
	return d.SourceRows - d.BadHours - d.BadDates
}

// Cleaned is the output of one cleaning pass. Empty input (or 100% drops)
// produces an empty Cleaned, never an error; downstream views render
// "no data" instead.
type Cleaned struct {
	Records []Record
	Cols    file.ColumnMap
	Drops   DropReport
}

// Release dates only count as plausible inside this year range.
const (
	minPlausibleYear = 1900
	maxPlausibleYear = 2100
)

// dateFormats are tried in order when parsing the release-date column.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// Clean coerces the hours and date columns row by row, dropping rows that
// fail either, and derives the calendar fields for the survivors. Drop
// counts go to the logger at warning level; they are never fatal.
func Clean(df dataframe.DataFrame, cols file.ColumnMap, cfg *config.Config, logger *storage.Logger) *Cleaned {
	out := &Cleaned{Cols: cols}
	out.Drops.SourceRows = df.Nrow()
	if df.Nrow() == 0 {
		return out
	}

	titles := df.Col(cols.Title).Records()
	hours := df.Col(cols.Hours).Records()
	dates := df.Col(cols.Date).Records()
	types := df.Col(cols.Type).Records()
	langs := df.Col(cols.Language).Records()

	for i := 0; i < df.Nrow(); i++ {
		h, ok := parseHours(hours[i])
		if !ok {
			out.Drops.BadHours++
			continue
		}
		d, ok := parseDate(dates[i])
		if !ok {
			out.Drops.BadDates++
			continue
		}

		rec := Record{
			Title:    strings.TrimSpace(titles[i]),
			Hours:    h,
			Date:     d,
			Type:     strings.TrimSpace(types[i]),
			Language: strings.TrimSpace(langs[i]),
		}
		rec.Year = d.Year()
		rec.Month = d.Month()
		_, rec.Week = d.ISOWeek()
		rec.Weekday = d.Weekday()
		rec.Season = SeasonOf(d.Month())
		rec.Holiday, rec.HolidayName = cfg.InHolidayWindow(d)

		out.Records = append(out.Records, rec)
	}

	if logger != nil {
		if out.Drops.BadHours > 0 {
			logger.Warning(fmt.Sprintf("%d rows dropped: unparseable %q", out.Drops.BadHours, cols.Hours))
		}
		if out.Drops.BadDates > 0 {
			logger.Warning(fmt.Sprintf("%d rows dropped: unparseable %q", out.Drops.BadDates, cols.Date))
		}
	}
	return out
}

// parseHours coerces one cell of the hours column. Thousands separators and
// surrounding spaces are tolerated; anything non-finite or negative is not.
func parseHours(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseDate tries the known formats, then falls back to an Excel serial
// number for workbooks that export dates as day counts. Dates outside the
// plausible year range are rejected.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, plausible(t)
		}
	}

	// Workbooks sometimes export dates as serial day numbers. Only accept
	// serials that land in the plausible range; small integers are more
	// likely a mangled year than a date near 1900.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 10000 && serial <= 80000 {
		t := utils.ExcelSerialToTime(serial)
		return t, plausible(t)
	}
	return time.Time{}, false
}

func plausible(t time.Time) bool {
	return t.Year() >= minPlausibleYear && t.Year() <= maxPlausibleYear
}

// SeasonOf maps a month to its season label.
func SeasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

// Frame rebuilds the cleaned table, derived columns included, for exports
// and the dashboard summary.
func (c *Cleaned) Frame() dataframe.DataFrame {
	records := [][]string{{
		c.Cols.Title, c.Cols.Hours, c.Cols.Date, c.Cols.Type, c.Cols.Language,
		"Release Year", "Release Month", "Release Day", "Release Season", "Holiday Window",
	}}
	for _, r := range c.Records {
		records = append(records, []string{
			r.Title,
			strconv.FormatFloat(r.Hours, 'f', -1, 64),
			r.Date.Format("2006-01-02"),
			r.Type,
			r.Language,
			strconv.Itoa(r.Year),
			r.Month.String(),
			r.Weekday.String(),
			r.Season,
			strconv.FormatBool(r.Holiday),
		})
	}
	return file.FrameFromRecords(records)
}
