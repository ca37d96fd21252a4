package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ContentPulse/src/processor"
	"ContentPulse/src/storage"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HolidayCSVName is the flat summary written alongside the charts.
const HolidayCSVName = "holiday_releases.csv"

// SummaryXLSXName is the workbook with one sheet per aggregate view.
const SummaryXLSXName = "summary.xlsx"

// WriteAll writes every artifact into dir. Each artifact is written
// independently: one failed render is logged and skipped so the rest still
// land. The combined error, if any, lists every failure.
func WriteAll(dir string, c *processor.Cleaned, logger *storage.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var errs []error
	for _, artifact := range BuildCharts(c) {
		path := filepath.Join(dir, artifact.Name+".html")
		if err := writeChart(path, artifact.Chart); err != nil {
			if logger != nil {
				logger.Error(fmt.Sprintf("render %s: %v", artifact.Name, err))
			}
			errs = append(errs, fmt.Errorf("%s: %w", artifact.Name, err))
			continue
		}
		if logger != nil {
			logger.Info("saved interactive plot: " + path)
		}
	}

	if err := WriteHolidayCSV(filepath.Join(dir, HolidayCSVName), c); err != nil {
		if logger != nil {
			logger.Error("write holiday releases: " + err.Error())
		}
		errs = append(errs, err)
	}
	if err := WriteSummaryXLSX(filepath.Join(dir, SummaryXLSXName), c); err != nil {
		if logger != nil {
			logger.Error("write summary workbook: " + err.Error())
		}
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func writeChart(path string, chart Renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return chart.Render(f)
}

// WriteHolidayCSV writes the holiday-window rows as a flat table. The
// header is always written, so an empty result is an empty table rather
// than a missing file.
func WriteHolidayCSV(path string, c *processor.Cleaned) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{c.Cols.Title, c.Cols.Hours, c.Cols.Date, c.Cols.Type, c.Cols.Language, "Holiday"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range c.HolidayReleases() {
		row := []string{
			r.Title,
			strconv.FormatFloat(r.Hours, 'f', -1, 64),
			r.Date.Format("2006-01-02"),
			r.Type,
			r.Language,
			r.HolidayName,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSummaryXLSX writes every aggregate view into one workbook, a sheet
// per view, plus the top-titles ranking.
func WriteSummaryXLSX(path string, c *processor.Cleaned) error {
	f := excelize.NewFile()
	defer f.Close()

	views := []processor.Aggregate{
		c.SumByType(),
		c.SumByLanguage(),
		c.SumByMonth(),
		c.SumBySeason(),
		c.SumByWeekday(),
		c.SumByWeek(),
		c.SumByHolidayWindow(),
	}
	sheetNames := []string{
		"Content Type", "Language", "Monthly", "Seasonal", "Weekday", "Weekly", "Holiday Window",
	}

	for i, view := range views {
		name := sheetNames[i]
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		writeCell(f, name, 1, 1, view.XLabel)
		writeCell(f, name, 2, 1, view.YLabel)
		for rowIdx, kv := range view.Rows {
			writeCell(f, name, 1, rowIdx+2, kv.Key)
			writeCell(f, name, 2, rowIdx+2, kv.Value)
		}
	}

	top := "Top Titles"
	if _, err := f.NewSheet(top); err != nil {
		return fmt.Errorf("sheet %s: %w", top, err)
	}
	for i, h := range []string{c.Cols.Title, c.Cols.Hours, c.Cols.Type, c.Cols.Language, c.Cols.Date} {
		writeCell(f, top, i+1, 1, h)
	}
	for rowIdx, r := range c.TopTitles(len(c.Records)) {
		writeCell(f, top, 1, rowIdx+2, r.Title)
		writeCell(f, top, 2, rowIdx+2, r.Hours)
		writeCell(f, top, 3, rowIdx+2, r.Type)
		writeCell(f, top, 4, rowIdx+2, r.Language)
		writeCell(f, top, 5, rowIdx+2, r.Date.Format("2006-01-02"))
	}

	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, value)
}

// PrintTopTitles writes the top-n ranking as an aligned console table with
// locale-grouped hour totals.
func PrintTopTitles(w io.Writer, c *processor.Cleaned, n int) {
	top := c.TopTitles(n)
	if len(top) == 0 {
		fmt.Fprintln(w, "\nTop titles: no data")
		return
	}

	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "\nTop %d titles:\n", len(top))
	fmt.Fprintf(w, "%-45s %18s  %-10s %-20s %s\n", "Title", "Hours Viewed", "Type", "Language", "Release Date")
	for _, r := range top {
		hours := p.Sprintf("%.0f", r.Hours)
		fmt.Fprintf(w, "%-45s %18s  %-10s %-20s %s\n",
			r.Title, hours, r.Type, r.Language, r.Date.Format("2006-01-02"))
	}
}
