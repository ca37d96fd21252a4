package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ContentPulse/src/config"
	"ContentPulse/src/datasource/file"
	"ContentPulse/src/processor"
)

func testCleaned(t *testing.T, rows [][]string) *processor.Cleaned {
	t.Helper()
	records := [][]string{
		{"Title", "Hours Viewed", "Release Date", "Content Type", "Language Indicator"},
	}
	records = append(records, rows...)
	df := file.FrameFromRecords(records)
	if df.Err != nil {
		t.Fatal(df.Err)
	}
	cols := file.ColumnMap{
		Title: "Title", Hours: "Hours Viewed", Date: "Release Date",
		Type: "Content Type", Language: "Language Indicator",
	}
	return processor.Clean(df, cols, config.Default(), nil)
}

var sampleRows = [][]string{
	{"A", "100", "2024-01-01", "Movie", "EN"},
	{"B", "200", "2024-06-15", "Series", "EN"},
	{"C", "50", "2024-12-26", "Movie", "ES"},
}

// every artifact file mode is expected to produce, by name
var wantFiles = []string{
	"viewership_by_content_type.html",
	"viewership_by_language.html",
	"monthly_viewership.html",
	"monthly_viewership_by_type.html",
	"seasonal_viewership.html",
	"monthly_releases_and_viewership.html",
	"weekday_release_patterns.html",
	"weekly_viewership.html",
	"holiday_viewership.html",
	HolidayCSVName,
	SummaryXLSXName,
}

func TestWriteAllProducesDeterministicNames(t *testing.T) {
	dir := t.TempDir()
	c := testCleaned(t, sampleRows)

	if err := WriteAll(dir, c, nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	// a second run overwrites in place instead of accumulating
	if err := WriteAll(dir, c, nil); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(wantFiles) {
		t.Errorf("after two runs dir has %d entries, want %d", len(entries), len(wantFiles))
	}
}

func TestWriteAllEmptyTable(t *testing.T) {
	dir := t.TempDir()
	c := testCleaned(t, nil)

	if err := WriteAll(dir, c, nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("empty table should still produce %s: %v", name, err)
		}
	}
}

func TestWriteHolidayCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), HolidayCSVName)
	c := testCleaned(t, sampleRows)

	if err := WriteHolidayCSV(path, c); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// header plus the two holiday-window rows (Jan 1 and Dec 26)
	if len(rows) != 3 {
		t.Fatalf("csv has %d rows, want 3", len(rows))
	}
	if rows[0][0] != "Title" || rows[0][5] != "Holiday" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "A" || rows[1][5] != "New Year" {
		t.Errorf("first holiday row = %v, want title A, holiday New Year", rows[1])
	}
	if rows[2][0] != "C" || rows[2][5] != "Christmas" {
		t.Errorf("second holiday row = %v, want title C, holiday Christmas", rows[2])
	}
}

func TestWriteHolidayCSVEmptyStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), HolidayCSVName)
	c := testCleaned(t, [][]string{
		{"B", "200", "2024-06-15", "Series", "EN"},
	})

	if err := WriteHolidayCSV(path, c); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("no holiday releases should leave just the header, got %d lines", len(lines))
	}
}

func TestBuildChartsRender(t *testing.T) {
	c := testCleaned(t, sampleRows)

	for _, artifact := range BuildCharts(c) {
		var buf bytes.Buffer
		if err := artifact.Chart.Render(&buf); err != nil {
			t.Errorf("render %s: %v", artifact.Name, err)
			continue
		}
		html := buf.String()
		if !strings.Contains(html, artifact.Title) {
			t.Errorf("%s output does not carry its title %q", artifact.Name, artifact.Title)
		}
	}
}

func TestBuildChartsNoDataSubtitle(t *testing.T) {
	c := testCleaned(t, nil)

	for _, artifact := range BuildCharts(c) {
		var buf bytes.Buffer
		if err := artifact.Chart.Render(&buf); err != nil {
			t.Fatalf("render %s on empty table: %v", artifact.Name, err)
		}
		if !strings.Contains(buf.String(), "No data") {
			t.Errorf("%s should carry the no-data notice when the table is empty", artifact.Name)
		}
	}
}

func TestPrintTopTitles(t *testing.T) {
	c := testCleaned(t, sampleRows)

	var buf bytes.Buffer
	PrintTopTitles(&buf, c, 2)
	out := buf.String()

	if !strings.Contains(out, "Top 2 titles") {
		t.Errorf("output missing heading: %s", out)
	}
	if !strings.Contains(out, "B") || strings.Index(out, "B") > strings.Index(out, "A") {
		t.Errorf("B (200 hours) should rank before A: %s", out)
	}

	buf.Reset()
	PrintTopTitles(&buf, testCleaned(t, nil), 5)
	if !strings.Contains(buf.String(), "no data") {
		t.Errorf("empty table should print a no-data notice, got %q", buf.String())
	}
}
