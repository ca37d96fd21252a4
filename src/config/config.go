package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config is the whole runtime configuration of one run. Everything comes
// from CLI flags plus the documented defaults below; there are no
// environment variables and no config files.
type Config struct {
	File   string `json:"file"`    // path to the catalog CSV/XLSX
	OutDir string `json:"out_dir"` // where file mode writes artifacts

	// Column overrides. These are the header names looked up in the input.
	TitleCol    string `json:"title_col"`
	HoursCol    string `json:"hours_col"`
	DateCol     string `json:"date_col"`
	TypeCol     string `json:"type_col"`
	LanguageCol string `json:"language_col"`

	TopN int `json:"top_n"` // size of the top-titles ranking

	Web     bool          `json:"web"`  // serve the dashboard instead of writing files
	Addr    string        `json:"addr"` // dashboard listen address
	Refresh time.Duration `json:"-"`    // file mode: regenerate on this interval (0 = once)

	LogFile string `json:"log_file"`
	// LogMaxSize is the rotation threshold for the log file, in bytes.
	LogMaxSize int64 `json:"log_max_size"`

	Holidays      []Holiday `json:"holidays"`
	HolidayWindow int       `json:"holiday_window"` // days on either side of a holiday
}

// Holiday is a recurring month/day date, applied to whatever year a release
// falls in.
type Holiday struct {
	Name  string     `json:"name"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// Default returns the configuration used when no flag overrides it.
func Default() *Config {
	return &Config{
		File:        "netflix_content.csv",
		OutDir:      "outputs",
		TitleCol:    "Title",
		HoursCol:    "Hours Viewed",
		DateCol:     "Release Date",
		TypeCol:     "Content Type",
		LanguageCol: "Language Indicator",
		TopN:        5,
		Addr:        ":8080",
		LogFile:     "app.log",
		LogMaxSize:  10 * 1024 * 1024,
		Holidays: []Holiday{
			{Name: "New Year", Month: time.January, Day: 1},
			{Name: "Valentine's Day", Month: time.February, Day: 14},
			{Name: "Independence Day", Month: time.July, Day: 4},
			{Name: "Halloween", Month: time.October, Day: 31},
			{Name: "Christmas", Month: time.December, Day: 25},
		},
		HolidayWindow: 3,
	}
}

// Validate rejects values that are wrong on their face. Path existence is
// the loader's job.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("input file path is empty")
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.TopN)
	}
	if c.HolidayWindow < 0 {
		return fmt.Errorf("holiday window must not be negative, got %d", c.HolidayWindow)
	}
	if c.Web && c.Addr == "" {
		return fmt.Errorf("dashboard mode needs a listen address")
	}
	return nil
}

// InHolidayWindow reports whether t falls within the configured window of
// any holiday, and which one. Holidays recur yearly, so the check also looks
// at the adjacent years' instances to catch windows crossing December 31.
func (c *Config) InHolidayWindow(t time.Time) (bool, string) {
	for _, h := range c.Holidays {
		for _, year := range []int{t.Year() - 1, t.Year(), t.Year() + 1} {
			d := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
			diff := t.Sub(d)
			if diff < 0 {
				diff = -diff
			}
			if diff <= time.Duration(c.HolidayWindow)*24*time.Hour {
				return true, h.Name
			}
		}
	}
	return false, ""
}

// Duration wraps time.Duration so intervals round-trip through JSON as
// strings like "5m0s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
