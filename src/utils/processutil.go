package utils

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether df carries a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// ExcelSerialToTime converts an Excel serial day number to a time.Time.
// Serial 60 is the phantom 1900-02-29, so days from there on are shifted
// back by one.
func ExcelSerialToTime(serial float64) time.Time {
	if serial >= 60 {
		serial--
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	days := int(serial)
	fraction := serial - float64(days)
	return base.AddDate(0, 0, days).
		Add(time.Duration(86400*fraction*1e9) * time.Nanosecond)
}
