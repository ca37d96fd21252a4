// reader.go
package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ContentPulse/src/config"
	"ContentPulse/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// MissingColumnError reports a required column that is absent from the
// loaded table, after any overrides were applied.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found, available columns: %v", e.Column, e.Available)
}

// ColumnMap is the resolved name contract handed to the cleaner and every
// later stage. After Resolve succeeds, no stage re-interprets raw header
// names.
type ColumnMap struct {
	Title    string
	Hours    string
	Date     string
	Type     string
	Language string
}

// Load reads the whole catalog into memory, dispatching on the file
// extension. There are no partial loads: any failure leaves nothing behind.
func Load(path string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("input file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return ReadCSV(path)
	}
}

// ReadCSV loads a delimited file with a header row. Every column comes in
// as a string; the cleaner owns all type coercion.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("csv %s has no header row", path)
	}

	df := FrameFromRecords(records)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", path, df.Err)
	}
	return df, nil
}

// FrameFromRecords builds a string-typed DataFrame from raw records, the
// first row being the header. A header-only input yields an empty table
// with its columns intact, which gota's own loader refuses.
func FrameFromRecords(records [][]string) dataframe.DataFrame {
	if len(records) == 1 {
		seriesList := make([]series.Series, len(records[0]))
		for i, name := range records[0] {
			seriesList[i] = series.New([]string{}, series.String, name)
		}
		return dataframe.New(seriesList...)
	}
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

// ReadXLSX loads the first sheet of a workbook, first row as header.
func ReadXLSX(path string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx %s has no sheets", path)
	}
	df := convertSheetToDataFrame(xlFile.Sheets[0])
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read xlsx %s: %w", path, df.Err)
	}
	return df, nil
}

// convertSheetToDataFrame turns an xlsx sheet into a string-typed DataFrame.
func convertSheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) == 0 {
		return dataframe.New()
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			val := ""
			if i < len(row.Cells) {
				val = row.Cells[i].Value
			}
			columns[i] = append(columns[i], val)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}
	return dataframe.New(seriesList...)
}

// Resolve checks every required column against the loaded table and returns
// the name contract used by the rest of the pipeline.
func Resolve(df dataframe.DataFrame, cfg *config.Config) (ColumnMap, error) {
	cm := ColumnMap{
		Title:    cfg.TitleCol,
		Hours:    cfg.HoursCol,
		Date:     cfg.DateCol,
		Type:     cfg.TypeCol,
		Language: cfg.LanguageCol,
	}

	for _, name := range []string{cm.Title, cm.Hours, cm.Date, cm.Type, cm.Language} {
		if !utils.HasColumn(df, name) {
			return ColumnMap{}, &MissingColumnError{Column: name, Available: df.Names()}
		}
	}
	return cm, nil
}
