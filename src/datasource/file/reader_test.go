package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ContentPulse/src/config"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t,
		"Title,Hours Viewed,Release Date,Content Type,Language Indicator\n"+
			"The Thing,\"1,200\",2024-01-05,Movie,EN\n"+
			"Other,300,2024-02-10,Series,KO\n")

	df, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if df.Nrow() != 2 || df.Ncol() != 5 {
		t.Errorf("loaded %dx%d, want 2x5", df.Nrow(), df.Ncol())
	}
	// loader leaves coercion to the cleaner
	if got := df.Col("Hours Viewed").Records()[0]; got != "1,200" {
		t.Errorf("hours cell = %q, want raw \"1,200\"", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "Title,Hours Viewed,Release Date,Content Type,Language Indicator\n")

	df, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if df.Nrow() != 0 {
		t.Errorf("header-only file loaded %d rows, want 0", df.Nrow())
	}
	if _, err := Resolve(df, config.Default()); err != nil {
		t.Errorf("columns should still resolve on a header-only file, got %v", err)
	}
}

func TestResolveMissingColumn(t *testing.T) {
	path := writeTempCSV(t,
		"Title,Release Date,Content Type,Language Indicator\n"+
			"The Thing,2024-01-05,Movie,EN\n")

	df, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Resolve(df, config.Default())
	if err == nil {
		t.Fatal("expected MissingColumnError for absent hours column")
	}
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T, want *MissingColumnError", err)
	}
	if missing.Column != "Hours Viewed" {
		t.Errorf("missing column = %q, want \"Hours Viewed\"", missing.Column)
	}
	if len(missing.Available) != 4 {
		t.Errorf("available columns = %v, want the 4 loaded names", missing.Available)
	}
}

func TestResolveWithOverrides(t *testing.T) {
	path := writeTempCSV(t,
		"name,hrs,released,kind,lang\n"+
			"The Thing,100,2024-01-05,Movie,EN\n")

	df, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.TitleCol = "name"
	cfg.HoursCol = "hrs"
	cfg.DateCol = "released"
	cfg.TypeCol = "kind"
	cfg.LanguageCol = "lang"

	cm, err := Resolve(df, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Hours != "hrs" || cm.Date != "released" {
		t.Errorf("resolved map = %+v, want overridden names", cm)
	}
}
