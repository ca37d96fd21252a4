package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ContentPulse/src/config"
	"ContentPulse/src/dashboard"
	"ContentPulse/src/datasource/file"
	"ContentPulse/src/processor"
	"ContentPulse/src/report"
	"ContentPulse/src/storage"

	"github.com/robfig/cron"
)

func main() {
	cfg := config.Default()

	flag.StringVar(&cfg.File, "file", cfg.File, "path to the catalog CSV or XLSX file")
	flag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "directory for file-mode artifacts")
	flag.StringVar(&cfg.TitleCol, "title_col", cfg.TitleCol, "name of the title column")
	flag.StringVar(&cfg.HoursCol, "hours_col", cfg.HoursCol, "name of the hours-viewed column")
	flag.StringVar(&cfg.DateCol, "date_col", cfg.DateCol, "name of the release-date column")
	flag.StringVar(&cfg.TypeCol, "type_col", cfg.TypeCol, "name of the content-type column")
	flag.StringVar(&cfg.LanguageCol, "language_col", cfg.LanguageCol, "name of the language column")
	flag.IntVar(&cfg.TopN, "top_n", cfg.TopN, "how many top titles to report")
	flag.BoolVar(&cfg.Web, "web", false, "serve the interactive dashboard instead of writing files")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "dashboard listen address")
	flag.DurationVar(&cfg.Refresh, "refresh", 0, "file mode: regenerate outputs on this interval (0 runs once)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger, err := storage.NewLogger(cfg.LogFile, cfg.LogMaxSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if cfg.Web {
		srv := dashboard.NewServer(cfg, logger)
		if err := srv.Serve(); err != nil {
			fmt.Fprintln(os.Stderr, "dashboard stopped:", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(cfg, logger); err != nil {
		logger.Error(err.Error())
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if cfg.Refresh > 0 {
		c := cron.New()
		spec := fmt.Sprintf("@every %s", cfg.Refresh)
		err := c.AddFunc(spec, func() {
			logger.Info("scheduled refresh (" + spec + ")")
			if err := runOnce(cfg, logger); err != nil {
				logger.Error("scheduled refresh failed: " + err.Error())
			}
			if err := logger.CheckRotate(); err != nil {
				logger.Error("log rotation failed: " + err.Error())
			}
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to schedule refresh:", err)
			os.Exit(1)
		}

		c.Start()
		defer c.Stop()

		fmt.Printf("Regenerating %q every %s, press Ctrl+C to exit\n", cfg.OutDir, cfg.Refresh)
		waitForShutdown(logger)
	}
}

// runOnce is one full pass: load, resolve, clean, write, report. Only
// loader and cleaner failures are fatal; a failed chart render is logged
// and the remaining artifacts still land.
func runOnce(cfg *config.Config, logger *storage.Logger) error {
	df, err := file.Load(cfg.File)
	if err != nil {
		return fmt.Errorf("error loading data: %w", err)
	}
	fmt.Printf("Loaded data: %d rows, %d columns\n", df.Nrow(), df.Ncol())

	cols, err := file.Resolve(df, cfg)
	if err != nil {
		return fmt.Errorf("error loading data: %w", err)
	}

	cleaned := processor.Clean(df, cols, cfg, logger)
	if cleaned.Drops.BadHours > 0 {
		fmt.Printf("Warning: %d rows dropped for unparseable %q\n", cleaned.Drops.BadHours, cols.Hours)
	}
	if cleaned.Drops.BadDates > 0 {
		fmt.Printf("Warning: %d rows dropped for invalid or missing dates in %q\n", cleaned.Drops.BadDates, cols.Date)
	}

	if err := report.WriteAll(cfg.OutDir, cleaned, logger); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: some artifacts failed to render:", err)
	}

	report.PrintTopTitles(os.Stdout, cleaned, cfg.TopN)
	fmt.Printf("\nAll interactive plots and tables have been saved to %q\n", cfg.OutDir)
	return nil
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received signal: " + sig.String() + ", shutting down")
}
