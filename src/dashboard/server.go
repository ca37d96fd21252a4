package dashboard

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"ContentPulse/src/config"
	"ContentPulse/src/datasource/file"
	"ContentPulse/src/processor"
	"ContentPulse/src/report"
	"ContentPulse/src/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates(files ...string) (*template.Template, error) {
	return template.ParseFS(templateFS, files...)
}

// Server is the interactive dashboard. Every request re-runs the pipeline
// from disk, so there is no cached state to invalidate; the file monitor
// only logs dataset rewrites so reloads are visible in the log stream.
type Server struct {
	cfg    *config.Config
	logger *storage.Logger
	router *chi.Mux
}

func NewServer(cfg *config.Config, logger *storage.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger, router: chi.NewRouter()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleHome)
	s.router.Get("/chart/{name}", s.handleChart)
	s.router.Get("/api/summary", s.handleSummary)
	s.router.Get("/logs", s.handleLogs)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Serve starts the dataset monitor and blocks serving HTTP until the
// listener fails or the process is interrupted.
func (s *Server) Serve() error {
	monitor, err := file.NewMonitor(s.cfg.File)
	if err != nil {
		s.logger.Warning("dataset monitor unavailable: " + err.Error())
	} else {
		go func() {
			defer monitor.Close()
			err := monitor.Watch(func(path string) {
				s.logger.Info("dataset rewritten, next request reloads: " + path)
			})
			if err != nil {
				s.logger.Error("dataset monitor stopped: " + err.Error())
			}
		}()
	}

	s.logger.Info("dashboard listening on " + s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.router)
}

// run is the whole pipeline as a pure function of the configuration: load,
// resolve columns, clean. Each call reads the dataset fresh.
func (s *Server) run() (*processor.Cleaned, error) {
	df, err := file.Load(s.cfg.File)
	if err != nil {
		return nil, err
	}
	cols, err := file.Resolve(df, s.cfg)
	if err != nil {
		return nil, err
	}
	return processor.Clean(df, cols, s.cfg, s.logger), nil
}

type chartRef struct {
	Name  string
	Title string
}

type section struct {
	Heading string
	Charts  []chartRef
}

type homeData struct {
	File       string
	SourceRows int
	KeptRows   int
	Drops      processor.DropReport
	TotalHours string
	Columns    []string
	Sections   []section
	TopN       int
	Top        []processor.Record
	Holiday    []processor.Record
}

type errorData struct {
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, message string, status int) {
	tmpl, err := parseTemplates("templates/error.html")
	if err != nil {
		s.logger.Error("parse error template: " + err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "error.html", errorData{Message: message}); err != nil {
		s.logger.Error("execute error template: " + err.Error())
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	cleaned, err := s.run()
	if err != nil {
		s.logger.Error("pipeline failed: " + err.Error())
		s.renderError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	charts := report.BuildCharts(cleaned)
	refs := map[string]chartRef{}
	for _, a := range charts {
		refs[a.Name] = chartRef{Name: a.Name, Title: a.Title}
	}
	pick := func(names ...string) []chartRef {
		out := make([]chartRef, 0, len(names))
		for _, n := range names {
			out = append(out, refs[n])
		}
		return out
	}

	p := message.NewPrinter(language.English)
	data := homeData{
		File:       s.cfg.File,
		SourceRows: cleaned.Drops.SourceRows,
		KeptRows:   cleaned.Drops.Kept(),
		Drops:      cleaned.Drops,
		TotalHours: p.Sprintf("%.0f", cleaned.TotalHours()),
		Columns:    cleaned.Frame().Names(),
		Sections: []section{
			{"Viewership by Category", pick("viewership_by_content_type", "viewership_by_language", "holiday_viewership")},
			{"Monthly Trends", pick("monthly_viewership", "monthly_viewership_by_type", "monthly_releases_and_viewership")},
			{"Weekly Patterns", pick("weekday_release_patterns", "weekly_viewership")},
			{"Seasonal", pick("seasonal_viewership")},
		},
		TopN:    s.cfg.TopN,
		Top:     cleaned.TopTitles(s.cfg.TopN),
		Holiday: cleaned.HolidayReleases(),
	}

	tmpl, err := parseTemplates("templates/home.html")
	if err != nil {
		s.logger.Error("parse home template: " + err.Error())
		s.renderError(w, "something went wrong while loading the page", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "home.html", data); err != nil {
		s.logger.Error("execute home template: " + err.Error())
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	cleaned, err := s.run()
	if err != nil {
		s.logger.Error("pipeline failed: " + err.Error())
		s.renderError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, artifact := range report.BuildCharts(cleaned) {
		if artifact.Name != name {
			continue
		}
		if err := artifact.Chart.Render(w); err != nil {
			s.logger.Error(fmt.Sprintf("render %s: %v", name, err))
		}
		return
	}
	s.renderError(w, "unknown chart: "+name, http.StatusNotFound)
}

// summaryPayload is the JSON shape served at /api/summary.
type summaryPayload struct {
	File     string                 `json:"file"`
	Drops    processor.DropReport   `json:"drops"`
	Total    float64                `json:"total_hours"`
	Views    []processor.Aggregate  `json:"views"`
	Trend    processor.MonthlyTrend `json:"monthly_by_type"`
	Top      []processor.Record     `json:"top_titles"`
	Holidays []processor.Record     `json:"holiday_releases"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	cleaned, err := s.run()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	payload := summaryPayload{
		File:  s.cfg.File,
		Drops: cleaned.Drops,
		Total: cleaned.TotalHours(),
		Views: []processor.Aggregate{
			cleaned.SumByType(),
			cleaned.SumByLanguage(),
			cleaned.SumByMonth(),
			cleaned.SumByWeek(),
			cleaned.SumBySeason(),
			cleaned.SumByWeekday(),
			cleaned.SumByHolidayWindow(),
		},
		Trend:    cleaned.MonthlyByType(),
		Top:      cleaned.TopTitles(s.cfg.TopN),
		Holidays: cleaned.HolidayReleases(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode summary: " + err.Error())
	}
}

// handleLogs streams log entries as they happen, one line per entry.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	logChan := s.logger.Subscribe()
	for {
		select {
		case msg := <-logChan:
			if _, err := fmt.Fprint(w, msg); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}
