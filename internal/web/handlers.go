package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tillbook-dev/tillbook/internal/journal"
	"github.com/tillbook-dev/tillbook/internal/run"
	"github.com/tillbook-dev/tillbook/internal/runlog"
	"github.com/tillbook-dev/tillbook/internal/settings"
)

//go:embed templates
var templateFiles embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

// runSummary is the JSON shape returned after a generation run.
type runSummary struct {
	RunID       string   `json:"run_id"`
	Period      string   `json:"period"`
	Label       string   `json:"label"`
	Date        string   `json:"date"`
	Lines       int      `json:"lines"`
	TotalDebit  string   `json:"total_debit"`
	TotalCredit string   `json:"total_credit"`
	Difference  string   `json:"difference"`
	Balanced    bool     `json:"balanced"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.logger.Error("rendering index", zap.Error(err))
	}
}

// handleGenerate runs the whole pipeline on an uploaded workbook and
// keeps the result in memory for export download.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		uploadFailures.Inc()
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		uploadFailures.Inc()
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	user := formValueOr(r, "user", "default")
	sett, err := settings.Load(s.workDir, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := run.Options{
		User:        user,
		SourceName:  header.Filename,
		Label:       r.FormValue("label"),
		JournalCode: r.FormValue("journal_code"),
	}
	if d := r.FormValue("date"); d != "" {
		date, err := time.Parse("02/01/2006", d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date (want dd/mm/yyyy)")
			return
		}
		opts.Date = date
	}

	runner := run.NewRunner(s.cfg, sett.Overrides())
	res, err := runner.Execute(file, opts)
	if err != nil {
		uploadFailures.Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	runsTotal.Inc()
	if !res.Summary.Balanced() {
		imbalancedRuns.Inc()
	}

	runID := uuid.NewString()
	s.mu.Lock()
	s.results[runID] = &storedRun{result: res, user: user, created: s.clock()}
	s.mu.Unlock()

	if err := runlog.Append(s.workDir, runlog.Entry{
		Timestamp:   s.clock(),
		User:        user,
		SourceFile:  header.Filename,
		Period:      res.Period.String(),
		Lines:       len(res.Journal.Lines),
		TotalDebit:  res.Summary.TotalDebit,
		TotalCredit: res.Summary.TotalCredit,
		Difference:  res.Summary.Difference,
	}); err != nil {
		s.logger.Warn("appending run log", zap.Error(err))
	}

	s.logger.Info("journal generated",
		zap.String("run_id", runID),
		zap.String("user", user),
		zap.String("period", res.Period.String()),
		zap.Int("lines", len(res.Journal.Lines)),
		zap.Bool("balanced", res.Summary.Balanced()),
	)

	writeJSON(w, http.StatusOK, runSummary{
		RunID:       runID,
		Period:      res.Period.String(),
		Label:       res.Label,
		Date:        res.Date.Format("02/01/2006"),
		Lines:       len(res.Journal.Lines),
		TotalDebit:  res.Summary.TotalDebit.StringFixed(2),
		TotalCredit: res.Summary.TotalCredit.StringFixed(2),
		Difference:  res.Summary.Difference.StringFixed(2),
		Balanced:    res.Summary.Balanced(),
		Warnings:    res.Warnings,
	})
}

// handleExport streams a stored run in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	s.mu.Lock()
	stored, ok := s.results[runID]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown run")
		return
	}

	res := stored.result
	name := "ECRITURES_" + res.Period.Label()
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
		if err := journal.WriteCSV(w, res.Journal); err != nil {
			s.logger.Error("writing csv export", zap.Error(err))
		}
	case "xlsx":
		data, err := journal.BuildXLSX(res.Journal, res.Summary)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
		_, _ = w.Write(data)
	case "pdf":
		data, err := journal.BuildPDF(res.Journal, res.Summary, res.Label)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", name))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "unknown format (want csv, xlsx or pdf)")
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := queryValueOr(r, "user", "default")
	sett, err := settings.Load(s.workDir, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sett)
}

// handleSaveSettings persists a user's mappings; saving is always an
// explicit action, never a side effect of a run.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	user := queryValueOr(r, "user", "default")
	var sett settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&sett); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings body")
		return
	}
	if err := settings.Save(s.workDir, user, sett); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("settings saved", zap.String("user", user))
	writeJSON(w, http.StatusOK, sett)
}

func (s *Server) handleRunLog(w http.ResponseWriter, r *http.Request) {
	entries, err := runlog.Read(s.workDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type entry struct {
		Timestamp  string `json:"timestamp"`
		User       string `json:"user"`
		SourceFile string `json:"source_file"`
		Period     string `json:"period"`
		Lines      int    `json:"lines"`
		Difference string `json:"difference"`
	}
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{
			Timestamp:  e.Timestamp.Format(time.RFC3339),
			User:       e.User,
			SourceFile: e.SourceFile,
			Period:     e.Period,
			Lines:      e.Lines,
			Difference: e.Difference.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func queryValueOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
