// Package http exposes the ledger over a small JSON/CSV API. It is a thin
// consumer boundary: all semantics live in the services underneath.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
	"spendlog/internal/services"
)

const maxImportBytes = 4 << 20 // 4MB CSV uploads

type Server struct {
	expenses *services.ExpenseService
	mirror   *services.MirrorService
}

// NewServer wires the handlers and returns a configured *http.Server.
func NewServer(addr string, expenses *services.ExpenseService, mirror *services.MirrorService) *http.Server {
	s := &Server{expenses: expenses, mirror: mirror}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/expenses", s.handleList)
	mux.HandleFunc("POST /api/expenses", s.handleCreate)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/storage", s.handleStorageStats)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/backup", s.handleBackupExport)
	mux.HandleFunc("POST /api/backup", s.handleBackupImport)
	mux.HandleFunc("GET /api/settings", s.handleSettingsGet)
	mux.HandleFunc("PUT /api/settings", s.handleSettingsPut)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return &http.Server{Addr: addr, Handler: logRequests(mux)}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.InfoContext(r.Context(), "Request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func filterFromQuery(r *http.Request) ledger.Filter {
	q := r.URL.Query()
	return ledger.Filter{
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
		Category:  core.Category(q.Get("category")),
		Search:    q.Get("q"),
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records := s.expenses.List(r.Context(), filterFromQuery(r))
	if records == nil {
		records = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, records)
}

type createExpenseRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    core.Category   `json:"category"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	e, err := s.expenses.Create(r.Context(), req.Date, req.Description, req.Amount, req.Category)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch core.ExpensePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	records, err := s.expenses.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	records, err := s.expenses.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}
	if records == nil {
		records = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.expenses.Stats(r.Context(), filterFromQuery(r)))
}

func (s *Server) handleStorageStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.expenses.StorageStats(r.Context()))
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename, content := s.expenses.ExportCSV(r.Context(), filterFromQuery(r))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, content)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	imported, err := s.expenses.ImportCSV(r.Context(), string(body))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to import CSV", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save imported records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.expenses.ExportBackup(r.Context()))
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	var backup services.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.expenses.ImportBackup(r.Context(), backup); err != nil {
		slog.ErrorContext(r.Context(), "Failed to import backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to restore backup")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.expenses.Settings(r.Context()))
}

func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var patch core.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	settings, err := s.expenses.UpdateSettings(r.Context(), patch)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to update settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	local := s.expenses.List(r.Context(), ledger.Filter{})
	result := s.mirror.Sync(r.Context(), local)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.expenses.Available(r.Context()) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrDescriptionTooLong) ||
		errors.Is(err, core.ErrDescriptionNewline) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidCategory)
}
