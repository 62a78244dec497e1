// Package server exposes stored analysis results over a small read-only
// JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/model"
)

// ResultStore is the slice of storage the API reads from.
type ResultStore interface {
	GetSummary(ctx context.Context, employeeID string, day time.Time) (*model.WorkTimeSummary, error)
	GetSegments(ctx context.Context, employeeID string, day time.Time) ([]model.ActivitySegment, error)
}

// Server serves analysis results over HTTP.
type Server struct {
	store ResultStore
	http  *http.Server
}

// New creates a Server listening on addr.
func New(store ResultStore, addr string) *Server {
	s := &Server{store: store}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/employees/{employee}/days/{date}/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/employees/{employee}/days/{date}/segments", s.handleSegments).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      handlers.RecoveryHandler()(handlers.CompressHandler(r)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	common.LogInfo("result API listening", common.Fields{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	employee, day, ok := pathParams(w, r)
	if !ok {
		return
	}
	summary, err := s.store.GetSummary(r.Context(), employee, day)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	employee, day, ok := pathParams(w, r)
	if !ok {
		return
	}
	segments, err := s.store.GetSegments(r.Context(), employee, day)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employee_id": employee,
		"date":        day.Format("2006-01-02"),
		"segments":    segments,
	})
}

func pathParams(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	vars := mux.Vars(r)
	employee := vars["employee"]
	day, err := time.Parse("2006-01-02", vars["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", time.Time{}, false
	}
	return employee, day, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no analysis result for this worker-day")
		return
	}
	common.LogError(err, "result lookup failed", nil)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		common.LogError(err, "failed to encode response", nil)
	}
}
