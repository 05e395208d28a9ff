// Package server exposes reconciliation over HTTP: spreadsheet upload,
// reconciliation and manual mapping.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/logging"
	"order-reconciliation/internal/usecase"
)

// Reconciler runs a reconciliation over stored order files.
type Reconciler interface {
	Reconcile(ctx context.Context, salesFile usecase.OrderFile, purchaseFiles []usecase.OrderFile) (*domain.ReconciliationReport, error)
}

// Options configures upload handling.
type Options struct {
	UploadDir        string
	MaxPurchaseFiles int
	MaxUploadBytes   int64
}

// Server holds the HTTP handlers. Every request builds its own state.
type Server struct {
	reconciler Reconciler
	opts       Options
	log        logging.Logger
}

// New creates a Server.
func New(reconciler Reconciler, opts Options, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Server{reconciler: reconciler, opts: opts, log: log}
}

// Handler returns the routed, logged HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/reconcile", s.handleReconcile)
	mux.HandleFunc("POST /api/manual-reconcile", s.handleManualReconcile)
	mux.HandleFunc("POST /api/manual-reconcile/validate", s.handleValidateBalance)
	mux.HandleFunc("POST /api/manual-reconcile/bulk", s.handleBulkManualReconcile)
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server is running", logging.F("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Reconciliation API is running",
	})
}

type errorResponse struct {
	Error   string               `json:"error"`
	Balance *domain.BalanceCheck `json:"balance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	var pErr *domain.ParseError
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest
	case errors.As(err, &pErr), errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("Request handled",
			logging.F(logging.FieldMethod, r.Method),
			logging.F(logging.FieldPath, r.URL.Path),
			logging.F(logging.FieldStatus, rec.status),
			logging.F(logging.FieldRemoteAddr, r.RemoteAddr),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	})
}
