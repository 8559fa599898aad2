// Package http exposes the finance engine as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"patrimonio/internal/analytics"
	"patrimonio/internal/core"
	"patrimonio/internal/log"
	"patrimonio/internal/services"
)

// FinanceAPI is the slice of the service layer the handlers need.
type FinanceAPI interface {
	Summary(ctx context.Context, owner string) (services.SummaryReport, error)
	DebtPayoff(ctx context.Context, owner, strategy string, monthlyPaymentCents int64, customOrder []int64) (core.DebtPayoffResult, error)
	Sensitivity(ctx context.Context, owner string, params analytics.SensitivityParams) (core.SensitivityResult, error)
	EnvelopeReport(ctx context.Context, owner string) ([]services.EnvelopeStatus, error)

	CreateAsset(ctx context.Context, a core.Asset) (int64, error)
	ListAssets(ctx context.Context, owner string) ([]core.Asset, error)
	DeleteAsset(ctx context.Context, owner string, id int64) error

	CreateLiability(ctx context.Context, l core.Liability) (int64, error)
	ListLiabilities(ctx context.Context, owner string) ([]core.Liability, error)
	DeleteLiability(ctx context.Context, owner string, id int64) error

	CreateTransaction(ctx context.Context, t core.CashflowTransaction) (int64, error)
	ListTransactions(ctx context.Context, owner string, since time.Time) ([]core.CashflowTransaction, error)
	DeleteTransaction(ctx context.Context, owner string, id int64) error

	CreateSnapshot(ctx context.Context, s core.CashSnapshot) (int64, error)
	LatestSnapshot(ctx context.Context, owner string) (*core.CashSnapshot, error)

	CreateEnvelope(ctx context.Context, e core.BudgetEnvelope) (int64, error)
	ListEnvelopes(ctx context.Context, owner string) ([]core.BudgetEnvelope, error)
	DeleteEnvelope(ctx context.Context, owner string, id int64) error
}

type Server struct {
	http.Server
	api            FinanceAPI
	logger         *log.Logger
	requestTimeout time.Duration
	rateLimiter    *rateLimiter
	shutdownOnce   sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, api FinanceAPI, logger *log.Logger, requestTimeout time.Duration) *Server {
	s := &Server{
		api:            api,
		logger:         logger.WithComponent(log.ComponentHTTP),
		requestTimeout: requestTimeout,
		rateLimiter:    newRateLimiter(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/debt-payoff", s.handleDebtPayoff)
	mux.HandleFunc("POST /api/sensitivity", s.handleSensitivity)
	mux.HandleFunc("GET /api/envelopes/report", s.handleEnvelopeReport)

	mux.HandleFunc("POST /api/assets", s.handleCreateAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)

	mux.HandleFunc("POST /api/liabilities", s.handleCreateLiability)
	mux.HandleFunc("GET /api/liabilities", s.handleListLiabilities)
	mux.HandleFunc("DELETE /api/liabilities/{id}", s.handleDeleteLiability)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /api/snapshots", s.handleCreateSnapshot)
	mux.HandleFunc("GET /api/snapshots/latest", s.handleLatestSnapshot)

	mux.HandleFunc("POST /api/envelopes", s.handleCreateEnvelope)
	mux.HandleFunc("GET /api/envelopes", s.handleListEnvelopes)
	mux.HandleFunc("DELETE /api/envelopes/{id}", s.handleDeleteEnvelope)

	var handler http.Handler = mux
	handler = s.withProtection(handler)
	handler = log.RequestMiddleware(logger, func(*http.Request) string { return generateRequestID() })(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown stops the rate-limiter sweep before draining the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withProtection adds security headers and rate-limits mutating requests.
func (s *Server) withProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			if ip := clientIP(r); !s.rateLimiter.allow(ip) {
				s.logger.Warn("rate limit exceeded",
					log.FieldClientIP, ip,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
