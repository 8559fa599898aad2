package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patrimonio/internal/analytics"
	"patrimonio/internal/core"
)

type debtPayoffRequest struct {
	Owner               string  `json:"owner"`
	Strategy            string  `json:"strategy"`
	MonthlyPaymentCents int64   `json:"monthlyPaymentCents"`
	CustomOrder         []int64 `json:"customOrder,omitempty"`
}

type sensitivityRequest struct {
	Owner                string  `json:"owner"`
	IncomeChangePercent  float64 `json:"incomeChangePercent"`
	ExpenseChangePercent float64 `json:"expenseChangePercent"`
	TimeHorizonMonths    int     `json:"timeHorizonMonths"`
}

// createTransactionRequest accepts the amount either as integer cents or
// as a human-typed decimal string ("12.34" or "12,34"), but not both.
type createTransactionRequest struct {
	core.CashflowTransaction
	Amount string `json:"amount,omitempty"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	report, err := s.api.Summary(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDebtPayoff(w http.ResponseWriter, r *http.Request) {
	var req debtPayoffRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Owner) == "" {
		respondError(w, http.StatusBadRequest, "owner is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.api.DebtPayoff(ctx, req.Owner, req.Strategy, req.MonthlyPaymentCents, req.CustomOrder)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	var req sensitivityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Owner) == "" {
		respondError(w, http.StatusBadRequest, "owner is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.api.Sensitivity(ctx, req.Owner, analytics.SensitivityParams{
		IncomeChangePercent:  req.IncomeChangePercent,
		ExpenseChangePercent: req.ExpenseChangePercent,
		TimeHorizonMonths:    req.TimeHorizonMonths,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleEnvelopeReport(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	statuses, err := s.api.EnvelopeReport(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset core.Asset
	if err := decodeJSON(r, &asset); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := s.api.CreateAsset(ctx, asset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	assets, err := s.api.ListAssets(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.api.DeleteAsset)
}

func (s *Server) handleCreateLiability(w http.ResponseWriter, r *http.Request) {
	var liability core.Liability
	if err := decodeJSON(r, &liability); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := s.api.CreateLiability(ctx, liability)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListLiabilities(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	liabilities, err := s.api.ListLiabilities(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, liabilities)
}

func (s *Server) handleDeleteLiability(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.api.DeleteLiability)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn := req.CashflowTransaction
	if req.Amount != "" {
		if txn.AmountCents != 0 {
			respondServiceError(w, r, core.Violations{{Field: "transaction", Message: "provide amount or amountCents, not both"}})
			return
		}
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			respondServiceError(w, r, core.Violations{{Field: "transaction", Message: "invalid amount, use a positive decimal like 12.34"}})
			return
		}
		txn.AmountCents = cents
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := s.api.CreateTransaction(ctx, txn)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// handleListTransactions returns the owner's transactions from the last
// N days (default 30, via the days query parameter).
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	days := analytics.WindowDays
	if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	txns, err := s.api.ListTransactions(ctx, owner, time.Now().AddDate(0, 0, -days))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.api.DeleteTransaction)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap core.CashSnapshot
	if err := decodeJSON(r, &snap); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := s.api.CreateSnapshot(ctx, snap)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	snap, err := s.api.LatestSnapshot(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if snap == nil {
		respondError(w, http.StatusNotFound, "no snapshot recorded")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCreateEnvelope(w http.ResponseWriter, r *http.Request) {
	var envelope core.BudgetEnvelope
	if err := decodeJSON(r, &envelope); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	id, err := s.api.CreateEnvelope(ctx, envelope)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleListEnvelopes(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	envelopes, err := s.api.ListEnvelopes(ctx, owner)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, envelopes)
}

func (s *Server) handleDeleteEnvelope(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.api.DeleteEnvelope)
}

// deleteOwned runs a scoped delete identified by owner query parameter
// and id path segment.
func (s *Server) deleteOwned(w http.ResponseWriter, r *http.Request, del func(context.Context, string, int64) error) {
	owner, ok := ownerParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "owner query parameter is required")
		return
	}
	id, ok := idPathValue(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := del(ctx, owner, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestContext bounds handler work with the configured timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}
