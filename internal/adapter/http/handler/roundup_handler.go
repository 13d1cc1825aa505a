package handler

import (
	"context"
	"net/http"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// RoundUpService defines the behavior needed by RoundUpHandler.
type RoundUpService interface {
	PostRoundUp(ctx context.Context, input usecase.PostRoundUpInput) (*usecase.PostRoundUpResult, error)
	IngestSpending(ctx context.Context, input usecase.IngestSpendingInput) (*usecase.IngestSpendingResult, error)
	ListRoundUps(ctx context.Context, userID, walletID string, limit, offset int) ([]*domain.RoundUpRecord, error)
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerTransaction, error)
}

// RoundUpHandler handles round-up and spending ingestion requests.
type RoundUpHandler struct {
	roundUpUC RoundUpService
}

// NewRoundUpHandler creates a new RoundUpHandler.
func NewRoundUpHandler(roundUpUC RoundUpService) *RoundUpHandler {
	return &RoundUpHandler{roundUpUC: roundUpUC}
}

// Post posts a round-up for one purchase into a wallet.
func (h *RoundUpHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	var req dto.PostRoundUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid round-up", err)
		return
	}

	input, err := req.ToUseCaseInput(userID, walletID)
	if err != nil {
		writeDomainError(w, "invalid round-up", err)
		return
	}

	result, err := h.roundUpUC.PostRoundUp(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to post round-up", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostRoundUpFromResult(result))
}

// List lists the round-ups of a wallet, newest first.
func (h *RoundUpHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	records, err := h.roundUpUC.ListRoundUps(r.Context(), userID, walletID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list round-ups", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RoundUpsFromDomain(records))
}

// Ingest records a spending event and posts its round-up once.
// A re-delivered event answers 200 instead of 201.
func (h *RoundUpHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	var req dto.IngestTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid transaction", err)
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, "invalid transaction", err)
		return
	}

	result, err := h.roundUpUC.IngestSpending(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to ingest transaction", err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.IngestTransactionFromResult(result))
}

// ListTransactions lists the ledger transactions of a user.
func (h *RoundUpHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	txns, err := h.roundUpUC.ListTransactions(r.Context(), userID,
		parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
