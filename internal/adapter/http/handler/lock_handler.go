package handler

import (
	"context"
	"net/http"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// LockService defines the behavior needed by LockHandler.
type LockService interface {
	Lock(ctx context.Context, input usecase.LockInput) (*domain.Wallet, error)
	Unlock(ctx context.Context, userID, walletID string) (*domain.UnlockResult, error)
	Status(ctx context.Context, userID, walletID string) (*domain.LockStatus, error)
}

// LockHandler handles wallet lock requests.
type LockHandler struct {
	lockUC LockService
}

// NewLockHandler creates a new LockHandler.
func NewLockHandler(lockUC LockService) *LockHandler {
	return &LockHandler{lockUC: lockUC}
}

// Lock locks a wallet until a target date.
func (h *LockHandler) Lock(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	var req dto.LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID, walletID)
	if err != nil {
		writeDomainError(w, "invalid lock", err)
		return
	}

	wallet, err := h.lockUC.Lock(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to lock wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LockFromDomain(wallet))
}

// Unlock unlocks a wallet, deducting the penalty when the target date has not passed.
func (h *LockHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	result, err := h.lockUC.Unlock(r.Context(), userID, walletID)
	if err != nil {
		writeDomainError(w, "failed to unlock wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UnlockFromDomain(result))
}

// Status reports the lock state without changing it.
func (h *LockHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	status, err := h.lockUC.Status(r.Context(), userID, walletID)
	if err != nil {
		writeDomainError(w, "failed to get lock status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LockStatusFromDomain(status))
}
