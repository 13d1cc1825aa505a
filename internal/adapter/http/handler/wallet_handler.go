package handler

import (
	"context"
	"net/http"

	"github.com/iho/autosave/internal/adapter/http/dto"
	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*domain.Wallet, error)
	GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error)
}

// ReconciliationService defines the balance breakdown used by WalletHandler.
type ReconciliationService interface {
	ReconcileWallet(ctx context.Context, userID, walletID string) (*usecase.WalletReconciliation, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC    WalletService
	reconcileUC ReconciliationService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService, reconcileUC ReconciliationService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC, reconcileUC: reconcileUC}
}

// Create creates a new wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	var req dto.CreateWalletRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid wallet", err)
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, "invalid wallet", err)
		return
	}

	wallet, err := h.walletUC.CreateWallet(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create wallet", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromDomain(wallet))
}

// Get retrieves a wallet.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), userID, walletID)
	if err != nil {
		writeDomainError(w, "failed to get wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// List lists the wallets of a user.
func (h *WalletHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}

	wallets, err := h.walletUC.ListWallets(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "failed to list wallets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListWalletsResponse{
		Wallets: dto.WalletsFromDomain(wallets),
		Total:   int64(len(wallets)),
	})
}

// Reconcile explains the wallet balance from its audit trail.
func (h *WalletHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathParam(w, r, "userID")
	if !ok {
		return
	}
	walletID, ok := pathParam(w, r, "walletID")
	if !ok {
		return
	}

	rec, err := h.reconcileUC.ReconcileWallet(r.Context(), userID, walletID)
	if err != nil {
		writeDomainError(w, "failed to reconcile wallet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(rec))
}
