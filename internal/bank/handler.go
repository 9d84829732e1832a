package bank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finwiselabs/finwise-lambda/internal/config"
	"golang.org/x/sync/errgroup"
)

// AccountSyncer and TransactionSyncer pull fresh provider data into local
// storage. Implemented by the account and transaction services.
type AccountSyncer interface {
	SyncForUser(ctx context.Context, userID string) (int, error)
}

type TransactionSyncer interface {
	SyncForUser(ctx context.Context, userID string, startDate, endDate string) (int, error)
}

type Handler struct {
	service      BankService
	accounts     AccountSyncer
	transactions TransactionSyncer
}

func NewHandler(service BankService, accounts AccountSyncer, transactions TransactionSyncer) *Handler {
	return &Handler{
		service:      service,
		accounts:     accounts,
		transactions: transactions,
	}
}

func (h *Handler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	token, err := h.service.CreateLinkToken(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.WithError(err).Error("Failed to create link token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, token)
}

func (h *Handler) CreatePublicToken(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	token, err := h.service.CreateSandboxPublicToken(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to create sandbox public token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"public_token": token})
}

func (h *Handler) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var body struct {
		PublicToken string `json:"public_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PublicToken == "" {
		http.Error(w, "public_token required", http.StatusBadRequest)
		return
	}

	if err := h.service.ExchangePublicToken(r.Context(), body.PublicToken); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.WithError(err).Error("Failed to exchange public token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Pull the first snapshot right away so the dashboard is populated when
	// the user lands back on it. Account and transaction pulls are
	// independent, so they run concurrently.
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var accountCount, txCount int
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		n, err := h.accounts.SyncForUser(gctx, userID)
		accountCount = n
		return err
	})
	g.Go(func() error {
		n, err := h.transactions.SyncForUser(gctx, userID, "", "")
		txCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Initial sync after token exchange failed")
	}

	config.JSON(w, http.StatusOK, map[string]any{
		"message":             "bank item linked",
		"synced_accounts":     accountCount,
		"synced_transactions": txCount,
	})
}

func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Disconnect(r.Context()); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.WithError(err).Error("Failed to disconnect bank item")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"message": "bank item disconnected"})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	status, err := h.service.Status(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log.WithError(err).Error("Failed to read bank status")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, status)
}
