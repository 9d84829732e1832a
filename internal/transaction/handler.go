package transaction

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service TransactionService
}

func NewHandler(service TransactionService) *Handler {
	return &Handler{service: service}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, bank.ErrNotConnected):
		http.Error(w, "bank account not connected", http.StatusBadRequest)
	case errors.Is(err, ErrTransactionNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidDateRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	q := r.URL.Query()
	params := ListParams{}
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Limit = v
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Offset = v
		}
	}
	if raw := q.Get("start_date"); raw != "" {
		v, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		params.StartDate = &v
	}
	if raw := q.Get("end_date"); raw != "" {
		v, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		params.EndDate = &v
	}

	response, err := h.service.List(r.Context(), params)
	if err != nil {
		log.WithError(err).Error("Failed to list transactions")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	t, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.WithError(err).Error("Failed to fetch transaction")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) ByType(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.ByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		log.WithError(err).Error("Failed to list transactions by type")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to summarize transactions")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	q := r.URL.Query()
	response, err := h.service.Sync(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		log.WithError(err).Error("Failed to sync transactions")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.WithError(err).Error("Failed to delete transaction")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.DeleteAll(r.Context()); err != nil {
		log.WithError(err).Error("Failed to delete transactions")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
