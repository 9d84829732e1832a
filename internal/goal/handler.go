package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service GoalService
}

func NewHandler(service GoalService) *Handler {
	return &Handler{service: service}
}

// writeError maps service errors onto HTTP statuses. Reservation failures
// carry their own message so the form can surface the available balance.
func writeError(w http.ResponseWriter, err error) {
	var reservationErr *ReservationError
	switch {
	case errors.As(err, &reservationErr):
		http.Error(w, reservationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrGoalNotFound):
		http.Error(w, "goal not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrNoLinkedAccount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Create(r.Context(), dto)
	if err != nil {
		log.WithError(err).Error("Failed to create goal")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, response)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	status := GoalStatus(r.URL.Query().Get("status"))
	category := GoalCategory(r.URL.Query().Get("category"))

	responses, err := h.service.List(r.Context(), status, category)
	if err != nil {
		log.WithError(err).Error("Failed to list goals")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.WithError(err).Error("Failed to fetch goal")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateGoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		log.WithError(err).Error("Failed to update goal")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.WithError(err).Error("Failed to delete goal")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddProgress(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto AddProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.AddProgress(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		log.WithError(err).Error("Failed to update goal progress")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]any{"data": response})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to summarize goals")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	q := r.URL.Query()
	params := SearchParams{
		SearchTerm: q.Get("q"),
		Status:     GoalStatus(q.Get("status")),
		Category:   GoalCategory(q.Get("category")),
	}
	if raw := q.Get("min_amount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MinAmount = &v
		}
	}
	if raw := q.Get("max_amount"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.MaxAmount = &v
		}
	}

	responses, err := h.service.Search(r.Context(), params)
	if err != nil {
		log.WithError(err).Error("Failed to search goals")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) Overdue(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	responses, err := h.service.Overdue(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list overdue goals")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) NearDeadline(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			days = v
		}
	}

	responses, err := h.service.NearDeadline(r.Context(), days)
	if err != nil {
		log.WithError(err).Error("Failed to list goals near deadline")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, map[string]any{"data": h.service.Categories()})
}

func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	category := GoalCategory(chi.URLParam(r, "category"))
	responses, err := h.service.List(r.Context(), "", category)
	if err != nil {
		log.WithError(err).Error("Failed to list goals by category")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) ProgressInfo(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	info, err := h.service.ProgressInfo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.WithError(err).Error("Failed to fetch goal progress info")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]any{"data": info})
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to compute goal statistics")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]any{"data": stats})
}
