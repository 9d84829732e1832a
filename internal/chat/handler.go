package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service ChatService
}

func NewHandler(service ChatService) *Handler {
	return &Handler{service: service}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrMessageNotFound):
		http.Error(w, "chat message not found", http.StatusNotFound)
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto SendMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.SendMessage(r.Context(), dto)
	if err != nil {
		log.WithError(err).Error("Failed to handle chat message")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	response, err := h.service.History(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch chat history")
		writeError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, response)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "chatId")); err != nil {
		log.WithError(err).Error("Failed to delete chat message")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.service.DeleteAll(r.Context()); err != nil {
		log.WithError(err).Error("Failed to delete chat history")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
