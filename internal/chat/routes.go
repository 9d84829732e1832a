package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.SendMessage)
	r.Get("/history", h.History)
	r.Delete("/delete/all", h.DeleteAll)
	r.Delete("/delete/{chatId}", h.Delete)

	return r
}
