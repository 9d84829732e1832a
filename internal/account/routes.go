package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Post("/sync-accounts", h.Sync)
	r.Delete("/", h.DeleteAll)
	r.Delete("/delete/{id}", h.Delete)
	r.Get("/{id}", h.Get)

	return r
}
