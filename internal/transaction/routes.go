package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/transactions", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/by-type/{type}", h.ByType)
	r.Post("/sync-transactions", h.Sync)
	r.Delete("/delete-all", h.DeleteAll)
	r.Delete("/{id}/delete", h.Delete)
	r.Get("/{id}", h.Get)

	return r
}
