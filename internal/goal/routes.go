package goal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	// Static paths come before /{id} so chi does not swallow them.
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/overdue", h.Overdue)
	r.Get("/near-deadline", h.NearDeadline)
	r.Get("/search", h.Search)
	r.Get("/categories", h.Categories)
	r.Get("/statistics", h.Statistics)
	r.Get("/category/{category}", h.ByCategory)

	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/progress", h.AddProgress)
	r.Get("/{id}/progress-info", h.ProgressInfo)

	return r
}
