package bank

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/create-link-token", h.CreateLinkToken)
	r.Post("/create-public-token", h.CreatePublicToken)
	r.Post("/exchange-public-token", h.ExchangePublicToken)
	r.Post("/disconnect", h.Disconnect)
	r.Get("/status", h.Status)

	return r
}
