package profile

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Update)
	r.Post("/field", h.UpdateField)
	r.Post("/nickname", h.SetNickname)
	return r
}
