package leagues

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the league lifecycle routes to a /leagues router shared with
// the membership feature.
func Register(r chi.Router, h *Handler) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/{leagueID}/active", h.SetActive)
	r.Get("/{leagueID}/invites", h.ListInvites)
	r.Post("/{leagueID}/invites", h.CreateInvite)
}
