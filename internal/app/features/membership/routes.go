package membership

import (
	"github.com/go-chi/chi/v5"
)

// Register adds the membership workflow routes to a /leagues router shared
// with the leagues feature.
func Register(r chi.Router, h *Handler) {
	r.Post("/join", h.JoinByCode)
	r.Post("/{leagueID}/invites/{inviteID}/accept", h.AcceptInvite)
	r.Get("/{leagueID}/join-requests", h.ListJoinRequests)
	r.Post("/{leagueID}/join-requests/{requestID}/respond", h.Respond)
	r.Post("/{leagueID}/join-requests/respond-by-uid", h.RespondByUID)
	r.Get("/{leagueID}/members", h.ListMembers)
}
