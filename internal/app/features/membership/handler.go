// Package membership implements how identities enter leagues: accepting
// invites, requesting entry with a join code, and manager decisions on
// pending requests.
package membership

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leaguehub/leaguehub/internal/app/policy/leaguepolicy"
	"github.com/leaguehub/leaguehub/internal/app/store/invites"
	"github.com/leaguehub/leaguehub/internal/app/store/joinrequests"
	"github.com/leaguehub/leaguehub/internal/app/store/leagues"
	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/app/store/users"
	"github.com/leaguehub/leaguehub/internal/app/system/apperr"
	"github.com/leaguehub/leaguehub/internal/app/system/authz"
	"github.com/leaguehub/leaguehub/internal/app/system/httpjson"
	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
	"github.com/leaguehub/leaguehub/internal/app/system/ratelimit"
	"github.com/leaguehub/leaguehub/internal/app/system/timeouts"
	"github.com/leaguehub/leaguehub/internal/app/system/txn"
	"github.com/leaguehub/leaguehub/internal/app/visibility"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Client       *mongo.Client
	Cfg          visibility.Config
	Users        *userstore.Store
	Leagues      *leaguestore.Store
	Members      *memberstore.Store
	Invites      *invitestore.Store
	JoinRequests *joinrequeststore.Store
	Policy       *leaguepolicy.Policy
	JoinLimit    *ratelimit.JoinLimiter
	Log          *zap.Logger
}

// AcceptInvite handles POST /leagues/{leagueID}/invites/{inviteID}/accept.
// The membership write, invite transition, and user index update commit
// together.
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	email := authz.CallerEmail(r)
	leagueID := chi.URLParam(r, "leagueID")
	inviteID := chi.URLParam(r, "inviteID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(leagueID)
	if err != nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "malformed league id"))
		return
	}
	league, err := h.Leagues.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "league not found"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	if err := h.Users.Ensure(ctx, uid, email); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	p := visibility.Project(h.Cfg, u)

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		inv, err := h.Invites.Get(ctx, leagueID, inviteID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return apperr.New(apperr.NotFound, "invite not found")
			}
			return err
		}
		if inv.Status != models.StatusPending {
			return apperr.New(apperr.FailedPrecondition, "invite is no longer pending")
		}

		roleID := inv.RoleID
		if roleID == "" {
			roleID = models.RoleMember
		}
		// The founder re-entering their own league keeps OWNER no matter
		// what role the invite carried.
		if uid == league.CreatedByUID {
			roleID = models.RoleOwner
		}

		existed, err := h.Members.Exists(ctx, leagueID, uid)
		if err != nil {
			return err
		}
		if err := h.Members.Upsert(ctx, models.Member{
			LeagueID: leagueID,
			UID:      uid,
			RoleID:   roleID,
			Fields:   p.Public,
			Derived:  p.Derived,
		}); err != nil {
			return err
		}
		if !existed {
			if err := h.Leagues.IncMemberCount(ctx, oid, 1); err != nil {
				return err
			}
		}
		if err := h.Invites.MarkAccepted(ctx, leagueID, inviteID, uid); err != nil {
			return err
		}
		return h.Users.AddLeague(ctx, uid, leagueID)
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("invite accepted",
		zap.String("league_id", leagueID),
		zap.String("invite_id", inviteID),
		zap.String("uid", uid))
	httpjson.Write(w, map[string]any{"ok": true, "league_id": leagueID})
}

type joinByCodeRequest struct {
	JoinCode string `json:"join_code"`
}

type joinByCodeResponse struct {
	Status   string `json:"status"`
	LeagueID string `json:"league_id"`
}

// JoinByCode handles POST /leagues/join. Submitting a valid code creates a
// pending request for managers to review; it never grants membership
// directly. Re-submitting while pending is idempotent, and a rejected
// requester may ask again.
func (h *Handler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	email := authz.CallerEmail(r)

	var req joinByCodeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	code := normalize.JoinCode(req.JoinCode)
	if code == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "join_code is required"))
		return
	}
	if h.JoinLimit != nil && !h.JoinLimit.Check(r, uid) {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.ResourceExhausted, "too many join attempts, slow down"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	league, err := h.Leagues.GetByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "no league with that join code"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}
	leagueID := league.ID.Hex()
	if h.JoinLimit != nil {
		h.JoinLimit.ResetUID(uid)
	}

	if err := h.Users.Ensure(ctx, uid, email); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	// Already a member: heal the user's league index and report it.
	isMember, err := h.Members.Exists(ctx, leagueID, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if isMember {
		if err := h.Users.AddLeague(ctx, uid, leagueID); err != nil {
			httpjson.WriteError(w, h.Log, err)
			return
		}
		httpjson.Write(w, joinByCodeResponse{Status: "already_member", LeagueID: leagueID})
		return
	}

	if jr, err := h.JoinRequests.GetByUID(ctx, leagueID, uid); err == nil && jr.Status == models.StatusPending {
		httpjson.Write(w, joinByCodeResponse{Status: "already_requested", LeagueID: leagueID})
		return
	} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	p := visibility.Project(h.Cfg, u)

	if _, err := h.JoinRequests.Submit(ctx, models.JoinRequest{
		ID:       uuid.NewString(),
		LeagueID: leagueID,
		UID:      uid,
		Fields:   p.Public,
		Derived:  p.Derived,
	}); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("join request created",
		zap.String("league_id", leagueID),
		zap.String("uid", uid))
	httpjson.Write(w, joinByCodeResponse{Status: "requested", LeagueID: leagueID})
}

// ListJoinRequests handles GET /leagues/{leagueID}/join-requests.
// Manager-only.
func (h *Handler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := h.Policy.CallerIsManager(ctx, leagueID, uid, models.PermMembersManage)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !allowed {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "reviewing join requests requires manager permission"))
		return
	}

	reqs, err := h.JoinRequests.ListPending(ctx, leagueID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, map[string]any{"requests": reqs})
}

type respondRequest struct {
	Accept bool   `json:"accept"`
	RoleID string `json:"role_id,omitempty"`
}

// Respond handles POST /leagues/{leagueID}/join-requests/{requestID}/respond.
// Manager-only; accept grants membership in the same transaction that closes
// the request.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	callerUID, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")
	requestID := chi.URLParam(r, "requestID")

	var req respondRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	allowed, err := h.Policy.CallerIsManager(ctx, leagueID, callerUID, models.PermMembersManage)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !allowed {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "deciding join requests requires manager permission"))
		return
	}

	if err := h.decide(ctx, leagueID, requestID, callerUID, req.Accept, req.RoleID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	status := models.StatusRejected
	if req.Accept {
		status = models.StatusAccepted
	}
	h.Log.Info("join request decided",
		zap.String("league_id", leagueID),
		zap.String("request_id", requestID),
		zap.String("status", status))
	httpjson.Write(w, map[string]any{"ok": true, "status": status})
}

type respondByUIDRequest struct {
	UID string `json:"uid"`
	// The older acceptJoinRequest call shape carries no accept flag at all,
	// so an absent field means accept.
	Accept *bool  `json:"accept"`
	RoleID string `json:"role_id,omitempty"`
}

// RespondByUID handles POST /leagues/{leagueID}/join-requests/respond-by-uid,
// the older call shape that addresses the request by its requester. One live
// request per (league, uid) makes the lookup unambiguous.
func (h *Handler) RespondByUID(w http.ResponseWriter, r *http.Request) {
	callerUID, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	var req respondByUIDRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if req.UID == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "uid is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	allowed, err := h.Policy.CallerIsManager(ctx, leagueID, callerUID, models.PermMembersManage)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !allowed {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "deciding join requests requires manager permission"))
		return
	}

	jr, err := h.JoinRequests.GetByUID(ctx, leagueID, req.UID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "no join request for that uid"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	accept := req.Accept == nil || *req.Accept
	if err := h.decide(ctx, leagueID, jr.ID, callerUID, accept, req.RoleID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	status := models.StatusRejected
	if accept {
		status = models.StatusAccepted
	}
	httpjson.Write(w, map[string]any{"ok": true, "status": status})
}

// decide applies a manager decision transactionally. Acceptance re-checks
// pending inside the transaction so two managers cannot both grant it.
func (h *Handler) decide(ctx context.Context, leagueID, requestID, byUID string, accept bool, roleID string) error {
	oid, err := primitive.ObjectIDFromHex(leagueID)
	if err != nil {
		return apperr.New(apperr.InvalidArgument, "malformed league id")
	}

	return txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		jr, err := h.JoinRequests.Get(ctx, leagueID, requestID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return apperr.New(apperr.NotFound, "join request not found")
			}
			return err
		}
		if jr.Status != models.StatusPending {
			return apperr.New(apperr.FailedPrecondition, "join request is no longer pending")
		}

		if !accept {
			return h.JoinRequests.MarkDecided(ctx, leagueID, requestID, models.StatusRejected, byUID)
		}

		role := normalize.Role(roleID)
		if role == "" {
			role = models.RoleMember
		}

		existed, err := h.Members.Exists(ctx, leagueID, jr.UID)
		if err != nil {
			return err
		}
		if err := h.Members.Upsert(ctx, models.Member{
			LeagueID: leagueID,
			UID:      jr.UID,
			RoleID:   role,
			Fields:   jr.Fields,
			Derived:  jr.Derived,
		}); err != nil {
			return err
		}
		if !existed {
			if err := h.Leagues.IncMemberCount(ctx, oid, 1); err != nil {
				return err
			}
		}
		if err := h.Users.AddLeague(ctx, jr.UID, leagueID); err != nil {
			return err
		}
		return h.JoinRequests.MarkDecided(ctx, leagueID, requestID, models.StatusAccepted, byUID)
	})
}

// ListMembers handles GET /leagues/{leagueID}/members: the denormalized
// member mirrors, visible to any member of the league.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	isMember, err := h.Members.Exists(ctx, leagueID, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !isMember {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "not a member of this league"))
		return
	}

	members, err := h.Members.ListByLeague(ctx, leagueID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, map[string]any{"members": members})
}
