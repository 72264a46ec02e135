// Package leagues exposes league lifecycle operations: creation with join
// code minting, listing for the caller, active-league selection, and
// manager-issued invites.
package leagues

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leaguehub/leaguehub/internal/app/policy/leaguepolicy"
	"github.com/leaguehub/leaguehub/internal/app/store/invites"
	"github.com/leaguehub/leaguehub/internal/app/store/leagueroles"
	"github.com/leaguehub/leaguehub/internal/app/store/leagues"
	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/app/store/users"
	"github.com/leaguehub/leaguehub/internal/app/system/apperr"
	"github.com/leaguehub/leaguehub/internal/app/system/authz"
	"github.com/leaguehub/leaguehub/internal/app/system/blob"
	"github.com/leaguehub/leaguehub/internal/app/system/httpjson"
	"github.com/leaguehub/leaguehub/internal/app/system/joincode"
	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
	"github.com/leaguehub/leaguehub/internal/app/system/timeouts"
	"github.com/leaguehub/leaguehub/internal/app/system/txn"
	"github.com/leaguehub/leaguehub/internal/app/visibility"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Client  *mongo.Client
	Cfg     visibility.Config
	Users   *userstore.Store
	Leagues *leaguestore.Store
	Roles   *rolestore.Store
	Members *memberstore.Store
	Invites *invitestore.Store
	Policy  *leaguepolicy.Policy
	Blobs   blob.Store
	Log     *zap.Logger
}

type createLeagueRequest struct {
	Name            string `json:"name"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LogoBase64      string `json:"logo_base64,omitempty"`
	LogoContentType string `json:"logo_content_type,omitempty"`
}

type createLeagueResponse struct {
	League models.League `json:"league"`
}

// Create handles POST /leagues. The founder becomes the OWNER member in the
// same transaction that creates the league and its owner role.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	email := authz.CallerEmail(r)

	var req createLeagueRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	name := normalize.Name(req.Name)
	firstName := normalize.Name(req.FirstName)
	lastName := normalize.Name(req.LastName)
	if name == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "league name is required"))
		return
	}
	if firstName == "" || lastName == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "founder first and last name are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Users.Ensure(ctx, uid, email); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if err := h.Users.MergeProfile(ctx, uid, map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
	}, nil); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	code, err := h.mintJoinCode(ctx)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	leagueID := primitive.NewObjectID()

	// The logo goes to blob storage before the transaction; an orphaned
	// object from a failed create is harmless and overwritten on retry.
	logoURL := ""
	if req.LogoBase64 != "" {
		logoURL, err = h.uploadLogo(ctx, leagueID.Hex(), req.LogoBase64, req.LogoContentType)
		if err != nil {
			httpjson.WriteError(w, h.Log, err)
			return
		}
	}

	p := visibility.Project(h.Cfg, u)
	now := time.Now().UTC()
	league := models.League{
		ID:           leagueID,
		Name:         name,
		JoinCode:     code,
		CreatedByUID: uid,
		LogoURL:      logoURL,
		MemberCount:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		created, err := h.Leagues.Create(ctx, league)
		if err != nil {
			return err
		}
		league = created

		if err := h.Roles.Put(ctx, models.Role{
			LeagueID:    leagueID.Hex(),
			RoleID:      models.RoleOwner,
			Name:        "Owner",
			Permissions: models.AllPermissions(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return err
		}

		if err := h.Members.Upsert(ctx, models.Member{
			LeagueID: leagueID.Hex(),
			UID:      uid,
			RoleID:   models.RoleOwner,
			JoinCode: code,
			Fields:   p.Public,
			Derived:  p.Derived,
		}); err != nil {
			return err
		}

		return h.Users.AddLeague(ctx, uid, leagueID.Hex())
	})
	if err != nil {
		if errors.Is(err, leaguestore.ErrDuplicateJoinCode) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.AlreadyExists, "join code collision, retry"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("league created",
		zap.String("league_id", leagueID.Hex()),
		zap.String("uid", uid))
	httpjson.Write(w, createLeagueResponse{League: league})
}

func (h *Handler) mintJoinCode(ctx context.Context) (string, error) {
	return mintJoinCode(ctx, joincode.Generate, h.Leagues.JoinCodeExists)
}

// mintJoinCode draws random codes until one is unused. The existence check
// races with concurrent creates; the unique index on join_code_upper is the
// real guarantee and surfaces as ErrDuplicateJoinCode from Create.
func mintJoinCode(ctx context.Context, gen func() (string, error), taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < joincode.MaxAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		exists, err := taken(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperr.New(apperr.Internal, "could not mint a unique join code")
}

func (h *Handler) uploadLogo(ctx context.Context, leagueID, b64, contentType string) (string, error) {
	if h.Blobs == nil {
		return "", apperr.New(apperr.FailedPrecondition, "logo storage is not configured")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", apperr.New(apperr.InvalidArgument, "logo_base64 is not valid base64")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	url, err := h.Blobs.Put(ctx, "league-logos/"+leagueID+".jpg", data, contentType)
	if err != nil {
		return "", err
	}
	return url, nil
}

type leagueEntry struct {
	models.League
	RoleID   string `json:"role_id"`
	IsActive bool   `json:"is_active"`
}

type listLeaguesResponse struct {
	Leagues        []leagueEntry   `json:"leagues"`
	PendingInvites []models.Invite `json:"pending_invites"`
}

// List handles GET /leagues: the caller's leagues (active league first, then
// by name) plus any invites pending on their email.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	resp := listLeaguesResponse{Leagues: []leagueEntry{}, PendingInvites: []models.Invite{}}

	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if u != nil {
		ids := make([]primitive.ObjectID, 0, len(u.LeagueIDs))
		for _, hex := range u.LeagueIDs {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		leagues, err := h.Leagues.ListByIDs(ctx, ids)
		if err != nil {
			httpjson.WriteError(w, h.Log, err)
			return
		}
		for _, l := range leagues {
			entry := leagueEntry{League: l, IsActive: l.ID.Hex() == u.ActiveLeagueID}
			if m, err := h.Members.Get(ctx, l.ID.Hex(), uid); err == nil {
				entry.RoleID = m.RoleID
			}
			resp.Leagues = append(resp.Leagues, entry)
		}
		sort.SliceStable(resp.Leagues, func(i, j int) bool {
			if resp.Leagues[i].IsActive != resp.Leagues[j].IsActive {
				return resp.Leagues[i].IsActive
			}
			return resp.Leagues[i].Name < resp.Leagues[j].Name
		})
	}

	email := authz.CallerEmail(r)
	if email != "" {
		invs, err := h.Invites.ListPendingByEmail(ctx, email)
		if err != nil {
			httpjson.WriteError(w, h.Log, err)
			return
		}
		resp.PendingInvites = invs
	}

	httpjson.Write(w, resp)
}

// SetActive handles POST /leagues/{leagueID}/active.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if err := h.Users.SetActiveLeague(ctx, uid, leagueID); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, map[string]bool{"ok": true})
}

type createInviteRequest struct {
	Email  string `json:"email"`
	RoleID string `json:"role_id,omitempty"`
}

type createInviteResponse struct {
	Invite models.Invite `json:"invite"`
}

// CreateInvite handles POST /leagues/{leagueID}/invites. Manager-only.
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	var req createInviteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "email is required"))
		return
	}
	roleID := normalize.Role(req.RoleID)
	if roleID == "" {
		roleID = models.RoleMember
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := h.Policy.CallerIsManager(ctx, leagueID, uid, models.PermInvitesManage)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !allowed {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "invites require manager permission"))
		return
	}

	inv, err := h.Invites.Create(ctx, models.Invite{
		ID:           uuid.NewString(),
		LeagueID:     leagueID,
		EmailLower:   email,
		RoleID:       roleID,
		InvitedByUID: uid,
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.Log.Info("invite created",
		zap.String("league_id", leagueID),
		zap.String("invite_id", inv.ID))
	httpjson.Write(w, createInviteResponse{Invite: inv})
}

// ListInvites handles GET /leagues/{leagueID}/invites. Manager-only.
func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}
	leagueID := chi.URLParam(r, "leagueID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := h.Policy.CallerIsManager(ctx, leagueID, uid, models.PermInvitesManage)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if !allowed {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.PermissionDenied, "invites require manager permission"))
		return
	}

	invs, err := h.Invites.ListPendingByLeague(ctx, leagueID)
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	httpjson.Write(w, map[string]any{"invites": invs})
}
