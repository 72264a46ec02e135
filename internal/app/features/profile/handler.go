// Package profile exposes the callable profile operations: nickname
// reservation and the two profile-field update paths.
package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/leaguehub/leaguehub/internal/app/store/nicknames"
	"github.com/leaguehub/leaguehub/internal/app/store/users"
	"github.com/leaguehub/leaguehub/internal/app/sync"
	"github.com/leaguehub/leaguehub/internal/app/system/apperr"
	"github.com/leaguehub/leaguehub/internal/app/system/authz"
	"github.com/leaguehub/leaguehub/internal/app/system/httpjson"
	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
	"github.com/leaguehub/leaguehub/internal/app/system/timeouts"
	"github.com/leaguehub/leaguehub/internal/app/system/txn"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Client    *mongo.Client
	Users     *userstore.Store
	Nicknames *nicknamestore.Store
	Engine    *sync.Engine
	Log       *zap.Logger

	sanitize *bluemonday.Policy
}

func NewHandler(client *mongo.Client, users *userstore.Store, nicknames *nicknamestore.Store, engine *sync.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		Client:    client,
		Users:     users,
		Nicknames: nicknames,
		Engine:    engine,
		Log:       logger,
		sanitize:  bluemonday.StrictPolicy(),
	}
}

type setNicknameRequest struct {
	Nickname string `json:"nickname"`
}

type setNicknameResponse struct {
	OK            bool   `json:"ok"`
	Nickname      string `json:"nickname"`
	NicknameLower string `json:"nickname_lower"`
}

// SetNickname handles POST /profile/nickname. The registry entry and the
// profile update commit in one transaction so a nickname can never end up
// owned by two identities.
func (h *Handler) SetNickname(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	var req setNicknameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	display, lower, ok := normalize.Nickname(req.Nickname)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument,
			"nickname must be 3-20 characters from letters, digits, dot, underscore, hyphen"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
		entry, err := h.Nicknames.Get(ctx, lower)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		if entry != nil && entry.UID != uid {
			return apperr.New(apperr.AlreadyExists, "nickname is already taken")
		}

		u, err := h.Users.GetByUID(ctx, uid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return apperr.New(apperr.FailedPrecondition, "profile does not exist yet")
			}
			return err
		}

		// Release the previous nickname, but only while we still own it.
		if u.NicknameLower != "" && u.NicknameLower != lower {
			if err := h.Nicknames.DeleteIfOwned(ctx, u.NicknameLower, uid); err != nil {
				return err
			}
		}

		if err := h.Nicknames.Put(ctx, lower, uid, display); err != nil {
			return err
		}
		return h.Users.SetNickname(ctx, uid, display, lower)
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.resync(uid)
	httpjson.Write(w, setNicknameResponse{OK: true, Nickname: display, NicknameLower: lower})
}

type updateProfileRequest struct {
	Fields  map[string]any                `json:"fields"`
	Privacy map[string]models.FieldPolicy `json:"privacy"`
}

// Update handles POST /profile. Both patches merge key-by-key into the
// existing maps; keys the client did not send are left alone.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	var req updateProfileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	if req.Fields == nil && req.Privacy == nil {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "nothing to update"))
		return
	}

	fields := make(map[string]any, len(req.Fields))
	for k, v := range req.Fields {
		fields[k] = h.sanitizeValue(v)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.MergeProfile(ctx, uid, fields, req.Privacy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "profile not found"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.resync(uid)
	httpjson.Write(w, map[string]bool{"ok": true})
}

type updateFieldRequest struct {
	FieldKey string `json:"field_key"`
	Value    any    `json:"value"`
}

// UpdateField handles POST /profile/field, writing a single custom field.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.CallerUID(r)
	if !ok {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.Unauthenticated, "sign in required"))
		return
	}

	var req updateFieldRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, err)
		return
	}
	key := normalize.QueryParam(req.FieldKey)
	if key == "" {
		httpjson.WriteError(w, h.Log, apperr.New(apperr.InvalidArgument, "field_key is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetField(ctx, uid, key, h.sanitizeValue(req.Value)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, apperr.New(apperr.NotFound, "profile not found"))
			return
		}
		httpjson.WriteError(w, h.Log, err)
		return
	}

	h.resync(uid)
	httpjson.Write(w, map[string]bool{"ok": true})
}

// sanitizeValue strips markup from string values before they are stored
// and fanned out to other users' views.
func (h *Handler) sanitizeValue(v any) any {
	if s, ok := v.(string); ok {
		return h.sanitize.Sanitize(s)
	}
	return v
}

// resync runs the projection fan-out inline, best effort. The change
// stream watcher covers deployments where this process dies mid-request;
// the engine is idempotent so running twice is harmless.
func (h *Handler) resync(uid string) {
	if h.Engine == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Sync())
	defer cancel()

	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		h.Log.Warn("resync: profile read failed", zap.String("uid", uid), zap.Error(err))
		return
	}
	if err := h.Engine.Apply(ctx, uid, u); err != nil {
		h.Log.Warn("resync: fan-out failed", zap.String("uid", uid), zap.Error(err))
	}
}
