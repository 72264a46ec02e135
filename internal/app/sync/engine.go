// Package sync recomputes and republishes every derived projection of a
// user profile after each write: the public directory entry, the
// denormalized member records (with field-level pruning), and the three
// per-league sharing views.
package sync

import (
	"context"
	"fmt"

	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/app/store/publicprofiles"
	"github.com/leaguehub/leaguehub/internal/app/store/sharedprofiles"
	"github.com/leaguehub/leaguehub/internal/app/visibility"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

type Engine struct {
	Cfg     visibility.Config
	Members *memberstore.Store
	Public  *publicprofilestore.Store
	Shared  *sharedprofilestore.Store
	Log     *zap.Logger
}

func NewEngine(cfg visibility.Config, members *memberstore.Store, public *publicprofilestore.Store, shared *sharedprofilestore.Store, log *zap.Logger) *Engine {
	return &Engine{Cfg: cfg, Members: members, Public: public, Shared: shared, Log: log}
}

// Apply fans one profile write out to every projection. after == nil means
// the profile was deleted: the directory entry goes away and nothing else
// is touched. Failures on one league's views are logged and skipped so the
// rest of the fan-out still lands; only a directory write failure is
// returned, since every run fully overwrites its targets and the next run
// repairs anything missed.
func (e *Engine) Apply(ctx context.Context, uid string, after *models.User) error {
	if after == nil {
		if err := e.Public.Delete(ctx, uid); err != nil {
			return fmt.Errorf("delete public profile %s: %w", uid, err)
		}
		return nil
	}

	p := visibility.Project(e.Cfg, after)

	// 1) Public directory: replaced wholesale, or deleted when empty.
	if len(p.Public) > 0 {
		err := e.Public.Replace(ctx, models.PublicProfile{
			UID:     uid,
			Fields:  p.Public,
			Derived: p.Derived,
		})
		if err != nil {
			return fmt.Errorf("replace public profile %s: %w", uid, err)
		}
	} else if err := e.Public.Delete(ctx, uid); err != nil {
		return fmt.Errorf("delete public profile %s: %w", uid, err)
	}

	// 2) Member mirrors: merge the new public fields in and unset keys the
	// record carries that are no longer publicly visible.
	memberships, err := e.Members.ListByUID(ctx, uid)
	if err != nil {
		e.Log.Error("sync: list memberships failed", zap.String("uid", uid), zap.Error(err))
		memberships = nil
	}
	for _, m := range memberships {
		var prune []string
		for k := range m.Fields {
			if _, still := p.Public[k]; !still {
				prune = append(prune, k)
			}
		}
		if err := e.Members.UpdateProjection(ctx, m.LeagueID, uid, p.Public, p.Derived, prune); err != nil {
			e.Log.Error("sync: member mirror update failed",
				zap.String("uid", uid),
				zap.String("league_id", m.LeagueID),
				zap.Error(err))
		}
	}

	// 3) Per-league sharing views.
	for _, leagueID := range after.LeagueIDs {
		e.applyLeagueViews(ctx, leagueID, uid, p)
	}

	return nil
}

func (e *Engine) applyLeagueViews(ctx context.Context, leagueID, uid string, p visibility.Projection) {
	// Preferences are written unconditionally, for audit.
	if err := e.Shared.UpsertPreferences(ctx, leagueID, uid, p.Privacy); err != nil {
		e.Log.Error("sync: share preferences write failed",
			zap.String("uid", uid), zap.String("league_id", leagueID), zap.Error(err))
	}

	if len(p.League) > 0 {
		err := e.Shared.ReplaceLeagueShared(ctx, models.LeagueSharedProfile{
			LeagueID: leagueID,
			UID:      uid,
			Fields:   p.League,
		})
		if err != nil {
			e.Log.Error("sync: league shared view write failed",
				zap.String("uid", uid), zap.String("league_id", leagueID), zap.Error(err))
		}
	} else if err := e.Shared.DeleteLeagueShared(ctx, leagueID, uid); err != nil {
		e.Log.Error("sync: league shared view delete failed",
			zap.String("uid", uid), zap.String("league_id", leagueID), zap.Error(err))
	}

	if len(p.Shared) > 0 {
		err := e.Shared.ReplaceShared(ctx, models.SharedProfile{
			LeagueID:       leagueID,
			UID:            uid,
			Fields:         p.Shared,
			EmailsLower:    p.EmailsLower,
			UIDs:           p.UIDs,
			SameDepartment: p.SameDepartment,
			Owner:          p.Owner,
			Special:        p.Special,
		})
		if err != nil {
			e.Log.Error("sync: allow-list shared view write failed",
				zap.String("uid", uid), zap.String("league_id", leagueID), zap.Error(err))
		}
	} else if err := e.Shared.DeleteShared(ctx, leagueID, uid); err != nil {
		e.Log.Error("sync: allow-list shared view delete failed",
			zap.String("uid", uid), zap.String("league_id", leagueID), zap.Error(err))
	}
}
