// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureNicknames(ctx, db); err != nil {
		problems = append(problems, "nicknames: "+err.Error())
	}
	if err := ensureLeagues(ctx, db); err != nil {
		problems = append(problems, "leagues: "+err.Error())
	}
	if err := ensureLeagueRoles(ctx, db); err != nil {
		problems = append(problems, "league_roles: "+err.Error())
	}
	if err := ensureLeagueMembers(ctx, db); err != nil {
		problems = append(problems, "league_members: "+err.Error())
	}
	if err := ensureLeagueInvites(ctx, db); err != nil {
		problems = append(problems, "league_invites: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "league_join_requests: "+err.Error())
	}
	if err := ensureSharePreferences(ctx, db); err != nil {
		problems = append(problems, "share_preferences: "+err.Error())
	}
	if err := ensureSharedProfilesLeague(ctx, db); err != nil {
		problems = append(problems, "shared_profiles_league: "+err.Error())
	}
	if err := ensureSharedProfiles(ctx, db); err != nil {
		problems = append(problems, "shared_profiles: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func loadIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		existing := loadIndexes(ctx, coll)

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}

			// Name or options mismatch: drop & recreate with the desired shape.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Invite lookups resolve by login email. Not unique: legacy data
		// carried accounts sharing an address.
		{
			Keys:    bson.D{{Key: "email_lower", Value: 1}},
			Options: options.Index().SetName("idx_users_emaillower"),
		},
		{
			Keys:    bson.D{{Key: "nickname_lower", Value: 1}},
			Options: options.Index().SetName("idx_users_nicklower"),
		},
		// Fan-out walks every member of a league via users.league_ids too.
		{
			Keys:    bson.D{{Key: "league_ids", Value: 1}},
			Options: options.Index().SetName("idx_users_leagueids"),
		},
	})
}

func ensureNicknames(ctx context.Context, db *mongo.Database) error {
	// _id is the folded nickname, so uniqueness comes for free; the uid
	// index serves release-on-change lookups.
	c := db.Collection("nicknames")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_nicknames_uid"),
		},
	})
}

func ensureLeagues(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("leagues")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Join codes resolve case-insensitively through the uppercased copy.
		{
			Keys:    bson.D{{Key: "join_code_upper", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_leagues_joincode"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_leagues_nameci__id"),
		},
		{
			Keys:    bson.D{{Key: "created_by_uid", Value: 1}},
			Options: options.Index().SetName("idx_leagues_createdby"),
		},
	})
}

func ensureLeagueRoles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("league_roles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "role_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_roles_league_roleid"),
		},
	})
}

func ensureLeagueMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("league_members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one member doc per (league, user).
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_league_uid"),
		},
		// Fan-out: find all member docs for one user.
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_members_uid"),
		},
		// Roster listing, sorted by display name with a stable tiebreak.
		{
			Keys: bson.D{
				{Key: "league_id", Value: 1},
				{Key: "derived.display_name_lower", Value: 1},
				{Key: "uid", Value: 1},
			},
			Options: options.Index().SetName("idx_members_league_displaylower_uid"),
		},
	})
}

func ensureLeagueInvites(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("league_invites")
	// Invites were written under three different email fields over time, so
	// recipient lookup needs all three.
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invites_league_status"),
		},
		{
			Keys:    bson.D{{Key: "email_lower", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invites_email_status"),
		},
		{
			Keys:    bson.D{{Key: "to_email_lower", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invites_toemail_status"),
		},
		{
			Keys:    bson.D{{Key: "invited_email_lower", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invites_invitedemail_status"),
		},
	})
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("league_join_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One live request per (league, user); re-requests update in place.
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_joinreq_league_uid"),
		},
		// Pending queue listing, newest first.
		{
			Keys: bson.D{
				{Key: "league_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_joinreq_league_status_created"),
		},
	})
}

func ensureSharePreferences(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("share_preferences")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shareprefs_league_uid"),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_shareprefs_uid"),
		},
	})
}

func ensureSharedProfilesLeague(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("shared_profiles_league")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_sharedleague_league_uid"),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_sharedleague_uid"),
		},
	})
}

func ensureSharedProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("shared_profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shared_league_uid"),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("idx_shared_uid"),
		},
		// Readers resolve "profiles shared with me" by email or uid grant.
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "emails_lower", Value: 1}},
			Options: options.Index().SetName("idx_shared_league_emails"),
		},
		{
			Keys:    bson.D{{Key: "league_id", Value: 1}, {Key: "uids", Value: 1}},
			Options: options.Index().SetName("idx_shared_league_uids"),
		},
	})
}
