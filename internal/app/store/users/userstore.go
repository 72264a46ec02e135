package userstore

import (
	"context"
	"time"

	"github.com/leaguehub/leaguehub/internal/app/system/normalize"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByUID loads a user by identity id. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ensure upserts the skeleton user document for uid, refreshing the login
// email fields. Profile contents are never touched here.
func (s *Store) Ensure(ctx context.Context, uid, email string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, uid, bson.M{
		"$set": bson.M{
			"email":       email,
			"email_lower": normalize.Email(email),
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}, options.Update().SetUpsert(true))
	return err
}

// MergeProfile merges custom-field and privacy patches into the profile
// without disturbing keys the caller did not send. Dotted paths keep the
// update per-key rather than replacing the maps wholesale.
func (s *Store) MergeProfile(ctx context.Context, uid string, fields map[string]any, privacy map[string]models.FieldPolicy) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set["profile.custom."+k] = v
	}
	for k, p := range privacy {
		set["profile.privacy."+k] = p
	}
	res, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetField writes one custom field.
func (s *Store) SetField(ctx context.Context, uid, key string, value any) error {
	res, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"profile.custom." + key: value,
		"updated_at":            time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetNickname updates the display and lowercase nickname on the profile.
// Runs inside the reservation transaction.
func (s *Store) SetNickname(ctx context.Context, uid, nickname, lower string) error {
	_, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"nickname":                nickname,
		"nickname_lower":          lower,
		"profile.custom.nickname": nickname,
		"updated_at":              time.Now().UTC(),
	}})
	return err
}

// AddLeague appends leagueID to the membership index (idempotently) and
// makes it the active league.
func (s *Store) AddLeague(ctx context.Context, uid, leagueID string) error {
	_, err := s.c.UpdateByID(ctx, uid, bson.M{
		"$addToSet": bson.M{"league_ids": leagueID},
		"$set": bson.M{
			"active_league_id": leagueID,
			"updated_at":       time.Now().UTC(),
		},
	})
	return err
}

// SetActiveLeague switches the active league without touching the index.
func (s *Store) SetActiveLeague(ctx context.Context, uid, leagueID string) error {
	res, err := s.c.UpdateByID(ctx, uid, bson.M{"$set": bson.M{
		"active_league_id": leagueID,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
