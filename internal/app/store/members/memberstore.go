// Package memberstore holds the per-(league, user) membership records,
// including the denormalized snapshot of the member's visible fields that
// the sync engine keeps current.
package memberstore

import (
	"context"
	"time"

	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("league_members")}
}

// Get returns the membership for (leagueID, uid), or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, leagueID, uid string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"league_id": leagueID, "uid": uid}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Exists reports whether a membership record is present.
func (s *Store) Exists(ctx context.Context, leagueID, uid string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"league_id": leagueID, "uid": uid})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Upsert creates or refreshes a membership. Role and join code are only
// written when non-empty so a projection refresh cannot clobber them.
func (s *Store) Upsert(ctx context.Context, m models.Member) error {
	now := time.Now().UTC()
	set := bson.M{
		"fields":     m.Fields,
		"derived":    m.Derived,
		"updated_at": now,
	}
	if m.RoleID != "" {
		set["role_id"] = m.RoleID
	}
	if m.JoinCode != "" {
		set["join_code"] = m.JoinCode
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"league_id": m.LeagueID, "uid": m.UID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true))
	return err
}

// UpdateProjection merges the latest visible fields and derived keys into
// an existing membership and unsets pruned field keys. Fields that lost
// visibility must vanish from the record, so a plain merge is not enough.
func (s *Store) UpdateProjection(ctx context.Context, leagueID, uid string, fields map[string]any, derived models.DerivedFields, prune []string) error {
	set := bson.M{
		"derived":    derived,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range fields {
		set["fields."+k] = v
	}
	update := bson.M{"$set": set}
	if len(prune) > 0 {
		unset := bson.M{}
		for _, k := range prune {
			unset["fields."+k] = ""
		}
		update["$unset"] = unset
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"league_id": leagueID, "uid": uid}, update)
	return err
}

// ListByUID returns every membership the user holds, across leagues.
func (s *Store) ListByUID(ctx context.Context, uid string) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{"uid": uid})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByLeague returns the league roster sorted by display name.
func (s *Store) ListByLeague(ctx context.Context, leagueID string) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "derived.display_name_lower", Value: 1},
		{Key: "uid", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"league_id": leagueID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
