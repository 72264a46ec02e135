// Package rolestore holds per-league permission roles. The owner role is
// special-cased by policy, not stored permissions.
package rolestore

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
	return &Store{c: db.Collection("league_roles")}
}

// Get returns the role document for (leagueID, roleID), or
// mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, leagueID, roleID string) (*models.Role, error) {
	var r models.Role
	err := s.c.FindOne(ctx, bson.M{"league_id": leagueID, "role_id": roleID}).Decode(&r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Put upserts a role and its permission map.
func (s *Store) Put(ctx context.Context, r models.Role) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"league_id": r.LeagueID, "role_id": r.RoleID},
		bson.M{
			"$set": bson.M{
				"name":        r.Name,
				"tier":        r.Tier,
				"permissions": r.Permissions,
				"updated_at":  now,
			},
			"$setOnInsert": bson.M{
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true))
	return err
}
