// Package publicprofilestore is the public directory: one derived record
// per identity, fully owned by the sync engine.
package publicprofilestore

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
	return &Store{c: db.Collection("users_public")}
}

// Get returns the directory entry, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, uid string) (*models.PublicProfile, error) {
	var p models.PublicProfile
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Replace overwrites the entry wholesale. A merge would let removed fields
// linger, so the whole document is replaced on every run.
func (s *Store) Replace(ctx context.Context, p models.PublicProfile) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.UID}, p, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the entry. Missing entries are not an error.
func (s *Store) Delete(ctx context.Context, uid string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": uid})
	return err
}
