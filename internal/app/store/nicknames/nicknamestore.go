// Package nicknamestore is the uniqueness registry for nicknames: one
// document per lowercase nickname, keyed by it.
package nicknamestore

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
	return &Store{c: db.Collection("nicknames")}
}

// Get returns the entry for lower, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, lower string) (*models.NicknameEntry, error) {
	var e models.NicknameEntry
	if err := s.c.FindOne(ctx, bson.M{"_id": lower}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Put claims (or refreshes) the entry for lower on behalf of uid. The
// caller checks ownership first, inside the same transaction.
func (s *Store) Put(ctx context.Context, lower, uid, display string) error {
	_, err := s.c.UpdateByID(ctx, lower, bson.M{"$set": bson.M{
		"uid":        uid,
		"nickname":   display,
		"updated_at": time.Now().UTC(),
	}}, options.Update().SetUpsert(true))
	return err
}

// DeleteIfOwned removes the entry for lower only while uid still owns it,
// guarding against deleting an entry another identity already claimed.
func (s *Store) DeleteIfOwned(ctx context.Context, lower, uid string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": lower, "uid": uid})
	return err
}
