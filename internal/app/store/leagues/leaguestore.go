package leaguestore

import (
	"context"
	"errors"
	"time"

	"github.com/leaguehub/leaguehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateJoinCode = errors.New("a league with this join code already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leagues")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.League, error) {
	var l models.League
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.League{}, err
	}
	return l, nil
}

// Create inserts the league. The caller supplies ID and JoinCode; the
// folded name and canonical code are derived here.
func (s *Store) Create(ctx context.Context, l models.League) (models.League, error) {
	now := time.Now().UTC()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	l.NameCI = text.Fold(l.Name)
	l.JoinCodeUpper = l.JoinCode
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return models.League{}, ErrDuplicateJoinCode
		}
		return models.League{}, err
	}
	return l, nil
}

// JoinCodeExists reports whether any league already holds the canonical
// (uppercase) code.
func (s *Store) JoinCodeExists(ctx context.Context, codeUpper string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"join_code_upper": codeUpper})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByJoinCode resolves the canonical code to its league. Returns
// mongo.ErrNoDocuments if no league uses it.
func (s *Store) GetByJoinCode(ctx context.Context, codeUpper string) (models.League, error) {
	var l models.League
	if err := s.c.FindOne(ctx, bson.M{"join_code_upper": codeUpper}).Decode(&l); err != nil {
		return models.League{}, err
	}
	return l, nil
}

// IncMemberCount adjusts the cached member count by delta.
func (s *Store) IncMemberCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"member_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// SetLogoURL records the stored logo location.
func (s *Store) SetLogoURL(ctx context.Context, id primitive.ObjectID, url string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"logo_url":   url,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListByIDs loads the given leagues in one query; missing ids are skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.League, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.League
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
