package joinrequeststore

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
	return &Store{c: db.Collection("league_join_requests")}
}

// Get returns the request by id, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, leagueID, requestID string) (*models.JoinRequest, error) {
	var jr models.JoinRequest
	err := s.c.FindOne(ctx, bson.M{"_id": requestID, "league_id": leagueID}).Decode(&jr)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// GetByUID returns the requester's record for the league regardless of
// status, or mongo.ErrNoDocuments.
func (s *Store) GetByUID(ctx context.Context, leagueID, uid string) (*models.JoinRequest, error) {
	var jr models.JoinRequest
	err := s.c.FindOne(ctx, bson.M{"league_id": leagueID, "uid": uid}).Decode(&jr)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// Submit records a pending request carrying the requester's visible-field
// snapshot. Keyed by (league, uid): resubmitting after a rejection flips the
// existing record back to pending with a fresh snapshot and timestamps, and
// clears the previous decision.
func (s *Store) Submit(ctx context.Context, jr models.JoinRequest) (models.JoinRequest, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var out models.JoinRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"league_id": jr.LeagueID, "uid": jr.UID},
		bson.M{
			"$set": bson.M{
				"status":     models.StatusPending,
				"fields":     jr.Fields,
				"derived":    jr.Derived,
				"created_at": now,
				"updated_at": now,
			},
			"$unset":       bson.M{"decided_by_uid": "", "decided_at": ""},
			"$setOnInsert": bson.M{"_id": jr.ID},
		},
		opts).Decode(&out)
	if err != nil {
		return models.JoinRequest{}, err
	}
	return out, nil
}

// MarkDecided records the terminal transition to accepted or rejected.
func (s *Store) MarkDecided(ctx context.Context, leagueID, requestID, status, byUID string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": requestID, "league_id": leagueID},
		bson.M{"$set": bson.M{
			"status":         status,
			"decided_by_uid": byUID,
			"decided_at":     now,
			"updated_at":     now,
		}})
	return err
}

// ListPending returns the league's queue, newest first, capped at 200.
func (s *Store) ListPending(ctx context.Context, leagueID string) ([]models.JoinRequest, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(200)
	cur, err := s.c.Find(ctx, bson.M{"league_id": leagueID, "status": models.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
