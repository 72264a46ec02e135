package invitestore

import (
	"context"
	"time"

	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("league_invites")}
}

// Get returns the invite, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, leagueID, inviteID string) (*models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"_id": inviteID, "league_id": leagueID}).Decode(&inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts a pending invite.
func (s *Store) Create(ctx context.Context, inv models.Invite) (models.Invite, error) {
	now := time.Now().UTC()
	inv.Status = models.StatusPending
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// MarkAccepted records the pending -> accepted transition. The status
// check happens in the workflow's transaction read, not here.
func (s *Store) MarkAccepted(ctx context.Context, leagueID, inviteID, byUID string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": inviteID, "league_id": leagueID},
		bson.M{"$set": bson.M{
			"status":          models.StatusAccepted,
			"accepted_by_uid": byUID,
			"accepted_at":     now,
			"updated_at":      now,
		}})
	return err
}

// ListPendingByEmail finds pending invites addressed to any of the three
// historical recipient-email fields.
func (s *Store) ListPendingByEmail(ctx context.Context, emailLower string) ([]models.Invite, error) {
	if emailLower == "" {
		return nil, nil
	}
	filter := bson.M{
		"status": models.StatusPending,
		"$or": []bson.M{
			{"email_lower": emailLower},
			{"to_email_lower": emailLower},
			{"invited_email_lower": emailLower},
		},
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingByLeague returns the league's outstanding invites.
func (s *Store) ListPendingByLeague(ctx context.Context, leagueID string) ([]models.Invite, error) {
	cur, err := s.c.Find(ctx, bson.M{"league_id": leagueID, "status": models.StatusPending})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
