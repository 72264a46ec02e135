// Package sharedprofilestore holds the three per-(league, user) sharing
// projections the sync engine maintains: the raw preference audit record,
// the league-wide shared view, and the allow-list shared view.
package sharedprofilestore

import (
	"context"
	"time"

	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	prefs  *mongo.Collection
	league *mongo.Collection
	shared *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		prefs:  db.Collection("share_preferences"),
		league: db.Collection("shared_profiles_league"),
		shared: db.Collection("shared_profiles"),
	}
}

// UpsertPreferences writes the raw policy map for (leagueID, uid). Always
// written, even when empty, so there is an audit trail per league.
func (s *Store) UpsertPreferences(ctx context.Context, leagueID, uid string, privacy map[string]models.FieldPolicy) error {
	_, err := s.prefs.UpdateOne(ctx,
		bson.M{"league_id": leagueID, "uid": uid},
		bson.M{"$set": bson.M{
			"privacy":    privacy,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	return err
}

// ReplaceLeagueShared overwrites the league-wide shared view.
func (s *Store) ReplaceLeagueShared(ctx context.Context, p models.LeagueSharedProfile) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.league.ReplaceOne(ctx,
		bson.M{"league_id": p.LeagueID, "uid": p.UID},
		p,
		options.Replace().SetUpsert(true))
	return err
}

// DeleteLeagueShared removes the league-wide view when nothing is shared.
func (s *Store) DeleteLeagueShared(ctx context.Context, leagueID, uid string) error {
	_, err := s.league.DeleteOne(ctx, bson.M{"league_id": leagueID, "uid": uid})
	return err
}

// GetLeagueShared returns the league-wide view, or mongo.ErrNoDocuments.
func (s *Store) GetLeagueShared(ctx context.Context, leagueID, uid string) (*models.LeagueSharedProfile, error) {
	var p models.LeagueSharedProfile
	err := s.league.FindOne(ctx, bson.M{"league_id": leagueID, "uid": uid}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceShared overwrites the allow-list shared view.
func (s *Store) ReplaceShared(ctx context.Context, p models.SharedProfile) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.shared.ReplaceOne(ctx,
		bson.M{"league_id": p.LeagueID, "uid": p.UID},
		p,
		options.Replace().SetUpsert(true))
	return err
}

// DeleteShared removes the allow-list view when nothing is shared.
func (s *Store) DeleteShared(ctx context.Context, leagueID, uid string) error {
	_, err := s.shared.DeleteOne(ctx, bson.M{"league_id": leagueID, "uid": uid})
	return err
}

// GetShared returns the allow-list view, or mongo.ErrNoDocuments.
func (s *Store) GetShared(ctx context.Context, leagueID, uid string) (*models.SharedProfile, error) {
	var p models.SharedProfile
	err := s.shared.FindOne(ctx, bson.M{"league_id": leagueID, "uid": uid}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
