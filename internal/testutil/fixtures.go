package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user profile document and returns it.
func (f *Fixtures) CreateUser(ctx context.Context, uid, email string, profile models.Profile) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		UID:        uid,
		Email:      email,
		EmailLower: text.Fold(email),
		Profile:    profile,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert test user: %v", err)
	}
	return u
}

// CreateLeague inserts a league and returns it.
func (f *Fixtures) CreateLeague(ctx context.Context, name, joinCode, createdByUID string) models.League {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.League{
		ID:            primitive.NewObjectID(),
		Name:          name,
		NameCI:        text.Fold(name),
		JoinCode:      joinCode,
		JoinCodeUpper: joinCode,
		CreatedByUID:  createdByUID,
		MemberCount:   1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("leagues").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("insert test league: %v", err)
	}
	return l
}

// CreateMember inserts a membership record and appends the league to the
// user's membership index.
func (f *Fixtures) CreateMember(ctx context.Context, leagueID, uid, roleID string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		LeagueID:  leagueID,
		UID:       uid,
		RoleID:    roleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("league_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("insert test member: %v", err)
	}
	_, err := f.db.Collection("users").UpdateByID(ctx, uid, bson.M{
		"$addToSet": bson.M{"league_ids": leagueID},
	})
	if err != nil {
		f.t.Fatalf("update membership index: %v", err)
	}
	return m
}

// CreateRole inserts a permission role for a league.
func (f *Fixtures) CreateRole(ctx context.Context, leagueID, roleID string, perms map[string]bool) models.Role {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Role{
		ID:          primitive.NewObjectID(),
		LeagueID:    leagueID,
		RoleID:      roleID,
		Name:        roleID,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("league_roles").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("insert test role: %v", err)
	}
	return r
}

// CreateInvite inserts a pending invite addressed to emailLower.
func (f *Fixtures) CreateInvite(ctx context.Context, inviteID, leagueID, emailLower, roleID string) models.Invite {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Invite{
		ID:         inviteID,
		LeagueID:   leagueID,
		EmailLower: emailLower,
		RoleID:     roleID,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("league_invites").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("insert test invite: %v", err)
	}
	return inv
}
