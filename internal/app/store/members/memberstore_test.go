package memberstore

import (
	"context"
	"testing"

	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/leaguehub/leaguehub/internal/testutil"
)

func TestUpsertKeepsRoleOnRefresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	err := s.Upsert(ctx, models.Member{
		LeagueID: "l1",
		UID:      "u1",
		RoleID:   "moderator",
		Fields:   map[string]any{"first_name": "Ada"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// A projection refresh carries no role; the stored one must survive.
	err = s.Upsert(ctx, models.Member{
		LeagueID: "l1",
		UID:      "u1",
		Fields:   map[string]any{"first_name": "Ada", "thought": "hi"},
	})
	if err != nil {
		t.Fatalf("refresh upsert: %v", err)
	}

	m, err := s.Get(ctx, "l1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.RoleID != "moderator" {
		t.Fatalf("role after refresh = %q", m.RoleID)
	}
	if m.Fields["thought"] != "hi" {
		t.Fatalf("fields after refresh = %v", m.Fields)
	}
	if m.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}

func TestUpdateProjectionPrunes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	err := s.Upsert(ctx, models.Member{
		LeagueID: "l1",
		UID:      "u1",
		RoleID:   "member",
		Fields:   map[string]any{"first_name": "Ada", "phone": "555"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	err = s.UpdateProjection(ctx, "l1", "u1",
		map[string]any{"first_name": "Ada", "thought": "new"},
		models.DerivedFields{DisplayName: "Ada", DisplayNameLower: "ada"},
		[]string{"phone"})
	if err != nil {
		t.Fatalf("update projection: %v", err)
	}

	m, err := s.Get(ctx, "l1", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := m.Fields["phone"]; ok {
		t.Fatal("pruned field still present")
	}
	if m.Fields["thought"] != "new" {
		t.Fatalf("merged field missing: %v", m.Fields)
	}
	if m.Derived.DisplayNameLower != "ada" {
		t.Fatalf("derived = %+v", m.Derived)
	}
}

func TestListByLeagueSorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	for _, m := range []models.Member{
		{LeagueID: "l1", UID: "u1", RoleID: "member", Derived: models.DerivedFields{DisplayNameLower: "walker zoe"}},
		{LeagueID: "l1", UID: "u2", RoleID: "member", Derived: models.DerivedFields{DisplayNameLower: "adams abe"}},
		{LeagueID: "l2", UID: "u3", RoleID: "member", Derived: models.DerivedFields{DisplayNameLower: "other league"}},
	} {
		if err := s.Upsert(ctx, m); err != nil {
			t.Fatalf("upsert %s: %v", m.UID, err)
		}
	}

	roster, err := s.ListByLeague(ctx, "l1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}
	if roster[0].UID != "u2" || roster[1].UID != "u1" {
		t.Fatalf("roster order = %s, %s", roster[0].UID, roster[1].UID)
	}

	mine, err := s.ListByUID(ctx, "u1")
	if err != nil {
		t.Fatalf("list by uid: %v", err)
	}
	if len(mine) != 1 || mine[0].LeagueID != "l1" {
		t.Fatalf("memberships for u1 = %+v", mine)
	}
}
