package leaguestore

import (
	"context"
	"errors"
	"testing"

	"github.com/leaguehub/leaguehub/internal/app/system/indexes"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/leaguehub/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	created, err := s.Create(ctx, models.League{
		Name:         "Sunday Drivers",
		JoinCode:     "ABC234",
		CreatedByUID: "founder",
		MemberCount:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("id not assigned")
	}
	if created.NameCI != "sunday drivers" {
		t.Fatalf("name_ci = %q", created.NameCI)
	}
	if created.JoinCodeUpper != "ABC234" {
		t.Fatalf("join_code_upper = %q", created.JoinCodeUpper)
	}

	got, err := s.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Name != "Sunday Drivers" {
		t.Fatalf("name = %q", got.Name)
	}

	byCode, err := s.GetByJoinCode(ctx, "ABC234")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if byCode.ID != created.ID {
		t.Fatal("code resolved to wrong league")
	}

	exists, err := s.JoinCodeExists(ctx, "ABC234")
	if err != nil || !exists {
		t.Fatalf("JoinCodeExists = %v, %v", exists, err)
	}
	exists, err = s.JoinCodeExists(ctx, "ZZZZZZ")
	if err != nil || exists {
		t.Fatalf("JoinCodeExists for unused code = %v, %v", exists, err)
	}
}

func TestCreateDuplicateJoinCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	// The unique index turns concurrent code collisions into a typed error.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	s := New(db)

	if _, err := s.Create(ctx, models.League{Name: "First", JoinCode: "ABC234"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	_, err := s.Create(ctx, models.League{Name: "Second", JoinCode: "ABC234"})
	if !errors.Is(err, ErrDuplicateJoinCode) {
		t.Fatalf("err = %v, want ErrDuplicateJoinCode", err)
	}
}

func TestIncMemberCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	l, err := s.Create(ctx, models.League{Name: "Counted", JoinCode: "DEF567", MemberCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.IncMemberCount(ctx, l.ID, 1); err != nil {
		t.Fatalf("inc: %v", err)
	}
	if err := s.IncMemberCount(ctx, l.ID, -1); err != nil {
		t.Fatalf("dec: %v", err)
	}
	got, err := s.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", got.MemberCount)
	}
}

func TestListByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	a, err := s.Create(ctx, models.League{Name: "A", JoinCode: "AAA234"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := s.Create(ctx, models.League{Name: "B", JoinCode: "BBB234"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	got, err := s.ListByIDs(ctx, []primitive.ObjectID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d leagues, want 2", len(got))
	}

	empty, err := s.ListByIDs(ctx, nil)
	if err != nil || empty != nil {
		t.Fatalf("ListByIDs(nil) = %v, %v", empty, err)
	}

	if _, err := s.GetByJoinCode(ctx, "MISSIN"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("missing code err = %v", err)
	}
}
