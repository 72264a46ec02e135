package nicknamestore

import (
	"context"
	"errors"
	"testing"

	"github.com/leaguehub/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestPutGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	if err := s.Put(ctx, "speedy", "u1", "Speedy"); err != nil {
		t.Fatalf("put: %v", err)
	}
	e, err := s.Get(ctx, "speedy")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.UID != "u1" || e.Nickname != "Speedy" {
		t.Fatalf("entry = %+v", e)
	}

	// Re-claiming by the same owner refreshes the display form.
	if err := s.Put(ctx, "speedy", "u1", "SPEEDY"); err != nil {
		t.Fatalf("re-put: %v", err)
	}
	e, err = s.Get(ctx, "speedy")
	if err != nil {
		t.Fatalf("get after re-put: %v", err)
	}
	if e.Nickname != "SPEEDY" {
		t.Fatalf("display = %q", e.Nickname)
	}

	if err := s.DeleteIfOwned(ctx, "speedy", "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "speedy"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("get after delete = %v, want ErrNoDocuments", err)
	}
}

func TestDeleteIfOwnedWrongOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	if err := s.Put(ctx, "champ", "u1", "Champ"); err != nil {
		t.Fatalf("put: %v", err)
	}
	// A different uid cannot release someone else's entry.
	if err := s.DeleteIfOwned(ctx, "champ", "u2"); err != nil {
		t.Fatalf("delete by non-owner: %v", err)
	}
	e, err := s.Get(ctx, "champ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.UID != "u1" {
		t.Fatalf("owner = %q, want u1", e.UID)
	}
}
