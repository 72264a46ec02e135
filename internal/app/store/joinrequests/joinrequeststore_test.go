package joinrequeststore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/leaguehub/leaguehub/internal/app/system/indexes"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/leaguehub/leaguehub/internal/testutil"
)

func TestSubmitFlipsRejectedBackToPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	first, err := s.Submit(ctx, models.JoinRequest{
		ID:       "req-1",
		LeagueID: "league-1",
		UID:      "applicant",
		Fields:   map[string]any{"first_name": "Alan"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.Status != models.StatusPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}

	if err := s.MarkDecided(ctx, "league-1", first.ID, models.StatusRejected, "manager"); err != nil {
		t.Fatalf("mark decided: %v", err)
	}

	second, err := s.Submit(ctx, models.JoinRequest{
		ID:       "req-2",
		LeagueID: "league-1",
		UID:      "applicant",
		Fields:   map[string]any{"first_name": "Alan", "last_name": "Turing"},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmit id = %q, want existing %q", second.ID, first.ID)
	}
	if second.Status != models.StatusPending {
		t.Fatalf("resubmit status = %q, want pending", second.Status)
	}
	if second.DecidedByUID != "" || second.DecidedAt != nil {
		t.Fatalf("decision not cleared: by=%q at=%v", second.DecidedByUID, second.DecidedAt)
	}
	if second.Fields["last_name"] != "Turing" {
		t.Fatalf("snapshot not refreshed: %v", second.Fields)
	}
	if !second.CreatedAt.After(first.CreatedAt) && !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at went backwards: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	for _, uid := range []string{"first", "second", "third"} {
		if _, err := s.Submit(ctx, models.JoinRequest{
			ID:       "req-" + uid,
			LeagueID: "league-1",
			UID:      uid,
		}); err != nil {
			t.Fatalf("submit %s: %v", uid, err)
		}
		// created_at is stored at millisecond precision.
		time.Sleep(5 * time.Millisecond)
	}

	got, err := s.ListPending(ctx, "league-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].UID != want {
			t.Fatalf("got[%d].UID = %q, want %q", i, got[i].UID, want)
		}
	}
}

func TestListPendingCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx := context.Background()

	for i := 0; i < 205; i++ {
		uid := fmt.Sprintf("uid-%03d", i)
		if _, err := s.Submit(ctx, models.JoinRequest{
			ID:       "req-" + uid,
			LeagueID: "league-1",
			UID:      uid,
		}); err != nil {
			t.Fatalf("submit %s: %v", uid, err)
		}
	}

	got, err := s.ListPending(ctx, "league-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 200 {
		t.Fatalf("len = %d, want 200", len(got))
	}
}
