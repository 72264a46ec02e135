package leaguepolicy

import (
	"context"
	"testing"

	"github.com/leaguehub/leaguehub/internal/app/store/leagueroles"
	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"github.com/leaguehub/leaguehub/internal/testutil"
)

func newTestPolicy(t *testing.T) (*Policy, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	return New(rolestore.New(db), memberstore.New(db)), fx
}

func TestRoleAllows(t *testing.T) {
	p, fx := newTestPolicy(t)
	ctx := context.Background()

	fx.CreateRole(ctx, "l1", "moderator", map[string]bool{
		models.PermInvitesManage: true,
		models.PermMembersManage: false,
	})

	tests := []struct {
		name   string
		roleID string
		perm   string
		want   bool
	}{
		{"owner always allowed", models.RoleOwner, models.PermMembersManage, true},
		{"granted permission", "moderator", models.PermInvitesManage, true},
		{"denied permission", "moderator", models.PermMembersManage, false},
		{"unlisted permission", "moderator", models.PermRolesManage, false},
		{"missing role", "ghost", models.PermInvitesManage, false},
		{"empty role", "", models.PermInvitesManage, false},
	}
	for _, tt := range tests {
		got, err := p.RoleAllows(ctx, "l1", tt.roleID, tt.perm)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: RoleAllows = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCallerIsManager(t *testing.T) {
	p, fx := newTestPolicy(t)
	ctx := context.Background()

	fx.CreateRole(ctx, "l1", "moderator", map[string]bool{models.PermMembersManage: true})
	fx.CreateMember(ctx, "l1", "owner-uid", models.RoleOwner)
	fx.CreateMember(ctx, "l1", "mod-uid", "moderator")

	tests := []struct {
		name string
		uid  string
		want bool
	}{
		{"owner member", "owner-uid", true},
		{"role with permission", "mod-uid", true},
		{"non-member", "stranger", false},
	}
	for _, tt := range tests {
		got, err := p.CallerIsManager(ctx, "l1", tt.uid, models.PermMembersManage)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: CallerIsManager = %v, want %v", tt.name, got, tt.want)
		}
	}
}
