// Package leaguepolicy answers permission questions inside one league.
//
// Authorization rules:
//   - The owner role allows everything, unconditionally.
//   - Any other role allows a permission only when its stored permission
//     map has that key set true.
//   - Unknown roles, missing role records, and non-members fail closed.
package leaguepolicy

import (
	"context"
	"errors"

	"github.com/leaguehub/leaguehub/internal/app/store/leagueroles"
	"github.com/leaguehub/leaguehub/internal/app/store/members"
	"github.com/leaguehub/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type Policy struct {
	Roles   *rolestore.Store
	Members *memberstore.Store
}

func New(roles *rolestore.Store, members *memberstore.Store) *Policy {
	return &Policy{Roles: roles, Members: members}
}

// RoleAllows reports whether roleID grants permKey in leagueID.
func (p *Policy) RoleAllows(ctx context.Context, leagueID, roleID, permKey string) (bool, error) {
	if roleID == "" {
		return false, nil
	}
	if roleID == models.RoleOwner {
		return true, nil
	}

	role, err := p.Roles.Get(ctx, leagueID, roleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return role.Permissions[permKey], nil
}

// CallerIsManager resolves uid's role from their membership record and
// delegates to RoleAllows. Non-members are never managers.
func (p *Policy) CallerIsManager(ctx context.Context, leagueID, uid, permKey string) (bool, error) {
	m, err := p.Members.Get(ctx, leagueID, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return p.RoleAllows(ctx, leagueID, m.RoleID, permKey)
}
