package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// League is a joinable group. The join code is minted at creation from a
// fixed unambiguous alphabet and is unique across leagues (enforced by the
// unique index on join_code_upper).
type League struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	NameCI        string             `bson:"name_ci" json:"name_ci"`
	JoinCode      string             `bson:"join_code" json:"join_code"`
	JoinCodeUpper string             `bson:"join_code_upper" json:"join_code_upper"`
	CreatedByUID  string             `bson:"created_by_uid" json:"created_by_uid"`
	LogoURL       string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	MemberCount   int                `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Role is a permission role inside one league. The founder role id is
// RoleOwner; it is implicit and allows every permission regardless of the
// stored map.
type Role struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueID    string             `bson:"league_id" json:"league_id"`
	RoleID      string             `bson:"role_id" json:"role_id"`
	Name        string             `bson:"name" json:"name"`
	Tier        int                `bson:"tier" json:"tier"`
	Permissions map[string]bool    `bson:"permissions" json:"permissions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Role ids.
const (
	RoleOwner  = "OWNER"
	RoleMember = "member"
)

// Permission keys checked by leaguepolicy. The founder role's permission map
// carries all of them set true.
const (
	PermInvitesManage        = "invites_manage"
	PermRolesManage          = "roles_manage"
	PermMembersManage        = "members_manage"
	PermMembersSensitiveRead = "members_sensitive_read"
	PermProgramsRead         = "programs_read"
	PermProgramsWrite        = "programs_write"
	PermVehiclesRead         = "vehicles_read"
	PermVehiclesWrite        = "vehicles_write"
	PermMaintenanceRead      = "maintenance_read"
	PermMaintenanceWrite     = "maintenance_write"
)

// AllPermissions returns a fresh permission map with every known key granted.
func AllPermissions() map[string]bool {
	return map[string]bool{
		PermInvitesManage:        true,
		PermRolesManage:          true,
		PermMembersManage:        true,
		PermMembersSensitiveRead: true,
		PermProgramsRead:         true,
		PermProgramsWrite:        true,
		PermVehiclesRead:         true,
		PermVehiclesWrite:        true,
		PermMaintenanceRead:      true,
		PermMaintenanceWrite:     true,
	}
}
