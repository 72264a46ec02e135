package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is the per-(league, uid) membership record. Exactly one document per
// pair (unique index). Fields holds a denormalized copy of the owner's
// currently visible public profile so member lists render without reading the
// users collection; the sync engine keeps it current and prunes keys that
// lose visibility.
type Member struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueID string             `bson:"league_id" json:"league_id"`
	UID      string             `bson:"uid" json:"uid"`
	RoleID   string             `bson:"role_id" json:"role_id"`
	JoinCode string             `bson:"join_code,omitempty" json:"join_code,omitempty"`

	Fields  map[string]any `bson:"fields,omitempty" json:"fields,omitempty"`
	Derived DerivedFields  `bson:"derived,omitempty" json:"derived,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DerivedFields are the search/display keys computed by the projector from
// the always-public base fields. They ride along with every projection.
type DerivedFields struct {
	FirstName        string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName         string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	FirstNameLower   string `bson:"first_name_lower,omitempty" json:"first_name_lower,omitempty"`
	LastNameLower    string `bson:"last_name_lower,omitempty" json:"last_name_lower,omitempty"`
	DisplayName      string `bson:"display_name,omitempty" json:"display_name,omitempty"`
	DisplayNameLower string `bson:"display_name_lower,omitempty" json:"display_name_lower,omitempty"`
	FullNameLower    string `bson:"full_name_lower,omitempty" json:"full_name_lower,omitempty"`
	ReverseNameLower string `bson:"reverse_name_lower,omitempty" json:"reverse_name_lower,omitempty"`
	Nickname         string `bson:"nickname,omitempty" json:"nickname,omitempty"`
	NicknameLower    string `bson:"nickname_lower,omitempty" json:"nickname_lower,omitempty"`
	PhotoURL         string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PhotoV           int    `bson:"photo_v" json:"photo_v"`
	CoverURL         string `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	CoverV           int    `bson:"cover_v" json:"cover_v"`
	EmailLogin       string `bson:"email_login,omitempty" json:"email_login,omitempty"`
	EmailLower       string `bson:"email_lower,omitempty" json:"email_lower,omitempty"`
}
