package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PublicProfile is the public directory entry for one identity, fully owned
// by the sync engine. It is replaced wholesale on every run (never merged) so
// fields that lose public visibility vanish, and deleted when the public
// field set is empty.
type PublicProfile struct {
	UID     string         `bson:"_id" json:"uid"`
	Fields  map[string]any `bson:"fields" json:"fields"`
	Derived DerivedFields  `bson:"derived" json:"derived"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SharePreference snapshots the raw privacy map per (league, uid). Always
// written by the sync engine regardless of content, for audit and debugging
// of sharing decisions.
type SharePreference struct {
	ID       primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	LeagueID string                 `bson:"league_id" json:"league_id"`
	UID      string                 `bson:"uid" json:"uid"`
	Privacy  map[string]FieldPolicy `bson:"privacy" json:"privacy"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LeagueSharedProfile holds the fields one identity shares with a whole
// league. Written only when non-empty, deleted otherwise.
type LeagueSharedProfile struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueID string             `bson:"league_id" json:"league_id"`
	UID      string             `bson:"uid" json:"uid"`
	Fields   map[string]any     `bson:"fields" json:"fields"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SharedProfile holds the allow-listed fields one identity shares inside a
// league, with the resolved targets: lowercase email allow-list, uid
// allow-list, and the three mode flags discovered by scanning the policy map.
// Written only when non-empty, deleted otherwise.
type SharedProfile struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueID string             `bson:"league_id" json:"league_id"`
	UID      string             `bson:"uid" json:"uid"`
	Fields   map[string]any     `bson:"fields" json:"fields"`

	EmailsLower []string `bson:"emails_lower,omitempty" json:"emails_lower,omitempty"`
	UIDs        []string `bson:"uids,omitempty" json:"uids,omitempty"`

	SameDepartment bool `bson:"same_department" json:"same_department"`
	Owner          bool `bson:"owner" json:"owner"`
	Special        bool `bson:"special" json:"special"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
