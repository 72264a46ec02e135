package models

import (
	"time"
)

// User is the source-of-truth profile document, one per authenticated
// identity. The document _id is the uid issued by the token issuer.
//
// NOTE:
//   - Derived records (users_public, league member mirrors, shared profiles)
//     are never written by clients; they are owned by the sync engine.
//   - LeagueIDs is the membership index maintained by the membership
//     workflows ($addToSet); the authoritative join lives in league_members.
type User struct {
	UID        string `bson:"_id" json:"uid"`
	Email      string `bson:"email" json:"email"`
	EmailLower string `bson:"email_lower" json:"email_lower"`

	FirstName     string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName      string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Nickname      string `bson:"nickname,omitempty" json:"nickname,omitempty"`
	NicknameLower string `bson:"nickname_lower,omitempty" json:"nickname_lower,omitempty"`

	Profile Profile `bson:"profile,omitempty" json:"profile,omitempty"`

	LeagueIDs      []string `bson:"league_ids,omitempty" json:"league_ids,omitempty"`
	ActiveLeagueID string   `bson:"active_league_id,omitempty" json:"active_league_id,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// Profile holds the open-ended field mapping and its per-field privacy map.
// Custom is contributed dynamically by leagues; a custom field k is governed
// by the privacy entry for "custom.k" (or its raw key, for older clients).
type Profile struct {
	Custom  map[string]any         `bson:"custom,omitempty" json:"custom,omitempty"`
	Privacy map[string]FieldPolicy `bson:"privacy,omitempty" json:"privacy,omitempty"`
}

// FieldPolicy declares who may see one profile field.
//
// The shape evolved over time and both generations are still written by live
// clients:
//   - new clients set Mode to an explicit visibility mode
//     (public|league|emails|uids|owner|special|department|private);
//   - old clients set Mode to the legacy "private"/"shared" sentinels and
//     express the real intent through League/UIDs/Emails;
//   - the oldest clients only set the Public boolean.
//
// visibility.Classify folds all three generations into one classification.
type FieldPolicy struct {
	Mode   string   `bson:"mode,omitempty" json:"mode,omitempty"`
	Public bool     `bson:"public,omitempty" json:"public,omitempty"`
	League bool     `bson:"league,omitempty" json:"league,omitempty"`
	Emails []string `bson:"emails,omitempty" json:"emails,omitempty"`
	UIDs   []string `bson:"uids,omitempty" json:"uids,omitempty"`
}
