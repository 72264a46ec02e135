package models

import "time"

// NicknameEntry is the global uniqueness record for one nickname. The
// document _id is the lowercase form; at most one non-deleted entry exists
// per lowercase nickname, and an identity owns at most one entry at a time.
type NicknameEntry struct {
	Lower     string    `bson:"_id" json:"lower"`
	UID       string    `bson:"uid" json:"uid"`
	Nickname  string    `bson:"nickname" json:"nickname"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
