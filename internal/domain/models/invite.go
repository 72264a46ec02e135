package models

import "time"

// Invite / join-request statuses. pending -> accepted|rejected is one-way;
// the transition is checked inside the transaction that applies it.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusRevoked  = "revoked"
)

// Invite is a manager-issued invitation addressed to an email. Three email
// field names exist because older client generations wrote different keys;
// listing matches on any of them.
type Invite struct {
	ID       string `bson:"_id" json:"id"`
	LeagueID string `bson:"league_id" json:"league_id"`

	EmailLower        string `bson:"email_lower,omitempty" json:"email_lower,omitempty"`
	ToEmailLower      string `bson:"to_email_lower,omitempty" json:"to_email_lower,omitempty"`
	InvitedEmailLower string `bson:"invited_email_lower,omitempty" json:"invited_email_lower,omitempty"`

	RoleID        string `bson:"role_id" json:"role_id"`
	Status        string `bson:"status" json:"status"`
	InvitedByUID  string `bson:"invited_by_uid,omitempty" json:"invited_by_uid,omitempty"`
	AcceptedByUID string `bson:"accepted_by_uid,omitempty" json:"accepted_by_uid,omitempty"`

	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// JoinRequest is a code-initiated request to join a league. The document is
// keyed by (league_id, uid) — one live request per requester per league.
// Fields/Derived snapshot the requester's visible public profile at request
// time so managers can review without extra reads.
type JoinRequest struct {
	ID       string `bson:"_id" json:"id"`
	LeagueID string `bson:"league_id" json:"league_id"`
	UID      string `bson:"uid" json:"uid"`
	Status   string `bson:"status" json:"status"`

	Fields  map[string]any `bson:"fields,omitempty" json:"fields,omitempty"`
	Derived DerivedFields  `bson:"derived,omitempty" json:"derived,omitempty"`

	DecidedByUID string     `bson:"decided_by_uid,omitempty" json:"decided_by_uid,omitempty"`
	DecidedAt    *time.Time `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}
