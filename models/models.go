package models

import "time"

// Topic is the host forum's view of a thread. Read-only here; the forum owns it.
type Topic struct {
	TopicID     string `json:"topicId" bson:"topicid"`
	Title       string `json:"title" bson:"title"`
	CategoryID  string `json:"categoryId" bson:"categoryid"`
	OwnerUserID string `json:"ownerUserId" bson:"owneruserid"`
}

// Slot is a single claimable position inside a match's roster tree.
type Slot struct {
	ID                string `json:"id" bson:"id"`
	Name              string `json:"name,omitempty" bson:"name,omitempty"`
	Description       string `json:"description,omitempty" bson:"description,omitempty"`
	OccupantUserID    string `json:"occupantUserId,omitempty" bson:"occupantuserid,omitempty"`
	ReservedForUserID string `json:"reservedForUserId,omitempty" bson:"reservedforuserid,omitempty"`
}

// SlotGroup is one level of the roster hierarchy (company, platoon, squad...).
// Groups nest arbitrarily deep and terminate in slots.
type SlotGroup struct {
	ID     string      `json:"id,omitempty" bson:"id,omitempty"`
	Name   string      `json:"name,omitempty" bson:"name,omitempty"`
	Groups []SlotGroup `json:"groups,omitempty" bson:"groups,omitempty"`
	Slots  []Slot      `json:"slots,omitempty" bson:"slots,omitempty"`
}

// Match is one scheduled session within an event topic.
type Match struct {
	MatchID   string    `json:"matchId" bson:"matchid"`
	TopicID   string    `json:"topicId" bson:"topicid"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Structure SlotGroup `json:"structure" bson:"structure"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"createdby,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedat"`
}

// ShareToken grants write access to one match's slots without login.
// SecretHash never leaves the database; the plaintext secret is returned
// exactly once, on creation.
type ShareToken struct {
	ShareID    string    `json:"shareId" bson:"shareid"`
	TopicID    string    `json:"topicId" bson:"topicid"`
	MatchID    string    `json:"matchId" bson:"matchid"`
	SecretHash string    `json:"-" bson:"secrethash"`
	CreatedBy  string    `json:"createdBy,omitempty" bson:"createdby,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdat"`
}

// AttendanceChangeEvent is the external signal consumed by the auto-unslot
// worker. Not persisted.
type AttendanceChangeEvent struct {
	TopicID     string  `json:"topicId"`
	UserID      string  `json:"userId"`
	Probability float64 `json:"probability"`
}

// UnslotNotification is emitted at most once per attendance change that
// actually removed the user from one or more slots.
type UnslotNotification struct {
	TopicID      string `json:"topicId"`
	UserID       string `json:"userId"`
	RemovalCount int    `json:"removalCount"`
}
