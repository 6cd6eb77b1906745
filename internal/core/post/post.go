package post

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// transitions lists the only status moves a post may make.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPublished},
}

// CanTransition reports whether a post in status from may move to status to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal is true for statuses no transition leaves.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusPublished
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

type Post struct {
	ID            uuid.UUID  `gorm:"primary_key;type:char(36)" json:"id"`
	OwnerID       string     `gorm:"type:varchar(128);not null;index:idx_owner_status" json:"ownerId"`
	Theme         string     `gorm:"type:text;not null" json:"theme"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	ImageURL      string     `gorm:"type:varchar(2048)" json:"imageUrl,omitempty"`
	VideoURL      string     `gorm:"type:varchar(2048)" json:"videoUrl,omitempty"`
	Status        Status     `gorm:"type:varchar(20);not null;index:idx_owner_status" json:"status"`
	CreatedAt     time.Time  `gorm:"not null" json:"createdAt"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

// Patch holds the only fields a lifecycle transition is allowed to change.
type Patch struct {
	Status        *Status
	ScheduledTime *time.Time
}

// Apply returns a copy of p with the patch applied.
func (p Post) Apply(patch Patch) Post {
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ScheduledTime != nil {
		t := *patch.ScheduledTime
		p.ScheduledTime = &t
	}
	return p
}
