package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is a (user, post) join row. Its presence is the liked state; the
// composite unique index, not application logic, prevents duplicates under
// concurrent toggles.
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:uniq_user_post_like"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:char(36);not null;uniqueIndex:uniq_user_post_like;index"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// FollowStatus distinguishes accepted follows from pending requests on
// private accounts.
type FollowStatus string

const (
	FollowAccepted FollowStatus = "accepted"
	FollowPending  FollowStatus = "pending"
)

// Follow is a directed (follower, followed) edge.
type Follow struct {
	ID         uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	FollowerID uuid.UUID    `json:"follower_id" gorm:"type:char(36);not null;uniqueIndex:uniq_follow"`
	FollowedID uuid.UUID    `json:"followed_id" gorm:"type:char(36);not null;uniqueIndex:uniq_follow;index"`
	Status     FollowStatus `json:"status" gorm:"size:20;not null;default:'accepted';index"`
	CreatedAt  time.Time    `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FriendStatus is the lifecycle of an asymmetric friend request.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
	FriendRejected FriendStatus = "rejected"
)

// Friend is a friendship request from requester to requestee. A pending
// A->B request blocks a simultaneous B->A request.
type Friend struct {
	ID          uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	RequesterID uuid.UUID    `json:"requester_id" gorm:"type:char(36);not null;uniqueIndex:uniq_friendship"`
	RequesteeID uuid.UUID    `json:"requestee_id" gorm:"type:char(36);not null;uniqueIndex:uniq_friendship;index"`
	Status      FriendStatus `json:"status" gorm:"size:20;not null;default:'pending';index"`
	CreatedAt   time.Time    `json:"created_at"`
	AcceptedAt  *time.Time   `json:"accepted_at,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
