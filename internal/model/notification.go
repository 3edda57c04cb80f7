package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType tags the action that produced a notification.
type NotificationType string

const (
	NotifyLike          NotificationType = "like"
	NotifyComment       NotificationType = "comment"
	NotifyMention       NotificationType = "mention"
	NotifyFollow        NotificationType = "follow"
	NotifyFollowRequest NotificationType = "follow_request"
	NotifyFollowAccept  NotificationType = "follow_accept"
	NotifyFriendRequest NotificationType = "friend_request"
	NotifyFriendAccept  NotificationType = "friend_accept"
)

// Notification is a synchronously created fan-out row. UserID is the
// recipient; ActorID the user whose action produced it.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:char(36);not null;index"`
	ActorID   *uuid.UUID       `json:"actor_id,omitempty" gorm:"type:char(36)"`
	TargetID  *uuid.UUID       `json:"target_id,omitempty" gorm:"type:char(36)"`
	Type      NotificationType `json:"type" gorm:"size:50;not null"`
	Payload   []byte           `json:"-" gorm:"type:json"`
	Read      bool             `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Payload variants. Each notification type carries only the fields it needs;
// the envelope's kind field disambiguates on read.

// NotificationPayload is implemented by every payload variant.
type NotificationPayload interface {
	Kind() NotificationType
}

// LikePayload accompanies NotifyLike.
type LikePayload struct {
	PostID uuid.UUID `json:"post_id"`
}

func (LikePayload) Kind() NotificationType { return NotifyLike }

// CommentPayload accompanies NotifyComment.
type CommentPayload struct {
	PostID    uuid.UUID `json:"post_id"`
	CommentID uuid.UUID `json:"comment_id"`
	Preview   string    `json:"preview"`
}

func (CommentPayload) Kind() NotificationType { return NotifyComment }

// MentionPayload accompanies NotifyMention.
type MentionPayload struct {
	PostID uuid.UUID `json:"post_id"`
}

func (MentionPayload) Kind() NotificationType { return NotifyMention }

// FollowPayload accompanies the follow family of notifications.
type FollowPayload struct {
	FollowType NotificationType `json:"-"`
	Pending    bool             `json:"pending"`
}

func (p FollowPayload) Kind() NotificationType { return p.FollowType }

// FriendPayload accompanies friend request and accept notifications.
type FriendPayload struct {
	FriendType NotificationType `json:"-"`
	RequestID  uuid.UUID        `json:"request_id"`
}

func (p FriendPayload) Kind() NotificationType { return p.FriendType }

type payloadEnvelope struct {
	Kind NotificationType `json:"kind"`
	Data json.RawMessage  `json:"data"`
}

// EncodePayload serializes a payload variant into the JSON column format.
func EncodePayload(p NotificationPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(payloadEnvelope{Kind: p.Kind(), Data: data})
}

// DecodePayload reverses EncodePayload into the variant named by the
// envelope's kind.
func DecodePayload(raw []byte) (NotificationPayload, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	var (
		p   NotificationPayload
		err error
	)
	switch env.Kind {
	case NotifyLike:
		var v LikePayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case NotifyComment:
		var v CommentPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case NotifyMention:
		var v MentionPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case NotifyFollow, NotifyFollowRequest, NotifyFollowAccept:
		var v FollowPayload
		err = json.Unmarshal(env.Data, &v)
		v.FollowType = env.Kind
		p = v
	case NotifyFriendRequest, NotifyFriendAccept:
		var v FriendPayload
		err = json.Unmarshal(env.Data, &v)
		v.FriendType = env.Kind
		p = v
	default:
		return nil, fmt.Errorf("unknown payload kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Kind, err)
	}
	return p, nil
}
