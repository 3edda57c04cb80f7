package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is an uploaded object reference. ObjectKey is the ksuid key handed
// to the media store; the bytes themselves live outside the database.
type Media struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID   uuid.UUID  `json:"owner_id" gorm:"type:char(36);not null;index"`
	PostID    *uuid.UUID `json:"post_id,omitempty" gorm:"type:char(36);index"`
	ObjectKey string     `json:"object_key" gorm:"uniqueIndex;size:64;not null"`
	URL       string     `json:"url" gorm:"size:500;not null"`
	MimeType  string     `json:"mime_type" gorm:"size:100"`
	Size      int64      `json:"size"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
