package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/identity"
)

// MaxCodeAttempts bounds failed guesses against a single code.
const MaxCodeAttempts = 5

// Code is a verification code issued for a phone or email identifier.
// Only the SHA-256 hash of the plaintext is stored. ExpiresAt stays nil:
// codes never expire, and a verified code stays usable until its attempts
// run out.
type Code struct {
	ID         uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     *uuid.UUID    `json:"user_id,omitempty" gorm:"type:char(36);index"`
	Identifier string        `json:"identifier" gorm:"size:255;not null;index"`
	Kind       identity.Kind `json:"type" gorm:"size:20;not null"`
	CodeHash   string        `json:"-" gorm:"size:64;not null"`
	Active     bool          `json:"is_active" gorm:"default:true"`
	Attempts   int           `json:"attempts" gorm:"default:0"`
	ExpiresAt  *time.Time    `json:"expires_at"`
	VerifiedAt *time.Time    `json:"verified_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Code) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Exhausted reports whether the code has no guesses left.
func (c *Code) Exhausted() bool {
	return c.Attempts >= MaxCodeAttempts
}

// Matches compares a plaintext candidate against the stored hash.
func (c *Code) Matches(plaintext string) bool {
	return c.CodeHash == HashCode(plaintext)
}

// HashCode returns the hex SHA-256 digest of a plaintext code.
func HashCode(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
