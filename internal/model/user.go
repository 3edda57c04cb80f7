package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/identity"
)

// Role controls access to moderation and administration endpoints.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var roleRank = map[Role]int{
	RoleUser:       0,
	RoleModerator:  1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// AtLeast reports whether r grants the privileges of required.
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

// UserStatus is the lifecycle state of an account. Users are never
// hard-deleted; deactivation is the terminal state.
type UserStatus string

const (
	StatusActive      UserStatus = "active"
	StatusBlocked     UserStatus = "blocked"
	StatusDeactivated UserStatus = "deactivated"
)

// User represents an account keyed by its canonical identifier.
type User struct {
	ID          uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Identifier  string        `json:"-" gorm:"uniqueIndex;size:255;not null"`
	Kind        identity.Kind `json:"identifier_type" gorm:"size:20;not null"`
	Username    string        `json:"username" gorm:"uniqueIndex;size:80;default:null"`
	ProfileSlug string        `json:"profile_slug" gorm:"uniqueIndex;size:100;default:null"`
	DisplayName string        `json:"display_name" gorm:"size:200"`
	Bio         string        `json:"bio" gorm:"type:text"`
	AvatarURL   string        `json:"avatar_url" gorm:"size:255"`

	// PII, redacted in public views.
	Email     string     `json:"email,omitempty" gorm:"size:255;index"`
	Phone     string     `json:"phone,omitempty" gorm:"size:20;index"`
	Birthdate *time.Time `json:"birthdate,omitempty"`

	// PasswordHash is set only for accounts that use the admin console login.
	PasswordHash string `json:"-" gorm:"size:255"`

	Role           Role       `json:"role" gorm:"size:20;not null;default:'user';index"`
	Status         UserStatus `json:"status" gorm:"size:20;not null;default:'active';index"`
	PrivateAccount bool       `json:"private_account" gorm:"default:false"`
	Verified       bool       `json:"verified" gorm:"default:false"`

	FollowersCount int `json:"followers_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostsCount     int `json:"posts_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the account may authenticate and act.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserView is the viewer-dependent projection of a user.
type UserView struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	ProfileSlug    string     `json:"profile_slug"`
	DisplayName    string     `json:"display_name"`
	Bio            string     `json:"bio"`
	AvatarURL      string     `json:"avatar_url"`
	Role           Role       `json:"role"`
	PrivateAccount bool       `json:"private_account"`
	Verified       bool       `json:"verified"`
	FollowersCount int        `json:"followers_count"`
	FollowingCount int        `json:"following_count"`
	PostsCount     int        `json:"posts_count"`
	CreatedAt      time.Time  `json:"created_at"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Birthdate      *time.Time `json:"birthdate,omitempty"`
}

// PublicView projects u for viewer. PII is included only when the viewer is
// the subject or holds an admin role.
func (u *User) PublicView(viewer *User) UserView {
	view := UserView{
		ID:             u.ID,
		Username:       u.Username,
		ProfileSlug:    u.ProfileSlug,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		Role:           u.Role,
		PrivateAccount: u.PrivateAccount,
		Verified:       u.Verified,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		PostsCount:     u.PostsCount,
		CreatedAt:      u.CreatedAt,
	}
	if viewer != nil && (viewer.ID == u.ID || viewer.Role.AtLeast(RoleAdmin)) {
		view.Email = u.Email
		view.Phone = u.Phone
		view.Birthdate = u.Birthdate
	}
	return view
}

// SlugHistory keeps previous profile slugs for redirect lookups.
type SlugHistory struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *SlugHistory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
