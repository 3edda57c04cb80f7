package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Privacy controls who can view a post.
type Privacy string

const (
	PrivacyPublic        Privacy = "public"
	PrivacyFollowersOnly Privacy = "followers_only"
	PrivacyPrivate       Privacy = "private"
)

// Post is an authored piece of content with denormalized counters.
// LikesCount and CommentsCount are maintained inside the same transaction
// that mutates the child rows.
type Post struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:char(36);not null;index"`
	Caption  string    `json:"caption" gorm:"type:text"`
	Privacy  Privacy   `json:"privacy" gorm:"size:20;not null;default:'public';index"`

	// Hashtags and Mentions are extracted from the caption at write time,
	// stored comma-joined for LIKE-based search.
	Hashtags string `json:"hashtags" gorm:"size:500;index"`
	Mentions string `json:"mentions" gorm:"size:500"`

	LikesCount    int `json:"likes_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`

	Deleted   bool       `json:"-" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"-"`
	Edited    bool       `json:"edited" gorm:"default:false"`
	EditCount int        `json:"edit_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author User    `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Media  []Media `json:"media,omitempty" gorm:"foreignKey:PostID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CanView decides visibility for a viewer. isAcceptedFollower must reflect an
// ACCEPTED follow edge from viewer to the author; pending follows don't count.
func (p *Post) CanView(viewerID uuid.UUID, isAcceptedFollower bool) bool {
	if p.Deleted {
		return false
	}
	switch p.Privacy {
	case PrivacyPublic:
		return true
	case PrivacyPrivate:
		return viewerID == p.AuthorID
	case PrivacyFollowersOnly:
		return viewerID == p.AuthorID || isAcceptedFollower
	default:
		return false
	}
}

var (
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	mentionRe = regexp.MustCompile(`@(\w+)`)
)

// ExtractTags pulls hashtags and mentions out of a caption, lowercased and
// de-duplicated, keeping first-seen order.
func ExtractTags(caption string) (hashtags, mentions []string) {
	return extract(hashtagRe, caption), extract(mentionRe, caption)
}

func extract(re *regexp.Regexp, caption string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range re.FindAllStringSubmatch(caption, -1) {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// JoinTags serializes a tag list for the comma-joined columns.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
