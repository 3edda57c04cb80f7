package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPostCanView(t *testing.T) {
	author := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name       string
		privacy    Privacy
		deleted    bool
		viewer     uuid.UUID
		isFollower bool
		want       bool
	}{
		{"public visible to anyone", PrivacyPublic, false, stranger, false, true},
		{"public visible to author", PrivacyPublic, false, author, false, true},
		{"deleted never visible", PrivacyPublic, true, author, true, false},
		{"private hidden from stranger", PrivacyPrivate, false, stranger, true, false},
		{"private visible to author", PrivacyPrivate, false, author, false, true},
		{"followers_only visible to author", PrivacyFollowersOnly, false, author, false, true},
		{"followers_only visible to accepted follower", PrivacyFollowersOnly, false, stranger, true, true},
		{"followers_only hidden from non-follower", PrivacyFollowersOnly, false, stranger, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &Post{AuthorID: author, Privacy: tt.privacy, Deleted: tt.deleted}
			assert.Equal(t, tt.want, post.CanView(tt.viewer, tt.isFollower))
		})
	}
}

func TestExtractTags(t *testing.T) {
	hashtags, mentions := ExtractTags("Sunset with @Anna and @bob #Sunset #beach #sunset")

	assert.Equal(t, []string{"sunset", "beach"}, hashtags)
	assert.Equal(t, []string{"anna", "bob"}, mentions)
}

func TestExtractTagsEmptyCaption(t *testing.T) {
	hashtags, mentions := ExtractTags("plain caption")
	assert.Empty(t, hashtags)
	assert.Empty(t, mentions)
	assert.Equal(t, "", JoinTags(hashtags))
}
