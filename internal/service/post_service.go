package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/provider"
	"socialnet/internal/repository"
)

// PostInput carries the fields for creating or editing a post.
type PostInput struct {
	Caption  string        `json:"caption" validate:"max=2000"`
	Privacy  model.Privacy `json:"privacy" validate:"omitempty,oneof=public followers_only private"`
	MediaIDs []uuid.UUID   `json:"media_ids" validate:"max=10"`
	// AutoCaption asks the caption generator to describe the first attached
	// media item when the caption is empty.
	AutoCaption bool `json:"auto_caption"`
}

// PostService exposes post CRUD, the home feed and search.
type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error)
	GetByID(ctx context.Context, viewerID, postID uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, userID, postID uuid.UUID, input PostInput) (*model.Post, error)
	Delete(ctx context.Context, userID uuid.UUID, userRole model.Role, postID uuid.UUID) error
	ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, page repository.Page) ([]model.Post, *repository.PageInfo, error)
	Feed(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Post, *repository.PageInfo, error)
	Search(ctx context.Context, text string, page repository.Page) ([]model.Post, *repository.PageInfo, error)
	SuggestHashtags(ctx context.Context, caption string) ([]string, error)
}

type postService struct {
	repos    repository.Repos
	captions provider.CaptionGenerator
}

// NewPostService creates a new post service. captions may be nil when the
// generator is not configured.
func NewPostService(repos repository.Repos, captions provider.CaptionGenerator) PostService {
	return &postService{repos: repos, captions: captions}
}

// Create stores a post, attaches pending media, bumps the author's post
// counter and fans out mention notifications, all in one transaction.
func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*model.Post, error) {
	privacy := input.Privacy
	if privacy == "" {
		privacy = model.PrivacyPublic
	}

	caption := input.Caption
	if caption == "" && input.AutoCaption && s.captions != nil && len(input.MediaIDs) > 0 {
		caption = s.describeMedia(ctx, authorID, input.MediaIDs[0])
	}

	hashtags, mentions := model.ExtractTags(caption)
	post := &model.Post{
		AuthorID: authorID,
		Caption:  caption,
		Privacy:  privacy,
		Hashtags: model.JoinTags(hashtags),
		Mentions: model.JoinTags(mentions),
	}

	err := s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		if err := tx.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if len(input.MediaIDs) > 0 {
			if err := tx.Media.AttachToPost(ctx, input.MediaIDs, authorID, post.ID); err != nil {
				return fmt.Errorf("attach media: %w", err)
			}
		}
		if err := tx.Users.AdjustCounter(ctx, authorID, "posts_count", 1); err != nil {
			return fmt.Errorf("adjust posts count: %w", err)
		}
		return s.notifyMentions(ctx, tx, post, mentions)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetByID(ctx context.Context, viewerID, postID uuid.UUID) (*model.Post, error) {
	post, err := s.repos.Posts.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	follows, err := isAcceptedFollower(ctx, s.repos, viewerID, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if !post.CanView(viewerID, follows) {
		// Hidden posts are indistinguishable from missing ones.
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

// Update edits a post's caption and privacy. Only the author edits; tags are
// re-extracted and the edit counter advances.
func (s *postService) Update(ctx context.Context, userID, postID uuid.UUID, input PostInput) (*model.Post, error) {
	post, err := s.repos.Posts.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post.Deleted {
		return nil, apperrors.ErrPostNotFound
	}
	if post.AuthorID != userID {
		return nil, apperrors.ErrForbidden
	}

	hashtags, mentions := model.ExtractTags(input.Caption)
	post.Caption = input.Caption
	post.Hashtags = model.JoinTags(hashtags)
	post.Mentions = model.JoinTags(mentions)
	if input.Privacy != "" {
		post.Privacy = input.Privacy
	}
	post.Edited = true
	post.EditCount++

	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete soft-deletes a post. The author or a moderator may delete; the
// author's post counter drops with it.
func (s *postService) Delete(ctx context.Context, userID uuid.UUID, userRole model.Role, postID uuid.UUID) error {
	post, err := s.repos.Posts.FindByID(ctx, postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("find post: %w", err)
	}
	if post.Deleted {
		return apperrors.ErrPostNotFound
	}
	if post.AuthorID != userID && !userRole.AtLeast(model.RoleModerator) {
		return apperrors.ErrForbidden
	}

	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		now := time.Now()
		post.Deleted = true
		post.DeletedAt = &now
		if err := tx.Posts.Update(ctx, post); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return tx.Users.AdjustCounter(ctx, post.AuthorID, "posts_count", -1)
	})
}

func (s *postService) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, page repository.Page) ([]model.Post, *repository.PageInfo, error) {
	follows, err := isAcceptedFollower(ctx, s.repos, viewerID, authorID)
	if err != nil {
		return nil, nil, err
	}

	audience := repository.AudiencePublic
	switch {
	case viewerID == authorID:
		audience = repository.AudienceOwner
	case follows:
		audience = repository.AudienceFollower
	}

	// Privacy is filtered in the query so totals match the rows.
	posts, total, err := s.repos.Posts.ListByAuthor(ctx, authorID, audience, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, repository.NewPageInfo(total, page), nil
}

// Feed returns posts from accepted followees plus the user's own, newest
// first.
func (s *postService) Feed(ctx context.Context, userID uuid.UUID, page repository.Page) ([]model.Post, *repository.PageInfo, error) {
	authorIDs, err := s.repos.Follows.AcceptedFollowingIDs(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list followees: %w", err)
	}
	authorIDs = append(authorIDs, userID)

	posts, total, err := s.repos.Posts.Feed(ctx, userID, authorIDs, page)
	if err != nil {
		return nil, nil, fmt.Errorf("load feed: %w", err)
	}

	// Feed authors are accepted followees or the user, so anything the query
	// let through beyond that is dropped here rather than served.
	visible := posts[:0]
	for i := range posts {
		if posts[i].CanView(userID, true) {
			visible = append(visible, posts[i])
		}
	}
	return visible, repository.NewPageInfo(total, page), nil
}

// Search matches public posts by caption or hashtag substring.
func (s *postService) Search(ctx context.Context, text string, page repository.Page) ([]model.Post, *repository.PageInfo, error) {
	posts, total, err := s.repos.Posts.Search(ctx, text, page)
	if err != nil {
		return nil, nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, repository.NewPageInfo(total, page), nil
}

// SuggestHashtags asks the caption generator for hashtag suggestions.
func (s *postService) SuggestHashtags(ctx context.Context, caption string) ([]string, error) {
	if s.captions == nil {
		return nil, apperrors.ErrProviderFailure
	}
	tags, err := s.captions.Hashtags(ctx, caption)
	if err != nil {
		return nil, apperrors.ErrProviderFailure
	}
	return tags, nil
}

// describeMedia is best effort: a generator failure leaves the caption
// empty instead of failing the post.
func (s *postService) describeMedia(ctx context.Context, ownerID, mediaID uuid.UUID) string {
	media, err := s.repos.Media.FindByID(ctx, mediaID)
	if err != nil || media.OwnerID != ownerID {
		return ""
	}
	caption, err := s.captions.Describe(ctx, media.URL)
	if err != nil {
		log.Printf("caption generation for media %s failed: %v", mediaID, err)
		return ""
	}
	return caption
}

// notifyMentions resolves @usernames and fans out mention notifications.
// Unknown usernames are skipped silently.
func (s *postService) notifyMentions(ctx context.Context, tx repository.Repos, post *model.Post, mentions []string) error {
	for _, username := range mentions {
		mentioned, err := tx.Users.FindByUsername(ctx, username)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return fmt.Errorf("resolve mention %q: %w", username, err)
		}
		if err := notify(ctx, tx, mentioned.ID, post.AuthorID, &post.ID, model.MentionPayload{PostID: post.ID}); err != nil {
			return fmt.Errorf("notify mention: %w", err)
		}
	}
	return nil
}
