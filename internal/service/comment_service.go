package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/metrics"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

const commentPreviewLen = 80

// CommentInput carries the fields for creating or editing a comment.
type CommentInput struct {
	Text     string     `json:"text" validate:"required,max=1000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CommentService covers threaded comments on posts.
type CommentService interface {
	Create(ctx context.Context, userID, postID uuid.UUID, input CommentInput) (*model.Comment, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, text string) (*model.Comment, error)
	Delete(ctx context.Context, userID uuid.UUID, userRole model.Role, commentID uuid.UUID) error
	ListByPost(ctx context.Context, viewerID, postID uuid.UUID, page repository.Page) ([]model.Comment, *repository.PageInfo, error)
}

type commentService struct {
	repos repository.Repos
}

// NewCommentService creates a new comment service.
func NewCommentService(repos repository.Repos) CommentService {
	return &commentService{repos: repos}
}

// Create adds a comment, optionally threaded under a parent on the same
// post, bumps the comment counter and notifies the post author.
func (s *commentService) Create(ctx context.Context, userID, postID uuid.UUID, input CommentInput) (*model.Comment, error) {
	post, err := s.visiblePost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	var comment *model.Comment
	err = s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		if input.ParentID != nil {
			parent, err := tx.Comments.FindByID(ctx, *input.ParentID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.ErrCommentNotFound
				}
				return fmt.Errorf("find parent comment: %w", err)
			}
			if parent.PostID != postID {
				return apperrors.ErrCommentNotFound
			}
		}

		comment = &model.Comment{PostID: postID, AuthorID: userID, ParentID: input.ParentID, Text: input.Text}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		if err := tx.Posts.AdjustCounter(ctx, postID, "comments_count", 1); err != nil {
			return fmt.Errorf("adjust comments count: %w", err)
		}

		metrics.SocialActionsTotal.WithLabelValues("comment").Inc()
		return notify(ctx, tx, post.AuthorID, userID, &postID, model.CommentPayload{
			PostID:    postID,
			CommentID: comment.ID,
			Preview:   preview(input.Text),
		})
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Update edits the comment text. Author only.
func (s *commentService) Update(ctx context.Context, userID, commentID uuid.UUID, text string) (*model.Comment, error) {
	comment, err := s.repos.Comments.FindByID(ctx, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment.AuthorID != userID {
		return nil, apperrors.ErrForbidden
	}

	comment.Text = text
	comment.Edited = true
	if err := s.repos.Comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment. The comment author, the post author or a
// moderator may delete.
func (s *commentService) Delete(ctx context.Context, userID uuid.UUID, userRole model.Role, commentID uuid.UUID) error {
	comment, err := s.repos.Comments.FindByID(ctx, commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}

	if comment.AuthorID != userID && !userRole.AtLeast(model.RoleModerator) {
		post, err := s.repos.Posts.FindByID(ctx, comment.PostID)
		if err != nil {
			return fmt.Errorf("find post: %w", err)
		}
		if post.AuthorID != userID {
			return apperrors.ErrForbidden
		}
	}

	return s.repos.WithTransaction(ctx, func(tx repository.Repos) error {
		if err := tx.Comments.Delete(ctx, commentID); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return tx.Posts.AdjustCounter(ctx, comment.PostID, "comments_count", -1)
	})
}

func (s *commentService) ListByPost(ctx context.Context, viewerID, postID uuid.UUID, page repository.Page) ([]model.Comment, *repository.PageInfo, error) {
	if _, err := s.visiblePost(ctx, viewerID, postID); err != nil {
		return nil, nil, err
	}

	comments, total, err := s.repos.Comments.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, repository.NewPageInfo(total, page), nil
}

func (s *commentService) visiblePost(ctx context.Context, viewerID, postID uuid.UUID) (*model.Post, error) {
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
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= commentPreviewLen {
		return text
	}
	return string(runes[:commentPreviewLen])
}
