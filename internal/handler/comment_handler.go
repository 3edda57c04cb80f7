package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// CommentHandler handles threaded comments on posts.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentUpdateRequest carries an edited comment body.
type CommentUpdateRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// Create godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body service.CommentInput true "Comment fields"
// @Success 201 {object} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.CommentInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), currentUserID(c), postID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Update godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param request body CommentUpdateRequest true "New text"
// @Success 200 {object} model.Comment
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [patch]
func (h *CommentHandler) Update(c echo.Context) error {
	commentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req CommentUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Update(c.Request().Context(), currentUserID(c), commentID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete a comment
// @Description The comment author, the post author or a moderator may delete.
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	commentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Request().Context(), currentUserID(c), currentRole(c), commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted"})
}

// ListByPost godoc
// @Summary Comments on a post
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	comments, pageInfo, err := h.commentService.ListByPost(c.Request().Context(), currentUserID(c), postID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: comments, Pagination: pageInfo})
}
