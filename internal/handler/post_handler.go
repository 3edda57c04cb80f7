package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// PostHandler handles post CRUD, the feed and search endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// HashtagSuggestRequest carries caption text for hashtag suggestions.
type HashtagSuggestRequest struct {
	Caption string `json:"caption" validate:"required,max=2000"`
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.PostInput true "Post fields"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req service.PostInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// Get godoc
// @Summary Post by id
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postService.GetByID(c.Request().Context(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary Edit a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body service.PostInput true "Post fields"
// @Success 200 {object} model.Post
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.PostInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Update(c.Request().Context(), currentUserID(c), postID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), currentUserID(c), currentRole(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// ListByAuthor godoc
// @Summary Posts by a user
// @Tags posts
// @Produce json
// @Param id path string true "Author ID"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /users/{id}/posts [get]
func (h *PostHandler) ListByAuthor(c echo.Context) error {
	authorID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	posts, pageInfo, err := h.postService.ListByAuthor(c.Request().Context(), currentUserID(c), authorID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: posts, Pagination: pageInfo})
}

// Feed godoc
// @Summary Home feed
// @Description Posts by accepted followees plus the user's own, newest first.
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /feed [get]
func (h *PostHandler) Feed(c echo.Context) error {
	posts, pageInfo, err := h.postService.Feed(c.Request().Context(), currentUserID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: posts, Pagination: pageInfo})
}

// Search godoc
// @Summary Search public posts
// @Tags posts
// @Produce json
// @Param q query string true "Caption or hashtag substring"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	posts, pageInfo, err := h.postService.Search(c.Request().Context(), c.QueryParam("q"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: posts, Pagination: pageInfo})
}

// SuggestHashtags godoc
// @Summary Hashtag suggestions for a caption
// @Tags posts
// @Accept json
// @Produce json
// @Param request body HashtagSuggestRequest true "Caption text"
// @Success 200 {object} map[string][]string
// @Failure 502 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/suggest-hashtags [post]
func (h *PostHandler) SuggestHashtags(c echo.Context) error {
	var req HashtagSuggestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tags, err := h.postService.SuggestHashtags(c.Request().Context(), req.Caption)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hashtags": tags})
}
