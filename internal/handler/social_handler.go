package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// SocialHandler handles like toggles and the follow graph.
type SocialHandler struct {
	socialService service.SocialService
}

// NewSocialHandler creates a new social handler.
func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// ToggleLike godoc
// @Summary Toggle a like on a post
// @Tags social
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} service.ToggleResult
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (h *SocialHandler) ToggleLike(c echo.Context) error {
	postID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.socialService.ToggleLike(c.Request().Context(), currentUserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ToggleFollow godoc
// @Summary Toggle following a user
// @Description Private accounts get a pending request instead of an immediate follow.
// @Tags social
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.ToggleResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/follow [post]
func (h *SocialHandler) ToggleFollow(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.socialService.ToggleFollow(c.Request().Context(), currentUserID(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AcceptFollowRequest godoc
// @Summary Accept a pending follow request
// @Tags social
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/{id}/accept [post]
func (h *SocialHandler) AcceptFollowRequest(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialService.AcceptFollowRequest(c.Request().Context(), currentUserID(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "follow request accepted"})
}

// RejectFollowRequest godoc
// @Summary Reject a pending follow request
// @Tags social
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /follow-requests/{id}/reject [post]
func (h *SocialHandler) RejectFollowRequest(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialService.RejectFollowRequest(c.Request().Context(), currentUserID(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "follow request rejected"})
}

// RemoveFollower godoc
// @Summary Remove one of your followers
// @Tags social
// @Produce json
// @Param id path string true "Follower user ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /followers/{id} [delete]
func (h *SocialHandler) RemoveFollower(c echo.Context) error {
	followerID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.socialService.RemoveFollower(c.Request().Context(), currentUserID(c), followerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "follower removed"})
}

// ListFollowers godoc
// @Summary A user's followers
// @Tags social
// @Produce json
// @Param id path string true "User ID"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /users/{id}/followers [get]
func (h *SocialHandler) ListFollowers(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	follows, pageInfo, err := h.socialService.ListFollowers(c.Request().Context(), userID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: follows, Pagination: pageInfo})
}

// ListFollowing godoc
// @Summary Users a user follows
// @Tags social
// @Produce json
// @Param id path string true "User ID"
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /users/{id}/following [get]
func (h *SocialHandler) ListFollowing(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	follows, pageInfo, err := h.socialService.ListFollowing(c.Request().Context(), userID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: follows, Pagination: pageInfo})
}

// ListFollowRequests godoc
// @Summary Pending follow requests addressed to the current user
// @Tags social
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /follow-requests [get]
func (h *SocialHandler) ListFollowRequests(c echo.Context) error {
	follows, pageInfo, err := h.socialService.ListFollowRequests(c.Request().Context(), currentUserID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: follows, Pagination: pageInfo})
}
