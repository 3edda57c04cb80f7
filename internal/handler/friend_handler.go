package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// FriendHandler handles the friend-request lifecycle.
type FriendHandler struct {
	friendService service.FriendService
}

// NewFriendHandler creates a new friend handler.
func NewFriendHandler(friendService service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// Request godoc
// @Summary Send a friend request
// @Tags friends
// @Produce json
// @Param id path string true "User ID"
// @Success 201 {object} model.Friend
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/friend-request [post]
func (h *FriendHandler) Request(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	friend, err := h.friendService.Request(c.Request().Context(), currentUserID(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, friend)
}

// Accept godoc
// @Summary Accept a friend request
// @Tags friends
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /friend-requests/{id}/accept [post]
func (h *FriendHandler) Accept(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendService.Accept(c.Request().Context(), currentUserID(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend request accepted"})
}

// Reject godoc
// @Summary Reject a friend request
// @Tags friends
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /friend-requests/{id}/reject [post]
func (h *FriendHandler) Reject(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendService.Reject(c.Request().Context(), currentUserID(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend request rejected"})
}

// Cancel godoc
// @Summary Withdraw your own pending friend request
// @Tags friends
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /friend-requests/{id} [delete]
func (h *FriendHandler) Cancel(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendService.Cancel(c.Request().Context(), currentUserID(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend request cancelled"})
}

// Remove godoc
// @Summary Remove a friend
// @Tags friends
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /friends/{id} [delete]
func (h *FriendHandler) Remove(c echo.Context) error {
	friendID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendService.Remove(c.Request().Context(), currentUserID(c), friendID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "friend removed"})
}

// ListFriends godoc
// @Summary Current user's friends
// @Tags friends
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /friends [get]
func (h *FriendHandler) ListFriends(c echo.Context) error {
	friends, pageInfo, err := h.friendService.ListFriends(c.Request().Context(), currentUserID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: friends, Pagination: pageInfo})
}

// ListIncoming godoc
// @Summary Incoming friend requests
// @Tags friends
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /friend-requests [get]
func (h *FriendHandler) ListIncoming(c echo.Context) error {
	friends, pageInfo, err := h.friendService.ListIncoming(c.Request().Context(), currentUserID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: friends, Pagination: pageInfo})
}

// ListSent godoc
// @Summary Sent friend requests
// @Tags friends
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Security BearerAuth
// @Router /friend-requests/sent [get]
func (h *FriendHandler) ListSent(c echo.Context) error {
	friends, pageInfo, err := h.friendService.ListSent(c.Request().Context(), currentUserID(c), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: friends, Pagination: pageInfo})
}
