package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/service"
)

// MediaHandler handles media uploads.
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload godoc
// @Summary Upload a media file
// @Description Uploaded media is unattached until a post claims it.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Success 201 {object} model.Media
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /media [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	media, err := h.mediaService.Upload(c.Request().Context(), currentUserID(c), data,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, media)
}

// Delete godoc
// @Summary Delete an unattached media file
// @Tags media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c echo.Context) error {
	mediaID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.mediaService.Delete(c.Request().Context(), currentUserID(c), mediaID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "media deleted"})
}
