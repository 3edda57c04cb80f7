package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"socialnet/internal/model"
	"socialnet/internal/service"
)

// ReportHandler handles filing and moderating reports.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create godoc
// @Summary File a report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body service.ReportInput true "Report fields"
// @Success 201 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req service.ReportInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	report, err := h.reportService.Create(c.Request().Context(), currentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

// List godoc
// @Summary List reports (moderation)
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status" Enums(open, resolved, dismissed)
// @Param page query int false "Page number"
// @Success 200 {object} listResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /moderation/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	status := model.ReportStatus(c.QueryParam("status"))
	reports, pageInfo, err := h.reportService.List(c.Request().Context(), status, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: reports, Pagination: pageInfo})
}

// Resolve godoc
// @Summary Resolve a report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /moderation/reports/{id}/resolve [post]
func (h *ReportHandler) Resolve(c echo.Context) error {
	reportID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reportService.Resolve(c.Request().Context(), currentUserID(c), reportID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "report resolved"})
}

// Dismiss godoc
// @Summary Dismiss a report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /moderation/reports/{id}/dismiss [post]
func (h *ReportHandler) Dismiss(c echo.Context) error {
	reportID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reportService.Dismiss(c.Request().Context(), currentUserID(c), reportID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "report dismissed"})
}
