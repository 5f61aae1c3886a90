package handler

import (
	"fmt"
	"time"

	"project-tracker/internal/middleware"
	"project-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles admin download and count HTTP requests
type ExportHandler struct {
	service service.ExportService
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(service service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Counts godoc
// @Summary Count tracking entries per workstream
// @Tags admin
// @Produce json
// @Success 200 {object} dto.WorkstreamCountsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /admin/counts [get]
func (h *ExportHandler) Counts(c *fiber.Ctx) error {
	resp, err := h.service.Counts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ExportWorkstream godoc
// @Summary Download one workstream's entries as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param workstream path int true "Workstream number (1-5)"
// @Success 200 {file} binary
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /admin/export/{workstream} [get]
func (h *ExportHandler) ExportWorkstream(c *fiber.Ctx) error {
	ws := c.Locals(middleware.ValidatedWorkstreamKey).(int)

	data, err := h.service.ExportWorkstream(c.Context(), ws)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tracking_ws%d_%s.xlsx", ws, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// ExportAll godoc
// @Summary Download all workstreams as one xlsx workbook
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 403 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /admin/export [get]
func (h *ExportHandler) ExportAll(c *fiber.Ctx) error {
	data, err := h.service.ExportAll(c.Context())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tracking_all_%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}
