package handler

import (
	"project-tracker/internal/middleware"
	"project-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project listing HTTP requests
type ProjectHandler struct {
	service service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ListProjects godoc
// @Summary List the signed-in user's projects
// @Description Returns the projects owned by the caller, newest first
// @Tags projects
// @Produce json
// @Success 200 {object} dto.ProjectListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)

	resp, err := h.service.ListProjects(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
