package handler

import (
	"project-tracker/internal/domain"
	"project-tracker/internal/dto"
	"project-tracker/internal/logger"
	"project-tracker/internal/middleware"
	"project-tracker/internal/service"
	"project-tracker/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormHandler handles form rendering and submission HTTP requests
type FormHandler struct {
	service   service.FormService
	validator *validation.Validator
}

// NewFormHandler creates a new FormHandler instance
func NewFormHandler(service service.FormService) *FormHandler {
	return &FormHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// StartSession godoc
// @Summary Start a form session
// @Description Creates a fresh render session for a workstream and returns the first rendered view
// @Tags forms
// @Accept json
// @Produce json
// @Param workstream path int true "Workstream number (1-5)"
// @Success 201 {object} dto.FormViewResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /forms/{workstream}/sessions [post]
func (h *FormHandler) StartSession(c *fiber.Ctx) error {
	ws := c.Locals(middleware.ValidatedWorkstreamKey).(int)

	view, err := h.service.StartSession(c.Context(), ws)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetForm godoc
// @Summary Get the rendered form state
// @Description Re-renders an existing session against its stored answers
// @Tags forms
// @Accept json
// @Produce json
// @Param workstream path int true "Workstream number (1-5)"
// @Param sessionID path string true "Render session ID"
// @Success 200 {object} dto.FormViewResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /forms/{workstream}/sessions/{sessionID} [get]
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	ws := c.Locals(middleware.ValidatedWorkstreamKey).(int)
	sessionID := c.Locals(middleware.ValidatedSessionIDKey).(string)

	view, err := h.service.GetForm(c.Context(), ws, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// SaveAnswers godoc
// @Summary Save answers into a session
// @Description Merges raw answer values into the session and returns the re-rendered view
// @Tags forms
// @Accept json
// @Produce json
// @Param workstream path int true "Workstream number (1-5)"
// @Param sessionID path string true "Render session ID"
// @Param answers body dto.SaveAnswersRequest true "Answers keyed by question_id"
// @Success 200 {object} dto.FormViewResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /forms/{workstream}/sessions/{sessionID} [put]
func (h *FormHandler) SaveAnswers(c *fiber.Ctx) error {
	ws := c.Locals(middleware.ValidatedWorkstreamKey).(int)
	sessionID := c.Locals(middleware.ValidatedSessionIDKey).(string)

	var req dto.SaveAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body is not valid JSON")
	}
	if errs := h.validator.ValidateSaveAnswersRequest(req.Answers); len(errs) > 0 {
		return errs
	}

	view, err := h.service.SaveAnswers(c.Context(), ws, sessionID, req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Submit godoc
// @Summary Submit a form session
// @Description Validates the converged answers and stores one tracking entry for the project
// @Tags forms
// @Accept json
// @Produce json
// @Param workstream path int true "Workstream number (1-5)"
// @Param sessionID path string true "Render session ID"
// @Param submission body dto.SubmitRequest true "Project context and final answers"
// @Success 201 {object} dto.SubmitResponse
// @Failure 400 {object} middleware.ErrorResponse "Required fields missing"
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Storage failure; session retained"
// @Security BearerAuth
// @Router /forms/{workstream}/sessions/{sessionID}/submit [post]
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	ws := c.Locals(middleware.ValidatedWorkstreamKey).(int)
	sessionID := c.Locals(middleware.ValidatedSessionIDKey).(string)
	userID, _ := c.Locals(middleware.UserIDKey).(string)

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body is not valid JSON")
	}
	if errs := h.validator.ValidateSubmitRequest(req.ProjectID, req.Answers); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.Submit(c.Context(), ws, sessionID, userID, req)
	if err != nil {
		return err
	}

	logger.Get().Info("Tracking entry stored",
		zap.String("submission_id", resp.SubmissionID),
		zap.String("project_id", resp.ProjectID),
		zap.String("workstream", resp.Workstream),
	)
	return c.Status(fiber.StatusCreated).JSON(resp)
}
