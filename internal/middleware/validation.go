package middleware

import (
	"project-tracker/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Keys for validated values stored in fiber.Ctx locals.
const (
	ValidatedWorkstreamKey = "validated_workstream"
	ValidatedSessionIDKey  = "validated_session_id"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateWorkstream validates the workstream path parameter and stores the
// parsed number in context for handlers to use.
func (vm *ValidationMiddleware) ValidateWorkstream() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, errs := vm.validator.ValidateWorkstream(c.Params("workstream"))
		if len(errs) > 0 {
			return errs // Handled by ErrorHandler middleware
		}
		c.Locals(ValidatedWorkstreamKey, ws)
		return c.Next()
	}
}

// ValidateSessionID validates the sessionID path parameter.
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("sessionID")
		if errs := vm.validator.ValidateSessionID(sessionID); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedSessionIDKey, sessionID)
		return c.Next()
	}
}
