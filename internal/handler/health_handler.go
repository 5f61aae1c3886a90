package handler

import (
	"project-tracker/internal/domain"
	"project-tracker/internal/dto"
	"project-tracker/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// HealthHandler reports liveness of the service and its backing stores
type HealthHandler struct {
	db    *sqlx.DB
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *sqlx.DB, cache domain.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary Health check of the API and its backing stores
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:     "ok",
		Components: map[string]string{"database": "ok", "cache": "ok"},
	}

	if err := h.db.PingContext(c.Context()); err != nil {
		logger.Get().Warn("Database health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Components["database"] = "unreachable"
	}
	if err := h.cache.Ping(c.Context()); err != nil {
		logger.Get().Warn("Cache health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Components["cache"] = "unreachable"
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
