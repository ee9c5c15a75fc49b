package handler

import (
	"context"
	"time"

	"mocktest-engine/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthResponse reports the state of every dependency.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler answers liveness probes
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a handler running the given named checks. Nil checks are skipped.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	active := make(map[string]HealthCheck, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandler{checks: active, timeout: 2 * time.Second}
}

// Health godoc
// @Summary Health check
// @Description Pings the store and the cache
// @Tags health
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Failure 503 {object} handler.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	res := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("check", name), zap.Error(err))
			res.Checks[name] = err.Error()
			res.Status = "degraded"
			continue
		}
		res.Checks[name] = "ok"
	}

	if res.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(res)
	}
	return c.JSON(res)
}
