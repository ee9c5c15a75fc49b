package middleware

import (
	"time"

	"mocktest-engine/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per HTTP request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if userID, ok := c.Locals(UserIDKey).(string); ok {
			fields = append(fields, zap.String("user_id", userID))
		}
		logger.Get().Info("HTTP Request", fields...)
		return err
	}
}
