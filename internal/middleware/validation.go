package middleware

import (
	"strings"

	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedIDKey          = "validated_id"
	ValidatedLeaderboardKey = "validated_leaderboard"
	ValidatedScoreKey       = "validated_score"
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

// ValidateIDParam checks that the named path parameter is a ULID.
func (vm *ValidationMiddleware) ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(name)
		if errs := vm.validator.ValidateID(name, id); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidateLeaderboardParams parses and validates leaderboard query filters.
func (vm *ValidationMiddleware) ValidateLeaderboardParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.LeaderboardRequest
		if err := c.QueryParser(&req); err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("query", string(c.Request().URI().QueryString()))}
		}
		req.CourseID = strings.TrimSpace(req.CourseID)
		if errs := vm.validator.ValidateLeaderboardRequest(&req); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedLeaderboardKey, req)
		return c.Next()
	}
}

// ValidateScoreQuery parses the score query parameter used for rank prediction.
func (vm *ValidationMiddleware) ValidateScoreQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		score, errs := vm.validator.ParseScore(c.Query("score"))
		if len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedScoreKey, score)
		return c.Next()
	}
}
